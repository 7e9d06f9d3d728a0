package main

import (
	"net/http"
	"time"

	"github.com/diewo77/go-facto/httpx"
	"github.com/diewo77/go-facto/internal/command"
	"github.com/diewo77/go-facto/internal/handlers"
	"go.uber.org/zap"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	log *zap.Logger
}

func NewApp(d *command.Dispatcher, log *zap.Logger) *App {
	app := &App{mux: http.NewServeMux(), log: log}
	app.mux.HandleFunc("GET /healthz", app.health)
	handlers.Register(app.mux, d)
	return app
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder keeps the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
