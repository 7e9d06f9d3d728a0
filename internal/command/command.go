// Package command runs domain operations one at a time, each on its own
// database session, and reports their outcome as a Response instead of an
// error.
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status is the outcome of a command.
type Status string

const (
	Completed Status = "COMPLETED"
	Rejected  Status = "REJECTED"
	Failed    Status = "FAILED"
)

// Response carries the result of one command. Reason is set unless the
// command completed.
type Response[T any] struct {
	Status Status `json:"status"`
	Body   T      `json:"body,omitempty"`
	Reason string `json:"reason,omitempty"`

	// Err is the error the command failed with, kept for callers that need
	// to tell a missing row from a storage failure.
	Err error `json:"-"`
}

// OK reports whether the command completed.
func (r Response[T]) OK() bool {
	return r.Status == Completed
}

// NotFound reports whether the command failed on a missing row.
func (r Response[T]) NotFound() bool {
	return r.Status == Failed && errors.Is(r.Err, crud.ErrNotFound)
}

// Dispatcher serializes commands on a database. Every command gets a
// dedicated connection, released once the command returns.
type Dispatcher struct {
	db   *gorm.DB
	mu   sync.Mutex
	log  *zap.Logger
	opts []services.Option
}

// NewDispatcher builds a Dispatcher on db. opts are applied to the ledger of
// every command.
func NewDispatcher(db *gorm.DB, log *zap.Logger, opts ...services.Option) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{db: db, log: log, opts: opts}
}

// Do runs fn on a ledger bound to a fresh connection and classifies its
// outcome. Calls queue on the dispatcher in arrival order. A panic in fn is
// reported as FAILED.
func Do[T any](ctx context.Context, d *Dispatcher, op string, fn func(l *services.Ledger) (T, error)) Response[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	log := d.log.With(zap.String("op", op), zap.String("correlation_id", uuid.NewString()))
	log.Debug("command.start")

	var body T
	err := d.db.WithContext(ctx).Connection(func(conn *gorm.DB) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("command.panic", zap.Any("panic", r), zap.Stack("stack"))
				err = fmt.Errorf("unexpected error: %v", r)
			}
		}()
		opts := append([]services.Option{services.WithLogger(log)}, d.opts...)
		body, err = fn(services.NewLedger(conn, opts...))
		return err
	})

	resp := Response[T]{Status: Classify(err), Err: err}
	switch resp.Status {
	case Completed:
		resp.Body = body
		log.Info("command.completed")
	case Rejected:
		resp.Reason = Reason(op, err)
		log.Warn("command.rejected", zap.String("reason", resp.Reason))
	default:
		resp.Reason = Reason(op, err)
		log.Error("command.failed", zap.String("reason", resp.Reason), zap.Error(err))
	}
	return resp
}

// Exec runs a command without a body.
func Exec(ctx context.Context, d *Dispatcher, op string, fn func(l *services.Ledger) error) Response[struct{}] {
	return Do(ctx, d, op, func(l *services.Ledger) (struct{}, error) {
		return struct{}{}, fn(l)
	})
}

// Classify maps an operation error onto a command status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return Completed
	case errors.Is(err, services.ErrRejected), errors.Is(err, crud.ErrIntegrity):
		return Rejected
	default:
		return Failed
	}
}

// Reason formats err for a response, prefixed with the operation name.
func Reason(op string, err error) string {
	if err == nil {
		return ""
	}
	return op + " - " + err.Error()
}
