package crud

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrIntegrity   = errors.New("integrity constraint violated")
	ErrPersistence = errors.New("persistence failure")
)

// OpError is returned by every repository call that fails. Kind is one of
// ErrNotFound, ErrIntegrity or ErrPersistence.
type OpError struct {
	Op     string
	Entity string
	Kind   error
	Err    error
}

func (e *OpError) Error() string {
	if e.Kind == ErrNotFound {
		return fmt.Sprintf("%s %s", e.Err, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s (%s)", e.Op, e.Entity, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func wrap(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return &OpError{Op: op, Entity: entity, Kind: classify(err), Err: err}
}

// classify maps driver and gorm errors onto the package sentinels. Both the
// postgres SQLSTATE class 23 and the sqlite constraint code denote a schema
// constraint refusing the statement.
func classify(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrIntegrity
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return ErrIntegrity
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return ErrIntegrity
	}
	return ErrPersistence
}
