package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-facto/internal/crud"
)

// ErrRejected is wrapped by every business-rule violation.
var ErrRejected = errors.New("rejected")

// RuleError is a business-rule violation detected before any write.
type RuleError struct {
	Msg string
}

func (e *RuleError) Error() string { return e.Msg }

func (e *RuleError) Unwrap() error { return ErrRejected }

func reject(format string, args ...any) error {
	return &RuleError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrQuantityInvalid = &RuleError{Msg: "item quantity shall be at least one"}
	ErrNameRequired    = &RuleError{Msg: "name is required"}
	ErrNegativePrice   = &RuleError{Msg: "unit price cannot be negative"}
	ErrRateOutOfRange  = &RuleError{Msg: "VAT rate must be between 0 and 100"}
	ErrPeriodConflict  = &RuleError{Msg: "a period filter and an explicit period are mutually exclusive"}
)

func isNotFound(err error) bool {
	return errors.Is(err, crud.ErrNotFound)
}
