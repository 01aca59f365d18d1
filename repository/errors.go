package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input data")
	ErrStore        = errors.New("store failure")
)

// Error is a classified error whose message is safe to show a client.
// errors.Is matches its Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) *Error { return &Error{Kind: ErrNotFound, Msg: msg} }
func Invalid(msg string) *Error  { return &Error{Kind: ErrInvalidInput, Msg: msg} }

// Wrap classifies a gorm error: record-not-found becomes ErrNotFound,
// anything else ErrStore. op names the failed step for the log.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrStore) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
