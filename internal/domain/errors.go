package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPercentage = errors.New("percentage must be greater than or equal to -100")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrInvalidOrder      = errors.New("invalid order")
)

// SourceError reports which source of a lookup chain failed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
