package service

import (
	"errors"
	"fmt"

	"thermostat/internal/models"
)

var (
	// ErrTypeCoercion matches every *TypeCoercionError.
	ErrTypeCoercion   = errors.New("type coercion failed")
	ErrEmptyKey       = errors.New("setting key is empty")
	ErrEmptyProfile   = errors.New("profile has no control points")
	ErrUnknownDayType = errors.New("unknown day type: must be weekdays or weekends")
)

// TypeCoercionError reports a Set whose value does not fit the stored record's type.
type TypeCoercionError struct {
	Key  string
	From models.EntType
	To   models.EntType
	Err  error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("setting %q: cannot store %s value as %s: %v", e.Key, e.From, e.To, e.Err)
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }

func (e *TypeCoercionError) Is(target error) bool { return target == ErrTypeCoercion }
