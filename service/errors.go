package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrDuplicateRecord      = errors.New("duplicate record")
	ErrNotPermitted         = errors.New("not permitted")
	ErrUploadsDisabled      = errors.New("uploads disabled")
)

// ValidationError carries the field errors of a failed validation. It
// matches ErrFailedValidation with errors.Is.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Errors[k])
	}
	return "failed validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrFailedValidation
}

// failedValidation wraps a validator's error map into a *ValidationError.
func (s *service) failedValidation(errorMap map[string]string) error {
	return &ValidationError{Errors: errorMap}
}
