package errs

import (
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrGone         = errors.New("gone")
	ErrConflict     = errors.New("conflict")
	ErrEmailExists  = errors.New("email already exists")
	ErrCredentials  = errors.New("invalid credentials")

	// ErrStorageRetry marks transient storage failures (serialization
	// conflicts, lock timeouts). The caller may retry the whole operation.
	ErrStorageRetry = errors.New("storage temporarily unavailable")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
