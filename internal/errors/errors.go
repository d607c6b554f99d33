package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid URL provided")
	ErrGenerationFailed = errors.New("failed to generate unique short code")
	ErrNotFound         = errors.New("short URL not found")

	// ErrShortCodeExists is reported by the backend when an insert hits the
	// short_code unique constraint.
	ErrShortCodeExists = errors.New("short code already exists")
)

const CodeGenerationFailed = "GENERATION_FAILED"

// Kind classifies errors returned by the shortener.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindGenerationFailed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindGenerationFailed:
		return "GenerationFailed"
	case KindNotFound:
		return "NotFound"
	case KindUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// KindOf reports the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrGenerationFailed):
		return KindGenerationFailed
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

// Is matches ErrGenerationFailed for errors built by NewGenerationError.
func (e *BusinessError) Is(target error) bool {
	return target == ErrGenerationFailed && e.Code == CodeGenerationFailed
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewGenerationError wraps the reason a short code could not be stored.
func NewGenerationError(cause error) *BusinessError {
	return NewBusinessError(CodeGenerationFailed, ErrGenerationFailed.Error(), cause)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}
