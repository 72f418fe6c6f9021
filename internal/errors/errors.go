package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidYAML     = errors.New("invalid YAML")
	ErrComplexKey      = errors.New("mapping key is a sequence or mapping and has no JSON equivalent")
	ErrRecursiveAlias  = errors.New("alias refers to a node that contains it")
	ErrNonFiniteNumber = errors.New("infinity and NaN cannot be represented in JSON")
	ErrOutputDir       = errors.New("output directory does not exist")

	ErrMultipleDocuments = errors.New("expected a single document in the stream")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput  ErrorType = "input"
	ErrorTypeDecode ErrorType = "decode"
	ErrorTypeEncode ErrorType = "encode"
	ErrorTypeOutput ErrorType = "output"
	ErrorTypeConfig ErrorType = "config"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading the input file
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewDecodeError creates a new error related to YAML decoding
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewEncodeError creates a new error related to JSON encoding
func NewEncodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeEncode,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to writing the output file
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	return errors.Is(err, &AppError{Type: t})
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Err != nil {
			msg = fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
		}
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", msg)
		case ErrorTypeDecode:
			return fmt.Sprintf("YAML decode error: %s", msg)
		case ErrorTypeEncode:
			return fmt.Sprintf("JSON encode error: %s", msg)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", msg)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", msg)
		default:
			return fmt.Sprintf("Error: %s", msg)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrInvalidYAML) {
		return "Error: The input contains invalid YAML. Please check your YAML syntax."
	}
	if errors.Is(err, ErrOutputDir) {
		return "Error: The output directory does not exist."
	}

	return fmt.Sprintf("Error: %v", err)
}
