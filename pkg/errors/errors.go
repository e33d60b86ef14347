package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport-level failures (connection, timeout)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeHTTP represents non-success HTTP responses
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeParse represents HTML parsing errors
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeCorruption represents an unreadable store document
	ErrorTypeCorruption ErrorType = "corruption"
	// ErrorTypeNotify represents webhook delivery failures
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeIDExhausted represents a failed unique-id assignment
	ErrorTypeIDExhausted ErrorType = "id_exhausted"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// DealError represents a pipeline-specific error
type DealError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *DealError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *DealError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error aborts the current run
func (e *DealError) IsFatal() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeHTTP, ErrorTypeParse:
		return true
	default:
		return false
	}
}

// New creates a new DealError
func New(errType ErrorType, component, message string, err error) *DealError {
	return &DealError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *DealError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewHTTP creates a new HTTP status error
func NewHTTP(component, message string, err error) *DealError {
	return New(ErrorTypeHTTP, component, message, err)
}

// NewParse creates a new parse error
func NewParse(component, message string, err error) *DealError {
	return New(ErrorTypeParse, component, message, err)
}

// NewCorruption creates a new store corruption error
func NewCorruption(component, message string, err error) *DealError {
	return New(ErrorTypeCorruption, component, message, err)
}

// NewNotify creates a new notification error
func NewNotify(component, message string, err error) *DealError {
	return New(ErrorTypeNotify, component, message, err)
}

// NewIDExhausted creates a new id exhaustion error
func NewIDExhausted(component string, attempts int) *DealError {
	message := fmt.Sprintf("no unique id after %d attempts", attempts)
	return New(ErrorTypeIDExhausted, component, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *DealError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a DealError of the given type
func IsType(err error, errType ErrorType) bool {
	var dealErr *DealError
	if errors.As(err, &dealErr) {
		return dealErr.Type == errType
	}
	return false
}
