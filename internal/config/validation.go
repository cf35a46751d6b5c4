package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks a fully merged configuration.
func Validate(config Config) error {
	var errs ValidationErrors

	switch config.Server.Scheme {
	case "http", "https":
	default:
		errs.Add("server.scheme", "must be http or https", config.Server.Scheme)
	}
	if strings.TrimSpace(config.Server.Host) == "" {
		errs.Add("server.host", "is required")
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		errs.Add("server.port", "must be between 1 and 65535", config.Server.Port)
	}
	if config.Session.RequestTimeout <= 0 {
		errs.Add("session.requestTimeout", "must be positive", config.Session.RequestTimeout)
	}
	if config.Session.RefreshInterval <= 0 {
		errs.Add("session.refreshInterval", "must be positive", config.Session.RefreshInterval)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
