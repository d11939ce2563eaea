package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with field context.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add appends a new validation error.
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for inconsistent values.
func (c Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs.Add("logLevel", fmt.Sprintf("unknown level %q", c.LogLevel))
	}

	r := c.Reconciler
	if r.WorkerCount < 0 {
		errs.Add("reconciler.workerCount", "must not be negative")
	}
	if r.MaxRetries < 0 {
		errs.Add("reconciler.maxRetries", "must not be negative")
	}
	if r.InitialBackoff < 0 {
		errs.Add("reconciler.initialBackoff", "must not be negative")
	}
	if r.MaxBackoff < 0 {
		errs.Add("reconciler.maxBackoff", "must not be negative")
	}
	if r.MaxBackoff > 0 && r.InitialBackoff > r.MaxBackoff {
		errs.Add("reconciler.maxBackoff", "must not be smaller than initialBackoff")
	}
	if r.DebounceInterval < 0 {
		errs.Add("reconciler.debounceInterval", "must not be negative")
	}
	if r.ReconcileTimeout < 0 {
		errs.Add("reconciler.reconcileTimeout", "must not be negative")
	}

	return errs
}
