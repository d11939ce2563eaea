package sync

import (
	"errors"
	"fmt"
)

// TemplateNotFoundError indicates that an implementation's declared template
// name does not resolve to a known project. A dangling template reference is
// a configuration error, not a transient fault: the sync call fails before
// any state has been touched, and nothing is retried.
type TemplateNotFoundError struct {
	Template       string
	Implementation string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("cannot find template [%s] used by project [%s]", e.Template, e.Implementation)
}

// IsTemplateNotFound reports whether err is a TemplateNotFoundError.
func IsTemplateNotFound(err error) bool {
	var notFound *TemplateNotFoundError
	return errors.As(err, &notFound)
}

// ConfigReadError indicates that a template's config document could not be
// read or decoded. The merge performs the overwrite only after a successful
// read, so the implementation's state is exactly as it was before the call.
type ConfigReadError struct {
	Template string
	Err      error
}

func (e *ConfigReadError) Error() string {
	return fmt.Sprintf("cannot read config document of template [%s]: %v", e.Template, e.Err)
}

func (e *ConfigReadError) Unwrap() error {
	return e.Err
}

// IsConfigRead reports whether err is a ConfigReadError.
func IsConfigRead(err error) bool {
	var readErr *ConfigReadError
	return errors.As(err, &readErr)
}
