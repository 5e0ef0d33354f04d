package plugin

import (
	"errors"
	"fmt"
)

// ErrDiscarded marks an update whose result was thrown away because the
// runtime was invalidated while it ran. It is informational, not a failure.
var ErrDiscarded = errors.New("plugin: update discarded")

// ConfigError reports malformed or missing plugin configuration. It is the
// only error kind that surfaces to the caller requesting instantiation; the
// plugin is never constructed.
type ConfigError struct {
	Plugin string
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "plugin " + e.Plugin + ": config"
	if e.Field != "" {
		msg += " field " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Configf builds a ConfigError for the given plugin and field.
func Configf(plugin, field, format string, args ...any) *ConfigError {
	return &ConfigError{
		Plugin: plugin,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
