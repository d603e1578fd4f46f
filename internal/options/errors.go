package options

import (
	"errors"
	"fmt"
)

// Error kinds raised while building a model. Test with errors.Is.
var (
	// ErrInvalidOption marks an option whose value has the wrong type or
	// is not one of the accepted values.
	ErrInvalidOption = errors.New("invalid option value")
	// ErrModel marks a configuration that is well-formed but cannot be
	// expressed as a model, e.g. an infinite "equals" bound.
	ErrModel = errors.New("model error")
)

// ConfigError describes a fatal configuration problem found while
// resolving options for a (tech, location) pair.
type ConfigError struct {
	Kind     error
	Tech     string
	Location string
	Msg      string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Tech != "" && e.Location != "":
		return fmt.Sprintf("%v: %s at %s: %s", e.Kind, e.Tech, e.Location, e.Msg)
	case e.Tech != "":
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Tech, e.Msg)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
}

// Unwrap exposes the kind to errors.Is.
func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(kind error, y, x, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, Tech: y, Location: x, Msg: fmt.Sprintf(format, args...)}
}
