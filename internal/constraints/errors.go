package constraints

import (
	"github.com/vk/energridgo/internal/options"
)

// optionNotSet reports required configuration that is missing.
func optionNotSet(y, x, format string, args ...any) error {
	return options.NewConfigError(options.ErrOptionNotSet, y, x, format, args...)
}

// invalidOption reports an option whose value is not one of the accepted ones.
func invalidOption(y, x, format string, args ...any) error {
	return options.NewConfigError(options.ErrInvalidOption, y, x, format, args...)
}

// modelError reports a configuration that cannot be expressed as a model.
func modelError(y, x, format string, args ...any) error {
	return options.NewConfigError(options.ErrModel, y, x, format, args...)
}
