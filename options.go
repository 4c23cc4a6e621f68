package acorn

import "go.uber.org/zap"

// buildOptions holds the settings applied by [Collection.Build].
type buildOptions struct {
	logger   *zap.Logger
	validate bool
}

// BuildOption configures a [Provider] during [Collection.Build].
type BuildOption func(*buildOptions)

// WithLogger sets the logger the provider reports activations to. The
// default discards everything.
func WithLogger(l *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithValidation makes Build walk every registered service's constructor
// graph and fail when a service could never be activated without overrides.
// Nothing is instantiated during validation.
func WithValidation() BuildOption {
	return func(o *buildOptions) {
		o.validate = true
	}
}
