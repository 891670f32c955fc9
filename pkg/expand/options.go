package expand

import "github.com/gofhir/shrexport/pkg/structdef"

// DefaultMaxDepth bounds definition nesting.
const DefaultMaxDepth = 256

// Options configures an Expander.
type Options struct {
	// BaseURL is the canonical base used for reference target profiles.
	BaseURL string

	// StrictPrimitives fails expansion on an unrecognized primitive type
	// instead of warning and treating it as string.
	StrictPrimitives bool

	// MaxDepth limits how many definitions may nest. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Option configures Options.
type Option func(*Options)

// WithBaseURL sets the canonical base for reference targets.
func WithBaseURL(base string) Option {
	return func(o *Options) {
		if base != "" {
			o.BaseURL = base
		}
	}
}

// WithStrictPrimitives enables or disables strict primitive checking.
func WithStrictPrimitives(strict bool) Option {
	return func(o *Options) {
		o.StrictPrimitives = strict
	}
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.MaxDepth = depth
		}
	}
}

func defaultOptions() Options {
	return Options{
		BaseURL:  structdef.DefaultBaseURL,
		MaxDepth: DefaultMaxDepth,
	}
}
