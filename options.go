package shrexport

import (
	"runtime"

	"github.com/gofhir/shrexport/pkg/constraint"
	"github.com/gofhir/shrexport/pkg/structdef"
)

// Option configures the Exporter.
type Option func(*Options)

// Options holds all configuration for the Exporter.
type Options struct {
	// Document header
	BaseURL   string
	Publisher string
	Status    string

	// Expansion
	StrictPrimitives bool
	MaxDepth         int

	// Document invariants
	ValidateConstraints bool
	Invariants          []constraint.Invariant

	// Treat warnings as errors when deciding whether a document is valid
	StrictMode bool

	// Performance
	WorkerCount   int
	MaxDocuments  int
	EnablePooling bool

	// Assembled documents kept per entry; 0 disables the cache
	DocumentCacheSize int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   structdef.DefaultBaseURL,
		Publisher: structdef.DefaultPublisher,
		Status:    structdef.DefaultStatus,

		StrictPrimitives: false,
		MaxDepth:         0, // expander default

		ValidateConstraints: true,

		WorkerCount:   runtime.NumCPU(),
		MaxDocuments:  0, // unlimited
		EnablePooling: true,

		DocumentCacheSize: 0,
	}
}

// --- Header Options ---

// WithBaseURL sets the canonical base of document URLs and reference targets.
func WithBaseURL(base string) Option {
	return func(o *Options) {
		if base != "" {
			o.BaseURL = base
		}
	}
}

// WithPublisher sets the document publisher.
func WithPublisher(publisher string) Option {
	return func(o *Options) {
		if publisher != "" {
			o.Publisher = publisher
		}
	}
}

// WithStatus sets the document status.
func WithStatus(status string) Option {
	return func(o *Options) {
		if status != "" {
			o.Status = status
		}
	}
}

// --- Expansion Options ---

// WithStrictPrimitives fails a document on an unrecognized primitive type
// instead of warning and rendering it as string.
func WithStrictPrimitives(enable bool) Option {
	return func(o *Options) {
		o.StrictPrimitives = enable
	}
}

// WithMaxDepth limits definition nesting. Use 0 for the expander default.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		if depth >= 0 {
			o.MaxDepth = depth
		}
	}
}

// --- Invariant Options ---

// WithConstraints enables checking of document invariants.
func WithConstraints(enable bool) Option {
	return func(o *Options) {
		o.ValidateConstraints = enable
	}
}

// WithInvariants adds invariants checked after the built-in ones.
// Adding invariants enables constraint checking.
func WithInvariants(invariants ...constraint.Invariant) Option {
	return func(o *Options) {
		o.Invariants = append(o.Invariants, invariants...)
		o.ValidateConstraints = true
	}
}

// WithStrictMode treats warnings as errors.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// --- Performance Options ---

// WithWorkerCount sets the number of workers for batch export.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithDocumentCache keeps up to size assembled documents so that repeated
// exports of an entry skip expansion. Cached documents are shared between
// results and must not be modified. Use 0 to disable.
func WithDocumentCache(size int) Option {
	return func(o *Options) {
		if size >= 0 {
			o.DocumentCacheSize = size
		}
	}
}

// WithMaxDocuments caps how many entries a batch exports. Use 0 for unlimited.
func WithMaxDocuments(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MaxDocuments = n
		}
	}
}

// WithPooling enables or disables result pooling.
// Pooling reduces GC pressure but requires calling Release() on results.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// --- Presets ---

// FastOptions skips invariant checking.
func FastOptions() []Option {
	return []Option{
		WithConstraints(false),
		WithPooling(true),
	}
}

// StrictOptions fails on unknown primitives and treats warnings as errors.
func StrictOptions() []Option {
	return []Option{
		WithConstraints(true),
		WithStrictPrimitives(true),
		WithStrictMode(true),
	}
}
