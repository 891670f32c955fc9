package shrexport

import (
	"runtime"
	"testing"

	"github.com/gofhir/shrexport/pkg/constraint"
	"github.com/gofhir/shrexport/pkg/structdef"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.BaseURL != structdef.DefaultBaseURL {
		t.Errorf("BaseURL = %q; want %q", opts.BaseURL, structdef.DefaultBaseURL)
	}
	if opts.Publisher != structdef.DefaultPublisher {
		t.Errorf("Publisher = %q; want %q", opts.Publisher, structdef.DefaultPublisher)
	}
	if opts.Status != structdef.DefaultStatus {
		t.Errorf("Status = %q; want %q", opts.Status, structdef.DefaultStatus)
	}
	if opts.StrictPrimitives != false {
		t.Error("StrictPrimitives should be false by default")
	}
	if opts.ValidateConstraints != true {
		t.Error("ValidateConstraints should be true by default")
	}
	if opts.StrictMode != false {
		t.Error("StrictMode should be false by default")
	}
	if opts.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d; want %d", opts.WorkerCount, runtime.NumCPU())
	}
	if opts.MaxDocuments != 0 {
		t.Errorf("MaxDocuments = %d; want 0", opts.MaxDocuments)
	}
	if opts.EnablePooling != true {
		t.Error("EnablePooling should be true by default")
	}
}

func TestHeaderOptions(t *testing.T) {
	opts := DefaultOptions()
	WithBaseURL("http://example.org")(opts)
	WithPublisher("Example")(opts)
	WithStatus("active")(opts)

	if opts.BaseURL != "http://example.org" {
		t.Errorf("BaseURL = %q", opts.BaseURL)
	}
	if opts.Publisher != "Example" {
		t.Errorf("Publisher = %q", opts.Publisher)
	}
	if opts.Status != "active" {
		t.Errorf("Status = %q", opts.Status)
	}

	// empty values keep the current setting
	WithBaseURL("")(opts)
	WithPublisher("")(opts)
	WithStatus("")(opts)
	if opts.BaseURL != "http://example.org" || opts.Publisher != "Example" || opts.Status != "active" {
		t.Errorf("empty option overwrote value: %+v", opts)
	}
}

func TestWithWorkerCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"positive", 8, 8},
		{"zero keeps default", 0, runtime.NumCPU()},
		{"negative keeps default", -1, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			WithWorkerCount(tt.count)(opts)
			if opts.WorkerCount != tt.want {
				t.Errorf("WorkerCount = %d; want %d", opts.WorkerCount, tt.want)
			}
		})
	}
}

func TestWithMaxDocumentsAndDepth(t *testing.T) {
	opts := DefaultOptions()
	WithMaxDocuments(3)(opts)
	WithMaxDepth(16)(opts)
	if opts.MaxDocuments != 3 {
		t.Errorf("MaxDocuments = %d; want 3", opts.MaxDocuments)
	}
	if opts.MaxDepth != 16 {
		t.Errorf("MaxDepth = %d; want 16", opts.MaxDepth)
	}

	WithMaxDocuments(-1)(opts)
	WithMaxDepth(-1)(opts)
	if opts.MaxDocuments != 3 || opts.MaxDepth != 16 {
		t.Errorf("negative values changed options: %+v", opts)
	}
}

func TestWithDocumentCache(t *testing.T) {
	opts := DefaultOptions()
	if opts.DocumentCacheSize != 0 {
		t.Errorf("default DocumentCacheSize = %d; want 0", opts.DocumentCacheSize)
	}
	WithDocumentCache(32)(opts)
	if opts.DocumentCacheSize != 32 {
		t.Errorf("DocumentCacheSize = %d; want 32", opts.DocumentCacheSize)
	}
	WithDocumentCache(-1)(opts)
	if opts.DocumentCacheSize != 32 {
		t.Errorf("negative size changed DocumentCacheSize to %d", opts.DocumentCacheSize)
	}
}

func TestWithInvariants(t *testing.T) {
	opts := DefaultOptions()
	WithConstraints(false)(opts)

	inv := constraint.Invariant{Key: "x-1", Expression: "name.exists()"}
	WithInvariants(inv)(opts)

	if !opts.ValidateConstraints {
		t.Error("WithInvariants should enable constraint checking")
	}
	if len(opts.Invariants) != 1 || opts.Invariants[0].Key != "x-1" {
		t.Errorf("Invariants = %+v", opts.Invariants)
	}
}

func TestPresets(t *testing.T) {
	fast := DefaultOptions()
	for _, opt := range FastOptions() {
		opt(fast)
	}
	if fast.ValidateConstraints {
		t.Error("FastOptions should disable constraints")
	}

	strict := DefaultOptions()
	for _, opt := range StrictOptions() {
		opt(strict)
	}
	if !strict.StrictPrimitives || !strict.StrictMode || !strict.ValidateConstraints {
		t.Errorf("StrictOptions = %+v", strict)
	}
}
