package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofhir/shrexport/pkg/model"
)

func simple(ns string) *model.DataElement {
	return model.NewDataElement(model.NewIdentifier(ns, "Simple"), model.NewPrimitive("string"))
}

func TestNewRegistry(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.Count() != 0 {
		t.Errorf("New registry should be empty, got %d", r.Count())
	}
}

func TestRegistryResolve(t *testing.T) {
	local := model.NewNamespace("shr.test").MustAdd(simple("shr.test"))
	other := model.NewNamespace("shr.other.test").MustAdd(simple("shr.other.test"))

	r, err := New(local, other)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name      string
		id        model.Identifier
		wantErr   bool
		nsMissing bool
	}{
		{"local", model.NewIdentifier("shr.test", "Simple"), false, false},
		{"foreign", model.NewIdentifier("shr.other.test", "Simple"), false, false},
		{"unknown name", model.NewIdentifier("shr.test", "Missing"), true, false},
		{"unknown namespace", model.NewIdentifier("shr.nowhere", "Simple"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := r.Resolve(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%v) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if !tt.wantErr {
				if got := def.Header().Identifier; got != tt.id {
					t.Errorf("Resolve(%v) returned %v", tt.id, got)
				}
				return
			}
			if !errors.Is(err, ErrUnresolved) {
				t.Errorf("error does not match ErrUnresolved: %v", err)
			}
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("error is not a *ResolutionError: %T", err)
			}
			if re.Identifier != tt.id {
				t.Errorf("ResolutionError.Identifier = %v, want %v", re.Identifier, tt.id)
			}
			if re.NamespaceMissing != tt.nsMissing {
				t.Errorf("NamespaceMissing = %v, want %v", re.NamespaceMissing, tt.nsMissing)
			}
			if !strings.Contains(err.Error(), tt.id.String()) {
				t.Errorf("error %q does not name %s", err, tt.id)
			}
		})
	}
}

func TestRegistryMergesNamespaces(t *testing.T) {
	a := model.NewNamespace("shr.test").MustAdd(simple("shr.test"))
	b := model.NewNamespace("shr.test").MustAdd(
		model.NewDataElement(model.NewIdentifier("shr.test", "Other"), model.NewPrimitive("integer")))
	b.AddEntry("Other")

	r, err := New(a, b)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	if got := r.Namespaces(); len(got) != 1 || got[0] != "shr.test" {
		t.Errorf("Namespaces() = %v, want [shr.test]", got)
	}
	if _, ok := r.Lookup("shr.test", "Other"); !ok {
		t.Error("Lookup(shr.test, Other) failed")
	}
	if entries := r.Entries(); len(entries) != 1 || entries[0].Name != "Other" {
		t.Errorf("Entries() = %v, want [shr.test:Other]", entries)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	a := model.NewNamespace("shr.test").MustAdd(simple("shr.test"))
	b := model.NewNamespace("shr.test").MustAdd(simple("shr.test"))
	if _, err := New(a, b); !errors.Is(err, model.ErrDuplicateDefinition) {
		t.Errorf("New() error = %v, want ErrDuplicateDefinition", err)
	}
}
