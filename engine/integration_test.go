package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gofhir/shrexport/internal/fixture"
	"github.com/gofhir/shrexport/pkg/convert"
	"github.com/gofhir/shrexport/pkg/modelfile"
)

// TestModelFileRoundTrip exports the CUE model file and checks that it
// produces the same documents as the in-memory fixtures, and that each
// document survives conversion to an R4 StructureDefinition.
func TestModelFileRoundTrip(t *testing.T) {
	namespaces, err := modelfile.LoadFiles(filepath.Join("..", "pkg", "modelfile", "testdata", "fixtures.cue"))
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}

	fromFile := newExporter(t, namespaces)
	fromCode := newExporter(t, fixture.All())

	if diff := cmp.Diff(fromCode.Entries(), fromFile.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-code +file):\n%s", diff)
	}

	ctx := context.Background()
	got, err := fromFile.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	want, err := fromCode.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	conv := convert.NewR4Converter()
	for i := range want {
		if diff := cmp.Diff(want[i].Document, got[i].Document); diff != "" {
			t.Errorf("%v document mismatch (-code +file):\n%s", want[i].Entry, diff)
			continue
		}

		doc := got[i].Document
		sd, err := conv.ToR4(doc)
		if err != nil {
			t.Errorf("%v: ToR4() error = %v", got[i].Entry, err)
			continue
		}
		s := conv.Summarize(sd)
		if s.URL != doc.URL || s.Name != doc.Name {
			t.Errorf("%v: summary url=%q name=%q; want %q, %q", got[i].Entry, s.URL, s.Name, doc.URL, doc.Name)
		}
		if len(s.Elements) != len(doc.Elements()) {
			t.Errorf("%v: %d R4 elements; want %d", got[i].Entry, len(s.Elements), len(doc.Elements()))
		}
	}
}
