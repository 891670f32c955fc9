package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofhir/shrexport/pkg/structdef"
)

var fixtures = filepath.Join("..", "..", "pkg", "modelfile", "testdata", "fixtures.cue")

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	if code != 0 {
		t.Fatalf("exit code = %d; want 0", code)
	}
	if !strings.HasPrefix(out, "shr-structdef v") || !strings.Contains(out, structdef.FHIRVersion) {
		t.Errorf("output = %q", out)
	}
}

func TestSchema(t *testing.T) {
	code, out, _ := execute(t, "schema")
	if code != 0 || !strings.Contains(out, "#Model") {
		t.Errorf("exit code = %d, output = %q", code, out)
	}
}

func TestExport_Stdout(t *testing.T) {
	code, out, errOut := execute(t, "export", fixtures)
	if code != 0 {
		t.Fatalf("exit code = %d; stderr:\n%s", code, errOut)
	}

	var docs []structdef.Document
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(docs) != 13 {
		t.Fatalf("len(docs) = %d; want 13", len(docs))
	}
	if docs[0].ResourceType != structdef.ResourceType {
		t.Errorf("resourceType = %q", docs[0].ResourceType)
	}
	if !strings.Contains(errOut, "13 entries, 13 exported, 0 failed") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestExport_OutDirR4(t *testing.T) {
	dir := t.TempDir()
	code, out, errOut := execute(t, "export", "--format", "r4", "--out", dir, fixtures)
	if code != 0 {
		t.Fatalf("exit code = %d; stderr:\n%s", code, errOut)
	}
	if out != "" {
		t.Errorf("stdout = %q; want empty", out)
	}

	for _, rel := range []string{"shr/test/Simple.json", "shr/other/test/Simple.json", "shr/test/Group.json"} {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("reading %s: %v", rel, err)
			continue
		}
		var sd map[string]any
		if err := json.Unmarshal(data, &sd); err != nil {
			t.Errorf("%s: %v", rel, err)
			continue
		}
		if _, ok := sd["url"]; !ok {
			t.Errorf("%s has no url", rel)
		}
	}
}

func TestExport_Entry(t *testing.T) {
	code, out, _ := execute(t, "export", "--entry", "shr.test:Coded", fixtures)
	if code != 0 {
		t.Fatalf("exit code = %d; want 0", code)
	}
	var docs []structdef.Document
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "Coded" {
		t.Errorf("docs = %d, want only Coded", len(docs))
	}
}

func TestExport_MissingEntry(t *testing.T) {
	code, out, errOut := execute(t, "export", "--entry", "shr.test:Nothing", fixtures)
	if code != 1 {
		t.Errorf("exit code = %d; want 1", code)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("stdout = %q; want []", out)
	}
	if !strings.Contains(errOut, "Could not resolve entry 'shr.test:Nothing'") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestExport_Errors(t *testing.T) {
	badModel := writeFile(t, "bad.cue", `namespaces: [{name: "shr.bad", definitions: [{name: "X", value: {primitive: "string", card: "one"}}]}]`)
	badConfig := writeFile(t, "config.yaml", "format: xml\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no files", []string{"export"}, 1, "requires at least 1 arg"},
		{"missing file", []string{"export", "missing.cue"}, 1, "missing.cue"},
		{"invalid model", []string{"export", badModel}, 2, "bad.cue"},
		{"malformed entry", []string{"export", "--entry", "Simple", fixtures}, 1, "malformed identifier"},
		{"bad config", []string{"export", "--config", badConfig, fixtures}, 1, "invalid configuration"},
		{"bad format flag", []string{"export", "--format", "xml", fixtures}, 1, "format must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := run(context.Background(), tt.args, &out, &errOut)
			if code != tt.wantCode {
				t.Errorf("exit code = %d; want %d (stderr %q)", code, tt.wantCode, errOut.String())
			}
			if !strings.Contains(errOut.String(), tt.wantErr) {
				t.Errorf("stderr = %q; want it to contain %q", errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	code, out, errOut := execute(t, "check", fixtures)
	if code != 0 {
		t.Fatalf("exit code = %d; stderr:\n%s", code, errOut)
	}
	if out != "" {
		t.Errorf("stdout = %q; want empty", out)
	}
	if !strings.Contains(errOut, "== shr.test:Simple ==") || !strings.Contains(errOut, "Status: VALID") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestCheck_UnknownPrimitive(t *testing.T) {
	model := writeFile(t, "odd.cue", `namespaces: [{name: "shr.odd", definitions: [{name: "Odd", entry: true, value: {primitive: "blob"}}]}]`)

	code, _, errOut := execute(t, "check", model)
	if code != 0 {
		t.Errorf("lenient exit code = %d; want 0", code)
	}
	if !strings.Contains(errOut, "WARN ") {
		t.Errorf("stderr = %q; want a warning", errOut)
	}

	if code, _, _ := execute(t, "check", "--strict", model); code != 1 {
		t.Errorf("strict exit code = %d; want 1", code)
	}
}

func TestExport_NDJSON(t *testing.T) {
	code, out, errOut := execute(t, "export", "--ndjson", fixtures)
	if code != 0 {
		t.Fatalf("exit code = %d; stderr:\n%s", code, errOut)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 13 {
		t.Fatalf("got %d lines; want 13", len(lines))
	}
	var first structdef.Document
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decoding first line: %v", err)
	}
	if first.ID != "Simple" {
		t.Errorf("first document = %q; want Simple", first.ID)
	}
	if !strings.Contains(errOut, "Exported 13 entries: 0 with errors") {
		t.Errorf("stderr = %q", errOut)
	}
}
