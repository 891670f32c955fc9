// Package modelfile loads SHR specification models from CUE or JSON files.
//
// A model file is unified with the embedded #Model schema, validated, and
// decoded into model.Namespace values ready for registry.New:
//
//	namespaces: [{
//		name: "shr.test"
//		definitions: [
//			{name: "Simple", entry: true, value: {primitive: "string"}},
//			{name: "Coded", entry: true, value: {code: {valueSet: "http://foo.org/myvs"}}},
//		]
//	}]
package modelfile

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/gofhir/shrexport/pkg/model"
)

//go:embed model_schema.cue
var schema []byte

// SchemaPath is the root definition model files are unified with.
const SchemaPath = "#Model"

// DefaultMaxFileSize bounds the size of a single model file.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// Schema returns the embedded CUE schema.
func Schema() []byte {
	return schema
}

// Loader parses model files.
type Loader struct {
	maxFileSize int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxFileSize sets the per-file size limit.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxFileSize = n
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Parse decodes one model file. filename is used for diagnostics only.
func (l *Loader) Parse(data []byte, filename string) ([]*model.Namespace, error) {
	if filename == "" {
		filename = "<input>"
	}
	if err := CheckFileSize(data, l.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, formatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(SchemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", SchemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatError(err, filename)
	}

	var doc fileModel
	if err := unified.Decode(&doc); err != nil {
		return nil, formatError(err, filename)
	}

	return convert(&doc, filename)
}

// LoadFile reads and parses one model file.
func (l *Loader) LoadFile(path string) ([]*model.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return l.Parse(data, path)
}

// LoadFiles parses every file in order and concatenates the namespaces.
// Namespaces with the same name are merged later by registry.New.
func (l *Loader) LoadFiles(paths ...string) ([]*model.Namespace, error) {
	var all []*model.Namespace
	for _, path := range paths {
		nss, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, nss...)
	}
	return all, nil
}

// Parse decodes data with a default Loader.
func Parse(data []byte, filename string) ([]*model.Namespace, error) {
	return NewLoader().Parse(data, filename)
}

// LoadFiles loads paths with a default Loader.
func LoadFiles(paths ...string) ([]*model.Namespace, error) {
	return NewLoader().LoadFiles(paths...)
}
