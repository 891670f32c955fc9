package structdef

import (
	"fmt"
	"strings"

	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/pkg/registry"
)

// Expansion is the output of expanding one definition.
type Expansion struct {
	Nodes    []Node
	Warnings []Warning
}

// Expander flattens a definition into nodes rooted under parentPath with the
// containing slot's cardinality.
type Expander interface {
	Walk(def model.Definition, parentPath string, card model.Cardinality) (Expansion, error)
}

// CanonicalURL returns the structure definition URL of id under base:
// base/StructureDefinition/<namespace with dots as slashes>/<name>.
func CanonicalURL(base string, id model.Identifier) string {
	base = strings.TrimSuffix(base, "/")
	if ns := id.NamespacePath(); ns != "" {
		return fmt.Sprintf("%s/StructureDefinition/%s/%s", base, ns, id.Name)
	}
	return fmt.Sprintf("%s/StructureDefinition/%s", base, id.Name)
}

// HeaderOptions controls document-level metadata.
type HeaderOptions struct {
	BaseURL   string
	Publisher string
	Status    string
}

// HeaderOption configures HeaderOptions.
type HeaderOption func(*HeaderOptions)

// WithBaseURL sets the canonical base used for document URLs and identifiers.
func WithBaseURL(base string) HeaderOption {
	return func(o *HeaderOptions) {
		if base != "" {
			o.BaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithPublisher sets the document publisher.
func WithPublisher(publisher string) HeaderOption {
	return func(o *HeaderOptions) {
		o.Publisher = publisher
	}
}

// WithStatus sets the publication status.
func WithStatus(status string) HeaderOption {
	return func(o *HeaderOptions) {
		if status != "" {
			o.Status = status
		}
	}
}

func defaultHeaderOptions() HeaderOptions {
	return HeaderOptions{
		BaseURL:   DefaultBaseURL,
		Publisher: DefaultPublisher,
		Status:    DefaultStatus,
	}
}

// NewHeader builds a document with every header field set from def and no
// elements.
func NewHeader(def model.Definition, opts HeaderOptions) *Document {
	h := def.Header()
	id := h.Identifier

	base := ElementBase
	if len(h.BasedOn) > 0 {
		base = CanonicalURL(opts.BaseURL, h.BasedOn[0])
	}

	return &Document{
		ResourceType: ResourceType,
		ID:           id.Name,
		Text:         &Narrative{Status: NarrativeGenerated},
		URL:          CanonicalURL(opts.BaseURL, id),
		Identifier: []Identifier{{
			Use:    IdentifierUsual,
			System: opts.BaseURL,
			Value:  id.FQN(),
		}},
		Name:           id.Name,
		Status:         opts.Status,
		Publisher:      opts.Publisher,
		Description:    h.Description,
		Keyword:        CodingsFromConcepts(h.Concepts),
		FHIRVersion:    FHIRVersion,
		Kind:           KindLogical,
		Abstract:       false,
		Type:           ElementType,
		BaseDefinition: base,
	}
}

// Assembler produces one document per entry identifier.
type Assembler struct {
	resolver registry.Resolver
	expander Expander
	opts     HeaderOptions
}

// NewAssembler creates an Assembler resolving entries through resolver and
// flattening them with expander.
func NewAssembler(resolver registry.Resolver, expander Expander, opts ...HeaderOption) *Assembler {
	o := defaultHeaderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Assembler{
		resolver: resolver,
		expander: expander,
		opts:     o,
	}
}

// BaseURL returns the canonical base in use.
func (a *Assembler) BaseURL() string {
	return a.opts.BaseURL
}

// Assemble resolves entry and flattens it into a document. Any resolution or
// expansion error fails the whole document; no partial document is returned.
func (a *Assembler) Assemble(entry model.Identifier) (*Document, error) {
	def, err := a.resolver.Resolve(entry)
	if err != nil {
		return nil, err
	}

	exp, err := a.expander.Walk(def, "", model.Unbounded())
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", entry, err)
	}

	doc := NewHeader(def, a.opts)
	doc.Snapshot = &Snapshot{Element: exp.Nodes}
	doc.Differential = &Differential{Element: exp.Nodes}
	doc.Warnings = exp.Warnings
	return doc, nil
}
