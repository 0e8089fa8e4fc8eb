package logdissect

import (
	"fmt"
	"log/slog"
	"sort"
)

// catalogEntry is one expanded row of the dissector catalog: a single
// declared output of a registered dissector template.
type catalogEntry struct {
	inputType  string
	outputType string
	name       string
	template   Dissector
}

// Parser compiles and runs demand-driven dissection plans. R is the consumer
// record type; target callbacks receive a *R.
//
// A Parser is not safe for concurrent use: registration and compilation must
// happen-before any Parse call, and bound dissector instances are reused
// between calls.
type Parser[R any] struct {
	logger    *slog.Logger
	newRecord func() *R
	rootType  string

	// catalog preserves registration order so the compiler's
	// first-writer-wins tie-break is deterministic.
	catalog   []catalogEntry
	templates []Dissector

	targets map[string][]*target[R]

	// Compilation state. compiled is nil until Compile has run; a non-nil
	// compiled with usable == false marks a failed compilation.
	compiled   map[string][]*boundPhase
	phases     []*boundPhase
	located    map[string]struct{}
	useful     map[string]struct{}
	usable     bool
	compileErr error
}

// Option configures a Parser.
type Option[R any] func(*Parser[R])

// WithLogger injects the logger used by this Parser instance. The default is
// slog.Default().
func WithLogger[R any](logger *slog.Logger) Option[R] {
	return func(p *Parser[R]) { p.logger = logger }
}

// New creates a Parser rooted at rootType. newRecord constructs the record a
// Parse call populates; ParseInto skips it.
func New[R any](newRecord func() *R, rootType string, opts ...Option[R]) *Parser[R] {
	p := &Parser[R]{
		logger:    slog.Default(),
		newRecord: newRecord,
		rootType:  rootType,
		targets:   make(map[string][]*target[R]),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddDissector registers a dissector template, expanding its declared
// outputs into catalog entries. A dissector with no possible outputs is
// ignored. Registration order is preserved and determines the exploration
// order during compilation.
//
// Returns ErrDissectorsLocked once a plan has been compiled.
func (p *Parser[R]) AddDissector(d Dissector) error {
	if p.compiled != nil {
		return ErrDissectorsLocked
	}

	outputs := d.PossibleOutputs()
	if len(outputs) == 0 {
		p.logger.Debug("Ignoring dissector without outputs.", "kind", d.Kind())
		return nil
	}

	for _, output := range outputs {
		outputType, name, ok := splitOutput(output)
		if !ok {
			return fmt.Errorf("dissector %q declares malformed output %q", d.Kind(), output)
		}
		p.catalog = append(p.catalog, catalogEntry{
			inputType:  d.InputType(),
			outputType: outputType,
			name:       name,
			template:   d,
		})
	}
	p.templates = append(p.templates, d)
	p.logger.Debug("Registered dissector.", "kind", d.Kind(), "inputType", d.InputType(), "outputs", len(outputs))
	return nil
}

// RemoveDissector drops every catalog entry and template whose Kind matches.
// Returns ErrDissectorsLocked once a plan has been compiled.
func (p *Parser[R]) RemoveDissector(kind string) error {
	if p.compiled != nil {
		return ErrDissectorsLocked
	}

	kept := p.catalog[:0]
	for _, entry := range p.catalog {
		if entry.template.Kind() != kind {
			kept = append(kept, entry)
		}
	}
	p.catalog = kept

	keptTemplates := p.templates[:0]
	for _, tmpl := range p.templates {
		if tmpl.Kind() != kind {
			keptTemplates = append(keptTemplates, tmpl)
		}
	}
	p.templates = keptTemplates
	p.logger.Debug("Removed dissector.", "kind", kind)
	return nil
}

// Needed returns the requested identifiers in sorted order.
func (p *Parser[R]) Needed() []string {
	needed := make([]string, 0, len(p.targets))
	for id := range p.targets {
		needed = append(needed, id)
	}
	sort.Strings(needed)
	return needed
}

// UsefulIntermediateFields returns the names of the intermediate nodes the
// compiler found worth materializing. Empty before compilation.
func (p *Parser[R]) UsefulIntermediateFields() []string {
	fields := make([]string, 0, len(p.useful))
	for name := range p.useful {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// Parse compiles the plan if needed, creates a fresh record and dissects
// value into it.
func (p *Parser[R]) Parse(value string) (*R, error) {
	if err := p.Compile(); err != nil {
		return nil, err
	}
	record := p.newRecord()
	if err := p.execute(record, value); err != nil {
		return nil, err
	}
	return record, nil
}

// ParseInto dissects value into an existing record.
func (p *Parser[R]) ParseInto(record *R, value string) error {
	if err := p.Compile(); err != nil {
		return err
	}
	return p.execute(record, value)
}
