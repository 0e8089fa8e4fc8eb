package logdissect

// parsedField is one known value in the runtime store. A field is either
// pending (value known, not yet dissected) or parsed (dissected, never
// revisited); no field is dissected twice within one parse call.
type parsedField struct {
	id      string
	name    string
	value   string
	pending bool
}

// Parsable is the runtime value store for a single parse call. It holds the
// fields produced so far, tracks which of them still await dissection, and
// forwards values whose identifier matches a requested identifier to the
// registered targets. A fresh Parsable is created per call and discarded
// afterwards.
type Parsable[R any] struct {
	parser *Parser[R]
	record *R
	fields map[string]*parsedField
}

func newParsable[R any](parser *Parser[R], record *R) *Parsable[R] {
	return &Parsable[R]{
		parser: parser,
		record: record,
		fields: make(map[string]*parsedField),
	}
}

// setRootDissection seeds the store with the raw input value, pending.
func (p *Parsable[R]) setRootDissection(rootType, name, value string) {
	id := fieldID(rootType, name)
	p.fields[id] = &parsedField{id: id, name: name, value: value, pending: true}
}

// Value implements Store.
func (p *Parsable[R]) Value(fieldType, name string) (string, bool) {
	field, ok := p.fields[fieldID(fieldType, name)]
	if !ok {
		return "", false
	}
	return field.value, true
}

// AddDissection implements Store. A new identifier enters the store pending;
// a repeated identifier only has its value updated, so it is never dissected
// again. Either way the value is routed to any registered consumer.
func (p *Parsable[R]) AddDissection(inputName, fieldType, name, value string) error {
	id := fieldID(fieldType, name)
	if field, ok := p.fields[id]; ok {
		field.value = value
	} else {
		p.fields[id] = &parsedField{id: id, name: name, value: value, pending: true}
	}
	if len(p.parser.lookupTargets(id)) == 0 {
		// An intermediate value nobody asked for; kept in the store for
		// further dissection only.
		return nil
	}
	return p.parser.store(p.record, id, name, value)
}

// pendingFields snapshots the current frontier: every field still awaiting
// dissection.
func (p *Parsable[R]) pendingFields() []*parsedField {
	var pending []*parsedField
	for _, field := range p.fields {
		if field.pending {
			pending = append(pending, field)
		}
	}
	return pending
}

func (p *Parsable[R]) setAsParsed(field *parsedField) {
	field.pending = false
}
