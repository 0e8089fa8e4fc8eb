package logdissect

// execute runs the compiled plan against one raw input value, populating
// record through the registered targets. The caller has already ensured the
// plan is usable.
//
// The loop is a breadth-first, data-driven fixpoint: each round snapshots the
// frontier of pending fields, dissects every one of them exactly once, and
// repeats with whatever those dissections produced. Within a round the
// per-field order is unspecified; dissectors must not rely on sibling order.
func (p *Parser[R]) execute(record *R, value string) error {
	if !p.usable {
		return &NotUsableError{Err: p.compileErr}
	}

	// Reset per-run dissector state before every call, not only after
	// compilation: bound instances are reused between calls.
	for _, phase := range p.phases {
		if err := phase.instance.PrepareForRun(); err != nil {
			return &InvalidDissectorError{Kind: phase.kind, Err: err}
		}
	}

	parsable := newParsable(p, record)
	parsable.setRootDissection(p.rootType, rootName, value)

	for frontier := parsable.pendingFields(); len(frontier) > 0; frontier = parsable.pendingFields() {
		for _, field := range frontier {
			parsable.setAsParsed(field)

			phases, ok := p.compiled[field.id]
			if !ok {
				// A dissection dead end, not an error: nothing consumes
				// this value.
				p.logger.Debug("No dissectors for field.", "id", field.id)
				continue
			}
			for _, phase := range phases {
				p.logger.Debug("Dissecting field.", "id", field.id, "kind", phase.kind)
				if err := phase.instance.Dissect(parsable, field.name); err != nil {
					return &DissectionError{Kind: phase.kind, Field: field.id, Err: err}
				}
			}
		}
	}
	return nil
}
