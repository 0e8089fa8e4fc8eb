package logdissect

import (
	"sort"
	"strings"
)

// boundPhase is a dissector instance bound to one input node of the compiled
// plan. One instance serves every output its kind was matched to at that
// node, so phase state is shared across those outputs on purpose.
type boundPhase struct {
	kind     string
	instance Dissector
}

func findPhase(phases []*boundPhase, kind string) *boundPhase {
	for _, phase := range phases {
		if phase.kind == kind {
			return phase
		}
	}
	return nil
}

// Compile assembles the execution plan: which dissectors must run once a
// given identifier's value is known. It is idempotent; repeated calls on an
// unchanged Parser are no-ops. Once Compile has run the dissector catalog is
// locked.
//
// Compilation fails with MissingDissectorsError if any requested identifier
// cannot be produced from the root; the Parser is then unusable and every
// subsequent parse call fails fast with NotUsableError.
func (p *Parser[R]) Compile() error {
	if p.compiled != nil {
		if p.usable {
			return nil
		}
		return &NotUsableError{Err: p.compileErr}
	}

	// Step 1: expand the needed set (plus the root) into every path prefix.
	// An intermediate node can be useful purely to route to a deeper field,
	// so each prefix is a possible subtarget in its own right.
	possible := make(map[string]struct{})
	needed := append(p.Needed(), fieldID(p.rootType, rootName))
	for _, need := range needed {
		if _, path, ok := splitOutput(need); ok {
			pathPrefixes(possible, path)
		}
	}

	// Step 2: explore every possibly useful chain from the root.
	p.compiled = make(map[string][]*boundPhase)
	p.located = make(map[string]struct{})
	p.useful = make(map[string]struct{})
	p.explore(possible, p.rootType, rootName, true)

	// Step 3: let every distinct bound instance prepare for the run.
	for _, phase := range p.phases {
		if err := phase.instance.PrepareForRun(); err != nil {
			p.compileErr = &InvalidDissectorError{Kind: phase.kind, Err: err}
			return p.compileErr
		}
	}

	// Step 4: verify every requested identifier can actually be produced.
	if missing := p.MissingFields(); len(missing) > 0 {
		p.compileErr = &MissingDissectorsError{Missing: missing}
		return p.compileErr
	}

	p.usable = true
	p.logger.Debug("Plan compiled.", "nodes", len(p.compiled), "phases", len(p.phases))
	return nil
}

// explore walks the catalog from one located node, binding every entry that
// contributes to a possible subtarget and recursing into its output.
//
// Termination: a candidate is only followed if it is a member of the finite
// possible set, and an output that already has phases scheduled from it is
// never produced again (first writer wins, in catalog registration order).
func (p *Parser[R]) explore(possible map[string]struct{}, currentType, currentName string, isRoot bool) {
	currentID := fieldID(currentType, currentName)
	p.logger.Debug("Exploring field.", "id", currentID)
	p.located[currentID] = struct{}{}

	for i := range p.catalog {
		entry := &p.catalog[i]
		if entry.inputType != currentType {
			continue
		}

		var candidates []string
		switch {
		case entry.name == "*":
			// A wildcard producer serves whichever requested paths extend
			// the current node. Sorted for reproducible binding order.
			prefix := currentName + "."
			for possibleTarget := range possible {
				if strings.HasPrefix(possibleTarget, prefix) {
					candidates = append(candidates, possibleTarget)
				}
			}
			sort.Strings(candidates)
		case isRoot:
			// Top-level outputs carry no parent prefix.
			candidates = []string{entry.name}
		default:
			candidates = []string{currentName + "." + entry.name}
		}

		for _, candidate := range candidates {
			if _, wanted := possible[candidate]; !wanted {
				continue
			}
			if _, scheduled := p.compiled[fieldID(entry.outputType, candidate)]; scheduled {
				continue
			}

			phases := p.compiled[currentID]
			phase := findPhase(phases, entry.template.Kind())
			if phase == nil {
				phase = &boundPhase{kind: entry.template.Kind(), instance: entry.template.NewInstance()}
				p.compiled[currentID] = append(phases, phase)
				p.phases = append(p.phases, phase)
				p.useful[currentName] = struct{}{}
			}

			p.logger.Debug("Binding dissector.",
				"kind", phase.kind, "input", currentID,
				"output", fieldID(entry.outputType, candidate))
			phase.instance.PrepareForDissect(currentName, candidate)

			p.explore(possible, entry.outputType, candidate, false)
		}
	}
}

// MissingFields returns the requested identifiers the compiler could not
// reach from the root, in sorted order. A request ending in ":*" is always
// satisfied; one ending in ".*" is satisfied iff its parent was located.
func (p *Parser[R]) MissingFields() []string {
	var missing []string
	for _, targetID := range p.Needed() {
		if _, ok := p.located[targetID]; ok {
			continue
		}
		switch {
		case strings.HasSuffix(targetID, ".*"):
			if _, ok := p.located[targetID[:len(targetID)-2]]; !ok {
				missing = append(missing, targetID)
			}
		case strings.HasSuffix(targetID, ":*"):
			// Always present.
		default:
			missing = append(missing, targetID)
		}
	}
	return missing
}
