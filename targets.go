package logdissect

import "strings"

// target is one registered consumer callback. Accepted signatures:
//
//	func(*R, value string)
//	func(*R, name, value string)
//	func(*R, value string) error
//	func(*R, name, value string) error
//
// The name+value forms exist for wildcard requests, where one callback
// receives many concretely named fields.
type target[R any] struct {
	invoke func(record *R, name, value string) error
}

func newTarget[R any](callback any) (*target[R], bool) {
	switch fn := callback.(type) {
	case func(*R, string):
		return &target[R]{invoke: func(r *R, _, value string) error {
			fn(r, value)
			return nil
		}}, true
	case func(*R, string, string):
		return &target[R]{invoke: func(r *R, name, value string) error {
			fn(r, name, value)
			return nil
		}}, true
	case func(*R, string) error:
		return &target[R]{invoke: func(r *R, _, value string) error {
			return fn(r, value)
		}}, true
	case func(*R, string, string) error:
		return &target[R]{invoke: func(r *R, name, value string) error {
			return fn(r, name, value)
		}}, true
	}
	return nil, false
}

// AddTarget registers callback as a consumer for the given field
// identifiers. Multiple callbacks may be registered for one identifier; all
// of them are invoked. A nil callback or an empty field list is a no-op.
//
// Adding a target invalidates a previously compiled plan; the next parse
// call recompiles. An unsupported callback signature raises
// InvalidTargetError immediately.
func (p *Parser[R]) AddTarget(callback any, fields ...string) error {
	if callback == nil || len(fields) == 0 {
		return nil
	}

	t, ok := newTarget[R](callback)
	if !ok {
		return &InvalidTargetError{Callback: callback}
	}

	for _, field := range fields {
		p.targets[field] = append(p.targets[field], t)
	}

	p.invalidate()
	return nil
}

// invalidate clears the compiled plan so the next parse call recompiles.
func (p *Parser[R]) invalidate() {
	p.compiled = nil
	p.phases = nil
	p.located = nil
	p.useful = nil
	p.usable = false
	p.compileErr = nil
}

// store delivers one produced value to the callbacks registered for its
// identifier. Identifier matching tries the literal id first, then each
// ancestor wildcard ("type:parent.*", outermost last), then the type-level
// wildcard "type:*". A value nobody asked for is an anomaly, not an error.
func (p *Parser[R]) store(record *R, id, name, value string) error {
	callbacks := p.lookupTargets(id)
	if len(callbacks) == 0 {
		p.logger.Warn("No targets for produced value.", "id", id)
		return nil
	}
	for _, t := range callbacks {
		if err := t.invoke(record, name, value); err != nil {
			return &CallbackError{ID: id, Name: name, Value: value, Err: err}
		}
	}
	return nil
}

func (p *Parser[R]) lookupTargets(id string) []*target[R] {
	if callbacks, ok := p.targets[id]; ok {
		return callbacks
	}

	fieldType, name, ok := splitOutput(id)
	if !ok {
		return nil
	}
	for {
		dot := strings.LastIndex(name, ".")
		if dot < 0 {
			break
		}
		name = name[:dot]
		if callbacks, ok := p.targets[fieldID(fieldType, name+".*")]; ok {
			return callbacks
		}
	}
	return p.targets[fieldID(fieldType, "*")]
}
