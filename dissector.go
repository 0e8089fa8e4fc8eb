package logdissect

// Store is the surface a dissector writes through during execution. It is
// implemented by the per-call Parsable; dissectors never see the record type.
type Store interface {
	// Value returns the current value held for type:name, if any.
	Value(fieldType, name string) (string, bool)

	// AddDissection records a newly produced field value. name must be the
	// complete dotted path the dissector was prepared for. The value is
	// routed to any consumer registered for its identifier; a consumer
	// failure is returned and aborts the current parse call.
	AddDissection(inputName, fieldType, name, value string) error
}

// Dissector is one extraction capability: it consumes the value of a single
// input field and can produce zero or more named child fields.
//
// A Dissector given to Parser.AddDissector acts as a template. During
// compilation the Parser calls NewInstance to obtain a fresh stateful copy
// for each input node the dissector is bound to, and PrepareForDissect to
// tell that copy which concrete (input, output) pairs it must serve. A bound
// instance is shared between all outputs it serves at one node, so internal
// state accumulated across PrepareForDissect calls is intentional.
type Dissector interface {
	// Kind is a stable identity token for the implementation, used to
	// deduplicate bound instances per input node. Two dissectors with the
	// same Kind at the same node share one instance.
	Kind() string

	// InputType names the field type this dissector consumes.
	InputType() string

	// PossibleOutputs lists every "type:name" this dissector can produce.
	// The name "*" marks a wildcard producer: the concrete names are
	// resolved at compile time against the requested paths.
	PossibleOutputs() []string

	// NewInstance returns a fresh copy of this dissector for binding.
	NewInstance() Dissector

	// PrepareForDissect informs a bound instance of one concrete pair it
	// must serve: the input field name that triggers it and the complete
	// output name it has to produce.
	PrepareForDissect(inputName, outputName string)

	// PrepareForRun resets per-run state. The engine invokes it on every
	// bound instance once after compilation and again at the start of each
	// parse call.
	PrepareForRun() error

	// Dissect runs the instance against the value stored for inputName,
	// writing any produced fields through the store.
	Dissect(store Store, inputName string) error
}
