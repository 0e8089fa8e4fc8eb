package app

// Record is the generic consumer record the CLI populates: one map of
// requested identifier (or concretely named wildcard hit) to extracted value.
type Record struct {
	Fields map[string]string
}

// NewRecord constructs an empty record for one parse call.
func NewRecord() *Record {
	return &Record{Fields: make(map[string]string)}
}
