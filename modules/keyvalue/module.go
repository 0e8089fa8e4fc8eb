// Package keyvalue dissects records of the form "key=value<sep>key=value"
// into typed top-level fields. The set of producible fields and their output
// types is configuration, so this module typically serves as the root
// dissector of a profile.
package keyvalue

import (
	"sort"
	"strings"

	"github.com/vk/logdissect"
	"github.com/vk/logdissect/internal/registry"
)

// Kind is the identity token of this dissector implementation.
const Kind = "keyvalue"

// Config describes one keyvalue dissector.
type Config struct {
	// InputType is the field type this dissector consumes. Default "INPUT".
	InputType string
	// PairSeparator splits the record into pairs. Default ";".
	PairSeparator string
	// KVSeparator splits a pair into key and value. Default "=".
	KVSeparator string
	// Fields maps producible field names to their output types.
	Fields map[string]string
}

func (c *Config) applyDefaults() {
	if c.InputType == "" {
		c.InputType = "INPUT"
	}
	if c.PairSeparator == "" {
		c.PairSeparator = ";"
	}
	if c.KVSeparator == "" {
		c.KVSeparator = "="
	}
}

// Dissector implements logdissect.Dissector over key=value records. It emits
// only the fields it was prepared for, never the full pair set.
type Dissector struct {
	cfg    Config
	wanted map[string][]string // inputName -> complete output names
}

// New builds a keyvalue dissector template from cfg.
func New(cfg Config) *Dissector {
	cfg.applyDefaults()
	return &Dissector{cfg: cfg, wanted: make(map[string][]string)}
}

func (d *Dissector) Kind() string      { return Kind }
func (d *Dissector) InputType() string { return d.cfg.InputType }

func (d *Dissector) PossibleOutputs() []string {
	outputs := make([]string, 0, len(d.cfg.Fields))
	for name, fieldType := range d.cfg.Fields {
		outputs = append(outputs, fieldType+":"+name)
	}
	sort.Strings(outputs)
	return outputs
}

func (d *Dissector) NewInstance() logdissect.Dissector {
	return New(d.cfg)
}

func (d *Dissector) PrepareForDissect(inputName, outputName string) {
	d.wanted[inputName] = append(d.wanted[inputName], outputName)
}

func (d *Dissector) PrepareForRun() error { return nil }

func (d *Dissector) Dissect(store logdissect.Store, inputName string) error {
	value, ok := store.Value(d.cfg.InputType, inputName)
	if !ok {
		return nil
	}

	pairs := make(map[string]string)
	for _, pair := range strings.Split(value, d.cfg.PairSeparator) {
		kv := strings.SplitN(pair, d.cfg.KVSeparator, 2)
		if len(kv) != 2 {
			continue
		}
		pairs[strings.TrimSpace(kv[0])] = kv[1]
	}

	for _, output := range d.wanted[inputName] {
		// The declared field name is the last path segment of the complete
		// output name this instance was prepared for.
		key := strings.TrimPrefix(output, inputName+".")
		v, ok := pairs[key]
		if !ok {
			continue
		}
		if err := store.AddDissection(inputName, d.cfg.Fields[key], output, v); err != nil {
			return err
		}
	}
	return nil
}

// Module registers the keyvalue factory.
type Module struct{}

// Register registers the factory with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDissector(Kind, func(opts registry.Options) (logdissect.Dissector, error) {
		if err := opts.Require("input_type", "pair_separator", "kv_separator", "fields"); err != nil {
			return nil, err
		}
		var cfg Config
		var err error
		if cfg.InputType, err = opts.String("input_type", ""); err != nil {
			return nil, err
		}
		if cfg.PairSeparator, err = opts.String("pair_separator", ""); err != nil {
			return nil, err
		}
		if cfg.KVSeparator, err = opts.String("kv_separator", ""); err != nil {
			return nil, err
		}
		if cfg.Fields, err = opts.StringMap("fields"); err != nil {
			return nil, err
		}
		return New(cfg), nil
	})
}
