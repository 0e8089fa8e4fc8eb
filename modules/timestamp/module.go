// Package timestamp dissects a timestamp field into calendar and clock
// subfields using time.Parse with a configurable layout.
package timestamp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vk/logdissect"
	"github.com/vk/logdissect/internal/registry"
)

// Kind is the identity token of this dissector implementation.
const Kind = "timestamp"

// DefaultLayout matches Apache httpd access-log timestamps.
const DefaultLayout = "02/Jan/2006:15:04:05 -0700"

var declared = []string{
	"year", "month", "monthname", "day", "hour", "minute", "second",
	"date", "time", "epoch",
}

// Config describes one timestamp dissector.
type Config struct {
	// InputType is the field type this dissector consumes. Default "TIMESTAMP".
	InputType string
	// Layout is the time.Parse reference layout. Default DefaultLayout.
	Layout string
}

func (c *Config) applyDefaults() {
	if c.InputType == "" {
		c.InputType = "TIMESTAMP"
	}
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
}

// Dissector implements logdissect.Dissector over timestamp values.
type Dissector struct {
	cfg    Config
	wanted map[string][]string
}

// New builds a timestamp dissector template from cfg.
func New(cfg Config) *Dissector {
	cfg.applyDefaults()
	return &Dissector{cfg: cfg, wanted: make(map[string][]string)}
}

func (d *Dissector) Kind() string      { return Kind }
func (d *Dissector) InputType() string { return d.cfg.InputType }

func (d *Dissector) PossibleOutputs() []string {
	outputs := make([]string, 0, len(declared))
	for _, name := range declared {
		outputs = append(outputs, "STRING:"+name)
	}
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

	t, err := time.Parse(d.cfg.Layout, value)
	if err != nil {
		return fmt.Errorf("cannot parse timestamp %q with layout %q: %w", value, d.cfg.Layout, err)
	}

	for _, output := range d.wanted[inputName] {
		part := strings.TrimPrefix(output, inputName+".")
		var v string
		switch part {
		case "year":
			v = strconv.Itoa(t.Year())
		case "month":
			v = strconv.Itoa(int(t.Month()))
		case "monthname":
			v = t.Month().String()
		case "day":
			v = strconv.Itoa(t.Day())
		case "hour":
			v = strconv.Itoa(t.Hour())
		case "minute":
			v = strconv.Itoa(t.Minute())
		case "second":
			v = strconv.Itoa(t.Second())
		case "date":
			v = t.Format("2006-01-02")
		case "time":
			v = t.Format("15:04:05")
		case "epoch":
			v = strconv.FormatInt(t.Unix(), 10)
		default:
			continue
		}
		if err := store.AddDissection(inputName, "STRING", output, v); err != nil {
			return err
		}
	}
	return nil
}

// Module registers the timestamp factory.
type Module struct{}

// Register registers the factory with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDissector(Kind, func(opts registry.Options) (logdissect.Dissector, error) {
		if err := opts.Require("input_type", "layout"); err != nil {
			return nil, err
		}
		var cfg Config
		var err error
		if cfg.InputType, err = opts.String("input_type", ""); err != nil {
			return nil, err
		}
		if cfg.Layout, err = opts.String("layout", ""); err != nil {
			return nil, err
		}
		return New(cfg), nil
	})
}
