// Package queryparam expands a query string into per-parameter values. It is
// a wildcard producer: the parameter names it must serve are only resolved at
// compile time, against the requested paths.
package queryparam

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/vk/logdissect"
	"github.com/vk/logdissect/internal/registry"
)

// Kind is the identity token of this dissector implementation.
const Kind = "queryparam"

// Dissector implements logdissect.Dissector over query strings.
type Dissector struct {
	inputType string
	wanted    map[string][]string
}

// New builds a queryparam dissector template. inputType defaults to
// "QUERYSTRING".
func New(inputType string) *Dissector {
	if inputType == "" {
		inputType = "QUERYSTRING"
	}
	return &Dissector{inputType: inputType, wanted: make(map[string][]string)}
}

func (d *Dissector) Kind() string      { return Kind }
func (d *Dissector) InputType() string { return d.inputType }

func (d *Dissector) PossibleOutputs() []string { return []string{"STRING:*"} }

func (d *Dissector) NewInstance() logdissect.Dissector {
	return New(d.inputType)
}

func (d *Dissector) PrepareForDissect(inputName, outputName string) {
	d.wanted[inputName] = append(d.wanted[inputName], outputName)
}

func (d *Dissector) PrepareForRun() error { return nil }

func (d *Dissector) Dissect(store logdissect.Store, inputName string) error {
	value, ok := store.Value(d.inputType, inputName)
	if !ok {
		return nil
	}

	params, err := url.ParseQuery(value)
	if err != nil {
		return fmt.Errorf("cannot parse query string %q: %w", value, err)
	}

	prefix := inputName + "."
	for _, output := range d.wanted[inputName] {
		if strings.HasSuffix(output, ".*") {
			// Serve every parameter under the requested wildcard.
			names := make([]string, 0, len(params))
			for name := range params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				for _, v := range params[name] {
					if err := store.AddDissection(inputName, "STRING", prefix+name, v); err != nil {
						return err
					}
				}
			}
			continue
		}

		name := strings.TrimPrefix(output, prefix)
		for _, v := range params[name] {
			if err := store.AddDissection(inputName, "STRING", output, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Module registers the queryparam factory.
type Module struct{}

// Register registers the factory with the application registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDissector(Kind, func(opts registry.Options) (logdissect.Dissector, error) {
		if err := opts.Require("input_type"); err != nil {
			return nil, err
		}
		inputType, err := opts.String("input_type", "")
		if err != nil {
			return nil, err
		}
		return New(inputType), nil
	})
}
