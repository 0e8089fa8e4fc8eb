// Package urlquery dissects a URI field into its structural parts using
// net/url. The query component keeps its own type so the queryparam module
// can take it apart further.
package urlquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vk/logdissect"
	"github.com/vk/logdissect/internal/registry"
)

// Kind is the identity token of this dissector implementation.
const Kind = "urlquery"

// outputFields maps each producible part name to its output type.
var outputFields = map[string]string{
	"protocol": "STRING",
	"userinfo": "STRING",
	"host":     "STRING",
	"port":     "STRING",
	"path":     "STRING",
	"query":    "QUERYSTRING",
	"ref":      "STRING",
}

// declared fixes the output order for PossibleOutputs and path enumeration.
var declared = []string{"protocol", "userinfo", "host", "port", "path", "query", "ref"}

// Dissector implements logdissect.Dissector over URI values.
type Dissector struct {
	inputType string
	wanted    map[string][]string
}

// New builds a urlquery dissector template. inputType defaults to "URI".
func New(inputType string) *Dissector {
	if inputType == "" {
		inputType = "URI"
	}
	return &Dissector{inputType: inputType, wanted: make(map[string][]string)}
}

func (d *Dissector) Kind() string      { return Kind }
func (d *Dissector) InputType() string { return d.inputType }

func (d *Dissector) PossibleOutputs() []string {
	outputs := make([]string, 0, len(declared))
	for _, name := range declared {
		outputs = append(outputs, outputFields[name]+":"+name)
	}
	return outputs
}

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

	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("cannot parse uri %q: %w", value, err)
	}

	for _, output := range d.wanted[inputName] {
		part := strings.TrimPrefix(output, inputName+".")
		var v string
		switch part {
		case "protocol":
			v = u.Scheme
		case "userinfo":
			v = u.User.String()
		case "host":
			v = u.Hostname()
		case "port":
			v = u.Port()
		case "path":
			v = u.Path
		case "query":
			v = u.RawQuery
		case "ref":
			v = u.Fragment
		default:
			continue
		}
		if err := store.AddDissection(inputName, outputFields[part], output, v); err != nil {
			return err
		}
	}
	return nil
}

// Module registers the urlquery factory.
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
