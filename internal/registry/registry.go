// Package registry provides the glue between dissector names used in
// profiles and the compiled Go factories that build them.
//
// During application startup the registry is populated by the built-in
// modules; the profile then refers to dissectors by name and supplies their
// options as free-form HCL attributes.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/logdissect"
)

// Factory builds a configured dissector from profile options.
type Factory func(opts Options) (logdissect.Dissector, error)

// Module is the interface all built-in modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps dissector names to their factories for a single application
// instance.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// RegisterDissector registers a factory under a dissector name.
func (r *Registry) RegisterDissector(name string, factory Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("dissector factory with name '%s' already registered", name))
	}
	slog.Debug("Registering dissector factory.", "name", name)
	r.factories[name] = factory
}

// NewDissector builds a dissector by name with the given options.
func (r *Registry) NewDissector(name string, opts Options) (logdissect.Dissector, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown dissector %q (registered: %v)", name, r.Names())
	}
	return factory(opts)
}

// Names lists the registered dissector names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
