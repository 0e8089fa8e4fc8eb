package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/logdissect"
)

type nopDissector struct{}

func (d *nopDissector) Kind() string                         { return "nop" }
func (d *nopDissector) InputType() string                    { return "INPUT" }
func (d *nopDissector) PossibleOutputs() []string            { return nil }
func (d *nopDissector) NewInstance() logdissect.Dissector    { return &nopDissector{} }
func (d *nopDissector) PrepareForDissect(in, out string)     {}
func (d *nopDissector) PrepareForRun() error                 { return nil }
func (d *nopDissector) Dissect(logdissect.Store, string) error { return nil }

func TestRegistry(t *testing.T) {
	t.Run("builds registered dissectors", func(t *testing.T) {
		r := New()
		r.RegisterDissector("nop", func(opts Options) (logdissect.Dissector, error) {
			return &nopDissector{}, nil
		})

		d, err := r.NewDissector("nop", nil)
		require.NoError(t, err)
		assert.Equal(t, "nop", d.Kind())
		assert.Equal(t, []string{"nop"}, r.Names())
	})

	t.Run("unknown name lists what is registered", func(t *testing.T) {
		r := New()
		r.RegisterDissector("nop", func(opts Options) (logdissect.Dissector, error) {
			return &nopDissector{}, nil
		})
		_, err := r.NewDissector("typo", nil)
		assert.ErrorContains(t, err, `unknown dissector "typo"`)
		assert.ErrorContains(t, err, "nop")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		r := New()
		factory := func(opts Options) (logdissect.Dissector, error) { return &nopDissector{}, nil }
		r.RegisterDissector("nop", factory)
		assert.Panics(t, func() { r.RegisterDissector("nop", factory) })
	})
}

func TestOptions(t *testing.T) {
	t.Run("String with default and conversion", func(t *testing.T) {
		opts := Options{"sep": cty.StringVal("|"), "count": cty.NumberIntVal(3)}

		s, err := opts.String("sep", ";")
		require.NoError(t, err)
		assert.Equal(t, "|", s)

		s, err = opts.String("missing", ";")
		require.NoError(t, err)
		assert.Equal(t, ";", s)

		s, err = opts.String("count", "")
		require.NoError(t, err)
		assert.Equal(t, "3", s)
	})

	t.Run("StringMap", func(t *testing.T) {
		opts := Options{"fields": cty.ObjectVal(map[string]cty.Value{
			"ts":   cty.StringVal("TIMESTAMP"),
			"user": cty.StringVal("STRING"),
		})}

		m, err := opts.StringMap("fields")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"ts": "TIMESTAMP", "user": "STRING"}, m)

		m, err = opts.StringMap("missing")
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("StringMap rejects scalars", func(t *testing.T) {
		opts := Options{"fields": cty.StringVal("nope")}
		_, err := opts.StringMap("fields")
		assert.ErrorContains(t, err, "expected a map")
	})

	t.Run("Require flags unknown keys", func(t *testing.T) {
		opts := Options{"sep": cty.StringVal("|")}
		assert.NoError(t, opts.Require("sep", "fields"))
		assert.ErrorContains(t, opts.Require("fields"), `unsupported option "sep"`)
	})
}
