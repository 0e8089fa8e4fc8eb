package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleProfile = `
profile {
  root_type = "INPUT"
  fields    = ["STRING:user", "STRING:uri.query.*"]
}

dissector "keyvalue" {
  pair_separator = "|"
  fields = {
    user = "STRING"
    uri  = "URI"
  }
}

dissector "urlquery" {}
`

func TestLoadSingleFile(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "profile.hcl", sampleProfile)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.NotNil(t, model.Profile)
	assert.Equal(t, "INPUT", model.Profile.RootType)
	assert.Equal(t, []string{"STRING:user", "STRING:uri.query.*"}, model.Profile.Fields)

	require.Len(t, model.Dissectors, 2)
	kv := model.Dissectors[0]
	assert.Equal(t, "keyvalue", kv.Type)
	assert.Equal(t, cty.StringVal("|"), kv.Options["pair_separator"])
	assert.Contains(t, kv.Options, "fields")
	assert.Equal(t, "urlquery", model.Dissectors[1].Type)
	assert.Empty(t, model.Dissectors[1].Options)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "a_profile.hcl", `
profile {
  root_type = "INPUT"
  fields    = ["STRING:user"]
}
`)
	writeProfile(t, dir, "b_dissectors.hcl", `
dissector "keyvalue" {
  fields = { user = "STRING" }
}
`)
	writeProfile(t, dir, "ignored.txt", "not hcl")

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "INPUT", model.Profile.RootType)
	assert.Len(t, model.Dissectors, 1)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing profile block", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "p.hcl", `dissector "keyvalue" {}`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "no profile block")
	})

	t.Run("duplicate profile blocks", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "p.hcl", `
profile {
  root_type = "INPUT"
  fields    = []
}
profile {
  root_type = "OTHER"
  fields    = []
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "duplicate profile block")
	})

	t.Run("empty root type", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "p.hcl", `
profile {
  root_type = ""
  fields    = []
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "root_type must not be empty")
	})

	t.Run("invalid hcl is rejected", func(t *testing.T) {
		path := writeProfile(t, t.TempDir(), "p.hcl", `profile {`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})

	t.Run("nonexistent path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
		assert.ErrorContains(t, err, "error accessing path")
	})
}
