package urlquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/logdissect"
)

type record struct {
	fields map[string]string
}

func newRecord() *record { return &record{fields: make(map[string]string)} }

func newURIParser(t *testing.T, fields ...string) *logdissect.Parser[record] {
	t.Helper()
	p := logdissect.New(newRecord, "URI")
	require.NoError(t, p.AddDissector(New("")))
	for _, field := range fields {
		id := field
		require.NoError(t, p.AddTarget(func(r *record, value string) {
			r.fields[id] = value
		}, id))
	}
	return p
}

func TestDissectURI(t *testing.T) {
	p := newURIParser(t,
		"STRING:protocol", "STRING:host", "STRING:port",
		"STRING:path", "QUERYSTRING:query", "STRING:ref")

	rec, err := p.Parse("http://example.com:8080/search/deep?q=golang#top")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"STRING:protocol":   "http",
		"STRING:host":       "example.com",
		"STRING:port":       "8080",
		"STRING:path":       "/search/deep",
		"QUERYSTRING:query": "q=golang",
		"STRING:ref":        "top",
	}, rec.fields)
}

func TestDissectURIWithoutOptionalParts(t *testing.T) {
	p := newURIParser(t, "STRING:port", "STRING:ref")

	rec, err := p.Parse("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "", rec.fields["STRING:port"])
	assert.Equal(t, "", rec.fields["STRING:ref"])
}

func TestDissectInvalidURIFailsTheCall(t *testing.T) {
	p := newURIParser(t, "STRING:host")

	_, err := p.Parse("http://exa mple.com/%zz")
	require.Error(t, err)
	var dErr *logdissect.DissectionError
	assert.ErrorAs(t, err, &dErr)
}
