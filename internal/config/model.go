// Package config defines the profile model a logdissect application runs
// from, and the HCL loader that produces it.
package config

import "github.com/zclconf/go-cty/cty"

// Model is the fully loaded, merged configuration of one application run.
type Model struct {
	Profile    *Profile
	Dissectors []*DissectorBlock
}

// Profile declares the root input type and the requested output fields.
type Profile struct {
	// RootType is the field type of the raw input line.
	RootType string
	// Fields lists the requested "type:path" identifiers; a path may end in
	// a wildcard segment.
	Fields []string
}

// DissectorBlock is one "dissector" block from the profile: a dissector name
// plus its free-form options, still as cty values. The factory registered
// under Type decides what the options mean.
type DissectorBlock struct {
	Type    string
	Options map[string]cty.Value
}
