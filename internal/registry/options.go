package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Options carries the free-form attributes of a profile's dissector block,
// still as cty values. Factories pull out what they understand; unknown keys
// are rejected so typos fail loudly.
type Options map[string]cty.Value

// String returns the option under key converted to a string, or def when the
// key is absent.
func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	converted, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("option %q: %w", key, err)
	}
	if converted.IsNull() {
		return def, nil
	}
	return converted.AsString(), nil
}

// StringMap returns the option under key as a map of string to string.
func (o Options) StringMap(key string) (map[string]string, error) {
	v, ok := o[key]
	if !ok {
		return nil, nil
	}
	if v.IsNull() || !v.CanIterateElements() {
		return nil, fmt.Errorf("option %q: expected a map of strings", key)
	}
	result := make(map[string]string)
	for it := v.ElementIterator(); it.Next(); {
		ek, ev := it.Element()
		converted, err := convert.Convert(ev, cty.String)
		if err != nil {
			return nil, fmt.Errorf("option %q[%s]: %w", key, ek.AsString(), err)
		}
		result[ek.AsString()] = converted.AsString()
	}
	return result, nil
}

// Require fails when opts contains a key outside the allowed set.
func (o Options) Require(allowed ...string) error {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		allowedSet[key] = struct{}{}
	}
	for key := range o {
		if _, ok := allowedSet[key]; !ok {
			return fmt.Errorf("unsupported option %q (allowed: %v)", key, allowed)
		}
	}
	return nil
}
