package logdissect

import "strings"

// rootName is the fixed path segment under which the raw input value is
// seeded into every parse call.
const rootName = "rootinputline"

// fieldID builds the canonical "type:path" identifier.
func fieldID(fieldType, name string) string {
	return fieldType + ":" + name
}

// splitOutput splits a declared output "type:name" on the first colon.
// The two tokens are opaque; no further validation is performed.
func splitOutput(output string) (fieldType, name string, ok bool) {
	colon := strings.Index(output, ":")
	if colon < 0 {
		return "", "", false
	}
	return output[:colon], output[colon+1:], true
}

// pathPrefixes appends every incremental dot-prefix of path to dst:
// "a.b.c" contributes "a", "a.b" and "a.b.c".
func pathPrefixes(dst map[string]struct{}, path string) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			dst[path[:i]] = struct{}{}
		}
	}
	dst[path] = struct{}{}
}
