package logdissect

// DefaultMaxPathDepth bounds the path enumeration when no explicit depth is
// given.
const DefaultMaxPathDepth = 15

// PossiblePaths enumerates every identifier reachable from the root type by
// following the declared outputs of all registered dissectors, up to maxDepth
// levels (DefaultMaxPathDepth when maxDepth <= 0).
//
// This is an introspection utility: it ignores the requested field set, takes
// wildcard output names literally, instantiates nothing and shares no state
// with the compiled plan.
func (p *Parser[R]) PossiblePaths(maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxPathDepth
	}

	pathNodes := make(map[string][]catalogEntry, len(p.catalog))
	for _, entry := range p.catalog {
		pathNodes[entry.inputType] = append(pathNodes[entry.inputType], entry)
	}

	paths := []string{}
	p.appendPossiblePaths(pathNodes, &paths, "", p.rootType, maxDepth)
	return paths
}

// appendPossiblePaths adds all child paths with respect to base, recursing
// one level deeper per child until the depth budget runs out.
func (p *Parser[R]) appendPossiblePaths(pathNodes map[string][]catalogEntry, paths *[]string, base, baseType string, maxDepth int) {
	if maxDepth == 0 {
		return
	}

	for _, entry := range pathNodes[baseType] {
		childBase := entry.name
		if base != "" {
			childBase = base + "." + entry.name
		}
		*paths = append(*paths, fieldID(entry.outputType, childBase))

		p.appendPossiblePaths(pathNodes, paths, childBase, entry.outputType, maxDepth-1)
	}
}
