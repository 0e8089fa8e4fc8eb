// Package logdissect extracts named, typed values out of semi-structured
// text records (log lines and similar) by composing small, independent
// dissectors into a demand-driven execution plan.
//
// A consumer declares which output fields it needs, each addressed by a
// "type:dotted.path" identifier. From a catalog of registered dissectors the
// Parser compiles the minimal chain of transformations that produces those
// fields from the raw input, verifies the chain is complete, and then runs it
// against one input record per Parse call.
//
// The two phases are deliberately separate:
//
//   - Compilation happens once per Parser. It explores the catalog from the
//     root identifier, keeps only the dissectors that contribute to a
//     requested field, and binds each one to the input node that triggers it.
//   - Execution happens per record. It is a data-driven worklist: a field
//     value becoming available unlocks the dissectors bound to it, which may
//     produce further fields, until nothing remains pending.
//
// Dissectors whose output names are not statically known declare the wildcard
// output name "*"; the concrete names they must serve are resolved at compile
// time against the requested paths.
package logdissect
