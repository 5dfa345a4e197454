// codegen is a library that creates syntax fragments in specific repeatable ways.
// This library is a common place for logic around how new nodes in a syntax tree get created for
// the desugared async code: runtime paths, poll loops, typed placeholder values and the statements
// that glue them together. Any function that creates a new node for insertion into the tree should
// be added here. When implementing functions for this library, the following rules should apply:
//
// 1. Any syntax objects (expressions, types, patterns, etc.) that are consumed as inputs should be
// cloned before returning them as part of an output. Callers reuse types in several places of the
// rewritten function, and stamping spans on one copy must never move another.
// 2. Returned nodes carry no span. The caller stamps the finished fragment with syntax.Stamp so that
// diagnostics on synthesized code point at the user construct that produced it.
// 3. Please add a comment header about what the output of your function is and what it does. All
// exported functions MUST be documented in way that is compatible with `godoc`.
// 4. Unit tests compare the printed form of the output, which is what ends up in the rewritten file.
package codegen
