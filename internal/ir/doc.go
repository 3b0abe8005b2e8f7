// Package ir defines the compiled selector model consumed by the matching
// engine.
//
// A rule table is an immutable []ComplexSelector. The slice index is the
// rule's identity for the duration of one matching session - the engine
// reports matches as rule indices, and recorded sessions guard against a
// rebuilt table via the content hash in SheetHash.
//
// All identifier fields are symtab.Symbols; comparisons are by intern
// order, not lexical text. Class lists are ascending and unique in that
// order - the engine's merge-intersection test depends on it.
//
// INVARIANTS (load-bearing for internal/engine):
//   - CompoundSelector.Classes is sorted ascending by Symbol, no duplicates
//   - ComplexSelector.Tail order is the selector chain order
//   - Combinator values are limited to the declared constants
//
// Validate checks these; compiled output from internal/compiler satisfies
// them by construction.
package ir
