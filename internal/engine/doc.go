// Package engine implements incremental NFA-based selector matching.
//
// The engine decides, during a single pre-order traversal of a node tree,
// which compiled selector rules match each visited node. It is a genuine
// nondeterministic automaton: one Cursor per live matching attempt, all
// live cursors collected in an NfaState.
//
// ARCHITECTURE:
//
// Per-node narrowing:
// The driver holds the NfaState inherited from the parent and narrows it
// through StepID -> StepTag -> StepClass (once per element class, in
// ascending symbol order) -> EndClass. Cursors that survive EndClass have
// confirmed their current compound selector against this node; those whose
// confirmed compound is the last in the chain are accepting.
//
// Depth transfer:
// inherited.Merge(final, rules) produces the NfaState for the node's
// children: every confirmed cursor advances one chain position, and
// pending cursors are retained past this level only where the preceding
// combinator is Descendant. The driver keeps an explicit stack of
// inherited states so it can restore the parent state when returning to
// siblings.
//
// CRITICAL PATTERNS:
//
// Pure values:
// Every transition takes receivers by value and returns freshly built
// values; no cursor is mutated in place. Non-matches are represented by
// absence - a failed transition simply drops the cursor from the set,
// indistinguishable from "never attempted" (there are no errors here).
//
// Sorted cursor sets:
// An NfaState is always sorted ascending by (RuleIx, SelIx) with at most
// one cursor per key. Initial is sorted by construction, per-node steps
// preserve order and never duplicate keys, and Merge is a sorted
// merge-join that depends on this invariant.
//
// Determinism:
// A fixed rule table and a fixed traversal produce identical accepted
// rule sets at every node; there is no randomness, no map iteration, no
// concurrency in the evaluation path.
package engine
