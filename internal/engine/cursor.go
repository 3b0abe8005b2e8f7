package engine

import (
	"fmt"

	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

// selPhase enumerates the micro-automaton phases inside one compound
// selector attempt.
type selPhase uint8

const (
	phaseInit  selPhase = iota // nothing checked yet at this node
	phaseTag                   // id requirement passed, tag pending
	phaseClass                 // tag passed, consuming element classes
	phaseFinal                 // compound selector confirmed on this node
)

// SelState is the per-compound micro-automaton state:
// Init -> Tag -> Class(n) -> Final.
//
// classIx is meaningful only in phaseClass and counts how many of the
// compound's required classes have been confirmed so far; the invariant
// 0 <= classIx <= len(Classes) holds throughout.
type SelState struct {
	phase   selPhase
	classIx int
}

// Final reports whether the compound selector has been confirmed on the
// current node.
func (s SelState) Final() bool {
	return s.phase == phaseFinal
}

func (s SelState) String() string {
	switch s.phase {
	case phaseInit:
		return "init"
	case phaseTag:
		return "tag"
	case phaseClass:
		return fmt.Sprintf("class(%d)", s.classIx)
	case phaseFinal:
		return "final"
	default:
		return fmt.Sprintf("invalid(%d)", s.phase)
	}
}

// Cursor marks one rule's progress through its selector chain.
//
// RuleIx indexes the rule table; SelIx is the chain position of the
// compound selector currently being attempted (0 = First, i = Tail[i-1]).
// SelIx never exceeds len(Tail): a cursor whose final compound is
// confirmed represents a whole-chain match and is reported through
// AcceptingRule rather than advanced further.
type Cursor struct {
	RuleIx int
	SelIx  int
	State  SelState
}

// Key returns the (RuleIx, SelIx) ordering key. NfaStates are sorted
// ascending by this key with at most one cursor per key.
func (c Cursor) Key() (int, int) {
	return c.RuleIx, c.SelIx
}

func (c Cursor) String() string {
	return fmt.Sprintf("(%d,%d,%s)", c.RuleIx, c.SelIx, c.State)
}

// compound returns the compound selector this cursor is attempting.
// Index safety follows from the Cursor invariants; a panic here means the
// driver paired a stale cursor with a rebuilt rule table, which is a
// fatal bug, not a recoverable condition.
func (c Cursor) compound(rules []ir.ComplexSelector) ir.CompoundSelector {
	return rules[c.RuleIx].CompoundAt(c.SelIx)
}

// stepID checks the compound's id requirement against the node id
// (symtab.None for a node without an id) and moves Init -> Tag.
//
// Returns ok=false to prune: either the id requirement failed, or the
// cursor was not in Init (a precondition violation, treated identically
// to a non-match).
func (c Cursor) stepID(id symtab.Symbol, rules []ir.ComplexSelector) (Cursor, bool) {
	if c.State.phase != phaseInit {
		return Cursor{}, false
	}
	sel := c.compound(rules)
	if sel.ID != symtab.None && sel.ID != id {
		return Cursor{}, false
	}
	c.State = SelState{phase: phaseTag}
	return c, true
}

// stepTag checks the compound's type requirement against the node tag and
// moves Tag -> Class(0). A universal (or absent) type selector always
// passes.
func (c Cursor) stepTag(tag symtab.Symbol, rules []ir.ComplexSelector) (Cursor, bool) {
	if c.State.phase != phaseTag {
		return Cursor{}, false
	}
	sel := c.compound(rules)
	if !sel.Type.Universal() && sel.Type.Name != tag {
		return Cursor{}, false
	}
	c.State = SelState{phase: phaseClass}
	return c, true
}

// stepClass consumes one element class. The driver feeds element classes
// exactly once each, in ascending symbol order; this threads a sorted
// merge-intersection test through the cursor:
//
//   - all requirements already confirmed: extra classes pass through
//   - class below the next requirement: an extra class, pass through
//   - class equals the next requirement: confirm it, advance
//   - class above the next requirement: the requirement was skipped and
//     can never appear later (input is ascending) - prune
func (c Cursor) stepClass(class symtab.Symbol, rules []ir.ComplexSelector) (Cursor, bool) {
	if c.State.phase != phaseClass {
		return Cursor{}, false
	}
	required := c.compound(rules).Classes
	n := c.State.classIx
	switch {
	case n == len(required):
		return c, true
	case class < required[n]:
		return c, true
	case class == required[n]:
		c.State = SelState{phase: phaseClass, classIx: n + 1}
		return c, true
	default:
		return Cursor{}, false
	}
}

// endClass closes the class stream for this node: Class(n) -> Final iff
// every required class was confirmed, otherwise prune.
func (c Cursor) endClass(rules []ir.ComplexSelector) (Cursor, bool) {
	if c.State.phase != phaseClass {
		return Cursor{}, false
	}
	if c.State.classIx != len(c.compound(rules).Classes) {
		return Cursor{}, false
	}
	c.State = SelState{phase: phaseFinal}
	return c, true
}

// AcceptingRule reports the cursor's rule index iff the compound selector
// just confirmed is the last in its chain, i.e. the whole rule matched at
// the current node. Only meaningful for cursors in Final.
func (c Cursor) AcceptingRule(rules []ir.ComplexSelector) (int, bool) {
	if c.SelIx == len(rules[c.RuleIx].Tail) {
		return c.RuleIx, true
	}
	return 0, false
}
