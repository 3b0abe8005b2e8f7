package engine

import (
	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

// NfaState is the set of all live cursors across all rules at one
// traversal point, sorted ascending by (RuleIx, SelIx) with at most one
// cursor per key.
//
// NfaState is an immutable value: every operation returns a freshly built
// state and never mutates the receiver. The driver keeps one NfaState per
// tree depth on an explicit stack.
type NfaState struct {
	cursors []Cursor
}

// Initial creates the root state: one Init cursor per rule at chain
// position 0. Sorted by construction.
func Initial(rules []ir.ComplexSelector) NfaState {
	cursors := make([]Cursor, len(rules))
	for i := range rules {
		cursors[i] = Cursor{RuleIx: i}
	}
	return NfaState{cursors: cursors}
}

// Cursors returns the live cursors for driver-level introspection and
// testing. The returned slice is shared; callers must not modify it.
func (s NfaState) Cursors() []Cursor {
	return s.cursors
}

// Len returns the number of live cursors.
func (s NfaState) Len() int {
	return len(s.cursors)
}

// step applies a cursor transition to every member, dropping members the
// transition prunes. Order is preserved and no duplicate keys can be
// introduced: transitions never change (RuleIx, SelIx).
func (s NfaState) step(apply func(Cursor) (Cursor, bool)) NfaState {
	out := make([]Cursor, 0, len(s.cursors))
	for _, c := range s.cursors {
		if next, ok := apply(c); ok {
			out = append(out, next)
		}
	}
	return NfaState{cursors: out}
}

// StepID narrows the set by the node's id (symtab.None for none).
func (s NfaState) StepID(id symtab.Symbol, rules []ir.ComplexSelector) NfaState {
	return s.step(func(c Cursor) (Cursor, bool) { return c.stepID(id, rules) })
}

// StepTag narrows the set by the node's tag.
func (s NfaState) StepTag(tag symtab.Symbol, rules []ir.ComplexSelector) NfaState {
	return s.step(func(c Cursor) (Cursor, bool) { return c.stepTag(tag, rules) })
}

// StepClass narrows the set by one element class. Must be called once per
// class, in ascending symbol order; feeding classes out of order breaks
// the merge-intersection test and produces wrong results.
func (s NfaState) StepClass(class symtab.Symbol, rules []ir.ComplexSelector) NfaState {
	return s.step(func(c Cursor) (Cursor, bool) { return c.stepClass(class, rules) })
}

// EndClass closes the class stream, leaving only Final cursors: those
// whose current compound selector is fully confirmed on this node.
func (s NfaState) EndClass(rules []ir.ComplexSelector) NfaState {
	return s.step(func(c Cursor) (Cursor, bool) { return c.endClass(rules) })
}

// AcceptedRules reports the indices of rules whose whole chain matched at
// this node. Call on the state produced by EndClass. The result is
// ascending and duplicate-free because the cursor set is.
func (s NfaState) AcceptedRules(rules []ir.ComplexSelector) []int {
	var accepted []int
	for _, c := range s.cursors {
		if ruleIx, ok := c.AcceptingRule(rules); ok {
			accepted = append(accepted, ruleIx)
		}
	}
	return accepted
}

// Merge combines the inherited state (receiver; pending cursors, chain
// position unchanged) with the tip state (cursors whose compound selector
// just finished on this node, conceptually advanced one chain position)
// into the state pushed down to this node's children.
//
// This is a sorted merge-join keyed by (RuleIx, SelIx), comparing the
// receiver's keys against the tip's advanced keys:
//
//   - receiver-only key below the tip's advanced key: retain the pending
//     cursor only if the combinator immediately preceding its chain
//     position is Descendant (or the position is 0, with nothing
//     preceding it). Any other combinator was valid for exactly one
//     level, now consumed - drop it.
//   - tip-only or equal key: emit the advanced cursor unconditionally.
//     On equal keys both sides collapse into the single advanced entry,
//     preserving at-most-one-per-key.
//   - advanced cursors that would step past the final compound selector
//     are discarded: there is nothing left for them to match, and
//     whole-chain matches were already reported via AcceptedRules.
//
// Every emitted cursor starts a fresh attempt (Init) against whichever
// node is visited next.
func (s NfaState) Merge(tip NfaState, rules []ir.ComplexSelector) NfaState {
	base := s.cursors
	adv := tip.cursors
	out := make([]Cursor, 0, len(base)+len(adv))

	emitBase := func(c Cursor) {
		if c.SelIx == 0 || rules[c.RuleIx].CombinatorBefore(c.SelIx) == ir.Descendant {
			out = append(out, Cursor{RuleIx: c.RuleIx, SelIx: c.SelIx})
		}
	}
	emitAdvanced := func(c Cursor) {
		next := c.SelIx + 1
		if next <= len(rules[c.RuleIx].Tail) {
			out = append(out, Cursor{RuleIx: c.RuleIx, SelIx: next})
		}
	}

	i, j := 0, 0
	for i < len(base) && j < len(adv) {
		b := base[i]
		t := adv[j]
		switch cmp := compareKeys(b.RuleIx, b.SelIx, t.RuleIx, t.SelIx+1); {
		case cmp < 0:
			emitBase(b)
			i++
		case cmp > 0:
			emitAdvanced(t)
			j++
		default:
			emitAdvanced(t)
			i++
			j++
		}
	}
	for ; i < len(base); i++ {
		emitBase(base[i])
	}
	for ; j < len(adv); j++ {
		emitAdvanced(adv[j])
	}

	return NfaState{cursors: out}
}

// compareKeys orders (RuleIx, SelIx) pairs lexicographically.
func compareKeys(aRule, aSel, bRule, bSel int) int {
	switch {
	case aRule != bRule:
		return aRule - bRule
	default:
		return aSel - bSel
	}
}
