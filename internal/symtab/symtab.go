// Package symtab implements symbol interning for selector and element
// identifiers.
//
// All identifier comparison in the matching engine happens on Symbols, not
// strings. A Symbol is ordered by intern order, which gives every sorted
// sequence in the system (selector class lists, element class lists) one
// consistent total order for the price of an integer compare.
//
// Symbols are only meaningful relative to the Table that produced them.
// A Table is scoped to one compile/match session; mixing symbols across
// tables is driver misuse and is not detected here.
package symtab

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Symbol is an opaque interned identifier.
//
// The zero Symbol is reserved and never returned by Intern. It is used
// throughout the IR to mean "absent" (no id requirement, universal type).
type Symbol uint32

// None is the reserved zero Symbol meaning "no symbol".
const None Symbol = 0

// Table assigns Symbols to identifier strings in first-seen order.
//
// Identifiers are NFC-normalized at the intern boundary so that visually
// identical identifiers with different code point sequences intern to the
// same Symbol.
//
// Not safe for concurrent mutation. Use one Table per session; concurrent
// read-only lookup after all interning is done is safe.
type Table struct {
	byName map[string]Symbol
	names  []string // index = Symbol; names[0] is the reserved None slot
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string]Symbol),
		names:  []string{""}, // reserve Symbol 0
	}
}

// Intern returns the Symbol for name, assigning the next Symbol in intern
// order if name has not been seen before.
func (t *Table) Intern(name string) Symbol {
	name = norm.NFC.String(name)
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := Symbol(len(t.names))
	t.names = append(t.names, name)
	t.byName[name] = s
	return s
}

// Lookup returns the identifier string for s.
// Returns ok=false for None and for symbols not minted by this table.
func (t *Table) Lookup(s Symbol) (string, bool) {
	if s == None || int(s) >= len(t.names) {
		return "", false
	}
	return t.names[s], true
}

// Len returns the number of interned identifiers, excluding the reserved
// None slot.
func (t *Table) Len() int {
	return len(t.names) - 1
}

// InternClasses interns a class list and returns it sorted ascending by
// Symbol with duplicates removed. This is the form both selector class
// requirements and element class facts must be in before matching.
func (t *Table) InternClasses(names []string) []Symbol {
	if len(names) == 0 {
		return nil
	}
	syms := make([]Symbol, 0, len(names))
	for _, name := range names {
		syms = append(syms, t.Intern(name))
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	// Dedupe in place; the slice is already sorted.
	out := syms[:1]
	for _, s := range syms[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
