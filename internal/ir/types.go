package ir

import (
	"fmt"

	"github.com/roach88/selva/internal/symtab"
)

// Combinator is the relation between two consecutive compound selectors
// in a chain.
type Combinator string

const (
	// Descendant licenses the next compound selector to match any
	// descendant of the node the previous one matched ("A B").
	Descendant Combinator = "descendant"

	// Child licenses the next compound selector to match only an
	// immediate child ("A > B").
	Child Combinator = "child"
)

// ValidCombinators defines the allowed combinator values.
var ValidCombinators = map[Combinator]bool{
	Descendant: true,
	Child:      true,
}

// TypeSelector constrains the element tag of a compound selector.
// The zero value is the universal selector and matches any tag.
type TypeSelector struct {
	Name symtab.Symbol
}

// Universal reports whether the selector matches any tag.
func (t TypeSelector) Universal() bool {
	return t.Name == symtab.None
}

// CompoundSelector is the combinator-free requirement set holding on a
// single node: optional id, optional type, and class requirements.
type CompoundSelector struct {
	// ID is the required element id, or symtab.None for no id requirement.
	ID symtab.Symbol

	// Type is the tag requirement; zero value matches any tag.
	Type TypeSelector

	// Classes are the required classes, ascending by Symbol, unique.
	Classes []symtab.Symbol
}

// Empty reports whether the compound selector carries no requirement at
// all. An empty compound is the universal selector: it matches any node.
func (c CompoundSelector) Empty() bool {
	return c.ID == symtab.None && c.Type.Universal() && len(c.Classes) == 0
}

// SelectorStep is one (combinator, compound) link in a selector chain.
type SelectorStep struct {
	Combinator Combinator
	Selector   CompoundSelector
}

// ComplexSelector is one complete rule: a chain
// First <comb> Tail[0] <comb> Tail[1] ...
type ComplexSelector struct {
	// Source is the original selector text, kept for diagnostics and for
	// the sheet content hash. Not consulted during matching.
	Source string

	First CompoundSelector
	Tail  []SelectorStep
}

// Compounds returns the number of compound selectors in the chain.
func (s ComplexSelector) Compounds() int {
	return len(s.Tail) + 1
}

// CompoundAt returns the compound selector at chain position i,
// where position 0 is First and position i>0 is Tail[i-1].
// The caller guarantees 0 <= i <= len(Tail).
func (s ComplexSelector) CompoundAt(i int) CompoundSelector {
	if i == 0 {
		return s.First
	}
	return s.Tail[i-1].Selector
}

// CombinatorBefore returns the combinator immediately preceding chain
// position i. The caller guarantees 1 <= i <= len(Tail); position 0 has
// no preceding combinator.
func (s ComplexSelector) CombinatorBefore(i int) Combinator {
	return s.Tail[i-1].Combinator
}

// String renders the chain from its stored source, falling back to a
// structural placeholder when Source is empty.
func (s ComplexSelector) String() string {
	if s.Source != "" {
		return s.Source
	}
	return fmt.Sprintf("<compiled selector, %d compounds>", s.Compounds())
}
