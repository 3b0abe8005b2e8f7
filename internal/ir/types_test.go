package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/selva/internal/symtab"
)

func TestTypeSelector_Universal(t *testing.T) {
	assert.True(t, TypeSelector{}.Universal())
	assert.False(t, TypeSelector{Name: symtab.Symbol(1)}.Universal())
}

func TestCompoundSelector_Empty(t *testing.T) {
	assert.True(t, CompoundSelector{}.Empty())
	assert.False(t, CompoundSelector{ID: symtab.Symbol(1)}.Empty())
	assert.False(t, CompoundSelector{Type: TypeSelector{Name: symtab.Symbol(1)}}.Empty())
	assert.False(t, CompoundSelector{Classes: []symtab.Symbol{1}}.Empty())
}

func TestComplexSelector_CompoundAt(t *testing.T) {
	first := CompoundSelector{Type: TypeSelector{Name: symtab.Symbol(1)}}
	second := CompoundSelector{Type: TypeSelector{Name: symtab.Symbol(2)}}
	third := CompoundSelector{Type: TypeSelector{Name: symtab.Symbol(3)}}

	sel := ComplexSelector{
		First: first,
		Tail: []SelectorStep{
			{Combinator: Descendant, Selector: second},
			{Combinator: Child, Selector: third},
		},
	}

	assert.Equal(t, 3, sel.Compounds())
	assert.Equal(t, first, sel.CompoundAt(0))
	assert.Equal(t, second, sel.CompoundAt(1))
	assert.Equal(t, third, sel.CompoundAt(2))
	assert.Equal(t, Descendant, sel.CombinatorBefore(1))
	assert.Equal(t, Child, sel.CombinatorBefore(2))
}

func TestComplexSelector_String(t *testing.T) {
	sel := ComplexSelector{Source: "div.foo > span"}
	assert.Equal(t, "div.foo > span", sel.String())

	bare := ComplexSelector{Tail: []SelectorStep{{Combinator: Child}}}
	assert.Equal(t, "<compiled selector, 2 compounds>", bare.String())
}

func TestValidate_AcceptsWellFormed(t *testing.T) {
	rules := []ComplexSelector{
		{
			First: CompoundSelector{
				Type:    TypeSelector{Name: symtab.Symbol(1)},
				Classes: []symtab.Symbol{2, 5, 9},
			},
			Tail: []SelectorStep{
				{Combinator: Descendant, Selector: CompoundSelector{ID: symtab.Symbol(3)}},
			},
		},
	}
	assert.NoError(t, Validate(rules))
}

func TestValidate_AcceptsUniversalCompound(t *testing.T) {
	// "*" compiles to a compound with no requirements; it is valid and
	// matches any node.
	rules := []ComplexSelector{
		{First: CompoundSelector{}},
	}
	assert.NoError(t, Validate(rules))
}

func TestValidate_RejectsUnsortedClasses(t *testing.T) {
	rules := []ComplexSelector{
		{First: CompoundSelector{Classes: []symtab.Symbol{5, 2}}},
	}
	err := Validate(rules)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not strictly ascending")
}

func TestValidate_RejectsDuplicateClasses(t *testing.T) {
	rules := []ComplexSelector{
		{First: CompoundSelector{Classes: []symtab.Symbol{2, 2}}},
	}
	assert.Error(t, Validate(rules))
}

func TestValidate_RejectsUnknownCombinator(t *testing.T) {
	rules := []ComplexSelector{
		{
			First: CompoundSelector{ID: symtab.Symbol(1)},
			Tail: []SelectorStep{
				{Combinator: Combinator("sibling"), Selector: CompoundSelector{ID: symtab.Symbol(2)}},
			},
		},
	}
	err := Validate(rules)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown combinator")
}

func TestSheetHash_Deterministic(t *testing.T) {
	rules := []ComplexSelector{
		{Source: "div.foo"},
		{Source: "#a b"},
	}
	assert.Equal(t, SheetHash(rules), SheetHash(rules))
}

func TestSheetHash_SensitiveToOrderAndContent(t *testing.T) {
	a := []ComplexSelector{{Source: "div.foo"}, {Source: "#a b"}}
	b := []ComplexSelector{{Source: "#a b"}, {Source: "div.foo"}}
	c := []ComplexSelector{{Source: "div.foo"}}

	assert.NotEqual(t, SheetHash(a), SheetHash(b), "rule order is identity")
	assert.NotEqual(t, SheetHash(a), SheetHash(c))
}
