package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

func TestCompileSelector_TypeOnly(t *testing.T) {
	tab := symtab.NewTable()

	sel, err := CompileSelector("div", tab)
	require.NoError(t, err)

	assert.Equal(t, "div", sel.Source)
	assert.Empty(t, sel.Tail)
	assert.Equal(t, tab.Intern("div"), sel.First.Type.Name)
	assert.Equal(t, symtab.None, sel.First.ID)
	assert.Empty(t, sel.First.Classes)
}

func TestCompileSelector_Universal(t *testing.T) {
	tab := symtab.NewTable()

	sel, err := CompileSelector("*", tab)
	require.NoError(t, err)

	assert.True(t, sel.First.Type.Universal())
	assert.True(t, sel.First.Empty(), "bare * compiles to the unconstrained compound")
}

func TestCompileSelector_FullCompound(t *testing.T) {
	tab := symtab.NewTable()

	sel, err := CompileSelector("div#main.foo.bar", tab)
	require.NoError(t, err)

	assert.Equal(t, tab.Intern("div"), sel.First.Type.Name)
	assert.Equal(t, tab.Intern("main"), sel.First.ID)
	// Classes come out in ascending symbol (intern) order, deduplicated.
	assert.Equal(t, tab.InternClasses([]string{"foo", "bar"}), sel.First.Classes)
}

func TestCompileSelector_ClassesSortedByInternOrder(t *testing.T) {
	tab := symtab.NewTable()
	// Pre-intern in reverse lexical order so intern order differs from
	// lexical order.
	z := tab.Intern("zzz")
	a := tab.Intern("aaa")

	sel, err := CompileSelector(".aaa.zzz", tab)
	require.NoError(t, err)

	assert.Equal(t, []symtab.Symbol{z, a}, sel.First.Classes,
		"class requirements sort by intern order, not lexical order")
}

func TestCompileSelector_DuplicateClassesDeduped(t *testing.T) {
	tab := symtab.NewTable()

	sel, err := CompileSelector(".foo.foo", tab)
	require.NoError(t, err)
	assert.Len(t, sel.First.Classes, 1)
}

func TestCompileSelector_DescendantChain(t *testing.T) {
	tab := symtab.NewTable()

	sel, err := CompileSelector("#a b", tab)
	require.NoError(t, err)

	assert.Equal(t, tab.Intern("a"), sel.First.ID)
	require.Len(t, sel.Tail, 1)
	assert.Equal(t, ir.Descendant, sel.Tail[0].Combinator)
	assert.Equal(t, tab.Intern("b"), sel.Tail[0].Selector.Type.Name)
}

func TestCompileSelector_ChildChain(t *testing.T) {
	tab := symtab.NewTable()

	for _, src := range []string{"#a > b", "#a>b", "#a >b", "#a> b"} {
		sel, err := CompileSelector(src, tab)
		require.NoError(t, err, "source %q", src)
		require.Len(t, sel.Tail, 1, "source %q", src)
		assert.Equal(t, ir.Child, sel.Tail[0].Combinator, "source %q", src)
	}
}

func TestCompileSelector_LongChain(t *testing.T) {
	tab := symtab.NewTable()

	sel, err := CompileSelector("main div.card > span.label em", tab)
	require.NoError(t, err)

	require.Len(t, sel.Tail, 3)
	assert.Equal(t, ir.Descendant, sel.Tail[0].Combinator)
	assert.Equal(t, ir.Child, sel.Tail[1].Combinator)
	assert.Equal(t, ir.Descendant, sel.Tail[2].Combinator)
	assert.Equal(t, 4, sel.Compounds())
}

func TestCompileSelector_CompiledTableValidates(t *testing.T) {
	tab := symtab.NewTable()

	rules, err := CompileList([]string{
		"div.foo",
		"#a b",
		"#a > b",
		"* > span.x.y",
	}, tab)
	require.NoError(t, err)
	assert.NoError(t, ir.Validate(rules))
}

func TestCompileSelector_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"bare hash", "#"},
		{"bare dot", "div."},
		{"double id", "#a#b"},
		{"dangling combinator", "a >"},
		{"leading combinator", "> a"},
		{"unexpected character", "div$"},
		{"double combinator", "a > > b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tab := symtab.NewTable()
			_, err := CompileSelector(tc.src, tab)
			require.Error(t, err, "source %q", tc.src)

			var cerr *CompileError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.src, cerr.Src)
		})
	}
}

func TestCompileList_ReportsRuleIndex(t *testing.T) {
	tab := symtab.NewTable()

	_, err := CompileList([]string{"div", "#"}, tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
}

func TestCompileSelector_SameIdentifierSharesSymbol(t *testing.T) {
	tab := symtab.NewTable()

	a, err := CompileSelector("div.foo", tab)
	require.NoError(t, err)
	b, err := CompileSelector("span.foo", tab)
	require.NoError(t, err)

	assert.Equal(t, a.First.Classes[0], b.First.Classes[0],
		"same class name interns to the same symbol across rules")
}
