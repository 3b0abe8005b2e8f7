package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeBuilder(t *testing.T) {
	root := Node("div", ID("root"), Classes("a", "b"),
		Node("span"),
		Node("p", Classes("c")),
	)

	assert.Equal(t, "div", root.Tag)
	assert.Equal(t, "root", root.ID)
	assert.Equal(t, []string{"a", "b"}, root.Classes)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "span", root.Children[0].Tag)
	assert.Equal(t, []string{"c"}, root.Children[1].Classes)
}

func TestNodeBuilder_RejectsBadArgument(t *testing.T) {
	assert.Panics(t, func() { Node("div", 42) })
}

func TestMustCompileRules(t *testing.T) {
	rules, syms := MustCompileRules(t, "div .item", "#a > b")

	require.Len(t, rules, 2)
	assert.Equal(t, "div .item", rules[0].Source)
	assert.Positive(t, syms.Len())
}

func TestCollectMatches(t *testing.T) {
	rules, syms := MustCompileRules(t, "div span")
	root := Node("div",
		Node("span"),
		Node("p", Node("span")),
	)

	matched := CollectMatches(t, rules, syms, root)
	assert.Equal(t, map[string][]int{
		"/div/span[0]":      {0},
		"/div/p[1]/span[0]": {0},
	}, matched)
}
