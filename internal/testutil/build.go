// Package testutil provides fixture builders shared by tests across
// packages: inline tree construction and compiled rule tables.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/selva/internal/compiler"
	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
	"github.com/roach88/selva/internal/walk"
)

// NodeMod mutates a node under construction.
type NodeMod func(*walk.Node)

// Node builds a tree node inline:
//
//	testutil.Node("div", testutil.ID("root"),
//	    testutil.Node("span", testutil.Classes("item")),
//	)
//
// Child nodes may be passed directly; they are appended in order.
func Node(tag string, mods ...any) *walk.Node {
	n := &walk.Node{Tag: tag}
	for _, mod := range mods {
		switch m := mod.(type) {
		case NodeMod:
			m(n)
		case *walk.Node:
			n.Children = append(n.Children, m)
		default:
			panic("testutil.Node: argument must be a NodeMod or *walk.Node")
		}
	}
	return n
}

// ID sets the node id.
func ID(id string) NodeMod {
	return func(n *walk.Node) { n.ID = id }
}

// Classes sets the node's class list.
func Classes(names ...string) NodeMod {
	return func(n *walk.Node) { n.Classes = names }
}

// MustCompileRules compiles a selector list into a rule table and the
// symbol table it was interned into, failing the test on parse errors.
func MustCompileRules(t *testing.T, srcs ...string) ([]ir.ComplexSelector, *symtab.Table) {
	t.Helper()

	syms := symtab.NewTable()
	rules, err := compiler.CompileList(srcs, syms)
	require.NoError(t, err)
	return rules, syms
}

// CollectMatches walks the tree and returns path -> matched rule indices
// for every node with at least one match.
func CollectMatches(t *testing.T, rules []ir.ComplexSelector, syms *symtab.Table, root *walk.Node) map[string][]int {
	t.Helper()

	matched := make(map[string][]int)
	w := walk.New(rules, syms)
	err := w.Walk(root, func(v walk.Visit) error {
		if len(v.Matched) > 0 {
			matched[v.Path] = v.Matched
		}
		return nil
	})
	require.NoError(t, err)
	return matched
}
