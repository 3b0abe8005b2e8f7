package walk

import (
	"fmt"
	"log/slog"

	"github.com/roach88/selva/internal/engine"
	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

// Visit carries the per-node result delivered to the walk callback.
type Visit struct {
	// Path identifies the node: /tag at the root, then /tag[childIndex]
	// segments below it.
	Path string

	// Seq is the node's pre-order visit number, starting at 1.
	Seq int64

	// Node is the visited node.
	Node *Node

	// State is the NfaState the node was visited with (inherited from
	// its parent), before per-node narrowing. Exposed for trace
	// introspection; treat as read-only.
	State engine.NfaState

	// Matched lists the rule indices whose whole chain matched at this
	// node, ascending.
	Matched []int
}

// VisitFunc receives each node in pre-order. Returning an error aborts
// the walk.
type VisitFunc func(Visit) error

// Walker drives the matching engine over a tree in strict pre-order.
//
// A Walker owns its symbol table for the duration of a session: element
// facts are interned into the same table the rules were compiled with so
// that all comparisons share one intern order. Not safe for concurrent
// use; share the rule table, not the Walker.
type Walker struct {
	rules []ir.ComplexSelector
	syms  *symtab.Table
	clock *Clock
}

// New creates a Walker over a compiled rule table and the symbol table it
// was compiled with.
func New(rules []ir.ComplexSelector, syms *symtab.Table) *Walker {
	return &Walker{
		rules: rules,
		syms:  syms,
		clock: NewClock(),
	}
}

// Clock returns the walker's visit clock, for stamping session records.
func (w *Walker) Clock() *Clock {
	return w.clock
}

// frame is one entry of the explicit traversal stack. Each frame carries
// the inherited NfaState snapshot its node is visited with, so returning
// to a sibling restores the parent state for free.
type frame struct {
	node  *Node
	path  string
	state engine.NfaState
}

// Walk visits every node of the tree in pre-order, narrowing the
// inherited state through the per-node fact steps and reporting matched
// rule indices through visit.
func (w *Walker) Walk(root *Node, visit VisitFunc) error {
	if err := root.Validate(); err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	stack := []frame{{
		node:  root,
		path:  "/" + root.Tag,
		state: engine.Initial(w.rules),
	}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		seq := w.clock.Next()
		final := w.narrow(f.state, f.node)
		matched := final.AcceptedRules(w.rules)

		slog.Debug("node visited",
			"path", f.path,
			"seq", seq,
			"live_cursors", f.state.Len(),
			"matched", len(matched),
		)

		if err := visit(Visit{
			Path:    f.path,
			Seq:     seq,
			Node:    f.node,
			State:   f.state,
			Matched: matched,
		}); err != nil {
			return fmt.Errorf("walk %s: %w", f.path, err)
		}

		if len(f.node.Children) == 0 {
			continue
		}

		childState := f.state.Merge(final, w.rules)
		// Push in reverse so children pop in document order.
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			child := f.node.Children[i]
			stack = append(stack, frame{
				node:  child,
				path:  fmt.Sprintf("%s/%s[%d]", f.path, child.Tag, i),
				state: childState,
			})
		}
	}

	return nil
}

// narrow runs one full node visit: id, tag, each class in ascending
// symbol order, then the class-stream close.
func (w *Walker) narrow(state engine.NfaState, n *Node) engine.NfaState {
	id := symtab.None
	if n.ID != "" {
		id = w.syms.Intern(n.ID)
	}
	tag := w.syms.Intern(n.Tag)
	classes := w.syms.InternClasses(n.Classes)

	state = state.StepID(id, w.rules)
	state = state.StepTag(tag, w.rules)
	for _, class := range classes {
		state = state.StepClass(class, w.rules)
	}
	return state.EndClass(w.rules)
}
