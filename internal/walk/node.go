// Package walk owns the node-tree model and the pre-order traversal
// driver that feeds the matching engine.
//
// The driver maintains an explicit stack of inherited NfaState snapshots:
// descending into a subtree pushes the merged state for the children, and
// returning to a sibling naturally restores the parent's state because
// every stack frame carries the state its node was visited with. The
// evaluation path is strictly single-threaded; multiple walkers may share
// one compiled rule table across goroutines as long as each owns its own
// symbol table and stack.
package walk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Node is one element of the document tree. Trees are authored as YAML
// documents:
//
//	tag: div
//	id: a
//	classes: [foo, bar]
//	children:
//	  - tag: span
type Node struct {
	Tag      string   `yaml:"tag"`
	ID       string   `yaml:"id,omitempty"`
	Classes  []string `yaml:"classes,omitempty"`
	Children []*Node  `yaml:"children,omitempty"`
}

// Validate checks that every node in the tree has a tag.
func (n *Node) Validate() error {
	return n.validate("root")
}

func (n *Node) validate(where string) error {
	if n == nil {
		return fmt.Errorf("%s: nil node", where)
	}
	if n.Tag == "" {
		return fmt.Errorf("%s: node without tag", where)
	}
	for i, child := range n.Children {
		if err := child.validate(fmt.Sprintf("%s/%s[%d]", where, n.Tag, i)); err != nil {
			return err
		}
	}
	return nil
}

// LoadTree reads and validates a YAML tree document.
func LoadTree(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree document: %w", err)
	}
	root := &Node{}
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("parse tree document %s: %w", path, err)
	}
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree document %s: %w", path, err)
	}
	return root, nil
}
