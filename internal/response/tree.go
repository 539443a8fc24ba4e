// Package response holds the mutable answer tree that mirrors a
// questionnaire definition one-to-one.
//
// Nodes live in a single arena owned by the Tree; parent/child links are
// index lists, so handles (Item) stay valid for the life of the tree and
// no nested builder is ever mutated in place. The shape is fixed at Build
// time; only answers change afterwards, and only through SetAnswer and
// ClearAnswer, which signal the injected notifier.
package response

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/surveyor/internal/notify"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
)

// ErrUnknownItem is returned when a mutation names a linkId the tree does not hold.
var ErrUnknownItem = errors.New("unknown item")

type node struct {
	linkID   string
	text     string
	answer   *questionnaire.Value
	parent   int // -1 for roots
	children []int
}

// Tree is the response tree of one session.
type Tree struct {
	nodes    []node
	roots    []int
	byLink   map[string]int
	notifier *notify.Notifier
}

// Build mirrors the definition tree: one node per item, same order, same
// linkIds, no answers. Enablement is not consulted; the mirror is total so
// that visibility changes never require rebuilding it. linkIds must be
// unique, which the loader guarantees.
func Build(q *questionnaire.Questionnaire, n *notify.Notifier) *Tree {
	if n == nil {
		n = notify.New()
	}
	t := &Tree{
		byLink:   make(map[string]int),
		notifier: n,
	}
	t.roots = t.mirror(q.Items, -1)
	return t
}

func (t *Tree) mirror(items []*questionnaire.Item, parent int) []int {
	if len(items) == 0 {
		return nil
	}
	idx := make([]int, 0, len(items))
	for _, it := range items {
		i := len(t.nodes)
		t.nodes = append(t.nodes, node{linkID: it.LinkID, text: it.Text, parent: parent})
		t.byLink[it.LinkID] = i
		idx = append(idx, i)
		// mirror grows t.nodes; index again only after it returns.
		children := t.mirror(it.Items, i)
		t.nodes[i].children = children
	}
	return idx
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Notifier returns the change signal injected at construction.
func (t *Tree) Notifier() *notify.Notifier { return t.notifier }

// Roots returns the top-level items in document order.
func (t *Tree) Roots() []Item { return t.handles(t.roots) }

// Item returns the handle for linkID.
func (t *Tree) Item(linkID string) (Item, bool) {
	i, ok := t.byLink[linkID]
	if !ok {
		return Item{}, false
	}
	return Item{tree: t, index: i}, true
}

// Index flattens the tree in pre-order into a fresh linkId lookup.
// Callers take one per pass so every lookup in the pass sees the same snapshot.
func (t *Tree) Index() map[string]Item {
	idx := make(map[string]Item, len(t.nodes))
	var visit func([]int)
	visit = func(ids []int) {
		for _, i := range ids {
			idx[t.nodes[i].linkID] = Item{tree: t, index: i}
			visit(t.nodes[i].children)
		}
	}
	visit(t.roots)
	return idx
}

// LinkIDs returns the pre-order linkId sequence.
func (t *Tree) LinkIDs() []string {
	ids := make([]string, 0, len(t.nodes))
	var visit func([]int)
	visit = func(nodes []int) {
		for _, i := range nodes {
			ids = append(ids, t.nodes[i].linkID)
			visit(t.nodes[i].children)
		}
	}
	visit(t.roots)
	return ids
}

// SetAnswer stores v as the answer of linkID and signals a change.
// Answers are kept whether or not the item is currently enabled.
func (t *Tree) SetAnswer(linkID string, v questionnaire.Value) error {
	i, ok := t.byLink[linkID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, linkID)
	}
	if v.IsEmpty() {
		return fmt.Errorf("answer for %q is empty; use ClearAnswer", linkID)
	}
	val := v
	t.nodes[i].answer = &val
	t.notifier.Bump()
	return nil
}

// ClearAnswer removes the answer of linkID and signals a change.
// Clearing an unanswered item still signals.
func (t *Tree) ClearAnswer(linkID string) error {
	i, ok := t.byLink[linkID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, linkID)
	}
	t.nodes[i].answer = nil
	t.notifier.Bump()
	return nil
}

func (t *Tree) handles(ids []int) []Item {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Item, len(ids))
	for k, i := range ids {
		out[k] = Item{tree: t, index: i}
	}
	return out
}

// Item is a read-only handle to one response node. The zero Item is invalid.
type Item struct {
	tree  *Tree
	index int
}

// Valid reports whether the handle points into a tree.
func (it Item) Valid() bool { return it.tree != nil }

// LinkID returns the identifier copied from the mirrored definition item.
func (it Item) LinkID() string { return it.tree.nodes[it.index].linkID }

// Text returns the display text copied from the definition item.
func (it Item) Text() string { return it.tree.nodes[it.index].text }

// Answer returns the current answer, if any.
func (it Item) Answer() (questionnaire.Value, bool) {
	a := it.tree.nodes[it.index].answer
	if a == nil {
		return questionnaire.Value{}, false
	}
	return *a, true
}

// Children returns the child handles in document order.
func (it Item) Children() []Item {
	return it.tree.handles(it.tree.nodes[it.index].children)
}

// Parent returns the parent handle; ok is false for roots.
func (it Item) Parent() (Item, bool) {
	p := it.tree.nodes[it.index].parent
	if p < 0 {
		return Item{}, false
	}
	return Item{tree: it.tree, index: p}, true
}
