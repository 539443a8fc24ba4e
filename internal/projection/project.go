// Package projection flattens a definition tree and its mirrored response
// tree into the ordered list of items that should currently be presented.
//
// A pass indexes the response tree once, checks that both trees still have
// the same shape, then walks them in lockstep (pre-order) asking the
// enablement evaluator about every node. A disabled node hides its whole
// subtree. Each call recomputes from scratch.
package projection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/surveyor/internal/enablement"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

// ErrStructuralMismatch marks a response tree that no longer mirrors its definition.
var ErrStructuralMismatch = errors.New("structural mismatch")

// StructuralMismatchError locates where the two trees diverge.
type StructuralMismatchError struct {
	Path   []string // linkIds of the common ancestors
	Reason string
}

func (e *StructuralMismatchError) Error() string {
	at := "root"
	if len(e.Path) > 0 {
		at = strings.Join(e.Path, "/")
	}
	return fmt.Sprintf("response tree diverges from definition at %s: %s", at, e.Reason)
}

func (e *StructuralMismatchError) Unwrap() error { return ErrStructuralMismatch }

// ViewItem pairs a visible definition item with its response node.
// Answer is a snapshot taken during the pass; Response always reads live.
type ViewItem struct {
	Definition *questionnaire.Item
	Response   response.Item
	Answer     *questionnaire.Value
	Depth      int
}

// LinkID returns the shared identifier of the pair.
func (v ViewItem) LinkID() string { return v.Definition.LinkID }

// Project returns the enabled items in pre-order. Both failure modes are
// fatal programming errors: a structural mismatch, or an enablement rule
// the shared index cannot resolve.
func Project(q *questionnaire.Questionnaire, tree *response.Tree) ([]ViewItem, error) {
	if err := CheckShape(q.Items, tree.Roots()); err != nil {
		return nil, err
	}

	resolve := enablement.IndexResolver(tree.Index())
	var out []ViewItem
	if err := filter(q.Items, tree.Roots(), 0, resolve, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckShape verifies the mirroring invariant: same child counts and the
// same linkId at every position, all the way down.
func CheckShape(defs []*questionnaire.Item, nodes []response.Item) error {
	return checkShape(defs, nodes, nil)
}

func checkShape(defs []*questionnaire.Item, nodes []response.Item, path []string) error {
	if len(defs) != len(nodes) {
		return &StructuralMismatchError{
			Path:   path,
			Reason: fmt.Sprintf("definition has %d children, response has %d", len(defs), len(nodes)),
		}
	}
	for i, def := range defs {
		if got := nodes[i].LinkID(); got != def.LinkID {
			return &StructuralMismatchError{
				Path:   path,
				Reason: fmt.Sprintf("position %d: definition linkId %q, response linkId %q", i, def.LinkID, got),
			}
		}
		if err := checkShape(def.Items, nodes[i].Children(), append(path[:len(path):len(path)], def.LinkID)); err != nil {
			return err
		}
	}
	return nil
}

func filter(defs []*questionnaire.Item, nodes []response.Item, depth int, resolve enablement.Resolver, out *[]ViewItem) error {
	for i, def := range defs {
		enabled, err := enablement.Evaluate(def, resolve)
		if err != nil {
			return err
		}
		if !enabled {
			continue
		}
		view := ViewItem{Definition: def, Response: nodes[i], Depth: depth}
		if v, ok := nodes[i].Answer(); ok {
			view.Answer = &v
		}
		*out = append(*out, view)
		if err := filter(def.Items, nodes[i].Children(), depth+1, resolve, out); err != nil {
			return err
		}
	}
	return nil
}
