// Package enablement decides whether a definition item is currently
// enabled, given a resolver from linkId to the answer-bearing response node.
//
// The evaluator is a pure function: it holds no state and never walks a
// tree itself. Callers supply a resolver built from one consistent
// snapshot of the response tree.
package enablement

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
)

// ErrDanglingReference marks a rule whose referenced linkId has no node.
var ErrDanglingReference = errors.New("dangling enablement reference")

// DanglingReferenceError names the item and the unresolvable reference.
type DanglingReferenceError struct {
	LinkID     string // item owning the rule
	References string // linkId the rule points at
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("item %q: enableWhen references unknown linkId %q", e.LinkID, e.References)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// Resolver looks up the response node of a linkId.
type Resolver func(linkID string) (response.Item, bool)

// IndexResolver adapts a pre-built index to a Resolver.
func IndexResolver(idx map[string]response.Item) Resolver {
	return func(linkID string) (response.Item, bool) {
		it, ok := idx[linkID]
		return it, ok
	}
}

// Evaluate reports whether item is enabled. Items without rules are always
// enabled; otherwise every rule must hold. A rule pointing at a linkId the
// resolver cannot find is an error, never a silent "disabled".
func Evaluate(item *questionnaire.Item, resolve Resolver) (bool, error) {
	enabled := true
	for _, rule := range item.EnableWhen {
		node, ok := resolve(rule.Question)
		if !ok {
			return false, &DanglingReferenceError{LinkID: item.LinkID, References: rule.Question}
		}
		// Keep resolving after a failed rule so a dangling reference later in
		// the list is still reported.
		if enabled && !Apply(rule.Operator, answerOf(node), rule.Answer) {
			enabled = false
		}
	}
	return enabled, nil
}

func answerOf(node response.Item) *questionnaire.Value {
	v, ok := node.Answer()
	if !ok {
		return nil
	}
	return &v
}

// Apply is the operator semantics: a total function from (answer,
// expected) to bool. A nil answer means "not answered".
//
//   - exists holds when presence matches the boolean expectation.
//   - Every other operator is false for a missing answer.
//   - = and != compare with Value.Equal; ordering operators need an
//     orderable pair (numbers, strings, dates) and are false otherwise.
func Apply(op questionnaire.Operator, answer *questionnaire.Value, expected questionnaire.Value) bool {
	if op == questionnaire.OpExists {
		want := expected.Boolean != nil && *expected.Boolean
		return (answer != nil) == want
	}
	if answer == nil {
		return false
	}

	switch op {
	case questionnaire.OpEqual:
		return answer.Equal(expected)
	case questionnaire.OpNotEqual:
		return !answer.Equal(expected)
	}

	c, ok := answer.Compare(expected)
	if !ok {
		return false
	}
	switch op {
	case questionnaire.OpGreater:
		return c > 0
	case questionnaire.OpLess:
		return c < 0
	case questionnaire.OpGreaterEqual:
		return c >= 0
	case questionnaire.OpLessEqual:
		return c <= 0
	}
	return false
}
