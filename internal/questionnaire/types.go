// Package questionnaire holds the immutable definition model: the tree of
// items a respondent is asked to fill, their enablement rules, and the
// loader that turns JSON or YAML documents into that tree.
//
// Definitions are read-only after loading. The same *Questionnaire may be
// shared by any number of concurrently open sessions.
package questionnaire

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition is wrapped by every loader validation failure.
var ErrInvalidDefinition = errors.New("invalid questionnaire definition")

// --- Item type enum ---

// ItemType tells the presentation layer how an item is answered.
// The core treats it as opaque data.
type ItemType string

const (
	TypeGroup    ItemType = "group"
	TypeBoolean  ItemType = "boolean"
	TypeDate     ItemType = "date"
	TypeDateTime ItemType = "dateTime"
	TypeString   ItemType = "string"
	TypeText     ItemType = "text"
	TypeInteger  ItemType = "integer"
	TypeDecimal  ItemType = "decimal"
	TypeChoice   ItemType = "choice"
	TypeDisplay  ItemType = "display" // read-only label, never answered
)

// AllTypes lists every declared item type in a stable order.
var AllTypes = []ItemType{
	TypeGroup, TypeBoolean, TypeDate, TypeDateTime, TypeString,
	TypeText, TypeInteger, TypeDecimal, TypeChoice, TypeDisplay,
}

var validTypes = func() map[ItemType]bool {
	m := make(map[ItemType]bool, len(AllTypes))
	for _, t := range AllTypes {
		m[t] = true
	}
	return m
}()

// ValidateType returns an error if the type is not recognized.
func ValidateType(t ItemType) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid item type %q: must be one of: group, boolean, date, dateTime, string, text, integer, decimal, choice, display", t)
	}
	return nil
}

// Answerable reports whether items of this type carry an answer.
func (t ItemType) Answerable() bool {
	return t != TypeGroup && t != TypeDisplay
}

// --- Operator enum ---

// Operator compares an item's current answer with a rule's expected value.
type Operator string

const (
	OpExists       Operator = "exists"
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

var validOperators = map[Operator]bool{
	OpExists:       true,
	OpEqual:        true,
	OpNotEqual:     true,
	OpGreater:      true,
	OpLess:         true,
	OpGreaterEqual: true,
	OpLessEqual:    true,
}

// ValidateOperator returns an error if the operator is not recognized.
func ValidateOperator(op Operator) error {
	if !validOperators[op] {
		return fmt.Errorf("invalid operator %q: must be one of: exists, =, !=, >, <, >=, <=", op)
	}
	return nil
}

// --- Core data structures ---

// AnswerOption is one selectable answer of a choice item.
type AnswerOption struct {
	Code    string `json:"code" yaml:"code" validate:"required"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// Label returns the display text, falling back to the code.
func (o AnswerOption) Label() string {
	if o.Display != "" {
		return o.Display
	}
	return o.Code
}

// EnableWhen is a single enablement rule: the item it belongs to is shown
// only while the answer of Question satisfies Operator against Answer.
type EnableWhen struct {
	Question string   `json:"question" yaml:"question" validate:"required"`
	Operator Operator `json:"operator" yaml:"operator" validate:"required,operator"`
	Answer   Value    `json:"answer" yaml:"answer"`
}

// Item is one node of the definition tree.
type Item struct {
	LinkID       string         `json:"linkId" yaml:"linkId" validate:"required"`
	Type         ItemType       `json:"type" yaml:"type" validate:"required,itemtype"`
	Text         string         `json:"text,omitempty" yaml:"text,omitempty"`
	Required     bool           `json:"required,omitempty" yaml:"required,omitempty"`
	EnableWhen   []EnableWhen   `json:"enableWhen,omitempty" yaml:"enableWhen,omitempty" validate:"dive"`
	AnswerOption []AnswerOption `json:"answerOption,omitempty" yaml:"answerOption,omitempty" validate:"dive"`
	Items        []*Item        `json:"item,omitempty" yaml:"item,omitempty" validate:"dive,required"`
}

// Option returns the answer option with the given code.
func (it *Item) Option(code string) (AnswerOption, bool) {
	for _, o := range it.AnswerOption {
		if o.Code == code {
			return o, true
		}
	}
	return AnswerOption{}, false
}

// Questionnaire is a loaded definition document.
type Questionnaire struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	URL    string  `json:"url,omitempty" yaml:"url,omitempty"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Status string  `json:"status,omitempty" yaml:"status,omitempty"`
	Items  []*Item `json:"item" yaml:"item" validate:"required,min=1,dive,required"`
}

// Reference is the declared identity stamped into response documents.
// It prefers the canonical URL and falls back to the id.
func (q *Questionnaire) Reference() string {
	if q.URL != "" {
		return q.URL
	}
	return q.ID
}

// Walk visits every item in pre-order, passing its depth (roots are 0).
// Returning false from fn skips the item's children.
func Walk(items []*Item, fn func(item *Item, depth int) bool) {
	walk(items, 0, fn)
}

func walk(items []*Item, depth int, fn func(*Item, int) bool) {
	for _, it := range items {
		if fn(it, depth) {
			walk(it.Items, depth+1, fn)
		}
	}
}

// LinkIDs returns the pre-order sequence of linkIds in the document.
func (q *Questionnaire) LinkIDs() []string {
	var ids []string
	Walk(q.Items, func(it *Item, _ int) bool {
		ids = append(ids, it.LinkID)
		return true
	})
	return ids
}

// Find returns the definition item with the given linkId.
func (q *Questionnaire) Find(linkID string) (*Item, bool) {
	var found *Item
	Walk(q.Items, func(it *Item, _ int) bool {
		if found != nil {
			return false
		}
		if it.LinkID == linkID {
			found = it
			return false
		}
		return true
	})
	return found, found != nil
}
