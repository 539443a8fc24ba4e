package response

import (
	"fmt"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
)

// Status is the lifecycle state of a response document.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusStopped    Status = "stopped"
)

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	switch s {
	case StatusInProgress, StatusCompleted, StatusStopped:
		return nil
	}
	return fmt.Errorf("invalid response status %q: must be one of: in-progress, completed, stopped", s)
}

// Document is the serialisable form of a response tree, handed to the
// persistence layer. It carries every node, including those whose
// definition item is currently disabled.
type Document struct {
	ID            string         `json:"id"`
	Questionnaire string         `json:"questionnaire"`
	Status        Status         `json:"status"`
	Authored      string         `json:"authored,omitempty"`
	Items         []DocumentItem `json:"item"`
}

// DocumentItem is one node of a Document.
type DocumentItem struct {
	LinkID string               `json:"linkId"`
	Text   string               `json:"text,omitempty"`
	Answer *questionnaire.Value `json:"answer,omitempty"`
	Items  []DocumentItem       `json:"item,omitempty"`
}

// Document snapshots the tree. Answers are copied, so later edits do not
// leak into the snapshot.
func (t *Tree) Document(id, questionnaireRef string, status Status, authored string) Document {
	return Document{
		ID:            id,
		Questionnaire: questionnaireRef,
		Status:        status,
		Authored:      authored,
		Items:         documentItems(t.Roots()),
	}
}

func documentItems(items []Item) []DocumentItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]DocumentItem, len(items))
	for i, it := range items {
		out[i] = DocumentItem{LinkID: it.LinkID(), Text: it.Text()}
		if v, ok := it.Answer(); ok {
			out[i].Answer = &v
		}
		out[i].Items = documentItems(it.Children())
	}
	return out
}

// Answered counts the document's answered nodes.
func (d Document) Answered() int {
	var count func([]DocumentItem) int
	count = func(items []DocumentItem) int {
		n := 0
		for _, it := range items {
			if it.Answer != nil {
				n++
			}
			n += count(it.Items)
		}
		return n
	}
	return count(d.Items)
}
