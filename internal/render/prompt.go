package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/session"
)

// Asker collects raw input for one item. An empty answer skips the item.
type Asker interface {
	Ask(item *questionnaire.Item) (string, error)
}

// HuhAsker asks through interactive terminal fields.
type HuhAsker struct{}

// Ask shows one field matching the item's widget.
func (HuhAsker) Ask(item *questionnaire.Item) (string, error) {
	w, err := WidgetFor(item.Type)
	if err != nil {
		return "", err
	}
	validate := func(s string) error {
		if strings.TrimSpace(s) == "" && !item.Required {
			return nil
		}
		_, err := questionnaire.ParseAnswer(item, s)
		return err
	}

	var raw string
	switch w {
	case WidgetCheckbox:
		var b bool
		if err := huh.NewConfirm().Title(item.Text).Value(&b).Run(); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case WidgetRadioGroup:
		opts := make([]huh.Option[string], len(item.AnswerOption))
		for i, o := range item.AnswerOption {
			opts[i] = huh.NewOption(o.Label(), o.Code)
		}
		err = huh.NewSelect[string]().Title(item.Text).Options(opts...).Value(&raw).Run()
	case WidgetMultiLineText:
		err = huh.NewText().Title(item.Text).Value(&raw).Validate(validate).Run()
	default:
		err = huh.NewInput().Title(item.Text).Placeholder(hint(w)).Value(&raw).Validate(validate).Run()
	}
	return raw, err
}

// Fill drives a session to the end: it repeatedly projects, asks for the
// first enabled unanswered item, and stores the answer. Skipped items are
// not asked again. Each answer is followed by a fresh projection, so items
// revealed by it are asked in document order.
func Fill(s *session.Session, asker Asker, out io.Writer) error {
	const maxAttempts = 3
	skipped := make(map[string]bool)
	failures := make(map[string]int)
	for {
		items, err := s.Visible()
		if err != nil {
			return err
		}

		var next *questionnaire.Item
		for _, v := range items {
			def := v.Definition
			if def.Type.Answerable() && v.Answer == nil && !skipped[def.LinkID] {
				next = def
				break
			}
		}
		if next == nil {
			return nil
		}

		raw, err := asker.Ask(next)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return fmt.Errorf("fill aborted: %w", err)
			}
			return err
		}
		if strings.TrimSpace(raw) == "" {
			skipped[next.LinkID] = true
			continue
		}

		delta, err := s.Answer(next.LinkID, raw)
		if err != nil {
			if errors.Is(err, session.ErrAborted) {
				return err
			}
			fmt.Fprintf(out, "%s\n", Styles.Missing.Render(err.Error()))
			failures[next.LinkID]++
			if failures[next.LinkID] >= maxAttempts {
				skipped[next.LinkID] = true
			}
			continue
		}
		if len(delta.Shown) > 0 || len(delta.Hidden) > 0 {
			fmt.Fprint(out, Styles.Hint.Render(DeltaMarkdown(delta)))
		}
	}
}
