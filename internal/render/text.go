package render

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/surveyor/internal/projection"
)

// DetailLevel controls how much Markdown renders per item.
type DetailLevel string

const (
	DetailSummary  DetailLevel = "summary"
	DetailStandard DetailLevel = "standard"
)

// ParseDetailLevel maps user input to a level, defaulting to standard.
func ParseDetailLevel(s string) DetailLevel {
	if strings.EqualFold(strings.TrimSpace(s), string(DetailSummary)) {
		return DetailSummary
	}
	return DetailStandard
}

// Markdown renders a projection as a nested bullet list. Summary mode
// prints linkIds and answers only; standard mode adds text, widget hints
// and choice options.
//
// Items whose type has no widget are rendered as a warning line instead
// of failing the whole list.
func Markdown(items []projection.ViewItem, level DetailLevel) string {
	if len(items) == 0 {
		return "_No items are currently enabled._\n"
	}

	var b strings.Builder
	for _, v := range items {
		indent := strings.Repeat("  ", v.Depth)
		def := v.Definition

		w, err := WidgetFor(def.Type)
		if err != nil {
			fmt.Fprintf(&b, "%s- ⚠️ `%s`: %v\n", indent, def.LinkID, err)
			continue
		}

		switch {
		case w == WidgetGroup:
			if level == DetailSummary {
				fmt.Fprintf(&b, "%s- **%s**\n", indent, def.LinkID)
			} else {
				fmt.Fprintf(&b, "%s- **%s** (`%s`)\n", indent, def.Text, def.LinkID)
			}
			continue
		case w == WidgetLabel:
			if level != DetailSummary {
				fmt.Fprintf(&b, "%s- _%s_\n", indent, def.Text)
			}
			continue
		}

		answer := "—"
		if v.Answer != nil {
			answer = v.Answer.String()
		}
		marker := "⬜"
		if v.Answer != nil {
			marker = "✅"
		}
		req := ""
		if def.Required {
			req = " *"
		}

		if level == DetailSummary {
			fmt.Fprintf(&b, "%s- %s `%s`%s = %s\n", indent, marker, def.LinkID, req, answer)
			continue
		}
		fmt.Fprintf(&b, "%s- %s `%s`%s %s [%s: %s] → %s\n", indent, marker, def.LinkID, req, def.Text, w, hint(w), answer)
		if len(def.AnswerOption) > 0 {
			codes := make([]string, len(def.AnswerOption))
			for i, o := range def.AnswerOption {
				codes[i] = fmt.Sprintf("`%s` %s", o.Code, o.Label())
			}
			fmt.Fprintf(&b, "%s  options: %s\n", indent, strings.Join(codes, ", "))
		}
	}
	return b.String()
}

// DeltaMarkdown describes what an edit revealed, hid or changed.
func DeltaMarkdown(d projection.Delta) string {
	if d.Empty() {
		return "No visibility changes.\n"
	}
	var b strings.Builder
	if len(d.Shown) > 0 {
		fmt.Fprintf(&b, "Now shown: %s\n", quoteAll(d.Shown))
	}
	if len(d.Hidden) > 0 {
		fmt.Fprintf(&b, "Now hidden: %s\n", quoteAll(d.Hidden))
	}
	if len(d.Changed) > 0 {
		fmt.Fprintf(&b, "Changed: %s\n", quoteAll(d.Changed))
	}
	return b.String()
}

func quoteAll(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = "`" + id + "`"
	}
	return strings.Join(q, ", ")
}
