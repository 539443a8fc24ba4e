package render_test

import (
	"strings"
	"testing"

	"github.com/HendryAvila/surveyor/internal/projection"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/render"
)

func sampleItems() []projection.ViewItem {
	yes := questionnaire.Bool(true)
	return []projection.ViewItem{
		{Definition: &questionnaire.Item{LinkID: "g", Type: questionnaire.TypeGroup, Text: "Habits"}},
		{Definition: &questionnaire.Item{LinkID: "smoker", Type: questionnaire.TypeBoolean, Text: "Do you smoke?"}, Answer: &yes, Depth: 1},
		{Definition: &questionnaire.Item{
			LinkID: "freq", Type: questionnaire.TypeChoice, Text: "How often?", Required: true,
			AnswerOption: []questionnaire.AnswerOption{{Code: "d", Display: "Daily"}, {Code: "w"}},
		}, Depth: 1},
		{Definition: &questionnaire.Item{LinkID: "note", Type: questionnaire.TypeDisplay, Text: "Thanks"}},
		{Definition: &questionnaire.Item{LinkID: "odd", Type: "slider", Text: "Odd"}},
	}
}

func TestMarkdown_Standard(t *testing.T) {
	out := render.Markdown(sampleItems(), render.DetailStandard)

	for _, want := range []string{
		"- **Habits** (`g`)",
		"  - ✅ `smoker` Do you smoke? [checkbox: true/false] → true",
		"  - ⬜ `freq` * How often? [radio-group: one option code] → —",
		"options: `d` Daily, `w` w",
		"- _Thanks_",
		"⚠️ `odd`: unsupported item type",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, out)
		}
	}
}

func TestMarkdown_Summary(t *testing.T) {
	out := render.Markdown(sampleItems(), render.DetailSummary)

	if !strings.Contains(out, "- **g**\n") {
		t.Errorf("summary group line missing:\n%s", out)
	}
	if !strings.Contains(out, "`smoker` = true") {
		t.Errorf("summary answer line missing:\n%s", out)
	}
	if strings.Contains(out, "Thanks") || strings.Contains(out, "options:") {
		t.Errorf("summary should omit labels and options:\n%s", out)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	if out := render.Markdown(nil, render.DetailStandard); !strings.Contains(out, "No items") {
		t.Errorf("Markdown(nil) = %q", out)
	}
}

func TestParseDetailLevel(t *testing.T) {
	tests := map[string]render.DetailLevel{
		"summary":  render.DetailSummary,
		" SUMMARY": render.DetailSummary,
		"standard": render.DetailStandard,
		"":         render.DetailStandard,
		"full":     render.DetailStandard,
	}
	for in, want := range tests {
		if got := render.ParseDetailLevel(in); got != want {
			t.Errorf("ParseDetailLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeltaMarkdown(t *testing.T) {
	out := render.DeltaMarkdown(projection.Delta{Shown: []string{"a", "b"}, Hidden: []string{"c"}})
	if !strings.Contains(out, "Now shown: `a`, `b`") || !strings.Contains(out, "Now hidden: `c`") {
		t.Errorf("DeltaMarkdown() = %q", out)
	}
	if out := render.DeltaMarkdown(projection.Delta{}); out != "No visibility changes.\n" {
		t.Errorf("DeltaMarkdown(empty) = %q", out)
	}
}
