// Package render turns a projection into something a person can read or
// fill in: markdown for MCP clients, styled text for terminals, and an
// interactive prompt loop.
//
// Each item type maps to exactly one Widget. The session core never looks
// at item types; this package is where an unknown type becomes an error.
package render

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
)

// ErrUnsupportedItemType is returned for item types with no widget.
var ErrUnsupportedItemType = errors.New("unsupported item type")

// Widget is the rendering strategy of an item.
type Widget string

const (
	WidgetGroup          Widget = "group"
	WidgetCheckbox       Widget = "checkbox"
	WidgetDatePicker     Widget = "date-picker"
	WidgetDateTimePicker Widget = "date-time-picker"
	WidgetSingleLineText Widget = "single-line-text"
	WidgetMultiLineText  Widget = "multi-line-text"
	WidgetIntegerInput   Widget = "integer-input"
	WidgetDecimalInput   Widget = "decimal-input"
	WidgetRadioGroup     Widget = "radio-group"
	WidgetLabel          Widget = "label"
)

var widgets = map[questionnaire.ItemType]Widget{
	questionnaire.TypeGroup:    WidgetGroup,
	questionnaire.TypeBoolean:  WidgetCheckbox,
	questionnaire.TypeDate:     WidgetDatePicker,
	questionnaire.TypeDateTime: WidgetDateTimePicker,
	questionnaire.TypeString:   WidgetSingleLineText,
	questionnaire.TypeText:     WidgetMultiLineText,
	questionnaire.TypeInteger:  WidgetIntegerInput,
	questionnaire.TypeDecimal:  WidgetDecimalInput,
	questionnaire.TypeChoice:   WidgetRadioGroup,
	questionnaire.TypeDisplay:  WidgetLabel,
}

// WidgetFor returns the rendering strategy for an item type.
func WidgetFor(t questionnaire.ItemType) (Widget, error) {
	w, ok := widgets[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedItemType, t)
	}
	return w, nil
}

// hint is the short input guidance shown next to unanswered items.
func hint(w Widget) string {
	switch w {
	case WidgetCheckbox:
		return "true/false"
	case WidgetDatePicker:
		return "YYYY-MM-DD"
	case WidgetDateTimePicker:
		return "RFC3339, e.g. 2024-05-01T09:30:00Z"
	case WidgetIntegerInput:
		return "whole number"
	case WidgetDecimalInput:
		return "number"
	case WidgetRadioGroup:
		return "one option code"
	case WidgetSingleLineText, WidgetMultiLineText:
		return "text"
	}
	return ""
}
