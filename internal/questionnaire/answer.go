package questionnaire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseAnswer converts raw presentation input into a Value shaped for the
// item's type. It checks form, not plausibility: "1899-01-01" is a fine date.
func ParseAnswer(it *Item, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if !it.Type.Answerable() {
		return Value{}, fmt.Errorf("item %q of type %s does not take answers", it.LinkID, it.Type)
	}
	if raw == "" {
		return Value{}, fmt.Errorf("answer for %q is empty", it.LinkID)
	}

	switch it.Type {
	case TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("answer for %q must be true or false, got %q", it.LinkID, raw)
		}
		return Bool(b), nil
	case TypeInteger:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("answer for %q must be an integer, got %q", it.LinkID, raw)
		}
		return Int(i), nil
	case TypeDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("answer for %q must be a finite decimal, got %q", it.LinkID, raw)
		}
		return Dec(f), nil
	case TypeDate:
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return Value{}, fmt.Errorf("answer for %q must be a date (YYYY-MM-DD), got %q", it.LinkID, raw)
		}
		return DateOf(raw), nil
	case TypeDateTime:
		if _, err := time.Parse(time.RFC3339, raw); err != nil {
			return Value{}, fmt.Errorf("answer for %q must be an RFC3339 date-time, got %q", it.LinkID, raw)
		}
		return DateTimeOf(raw), nil
	case TypeChoice:
		opt, ok := it.Option(raw)
		if !ok {
			codes := make([]string, len(it.AnswerOption))
			for i, o := range it.AnswerOption {
				codes[i] = o.Code
			}
			return Value{}, fmt.Errorf("answer for %q must be one of: %s", it.LinkID, strings.Join(codes, ", "))
		}
		return Code(opt.Code, opt.Display), nil
	}
	return Str(raw), nil
}
