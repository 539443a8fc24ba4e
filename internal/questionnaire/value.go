package questionnaire

import (
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies which field of a Value is populated.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindBoolean
	KindInteger
	KindDecimal
	KindString
	KindDate
	KindDateTime
	KindCoding
)

// DateLayout is the wire layout of date answers.
const DateLayout = "2006-01-02"

// Value is an answer, or the expected answer of an enablement rule.
// Exactly one field is set; the zero Value is empty.
type Value struct {
	Boolean  *bool         `json:"valueBoolean,omitempty" yaml:"valueBoolean,omitempty"`
	Integer  *int64        `json:"valueInteger,omitempty" yaml:"valueInteger,omitempty"`
	Decimal  *float64      `json:"valueDecimal,omitempty" yaml:"valueDecimal,omitempty"`
	Text     *string       `json:"valueString,omitempty" yaml:"valueString,omitempty"`
	Date     *string       `json:"valueDate,omitempty" yaml:"valueDate,omitempty"`
	DateTime *string       `json:"valueDateTime,omitempty" yaml:"valueDateTime,omitempty"`
	Coding   *AnswerOption `json:"valueCoding,omitempty" yaml:"valueCoding,omitempty"`
}

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{Boolean: &b} }

// Int builds an integer value.
func Int(i int64) Value { return Value{Integer: &i} }

// Dec builds a decimal value.
func Dec(f float64) Value { return Value{Decimal: &f} }

// Str builds a string value. Text items use the same representation.
func Str(s string) Value { return Value{Text: &s} }

// DateOf builds a date value from a "2006-01-02" string.
func DateOf(s string) Value { return Value{Date: &s} }

// DateTimeOf builds a dateTime value from an RFC3339 string.
func DateTimeOf(s string) Value { return Value{DateTime: &s} }

// Code builds a coding value.
func Code(code, display string) Value {
	return Value{Coding: &AnswerOption{Code: code, Display: display}}
}

// Kind returns the populated field. When several are set (a malformed
// document) the first in declaration order wins; the loader rejects that case.
func (v Value) Kind() ValueKind {
	switch {
	case v.Boolean != nil:
		return KindBoolean
	case v.Integer != nil:
		return KindInteger
	case v.Decimal != nil:
		return KindDecimal
	case v.Text != nil:
		return KindString
	case v.Date != nil:
		return KindDate
	case v.DateTime != nil:
		return KindDateTime
	case v.Coding != nil:
		return KindCoding
	}
	return KindNone
}

// IsEmpty reports whether no field is set.
func (v Value) IsEmpty() bool { return v.Kind() == KindNone }

func (v Value) fieldCount() int {
	n := 0
	for _, set := range []bool{
		v.Boolean != nil, v.Integer != nil, v.Decimal != nil, v.Text != nil,
		v.Date != nil, v.DateTime != nil, v.Coding != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind() {
	case KindBoolean:
		return strconv.FormatBool(*v.Boolean)
	case KindInteger:
		return strconv.FormatInt(*v.Integer, 10)
	case KindDecimal:
		return strconv.FormatFloat(*v.Decimal, 'f', -1, 64)
	case KindString:
		return *v.Text
	case KindDate:
		return *v.Date
	case KindDateTime:
		return *v.DateTime
	case KindCoding:
		return v.Coding.Label()
	}
	return ""
}

func (v Value) numeric() (float64, bool) {
	switch v.Kind() {
	case KindInteger:
		return float64(*v.Integer), true
	case KindDecimal:
		return *v.Decimal, true
	}
	return 0, false
}

// Equal reports whether two values hold the same answer. Integer and
// decimal values compare numerically; codings compare by code.
func (v Value) Equal(o Value) bool {
	if a, ok := v.numeric(); ok {
		b, ok := o.numeric()
		return ok && a == b
	}
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNone:
		return true
	case KindBoolean:
		return *v.Boolean == *o.Boolean
	case KindCoding:
		return v.Coding.Code == o.Coding.Code
	}
	c, ok := v.Compare(o)
	return ok && c == 0
}

// Compare orders two values. ok is false when the pair has no ordering:
// different kinds, booleans, codings, or unparseable temporal values.
func (v Value) Compare(o Value) (int, bool) {
	if a, ok := v.numeric(); ok {
		b, ok := o.numeric()
		if !ok {
			return 0, false
		}
		return cmp3(a < b, a > b), true
	}
	if v.Kind() != o.Kind() {
		return 0, false
	}
	switch v.Kind() {
	case KindString:
		return strings.Compare(*v.Text, *o.Text), true
	case KindDate:
		return compareTimes(*v.Date, *o.Date, DateLayout)
	case KindDateTime:
		return compareTimes(*v.DateTime, *o.DateTime, time.RFC3339)
	}
	return 0, false
}

func compareTimes(a, b, layout string) (int, bool) {
	ta, err := time.Parse(layout, a)
	if err != nil {
		return 0, false
	}
	tb, err := time.Parse(layout, b)
	if err != nil {
		return 0, false
	}
	return cmp3(ta.Before(tb), ta.After(tb)), true
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}
