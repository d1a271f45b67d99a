package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the payload held by a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindNumber
	KindText
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// Value is a cell payload. The zero Value is empty.
//
// A Value may carry the source text it was produced from (a formula for
// instance); sorting compares the payload but writes the source back.
type Value struct {
	kind   Kind
	num    float64
	text   string
	other  any
	source string
}

func Empty() Value           { return Value{} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Text(s string) Value    { return Value{kind: KindText, text: s} }
func Other(x any) Value      { return Value{kind: KindOther, other: x} }

// Bool stores false as 0 and true as 1 so numeric coercion is free.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// WithSource returns v remembering the raw cell text it came from.
func (v Value) WithSource(src string) Value {
	v.source = src
	return v
}

func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports the empty tag or an empty string.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty || (v.kind == KindText && v.text == "")
}

func (v Value) Bool() bool      { return v.kind == KindBool && v.num != 0 }
func (v Value) Number() float64 { return v.num }
func (v Value) Any() any        { return v.other }

// Source is the raw cell text to store for this value.
func (v Value) Source() string {
	if v.source != "" {
		return v.source
	}
	return v.String()
}

// String is the text representation used for lexical comparison.
func (v Value) String() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindBool:
		if v.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case KindNumber:
		return FormatNumber(v.num)
	case KindText:
		return v.text
	default:
		if v.other == nil {
			return ""
		}
		return fmt.Sprint(v.other)
	}
}

// Float coerces v to a number. Text must parse as a float.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber, KindBool:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		return f, err == nil
	case KindOther:
		return toFloat(v.other)
	}
	return 0, false
}

// Equal is strict: same kind, same payload, same source.
func (v Value) Equal(o Value) bool {
	if v.IsEmpty() && o.IsEmpty() {
		return v.source == o.source
	}
	if v.kind != o.kind || v.source != o.source {
		return false
	}
	switch v.kind {
	case KindNumber, KindBool:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindText:
		return v.text == o.text
	default:
		return fmt.Sprint(v.other) == fmt.Sprint(o.other)
	}
}

// ParseValue turns cell text into a typed value: numbers, TRUE/FALSE,
// otherwise text. Empty text is the empty value.
func ParseValue(s string) Value {
	if s == "" {
		return Empty()
	}
	t := strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(t, 64); err == nil && t != "" {
		return Number(f)
	}
	switch strings.ToUpper(t) {
	case "TRUE":
		return Bool(true)
	case "FALSE":
		return Bool(false)
	}
	return Text(s)
}

// FormatNumber prints whole numbers without a fraction and trims trailing zeros.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case fmt.Stringer:
		f, err := strconv.ParseFloat(strings.TrimSpace(n.String()), 64)
		return f, err == nil
	}
	return 0, false
}
