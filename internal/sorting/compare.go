// Package sorting reorders the rows of a cell range by one or more key
// columns and reports the smallest block that changed.
package sorting

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"grider/internal/grid"
)

// Order is the direction of a sort.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder accepts asc/ascending/a-z and desc/descending/z-a.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "a-z", "az":
		return Ascending, nil
	case "desc", "descending", "z-a", "za":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q", s)
}

func (o Order) sign() int {
	if o == Descending {
		return -1
	}
	return 1
}

// Comparer orders two non-empty values. Empty values never reach a
// Comparer used by Sort; they are handled by the empty-last wrapper.
type Comparer interface {
	Compare(a, b grid.Value) int
}

// CompareFunc adapts a plain function to Comparer.
type CompareFunc func(a, b grid.Value) int

func (f CompareFunc) Compare(a, b grid.Value) int { return f(a, b) }

// Natural is the built-in comparison over mixed cell types:
// same kind compares naturally, text against anything compares as text,
// anything else tries numbers first and falls back to text.
//
// A nil Collator compares text byte-wise.
type Natural struct {
	Collator *collate.Collator
}

// NewNatural returns a Natural comparer collating text for tag.
// An empty tag keeps byte-wise ordering.
func NewNatural(tag string) (Natural, error) {
	if strings.TrimSpace(tag) == "" {
		return Natural{}, nil
	}
	lang, err := language.Parse(tag)
	if err != nil {
		return Natural{}, fmt.Errorf("collation %q: %w", tag, err)
	}
	return Natural{Collator: collate.New(lang)}, nil
}

func (n Natural) Compare(a, b grid.Value) int {
	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case grid.KindNumber, grid.KindBool:
			return cmpFloat(a.Number(), b.Number())
		case grid.KindText:
			return n.text(a.String(), b.String())
		case grid.KindEmpty:
			return 0
		}
		if c, ok := compareOther(a.Any(), b.Any()); ok {
			return c
		}
	}

	if a.Kind() == grid.KindText || b.Kind() == grid.KindText {
		return n.text(a.String(), b.String())
	}

	if x, ok := a.Float(); ok {
		if y, ok := b.Float(); ok {
			return cmpFloat(x, y)
		}
	}
	return n.text(a.String(), b.String())
}

func (n Natural) text(a, b string) int {
	if n.Collator != nil {
		return n.Collator.CompareString(a, b)
	}
	return strings.Compare(a, b)
}

// emptyLast keeps empty values at the bottom whatever the direction.
// Its result is in ascending terms; Sort flips it for descending order,
// so the sign for empty-vs-value is pre-flipped here.
type emptyLast struct {
	inner Comparer
	sign  int
}

func newEmptyLast(c Comparer, order Order) emptyLast {
	if c == nil {
		c = Natural{}
	}
	return emptyLast{inner: c, sign: order.sign()}
}

func (e emptyLast) Compare(a, b grid.Value) int {
	ae, be := a.IsEmpty(), b.IsEmpty()
	switch {
	case ae && be:
		return 0
	case be:
		return -e.sign
	case ae:
		return e.sign
	}
	return clamp(e.inner.Compare(a, b))
}

// Compare is the default value comparison for order, in the terms
// Sort consumes: a negative result for a descending order means b
// sorts first.
func Compare(a, b grid.Value, order Order) int {
	return newEmptyLast(Natural{}, order).Compare(a, b)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func clamp(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}

// compareOther handles KindOther payloads that share a Go type.
func compareOther(a, b any) (int, bool) {
	switch x := a.(type) {
	case int:
		y, ok := b.(int)
		return cmpOrdered(x, y), ok
	case int64:
		y, ok := b.(int64)
		return cmpOrdered(x, y), ok
	case uint64:
		y, ok := b.(uint64)
		return cmpOrdered(x, y), ok
	case float64:
		y, ok := b.(float64)
		return cmpFloat(x, y), ok
	case string:
		y, ok := b.(string)
		return strings.Compare(x, y), ok
	case interface{ Compare(any) int }:
		return clamp(x.Compare(b)), true
	}
	return 0, false
}

func cmpOrdered[T int | int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
