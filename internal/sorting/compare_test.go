package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grider/internal/grid"
)

type version int

func (v version) Compare(o any) int {
	w, ok := o.(version)
	if !ok {
		return -1
	}
	return int(v) - int(w)
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b grid.Value
		asc  int
		desc int
	}{
		{"both empty", grid.Empty(), grid.Text(""), 0, 0},
		{"empty vs value", grid.Empty(), grid.Number(1), 1, -1},
		{"value vs empty", grid.Text("x"), grid.Text(""), -1, 1},
		{"numbers", grid.Number(2), grid.Number(10), -1, -1},
		{"text", grid.Text("b"), grid.Text("a"), 1, 1},
		{"bools", grid.Bool(false), grid.Bool(true), -1, -1},
		{"text vs number is lexical", grid.Text("10"), grid.Number(9), -1, -1},
		{"number vs text is lexical", grid.Number(9), grid.Text("abc"), -1, -1},
		{"bool vs number is numeric", grid.Bool(true), grid.Number(0.5), 1, 1},
		{"other ints", grid.Other(3), grid.Other(20), -1, -1},
		{"other vs number is numeric", grid.Other(int64(30)), grid.Number(4), 1, 1},
		{"unconvertible falls back to text", grid.Other(struct{ N int }{5}), grid.Bool(true), 1, 1},
		{"comparable other", grid.Other(version(2)), grid.Other(version(1)), 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.asc, Compare(tc.a, tc.b, Ascending))
			assert.Equal(t, tc.desc, Compare(tc.a, tc.b, Descending))
		})
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{"": Ascending, "ASC": Ascending, "z-a": Descending, "desc": Descending} {
		got, err := ParseOrder(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOrder("sideways")
	assert.Error(t, err)
	assert.Equal(t, "desc", Descending.String())
}
