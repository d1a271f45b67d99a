package grid

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColNames(t *testing.T) {
	cases := []struct {
		col  int
		name string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, ColToName(tc.col))
		col, ok := NameToCol(tc.name)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.col, col, tc.name)
	}

	_, ok := NameToCol("A1")
	assert.False(t, ok)
	_, ok = NameToCol("")
	assert.False(t, ok)

	col, ok := NameToCol("ZZZZZZ")
	require.True(t, ok)
	assert.Equal(t, 321272405, col)
	_, ok = NameToCol(strings.Repeat("A", 15))
	assert.False(t, ok, "overflows int")
}

func TestParseCellRef(t *testing.T) {
	r, c, ok := ParseCellRef("Sheet1!$B$3")
	require.True(t, ok)
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)

	for _, bad := range []string{"", "A", "12", "A0", "A1B", "1A", "AAAAAAAAAAAAAAA1", "A99999999999999999999"} {
		_, _, ok := ParseCellRef(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, "AA10", ColRowToName(26, 9))
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("D9:b2")
	require.NoError(t, err)
	assert.Equal(t, NewRange(1, 1, 8, 3), r)
	assert.Equal(t, 8, r.EndRow())
	assert.Equal(t, 3, r.EndCol())
	assert.Equal(t, "B2:D10", NewRange(1, 1, 9, 3).String())

	r, err = ParseRange("C4")
	require.NoError(t, err)
	assert.Equal(t, "C4", r.String())

	_, err = ParseRange("A1:nope")
	assert.True(t, errors.Is(err, ErrInvalidAddress))
	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, "A1:nope", addrErr.Address)
}

func TestNamesResolve(t *testing.T) {
	names := Names{}
	names.Define("table", NewRange(0, 0, 5, 2))

	r, err := names.Resolve("TABLE")
	require.NoError(t, err)
	assert.Equal(t, NewRange(0, 0, 5, 2), r)

	r, err = names.Resolve("A1:B2")
	require.NoError(t, err)
	assert.Equal(t, NewRange(0, 0, 2, 2), r)

	_, err = names.Resolve("missing")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestRangeShift(t *testing.T) {
	rows := NewRange(2, 0, 3, 1)
	cases := []struct {
		at, n int
		want  Range
	}{
		{0, 2, NewRange(4, 0, 3, 1)},
		{2, 1, NewRange(3, 0, 3, 1)},
		{3, 1, NewRange(2, 0, 4, 1)},
		{5, 1, rows},
		{0, -1, NewRange(1, 0, 3, 1)},
		{3, -1, NewRange(2, 0, 2, 1)},
		{1, -3, NewRange(1, 0, 1, 1)},
		{6, -2, rows},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rows.ShiftRows(tc.at, tc.n), "at %d n %d", tc.at, tc.n)
	}
	assert.True(t, rows.ShiftRows(2, -3).IsEmpty())
	assert.Equal(t, NewRange(0, 2, 1, 2), NewRange(0, 1, 1, 2).ShiftCols(0, 1))
	assert.True(t, NewRange(0, 1, 1, 1).ShiftCols(1, -1).IsEmpty())
}

func TestRangeIntersects(t *testing.T) {
	r := NewRange(1, 1, 2, 2)
	assert.True(t, r.Intersects(NewRange(2, 2, 5, 5)))
	assert.True(t, r.Intersects(NewRange(0, 0, 10, 10)))
	assert.False(t, r.Intersects(NewRange(3, 1, 1, 1)))
	assert.False(t, r.Intersects(NewRange(1, 0, 2, 1)))
	assert.False(t, r.Intersects(Range{}))
}

func TestRangeEmpty(t *testing.T) {
	assert.True(t, Range{}.IsEmpty())
	assert.Equal(t, "", Range{}.String())
	assert.True(t, NewRange(3, 3, 2, 2).Contains(4, 4))
	assert.False(t, NewRange(3, 3, 2, 2).Contains(5, 4))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, KindEmpty, ParseValue("").Kind())
	assert.Equal(t, KindNumber, ParseValue(" 12.5 ").Kind())
	assert.Equal(t, 12.5, ParseValue("12.5").Number())
	assert.True(t, ParseValue("true").Bool())
	assert.Equal(t, KindBool, ParseValue("FALSE").Kind())
	assert.Equal(t, KindText, ParseValue("abc").Kind())
	assert.True(t, ParseValue("").IsEmpty())
	assert.True(t, Text("").IsEmpty())
	assert.False(t, Text(" ").IsEmpty())
}

func TestValueCoercion(t *testing.T) {
	f, ok := Text(" 10 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 10.0, f)

	_, ok = Text("abc").Float()
	assert.False(t, ok)

	f, ok = Bool(true).Float()
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	f, ok = Other(int64(7)).Float()
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = Other(struct{}{}).Float()
	assert.False(t, ok)

	assert.Equal(t, "9", Number(9).String())
	assert.Equal(t, "0.25", Number(0.25).String())
	assert.Equal(t, "TRUE", Bool(true).String())
}

func TestValueEqualAndSource(t *testing.T) {
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Text("1")))
	assert.True(t, Empty().Equal(Text("")))

	v := Number(3).WithSource("=1+2")
	assert.Equal(t, "=1+2", v.Source())
	assert.False(t, v.Equal(Number(3)))
	assert.Equal(t, "3", Number(3).Source())
}

func TestMapSource(t *testing.T) {
	m := Map{
		{0, 0}: {Text: "7"},
		{2, 1}: {Text: "x", Covered: true},
	}
	v, st := m.Cell(0, 0)
	assert.Equal(t, CellValid, st)
	assert.Equal(t, 7.0, v.Number())

	_, st = m.Cell(2, 1)
	assert.Equal(t, CellCovered, st)

	v, st = m.Cell(5, 5)
	assert.Equal(t, CellAbsent, st)
	assert.True(t, v.IsEmpty())

	maxR, maxC := m.Bounds()
	assert.Equal(t, 2, maxR)
	assert.Equal(t, 1, maxC)
}
