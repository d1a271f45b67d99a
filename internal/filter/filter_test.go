package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grider/internal/grid"
)

type headers struct {
	states []grid.RowState
	writes int
}

func newHeaders(heights ...int) *headers {
	h := &headers{}
	for _, v := range heights {
		h.states = append(h.states, grid.RowState{Height: v})
	}
	return h
}

func (h *headers) RowState(row int) grid.RowState { return h.states[row] }

func (h *headers) SetRowState(row int, st grid.RowState) {
	h.writes++
	h.states[row] = st
}

func (h *headers) heights() []int {
	out := make([]int, len(h.states))
	for i, s := range h.states {
		out[i] = s.Height
	}
	return out
}

func TestApplyHideThenShowRestoresHeight(t *testing.T) {
	h := newHeaders(1, 3, 2)
	rng := grid.NewRange(0, 0, 3, 1)

	ev := Apply(h, rng, func(row int) bool { return row != 1 })
	assert.Equal(t, rng, ev.Range)
	assert.Equal(t, []int{1, 0, 2}, h.heights())
	assert.Equal(t, 3, h.states[1].LastHeight)

	ShowAll(h, rng)
	assert.Equal(t, []int{1, 3, 2}, h.heights())
}

func TestApplyHideIsIdempotent(t *testing.T) {
	h := newHeaders(4)
	rng := grid.NewRange(0, 0, 1, 1)
	hide := func(int) bool { return false }

	Apply(h, rng, hide)
	Apply(h, rng, hide)
	assert.Equal(t, 1, h.writes)
	assert.Equal(t, grid.RowState{Height: 0, LastHeight: 4}, h.states[0])

	ShowAll(h, rng)
	assert.Equal(t, 4, h.states[0].Height)
}

func TestApplyLeavesVisibleRowsAlone(t *testing.T) {
	h := newHeaders(2, 5)
	Apply(h, grid.NewRange(0, 0, 2, 1), func(int) bool { return true })
	assert.Zero(t, h.writes)
	assert.Equal(t, []int{2, 5}, h.heights())
}

func TestApplyOnlyTouchesSpan(t *testing.T) {
	h := newHeaders(1, 1, 1, 1)
	Apply(h, grid.NewRange(1, 0, 2, 3), func(int) bool { return false })
	assert.Equal(t, []int{1, 0, 0, 1}, h.heights())
}

func TestColumnFilter(t *testing.T) {
	src := grid.Map{
		{0, 0}: {Text: "fruit"}, {0, 1}: {Text: "qty"},
		{1, 0}: {Text: "pear"}, {1, 1}: {Text: "2"},
		{2, 0}: {Text: "apple"}, {2, 1}: {Text: "10"},
		{3, 0}: {Text: "pear"}, {3, 1}: {Text: "10"},
		{5, 0}: {Text: "fig"},
	}
	h := newHeaders(1, 1, 1, 1, 1, 1)
	f := NewColumnFilter(grid.NewRange(1, 0, 5, 2))

	items, err := f.DistinctItems(src, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "fig", "pear", ""}, items)

	items, err = f.DistinctItems(src, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10", ""}, items)

	fruit, err := f.Column(0)
	require.NoError(t, err)
	assert.True(t, fruit.IsSelectAll())
	fruit.Select("pear", "fig")

	f.Apply(src, h)
	assert.Equal(t, []int{1, 1, 0, 1, 0, 1}, h.heights())

	qty, err := f.Column(1)
	require.NoError(t, err)
	qty.Select("10")
	f.Apply(src, h)
	assert.Equal(t, []int{1, 0, 0, 1, 0, 0}, h.heights())

	assert.Len(t, f.Conditions(), 2)
	assert.Equal(t, []string{"fig", "pear"}, fruit.Items())

	f.Clear()
	f.Apply(src, h)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1}, h.heights())

	_, err = f.Column(7)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
	_, err = f.DistinctItems(src, 7)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
}

func TestColumnFilterShift(t *testing.T) {
	f := NewColumnFilter(grid.NewRange(1, 0, 4, 3))
	a, err := f.Column(0)
	require.NoError(t, err)
	a.Select("x")
	c, err := f.Column(2)
	require.NoError(t, err)
	c.Select("y")

	f.ShiftCols(0, 1)
	assert.Equal(t, grid.NewRange(1, 1, 4, 3), f.Range)
	conds := f.Conditions()
	require.Len(t, conds, 2)
	assert.Equal(t, 1, conds[0].Column)
	assert.Equal(t, 3, conds[1].Column)

	f.ShiftCols(1, -1)
	assert.Equal(t, grid.NewRange(1, 1, 4, 2), f.Range)
	conds = f.Conditions()
	require.Len(t, conds, 1)
	assert.Equal(t, 2, conds[0].Column)
	assert.Equal(t, []string{"y"}, conds[0].Items())

	f.ShiftRows(0, -1)
	assert.Equal(t, grid.NewRange(0, 1, 4, 2), f.Range)
}
