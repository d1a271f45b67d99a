package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"grider/internal/filter"
	"grider/internal/grid"
)

func sample() *Document {
	doc := NewDocument()
	doc.Cells = grid.Map{
		{0, 0}: {Text: "name"}, {0, 1}: {Text: "qty"},
		{1, 0}: {Text: "pear"}, {1, 1}: {Text: "1.50"},
		{2, 0}: {Text: "fig"}, {2, 1}: {Text: "=B2*2"},
		{3, 0}: {Text: "TRUE"}, {3, 1}: {Text: "", Covered: true},
	}
	doc.ColWidths = []int{12, 6}
	doc.Rows = []grid.RowState{{Height: 1}, {Height: 0, LastHeight: 2}, {Height: 1}, {Height: 1}}
	doc.Names.Define("table", grid.NewRange(0, 0, 4, 2))
	return doc
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatOf("a.CSV"))
	assert.Equal(t, FormatXLSX, FormatOf("dir/b.xlsx"))
	assert.Equal(t, FormatGrider, FormatOf("c.grider"))
	assert.Equal(t, FormatGrider, FormatOf("noext"))
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	doc := sample()
	require.NoError(t, Save(doc, path, FormatCSV))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,qty\npear,1.50\nfig,=B2*2\nTRUE,\n", string(data))

	got, err := Load(path, FormatCSV)
	require.NoError(t, err)
	assert.Len(t, got.Cells, 7)
	assert.Equal(t, "=B2*2", got.Cells[[2]int{2, 1}].Text)
	assert.Nil(t, got.Rows)
}

func TestSaveCSVReportsWriteErrors(t *testing.T) {
	g := grid.Map{{0, 0}: {Text: "x"}}
	assert.Error(t, SaveCSV(g, filepath.Join(t.TempDir(), "missing", "sheet.csv")))

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	assert.Error(t, SaveCSV(g, "/dev/full"))
}

func TestCSVEmptyGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, SaveCSV(grid.Map{}, path))
	g, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, g)
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.grider")
	doc := sample()
	doc.Filter = filter.NewColumnFilter(grid.NewRange(1, 0, 3, 2))
	cond, err := doc.Filter.Column(0)
	require.NoError(t, err)
	cond.Select("pear", "fig")
	_, err = doc.Filter.Column(1)
	require.NoError(t, err)

	require.NoError(t, SaveDocument(doc, path))
	got, err := LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, doc.Cells, got.Cells)
	assert.Equal(t, doc.ColWidths, got.ColWidths)
	assert.Equal(t, doc.Rows, got.Rows)
	rng, ok := got.Names.Lookup("TABLE")
	require.True(t, ok)
	assert.Equal(t, grid.NewRange(0, 0, 4, 2), rng)

	require.NotNil(t, got.Filter)
	assert.Equal(t, doc.Filter.Range, got.Filter.Range)
	conds := got.Filter.Conditions()
	require.Len(t, conds, 2)
	assert.Equal(t, []string{"fig", "pear"}, conds[0].Items())
	assert.True(t, conds[1].IsSelectAll())
}

func TestLoadDocumentBadRef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.grider")
	require.NoError(t, os.WriteFile(path, []byte("cells:\n  - {ref: 1A, text: x}\n"), 0o644))
	_, err := LoadDocument(path)
	assert.ErrorIs(t, err, grid.ErrInvalidAddress)
}

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	doc := sample()
	require.NoError(t, Save(doc, path, FormatXLSX))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	formula, err := f.GetCellFormula("Sheet1", "B3")
	require.NoError(t, err)
	assert.Equal(t, "B2*2", formula)
	visible, err := f.GetRowVisible("Sheet1", 2)
	require.NoError(t, err)
	assert.False(t, visible)
	require.NoError(t, f.Close())

	got, err := Load(path, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "pear", got.Cells[[2]int{1, 0}].Text)
	assert.Equal(t, "1.50", got.Cells[[2]int{1, 1}].Text)
	assert.Equal(t, "=B2*2", got.Cells[[2]int{2, 1}].Text)
	assert.Equal(t, "TRUE", got.Cells[[2]int{3, 0}].Text)
	assert.True(t, got.Rows[1].Hidden())
	assert.False(t, got.Rows[0].Hidden())
	assert.Equal(t, []int{12, 6}, got.ColWidths)

	rng, ok := got.Names.Lookup("table")
	require.True(t, ok)
	assert.Equal(t, grid.NewRange(0, 0, 4, 2), rng)
}

func TestLoadXLSXMergedCellsAreCovered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "head"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", 3))
	require.NoError(t, f.MergeCell("Sheet1", "A1", "B2"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	doc, err := LoadXLSX(path)
	require.NoError(t, err)

	_, st := doc.Cells.Cell(0, 0)
	assert.Equal(t, grid.CellValid, st)
	for _, rc := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		_, st := doc.Cells.Cell(rc[0], rc[1])
		assert.Equal(t, grid.CellCovered, st, rc)
	}
	v, _ := doc.Cells.Cell(2, 0)
	assert.Equal(t, grid.KindNumber, v.Kind())
}
