package storage

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"grider/internal/grid"
)

const xlsxSheet = "Sheet1"

// SaveXLSX writes the first sheet of a workbook. Formulas are stored as
// formulas without cached values, hidden rows stay hidden.
func SaveXLSX(doc *Document, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	for k, c := range doc.Cells {
		if c.Text == "" {
			continue
		}
		name := grid.ColRowToName(k[1], k[0])
		var err error
		if strings.HasPrefix(c.Text, "=") {
			err = f.SetCellFormula(xlsxSheet, name, c.Text[1:])
		} else {
			err = f.SetCellValue(xlsxSheet, name, xlsxValue(grid.ParseValue(c.Text), c.Text))
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	for col, w := range doc.ColWidths {
		name := grid.ColToName(col)
		if err := f.SetColWidth(xlsxSheet, name, name, float64(w)); err != nil {
			return err
		}
	}
	for row, st := range doc.Rows {
		if st.Hidden() {
			if err := f.SetRowVisible(xlsxSheet, row+1, false); err != nil {
				return err
			}
		}
	}
	for name, rng := range doc.Names {
		if rng.IsEmpty() {
			continue
		}
		err := f.SetDefinedName(&excelize.DefinedName{
			Name:     strings.ToLower(name),
			RefersTo: xlsxSheet + "!" + absolute(rng),
		})
		if err != nil {
			return fmt.Errorf("define %s: %w", name, err)
		}
	}
	return f.SaveAs(filename)
}

// xlsxValue keeps numbers and booleans typed; text that only looks
// numeric with a different spelling ("1.50") stays text.
func xlsxValue(v grid.Value, text string) any {
	switch v.Kind() {
	case grid.KindNumber:
		if grid.FormatNumber(v.Number()) == strings.TrimSpace(text) {
			return v.Number()
		}
	case grid.KindBool:
		return v.Bool()
	}
	return text
}

func absolute(rng grid.Range) string {
	cell := func(row, col int) string {
		return fmt.Sprintf("$%s$%d", grid.ColToName(col), row+1)
	}
	return cell(rng.Row, rng.Col) + ":" + cell(rng.EndRow(), rng.EndCol())
}

// LoadXLSX reads the first sheet of a workbook. Cells under a merged
// region other than its top-left one come back covered.
func LoadXLSX(filename string) (*Document, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filename)
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	maxC := 0
	for _, row := range rows {
		maxC = max(maxC, len(row))
	}
	// GetRows trims trailing blanks, and a formula without a cached value
	// reads as blank, so every row is scanned to the full width.
	for r, row := range rows {
		for c := 0; c < maxC; c++ {
			val := ""
			if c < len(row) {
				val = row[c]
			}
			name := grid.ColRowToName(c, r)
			if formula, err := f.GetCellFormula(sheet, name); err == nil && formula != "" {
				val = "=" + formula
			}
			if val != "" {
				doc.Cells[[2]int{r, c}] = grid.Cell{Text: val}
			}
		}
	}

	if merges, err := f.GetMergeCells(sheet); err == nil {
		for _, m := range merges {
			r1, c1, ok1 := grid.ParseCellRef(m.GetStartAxis())
			r2, c2, ok2 := grid.ParseCellRef(m.GetEndAxis())
			if !ok1 || !ok2 {
				continue
			}
			span := grid.Span(r1, c1, r2, c2)
			for r := span.Row; r <= span.EndRow(); r++ {
				for c := span.Col; c <= span.EndCol(); c++ {
					if r == span.Row && c == span.Col {
						continue
					}
					cell := doc.Cells[[2]int{r, c}]
					cell.Covered = true
					doc.Cells[[2]int{r, c}] = cell
				}
			}
		}
	}

	for c := 0; c < maxC; c++ {
		w, err := f.GetColWidth(sheet, grid.ColToName(c))
		if err != nil {
			return nil, err
		}
		doc.ColWidths = append(doc.ColWidths, int(math.Round(w)))
	}
	for r := range rows {
		visible, err := f.GetRowVisible(sheet, r+1)
		if err != nil {
			return nil, err
		}
		st := grid.RowState{Height: 1}
		if !visible {
			st = grid.RowState{Height: 0, LastHeight: 1}
		}
		doc.Rows = append(doc.Rows, st)
	}

	for _, dn := range f.GetDefinedName() {
		if dn.Scope != "" && dn.Scope != "Workbook" && dn.Scope != sheet {
			continue
		}
		rng, err := grid.ParseRange(dn.RefersTo)
		if err != nil {
			continue
		}
		doc.Names.Define(dn.Name, rng)
	}
	return doc, nil
}
