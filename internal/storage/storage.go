package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"grider/internal/filter"
	"grider/internal/grid"
)

// Document is everything a sheet file can carry. CSV only fills Cells.
type Document struct {
	Cells     grid.Map
	ColWidths []int
	Rows      []grid.RowState
	Names     grid.Names
	Filter    *filter.ColumnFilter
}

func NewDocument() *Document {
	return &Document{Cells: grid.Map{}, Names: grid.Names{}}
}

// Format selects a file encoding.
type Format int

const (
	FormatGrider Format = iota
	FormatCSV
	FormatXLSX
)

// FormatOf picks the format from the file extension.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}
	return FormatGrider
}

// Save writes doc in the given format.
func Save(doc *Document, filename string, format Format) error {
	switch format {
	case FormatCSV:
		return SaveCSV(doc.Cells, filename)
	case FormatXLSX:
		return SaveXLSX(doc, filename)
	}
	return SaveDocument(doc, filename)
}

// Load reads a file in the given format.
func Load(filename string, format Format) (*Document, error) {
	switch format {
	case FormatCSV:
		g, err := LoadCSV(filename)
		if err != nil {
			return nil, err
		}
		doc := NewDocument()
		doc.Cells = g
		return doc, nil
	case FormatXLSX:
		return LoadXLSX(filename)
	}
	return LoadDocument(filename)
}

// SaveCSV writes grid to CSV file
func SaveCSV(g grid.Map, filename string) (err error) {
	maxR, maxC := g.Bounds()
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if maxR < 0 || maxC < 0 {
		return nil
	}
	out := make([][]string, maxR+1)
	for r := range out {
		row := make([]string, maxC+1)
		for c := range row {
			row[c] = g[[2]int{r, c}].Text
		}
		out[r] = row
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// LoadCSV loads CSV into a new grid; empty fields are not stored.
func LoadCSV(filename string) (grid.Map, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	g := grid.Map{}
	for rIdx, row := range records {
		for cIdx, val := range row {
			if val != "" {
				g[[2]int{rIdx, cIdx}] = grid.Cell{Text: val}
			}
		}
	}
	return g, nil
}
