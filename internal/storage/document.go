package storage

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"grider/internal/filter"
	"grider/internal/grid"
)

type docFile struct {
	Columns []int             `yaml:"columns,omitempty"`
	Rows    []grid.RowState   `yaml:"rows,omitempty"`
	Cells   []docCell         `yaml:"cells,omitempty"`
	Names   map[string]string `yaml:"names,omitempty"`
	Filter  *docFilter        `yaml:"filter,omitempty"`
}

type docCell struct {
	Ref     string `yaml:"ref"`
	Text    string `yaml:"text"`
	Covered bool   `yaml:"covered,omitempty"`
}

type docFilter struct {
	Range   string         `yaml:"range"`
	Columns []docCondition `yaml:"columns,omitempty"`
}

type docCondition struct {
	Column string   `yaml:"column"`
	All    bool     `yaml:"all,omitempty"`
	Items  []string `yaml:"items,omitempty"`
}

// SaveDocument writes the grider YAML document format.
func SaveDocument(doc *Document, filename string) error {
	out := docFile{Columns: doc.ColWidths, Rows: doc.Rows}

	keys := make([][2]int, 0, len(doc.Cells))
	for k := range doc.Cells {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	for _, k := range keys {
		c := doc.Cells[k]
		out.Cells = append(out.Cells, docCell{Ref: grid.ColRowToName(k[1], k[0]), Text: c.Text, Covered: c.Covered})
	}

	if len(doc.Names) > 0 {
		out.Names = make(map[string]string, len(doc.Names))
		for name, r := range doc.Names {
			out.Names[strings.ToLower(name)] = r.String()
		}
	}

	if doc.Filter != nil {
		df := &docFilter{Range: doc.Filter.Range.String()}
		for _, c := range doc.Filter.Conditions() {
			df.Columns = append(df.Columns, docCondition{
				Column: grid.ColToName(c.Column),
				All:    c.IsSelectAll(),
				Items:  c.Items(),
			})
		}
		out.Filter = df
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}

// LoadDocument reads a grider YAML document.
func LoadDocument(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var in docFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", filename, err)
	}

	doc := NewDocument()
	doc.ColWidths = in.Columns
	doc.Rows = in.Rows
	for _, c := range in.Cells {
		r, col, ok := grid.ParseCellRef(c.Ref)
		if !ok {
			return nil, fmt.Errorf("decode document %s: %w", filename, &grid.AddressError{Address: c.Ref})
		}
		doc.Cells[[2]int{r, col}] = grid.Cell{Text: c.Text, Covered: c.Covered}
	}
	for name, ref := range in.Names {
		rng, err := grid.ParseRange(ref)
		if err != nil {
			return nil, fmt.Errorf("decode document %s: name %s: %w", filename, name, err)
		}
		doc.Names.Define(name, rng)
	}
	if in.Filter != nil {
		f, err := decodeFilter(in.Filter)
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", filename, err)
		}
		doc.Filter = f
	}
	return doc, nil
}

func decodeFilter(in *docFilter) (*filter.ColumnFilter, error) {
	rng, err := grid.ParseRange(in.Range)
	if err != nil {
		return nil, err
	}
	f := filter.NewColumnFilter(rng)
	for _, dc := range in.Columns {
		col, ok := grid.NameToCol(dc.Column)
		if !ok {
			return nil, &grid.AddressError{Address: dc.Column}
		}
		cond, err := f.Column(col)
		if err != nil {
			return nil, err
		}
		if !dc.All {
			cond.Select(dc.Items...)
		}
	}
	return f, nil
}
