package grid

import (
	"math"
	"strconv"
	"strings"
)

// Cell represents a single cell content.
// Covered marks a cell hidden under a merged neighbour.
type Cell struct {
	Text    string
	Covered bool
}

// CellState tells a Source whether a cell exists and whether it is usable.
type CellState int

const (
	CellAbsent CellState = iota
	CellValid
	CellCovered
)

// Source is an addressable view of cell values.
type Source interface {
	Cell(row, col int) (Value, CellState)
}

// Map is the sparse cell store keyed by {row, col}.
type Map map[[2]int]Cell

// Cell implements Source over plain cell text.
func (m Map) Cell(row, col int) (Value, CellState) {
	c, ok := m[[2]int{row, col}]
	if !ok {
		return Empty(), CellAbsent
	}
	v := ParseValue(c.Text).WithSource(c.Text)
	if c.Covered {
		return v, CellCovered
	}
	return v, CellValid
}

// SetCell stores v's source text, deleting the cell when there is none.
// The covered flag of an existing cell is kept.
func (m Map) SetCell(row, col int, v Value) {
	key := [2]int{row, col}
	text := v.Source()
	if text == "" {
		delete(m, key)
		return
	}
	c := m[key]
	c.Text = text
	m[key] = c
}

// Bounds returns the highest used row and column, -1 when empty.
func (m Map) Bounds() (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	for k := range m {
		maxRow = max(maxRow, k[0])
		maxCol = max(maxCol, k[1])
	}
	return maxRow, maxCol
}

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	result := ""
	n := col + 1
	for n > 0 {
		n--
		result = string(rune('A'+(n%26))) + result
		n /= 26
	}
	return result
}

// ColRowToName builds cell name from 0-based col,row -> e.g., col 0,row0 -> "A1"
func ColRowToName(col, row int) string {
	return ColToName(col) + strconv.Itoa(row+1)
}

// NameToCol is the inverse of ColToName: "A" -> 0, "aa" -> 26. Names
// too long for an int are rejected.
func NameToCol(name string) (int, bool) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "$", ""))
	if name == "" {
		return 0, false
	}
	col := 0
	for i := 0; i < len(name); i++ {
		if !isLetter(name[i]) || col > (math.MaxInt-26)/26 {
			return 0, false
		}
		col = col*26 + int(upper(name[i])-'A') + 1
	}
	return col - 1, true
}

// ParseCellRef parses names like A1, AA10 returning 0-based (row, col)
// Accepts sheet prefixes like Sheet!A1 and removes $ signs.
func ParseCellRef(name string) (int, int, bool) {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndex(name, "!"); idx != -1 {
		name = strings.TrimSpace(name[idx+1:])
	}
	name = strings.ReplaceAll(name, "$", "")

	i := 0
	for i < len(name) && isLetter(name[i]) {
		i++
	}
	if i == 0 || i >= len(name) {
		return 0, 0, false
	}
	col, ok := NameToCol(name[:i])
	if !ok {
		return 0, 0, false
	}
	for j := i; j < len(name); j++ {
		if !isDigit(name[j]) {
			return 0, 0, false
		}
	}
	rowNum, err := strconv.Atoi(name[i:])
	if err != nil || rowNum < 1 {
		return 0, 0, false
	}
	return rowNum - 1, col, true
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
