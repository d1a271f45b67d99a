package calc

import "grider/internal/grid"

// Refs lists the cells and ranges a formula body reads, in the order
// they appear. Every branch counts, taken or not.
func Refs(expr string) []grid.Range {
	var out []grid.Range
	p := parser{input: expr}
	for p.peek() != 0 {
		ch := p.input[p.pos]
		switch {
		case isDigit(ch) || ch == '.':
			p.parseNumber()
		case isLetter(ch):
			start := p.pos
			p.pos = p.word()
			if p.peek() == '(' {
				continue
			}
			end := p.pos
			if p.peek() == ':' {
				p.pos++
				p.skipSpaces()
				if rng, err := grid.ParseRange(expr[start:end] + ":" + expr[p.pos:p.word()]); err == nil {
					out = append(out, rng)
					p.pos = p.word()
					continue
				}
				p.pos = end
			}
			if r, c, ok := grid.ParseCellRef(expr[start:end]); ok {
				out = append(out, grid.NewRange(r, c, 1, 1))
			}
		default:
			p.pos++
		}
	}
	return out
}

// word returns the end of the letters and digits starting at pos.
func (p *parser) word() int {
	j := p.pos
	for j < len(p.input) && (isLetter(p.input[j]) || isDigit(p.input[j])) {
		j++
	}
	return j
}
