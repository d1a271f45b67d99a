package calc

import (
	"math"
	"strconv"
	"strings"

	"grider/internal/grid"
)

// Error codes returned alongside a zero value.
const (
	ErrGeneric = "#ERR"
	ErrRef     = "#REF"
	ErrDiv0    = "#DIV/0"
	ErrCycle   = "#CYCLE"
)

// Resolver returns the numeric value of a cell name such as "B3" and an
// error code ("" when fine). Empty cells resolve to 0.
type Resolver func(name string) (float64, string)

// Eval evaluates a formula body (without the leading '=').
func Eval(expr string, resolve Resolver) (float64, string) {
	p := parser{input: expr, resolve: resolve}
	val, err := p.parseExpr()
	if err != "" {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, ErrGeneric
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, ErrGeneric
	}
	return val, ""
}

type parser struct {
	input   string
	pos     int
	resolve Resolver
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpr() (float64, string) {
	val, err := p.parseTerm()
	if err != "" {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return val, ""
		}
		p.pos++
		right, err := p.parseTerm()
		if err != "" {
			return 0, err
		}
		if op == '+' {
			val += right
		} else {
			val -= right
		}
	}
}

func (p *parser) parseTerm() (float64, string) {
	val, err := p.parseFactor()
	if err != "" {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return val, ""
		}
		p.pos++
		right, err := p.parseFactor()
		if err != "" {
			return 0, err
		}
		if op == '*' {
			val *= right
			continue
		}
		if math.Abs(right) < 1e-12 {
			return 0, ErrDiv0
		}
		val /= right
	}
}

func (p *parser) parseFactor() (float64, string) {
	switch p.peek() {
	case '+':
		p.pos++
		return p.parseFactor()
	case '-':
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, string) {
	ch := p.peek()
	switch {
	case ch == 0:
		return 0, ErrGeneric
	case ch == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != "" {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, ErrGeneric
		}
		p.pos++
		return v, ""
	case isDigit(ch) || ch == '.':
		return p.parseNumber()
	case isLetter(ch):
		return p.parseIdent()
	}
	return 0, ErrGeneric
}

func (p *parser) parseNumber() (float64, string) {
	start := p.pos
	j := p.pos
	seenDot, seenE := false, false
scan:
	for j < len(p.input) {
		c := p.input[j]
		switch {
		case isDigit(c):
		case c == '.' && !seenDot && !seenE:
			seenDot = true
		case (c == 'e' || c == 'E') && !seenE:
			seenE = true
			if j+1 < len(p.input) && (p.input[j+1] == '+' || p.input[j+1] == '-') {
				j++
			}
		default:
			break scan
		}
		j++
	}
	p.pos = j
	v, err := strconv.ParseFloat(p.input[start:j], 64)
	if err != nil {
		return 0, ErrGeneric
	}
	return v, ""
}

// parseIdent reads a function call NAME(...) or a cell reference.
func (p *parser) parseIdent() (float64, string) {
	start := p.pos
	j := p.pos
	for j < len(p.input) && isLetter(p.input[j]) {
		j++
	}
	letters := p.input[start:j]
	p.pos = j

	if p.peek() == '(' {
		p.pos++
		args, ok := p.args()
		if !ok {
			return 0, ErrGeneric
		}
		fn, ok := functions[strings.ToUpper(letters)]
		if !ok {
			return 0, ErrGeneric
		}
		return fn(p, args)
	}

	k := j
	for k < len(p.input) && isDigit(p.input[k]) {
		k++
	}
	p.pos = k
	if k == j {
		return 0, ErrRef
	}
	if p.resolve == nil {
		return 0, ErrGeneric
	}
	return p.resolve(p.input[start:k])
}

// args splits the text up to the matching ')' on top-level commas and
// moves past it.
func (p *parser) args() ([]string, bool) {
	var out []string
	nest := 0
	start := p.pos
	for i := p.pos; i < len(p.input); i++ {
		switch p.input[i] {
		case '(':
			nest++
		case ')':
			if nest > 0 {
				nest--
				continue
			}
			last := strings.TrimSpace(p.input[start:i])
			if last == "" && len(out) > 0 {
				return nil, false
			}
			if last != "" {
				out = append(out, last)
			}
			p.pos = i + 1
			return out, true
		case ',':
			if nest == 0 {
				arg := strings.TrimSpace(p.input[start:i])
				if arg == "" {
					return nil, false
				}
				out = append(out, arg)
				start = i + 1
			}
		}
	}
	return nil, false
}

// sub evaluates one argument as a full expression.
func (p *parser) sub(arg string) (float64, string) {
	return Eval(arg, p.resolve)
}

// values expands an argument into numbers: a range yields every cell.
func (p *parser) values(arg string) ([]float64, string) {
	if strings.Contains(arg, ":") {
		if rng, err := grid.ParseRange(arg); err == nil {
			if p.resolve == nil {
				return nil, ErrGeneric
			}
			out := make([]float64, 0, rng.Rows*rng.Cols)
			for r := rng.Row; r <= rng.EndRow(); r++ {
				for c := rng.Col; c <= rng.EndCol(); c++ {
					v, e := p.resolve(grid.ColRowToName(c, r))
					if e != "" {
						return nil, e
					}
					out = append(out, v)
				}
			}
			return out, ""
		}
	}
	v, e := p.sub(arg)
	if e != "" {
		return nil, e
	}
	return []float64{v}, ""
}

func (p *parser) allValues(args []string) ([]float64, string) {
	var out []float64
	for _, a := range args {
		vs, e := p.values(a)
		if e != "" {
			return nil, e
		}
		out = append(out, vs...)
	}
	return out, ""
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
