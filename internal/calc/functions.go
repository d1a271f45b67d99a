package calc

import (
	"math"
)

type function func(p *parser, args []string) (float64, string)

var functions map[string]function

func init() {
	functions = map[string]function{
		"SUM":     sum,
		"AVERAGE": average,
		"MIN":     extreme(func(a, b float64) bool { return a < b }),
		"MAX":     extreme(func(a, b float64) bool { return a > b }),
		"COUNT":   count,
		"ROUND":   round,
		"IF":      ifFunc,
		"AND":     logical(true),
		"OR":      logical(false),
		"NOT":     not,
	}
}

func truthy(v float64) bool { return math.Abs(v) > 1e-12 }

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func sum(p *parser, args []string) (float64, string) {
	vs, err := p.allValues(args)
	if err != "" {
		return 0, err
	}
	total := 0.0
	for _, v := range vs {
		total += v
	}
	return total, ""
}

func average(p *parser, args []string) (float64, string) {
	vs, err := p.allValues(args)
	if err != "" || len(vs) == 0 {
		return 0, err
	}
	total, _ := sum(p, args)
	return total / float64(len(vs)), ""
}

// extreme builds MIN and MAX; no arguments yields 0.
func extreme(better func(a, b float64) bool) function {
	return func(p *parser, args []string) (float64, string) {
		vs, err := p.allValues(args)
		if err != "" || len(vs) == 0 {
			return 0, err
		}
		best := vs[0]
		for _, v := range vs[1:] {
			if better(v, best) {
				best = v
			}
		}
		return best, ""
	}
}

// count skips arguments and cells that fail to evaluate.
func count(p *parser, args []string) (float64, string) {
	n := 0
	for _, a := range args {
		vs, err := p.values(a)
		if err != "" {
			continue
		}
		n += len(vs)
	}
	return float64(n), ""
}

func round(p *parser, args []string) (float64, string) {
	if len(args) < 1 || len(args) > 2 {
		return 0, ErrGeneric
	}
	v, err := p.sub(args[0])
	if err != "" {
		return 0, err
	}
	places := 0.0
	if len(args) == 2 {
		if places, err = p.sub(args[1]); err != "" {
			return 0, err
		}
	}
	m := math.Pow(10, places)
	return math.Round(v*m) / m, ""
}

// ifFunc evaluates only the chosen branch; a missing else is 0.
func ifFunc(p *parser, args []string) (float64, string) {
	if len(args) < 2 || len(args) > 3 {
		return 0, ErrGeneric
	}
	cond, err := p.sub(args[0])
	if err != "" {
		return 0, err
	}
	if truthy(cond) {
		return p.sub(args[1])
	}
	if len(args) == 3 {
		return p.sub(args[2])
	}
	return 0, ""
}

// logical builds AND (all) and OR (any), short-circuiting.
func logical(all bool) function {
	return func(p *parser, args []string) (float64, string) {
		if len(args) == 0 {
			return boolValue(all), ""
		}
		for _, a := range args {
			v, err := p.sub(a)
			if err != "" {
				return 0, err
			}
			if truthy(v) != all {
				return boolValue(!all), ""
			}
		}
		return boolValue(all), ""
	}
}

func not(p *parser, args []string) (float64, string) {
	if len(args) != 1 {
		return 0, ErrGeneric
	}
	v, err := p.sub(args[0])
	if err != "" {
		return 0, err
	}
	return boolValue(!truthy(v)), ""
}
