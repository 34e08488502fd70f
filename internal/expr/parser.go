package expr

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	functionRe = regexp.MustCompile(`(%[A-Za-z0-9]+?%?|group)\(`)
	intRe      = regexp.MustCompile(`^[0-9]+`)
)

// noDelim ends the top-level parse at end of input.
const noDelim = 0

// Parser turns templates into Expr trees, resolving %TABLE(...) calls
// against a fixed set of tables.
type Parser struct {
	tables Tables
}

// NewParser returns a parser over tables. The tables are not copied.
func NewParser(tables Tables) *Parser {
	return &Parser{tables: tables}
}

// Parse parses template.
func (p *Parser) Parse(template string) (Expr, error) {
	lp := &lineParser{input: template, tables: p.tables}
	return lp.parseUntil(noDelim)
}

// Parse is a convenience for NewParser(tables).Parse(template).
func Parse(template string, tables Tables) (Expr, error) {
	return NewParser(tables).Parse(template)
}

type lineParser struct {
	input  string
	start  int
	tables Tables
}

func (lp *lineParser) findEnd(delim byte) int {
	if delim == noDelim {
		return len(lp.input)
	}
	if i := strings.IndexByte(lp.input[lp.start:], delim); i >= 0 {
		return lp.start + i
	}
	return len(lp.input)
}

// nextFunction locates the next function call at or after start.
func (lp *lineParser) nextFunction() (begin, end int, name string, ok bool) {
	loc := functionRe.FindStringSubmatchIndex(lp.input[lp.start:])
	if loc == nil {
		return 0, 0, "", false
	}
	off := lp.start
	return off + loc[0], off + loc[1], lp.input[off+loc[2] : off+loc[3]], true
}

func (lp *lineParser) parseUntil(delim byte) (Expr, error) {
	var parts Concat
	for end := lp.findEnd(delim); lp.start < end; end = lp.findEnd(delim) {
		fnBegin, fnEnd, name, found := lp.nextFunction()
		if found && fnBegin < end {
			end = fnBegin
		}
		switch {
		case end > lp.start:
			parts = append(parts, Literal(lp.input[lp.start:end]))
			lp.start = end
		case found:
			lp.start = fnEnd
			fn, err := lp.parseFunction(name)
			if err != nil {
				return nil, err
			}
			parts = append(parts, fn)
		}
	}
	if err := lp.consume(delim); err != nil {
		return nil, err
	}
	return parts.simplify(), nil
}

func (lp *lineParser) consume(delim byte) error {
	if delim == noDelim {
		return nil
	}
	if lp.start < len(lp.input) && lp.input[lp.start] == delim {
		lp.start++
		return nil
	}
	return lp.expecting("'" + string(delim) + "'")
}

func (lp *lineParser) parseFunction(name string) (Expr, error) {
	switch {
	case name == "group":
		n, err := lp.parseInt(')')
		if err != nil {
			return nil, err
		}
		return Group(n), nil

	case strings.HasPrefix(name, "%") && !strings.HasSuffix(name, "%"):
		table, ok := lp.tables[name[1:]]
		if !ok {
			return nil, lp.expecting("valid normalization function")
		}
		key, err := lp.parseUntil(')')
		if err != nil {
			return nil, err
		}
		return &Normalization{Table: table, Key: key}, nil

	case name == "%SUBSTRING%":
		operand, err := lp.parseUntil(',')
		if err != nil {
			return nil, err
		}
		start, err := lp.parseInt(',')
		if err != nil {
			return nil, err
		}
		end, err := lp.parseInt(')')
		if err != nil {
			return nil, err
		}
		return &Substring{Operand: operand, Start: start, End: end}, nil

	case name == "%UPPERCASE%":
		operand, err := lp.parseUntil(')')
		if err != nil {
			return nil, err
		}
		return &Uppercase{Operand: operand}, nil

	case name == "%LOWERCASE%":
		operand, err := lp.parseUntil(')')
		if err != nil {
			return nil, err
		}
		return &Lowercase{Operand: operand}, nil

	case name == "%SUM%":
		a, err := lp.parseUntil(',')
		if err != nil {
			return nil, err
		}
		b, err := lp.parseUntil(')')
		if err != nil {
			return nil, err
		}
		return &Sum{A: a, B: b}, nil
	}
	return nil, lp.expecting("function call beginning '%'")
}

func (lp *lineParser) parseInt(delim byte) (int, error) {
	digits := intRe.FindString(lp.input[lp.start:])
	if digits == "" {
		return 0, lp.expecting("integer")
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, lp.expecting("integer")
	}
	lp.start += len(digits)
	if err := lp.consume(delim); err != nil {
		return 0, err
	}
	return n, nil
}

func (lp *lineParser) expecting(what string) error {
	return &ParseError{Input: lp.input, Offset: lp.start, Expected: what}
}
