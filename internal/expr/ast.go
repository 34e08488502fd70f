package expr

import (
	"strconv"
	"strings"
)

// Match exposes the capture groups of one regular expression match.
type Match interface {
	// Group returns capture group i and whether it took part in the match.
	Group(i int) (string, bool)
}

// Groups is a Match backed by a map. Missing indices are absent.
type Groups map[int]string

// Group implements Match.
func (g Groups) Group(i int) (string, bool) {
	s, ok := g[i]
	return s, ok
}

// Expr is a parsed template node.
type Expr interface {
	// Eval returns the value of the node and whether it is present.
	Eval(m Match) (string, bool, error)

	// String returns the template source of the node.
	String() string
}

// Evaluate runs e against m. An absent result is the empty string.
func Evaluate(e Expr, m Match) (string, error) {
	s, _, err := e.Eval(m)
	return s, err
}

// Literal is verbatim text.
type Literal string

func (l Literal) Eval(Match) (string, bool, error) { return string(l), true, nil }
func (l Literal) String() string                  { return string(l) }

// Group is a capture group reference.
type Group int

func (g Group) Eval(m Match) (string, bool, error) {
	s, ok := m.Group(int(g))
	return s, ok, nil
}

func (g Group) String() string { return "group(" + strconv.Itoa(int(g)) + ")" }

// Normalization looks its key up in a table.
type Normalization struct {
	Table *Table
	Key   Expr
}

func (n *Normalization) Eval(m Match) (string, bool, error) {
	key, ok, err := n.Key.Eval(m)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", true, nil
	}
	v, found := n.Table.Lookup(key)
	if !found {
		return "", false, &NormalizationError{Table: n.Table.Name(), Key: key, Expr: n.String()}
	}
	return v, true, nil
}

func (n *Normalization) String() string {
	return "%" + n.Table.Name() + "(" + n.Key.String() + ")"
}

// Substring slices its operand by rune index.
type Substring struct {
	Operand    Expr
	Start, End int
}

func (s *Substring) Eval(m Match) (string, bool, error) {
	v, ok, err := s.Operand.Eval(m)
	if err != nil || !ok {
		return "", ok, err
	}
	r := []rune(v)
	if s.Start > s.End || s.End > len(r) {
		return "", false, &EvalError{
			Expr:    s.String(),
			Message: "substring [" + strconv.Itoa(s.Start) + "," + strconv.Itoa(s.End) + ") out of range for " + strconv.Quote(v),
		}
	}
	return string(r[s.Start:s.End]), true, nil
}

func (s *Substring) String() string {
	return "%SUBSTRING%(" + s.Operand.String() + "," + strconv.Itoa(s.Start) + "," + strconv.Itoa(s.End) + ")"
}

// Uppercase upper-cases its operand.
type Uppercase struct{ Operand Expr }

func (u *Uppercase) Eval(m Match) (string, bool, error) {
	v, ok, err := u.Operand.Eval(m)
	return strings.ToUpper(v), ok, err
}

func (u *Uppercase) String() string { return "%UPPERCASE%(" + u.Operand.String() + ")" }

// Lowercase lower-cases its operand.
type Lowercase struct{ Operand Expr }

func (l *Lowercase) Eval(m Match) (string, bool, error) {
	v, ok, err := l.Operand.Eval(m)
	return strings.ToLower(v), ok, err
}

func (l *Lowercase) String() string { return "%LOWERCASE%(" + l.Operand.String() + ")" }

// Sum adds two integer-valued operands.
type Sum struct{ A, B Expr }

func (s *Sum) Eval(m Match) (string, bool, error) {
	a, err := s.operand(s.A, m)
	if err != nil {
		return "", false, err
	}
	b, err := s.operand(s.B, m)
	if err != nil {
		return "", false, err
	}
	return strconv.Itoa(a + b), true, nil
}

func (s *Sum) operand(e Expr, m Match) (int, error) {
	v, ok, err := e.Eval(m)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &EvalError{Expr: s.String(), Message: "absent operand " + e.String()}
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &EvalError{Expr: s.String(), Message: "non-integer operand " + strconv.Quote(v)}
	}
	return n, nil
}

func (s *Sum) String() string { return "%SUM%(" + s.A.String() + "," + s.B.String() + ")" }

// Concat joins its parts. Absent parts contribute nothing.
type Concat []Expr

func (c Concat) Eval(m Match) (string, bool, error) {
	var b strings.Builder
	for _, e := range c {
		v, _, err := e.Eval(m)
		if err != nil {
			return "", false, err
		}
		b.WriteString(v)
	}
	return b.String(), true, nil
}

func (c Concat) String() string {
	var b strings.Builder
	for _, e := range c {
		b.WriteString(e.String())
	}
	return b.String()
}

// simplify returns the only element of c, or c with nested
// concatenations spliced in.
func (c Concat) simplify() Expr {
	if len(c) == 1 {
		return c[0]
	}
	out := make(Concat, 0, len(c))
	for _, e := range c {
		if inner, ok := e.(Concat); ok {
			e = inner.simplify()
		}
		if inner, ok := e.(Concat); ok {
			out = append(out, inner...)
			continue
		}
		out = append(out, e)
	}
	return out
}
