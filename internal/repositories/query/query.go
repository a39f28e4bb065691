// Package query builds parameterized WHERE clauses for the PostgreSQL
// repositories. It mirrors the filter operators of the hosted store
// (eq, in, or, ilike) so repositories can express the same lookups.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Cond is a single filter condition.
type Cond interface {
	render(b *builder) (string, error)
}

type builder struct {
	args []any
	next int
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	p := fmt.Sprintf("$%d", b.next)
	b.next++
	return p
}

func column(name string) (string, error) {
	if !identifier.MatchString(name) {
		return "", fmt.Errorf("invalid column name %q", name)
	}
	return name, nil
}

type eqCond struct {
	col string
	val any
}

// Eq matches col = val.
func Eq(col string, val any) Cond { return eqCond{col, val} }

func (c eqCond) render(b *builder) (string, error) {
	col, err := column(c.col)
	if err != nil {
		return "", err
	}
	return col + " = " + b.bind(c.val), nil
}

type inCond struct {
	col  string
	vals []any
}

// In matches col against any of vals. An empty list matches nothing.
func In(col string, vals ...any) Cond { return inCond{col, vals} }

func (c inCond) render(b *builder) (string, error) {
	col, err := column(c.col)
	if err != nil {
		return "", err
	}
	if len(c.vals) == 0 {
		return "FALSE", nil
	}
	ph := make([]string, len(c.vals))
	for i, v := range c.vals {
		ph[i] = b.bind(v)
	}
	return col + " IN (" + strings.Join(ph, ", ") + ")", nil
}

type ilikeCond struct {
	col     string
	pattern string
}

// ILike matches col case-insensitively against a LIKE pattern.
func ILike(col, pattern string) Cond { return ilikeCond{col, pattern} }

func (c ilikeCond) render(b *builder) (string, error) {
	col, err := column(c.col)
	if err != nil {
		return "", err
	}
	return col + " ILIKE " + b.bind(c.pattern), nil
}

type groupCond struct {
	op    string
	conds []Cond
}

// Or matches when any of conds matches.
func Or(conds ...Cond) Cond { return groupCond{"OR", conds} }

// And matches when all of conds match.
func And(conds ...Cond) Cond { return groupCond{"AND", conds} }

func (c groupCond) render(b *builder) (string, error) {
	if len(c.conds) == 0 {
		if c.op == "OR" {
			return "FALSE", nil
		}
		return "TRUE", nil
	}
	parts := make([]string, 0, len(c.conds))
	for _, sub := range c.conds {
		s, err := sub.render(b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, " "+c.op+" ") + ")", nil
}

// Where renders conds joined with AND as " WHERE ...", numbering
// placeholders from start. No conditions yield an empty clause.
func Where(start int, conds ...Cond) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}
	if start < 1 {
		start = 1
	}
	b := &builder{next: start}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		s, err := c.render(b)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, s)
	}
	return " WHERE " + strings.Join(parts, " AND "), b.args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains turns s into a LIKE pattern matching s anywhere, with LIKE
// wildcards in s escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
