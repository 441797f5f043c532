package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/graph"
)

// SQLCompiler compiles condition ASTs and SELECT statements to
// parameterized SQL for SQLite.
//
// CRITICAL: All literals are parameterized (never interpolated).
// CRITICAL: All SELECTs include ORDER BY for deterministic results.
//
// The rendered SQL relies on a REGEXP function being registered with the
// connection (the store registers one).
type SQLCompiler struct {
	// NumericPattern is the regular expression a payload must match before
	// Num casts it to REAL.
	NumericPattern string
}

// NewSQLCompiler creates a new SQLCompiler using graph.NumericPattern.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{NumericPattern: graph.NumericPattern}
}

// Select describes a single-table SELECT.
//
// Semantics:
//
//	SELECT <alias>.<columns>, (<computed>) AS <as> FROM "<from>" <alias>
//	WHERE <where> ORDER BY <order> LIMIT <limit> OFFSET <offset>
type Select struct {
	From     string     // table name
	Alias    string     // table alias used by Columns and Where
	Columns  []string   // columns of From, emitted as <alias>.<column>
	Computed []Computed // extra projected expressions, after Columns
	Where    cond.Expr  // nil = all rows
	OrderBy  []OrderTerm
	Limit    int // negative = unbounded
	Offset   int
}

// Computed is a projected scalar expression. SQL uses "?" placeholders, one
// per Args element, and is trusted the same way cond.Raw is.
type Computed struct {
	SQL  string
	Args []any
	As   string
}

// OrderTerm is one ORDER BY key. Expr is a column reference
// ("alias.column") or a computed alias.
type OrderTerm struct {
	Expr   string
	Desc   bool
	Binary bool // append COLLATE BINARY
}

// Compile converts a Select to parameterized SQL.
// Returns (sql, params, error) tuple.
//
// MANDATORY: When OrderBy is empty the statement is ordered by
// <alias>.id COLLATE BINARY ASC.
func (c *SQLCompiler) Compile(q Select) (string, []any, error) {
	if !cond.ValidIdentifier(q.From) {
		return "", nil, fmt.Errorf("invalid table name %q", q.From)
	}
	if !cond.ValidIdentifier(q.Alias) {
		return "", nil, fmt.Errorf("invalid alias %q", q.Alias)
	}
	if len(q.Columns) == 0 && len(q.Computed) == 0 {
		return "", nil, fmt.Errorf("select from %s has no columns", q.From)
	}

	var params []any
	var cols []string
	for _, col := range q.Columns {
		if !cond.ValidIdentifier(col) {
			return "", nil, fmt.Errorf("invalid column name %q", col)
		}
		cols = append(cols, q.Alias+"."+col)
	}
	for _, comp := range q.Computed {
		if !cond.ValidIdentifier(comp.As) {
			return "", nil, fmt.Errorf("invalid computed alias %q", comp.As)
		}
		if n := cond.CountPlaceholders(comp.SQL); n != len(comp.Args) {
			return "", nil, fmt.Errorf("computed %s has %d placeholders but %d args", comp.As, n, len(comp.Args))
		}
		cols = append(cols, fmt.Sprintf("(%s) AS %s", comp.SQL, comp.As))
		params = append(params, comp.Args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s %s", strings.Join(cols, ", "), quoteTable(q.From), q.Alias)

	if q.Where != nil {
		whereSQL, whereParams, err := c.CompileCondition(q.Where)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
		params = append(params, whereParams...)
	}

	orderSQL, err := c.orderBy(q)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(orderSQL)

	limit := q.Limit
	if limit < 0 {
		limit = -1 // SQLite: negative LIMIT means no limit
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	params = append(params, limit, q.Offset)

	return b.String(), params, nil
}

// orderBy renders the ORDER BY list, defaulting to the stable id key.
func (c *SQLCompiler) orderBy(q Select) (string, error) {
	terms := q.OrderBy
	if len(terms) == 0 {
		terms = []OrderTerm{{Expr: q.Alias + ".id", Binary: true}}
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if !validOrderExpr(t.Expr) {
			return "", fmt.Errorf("invalid order expression %q", t.Expr)
		}
		part := t.Expr
		if t.Binary {
			part += " COLLATE BINARY"
		}
		if t.Desc {
			part += " DESC"
		} else {
			part += " ASC"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", "), nil
}

func validOrderExpr(expr string) bool {
	alias, col, found := strings.Cut(expr, ".")
	if !found {
		return cond.ValidIdentifier(expr)
	}
	return cond.ValidIdentifier(alias) && cond.ValidIdentifier(col)
}

// CompileCondition renders a condition to a SQL boolean fragment.
// A nil condition renders as "1 = 1".
//
// CRITICAL: Values are NEVER interpolated - always "?" placeholders.
func (c *SQLCompiler) CompileCondition(e cond.Expr) (string, []any, error) {
	if err := cond.Validate(e).Err(); err != nil {
		return "", nil, err
	}
	if e == nil {
		return "1 = 1", nil, nil
	}
	r := &renderer{numericPattern: c.NumericPattern}
	r.expr(e)
	return r.b.String(), r.params, nil
}

// renderer writes SQL for a validated condition.
type renderer struct {
	numericPattern string
	b              strings.Builder
	params         []any
}

func (r *renderer) expr(e cond.Expr) {
	switch x := e.(type) {
	case cond.Compare:
		r.operand(x.Left)
		fmt.Fprintf(&r.b, " %s ?", x.Op)
		r.params = append(r.params, x.Value)
	case cond.ColumnEq:
		r.b.WriteString(colSQL(x.Left))
		r.b.WriteString(" = ")
		r.b.WriteString(colSQL(x.Right))
	case cond.IsNull:
		r.operand(x.Operand)
		if x.Negate {
			r.b.WriteString(" IS NOT NULL")
		} else {
			r.b.WriteString(" IS NULL")
		}
	case cond.Match:
		r.b.WriteString(colSQL(x.Col))
		r.b.WriteString(" GLOB ?")
		r.params = append(r.params, globPattern(x.Kind, x.Text))
	case cond.In:
		r.in(x)
	case cond.And:
		r.join(x.Exprs, " AND ", "1 = 1")
	case cond.Or:
		r.join(x.Exprs, " OR ", "1 = 0")
	case cond.Not:
		r.b.WriteString("NOT ")
		if grouped(x.Expr) {
			r.expr(x.Expr)
			return
		}
		r.b.WriteString("(")
		r.expr(x.Expr)
		r.b.WriteString(")")
	case cond.Exists:
		fmt.Fprintf(&r.b, "EXISTS (SELECT 1 FROM %s %s", quoteTable(x.Table), x.Alias)
		if x.Where != nil {
			r.b.WriteString(" WHERE ")
			r.expr(x.Where)
		}
		r.b.WriteString(")")
	case cond.True:
		r.b.WriteString("1 = 1")
	case cond.False:
		r.b.WriteString("1 = 0")
	case cond.Raw:
		r.b.WriteString("(")
		r.b.WriteString(x.SQL)
		r.b.WriteString(")")
		r.params = append(r.params, x.Args...)
	}
}

func (r *renderer) operand(o cond.Operand) {
	switch x := o.(type) {
	case cond.Col:
		r.b.WriteString(colSQL(x))
	case cond.Num:
		col := colSQL(x.Col)
		fmt.Fprintf(&r.b, "(CASE WHEN %s REGEXP ? THEN CAST(%s AS REAL) END)", col, col)
		r.params = append(r.params, r.numericPattern)
	}
}

func (r *renderer) in(x cond.In) {
	if len(x.Values) == 0 {
		r.b.WriteString("1 = 0")
		return
	}
	r.b.WriteString(colSQL(x.Col))
	r.b.WriteString(" IN (")
	for i, v := range x.Values {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.b.WriteString("?")
		r.params = append(r.params, v)
	}
	r.b.WriteString(")")
}

func (r *renderer) join(exprs []cond.Expr, sep, empty string) {
	if len(exprs) == 0 {
		r.b.WriteString(empty)
		return
	}
	r.b.WriteString("(")
	for i, e := range exprs {
		if i > 0 {
			r.b.WriteString(sep)
		}
		r.expr(e)
	}
	r.b.WriteString(")")
}

// grouped reports whether e renders wrapped in its own parentheses.
func grouped(e cond.Expr) bool {
	switch x := e.(type) {
	case cond.And:
		return len(x.Exprs) > 0
	case cond.Or:
		return len(x.Exprs) > 0
	case cond.Raw:
		return true
	}
	return false
}

func colSQL(c cond.Col) string {
	if c.Alias == "" {
		return c.Name
	}
	return c.Alias + "." + c.Name
}

// quoteTable quotes a validated table name; "values" is a keyword.
func quoteTable(name string) string {
	return `"` + name + `"`
}

// globPattern builds a GLOB pattern matching text literally.
// GLOB is case-sensitive, unlike SQLite's default LIKE.
func globPattern(kind cond.MatchKind, text string) string {
	escaped := escapeGlob(text)
	switch kind {
	case cond.MatchPrefix:
		return escaped + "*"
	case cond.MatchSuffix:
		return "*" + escaped
	default:
		return "*" + escaped + "*"
	}
}

// escapeGlob escapes GLOB metacharacters by wrapping each in a character class.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
