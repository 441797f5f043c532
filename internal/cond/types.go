package cond

// Expr is a boolean condition.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode()
}

// Operand is a scalar that can appear on the left of a comparison.
//
// Operand types:
//   - Col: a column reference
//   - Num: a column coerced to a number (NULL when not numeric)
type Operand interface {
	operandNode()
}

// Col references a column, optionally qualified by a table alias.
type Col struct {
	Alias string // table alias ("" = unqualified)
	Name  string // column name
}

func (Col) operandNode() {}

// C is shorthand for a qualified column reference.
func C(alias, name string) Col {
	return Col{Alias: alias, Name: name}
}

// Num coerces a text column to a number.
//
// Semantics:
//
//	CASE WHEN <col> matches graph.NumericPattern THEN CAST(<col> AS REAL) END
//
// The result is NULL for NULL and non-numeric payloads.
type Num struct {
	Col Col
}

func (Num) operandNode() {}

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "="
	OpNeq Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

func (o Op) valid() bool {
	switch o {
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// MatchKind selects how Match anchors its text.
type MatchKind int

const (
	MatchContains MatchKind = iota
	MatchPrefix
	MatchSuffix
)

// String returns the kind's name.
func (k MatchKind) String() string {
	switch k {
	case MatchContains:
		return "contains"
	case MatchPrefix:
		return "prefix"
	case MatchSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// Compare compares an operand against a bound literal.
//
//	<left> <op> ?
type Compare struct {
	Left  Operand
	Op    Op
	Value any
}

func (Compare) exprNode() {}

// ColumnEq correlates two columns.
//
//	<left> = <right>
type ColumnEq struct {
	Left  Col
	Right Col
}

func (ColumnEq) exprNode() {}

// IsNull tests an operand for NULL, or for NOT NULL when Negate is set.
type IsNull struct {
	Operand Operand
	Negate  bool
}

func (IsNull) exprNode() {}

// Match is a case-sensitive pattern match of Col against literal Text,
// anchored according to Kind. Text is matched literally: pattern
// metacharacters in it have no special meaning.
type Match struct {
	Col  Col
	Kind MatchKind
	Text string
}

func (Match) exprNode() {}

// In tests Col for membership in Values. An empty Values list is false.
type In struct {
	Col    Col
	Values []any
}

func (In) exprNode() {}

// And is a conjunction. An empty And is true.
type And struct {
	Exprs []Expr
}

func (And) exprNode() {}

// Or is a disjunction. An empty Or is false.
type Or struct {
	Exprs []Expr
}

func (Or) exprNode() {}

// Not negates Expr.
type Not struct {
	Expr Expr
}

func (Not) exprNode() {}

// Exists is a correlated existential subquery.
//
//	EXISTS (SELECT 1 FROM <table> <alias> WHERE <where>)
//
// A nil Where means "any row of Table exists".
type Exists struct {
	Table string
	Alias string
	Where Expr
}

func (Exists) exprNode() {}

// True is the constant true condition.
type True struct{}

func (True) exprNode() {}

// False is the constant false condition.
type False struct{}

func (False) exprNode() {}

// Raw embeds a SQL boolean fragment verbatim. SQL must use "?" placeholders
// for every literal, one per element of Args. Raw is the escape hatch for
// store-specific expressions and must never carry caller-supplied text in SQL.
type Raw struct {
	SQL  string
	Args []any
}

func (Raw) exprNode() {}

// AllOf conjoins exprs, dropping nil members and splicing the members of
// nested And nodes into the result, so conjunctions render flat. It returns
// nil when no constraint remains and the member itself when only one remains.
func AllOf(exprs ...Expr) Expr {
	var kept []Expr
	for _, e := range exprs {
		switch e := e.(type) {
		case nil:
		case And:
			for _, m := range e.Exprs {
				if m != nil {
					kept = append(kept, m)
				}
			}
		default:
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Exprs: kept}
	}
}

// AnyOf disjoins exprs. It returns nil when exprs is empty or when any member
// is nil, since a disjunction with an unconstrained member is unconstrained.
func AnyOf(exprs ...Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	for _, e := range exprs {
		if e == nil {
			return nil
		}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return Or{Exprs: append([]Expr(nil), exprs...)}
}

// Negate returns the negation of e. Negate(nil) is False.
func Negate(e Expr) Expr {
	if e == nil {
		return False{}
	}
	return Not{Expr: e}
}
