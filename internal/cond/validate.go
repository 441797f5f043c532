package cond

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationResult reports structural problems found in a condition.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems lists every problem found, in traversal order.
	Problems []string
}

// Err returns the problems as a single error, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid condition: %s", strings.Join(r.Problems, "; "))
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to splice into SQL unquoted.
func ValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// CountPlaceholders counts "?" placeholders in a SQL fragment.
// Fragments passed to Raw must not contain "?" inside string literals.
func CountPlaceholders(sql string) int {
	return strings.Count(sql, "?")
}

// Validate checks that every node in e is well formed:
//  1. Identifiers (aliases, columns, tables) are plain identifiers
//  2. Compound nodes have no nil members
//  3. Operators and match kinds are known
//  4. Raw fragments have one argument per placeholder
//
// A nil e is valid (no constraint). Validate is a pure function.
func Validate(e Expr) ValidationResult {
	v := &validator{problems: []string{}}
	if e != nil {
		v.validateExpr(e)
	}
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateExpr(e Expr) {
	switch x := e.(type) {
	case Compare:
		v.validateOperand(x.Left)
		if !x.Op.valid() {
			v.addProblem("unknown operator %q", x.Op)
		}
	case ColumnEq:
		v.validateCol(x.Left)
		v.validateCol(x.Right)
	case IsNull:
		v.validateOperand(x.Operand)
	case Match:
		v.validateCol(x.Col)
		if x.Kind < MatchContains || x.Kind > MatchSuffix {
			v.addProblem("unknown match kind %d", int(x.Kind))
		}
	case In:
		v.validateCol(x.Col)
	case And:
		v.validateMembers("AND", x.Exprs)
	case Or:
		v.validateMembers("OR", x.Exprs)
	case Not:
		if x.Expr == nil {
			v.addProblem("NOT has nil operand")
			return
		}
		v.validateExpr(x.Expr)
	case Exists:
		if !ValidIdentifier(x.Table) {
			v.addProblem("invalid table name %q", x.Table)
		}
		if !ValidIdentifier(x.Alias) {
			v.addProblem("invalid alias %q for table %q", x.Alias, x.Table)
		}
		if x.Where != nil {
			v.validateExpr(x.Where)
		}
	case True, False:
	case Raw:
		if strings.TrimSpace(x.SQL) == "" {
			v.addProblem("empty raw fragment")
		}
		if n := CountPlaceholders(x.SQL); n != len(x.Args) {
			v.addProblem("raw fragment has %d placeholders but %d args", n, len(x.Args))
		}
	default:
		v.addProblem("unknown expression type %T", e)
	}
}

func (v *validator) validateMembers(op string, exprs []Expr) {
	for i, m := range exprs {
		if m == nil {
			v.addProblem("%s member %d is nil", op, i)
			continue
		}
		v.validateExpr(m)
	}
}

func (v *validator) validateOperand(o Operand) {
	switch x := o.(type) {
	case Col:
		v.validateCol(x)
	case Num:
		v.validateCol(x.Col)
	case nil:
		v.addProblem("comparison has nil operand")
	default:
		v.addProblem("unknown operand type %T", o)
	}
}

func (v *validator) validateCol(c Col) {
	if c.Alias != "" && !ValidIdentifier(c.Alias) {
		v.addProblem("invalid alias %q", c.Alias)
	}
	if !ValidIdentifier(c.Name) {
		v.addProblem("invalid column name %q", c.Name)
	}
}
