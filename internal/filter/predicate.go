package filter

import (
	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/graph"
)

// Predicate is a typed leaf predicate over a value payload.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate kinds:
//   - TextPredicate: equality and anchored pattern matches
//   - NumberPredicate: comparisons after numeric coercion
//   - CheckboxPredicate: equality against "true"/"false"
//   - PointPredicate: equality against the canonical "[x,y]" form
type Predicate interface {
	// Condition compiles the predicate against payload, the value column
	// of the enclosing value row. A nil result is no constraint.
	Condition(payload cond.Col) cond.Expr

	predicateNode()
}

// TextPredicate matches text payloads. Pattern matches are case-sensitive.
// NOT negates its nested predicate and is ANDed with the siblings, so it
// still applies to the same value row.
type TextPredicate struct {
	Is         *string        `json:"is,omitempty"`
	Contains   *string        `json:"contains,omitempty"`
	StartsWith *string        `json:"startsWith,omitempty"`
	EndsWith   *string        `json:"endsWith,omitempty"`
	Exists     *bool          `json:"exists,omitempty"`
	NOT        *TextPredicate `json:"NOT,omitempty"`
}

func (TextPredicate) predicateNode() {}

// Condition implements Predicate.
func (p TextPredicate) Condition(payload cond.Col) cond.Expr {
	var parts []cond.Expr
	if p.Is != nil {
		parts = append(parts, cond.Compare{Left: payload, Op: cond.OpEq, Value: *p.Is})
	}
	if p.Contains != nil {
		parts = append(parts, cond.Match{Col: payload, Kind: cond.MatchContains, Text: *p.Contains})
	}
	if p.StartsWith != nil {
		parts = append(parts, cond.Match{Col: payload, Kind: cond.MatchPrefix, Text: *p.StartsWith})
	}
	if p.EndsWith != nil {
		parts = append(parts, cond.Match{Col: payload, Kind: cond.MatchSuffix, Text: *p.EndsWith})
	}
	parts = append(parts, existsCondition(payload, p.Exists))
	if p.NOT != nil {
		parts = append(parts, cond.Negate(p.NOT.Condition(payload)))
	}
	return cond.AllOf(parts...)
}

// NumberPredicate matches payloads that parse as numbers. A payload that
// does not match graph.NumericPattern coerces to NULL: it satisfies no
// comparison, fails exists: true and satisfies exists: false.
type NumberPredicate struct {
	Is                 *float64         `json:"is,omitempty"`
	LessThan           *float64         `json:"lessThan,omitempty"`
	LessThanOrEqual    *float64         `json:"lessThanOrEqual,omitempty"`
	GreaterThan        *float64         `json:"greaterThan,omitempty"`
	GreaterThanOrEqual *float64         `json:"greaterThanOrEqual,omitempty"`
	Exists             *bool            `json:"exists,omitempty"`
	NOT                *NumberPredicate `json:"NOT,omitempty"`
}

func (NumberPredicate) predicateNode() {}

// Condition implements Predicate.
func (p NumberPredicate) Condition(payload cond.Col) cond.Expr {
	num := cond.Num{Col: payload}
	compare := func(op cond.Op, v *float64) cond.Expr {
		if v == nil {
			return nil
		}
		return cond.Compare{Left: num, Op: op, Value: *v}
	}

	var not cond.Expr
	if p.NOT != nil {
		not = cond.Negate(p.NOT.Condition(payload))
	}
	return cond.AllOf(
		compare(cond.OpEq, p.Is),
		compare(cond.OpLt, p.LessThan),
		compare(cond.OpLte, p.LessThanOrEqual),
		compare(cond.OpGt, p.GreaterThan),
		compare(cond.OpGte, p.GreaterThanOrEqual),
		existsCondition(num, p.Exists),
		not,
	)
}

// CheckboxPredicate matches payloads stored as "true" or "false".
type CheckboxPredicate struct {
	Is     *bool `json:"is,omitempty"`
	Exists *bool `json:"exists,omitempty"`
}

func (CheckboxPredicate) predicateNode() {}

// Condition implements Predicate.
func (p CheckboxPredicate) Condition(payload cond.Col) cond.Expr {
	var is cond.Expr
	if p.Is != nil {
		is = cond.Compare{Left: payload, Op: cond.OpEq, Value: graph.FormatCheckbox(*p.Is)}
	}
	return cond.AllOf(is, existsCondition(payload, p.Exists))
}

// PointPredicate matches payloads stored as a canonical JSON pair.
// An Is that is not exactly two coordinates is no constraint.
type PointPredicate struct {
	Is     []float64 `json:"is,omitempty"`
	Exists *bool     `json:"exists,omitempty"`
}

func (PointPredicate) predicateNode() {}

// Condition implements Predicate.
func (p PointPredicate) Condition(payload cond.Col) cond.Expr {
	var is cond.Expr
	if len(p.Is) == 2 {
		if text := graph.FormatPoint([2]float64{p.Is[0], p.Is[1]}); text != "" {
			is = cond.Compare{Left: payload, Op: cond.OpEq, Value: text}
		} else {
			is = cond.False{} // NaN or Inf is never stored
		}
	}
	return cond.AllOf(is, existsCondition(payload, p.Exists))
}

// existsCondition compiles a tri-state exists flag.
func existsCondition(o cond.Operand, exists *bool) cond.Expr {
	if exists == nil {
		return nil
	}
	return cond.IsNull{Operand: o, Negate: *exists}
}
