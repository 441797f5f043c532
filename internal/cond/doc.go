// Package cond provides the parameterized condition AST that the filter
// compiler produces and the SQL backend renders.
//
// ARCHITECTURE:
//
// The condition AST is the boundary between filter compilation and the
// store's query language:
//
//	[filter tree] → [cond.Expr] → [querysql] → SQLite SQL + parameters
//
// Keeping the boundary as an AST rather than SQL text means user-supplied
// literals only ever travel as bound parameters. Identifiers (tables,
// aliases, columns) are chosen by the compiler, never by callers, and
// Validate rejects anything that is not a plain identifier.
//
// SEALED INTERFACES:
//
// Expr and Operand are sealed with marker methods so backends can switch
// exhaustively over the node types:
//
//	switch e := expr.(type) {
//	case And:
//	    // conjunction
//	case Exists:
//	    // correlated subquery
//	...
//	}
//
// NO-CONSTRAINT CONVENTION:
//
// A nil Expr means "no constraint". The constructors AllOf, AnyOf and Negate
// apply that convention so compilers can fold optional clauses without
// special cases:
//
//   - AllOf drops nil members and returns nil when nothing remains.
//   - AnyOf returns nil when the list is empty or any member is nil.
//   - Negate(nil) is False: the negation of "everything" matches nothing.
//
// NULL SEMANTICS:
//
// Comparisons follow SQL three-valued logic. Num coerces a text column to a
// number only when it matches graph.NumericPattern and yields NULL
// otherwise, so non-numeric payloads never satisfy a comparison, under NOT
// or not.
package cond
