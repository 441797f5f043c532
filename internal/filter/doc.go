// Package filter compiles entity filter trees into condition ASTs.
//
// A Filter is a recursive boolean algebra over entities: AND, OR and NOT
// combinators plus leaf clauses on id membership, property values and
// relation existence. Compile folds a tree into a single cond.Expr that the
// querysql renderer turns into one parameterized SQLite boolean expression.
//
// Compilation is pure and total. A nil result means "no constraint", and
// every combinator treats it that way:
//
//	{}                  → nil
//	{AND: []}           → nil
//	{OR: [F, {}]}       → nil (an unconstrained branch admits everything)
//	{NOT: {}}           → false
//	{id: {in: []}}      → false
//
// Leaf predicates (text, number, checkbox, point) compile against the value
// row of the enclosing existential; see Predicate.
package filter
