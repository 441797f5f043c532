package filter

import (
	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/graph"
)

// Table aliases used by compiled conditions. The compiled condition refers
// to the filtered entity as EntityAlias, so the enclosing SELECT must alias
// the entities table that way.
const (
	EntityAlias   = "e"
	valueAlias    = "v"
	relationAlias = "r"
	gateValue     = "sv"
	gateRelation  = "sr"
)

// Compile folds f into a condition on the entity aliased EntityAlias.
//
// When spaceID is non-empty, every value and relation existential in the
// tree is restricted to that space, and the result additionally requires
// the entity to have at least one value or outgoing relation in the space.
//
// A nil result means no constraint. Compile never fails.
func Compile(f *Filter, spaceID string) cond.Expr {
	where := compileNode(f, spaceID)
	if spaceID == "" {
		return where
	}
	return cond.AllOf(where, SpaceGate(EntityAlias, spaceID))
}

// SpaceGate requires the entity aliased entityAlias to have a value or an
// outgoing relation in spaceID.
func SpaceGate(entityAlias, spaceID string) cond.Expr {
	return cond.AnyOf(
		cond.Exists{
			Table: graph.TableValues,
			Alias: gateValue,
			Where: cond.AllOf(
				cond.ColumnEq{Left: cond.C(gateValue, "entity_id"), Right: cond.C(entityAlias, "id")},
				eq(gateValue, "space_id", spaceID),
			),
		},
		cond.Exists{
			Table: graph.TableRelations,
			Alias: gateRelation,
			Where: cond.AllOf(
				cond.ColumnEq{Left: cond.C(gateRelation, "from_entity_id"), Right: cond.C(entityAlias, "id")},
				eq(gateRelation, "space_id", spaceID),
			),
		},
	)
}

func compileNode(f *Filter, spaceID string) cond.Expr {
	if f == nil {
		return nil
	}

	var parts []cond.Expr

	if len(f.AND) > 0 {
		children := make([]cond.Expr, 0, len(f.AND))
		for _, child := range f.AND {
			children = append(children, compileNode(child, spaceID))
		}
		parts = append(parts, cond.AllOf(children...))
	}

	if len(f.OR) > 0 {
		children := make([]cond.Expr, 0, len(f.OR))
		for _, child := range f.OR {
			children = append(children, compileNode(child, spaceID))
		}
		parts = append(parts, cond.AnyOf(children...))
	}

	if f.NOT != nil {
		parts = append(parts, cond.Negate(compileNode(f.NOT, spaceID)))
	}

	if f.ID != nil && f.ID.In != nil {
		values := make([]any, len(f.ID.In))
		for i, id := range f.ID.In {
			values[i] = id
		}
		parts = append(parts, cond.In{Col: cond.C(EntityAlias, "id"), Values: values})
	}

	if f.Value != nil {
		parts = append(parts, valueExists(f.Value, spaceID))
	}

	if f.FromRelation != nil {
		parts = append(parts, relationExists(*f.FromRelation, "from_entity_id", spaceID))
	}

	if f.ToRelation != nil {
		parts = append(parts, relationExists(*f.ToRelation, "to_entity_id", spaceID))
	}

	return cond.AllOf(parts...)
}

// valueExists requires one value row of the entity satisfying p.
func valueExists(p *PropertyFilter, spaceID string) cond.Expr {
	var leaf cond.Expr
	if p.Predicate != nil {
		leaf = p.Predicate.Condition(cond.C(valueAlias, "value"))
	}
	return cond.Exists{
		Table: graph.TableValues,
		Alias: valueAlias,
		Where: cond.AllOf(
			cond.ColumnEq{Left: cond.C(valueAlias, "entity_id"), Right: cond.C(EntityAlias, "id")},
			eq(valueAlias, "property_id", p.Property),
			spaceEq(valueAlias, spaceID),
			leaf,
		),
	}
}

// relationExists requires one relation row whose endpoint column is the
// entity and which satisfies rf.
func relationExists(rf RelationFilter, endpoint, spaceID string) cond.Expr {
	return cond.Exists{
		Table: graph.TableRelations,
		Alias: relationAlias,
		Where: cond.AllOf(
			cond.ColumnEq{Left: cond.C(relationAlias, endpoint), Right: cond.C(EntityAlias, "id")},
			// rf.SpaceID and the scope both constrain r.space_id; when they
			// differ the existential is unsatisfiable.
			rf.Condition(relationAlias),
			spaceEq(relationAlias, spaceID),
		),
	}
}

// Condition compiles rf against the relations table aliased alias.
// The zero RelationFilter is no constraint.
func (rf RelationFilter) Condition(alias string) cond.Expr {
	optEq := func(column string, v *string) cond.Expr {
		if v == nil {
			return nil
		}
		return eq(alias, column, *v)
	}
	return cond.AllOf(
		optEq("type_id", rf.TypeID),
		optEq("from_entity_id", rf.FromEntityID),
		optEq("to_entity_id", rf.ToEntityID),
		optEq("space_id", rf.SpaceID),
	)
}

func eq(alias, column string, v any) cond.Expr {
	return cond.Compare{Left: cond.C(alias, column), Op: cond.OpEq, Value: v}
}

func spaceEq(alias, spaceID string) cond.Expr {
	if spaceID == "" {
		return nil
	}
	return eq(alias, "space_id", spaceID)
}
