package query

import (
	"context"

	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/querysql"
)

const propertyAlias = "p"

// TypesOptions scopes and pages a types query.
type TypesOptions struct {
	SpaceID string
	Page    Page
}

// PropertiesOptions scopes and pages a properties query.
type PropertiesOptions struct {
	// TypeID restricts the result to the properties declared by one type
	// through PROPERTIES relations. Empty means every property.
	TypeID string

	// SpaceID scopes the PROPERTIES relations and the name lookup.
	SpaceID string

	Page Page
}

// ValuesOptions narrows the values of one entity.
type ValuesOptions struct {
	SpaceID    string // empty = every space
	PropertyID string // empty = every property
	Page       Page
}

// typeFilter selects type entities: those with a TYPES relation to the
// schema type.
func typeFilter() *filter.Filter {
	return &filter.Filter{FromRelation: &filter.RelationFilter{
		TypeID:     ptr(graph.TypesPropertyID),
		ToEntityID: ptr(graph.SchemaTypeID),
	}}
}

// Types returns the type entities visible in opts.SpaceID.
func (x *Executor) Types(ctx context.Context, opts TypesOptions) ([]graph.EntityView, error) {
	return x.Entities(ctx, typeFilter(), EntityOptions{SpaceID: opts.SpaceID, Page: opts.Page})
}

// Properties returns properties ordered by id.
func (x *Executor) Properties(ctx context.Context, opts PropertiesOptions) ([]graph.PropertyView, error) {
	var where cond.Expr
	if opts.TypeID != "" {
		const r = "r"
		where = cond.Exists{
			Table: graph.TableRelations,
			Alias: r,
			Where: cond.AllOf(
				cond.ColumnEq{Left: cond.C(r, "to_entity_id"), Right: cond.C(propertyAlias, "id")},
				filter.RelationFilter{
					TypeID:       ptr(graph.PropertiesPropertyID),
					FromEntityID: ptr(opts.TypeID),
					SpaceID:      optional(opts.SpaceID),
				}.Condition(r),
			),
		}
	}

	q := propertySelect(where, opts.SpaceID)
	if err := paginate(&q, opts.Page); err != nil {
		return nil, err
	}
	rows, err := run(ctx, x, "properties", q, x.store.QueryProperties)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, propertyView), nil
}

// Property returns the property with id, or nil when it does not exist.
func (x *Executor) Property(ctx context.Context, id string) (*graph.PropertyView, error) {
	q := propertySelect(eqID(propertyAlias, id), "")
	q.Limit = 1
	rows, err := run(ctx, x, "property", q, x.store.QueryProperties)
	if err != nil {
		return nil, err
	}
	return first(mapSlice(rows, propertyView)), nil
}

func propertySelect(where cond.Expr, spaceID string) querysql.Select {
	return querysql.Select{
		From:     graph.TableProperties,
		Alias:    propertyAlias,
		Columns:  []string{"id", "type"},
		Computed: []querysql.Computed{lookup(propertyAlias, graph.NamePropertyID, spaceID, "name")},
		Where:    where,
	}
}

// EntityValues returns the values of entityID, ordered by id.
func (x *Executor) EntityValues(ctx context.Context, entityID string, opts ValuesOptions) ([]graph.ValueView, error) {
	const v = "v"
	eq := func(column, value string) cond.Expr {
		if value == "" {
			return nil
		}
		return cond.Compare{Left: cond.C(v, column), Op: cond.OpEq, Value: value}
	}
	q := querysql.Select{
		From:    graph.TableValues,
		Alias:   v,
		Columns: []string{"id", "property_id", "entity_id", "space_id", "value", "language", "unit"},
		Where: cond.AllOf(
			cond.Compare{Left: cond.C(v, "entity_id"), Op: cond.OpEq, Value: entityID},
			eq("property_id", opts.PropertyID),
			eq("space_id", opts.SpaceID),
		),
	}
	if err := paginate(&q, opts.Page); err != nil {
		return nil, err
	}
	rows, err := run(ctx, x, "values", q, x.store.QueryValues)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, valueView), nil
}

func eqID(alias, id string) cond.Expr {
	return cond.Compare{Left: cond.C(alias, "id"), Op: cond.OpEq, Value: id}
}
