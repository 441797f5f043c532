package query

import (
	"context"

	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/querysql"
	"github.com/roach88/kgraph/internal/store"
)

// EntityOptions scopes and pages an entity query.
type EntityOptions struct {
	// SpaceID scopes the filter and the name/description lookups.
	// Empty means every space.
	SpaceID string

	Page Page
}

// Execute fetches the entities satisfying where, which must refer to the
// entity as filter.EntityAlias. A nil where selects every entity.
//
// Results are ordered by id.
func (x *Executor) Execute(ctx context.Context, where cond.Expr, opts EntityOptions) ([]graph.EntityView, error) {
	q, err := entitySelect(where, opts)
	if err != nil {
		return nil, err
	}
	rows, err := run(ctx, x, "entities", q, x.store.QueryEntities)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, entityView), nil
}

// Entities compiles f within opts.SpaceID and executes it.
func (x *Executor) Entities(ctx context.Context, f *filter.Filter, opts EntityOptions) ([]graph.EntityView, error) {
	return x.Execute(ctx, filter.Compile(f, opts.SpaceID), opts)
}

// Entity returns the entity with id, or nil when it does not exist (or,
// with a non-empty spaceID, is not visible in that space).
func (x *Executor) Entity(ctx context.Context, id, spaceID string) (*graph.EntityView, error) {
	views, err := x.Entities(ctx, &filter.Filter{ID: filter.IDs(id)}, EntityOptions{
		SpaceID: spaceID,
		Page:    single,
	})
	if err != nil {
		return nil, err
	}
	return first(views), nil
}

// EntityTypes returns the types the entity is an instance of: the targets
// of its outgoing TYPES relations.
func (x *Executor) EntityTypes(ctx context.Context, entityID, spaceID string) ([]graph.EntityView, error) {
	const r = "r"
	where := cond.Exists{
		Table: graph.TableRelations,
		Alias: r,
		Where: cond.AllOf(
			cond.ColumnEq{Left: cond.C(r, "to_entity_id"), Right: cond.C(filter.EntityAlias, "id")},
			filter.RelationFilter{
				TypeID:       ptr(graph.TypesPropertyID),
				FromEntityID: ptr(entityID),
				SpaceID:      optional(spaceID),
			}.Condition(r),
		),
	}
	return x.Execute(ctx, where, EntityOptions{SpaceID: spaceID})
}

// Explain renders the statement Entities would run for f.
func (x *Executor) Explain(f *filter.Filter, opts EntityOptions) (Statement, error) {
	q, err := entitySelect(filter.Compile(f, opts.SpaceID), opts)
	if err != nil {
		return Statement{}, err
	}
	return x.compile("explain", q)
}

func entitySelect(where cond.Expr, opts EntityOptions) (querysql.Select, error) {
	q := querysql.Select{
		From:    graph.TableEntities,
		Alias:   filter.EntityAlias,
		Columns: store.EntityColumns,
		Computed: []querysql.Computed{
			lookup(filter.EntityAlias, graph.NamePropertyID, opts.SpaceID, "name"),
			lookup(filter.EntityAlias, graph.DescriptionPropertyID, opts.SpaceID, "description"),
		},
		Where: where,
	}
	if err := paginate(&q, opts.Page); err != nil {
		return querysql.Select{}, err
	}
	return q, nil
}

// lookup projects the first value of propertyID on the row aliased owner,
// restricted to spaceID when set. The value is NULL when none exists.
// Ties across spaces resolve by space id, then value id.
func lookup(owner, propertyID, spaceID, as string) querysql.Computed {
	sql := `SELECT lv.value FROM "values" lv WHERE lv.entity_id = ` + owner + `.id AND lv.property_id = ?`
	args := []any{propertyID}
	if spaceID != "" {
		sql += ` AND lv.space_id = ?`
		args = append(args, spaceID)
	}
	sql += ` ORDER BY lv.space_id, lv.id LIMIT 1`
	return querysql.Computed{SQL: sql, Args: args, As: as}
}

func ptr(s string) *string { return &s }

// optional returns nil for the empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
