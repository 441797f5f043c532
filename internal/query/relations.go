package query

import (
	"context"

	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/querysql"
	"github.com/roach88/kgraph/internal/store"
)

const relationAlias = "r"

// RelationsOptions narrows the relations attached to one entity.
type RelationsOptions struct {
	SpaceID string  // empty = every space
	TypeID  *string // nil = every relation type
	Page    Page
}

// Relations returns the relations matching rf, ordered by id.
// The zero RelationFilter matches every relation.
func (x *Executor) Relations(ctx context.Context, rf filter.RelationFilter, page Page) ([]graph.RelationView, error) {
	q := querysql.Select{
		From:    graph.TableRelations,
		Alias:   relationAlias,
		Columns: store.RelationColumns,
		Where:   rf.Condition(relationAlias),
	}
	if err := paginate(&q, page); err != nil {
		return nil, err
	}
	rows, err := run(ctx, x, "relations", q, x.store.QueryRelations)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, relationView), nil
}

// Relation returns the relation with id, or nil when it does not exist.
func (x *Executor) Relation(ctx context.Context, id string) (*graph.RelationView, error) {
	q := querysql.Select{
		From:    graph.TableRelations,
		Alias:   relationAlias,
		Columns: store.RelationColumns,
		Where:   eqID(relationAlias, id),
		Limit:   1,
	}
	rows, err := run(ctx, x, "relation", q, x.store.QueryRelations)
	if err != nil {
		return nil, err
	}
	return first(mapSlice(rows, relationView)), nil
}

// EntityRelations returns the outgoing relations of entityID.
func (x *Executor) EntityRelations(ctx context.Context, entityID string, opts RelationsOptions) ([]graph.RelationView, error) {
	return x.Relations(ctx, filter.RelationFilter{
		TypeID:       opts.TypeID,
		FromEntityID: ptr(entityID),
		SpaceID:      optional(opts.SpaceID),
	}, opts.Page)
}

// Backlinks returns the incoming relations of entityID.
func (x *Executor) Backlinks(ctx context.Context, entityID string, opts RelationsOptions) ([]graph.RelationView, error) {
	return x.Relations(ctx, filter.RelationFilter{
		TypeID:     opts.TypeID,
		ToEntityID: ptr(entityID),
		SpaceID:    optional(opts.SpaceID),
	}, opts.Page)
}
