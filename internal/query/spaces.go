package query

import (
	"context"

	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/querysql"
	"github.com/roach88/kgraph/internal/store"
)

const (
	spaceAlias  = "s"
	memberAlias = "m"
)

// SpacesOptions narrows a spaces query.
type SpacesOptions struct {
	// IDs restricts the result to these spaces. Nil means every space; an
	// empty, non-nil slice matches nothing.
	IDs []string

	// Member restricts the result to spaces this address belongs to.
	Member string

	Page Page
}

// Spaces returns spaces ordered by id.
func (x *Executor) Spaces(ctx context.Context, opts SpacesOptions) ([]graph.SpaceView, error) {
	var ids cond.Expr
	if opts.IDs != nil {
		values := make([]any, len(opts.IDs))
		for i, id := range opts.IDs {
			values[i] = id
		}
		ids = cond.In{Col: cond.C(spaceAlias, "id"), Values: values}
	}

	var member cond.Expr
	if opts.Member != "" {
		member = cond.Exists{
			Table: graph.TableMembers,
			Alias: memberAlias,
			Where: cond.AllOf(
				cond.ColumnEq{Left: cond.C(memberAlias, "space_id"), Right: cond.C(spaceAlias, "id")},
				cond.Compare{Left: cond.C(memberAlias, "address"), Op: cond.OpEq, Value: opts.Member},
			),
		}
	}

	q := spaceSelect(cond.AllOf(ids, member))
	if err := paginate(&q, opts.Page); err != nil {
		return nil, err
	}
	rows, err := run(ctx, x, "spaces", q, x.store.QuerySpaces)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, spaceView), nil
}

// Space returns the space with id, or nil when it does not exist.
func (x *Executor) Space(ctx context.Context, id string) (*graph.SpaceView, error) {
	q := spaceSelect(eqID(spaceAlias, id))
	q.Limit = 1
	rows, err := run(ctx, x, "space", q, x.store.QuerySpaces)
	if err != nil {
		return nil, err
	}
	return first(mapSlice(rows, spaceView)), nil
}

// Members returns the members of spaceID ordered by address.
func (x *Executor) Members(ctx context.Context, spaceID string, page Page) ([]graph.MemberView, error) {
	q := querysql.Select{
		From:    graph.TableMembers,
		Alias:   memberAlias,
		Columns: store.MemberColumns,
		Where:   cond.Compare{Left: cond.C(memberAlias, "space_id"), Op: cond.OpEq, Value: spaceID},
		OrderBy: []querysql.OrderTerm{{Expr: memberAlias + ".address", Binary: true}},
	}
	if err := paginate(&q, page); err != nil {
		return nil, err
	}
	rows, err := run(ctx, x, "members", q, x.store.QueryMembers)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, memberView), nil
}

func spaceSelect(where cond.Expr) querysql.Select {
	return querysql.Select{
		From:    graph.TableSpaces,
		Alias:   spaceAlias,
		Columns: store.SpaceColumns,
		Where:   where,
	}
}
