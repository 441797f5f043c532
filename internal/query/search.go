package query

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/querysql"
	"github.com/roach88/kgraph/internal/store"
)

// SimilarityThreshold is the trigram similarity at which a name matches a
// search term it does not contain.
const SimilarityThreshold = 0.3

// SearchOptions describes a ranked name search.
type SearchOptions struct {
	// Query is the search term. It is trimmed and NFC-normalized.
	Query string

	// SpaceID scopes the name values searched and the optional Filter.
	SpaceID string

	// Filter further restricts the candidates.
	Filter *filter.Filter

	Page Page
}

// Search returns entities whose name contains the term, ignoring ASCII
// case, or is trigram-similar to it. Results are ordered by rank (the best
// name similarity) descending, then by id. A blank term matches nothing.
func (x *Executor) Search(ctx context.Context, opts SearchOptions) ([]graph.RankedEntityView, error) {
	term := norm.NFC.String(strings.TrimSpace(opts.Query))
	if term == "" {
		// Every name contains the empty string.
		if _, _, err := opts.Page.resolve(); err != nil {
			return nil, err
		}
		return []graph.RankedEntityView{}, nil
	}
	e := filter.EntityAlias

	rankSQL := `SELECT MAX(similarity(rv.value, ?)) FROM "values" rv WHERE rv.entity_id = ` + e + `.id AND rv.property_id = ?`
	rankArgs := []any{term, graph.NamePropertyID}
	if opts.SpaceID != "" {
		rankSQL += ` AND rv.space_id = ?`
		rankArgs = append(rankArgs, opts.SpaceID)
	}

	const mv = "mv"
	var mvSpace cond.Expr
	if opts.SpaceID != "" {
		mvSpace = cond.Compare{Left: cond.C(mv, "space_id"), Op: cond.OpEq, Value: opts.SpaceID}
	}
	nameMatch := cond.Exists{
		Table: graph.TableValues,
		Alias: mv,
		Where: cond.AllOf(
			cond.ColumnEq{Left: cond.C(mv, "entity_id"), Right: cond.C(e, "id")},
			cond.Compare{Left: cond.C(mv, "property_id"), Op: cond.OpEq, Value: graph.NamePropertyID},
			mvSpace,
			cond.Raw{
				SQL:  "instr(lower(mv.value), lower(?)) > 0 OR similarity(mv.value, ?) >= ?",
				Args: []any{term, term, SimilarityThreshold},
			},
		),
	}

	q := querysql.Select{
		From:    graph.TableEntities,
		Alias:   e,
		Columns: store.EntityColumns,
		Computed: []querysql.Computed{
			lookup(e, graph.NamePropertyID, opts.SpaceID, "name"),
			lookup(e, graph.DescriptionPropertyID, opts.SpaceID, "description"),
			{SQL: rankSQL, Args: rankArgs, As: "rank"},
		},
		Where: cond.AllOf(nameMatch, filter.Compile(opts.Filter, opts.SpaceID)),
		OrderBy: []querysql.OrderTerm{
			{Expr: "rank", Desc: true},
			{Expr: e + ".id", Binary: true},
		},
	}
	if err := paginate(&q, opts.Page); err != nil {
		return nil, err
	}

	rows, err := run(ctx, x, "search", q, x.store.QueryRankedEntities)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, func(r store.RankedEntityRow) graph.RankedEntityView {
		return graph.RankedEntityView{EntityView: entityView(r.EntityRow), Rank: r.Rank}
	}), nil
}
