package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/testutil"
)

// newTestExecutor returns an executor over the canonical test graph.
func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	return New(testutil.GraphStore(t))
}

// parseFilter decodes a JSON filter tree.
func parseFilter(t *testing.T, js string) *filter.Filter {
	t.Helper()
	f, err := filter.Parse([]byte(js))
	require.NoError(t, err)
	return f
}

// entityIDs runs a filter and returns the ids of the matches.
func entityIDs(t *testing.T, x *Executor, f *filter.Filter, spaceID string) []string {
	t.Helper()
	views, err := x.Entities(t.Context(), f, EntityOptions{SpaceID: spaceID})
	require.NoError(t, err)
	return ids(views)
}

func ids(views []graph.EntityView) []string {
	out := []string{}
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func relationIDs(views []graph.RelationView) []string {
	out := []string{}
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func intPtr(n int) *int { return &n }

func relationFilterType(typeID string) filter.RelationFilter {
	return filter.RelationFilter{TypeID: &typeID}
}

var allEntities = []string{"E1", "E2", "E3", "E4", "E5", "E6", testutil.PersonType}
