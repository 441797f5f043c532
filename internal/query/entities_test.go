package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/cond"
	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/testutil"
)

func TestEntities_FilterScenarios(t *testing.T) {
	x := newTestExecutor(t)

	testCases := []struct {
		name    string
		filter  string
		spaceID string
		want    []string
	}{
		{
			name:    "text contains",
			filter:  `{"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}}`,
			spaceID: "S1",
			want:    []string{"E1", "E2"},
		},
		{
			name:   "text contains across spaces",
			filter: `{"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}}`,
			want:   []string{"E1", "E2", "E6"},
		},
		{
			name:    "property-level NOT",
			filter:  `{"value": {"property": "P_TEXT", "text": {"NOT": {"contains": "Hello"}}}}`,
			spaceID: "S1",
			want:    []string{"E3"},
		},
		{
			name: "text and number",
			filter: `{"AND": [
				{"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}},
				{"value": {"property": "P_NUM", "number": {"greaterThan": 50}}}
			]}`,
			want: []string{"E2"},
		},
		{
			name:   "text is exact",
			filter: `{"value": {"property": "P_TEXT", "text": {"is": "Hello World"}}}`,
			want:   []string{"E1"},
		},
		{
			name:   "text match is case-sensitive",
			filter: `{"value": {"property": "P_TEXT", "text": {"contains": "hello"}}}`,
			want:   []string{},
		},
		{
			name:   "text starts and ends",
			filter: `{"value": {"property": "P_TEXT", "text": {"startsWith": "Hello", "endsWith": "World"}}}`,
			want:   []string{"E1"},
		},
		{
			name:   "text pattern characters are literal",
			filter: `{"value": {"property": "P_TEXT", "text": {"contains": "*"}}}`,
			want:   []string{},
		},
		{
			name:   "existential over multiple values",
			filter: `{"value": {"property": "P_TAG", "text": {"is": "Apple"}}}`,
			want:   []string{"E5"},
		},
		{
			name:   "number exists",
			filter: `{"value": {"property": "P_NUM", "number": {"exists": true}}}`,
			want:   []string{"E1", "E2"},
		},
		{
			name:   "non-numeric payload satisfies exists false",
			filter: `{"value": {"property": "P_NUM", "number": {"exists": false}}}`,
			want:   []string{"E3"},
		},
		{
			name:   "number range",
			filter: `{"value": {"property": "P_NUM", "number": {"greaterThanOrEqual": 42, "lessThan": 100}}}`,
			want:   []string{"E1"},
		},
		{
			name:   "number NOT",
			filter: `{"value": {"property": "P_NUM", "number": {"NOT": {"is": 42}}}}`,
			want:   []string{"E2"},
		},
		{
			name:   "checkbox",
			filter: `{"value": {"property": "P_BOOL", "checkbox": {"is": true}}}`,
			want:   []string{"E1"},
		},
		{
			name:   "point",
			filter: `{"value": {"property": "P_POINT", "point": {"is": [1.5, -2]}}}`,
			want:   []string{"E1"},
		},
		{
			name:   "value without predicate",
			filter: `{"value": {"property": "P_BOOL"}}`,
			want:   []string{"E1", "E2"},
		},
		{
			name:   "id in",
			filter: `{"id": {"in": ["E2", "E1", "missing"]}}`,
			want:   []string{"E1", "E2"},
		},
		{
			name:   "empty id list",
			filter: `{"id": {"in": []}}`,
			want:   []string{},
		},
		{
			name:   "from relation",
			filter: `{"fromRelation": {"typeId": "T1"}}`,
			want:   []string{"E1", "E2"},
		},
		{
			name:   "to relation",
			filter: `{"toRelation": {"typeId": "T1", "fromEntityId": "E2"}}`,
			want:   []string{"E3"},
		},
		{
			name:   "any relation",
			filter: `{"toRelation": {}}`,
			want:   []string{"E1", "E2", "E3", "PERSON"},
		},
		{
			name:   "OR",
			filter: `{"OR": [{"id": {"in": ["E4"]}}, {"fromRelation": {"typeId": "T3"}}]}`,
			want:   []string{"E3", "E4"},
		},
		{
			name:   "fields are ANDed",
			filter: `{"fromRelation": {"typeId": "T1"}, "toRelation": {"typeId": "T3"}}`,
			want:   []string{"E1"},
		},
		{
			name:    "space gate",
			filter:  `{}`,
			spaceID: "S2",
			want:    []string{"E1", "E6"},
		},
		{
			name:    "scope threads into relation filters",
			filter:  `{"fromRelation": {"typeId": "T1"}}`,
			spaceID: "S2",
			want:    []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := entityIDs(t, x, parseFilter(t, tc.filter), tc.spaceID)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEntities_EmptyCombinatorsMatchEverything(t *testing.T) {
	x := newTestExecutor(t)

	for _, spaceID := range []string{"", "S1", "S2"} {
		want := entityIDs(t, x, nil, spaceID)
		for _, js := range []string{`{}`, `{"AND": []}`, `{"OR": []}`} {
			assert.Equal(t, want, entityIDs(t, x, parseFilter(t, js), spaceID), "%s in %q", js, spaceID)
		}
	}

	assert.Equal(t, allEntities, entityIDs(t, x, nil, ""))
	assert.Equal(t, []string{"E1", "E2", "E3", "E4", "E5", "PERSON"}, entityIDs(t, x, nil, "S1"))
}

func TestEntities_PointArity(t *testing.T) {
	x := newTestExecutor(t)

	testCases := []struct {
		name   string
		filter string
		want   []string
	}{
		{"exact pair", `{"value": {"property": "P_POINT", "point": {"is": [1.5, -2]}}}`, []string{"E1"}},
		{"other pair", `{"value": {"property": "P_POINT", "point": {"is": [1.5, 9]}}}`, []string{}},
		// Extra coordinates are not truncated: the predicate is dropped and
		// only the existence of a point value remains.
		{"three coordinates", `{"value": {"property": "P_POINT", "point": {"is": [9, 9, 9]}}}`, []string{"E1"}},
		{"one coordinate", `{"value": {"property": "P_POINT", "point": {"is": [9]}}}`, []string{"E1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entityIDs(t, x, parseFilter(t, tc.filter), ""))
		})
	}
}

func TestEntities_RelationSpaceAndScope(t *testing.T) {
	x := newTestExecutor(t)

	testCases := []struct {
		name    string
		filter  string
		spaceID string
		want    []string
	}{
		{"same space", `{"fromRelation": {"typeId": "T1", "spaceId": "S1"}}`, "S1", []string{"E1", "E2"}},
		{"conflicting space", `{"fromRelation": {"typeId": "T1", "spaceId": "S2"}}`, "S1", []string{}},
		{"explicit space only", `{"fromRelation": {"typeId": "T1", "spaceId": "S1"}}`, "", []string{"E1", "E2"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entityIDs(t, x, parseFilter(t, tc.filter), tc.spaceID))
		})
	}
}

func TestEntities_DoubleNegation(t *testing.T) {
	x := newTestExecutor(t)

	filters := []string{
		`{"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}}`,
		`{"value": {"property": "P_NUM", "number": {"exists": false}}}`,
		`{"fromRelation": {"typeId": "T1"}}`,
		`{"id": {"in": []}}`,
		`{"OR": [{"id": {"in": ["E4"]}}, {"toRelation": {}}]}`,
	}
	for _, js := range filters {
		for _, spaceID := range []string{"", "S1"} {
			f := parseFilter(t, js)
			doubled := &filter.Filter{NOT: &filter.Filter{NOT: f}}
			assert.Equal(t,
				entityIDs(t, x, f, spaceID),
				entityIDs(t, x, doubled, spaceID),
				"%s in %q", js, spaceID,
			)
		}
	}
}

func TestEntities_NotLevelsDiffer(t *testing.T) {
	x := newTestExecutor(t)

	// Property-level NOT keeps the value existential: E4 has no P_TEXT.
	propertyNot := entityIDs(t, x, parseFilter(t,
		`{"value": {"property": "P_TEXT", "text": {"NOT": {"contains": "Hello"}}}}`), "")
	assert.Equal(t, []string{"E3"}, propertyNot)

	// Filter-level NOT negates the existential, so entities lacking the
	// property match too.
	filterNot := entityIDs(t, x, parseFilter(t,
		`{"NOT": {"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}}}`), "")
	assert.Equal(t, []string{"E3", "E4", "E5", "PERSON"}, filterNot)
}

func TestEntities_NumericCoercionNeverMatchesText(t *testing.T) {
	x := newTestExecutor(t)

	predicates := []string{
		`{"is": 0}`, `{"lessThan": 1e300}`, `{"lessThanOrEqual": 1e300}`,
		`{"greaterThan": -1e300}`, `{"greaterThanOrEqual": -1e300}`, `{"exists": true}`,
	}
	for _, pred := range predicates {
		js := `{"AND": [{"id": {"in": ["E3"]}}, {"value": {"property": "P_NUM", "number": ` + pred + `}}]}`
		assert.Empty(t, entityIDs(t, x, parseFilter(t, js), ""), pred)
	}
}

func TestEntities_AddingNonMatchingValueKeepsMatch(t *testing.T) {
	s := testutil.GraphStore(t)
	x := New(s)
	f := parseFilter(t, `{"value": {"property": "P_TEXT", "text": {"is": "Hello World"}}}`)

	before := entityIDs(t, x, f, "S1")
	require.NoError(t, s.WriteValue(t.Context(), graph.Value{
		ID: "V99", PropertyID: testutil.PropText, EntityID: "E1", SpaceID: "S1", Value: ptr("Other"),
	}))
	after := entityIDs(t, x, f, "S1")

	assert.Equal(t, []string{"E1"}, before)
	assert.Equal(t, before, after)
}

func TestEntities_Pagination(t *testing.T) {
	x := newTestExecutor(t)
	ctx := t.Context()

	testCases := []struct {
		name string
		page Page
		want []string
	}{
		{"defaults", Page{}, allEntities},
		{"limit zero", NewPage(0, 0), []string{}},
		{"window", NewPage(2, 1), []string{"E2", "E3"}},
		{"offset past end", Page{Offset: intPtr(100)}, []string{}},
		{"negative limit is unbounded", Page{Limit: intPtr(-1)}, allEntities},
		{"negative limit with offset", Page{Limit: intPtr(-5), Offset: intPtr(5)}, []string{"E6", "PERSON"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			views, err := x.Entities(ctx, nil, EntityOptions{Page: tc.page})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(views))
		})
	}
}

func TestEntities_NegativeOffsetFails(t *testing.T) {
	x := New(nil) // store must not be touched

	_, err := x.Entities(t.Context(), nil, EntityOptions{Page: Page{Offset: intPtr(-1)}})
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.False(t, IsStorageError(err))
}

func TestEntities_DefaultLimit(t *testing.T) {
	s := testutil.NewStore(t)
	for i := 0; i < DefaultLimit+5; i++ {
		require.NoError(t, s.WriteEntity(t.Context(), graph.Entity{
			ID: "e" + string(rune('A'+i/26)) + string(rune('a'+i%26)),
		}))
	}

	views, err := New(s).Entities(t.Context(), nil, EntityOptions{})
	require.NoError(t, err)
	assert.Len(t, views, DefaultLimit)
}

func TestEntities_Projection(t *testing.T) {
	x := newTestExecutor(t)
	ctx := t.Context()

	views, err := x.Entities(ctx, parseFilter(t, `{"id": {"in": ["E1", "E4"]}}`), EntityOptions{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	e1 := views[0]
	assert.Equal(t, "2024-01-01T00:00:00Z", e1.CreatedAt)
	assert.Equal(t, "100", e1.CreatedAtBlock)
	require.NotNil(t, e1.Name)
	assert.Equal(t, "Alice", *e1.Name, "S1 sorts before S2")
	require.NotNil(t, e1.Description)
	assert.Equal(t, "First entity", *e1.Description)

	assert.Nil(t, views[1].Description)

	scoped, err := x.Entities(ctx, parseFilter(t, `{"id": {"in": ["E1"]}}`), EntityOptions{SpaceID: "S2"})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.NotNil(t, scoped[0].Name)
	assert.Equal(t, "Alicia", *scoped[0].Name)
	assert.Nil(t, scoped[0].Description, "description only exists in S1")
}

func TestExecute_RawCondition(t *testing.T) {
	x := newTestExecutor(t)

	views, err := x.Execute(t.Context(), cond.Raw{SQL: "e.id = ?", Args: []any{"E5"}}, EntityOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"E5"}, ids(views))

	_, err = x.Execute(t.Context(), cond.Raw{SQL: "e.id = ?"}, EntityOptions{})
	require.Error(t, err)
	assert.False(t, IsStorageError(err), "invalid conditions are rejected before execution")
}

func TestEntity(t *testing.T) {
	x := newTestExecutor(t)
	ctx := t.Context()

	e, err := x.Entity(ctx, "E2", "")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "E2", e.ID)
	assert.Equal(t, "Bob", *e.Name)

	missing, err := x.Entity(ctx, "missing", "")
	require.NoError(t, err)
	assert.Nil(t, missing)

	hidden, err := x.Entity(ctx, "E6", "S1")
	require.NoError(t, err)
	assert.Nil(t, hidden, "E6 has no facts in S1")

	visible, err := x.Entity(ctx, "E6", "S2")
	require.NoError(t, err)
	require.NotNil(t, visible)
	assert.Equal(t, "Frank", *visible.Name)
}

func TestEntityTypes(t *testing.T) {
	x := newTestExecutor(t)

	types, err := x.EntityTypes(t.Context(), "E1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"PERSON"}, ids(types))

	none, err := x.EntityTypes(t.Context(), "E1", "S2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExplain(t *testing.T) {
	x := New(nil)

	stmt, err := x.Explain(&filter.Filter{ID: filter.IDs("a")}, EntityOptions{Page: NewPage(5, 10)})
	require.NoError(t, err)

	assert.Contains(t, stmt.SQL, `FROM "entities" e WHERE e.id IN (?)`)
	assert.Contains(t, stmt.SQL, "ORDER BY e.id COLLATE BINARY ASC LIMIT ? OFFSET ?")
	assert.Equal(t, []any{graph.NamePropertyID, graph.DescriptionPropertyID, "a", 5, 10}, stmt.Args)
}

func TestEntities_StorageError(t *testing.T) {
	s := testutil.NewStore(t)
	x := New(s)
	require.NoError(t, s.Close())

	_, err := x.Entities(t.Context(), nil, EntityOptions{})
	require.Error(t, err)
	assert.True(t, IsStorageError(err))

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "entities", se.Op)
	assert.NotNil(t, se.Unwrap())
}

func TestEntities_Concurrent(t *testing.T) {
	x := newTestExecutor(t)
	f := parseFilter(t, `{"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}}`)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views, err := x.Entities(t.Context(), f, EntityOptions{SpaceID: "S1"})
			results[i], errs[i] = ids(views), err
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"E1", "E2"}, results[i])
	}
}
