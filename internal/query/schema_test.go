package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/testutil"
)

func TestTypes(t *testing.T) {
	x := newTestExecutor(t)

	types, err := x.Types(t.Context(), TypesOptions{})
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "PERSON", types[0].ID)
	assert.Equal(t, "Person", *types[0].Name)

	scoped, err := x.Types(t.Context(), TypesOptions{SpaceID: "S2"})
	require.NoError(t, err)
	assert.Empty(t, scoped)
}

func TestProperties(t *testing.T) {
	s := testutil.GraphStore(t)
	require.NoError(t, s.WriteValue(t.Context(), graph.Value{
		ID: "VP1", PropertyID: graph.NamePropertyID, EntityID: testutil.PropText, SpaceID: "S1", Value: ptr("Text"),
	}))
	x := New(s)
	ctx := t.Context()

	all, err := x.Properties(ctx, PropertiesOptions{})
	require.NoError(t, err)
	got := []string{}
	for _, p := range all {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{
		graph.DescriptionPropertyID,
		"P_BOOL", "P_NUM", "P_POINT", "P_TAG", "P_TEXT",
		graph.NamePropertyID,
	}, got)

	declared, err := x.Properties(ctx, PropertiesOptions{TypeID: testutil.PersonType})
	require.NoError(t, err)
	require.Len(t, declared, 2)
	assert.Equal(t, "P_NUM", declared[0].ID)
	assert.Equal(t, graph.DataTypeNumber, declared[0].DataType)
	assert.Nil(t, declared[0].Name)
	assert.Equal(t, "P_TEXT", declared[1].ID)
	require.NotNil(t, declared[1].Name)
	assert.Equal(t, "Text", *declared[1].Name)

	other, err := x.Properties(ctx, PropertiesOptions{TypeID: testutil.PersonType, SpaceID: "S2"})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestProperty(t *testing.T) {
	x := newTestExecutor(t)

	p, err := x.Property(t.Context(), "P_POINT")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, graph.DataTypePoint, p.DataType)

	missing, err := x.Property(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEntityValues(t *testing.T) {
	x := newTestExecutor(t)
	ctx := t.Context()

	all, err := x.EntityValues(ctx, "E1", ValuesOptions{})
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, "V01", all[0].ID)

	scoped, err := x.EntityValues(ctx, "E1", ValuesOptions{SpaceID: "S2"})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Alicia", *scoped[0].Value)

	num, err := x.EntityValues(ctx, "E1", ValuesOptions{PropertyID: testutil.PropNum})
	require.NoError(t, err)
	require.Len(t, num, 1)
	assert.Equal(t, "42", *num[0].Value)
	assert.Equal(t, "E1", num[0].EntityID)
	assert.Equal(t, "S1", num[0].SpaceID)

	none, err := x.EntityValues(ctx, "missing", ValuesOptions{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
