package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
)

const selectEntities = `SELECT id, created_at, created_at_block, updated_at, updated_at_block,
	(SELECT v.value FROM "values" v WHERE v.entity_id = entities.id AND v.property_id = ? ORDER BY v.space_id, v.id LIMIT 1),
	NULL
	FROM entities ORDER BY id`

func TestWriteEntity_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteEntity(ctx, createTestEntity("e1")))
	require.NoError(t, s.WriteValue(ctx, graph.Value{
		ID: "v1", PropertyID: graph.NamePropertyID, EntityID: "e1", SpaceID: "s1",
		Value: strPtr("Alice"),
	}))

	rows, err := s.QueryEntities(ctx, selectEntities, graph.NamePropertyID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "e1", rows[0].ID)
	assert.Equal(t, "2024-01-01T00:00:00Z", rows[0].CreatedAt)
	require.NotNil(t, rows[0].Name)
	assert.Equal(t, "Alice", *rows[0].Name)
	assert.Nil(t, rows[0].Description)
}

func TestWriteEntity_DuplicateIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e := createTestEntity("e1")
	require.NoError(t, s.WriteEntity(ctx, e))

	e.UpdatedAt = "2025-01-01T00:00:00Z"
	require.NoError(t, s.WriteEntity(ctx, e))

	rows, err := s.QueryEntities(ctx, selectEntities, graph.NamePropertyID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", rows[0].UpdatedAt, "first write wins")
}

func TestQueryEntities_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	rows, err := s.QueryEntities(context.Background(), selectEntities, graph.NamePropertyID)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQueryEntities_BadSQL(t *testing.T) {
	s := createTestStore(t)

	_, err := s.QueryEntities(context.Background(), "SELECT * FROM nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query entities")
}

func TestWriteValue_NullPayload(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteValue(ctx, graph.Value{
		ID: "v1", PropertyID: "p1", EntityID: "e1", SpaceID: "s1",
		Unit: strPtr("kg"),
	}))

	vals, err := s.QueryValues(ctx,
		`SELECT id, property_id, entity_id, space_id, value, language, unit FROM "values"`)
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Nil(t, vals[0].Value)
	assert.Nil(t, vals[0].Language)
	require.NotNil(t, vals[0].Unit)
	assert.Equal(t, "kg", *vals[0].Unit)
}

func TestWriteRelation_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	verified := true
	require.NoError(t, s.WriteRelation(ctx, graph.Relation{
		ID: "r1", EntityID: "re1", TypeID: "t1",
		FromEntityID: "a", ToEntityID: "b", ToSpaceID: strPtr("s2"),
		Position: strPtr("a0"), SpaceID: "s1", Verified: &verified,
	}))
	require.NoError(t, s.WriteRelation(ctx, graph.Relation{
		ID: "r2", EntityID: "re2", TypeID: "t1",
		FromEntityID: "b", ToEntityID: "a", SpaceID: "s1",
	}))

	rels, err := s.QueryRelations(ctx, `SELECT id, entity_id, type_id,
		from_entity_id, from_space_id, from_version_id,
		to_entity_id, to_space_id, to_version_id,
		position, space_id, verified FROM relations ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, rels, 2)

	assert.Equal(t, "a", rels[0].FromEntityID)
	assert.Nil(t, rels[0].FromSpaceID)
	require.NotNil(t, rels[0].ToSpaceID)
	assert.Equal(t, "s2", *rels[0].ToSpaceID)
	require.NotNil(t, rels[0].Verified)
	assert.True(t, *rels[0].Verified)

	assert.Nil(t, rels[1].Verified)
	assert.Nil(t, rels[1].Position)
}

func TestWriteProperty_RejectsUnknownType(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteProperty(context.Background(), graph.Property{ID: "p1", Type: "Blob"})
	assert.Error(t, err)
}

func TestWriteProperty_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteProperty(ctx, graph.Property{ID: "p1", Type: graph.DataTypeNumber}))

	props, err := s.QueryProperties(ctx, "SELECT id, type, NULL FROM properties")
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, graph.DataTypeNumber, props[0].Type)
	assert.Nil(t, props[0].Name)
}

func TestWriteSpaceAndMembers(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteSpace(ctx, graph.Space{
		ID: "s1", Type: graph.SpaceTypePublic, DAOAddress: "0xdao", SpaceAddress: "0xspace",
		MainVotingAddress: strPtr("0xvote"),
	}))
	require.NoError(t, s.WriteMember(ctx, graph.Member{Address: "0xa", SpaceID: "s1"}))
	require.NoError(t, s.WriteMember(ctx, graph.Member{Address: "0xa", SpaceID: "s1"}))

	spaces, err := s.QuerySpaces(ctx, `SELECT id, type, dao_address, space_address,
		main_voting_address, membership_address, personal_address FROM spaces`)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, graph.SpaceTypePublic, spaces[0].Type)
	require.NotNil(t, spaces[0].MainVotingAddress)
	assert.Nil(t, spaces[0].PersonalAddress)

	members, err := s.QueryMembers(ctx, "SELECT address, space_id FROM members")
	require.NoError(t, err)
	assert.Equal(t, []graph.Member{{Address: "0xa", SpaceID: "s1"}}, members)
}

func TestWriteBatch_Atomic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.WriteBatch(ctx, Batch{
		Entities:   []graph.Entity{createTestEntity("e1")},
		Properties: []graph.Property{{ID: "p1", Type: "Blob"}},
	})
	require.Error(t, err)

	rows, err := s.QueryEntities(ctx, selectEntities, graph.NamePropertyID)
	require.NoError(t, err)
	assert.Empty(t, rows, "failed batch must not leave partial rows")
}

func TestWriteBatch_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	b := Batch{
		Spaces:     []graph.Space{{ID: "s1", Type: graph.SpaceTypePersonal, DAOAddress: "d", SpaceAddress: "a"}},
		Entities:   []graph.Entity{createTestEntity("e1"), createTestEntity("e2")},
		Properties: []graph.Property{{ID: graph.NamePropertyID, Type: graph.DataTypeText}},
		Values: []graph.Value{{
			ID: "v1", PropertyID: graph.NamePropertyID, EntityID: "e1", SpaceID: "s1", Value: strPtr("one"),
		}},
		Relations: []graph.Relation{{ID: "r1", EntityID: "re1", TypeID: "t", FromEntityID: "e1", ToEntityID: "e2", SpaceID: "s1"}},
		Members:   []graph.Member{{Address: "0xa", SpaceID: "s1"}},
	}
	require.NoError(t, s.WriteBatch(ctx, b))
	require.NoError(t, s.WriteBatch(ctx, b))

	rows, err := s.QueryEntities(ctx, selectEntities, graph.NamePropertyID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Name)
	assert.Equal(t, "one", *rows[0].Name)
	assert.Nil(t, rows[1].Name)
}

func TestQueryRankedEntities(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteEntity(ctx, createTestEntity("e1")))

	rows, err := s.QueryRankedEntities(ctx, `SELECT id, created_at, created_at_block,
		updated_at, updated_at_block, NULL, NULL, similarity('abc', 'abc') FROM entities`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Rank)
}
