package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// Column lists for typed queries. A statement passed to a Query* method must
// select exactly these columns, in this order, followed by any extra columns
// documented on the method.
var (
	EntityColumns   = []string{"id", "created_at", "created_at_block", "updated_at", "updated_at_block"}
	PropertyColumns = []string{"id", "type"}
	ValueColumns    = []string{"id", "property_id", "entity_id", "space_id", "value", "language", "unit"}
	RelationColumns = []string{
		"id", "entity_id", "type_id",
		"from_entity_id", "from_space_id", "from_version_id",
		"to_entity_id", "to_space_id", "to_version_id",
		"position", "space_id", "verified",
	}
	SpaceColumns = []string{
		"id", "type", "dao_address", "space_address",
		"main_voting_address", "membership_address", "personal_address",
	}
	MemberColumns = []string{"address", "space_id"}
)

// EntityRow is an entity with its best-effort name and description.
type EntityRow struct {
	graph.Entity
	Name        *string
	Description *string
}

// RankedEntityRow is an EntityRow with a search rank.
type RankedEntityRow struct {
	EntityRow
	Rank float64
}

// PropertyRow is a property with its best-effort name.
type PropertyRow struct {
	graph.Property
	Name *string
}

// QueryEntities runs a statement selecting EntityColumns, name, description.
func (s *Store) QueryEntities(ctx context.Context, query string, args ...any) ([]EntityRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	return scanRows(rows, "entities", func(rows *sql.Rows) (EntityRow, error) {
		var r EntityRow
		var name, description sql.NullString
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.CreatedAtBlock, &r.UpdatedAt, &r.UpdatedAtBlock,
			&name, &description,
		); err != nil {
			return EntityRow{}, err
		}
		r.Name = nullString(name)
		r.Description = nullString(description)
		return r, nil
	})
}

// QueryRankedEntities runs a statement selecting EntityColumns, name,
// description, rank.
func (s *Store) QueryRankedEntities(ctx context.Context, query string, args ...any) ([]RankedEntityRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ranked entities: %w", err)
	}
	return scanRows(rows, "ranked entities", func(rows *sql.Rows) (RankedEntityRow, error) {
		var r RankedEntityRow
		var name, description sql.NullString
		var rank sql.NullFloat64
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.CreatedAtBlock, &r.UpdatedAt, &r.UpdatedAtBlock,
			&name, &description, &rank,
		); err != nil {
			return RankedEntityRow{}, err
		}
		r.Name = nullString(name)
		r.Description = nullString(description)
		r.Rank = rank.Float64
		return r, nil
	})
}

// QueryProperties runs a statement selecting PropertyColumns, name.
func (s *Store) QueryProperties(ctx context.Context, query string, args ...any) ([]PropertyRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	return scanRows(rows, "properties", func(rows *sql.Rows) (PropertyRow, error) {
		var r PropertyRow
		var dataType string
		var name sql.NullString
		if err := rows.Scan(&r.ID, &dataType, &name); err != nil {
			return PropertyRow{}, err
		}
		r.Type = graph.DataType(dataType)
		r.Name = nullString(name)
		return r, nil
	})
}

// QueryValues runs a statement selecting ValueColumns.
func (s *Store) QueryValues(ctx context.Context, query string, args ...any) ([]graph.Value, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}
	return scanRows(rows, "values", func(rows *sql.Rows) (graph.Value, error) {
		var v graph.Value
		var value, language, unit sql.NullString
		if err := rows.Scan(&v.ID, &v.PropertyID, &v.EntityID, &v.SpaceID, &value, &language, &unit); err != nil {
			return graph.Value{}, err
		}
		v.Value = nullString(value)
		v.Language = nullString(language)
		v.Unit = nullString(unit)
		return v, nil
	})
}

// QueryRelations runs a statement selecting RelationColumns.
func (s *Store) QueryRelations(ctx context.Context, query string, args ...any) ([]graph.Relation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	return scanRows(rows, "relations", func(rows *sql.Rows) (graph.Relation, error) {
		var r graph.Relation
		var fromSpace, fromVersion, toSpace, toVersion, position sql.NullString
		var verified sql.NullBool
		if err := rows.Scan(
			&r.ID, &r.EntityID, &r.TypeID,
			&r.FromEntityID, &fromSpace, &fromVersion,
			&r.ToEntityID, &toSpace, &toVersion,
			&position, &r.SpaceID, &verified,
		); err != nil {
			return graph.Relation{}, err
		}
		r.FromSpaceID = nullString(fromSpace)
		r.FromVersionID = nullString(fromVersion)
		r.ToSpaceID = nullString(toSpace)
		r.ToVersionID = nullString(toVersion)
		r.Position = nullString(position)
		if verified.Valid {
			b := verified.Bool
			r.Verified = &b
		}
		return r, nil
	})
}

// QuerySpaces runs a statement selecting SpaceColumns.
func (s *Store) QuerySpaces(ctx context.Context, query string, args ...any) ([]graph.Space, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query spaces: %w", err)
	}
	return scanRows(rows, "spaces", func(rows *sql.Rows) (graph.Space, error) {
		var sp graph.Space
		var spaceType string
		var mainVoting, membership, personal sql.NullString
		if err := rows.Scan(
			&sp.ID, &spaceType, &sp.DAOAddress, &sp.SpaceAddress,
			&mainVoting, &membership, &personal,
		); err != nil {
			return graph.Space{}, err
		}
		sp.Type = graph.SpaceType(spaceType)
		sp.MainVotingAddress = nullString(mainVoting)
		sp.MembershipAddress = nullString(membership)
		sp.PersonalAddress = nullString(personal)
		return sp, nil
	})
}

// QueryMembers runs a statement selecting MemberColumns.
func (s *Store) QueryMembers(ctx context.Context, query string, args ...any) ([]graph.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	return scanRows(rows, "members", func(rows *sql.Rows) (graph.Member, error) {
		var m graph.Member
		if err := rows.Scan(&m.Address, &m.SpaceID); err != nil {
			return graph.Member{}, err
		}
		return m, nil
	})
}

// scanRows scans all rows with scan and closes rows.
// Returns an empty slice (not nil) when there are no rows.
func scanRows[T any](rows *sql.Rows, what string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}

	return out, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
