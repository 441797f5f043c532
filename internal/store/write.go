package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// Batch is a set of graph rows written together by WriteBatch.
// The write path exists for fixtures and seeding; the query core never writes.
type Batch struct {
	Spaces     []graph.Space
	Entities   []graph.Entity
	Properties []graph.Property
	Values     []graph.Value
	Relations  []graph.Relation
	Members    []graph.Member
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteBatch writes every row of b in one transaction. Rows whose primary
// key already exists are silently ignored (ON CONFLICT DO NOTHING), so
// applying the same batch twice is a no-op.
func (s *Store) WriteBatch(ctx context.Context, b Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, sp := range b.Spaces {
		if err := writeSpace(ctx, tx, sp); err != nil {
			return err
		}
	}
	for _, e := range b.Entities {
		if err := writeEntity(ctx, tx, e); err != nil {
			return err
		}
	}
	for _, p := range b.Properties {
		if err := writeProperty(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, v := range b.Values {
		if err := writeValue(ctx, tx, v); err != nil {
			return err
		}
	}
	for _, r := range b.Relations {
		if err := writeRelation(ctx, tx, r); err != nil {
			return err
		}
	}
	for _, m := range b.Members {
		if err := writeMember(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write batch: commit: %w", err)
	}
	return nil
}

// WriteEntity inserts an entity row.
func (s *Store) WriteEntity(ctx context.Context, e graph.Entity) error {
	return writeEntity(ctx, s.db, e)
}

// WriteProperty inserts a property row.
func (s *Store) WriteProperty(ctx context.Context, p graph.Property) error {
	return writeProperty(ctx, s.db, p)
}

// WriteValue inserts a value row.
func (s *Store) WriteValue(ctx context.Context, v graph.Value) error {
	return writeValue(ctx, s.db, v)
}

// WriteRelation inserts a relation row.
func (s *Store) WriteRelation(ctx context.Context, r graph.Relation) error {
	return writeRelation(ctx, s.db, r)
}

// WriteSpace inserts a space row.
func (s *Store) WriteSpace(ctx context.Context, sp graph.Space) error {
	return writeSpace(ctx, s.db, sp)
}

// WriteMember inserts a membership row.
func (s *Store) WriteMember(ctx context.Context, m graph.Member) error {
	return writeMember(ctx, s.db, m)
}

func writeEntity(ctx context.Context, x execer, e graph.Entity) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO entities (id, created_at, created_at_block, updated_at, updated_at_block)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID, e.CreatedAt, e.CreatedAtBlock, e.UpdatedAt, e.UpdatedAtBlock)
	if err != nil {
		return fmt.Errorf("write entity %s: %w", e.ID, err)
	}
	return nil
}

func writeProperty(ctx context.Context, x execer, p graph.Property) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO properties (id, type)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.ID, string(p.Type))
	if err != nil {
		return fmt.Errorf("write property %s: %w", p.ID, err)
	}
	return nil
}

func writeValue(ctx context.Context, x execer, v graph.Value) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO "values" (id, property_id, entity_id, space_id, value, language, unit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, v.ID, v.PropertyID, v.EntityID, v.SpaceID, v.Value, v.Language, v.Unit)
	if err != nil {
		return fmt.Errorf("write value %s: %w", v.ID, err)
	}
	return nil
}

func writeRelation(ctx context.Context, x execer, r graph.Relation) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO relations
		(id, entity_id, type_id, from_entity_id, from_space_id, from_version_id,
		 to_entity_id, to_space_id, to_version_id, position, space_id, verified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID, r.EntityID, r.TypeID,
		r.FromEntityID, r.FromSpaceID, r.FromVersionID,
		r.ToEntityID, r.ToSpaceID, r.ToVersionID,
		r.Position, r.SpaceID, r.Verified,
	)
	if err != nil {
		return fmt.Errorf("write relation %s: %w", r.ID, err)
	}
	return nil
}

func writeSpace(ctx context.Context, x execer, sp graph.Space) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO spaces
		(id, type, dao_address, space_address, main_voting_address, membership_address, personal_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sp.ID, string(sp.Type), sp.DAOAddress, sp.SpaceAddress,
		sp.MainVotingAddress, sp.MembershipAddress, sp.PersonalAddress,
	)
	if err != nil {
		return fmt.Errorf("write space %s: %w", sp.ID, err)
	}
	return nil
}

func writeMember(ctx context.Context, x execer, m graph.Member) error {
	_, err := x.ExecContext(ctx, `
		INSERT INTO members (address, space_id)
		VALUES (?, ?)
		ON CONFLICT(address, space_id) DO NOTHING
	`, m.Address, m.SpaceID)
	if err != nil {
		return fmt.Errorf("write member %s/%s: %w", m.SpaceID, m.Address, err)
	}
	return nil
}
