// Package fixture loads graph fixtures from YAML and writes them to a store.
//
// A fixture lists spaces, properties, entities (with their values and
// outgoing relations) and members:
//
//	spaces:
//	  - {id: S1, type: Public, dao_address: "0xdao", space_address: "0xspace"}
//	properties:
//	  - {id: P_TEXT, type: Text}
//	entities:
//	  - id: E1
//	    values:
//	      - {property: P_TEXT, space: S1, value: Hello World}
//	    relations:
//	      - {type: T1, to: E2, space: S1}
//	members:
//	  - {address: "0xabc", space: S1}
//
// Value, relation and relation-entity ids are optional and generated as
// UUIDv7 when absent. Unknown fields are rejected.
package fixture

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
)

// DefaultTimestamp is used for entity provenance fields left empty.
const DefaultTimestamp = "1970-01-01T00:00:00Z"

// DefaultBlock is used for entity block markers left empty.
const DefaultBlock = "0"

// Fixture is a graph fixture file.
type Fixture struct {
	Spaces     []Space    `yaml:"spaces,omitempty"`
	Properties []Property `yaml:"properties,omitempty"`
	Entities   []Entity   `yaml:"entities,omitempty"`
	Members    []Member   `yaml:"members,omitempty"`
}

// Space is a fixture space.
type Space struct {
	ID                string  `yaml:"id"`
	Type              string  `yaml:"type"`
	DAOAddress        string  `yaml:"dao_address"`
	SpaceAddress      string  `yaml:"space_address"`
	MainVotingAddress *string `yaml:"main_voting_address,omitempty"`
	MembershipAddress *string `yaml:"membership_address,omitempty"`
	PersonalAddress   *string `yaml:"personal_address,omitempty"`
}

// Property is a fixture property.
type Property struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
}

// Entity is a fixture entity with its values and outgoing relations.
type Entity struct {
	ID             string     `yaml:"id"`
	CreatedAt      string     `yaml:"created_at,omitempty"`
	CreatedAtBlock string     `yaml:"created_at_block,omitempty"`
	UpdatedAt      string     `yaml:"updated_at,omitempty"`
	UpdatedAtBlock string     `yaml:"updated_at_block,omitempty"`
	Values         []Value    `yaml:"values,omitempty"`
	Relations      []Relation `yaml:"relations,omitempty"`
}

// Value is a fixture value on its enclosing entity. A nil Value stores NULL.
type Value struct {
	ID       string  `yaml:"id,omitempty"`
	Property string  `yaml:"property"`
	Space    string  `yaml:"space"`
	Value    *string `yaml:"value"`
	Language *string `yaml:"language,omitempty"`
	Unit     *string `yaml:"unit,omitempty"`
}

// Relation is a fixture relation from its enclosing entity.
type Relation struct {
	ID          string  `yaml:"id,omitempty"`
	Entity      string  `yaml:"entity,omitempty"`
	Type        string  `yaml:"type"`
	To          string  `yaml:"to"`
	Space       string  `yaml:"space"`
	FromSpace   *string `yaml:"from_space,omitempty"`
	FromVersion *string `yaml:"from_version,omitempty"`
	ToSpace     *string `yaml:"to_space,omitempty"`
	ToVersion   *string `yaml:"to_version,omitempty"`
	Position    *string `yaml:"position,omitempty"`
	Verified    *bool   `yaml:"verified,omitempty"`
}

// Member is a fixture membership.
type Member struct {
	Address string `yaml:"address"`
	Space   string `yaml:"space"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse parses fixture YAML. Returns an error if the document is malformed,
// contains unknown fields (typos), or fails validation.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// Validate checks required fields, enumerations and duplicate ids.
func (f *Fixture) Validate() error {
	spaces := map[string]bool{}
	for i, sp := range f.Spaces {
		if sp.ID == "" {
			return fmt.Errorf("spaces[%d]: id is required", i)
		}
		if spaces[sp.ID] {
			return fmt.Errorf("spaces[%d]: duplicate id %q", i, sp.ID)
		}
		spaces[sp.ID] = true
		if !graph.SpaceType(sp.Type).Valid() {
			return fmt.Errorf("space %s: unknown type %q", sp.ID, sp.Type)
		}
	}

	properties := map[string]bool{}
	for i, p := range f.Properties {
		if p.ID == "" {
			return fmt.Errorf("properties[%d]: id is required", i)
		}
		if properties[p.ID] {
			return fmt.Errorf("properties[%d]: duplicate id %q", i, p.ID)
		}
		properties[p.ID] = true
		if !graph.DataType(p.Type).Valid() {
			return fmt.Errorf("property %s: unknown type %q", p.ID, p.Type)
		}
	}

	entities := map[string]bool{}
	for i, e := range f.Entities {
		if e.ID == "" {
			return fmt.Errorf("entities[%d]: id is required", i)
		}
		if entities[e.ID] {
			return fmt.Errorf("entities[%d]: duplicate id %q", i, e.ID)
		}
		entities[e.ID] = true

		for j, v := range e.Values {
			if v.Property == "" || v.Space == "" {
				return fmt.Errorf("entity %s: values[%d]: property and space are required", e.ID, j)
			}
		}
		for j, r := range e.Relations {
			if r.Type == "" || r.To == "" || r.Space == "" {
				return fmt.Errorf("entity %s: relations[%d]: type, to and space are required", e.ID, j)
			}
		}
	}

	for i, m := range f.Members {
		if m.Address == "" || m.Space == "" {
			return fmt.Errorf("members[%d]: address and space are required", i)
		}
	}
	return nil
}

// Batch converts the fixture to store rows, generating missing ids.
// Only entities listed in the fixture get entity rows; a relation's own
// entity is written only if it is listed too.
func (f *Fixture) Batch() (store.Batch, error) {
	var b store.Batch

	for _, sp := range f.Spaces {
		b.Spaces = append(b.Spaces, graph.Space{
			ID:                sp.ID,
			Type:              graph.SpaceType(sp.Type),
			DAOAddress:        sp.DAOAddress,
			SpaceAddress:      sp.SpaceAddress,
			MainVotingAddress: sp.MainVotingAddress,
			MembershipAddress: sp.MembershipAddress,
			PersonalAddress:   sp.PersonalAddress,
		})
	}

	for _, p := range f.Properties {
		b.Properties = append(b.Properties, graph.Property{ID: p.ID, Type: graph.DataType(p.Type)})
	}

	for _, e := range f.Entities {
		b.Entities = append(b.Entities, graph.Entity{
			ID:             e.ID,
			CreatedAt:      orDefault(e.CreatedAt, DefaultTimestamp),
			CreatedAtBlock: orDefault(e.CreatedAtBlock, DefaultBlock),
			UpdatedAt:      orDefault(e.UpdatedAt, orDefault(e.CreatedAt, DefaultTimestamp)),
			UpdatedAtBlock: orDefault(e.UpdatedAtBlock, orDefault(e.CreatedAtBlock, DefaultBlock)),
		})

		for _, v := range e.Values {
			id, err := idOrNew(v.ID)
			if err != nil {
				return store.Batch{}, err
			}
			b.Values = append(b.Values, graph.Value{
				ID:         id,
				PropertyID: v.Property,
				EntityID:   e.ID,
				SpaceID:    v.Space,
				Value:      v.Value,
				Language:   v.Language,
				Unit:       v.Unit,
			})
		}

		for _, r := range e.Relations {
			id, err := idOrNew(r.ID)
			if err != nil {
				return store.Batch{}, err
			}
			entityID, err := idOrNew(r.Entity)
			if err != nil {
				return store.Batch{}, err
			}
			b.Relations = append(b.Relations, graph.Relation{
				ID:            id,
				EntityID:      entityID,
				TypeID:        r.Type,
				FromEntityID:  e.ID,
				FromSpaceID:   r.FromSpace,
				FromVersionID: r.FromVersion,
				ToEntityID:    r.To,
				ToSpaceID:     r.ToSpace,
				ToVersionID:   r.ToVersion,
				Position:      r.Position,
				SpaceID:       r.Space,
				Verified:      r.Verified,
			})
		}
	}

	for _, m := range f.Members {
		b.Members = append(b.Members, graph.Member{Address: m.Address, SpaceID: m.Space})
	}

	return b, nil
}

// Apply writes the fixture to s in one transaction.
func (f *Fixture) Apply(ctx context.Context, s *store.Store) error {
	b, err := f.Batch()
	if err != nil {
		return err
	}
	if err := s.WriteBatch(ctx, b); err != nil {
		return fmt.Errorf("apply fixture: %w", err)
	}
	return nil
}

func idOrNew(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return u.String(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
