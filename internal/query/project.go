package query

import (
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
)

func entityView(r store.EntityRow) graph.EntityView {
	return graph.EntityView{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt,
		CreatedAtBlock: r.CreatedAtBlock,
		UpdatedAt:      r.UpdatedAt,
		UpdatedAtBlock: r.UpdatedAtBlock,
	}
}

// relationView renames storage columns to their resolver-facing names.
func relationView(r graph.Relation) graph.RelationView {
	return graph.RelationView{
		ID:          r.ID,
		EntityID:    r.EntityID,
		TypeID:      r.TypeID,
		FromID:      r.FromEntityID,
		FromSpaceID: r.FromSpaceID,
		ToID:        r.ToEntityID,
		ToSpaceID:   r.ToSpaceID,
		SpaceID:     r.SpaceID,
		Position:    r.Position,
		Verified:    r.Verified,
	}
}

func valueView(v graph.Value) graph.ValueView {
	return graph.ValueView{
		ID:         v.ID,
		PropertyID: v.PropertyID,
		EntityID:   v.EntityID,
		SpaceID:    v.SpaceID,
		Value:      v.Value,
		Language:   v.Language,
		Unit:       v.Unit,
	}
}

func propertyView(r store.PropertyRow) graph.PropertyView {
	return graph.PropertyView{ID: r.ID, DataType: r.Type, Name: r.Name}
}

func spaceView(s graph.Space) graph.SpaceView {
	return graph.SpaceView{
		ID:                s.ID,
		Type:              s.Type,
		DAOAddress:        s.DAOAddress,
		SpaceAddress:      s.SpaceAddress,
		MainVotingAddress: s.MainVotingAddress,
		MembershipAddress: s.MembershipAddress,
		PersonalAddress:   s.PersonalAddress,
	}
}

func memberView(m graph.Member) graph.MemberView {
	return graph.MemberView{Address: m.Address, SpaceID: m.SpaceID}
}

// mapSlice projects every element of in. The result is never nil.
func mapSlice[T, V any](in []T, f func(T) V) []V {
	out := make([]V, len(in))
	for i, x := range in {
		out[i] = f(x)
	}
	return out
}
