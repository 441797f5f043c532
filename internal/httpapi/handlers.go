package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/query"
)

// entitiesRequest is the body of POST /v1/entities and POST /v1/explain.
type entitiesRequest struct {
	Filter  json.RawMessage `json:"filter,omitempty"`
	SpaceID string          `json:"spaceId,omitempty"`
	query.Page
}

func (req entitiesRequest) decode() (*filter.Filter, query.EntityOptions, error) {
	f, err := filter.Parse(req.Filter)
	if err != nil {
		return nil, query.EntityOptions{}, &badRequest{err}
	}
	return f, query.EntityOptions{SpaceID: req.SpaceID, Page: req.Page}, nil
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	f, opts, err := req.decode()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.Entities(r.Context(), f, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	f, opts, err := req.decode()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stmt, err := s.exec.Explain(f, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, stmt)
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, err := s.exec.Entity(r.Context(), id, r.URL.Query().Get("spaceId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, "entity", id)
		return
	}
	writeData(w, view)
}

func (s *Server) handleEntityValues(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.EntityValues(r.Context(), r.PathValue("id"), query.ValuesOptions{
		SpaceID:    r.URL.Query().Get("spaceId"),
		PropertyID: r.URL.Query().Get("propertyId"),
		Page:       page,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) relationsOptions(r *http.Request) (query.RelationsOptions, error) {
	page, err := pageParams(r)
	if err != nil {
		return query.RelationsOptions{}, err
	}
	return query.RelationsOptions{
		SpaceID: r.URL.Query().Get("spaceId"),
		TypeID:  optionalParam(r, "typeId"),
		Page:    page,
	}, nil
}

func (s *Server) handleEntityRelations(w http.ResponseWriter, r *http.Request) {
	opts, err := s.relationsOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.EntityRelations(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleBacklinks(w http.ResponseWriter, r *http.Request) {
	opts, err := s.relationsOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.Backlinks(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleEntityTypes(w http.ResponseWriter, r *http.Request) {
	views, err := s.exec.EntityTypes(r.Context(), r.PathValue("id"), r.URL.Query().Get("spaceId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

// relationsRequest is the body of POST /v1/relations.
type relationsRequest struct {
	Filter filter.RelationFilter `json:"filter"`
	query.Page
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	var req relationsRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.Relations(r.Context(), req.Filter, req.Page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleRelation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, err := s.exec.Relation(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, "relation", id)
		return
	}
	writeData(w, view)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.Types(r.Context(), query.TypesOptions{
		SpaceID: r.URL.Query().Get("spaceId"),
		Page:    page,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.Properties(r.Context(), query.PropertiesOptions{
		TypeID:  r.URL.Query().Get("typeId"),
		SpaceID: r.URL.Query().Get("spaceId"),
		Page:    page,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleProperty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, err := s.exec.Property(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, "property", id)
		return
	}
	writeData(w, view)
}

func (s *Server) handleSpaces(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := query.SpacesOptions{
		Member: r.URL.Query().Get("member"),
		Page:   page,
	}
	if r.URL.Query().Has("id") {
		opts.IDs = r.URL.Query()["id"]
	}
	views, err := s.exec.Spaces(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

func (s *Server) handleSpace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, err := s.exec.Space(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, "space", id)
		return
	}
	writeData(w, view)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views, err := s.exec.Members(r.Context(), r.PathValue("id"), page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}

// searchRequest is the body of POST /v1/search.
type searchRequest struct {
	Query   string          `json:"query"`
	SpaceID string          `json:"spaceId,omitempty"`
	Filter  json.RawMessage `json:"filter,omitempty"`
	query.Page
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := filter.Parse(req.Filter)
	if err != nil {
		s.fail(w, r, &badRequest{err})
		return
	}
	views, err := s.exec.Search(r.Context(), query.SearchOptions{
		Query:   req.Query,
		SpaceID: req.SpaceID,
		Filter:  f,
		Page:    req.Page,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, views)
}
