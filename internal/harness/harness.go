package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/fixture"
	"github.com/roach88/kgraph/internal/query"
	"github.com/roach88/kgraph/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every case matched its expectation.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// CaseResult is what one case returned.
type CaseResult struct {
	Name string   `json:"name"`
	IDs  []string `json:"ids"`

	// Error is the kind of error the query failed with, if any.
	Error string `json:"error,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Harness runs the cases of one scenario against a seeded store.
type Harness struct {
	exec   *query.Executor
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh database in a temporary directory, seeded
// from the scenario fixture. An error is returned only when the scenario
// cannot be set up; case failures are reported in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "kgraph-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "scenario.db"), store.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	fx, err := fixture.Load(scenario.Fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}
	if err := fx.Apply(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to seed fixture: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		exec:   query.New(st, query.WithLogger(logger)),
		logger: logger,
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i, c.Name, err)
		}
		result.Cases = append(result.Cases, cr)
		if aerr := assertCase(c, cr); aerr != nil {
			result.AddError(aerr.Error())
		}
	}
	return result, nil
}

// runCase executes one case. Query errors are classified into the result;
// only malformed case input is returned as an error.
func (h *Harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	page := query.Page{Limit: c.Limit, Offset: c.Offset}

	var ids []string
	var qerr error
	switch c.kind() {
	case QueryEntities:
		f, err := decodeFilter(c.Filter)
		if err != nil {
			return CaseResult{}, err
		}
		views, err := h.exec.Entities(ctx, f, query.EntityOptions{SpaceID: c.Space, Page: page})
		qerr = err
		for _, v := range views {
			ids = append(ids, v.ID)
		}
	case QueryRelations:
		rf, err := decodeRelationFilter(c.Relation)
		if err != nil {
			return CaseResult{}, err
		}
		views, err := h.exec.Relations(ctx, rf, page)
		qerr = err
		for _, v := range views {
			ids = append(ids, v.ID)
		}
	case QuerySearch:
		f, err := decodeFilter(c.Filter)
		if err != nil {
			return CaseResult{}, err
		}
		views, err := h.exec.Search(ctx, query.SearchOptions{
			Query:   c.Term,
			SpaceID: c.Space,
			Filter:  f,
			Page:    page,
		})
		qerr = err
		for _, v := range views {
			ids = append(ids, v.ID)
		}
	}

	cr := CaseResult{Name: c.Name, IDs: []string{}}
	if qerr != nil {
		cr.Error = classify(qerr)
		h.logger.Info("case failed", "case", c.Name, "error", qerr)
		return cr, nil
	}
	if ids != nil {
		cr.IDs = ids
	}
	return cr, nil
}

// classify maps an executor error to its expect_error kind.
func classify(err error) string {
	switch {
	case query.IsInputError(err):
		return ErrorInput
	case query.IsStorageError(err):
		return ErrorStorage
	default:
		return err.Error()
	}
}

// decodeFilter converts a YAML-decoded filter to a filter tree through its
// JSON form. A nil map is the unconstrained filter.
func decodeFilter(m map[string]any) (*filter.Filter, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	return filter.Parse(data)
}

func decodeRelationFilter(m map[string]any) (filter.RelationFilter, error) {
	if m == nil {
		return filter.RelationFilter{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return filter.RelationFilter{}, fmt.Errorf("encode relation filter: %w", err)
	}
	return filter.ParseRelationFilter(data)
}
