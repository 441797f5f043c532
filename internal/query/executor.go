package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/kgraph/internal/metric"
	"github.com/roach88/kgraph/internal/querysql"
	"github.com/roach88/kgraph/internal/store"
)

// Executor runs read queries against a store.
//
// Executor holds no mutable state of its own and is safe for concurrent use;
// concurrency is bounded by the store's connection pool.
type Executor struct {
	store    *store.Store
	compiler *querysql.SQLCompiler
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for statement tracing and failures.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(x *Executor) {
		if l != nil {
			x.logger = l
		}
	}
}

// WithMetrics records every operation in m.
func WithMetrics(m *metric.Metrics) Option {
	return func(x *Executor) {
		x.metrics = m
	}
}

// New creates an Executor over s.
func New(s *store.Store, opts ...Option) *Executor {
	x := &Executor{
		store:    s,
		compiler: querysql.NewSQLCompiler(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Statement is a rendered SQL statement with its bound arguments.
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

// run compiles q, executes it with fetch (one of the store's typed Query*
// methods) and records the outcome.
// Store failures are wrapped in *StorageError.
func run[T any](ctx context.Context, x *Executor, op string, q querysql.Select,
	fetch func(context.Context, string, ...any) ([]T, error)) ([]T, error) {
	stmt, err := x.compile(op, q)
	if err != nil {
		return nil, err
	}

	x.logger.Debug("executing query",
		"op", op,
		"sql", stmt.SQL,
		"args", len(stmt.Args),
	)

	start := time.Now()
	rows, err := fetch(ctx, stmt.SQL, stmt.Args...)
	x.metrics.RecordQuery(op, time.Since(start), len(rows), err)
	if err != nil {
		x.logger.Error("query failed",
			"op", op,
			"error", err,
		)
		return nil, &StorageError{Op: op, Err: err}
	}
	return rows, nil
}

func (x *Executor) compile(op string, q querysql.Select) (Statement, error) {
	sqlText, args, err := x.compiler.Compile(q)
	if err != nil {
		return Statement{}, fmt.Errorf("%s: compile: %w", op, err)
	}
	if args == nil {
		args = []any{}
	}
	return Statement{SQL: sqlText, Args: args}, nil
}

// paginate resolves p into q.
func paginate(q *querysql.Select, p Page) error {
	limit, offset, err := p.resolve()
	if err != nil {
		return err
	}
	q.Limit = limit
	q.Offset = offset
	return nil
}

// first returns a pointer to the first element of rows, or nil.
func first[T any](rows []T) *T {
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

// single is the Page used by one-row lookups.
var single = NewPage(1, 0)
