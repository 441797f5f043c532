package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/kgraph/internal/config"
	"github.com/roach88/kgraph/internal/query"
	"github.com/roach88/kgraph/internal/store"
)

// env is what a command needs to talk to a database.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	exec   *query.Executor
	out    *OutputFormatter
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database.Path = opts.Database
	}
	return cfg, nil
}

// newFormatter builds the output formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger builds the process logger. Logs always go to the error writer
// so JSON output stays clean.
func newLogger(cfg *config.Config, opts *RootOptions, w io.Writer) *slog.Logger {
	return cfg.Logger(w, opts.Verbose)
}

// openEnv loads config and opens the store. When mustExist is set, a
// missing database file is a command error instead of being created.
func openEnv(opts *RootOptions, cmd *cobra.Command, mustExist bool, xopts ...query.Option) (*env, error) {
	out := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, out.Fail(err)
	}
	logger := newLogger(cfg, opts, cmd.ErrOrStderr())

	if mustExist {
		if _, err := os.Stat(cfg.Database.Path); errors.Is(err, os.ErrNotExist) {
			return nil, out.Fail(NewExitError(ExitCommandError, ErrCodeNotFound,
				fmt.Sprintf("database not found: %s", cfg.Database.Path)))
		}
	}

	logger.Debug("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path, cfg.StoreOptions())
	if err != nil {
		return nil, out.Fail(WrapExitError(ExitCommandError, ErrCodeStorage, "failed to open database", err))
	}

	xopts = append([]query.Option{query.WithLogger(logger)}, xopts...)
	return &env{
		cfg:    cfg,
		logger: logger,
		store:  st,
		exec:   query.New(st, xopts...),
		out:    out,
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing database", "error", err)
	}
}

// fail converts an executor error to an ExitError and reports it.
func (e *env) fail(err error) error {
	switch {
	case query.IsInputError(err):
		err = WrapExitError(ExitCommandError, ErrCodeInvalidArgs, "invalid input", err)
	case query.IsStorageError(err):
		err = WrapExitError(ExitFailure, ErrCodeStorage, "query failed", err)
	default:
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			err = WrapExitError(ExitFailure, ErrCodeGeneric, "command failed", err)
		}
	}
	return e.out.Fail(err)
}

// notFound reports a missing record.
func (e *env) notFound(kind, id string) error {
	return e.out.Fail(NewExitError(ExitFailure, ErrCodeNotFound, fmt.Sprintf("%s %q not found", kind, id)))
}
