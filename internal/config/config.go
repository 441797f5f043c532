// Package config loads kgq configuration from CUE files.
//
// The embedded schema supplies defaults and constraints; an optional user
// file is unified with it, checked for concreteness and decoded into Config.
package config

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/kgraph/internal/store"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration.
type Config struct {
	Database Database `json:"database"`
	Server   Server   `json:"server"`
	Log      Log      `json:"log"`
}

// Database configures the value store.
type Database struct {
	Path          string `json:"path"`
	MaxOpenConns  int    `json:"max_open_conns"`
	BusyTimeoutMS int    `json:"busy_timeout_ms"`
}

// Server configures the HTTP surface.
type Server struct {
	Listen string `json:"listen"`
}

// Log configures the process logger.
type Log struct {
	Level  string `json:"level"`  // debug | info | warn | error
	Format string `json:"format"` // text | json
}

// Error is a configuration problem, with the CUE position when known.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: config: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// Default returns the schema defaults.
func Default() (*Config, error) {
	return Parse(nil, "")
}

// Load reads the CUE file at path and unifies it with the schema. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse unifies CUE source with the schema and decodes the result.
// filename is used in error positions.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config"))

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}
	return &cfg, nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}
	first := errs[0]
	cfgErr := &Error{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}

// StoreOptions converts the database section to store options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		MaxOpenConns: c.Database.MaxOpenConns,
		BusyTimeout:  time.Duration(c.Database.BusyTimeoutMS) * time.Millisecond,
	}
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds a logger writing to w in the configured format.
// verbose forces debug level.
func (c *Config) Logger(w io.Writer, verbose bool) *slog.Logger {
	level := c.Level()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
