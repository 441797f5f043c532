package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/kgraph/internal/httpapi"
	"github.com/roach88/kgraph/internal/metric"
	"github.com/roach88/kgraph/internal/query"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string // overrides server.listen from the config file
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Long: `Serve the JSON query API with /health and /metrics endpoints.

The server stops gracefully on SIGINT or SIGTERM.

Example:
  kgq serve --db graph.db --listen :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")
	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	reg := metric.NewRegistry()
	e, err := openEnv(opts.RootOptions, cmd, true, query.WithMetrics(reg.Metrics))
	if err != nil {
		return err
	}
	defer e.Close()

	if err := reg.RegisterDB(e.store.DB(), "kgraph"); err != nil {
		return e.fail(WrapExitError(ExitFailure, ErrCodeGeneric, "failed to register db metrics", err))
	}

	listen := e.cfg.Server.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(e.exec,
		httpapi.WithLogger(e.logger),
		httpapi.WithMetricsHandler(reg.Handler()),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s. Press Ctrl-C to stop.\n", e.cfg.Database.Path, listen)

	if err := srv.ListenAndServe(ctx, listen); err != nil && !errors.Is(err, context.Canceled) {
		return e.fail(WrapExitError(ExitFailure, ErrCodeGeneric, "server error", err))
	}
	e.logger.Info("server stopped gracefully")
	return nil
}
