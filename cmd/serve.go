package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"datamilo/query"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var debugCORS bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

Routes:
  POST /generate-query  {"prompt": "..."}
  GET  /templates
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, rootOpts, debugCORS)
		},
	}
	cmd.Flags().BoolVar(&debugCORS, "debug-cors", false, "log CORS decisions")
	return cmd
}

func runServer(ctx context.Context, opts *RootOptions, debugCORS bool) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics := query.NewMetrics()
	router := query.NewRouter(query.NewHandler(a.assistant, metrics, a.log), metrics)
	server := query.NewServer(a.cfg.Server.Addr(), a.cfg.Server.AllowedOrigins, router, debugCORS)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", map[string]interface{}{
			"addr":     server.Addr,
			"driver":   a.cfg.Database.Driver,
			"provider": a.cfg.LLM.Provider,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
