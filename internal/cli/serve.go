package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/infra/fakeapi"
)

const shutdownTimeout = 5 * time.Second

// newServeFakeCommand creates the serve-fake command.
// It needs no container so it works before any config exists.
func newServeFakeCommand() *cobra.Command {
	var opts struct {
		Addr  string
		Auth  bool
		Empty bool
	}

	cmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Run an in-memory API server for local use",
		Long: `Run an in-memory implementation of the task API.

State lives only in memory and is lost on exit. Unless --empty is given the
server starts with demo data: users alice and bob (password "demo"), a team
and a few tasks in every column.

Examples:
  taskdesk serve-fake
  TASKDESK_API_URL=http://localhost:8000 taskdesk board`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

			var serverOpts []fakeapi.Option
			if opts.Auth {
				serverOpts = append(serverOpts, fakeapi.WithAuth())
			}
			srv := fakeapi.New(logger, serverOpts...)
			if !opts.Empty {
				srv.SeedDemo()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := srv.Echo()
			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(opts.Addr)
			}()
			logger.WithField("addr", opts.Addr).Info("fake API listening")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			logger.Info("fake API stopped")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Addr, "addr", ":8000", "Listen address")
	f.BoolVar(&opts.Auth, "auth", false, "Require a bearer token on every request except login and register")
	f.BoolVar(&opts.Empty, "empty", false, "Start without demo data")

	return cmd
}
