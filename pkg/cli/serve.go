package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskhub/pkg/controller/http"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/secmon-lab/riskhub/pkg/utils/errutil"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
	"github.com/secmon-lab/riskhub/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var appCfg config.App
	var repoCfg config.Repository
	var authCfg config.Auth
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKHUB_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			sentryCfg.SetRelease(version)
			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			authUC, err := authCfg.Configure(ctx, repo)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			uc := usecase.New(repo,
				usecase.WithAuth(authUC),
				usecase.WithRiskConfig(cfg.ToDomainRiskConfig()),
				usecase.WithVoteOptions(cfg.VoteOptions()...),
			)

			votesPerMinute := cfg.VotesPerMinute(httpctrl.DefaultVotesPerMinute)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithVotesPerMinute(votesPerMinute)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			logging.Default().Info("Starting HTTP server",
				"addr", addr,
				"config", cfg,
				"auth", authCfg,
				"sentry", sentryCfg,
				"votes_per_minute", votesPerMinute,
			)
			return runServer(ctx, server, sigCh)
		},
	}
}

// runServer serves until the listener fails or a signal arrives, then shuts down
// gracefully. Listener and shutdown failures are reported through errutil.
func runServer(ctx context.Context, server *http.Server, sigCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
	}()

	select {
	case err := <-errCh:
		return errutil.Handle(ctx, err, "HTTP server stopped")
	case sig := <-sigCh:
		logging.Default().Info("Received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return errutil.Handle(ctx, goerr.Wrap(err, "failed to shutdown server gracefully"), "HTTP server shutdown failed")
		}

		logging.Default().Info("Server shutdown completed")
		return nil
	}
}
