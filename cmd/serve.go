package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ohmpatel46/spotify-wrapped/internal/fixtures"
	"github.com/ohmpatel46/spotify-wrapped/internal/server"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the tool server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := listenAddr(r.config.Server, cmd)

	engine, err := r.engine(ctx, !cmd.Bool("no-ledger"))
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shared.WithLogger(r.logger, "server", "tools")
	logger.Info("starting tool server", "provider", r.provider.Name(), "base_url", r.config.Provider.BaseURL)
	return server.Serve(ctx, addr, server.NewRouter(engine, logger), logger, nil)
}

// Fixtures runs the fixture-backed provider API until interrupted.
func (r *Runner) Fixtures(ctx context.Context, cmd *cli.Command) error {
	addr := listenAddr(r.config.Fixtures, cmd)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shared.WithLogger(r.logger, "server", "fixtures")

	router := server.NewBasicRouter()
	router.Use(server.Recover(logger), server.Logging(logger))
	router.Handler(fixtures.NewHandler(logger))

	logger.Info("serving fixtures", "base_url", fmt.Sprintf("http://%s%s", addr, fixtures.Prefix))
	return server.Serve(ctx, addr, router, logger, nil)
}

// Tools prints the tool catalog with argument schemas.
func (r *Runner) Tools(ctx context.Context, cmd *cli.Command) error {
	return r.writeJSON(server.Tools(), true)
}

// listenAddr applies --host and --port over cfg.
func listenAddr(cfg shared.ServerConfig, cmd *cli.Command) string {
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	return cfg.Addr()
}
