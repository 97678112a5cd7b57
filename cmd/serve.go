package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubecorr/internal/server"
	"github.com/desertthunder/tubecorr/internal/shared"
)

// Serve exposes the stored results over HTTP until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	db, store, runs, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewRouter(server.NewAPI(store, runs, logger), logger)
	return server.Serve(ctx, addr, router, logger)
}
