// Package main is the entry point for the taskwiz CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskwiz/internal/backend/restapi"
	"taskwiz/internal/cli"
	"taskwiz/internal/commands"
	"taskwiz/internal/config"
	"taskwiz/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return restapi.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
