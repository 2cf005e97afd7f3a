package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brand-registry/backend/internal/common/bootstrap"
	"github.com/brand-registry/backend/internal/common/config"
	srv "github.com/brand-registry/backend/internal/common/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}
	defer app.Log.Close()

	serverConfig := srv.DefaultServerConfig(app.Config.HTTPPort)
	server := srv.NewServer(serverConfig, app.Handler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			app.Log.Info("api service: closing database pool")
			app.Pool.Close()
			return nil
		},
	}

	if err := srv.Run(ctx, server, serverConfig, app.Log, "api", shutdownHooks...); err != nil {
		app.Log.Errorf("%v", err)
		app.Pool.Close()
		os.Exit(1)
	}
}
