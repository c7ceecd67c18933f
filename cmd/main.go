package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yungbote/skugen-backend/internal/app"
	"github.com/yungbote/skugen-backend/internal/config"
	"github.com/yungbote/skugen-backend/internal/platform/shutdown"
)

func main() {
	cfg, usedPath, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if usedPath != "" {
		a.Log.Info("Loaded config file", "path", usedPath)
	}
	a.Log.Info("Starting server", "addr", cfg.HTTP.Addr, "storage_driver", cfg.Storage.Driver)
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.Log.Error("Server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Server stopped")
}
