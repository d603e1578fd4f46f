package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	network *config.Model
}

// NewApp is the constructor for the main application. It configures an
// isolated logger and loads the network through loader. A network that
// cannot be loaded is a fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	network, err := loader.Load(ctx, appConfig.NetworkPath)
	if err != nil {
		panic(fmt.Errorf("failed to load network: %w", err))
	}
	logger.Debug("Network loaded and translated into unified model.")

	return &App{
		outW:    outW,
		logger:  logger,
		network: network,
	}
}

// Network returns the loaded network. This is primarily for testing.
func (a *App) Network() *config.Model {
	return a.network
}
