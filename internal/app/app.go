package app

import (
	"io"
	"log/slog"

	"github.com/vk/sheetshift/internal/executor"
	"github.com/vk/sheetshift/internal/hclexpr"
	"github.com/vk/sheetshift/internal/jsengine"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	exec   *executor.Executor
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the default
// script capabilities wired in.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		exec:   executor.New(jsengine.New(), hclexpr.New()),
	}
}
