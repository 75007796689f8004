package main

import (
	"log/slog"
	"os"

	"github.com/vk/sheetshift/internal/cli"
)

// main is the entrypoint for the sheetshift application.
func main() {
	// Use a minimal logger until the app configures the real one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
