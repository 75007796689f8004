package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/sheetshift/internal/config"
	"github.com/vk/sheetshift/internal/ctxlog"
	"github.com/vk/sheetshift/internal/dataset"
	"github.com/vk/sheetshift/internal/xlsxio"
)

// Run executes the migration described by the app's configuration: it
// compiles the config file, loads the workbooks, runs the executor, and
// writes the output workbook.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	tree, err := a.loadTree()
	if err != nil {
		return err
	}
	a.logger.Info("Migration config compiled.",
		"sheets", len(tree.Sheets),
		"args", len(tree.Args),
		"additional_inputs", tree.AdditionalInputs,
	)

	src, err := xlsxio.ReadFile(a.config.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to load source workbook: %w", err)
	}
	a.logger.Debug("Source workbook loaded.", "path", a.config.SourcePath, "sheets", len(src.Sheets()))

	extras := make([]*dataset.Dataset, len(a.config.ExtraPaths))
	for i, path := range a.config.ExtraPaths {
		extras[i], err = xlsxio.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load additional input %d: %w", i, err)
		}
		a.logger.Debug("Additional input loaded.", "ordinal", i, "path", path)
	}

	a.logger.Info("Starting migration run.")
	out, err := a.exec.Run(ctx, tree, src, extras, a.config.RunArgs)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	a.logger.Info("Migration finished.", "sheets", len(out.Sheets()))

	if err := xlsxio.WriteFile(a.config.OutputPath, out); err != nil {
		return fmt.Errorf("failed to write output workbook: %w", err)
	}
	a.logger.Info("Output workbook written.", "path", a.config.OutputPath)

	a.logger.Debug("App.Run method finished.")
	return nil
}

// LoadTree compiles the configured migration file without running it. It
// backs the config-checking entrypoint.
func (a *App) LoadTree() (*config.Tree, error) {
	return a.loadTree()
}

func (a *App) loadTree() (*config.Tree, error) {
	raw, err := os.ReadFile(a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration config: %w", err)
	}
	tree, err := config.Compile(raw)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Migration config parsed and validated.", "path", a.config.ConfigPath)
	return tree, nil
}
