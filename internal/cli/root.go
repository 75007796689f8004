// Package cli defines the command-line surface of sheetshift. Commands
// translate flags into an app configuration and delegate to internal/app.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sheetshift",
	Short: "Declarative spreadsheet data migration",
	Long: `Sheetshift migrates tabular data between spreadsheet layouts.

A migration is described by a config file in relaxed JSON: it declares the
output sheets and, per column, where the data comes from and how it is
transformed (copied, mapped, filled, indexed, or computed by a script).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	rootCmd.PersistentFlags().String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
}

// Execute runs the CLI and renders any failure to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errColor := color.New(color.FgRed, color.Bold)
		errColor.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
