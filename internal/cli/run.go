package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/sheetshift/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run <source.xlsx> [arg...]",
	Short: "Run a migration against a source workbook",
	Long: `Run a migration against a source workbook.

Positional arguments after the source path are the values for the config's
declared arguments, in declaration order. Additional input workbooks are
attached with repeated --add flags; the first --add is _Add0, the second
_Add1, and so on.

Examples:
  # Plain migration
  sheetshift run -c migration.json -o out.xlsx people.xlsx

  # One additional input and two declared arguments
  sheetshift run -c migration.json -o out.xlsx --add lookup.xlsx people.xlsx 2026 north`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		outputPath, _ := cmd.Flags().GetString("output")
		extraPaths, _ := cmd.Flags().GetStringArray("add")
		logFormat, _ := cmd.Flags().GetString("log-format")
		logLevel, _ := cmd.Flags().GetString("log-level")

		appConfig, err := app.NewConfig(app.Config{
			ConfigPath: configPath,
			SourcePath: args[0],
			OutputPath: outputPath,
			ExtraPaths: extraPaths,
			RunArgs:    args[1:],
			LogFormat:  logFormat,
			LogLevel:   logLevel,
		})
		if err != nil {
			return err
		}

		return app.NewApp(os.Stderr, appConfig).Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "Path to the migration config file.")
	runCmd.Flags().StringP("output", "o", "", "Path the output workbook is written to.")
	runCmd.Flags().StringArray("add", nil, "Additional input workbook. Repeat for _Add0, _Add1, ...")
	_ = runCmd.MarkFlagRequired("config")
	_ = runCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(runCmd)
}
