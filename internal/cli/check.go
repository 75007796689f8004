package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vk/sheetshift/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compile a migration config without running it",
	Long: `Compile a migration config without running it.

The config is parsed and validated, and a summary of the output layout and
the declared arguments is printed. A schema or syntax problem is reported
with its location.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		tree, err := config.Compile(raw)
		if err != nil {
			return err
		}
		printSummary(cmd, tree)
		return nil
	},
}

func printSummary(cmd *cobra.Command, tree *config.Tree) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s config is valid\n", green("✓"))
	if tree.AdditionalInputs > 0 {
		fmt.Fprintf(out, "  additional inputs: %d\n", tree.AdditionalInputs)
	}
	for i, arg := range tree.Args {
		line := fmt.Sprintf("  arg %d: %s", i, arg.Description)
		if arg.Type == config.ArgChoice {
			line += dim(fmt.Sprintf(" (one of %v)", arg.Options))
		}
		fmt.Fprintln(out, line)
	}
	for _, sheet := range tree.Sheets {
		fmt.Fprintf(out, "  sheet %s: %d column(s)\n", cyan(sheet.Name), len(sheet.Columns))
		for _, col := range sheet.Columns {
			fmt.Fprintf(out, "    %-24s %s\n", col.Title, dim(col.Kind.String()))
		}
	}
}

func init() {
	checkCmd.Flags().StringP("config", "c", "", "Path to the migration config file.")
	_ = checkCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(checkCmd)
}
