package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/source"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import JSON, JSONL or Excel files into the logbook",
	Long: "Import a file or every .json, .jsonl and .xlsx file under a directory. " +
		"Files unchanged since the last import are skipped.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Reimport files even when unchanged")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", args[0])
	}
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 30))
	}

	res, err := source.Import(cmd.Context(), st, args[0], flagVehicle, flagImportForce, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && res.TotalFiles > 0 {
		fmt.Fprintln(os.Stderr)
	}

	e.log.WithFields(logrus.Fields{
		"files":     res.TotalFiles,
		"imported":  res.Imported,
		"unchanged": res.Unchanged,
		"skipped":   res.Skipped,
	}).Info("import finished")

	if res.TotalFiles == 0 {
		fmt.Println("\n  No importable files found.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Import", "Count"},
		Rows: [][]string{
			{"Files", cli.FormatNumber(int64(res.TotalFiles))},
			{"Imported", cli.FormatNumber(int64(res.Imported))},
			{"Unchanged", cli.FormatNumber(int64(res.Unchanged))},
			{"---"},
			{"Logs", cli.FormatNumber(int64(len(res.Logs)))},
			{"Purchases", cli.FormatNumber(int64(len(res.Purchases)))},
			{"Maintenance", cli.FormatNumber(int64(len(res.Maintenance)))},
			{"---"},
			{"Skipped records", cli.FormatNumber(int64(res.Skipped))},
			{"Bad lines", cli.FormatNumber(int64(res.ParseErrors))},
		},
	}))

	if res.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be imported\n", res.FileErrors)
	}
	return nil
}
