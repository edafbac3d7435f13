package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/report"
)

var flagReportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an HTML report with interactive charts",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "fuellog-report.html", "Output HTML file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}
	if emptyLogbook(lb) {
		return nil
	}

	f, err := os.Create(flagReportOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagReportOut, err)
	}
	defer f.Close()

	title := "fuellog report"
	if flagVehicle != "" {
		title += " · " + flagVehicle
	}
	err = report.Render(f, report.Input{
		Title:     title,
		Currency:  e.currency(),
		Logs:      lb.Logs,
		Purchases: lb.Purchases,
		Window:    pipeline.TrailingDays(e.now(), flagDays),
		Year:      e.year(),
	})
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	e.log.WithField("path", flagReportOut).Info("report written")
	fmt.Printf("\n  Report written to %s\n", flagReportOut)
	return nil
}
