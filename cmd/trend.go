package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Compare this week and month with the previous ones",
	RunE:  runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, _ []string) error {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}
	if emptyLogbook(lb) {
		return nil
	}

	now := e.now()
	fmt.Println()
	fmt.Println(cli.RenderTitle("TRENDS"))
	fmt.Println()

	printTrend("Week vs previous week", pipeline.CompareWindows(lb.Logs, pipeline.Week(now)), e.currency())
	fmt.Println()
	printTrend("Month vs previous month", pipeline.CompareWindows(lb.Logs, pipeline.Month(now)), e.currency())
	fmt.Println()
	printTrend(fmt.Sprintf("Last %dd vs the %dd before", flagDays, flagDays),
		pipeline.CompareWindows(lb.Logs, pipeline.TrailingDays(now, flagDays)), e.currency())
	return nil
}

func printTrend(title string, results []model.TrendResult, cur string) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			string(r.Field),
			cli.FormatTrendValue(r.Field, r.Current, cur),
			cli.FormatTrendValue(r.Field, r.Previous, cur),
			cli.RenderTrend(r),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Field", "Current", "Previous", "Change"},
		Rows:    rows,
	}))
}
