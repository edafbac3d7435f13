package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily distance and cost table",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}
	if emptyLogbook(lb) {
		return nil
	}

	days := pipeline.AggregateDays(lb.Logs, lb.Purchases, pipeline.TrailingDays(e.now(), flagDays))
	if len(days) == 0 {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY  Last %dd", flagDays)))
	fmt.Println()

	cur := e.currency()
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			d.Date.Format("Mon"),
			cli.FormatKm(d.Distance),
			cli.FormatLiters(d.FuelLiters),
			cli.FormatMoney(d.Cost, cur),
			cli.FormatMoney(d.Spent, cur),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Distance", "Fuel", "Cost", "Bought"},
		Rows:    rows,
	}))
	return nil
}
