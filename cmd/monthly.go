package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Calendar-month totals for one year",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}
	if emptyLogbook(lb) {
		return nil
	}

	year := e.year()
	months := pipeline.AggregateMonths(lb.Logs, lb.Purchases, year)
	cur := e.currency()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY  %d", year)))
	fmt.Println()

	var rows [][]string
	costs := make([]float64, 0, len(months))
	var totalKm, totalCost, totalSpent float64
	for _, m := range months {
		costs = append(costs, m.Cost)
		if m.Entries == 0 && m.Spent == 0 {
			continue
		}
		totalKm += m.Distance
		totalCost += m.Cost
		totalSpent += m.Spent
		rows = append(rows, []string{
			m.Month.Format("Jan"),
			cli.FormatKm(m.Distance),
			cli.FormatLiters(m.FuelLiters),
			cli.FormatMoney(m.Cost, cur),
			cli.FormatMoney(m.Spent, cur),
		})
	}
	if len(rows) == 0 {
		fmt.Printf("  No entries in %d.\n", year)
		return nil
	}
	rows = append(rows, []string{"---"}, []string{
		"Total",
		cli.FormatKm(totalKm),
		"",
		cli.FormatMoney(totalCost, cur),
		cli.FormatMoney(totalSpent, cur),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Distance", "Fuel", "Cost", "Bought"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Cost by month  %s\n", cli.RenderSparkline(costs))
	return nil
}
