package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Dashboard totals with this week and this month",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}
	if emptyLogbook(lb) {
		return nil
	}

	cur := e.currency()
	year := flagYear
	dash := pipeline.Dashboard(lb.Logs, lb.Purchases, year)

	now := e.now()
	week := pipeline.Aggregate(lb.Logs, pipeline.Week(now))
	month := pipeline.Aggregate(lb.Logs, pipeline.Month(now))
	trailing := pipeline.Aggregate(lb.Logs, pipeline.TrailingDays(now, flagDays))
	monthSpend := pipeline.AggregatePurchases(lb.Purchases, pipeline.Month(now))
	recent := [][]string{
		periodRow("This week", week, cur),
		periodRow("This month", month, cur),
		periodRow(fmt.Sprintf("Last %dd", flagDays), trailing, cur),
	}
	if w, ok := pipeline.SinceLastFullTank(lb.Logs, lb.Purchases, now); ok {
		recent = append(recent, periodRow("Since last fill", pipeline.Aggregate(lb.Logs, w), cur))
	}

	title := "FUEL LOG  All time"
	if year > 0 {
		title = fmt.Sprintf("FUEL LOG  %d", year)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := [][]string{
		{"Logs", cli.FormatNumber(int64(dash.LogCount))},
		{"Purchases", cli.FormatNumber(int64(dash.PurchaseCount))},
		{"Odometer", cli.FormatKm(pipeline.CurrentOdometer(lb.Logs, lb.Purchases))},
		{"---"},
		{"Total Distance", cli.FormatKm(dash.TotalDistance)},
		{"Total Cost", cli.FormatMoney(dash.TotalCost, cur)},
		{"Cost/km", cli.FormatPrice(dash.AvgCostPerKm, cur)},
		{"Consumption", cli.FormatConsumption(dash.AvgConsumption)},
		{"---"},
		{"Liters Bought", cli.FormatLiters(dash.TotalLiters)},
		{"Avg Price", cli.FormatPrice(dash.WeightedAvgPrice, cur)},
		{"Last Price", cli.FormatPrice(dash.LastFuelPrice, cur)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent",
		Headers: []string{"Period", "Distance", "Cost", "Consumption", "Entries"},
		Rows:    recent,
	}))

	if monthSpend.Count > 0 {
		fmt.Printf("\n  Spent this month: %s on %s\n",
			cli.FormatMoney(monthSpend.Spent, cur), cli.FormatLiters(monthSpend.Liters))
	}
	if p, ok := pipeline.AsOf(pipeline.SortPurchases(lb.Purchases), model.PurchaseEvent.When, now); ok {
		fmt.Printf("  Last fill-up: %s, %s at %s\n",
			p.Date.Format("Jan 2"), cli.FormatLiters(p.Liters), cli.FormatPrice(p.PricePerLiter, cur))
	}

	if sc, ok := pipeline.Score(lb.Logs, lb.Purchases, now); ok {
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Driving score  %s  %d/100", sc.Grade, sc.Overall),
			Headers: []string{"Efficiency", "Consistency", "Activity", "Cost"},
			Rows: [][]string{{
				strconv.Itoa(sc.Efficiency),
				strconv.Itoa(sc.Consistency),
				strconv.Itoa(sc.Activity),
				strconv.Itoa(sc.CostAwareness),
			}},
		}))
	}
	return nil
}

func periodRow(label string, agg model.PeriodAggregate, cur string) []string {
	return []string{
		label,
		cli.FormatKm(agg.Distance),
		cli.FormatMoney(agg.Cost, cur),
		cli.FormatConsumption(agg.AvgConsumption),
		cli.FormatNumber(int64(agg.EntryCount)),
	}
}
