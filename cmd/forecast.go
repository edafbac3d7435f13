package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
)

var flagForecastJSON bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Refuel, range, maintenance and spend forecasts",
	RunE:  runForecast,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Rule-based observations about recent driving",
	RunE:  runInsights,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagForecastJSON, "json", false, "Print the outlook as JSON")
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(insightsCmd)
}

func loadOutlook(cmd *cobra.Command) (*env, model.Outlook, bool, error) {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return nil, model.Outlook{}, false, err
	}
	if emptyLogbook(lb) {
		return e, model.Outlook{}, false, nil
	}
	out := e.forecaster().Outlook(lb.Logs, lb.Purchases, lb.Maintenance, e.cfg.Budget.Monthly)
	return e, out, true, nil
}

func runForecast(cmd *cobra.Command, _ []string) error {
	e, out, ok, err := loadOutlook(cmd)
	if err != nil || !ok {
		return err
	}

	if flagForecastJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	cur := e.currency()
	na := cli.FormatConsumption(0)
	rows := [][]string{
		{"Odometer", cli.FormatKm(out.Odometer)},
		{"---"},
	}

	if fc := out.NextRefuel; fc != nil {
		when := cli.FormatDate(fc.Date) + "  (" + cli.FormatDays(fc.DaysRemaining) + ")"
		if fc.Fallback {
			when += "  default interval"
		}
		rows = append(rows, []string{"Next refuel", when})
	} else {
		rows = append(rows, []string{"Next refuel", na})
	}

	if fc := out.TankEmpty; fc != nil {
		rows = append(rows,
			[]string{"Tank empty", cli.FormatDate(fc.Date) + "  (" + cli.FormatDays(fc.DaysRemaining) + ")"},
			[]string{"Range", fmt.Sprintf("%s on %s", cli.FormatKm(fc.RangeKm), cli.FormatLiters(fc.RemainingLiters))},
		)
	} else {
		rows = append(rows, []string{"Tank empty", na})
	}

	if fc := out.Maintenance; fc != nil {
		rows = append(rows, []string{"Next service", fmt.Sprintf("%s %s  (%s)",
			fc.Title, cli.FormatDate(fc.Date), cli.FormatKm(fc.RemainingKm))})
	} else {
		rows = append(rows, []string{"Next service", na})
	}

	rows = append(rows, []string{"---"})
	if fc := out.MonthEnd; fc != nil {
		rows = append(rows,
			[]string{"Spent this month", cli.FormatMoney(fc.SpentSoFar, cur)},
			[]string{"Month-end", cli.FormatMoney(fc.Projected, cur)},
		)
		if fc.Budget != nil {
			status := "within budget"
			switch {
			case fc.OverBudget:
				status = "over budget"
			case fc.NearBudget:
				status = fmt.Sprintf("%.0f%% used", fc.UsedPct)
			}
			rows = append(rows, []string{"Budget", cli.FormatMoney(*fc.Budget, cur) + "  " + status})
		}
	} else {
		rows = append(rows, []string{"Month-end", na})
	}

	if fc := out.YearEnd; fc != nil {
		rows = append(rows,
			[]string{fmt.Sprintf("%d so far", fc.Year), cli.FormatMoney(fc.YTDCost, cur)},
			[]string{fmt.Sprintf("%d projected", fc.Year), cli.FormatMoney(fc.ProjectedCost, cur)},
			[]string{"Projected distance", cli.FormatKm(fc.ProjectedDistance)},
		)
		if fc.ChangeVsLastYear != nil {
			rows = append(rows, []string{"vs last year", cli.FormatPercentDelta(*fc.ChangeVsLastYear)})
		}
	} else {
		rows = append(rows, []string{"Year-end", na})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("FORECAST"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Estimate", "Value"},
		Rows:    rows,
	}))
	return nil
}

func runInsights(cmd *cobra.Command, _ []string) error {
	_, out, ok, err := loadOutlook(cmd)
	if err != nil || !ok {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("INSIGHTS"))
	fmt.Println()
	if len(out.Insights) == 0 {
		fmt.Println("  Nothing notable right now. Keep logging!")
		return nil
	}
	for _, in := range out.Insights {
		fmt.Println(cli.RenderInsight(in))
	}
	return nil
}
