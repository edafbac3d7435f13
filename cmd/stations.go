package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Fuel price statistics per station",
	RunE:  runStations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
}

func runStations(cmd *cobra.Command, _ []string) error {
	e, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}

	purchases := lb.Purchases
	if flagYear > 0 {
		purchases = pipeline.FilterByYear(purchases, flagYear)
	}
	stations := pipeline.AggregateStations(purchases)
	if len(stations) == 0 {
		fmt.Println("\n  No fuel purchases recorded.")
		return nil
	}

	cur := e.currency()
	fmt.Println()
	fmt.Println(cli.RenderTitle("STATIONS  cheapest first"))
	fmt.Println()

	rows := make([][]string, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, []string{
			s.Station,
			cli.FormatNumber(int64(s.Purchases)),
			cli.FormatLiters(s.Liters),
			cli.FormatPrice(s.AvgPrice, cur),
			cli.FormatPrice(s.MinPrice, cur),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Station", "Fills", "Liters", "Avg Price", "Min Price"},
		Rows:    rows,
	}))
	return nil
}
