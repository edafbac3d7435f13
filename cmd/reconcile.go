package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

var flagReconcileDryRun bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair log fuel prices from the purchase history",
	RunE:  runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&flagReconcileDryRun, "dry-run", false, "List repairs without writing them")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := loadEnv()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	lb, err := st.LoadLogbook(ctx, flagVehicle)
	if err != nil {
		return fmt.Errorf("loading logbook: %w", err)
	}

	repairs := pipeline.FindPriceRepairs(lb.Logs, lb.Purchases)
	if len(repairs) == 0 {
		fmt.Println("\n  All log prices match the purchase history.")
		return nil
	}

	cur := e.currency()
	rows := make([][]string, 0, len(repairs))
	for _, r := range repairs {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			cli.FormatPrice(r.OldPrice, cur),
			cli.FormatPrice(r.NewPrice, cur),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%d stale prices", len(repairs)),
		Headers: []string{"Date", "Logged", "Purchase"},
		Rows:    rows,
	}))

	if flagReconcileDryRun {
		fmt.Println("\n  Dry run, nothing written.")
		return nil
	}

	repaired, changed := pipeline.RepairPrices(lb.Logs, lb.Purchases)
	if err := st.ReplaceLogs(ctx, flagVehicle, repaired); err != nil {
		return fmt.Errorf("writing repaired logs: %w", err)
	}
	e.log.WithFields(logrus.Fields{"changed": changed, "vehicle": flagVehicle}).Info("prices reconciled")
	fmt.Printf("\n  Repaired %d logs.\n", changed)
	return nil
}
