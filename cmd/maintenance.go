package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/source"
	"github.com/theirongolddev/fuellog/internal/store"
)

var (
	flagMaintTitle      string
	flagMaintInterval   float64
	flagMaintLastKm     float64
	flagMaintNotifyKm   float64
	flagMaintNotifyDays int
	flagMaintDue        string
	flagMaintOdometer   float64
)

var maintenanceCmd = &cobra.Command{
	Use:     "maintenance",
	Aliases: []string{"maint"},
	Short:   "Track recurring service intervals",
	RunE:    runMaintenanceList,
}

var maintenanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance items and their status",
	RunE:  runMaintenanceList,
}

var maintenanceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a maintenance item",
	RunE:  runMaintenanceAdd,
}

var maintenanceDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an item serviced at the current odometer",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaintenanceDone,
}

func init() {
	f := maintenanceAddCmd.Flags()
	f.StringVar(&flagMaintTitle, "title", "", "Item name, e.g. \"Oil change\"")
	f.Float64Var(&flagMaintInterval, "interval-km", 0, "Service interval in km")
	f.Float64Var(&flagMaintLastKm, "last-km", 0, "Odometer at the last service (default current)")
	f.Float64Var(&flagMaintNotifyKm, "notify-km", 1000, "Remind this many km before due")
	f.IntVar(&flagMaintNotifyDays, "notify-days", 0, "Remind this many days before --due")
	f.StringVar(&flagMaintDue, "due", "", "Calendar due date")
	_ = maintenanceAddCmd.MarkFlagRequired("title")
	_ = maintenanceAddCmd.MarkFlagRequired("interval-km")

	maintenanceDoneCmd.Flags().Float64Var(&flagMaintOdometer, "odometer", 0, "Odometer at service (default current)")

	maintenanceCmd.AddCommand(maintenanceListCmd, maintenanceAddCmd, maintenanceDoneCmd)
	rootCmd.AddCommand(maintenanceCmd)
}

func runMaintenanceList(cmd *cobra.Command, _ []string) error {
	_, lb, err := loadLogbook(cmd.Context())
	if err != nil {
		return err
	}
	if len(lb.Maintenance) == 0 {
		fmt.Println("\n  No maintenance items. Add one with `fuellog maintenance add`.")
		return nil
	}

	odo := pipeline.CurrentOdometer(lb.Logs, lb.Purchases)
	rows := make([][]string, 0, len(lb.Maintenance))
	for _, m := range lb.Maintenance {
		due := ""
		if m.DueDate != nil {
			due = m.DueDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			m.ID,
			m.Title,
			cli.FormatKm(m.NextDueKm()),
			cli.FormatKm(m.RemainingKm(odo)),
			due,
			cli.RenderStatus(m.Status(odo)),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MAINTENANCE  at " + cli.FormatKm(odo)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Item", "Due at", "Remaining", "Due date", "Status"},
		Rows:    rows,
	}))
	return nil
}

func runMaintenanceAdd(cmd *cobra.Command, _ []string) error {
	if flagMaintInterval <= 0 {
		return errors.New("--interval-km must be positive")
	}
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

	last, err := resolveOdometer(ctx, st, flagMaintLastKm)
	if err != nil {
		return err
	}

	item := model.MaintenanceItem{
		ID:               uuid.NewString()[:8],
		VehicleID:        flagVehicle,
		Title:            flagMaintTitle,
		IntervalKm:       flagMaintInterval,
		LastServiceKm:    last,
		NotifyBeforeKm:   flagMaintNotifyKm,
		NotifyBeforeDays: flagMaintNotifyDays,
	}
	if flagMaintDue != "" {
		due, err := source.ParseDate(flagMaintDue)
		if err != nil {
			return fmt.Errorf("invalid --due: %w", err)
		}
		item.DueDate = &due
	}

	if err := st.SaveMaintenance(ctx, item); err != nil {
		return fmt.Errorf("saving maintenance item: %w", err)
	}
	fmt.Printf("\n  Added %s (%s), next due at %s\n", item.Title, item.ID, cli.FormatKm(item.NextDueKm()))
	return nil
}

func runMaintenanceDone(cmd *cobra.Command, args []string) error {
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

	odo, err := resolveOdometer(ctx, st, flagMaintOdometer)
	if err != nil {
		return err
	}
	if err := st.MarkServiced(ctx, args[0], odo); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no maintenance item %q", args[0])
		}
		return err
	}

	item, err := st.GetMaintenance(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("\n  %s serviced at %s, next due at %s\n",
		item.Title, cli.FormatKm(odo), cli.FormatKm(item.NextDueKm()))
	return nil
}
