package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/achievement"
	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/source"
	"github.com/theirongolddev/fuellog/internal/store"
)

var (
	flagLogDate        string
	flagLogOdometer    float64
	flagLogDistance    float64
	flagLogConsumption float64
	flagLogPrice       float64
	flagLogRefuel      bool
	flagLogFull        bool
	flagLogStation     string
	flagLogNotes       string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage daily logs",
}

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a daily odometer reading",
	Long: "Record a daily odometer reading. The distance defaults to the difference " +
		"from the previous log and the price to the purchase in effect on that day.",
	RunE: runLogAdd,
}

func init() {
	f := logAddCmd.Flags()
	f.StringVar(&flagLogDate, "date", "", "Log date (default today)")
	f.Float64Var(&flagLogOdometer, "odometer", 0, "Odometer reading in km")
	f.Float64Var(&flagLogDistance, "distance", 0, "Distance driven in km")
	f.Float64Var(&flagLogConsumption, "consumption", 0, "Measured consumption in L/100km")
	f.Float64Var(&flagLogPrice, "price", 0, "Fuel price per liter")
	f.BoolVar(&flagLogRefuel, "refuel", false, "Fuel was bought this day")
	f.BoolVar(&flagLogFull, "full", false, "The tank was filled up")
	f.StringVar(&flagLogStation, "station", "", "Fuel station")
	f.StringVar(&flagLogNotes, "notes", "", "Free-form notes")
	_ = logAddCmd.MarkFlagRequired("odometer")

	logCmd.AddCommand(logAddCmd)
	rootCmd.AddCommand(logCmd)
}

// entryDate parses a --date flag, defaulting to today.
func entryDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	d, err := source.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date: %w", err)
	}
	return d, nil
}

func runLogAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := loadEnv()
	if err != nil {
		return err
	}
	date, err := entryDate(flagLogDate, e.now())
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

	entry := model.LogEntry{
		ID:          uuid.NewString(),
		VehicleID:   flagVehicle,
		Date:        clock.StartOfDay(date),
		Odometer:    flagLogOdometer,
		Distance:    flagLogDistance,
		IsRefuelDay: flagLogRefuel,
		IsFullTank:  flagLogFull,
		FuelPrice:   flagLogPrice,
		Station:     flagLogStation,
		Notes:       flagLogNotes,
	}
	if flagLogConsumption > 0 {
		c := flagLogConsumption
		entry.AvgConsumption = &c
	}

	sorted := pipeline.SortLogs(lb.Logs)
	if entry.Distance == 0 {
		if prev, ok := pipeline.Before(sorted, model.LogEntry.When, entry.Date); ok && entry.Odometer > prev.Odometer {
			entry.Distance = entry.Odometer - prev.Odometer
		}
	}
	if entry.FuelPrice == 0 {
		if p, ok := pipeline.PurchaseAsOf(pipeline.SortPurchases(lb.Purchases), entry.Date); ok {
			entry.FuelPrice = p.PricePerLiter
		}
	}
	entry = pipeline.DeriveLog(entry)

	if err := source.ValidateLog(entry); err != nil {
		return fmt.Errorf("invalid log: %w", err)
	}
	if err := st.SaveLog(ctx, entry); err != nil {
		return fmt.Errorf("saving log: %w", err)
	}

	cur := e.currency()
	fmt.Printf("\n  Logged %s on %s  (%s)\n",
		cli.FormatKm(entry.Distance), cli.FormatDate(entry.Date), cli.FormatMoney(entry.Cost, cur))

	out, err := e.achievements(st).RecordLog(ctx, append(lb.Logs, entry), lb.Purchases)
	if err != nil {
		return err
	}
	printOutcome(out)
	return nil
}

func printOutcome(out achievement.Outcome) {
	fmt.Printf("  +%d XP  level %d  streak %d days\n",
		out.XPGained, out.Stats.Level(), out.Stats.CurrentStreak)
	if out.LeveledUp {
		fmt.Printf("  Level up! You reached level %d.\n", out.Stats.Level())
	}
	for _, b := range out.Unlocked {
		fmt.Println("  Unlocked " + cli.RenderBadge(b))
	}
	for _, c := range out.Completed {
		fmt.Println("  Challenge " + cli.RenderChallenge(c))
	}
}

// resolveOdometer returns v when positive, otherwise the logbook's
// current reading.
func resolveOdometer(ctx context.Context, st *store.Store, v float64) (float64, error) {
	if v > 0 {
		return v, nil
	}
	lb, err := st.LoadLogbook(ctx, flagVehicle)
	if err != nil {
		return 0, fmt.Errorf("loading logbook: %w", err)
	}
	return pipeline.CurrentOdometer(lb.Logs, lb.Purchases), nil
}
