// Package cmd implements the fuellog CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Logbook:     %s\n", config.DBPath(cfg))
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default days:  %d\n", cfg.General.DefaultDays)
	if cfg.General.Vehicle != "" {
		fmt.Printf("    Vehicle:       %s\n", cfg.General.Vehicle)
	}
	fmt.Printf("    Log level:     %s (%s)\n", cfg.General.LogLevel, cfg.General.LogFormat)
	fmt.Println()

	fmt.Println("  [Vehicle]")
	fmt.Printf("    Tank capacity: %s\n", cli.FormatLiters(cfg.Vehicle.TankCapacityL))
	fmt.Printf("    Default use:   %s\n", cli.FormatConsumption(cfg.Vehicle.DefaultConsumption))
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Fallback refuel interval: %.0f days\n", cfg.Forecast.FallbackRefuelDays)
	fmt.Printf("    Year-end after day:       %d\n", cfg.Forecast.YearEndMinDay)
	fmt.Printf("    Year-end min spend:       %s\n", cli.FormatMoney(cfg.Forecast.YearEndMinCost, cfg.Appearance.Currency))
	fmt.Printf("    Pace window:              %d days\n", cfg.Forecast.WindowDays)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.Monthly != nil {
		fmt.Printf("    Monthly budget: %s\n", cli.FormatMoney(*cfg.Budget.Monthly, cfg.Appearance.Currency))
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Printf("    Warn at:        %.0f%%\n", cfg.Budget.WarningThreshold)
	fmt.Println()

	fmt.Println("  [Gamification]")
	fmt.Printf("    XP per log:      %d\n", cfg.Gamification.XPPerLog)
	fmt.Printf("    XP per purchase: %d\n", cfg.Gamification.XPPerPurchase)
	fmt.Printf("    Weekly limit:    %s\n", cli.FormatMoney(cfg.Gamification.WeeklySpendLimit, cfg.Appearance.Currency))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Currency: %s\n", cfg.Appearance.Currency)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  Run `fuellog setup` to reconfigure.")
	return nil
}
