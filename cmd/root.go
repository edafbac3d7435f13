package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/achievement"
	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/logging"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/store"
)

var (
	flagDB      string
	flagVehicle string
	flagDays    int
	flagQuiet   bool
	flagYear    int
)

var rootCmd = &cobra.Command{
	Use:   "fuellog",
	Short: "Vehicle fuel and expense logbook",
	Long:  "Track daily odometer readings and fuel purchases, then analyze costs, trends and forecasts.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite logbook path (default under the XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagVehicle, "vehicle", "", "Restrict to one vehicle ID")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Time window in days (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().IntVar(&flagYear, "year", 0, "Calendar year for yearly views (default current)")
}

// env bundles what every command needs: config, clock and logger.
type env struct {
	cfg config.Config
	clk clock.Clock
	log *logrus.Logger
}

// loadEnv reads the config and resolves flag defaults from it.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}
	if flagVehicle == "" {
		flagVehicle = cfg.General.Vehicle
	}
	if flagDays <= 0 {
		flagDays = cfg.General.DefaultDays
	}
	if flagDays <= 0 {
		flagDays = 30
	}
	return &env{
		cfg: cfg,
		clk: clock.Real{},
		log: logging.FromConfig(cfg, flagQuiet),
	}, nil
}

func (e *env) now() time.Time { return e.clk.Now() }

func (e *env) year() int {
	if flagYear > 0 {
		return flagYear
	}
	return e.now().Year()
}

func (e *env) currency() string { return e.cfg.Appearance.Currency }

func (e *env) openStore() (*store.Store, error) {
	st, err := store.Open(config.DBPath(e.cfg))
	if err != nil {
		return nil, fmt.Errorf("opening logbook: %w", err)
	}
	return st, nil
}

func (e *env) forecaster() *pipeline.Forecaster {
	return pipeline.NewForecaster(e.cfg, e.clk)
}

func (e *env) achievements(st *store.Store) *achievement.Engine {
	return achievement.NewEngine(st, e.clk, e.cfg.Gamification)
}

// loadLogbook is the shared data loading path used by the read commands.
func loadLogbook(ctx context.Context) (*env, store.Logbook, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, store.Logbook{}, err
	}
	st, err := e.openStore()
	if err != nil {
		return nil, store.Logbook{}, err
	}
	defer st.Close()

	lb, err := st.LoadLogbook(ctx, flagVehicle)
	if err != nil {
		return nil, lb, fmt.Errorf("loading logbook: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"logs":      len(lb.Logs),
		"purchases": len(lb.Purchases),
		"vehicle":   flagVehicle,
	}).Debug("logbook loaded")
	return e, lb, nil
}

func emptyLogbook(lb store.Logbook) bool {
	if len(lb.Logs) == 0 && len(lb.Purchases) == 0 {
		fmt.Println("\n  No logbook entries yet.")
		fmt.Println("  Add one with `fuellog log add` or `fuellog import <path>`.")
		return true
	}
	return false
}
