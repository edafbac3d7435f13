package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

// setupValues backs the setup form fields. Numbers are kept as text while
// editing and parsed on apply.
type setupValues struct {
	currency     string
	tankCapacity string
	budget       string
	days         int
	theme        string
}

func setupValuesFrom(cfg config.Config) setupValues {
	v := setupValues{
		currency:     cfg.Appearance.Currency,
		tankCapacity: strconv.FormatFloat(cfg.Vehicle.TankCapacityL, 'f', -1, 64),
		days:         cfg.General.DefaultDays,
		theme:        cfg.Appearance.Theme,
	}
	if cfg.Budget.Monthly != nil {
		v.budget = strconv.FormatFloat(*cfg.Budget.Monthly, 'f', -1, 64)
	}
	return v
}

// apply copies the form answers onto cfg.
func (v setupValues) apply(cfg config.Config) (config.Config, error) {
	tank, err := parsePositive(v.tankCapacity)
	if err != nil {
		return cfg, fmt.Errorf("tank capacity: %w", err)
	}
	cfg.Vehicle.TankCapacityL = tank

	cfg.Budget.Monthly = nil
	if strings.TrimSpace(v.budget) != "" {
		budget, err := parsePositive(v.budget)
		if err != nil {
			return cfg, fmt.Errorf("monthly budget: %w", err)
		}
		cfg.Budget.Monthly = &budget
	}

	cfg.Appearance.Currency = strings.TrimSpace(v.currency)
	cfg.Appearance.Theme = theme.ByName(v.theme).Name
	if v.days > 0 {
		cfg.General.DefaultDays = v.days
	}
	return cfg, nil
}

func parsePositive(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if f <= 0 {
		return 0, errors.New("must be greater than zero")
	}
	return f, nil
}

func newSetupForm(vals *setupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Label, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fuellog").
				Description("A few settings for forecasts and display.\nRun `fuellog setup` anytime to change them."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.currency).
				CharLimit(4).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("currency cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Tank capacity (L)").
				Description("Used for range and tank-empty estimates.").
				Value(&vals.tankCapacity).
				Validate(func(s string) error {
					_, err := parsePositive(s)
					return err
				}),
			huh.NewInput().
				Title("Monthly fuel budget").
				Description("Leave empty for no budget.").
				Placeholder("none").
				Value(&vals.budget).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := parsePositive(s)
					return err
				}),
		).Title("Vehicle & budget"),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default time range").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
				).
				Value(&vals.days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.theme),
		).Title("Display"),
	).WithTheme(huh.ThemeCatppuccin())
}

// saveSetupConfig persists the completed form and activates the new theme.
func (a *App) saveSetupConfig() error {
	cfg, err := a.setupVals.apply(a.cfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// RunSetup runs the setup form standalone and returns cfg with the answers
// applied. huh.ErrUserAborted is returned when the form is cancelled.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := setupValuesFrom(cfg)
	if err := newSetupForm(&vals).Run(); err != nil {
		return cfg, err
	}
	return vals.apply(cfg)
}
