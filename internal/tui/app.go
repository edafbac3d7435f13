// Package tui provides the interactive Bubble Tea dashboard for fuellog.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/achievement"
	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/store"
	"github.com/theirongolddev/fuellog/internal/tui/components"
	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

// DataLoadedMsg is sent when the logbook has been read from the store.
type DataLoadedMsg struct {
	Logbook  store.Logbook
	Stats      model.UserStats
	Badges     []model.Badge
	Challenges []model.Challenge
	LoadTime   time.Duration
	Err        error
}

// trendGroup is one window's worth of trend comparisons.
type trendGroup struct {
	Label   string
	Results []model.TrendResult
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	logbook    store.Logbook
	stats      model.UserStats
	badges     []model.Badge
	challenges []model.Challenge
	loaded     bool
	loadTime   time.Duration
	loadErr    error
	refreshing bool

	// Pre-computed for the current window
	window   model.Window
	dash     model.DashboardStats
	period   model.PeriodAggregate
	prev     model.PeriodAggregate
	spend    model.PurchaseAggregate
	daily    []model.DailyStats
	months   []model.MonthlyStats
	stations []model.StationStats
	trends   []trendGroup
	outlook  model.Outlook

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Filter state
	days    int
	vehicle string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model

	cfg config.Config
	clk clock.Clock
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates the dashboard model for vehicle over a trailing window of
// days. The setup form is shown first when no config file exists yet.
func NewApp(cfg config.Config, clk clock.Clock, vehicle string, days int) App {
	if days <= 0 {
		days = cfg.General.DefaultDays
	}
	if days <= 0 {
		days = 30
	}
	if clk == nil {
		clk = clock.Real{}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:       cfg,
		clk:       clk,
		vehicle:   vehicle,
		days:      days,
		needSetup: !config.Exists(),
		setupVals: setupValuesFrom(cfg),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.cfg, a.clk, a.vehicle),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	now := a.clk.Now()
	logs, purchases := a.logbook.Logs, a.logbook.Purchases

	a.window = pipeline.TrailingDays(now, a.days)
	a.dash = pipeline.Dashboard(logs, purchases, 0)
	a.period = pipeline.Aggregate(logs, a.window)
	a.prev = pipeline.Aggregate(logs, pipeline.Previous(a.window))
	a.spend = pipeline.AggregatePurchases(purchases, a.window)
	a.daily = pipeline.AggregateDays(logs, purchases, a.window)
	a.months = pipeline.AggregateMonths(logs, purchases, now.Year())
	a.stations = pipeline.AggregateStations(purchases)
	a.trends = []trendGroup{
		{Label: "This week", Results: pipeline.CompareWindows(logs, pipeline.Week(now))},
		{Label: "This month", Results: pipeline.CompareWindows(logs, pipeline.Month(now))},
		{Label: fmt.Sprintf("Last %d days", a.days), Results: pipeline.CompareWindows(logs, a.window)},
	}
	a.outlook = pipeline.NewForecaster(a.cfg, a.clk).
		Outlook(logs, purchases, a.logbook.Maintenance, a.cfg.Budget.Monthly)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		// Tab bar is the first line.
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		// First-run setup intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if a.refreshing {
				return a, nil
			}
			a.refreshing = true
			return a, loadDataCmd(a.cfg, a.clk, a.vehicle)
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "l", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.refreshing = false
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		if msg.Err != nil && a.loaded {
			// Keep showing the previous data after a failed reload.
			return a, nil
		}
		a.logbook = msg.Logbook
		a.stats = msg.Stats
		a.badges = msg.Badges
		a.challenges = msg.Challenges
		firstLoad := !a.loaded
		a.loaded = true
		a.recompute()

		if firstLoad && a.needSetup {
			a.setupForm = newSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.loadErr = err
		}
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  fuellog needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ fuellog") + sub.Render(" · Fuel & Expense Logbook") + "\n\n" +
		a.spinner.View() + sub.Render(" Reading logbook...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(title.Render("Keybindings"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{"d t f a", "Jump to tab"},
		{"← → tab", "Previous / next tab"},
		{"r", "Reload logbook"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", bind.key)), desc.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w, h, cw := a.width, a.height, a.contentWidth()

	// 1. Header: tab bar plus the filter row
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	filter := pill.Render(" ") + accent.Render(fmt.Sprintf("%dd", a.days))
	if a.vehicle != "" {
		filter += pill.Render(" │ ") + accent.Render(a.vehicle)
	}
	if a.outlook.Odometer > 0 {
		filter += pill.Render(" │ odometer ") + accent.Render(cli.FormatKm(a.outlook.Odometer))
	}
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filter)

	// 2. Status bar
	info := fmt.Sprintf("%d logs · %d purchases · %s", len(a.logbook.Logs), len(a.logbook.Purchases),
		a.loadTime.Round(time.Millisecond))
	switch {
	case a.refreshing:
		info = "reloading..."
	case a.loadErr != nil:
		info = "error: " + a.loadErr.Error()
	}
	statusBar := components.RenderStatusBar(w, info)

	// 3. Content zone
	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch {
	case a.activeTab != 3 && len(a.logbook.Logs) == 0 && len(a.logbook.Purchases) == 0:
		content = a.renderEmpty(cw)
	case a.activeTab == 0:
		content = a.renderDashboardTab(cw)
	case a.activeTab == 1:
		content = a.renderTrendsTab(cw)
	case a.activeTab == 2:
		content = a.renderForecastsTab(cw)
	case a.activeTab == 3:
		content = a.renderAchievementsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderEmpty(cw int) string {
	body := "No logbook entries yet.\n\n" +
		"Add one with `fuellog log add` or `fuellog import <path>`,\n" +
		"then press r to reload."
	if a.loadErr != nil {
		body = "Could not read the logbook:\n\n" + a.loadErr.Error()
	}
	return components.ContentCard("Logbook", body, cw)
}

// loadDataCmd reads the logbook and gamification state in the background.
func loadDataCmd(cfg config.Config, clk clock.Clock, vehicle string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fail := func(err error) tea.Msg {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}

		st, err := store.Open(config.DBPath(cfg))
		if err != nil {
			return fail(err)
		}
		defer st.Close()

		lb, err := st.LoadLogbook(ctx, vehicle)
		if err != nil {
			return fail(fmt.Errorf("loading logbook: %w", err))
		}
		engine := achievement.NewEngine(st, clk, cfg.Gamification)
		stats, badges, err := engine.State(ctx)
		if err != nil {
			return fail(err)
		}
		challenges, err := engine.Challenges(ctx, lb.Logs, lb.Purchases)
		if err != nil {
			return fail(err)
		}
		return DataLoadedMsg{
			Logbook:    lb,
			Stats:      stats,
			Badges:     badges,
			Challenges: challenges,
			LoadTime:   time.Since(start),
		}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// chartDateLabels builds x-axis labels for a newest-first day series,
// returned oldest-left. Month names mark the first day and month changes.
func chartDateLabels(days []model.DailyStats) []string {
	n := len(days)
	labels := make([]string, n)
	var prev time.Month
	for i := range n {
		d := days[n-1-i].Date
		switch {
		case i == 0 || d.Month() != prev:
			labels[i] = d.Format("Jan")
		default:
			labels[i] = strconv.Itoa(d.Day())
		}
		prev = d.Month()
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
