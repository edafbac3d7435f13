package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fuellog/internal/cli"
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"badges"},
	Short:   "Level, streak and badges",
	RunE:    runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func runAchievements(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	engine := e.achievements(st)
	stats, badges, err := engine.State(cmd.Context())
	if err != nil {
		return err
	}
	lb, err := st.LoadLogbook(cmd.Context(), flagVehicle)
	if err != nil {
		return fmt.Errorf("loading logbook: %w", err)
	}
	challenges, err := engine.Challenges(cmd.Context(), lb.Logs, lb.Purchases)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("LEVEL %d", stats.Level())))
	fmt.Println()

	rows := [][]string{
		{"Total XP", cli.FormatNumber(int64(stats.TotalXP))},
		{"Next level", cli.FormatNumber(int64(stats.XPToNextLevel())) + " XP"},
		{"Current streak", fmt.Sprintf("%d days", stats.CurrentStreak)},
		{"Longest streak", fmt.Sprintf("%d days", stats.LongestStreak)},
	}
	if stats.LastActivity != nil {
		rows = append(rows, []string{"Last activity", cli.FormatAgo(*stats.LastActivity, e.now())})
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Progress", ""}, Rows: rows}))
	fmt.Println()

	unlocked := 0
	for _, b := range badges {
		if b.Unlocked() {
			unlocked++
		}
	}
	fmt.Printf("  Badges %d/%d\n", unlocked, len(badges))
	for _, b := range badges {
		fmt.Println("  " + cli.RenderBadge(b))
	}

	if len(challenges) > 0 {
		fmt.Printf("\n  This week (ends %s)\n", cli.FormatDate(challenges[0].ExpiresAt.AddDate(0, 0, -1)))
		for _, c := range challenges {
			fmt.Println("  " + cli.RenderChallenge(c))
		}
	}
	return nil
}
