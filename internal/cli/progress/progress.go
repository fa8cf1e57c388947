package progress

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/stats"
)

type StatsCmd struct {
	Show    StatsShowCmd    `cmd:"" default:"1" help:"Show level, experience and totals."`
	Refresh StatsRefreshCmd `cmd:"" help:"Recompute streaks and totals from stored check-ins."`
	Reset   StatsResetCmd   `cmd:"" help:"Reset level, experience and totals."`
	History StatsHistoryCmd `cmd:"" help:"Show the experience ledger."`
}

type StatsShowCmd struct{}

func (c *StatsShowCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	s, err := t.Stats()
	if err != nil {
		return err
	}
	lp, err := t.LevelProgress()
	if err != nil {
		return err
	}
	today, err := t.TodayProgress()
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Level %d", s.Level)))
	fmt.Printf("  %s  %d/%d XP\n", cli.ProgressBar(lp.Percentage, 20), lp.Current, lp.Needed)
	fmt.Printf("  Total experience:  %d\n", s.Experience)
	fmt.Println()
	fmt.Printf("  Habits:            %d\n", s.TotalHabits)
	fmt.Printf("  Check-ins:         %d\n", s.TotalCheckIns)
	fmt.Printf("  Days tracked:      %d\n", s.TotalDaysTracked)
	fmt.Printf("  Perfect days:      %d\n", s.PerfectDays)
	fmt.Printf("  Completion rate:   %.0f%%\n", s.CompletionRate*100)
	fmt.Printf("  Today:             %d/%d\n", today.Completed, today.Total)
	if s.LastActivityDate != nil {
		fmt.Printf("  Last activity:     %s\n", s.LastActivityDate.In(t.Location()).Format(constants.DateFormat))
	}
	return nil
}

type StatsRefreshCmd struct{}

func (c *StatsRefreshCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	s, err := t.RefreshStats()
	if err != nil {
		return err
	}
	fmt.Printf("%s Stats refreshed: %d habits, %d check-ins\n", cli.SuccessStyle.Render("✓"), s.TotalHabits, s.TotalCheckIns)
	return nil
}

type StatsResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *StatsResetCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := cli.Confirm("Reset level and experience to zero? Habits and check-ins are kept.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := t.ResetStats(); err != nil {
		return err
	}
	fmt.Printf("%s Stats reset\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type StatsHistoryCmd struct {
	Limit int `help:"Number of events to show (0 = all)." default:"20"`
}

func (c *StatsHistoryCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	events, err := t.ExperienceHistory(c.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No experience earned yet.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("  %s  %+5d XP  %-18s #%d\n",
			e.CreatedAt.In(t.Location()).Format(constants.DateFormat+" "+constants.TimeFormat), e.Points, e.Reason, e.RefID)
	}
	return nil
}

type AchievementsCmd struct {
	List     AchievementsListCmd     `cmd:"" default:"1" help:"List achievements."`
	Progress AchievementsProgressCmd `cmd:"" help:"Show unlock progress per category."`
	Check    AchievementsCheckCmd    `cmd:"" help:"Evaluate achievements against current data."`
}

type AchievementsListCmd struct {
	Unlocked bool `help:"Only show unlocked achievements." xor:"filter"`
	Locked   bool `help:"Only show locked achievements." xor:"filter"`
}

func (c *AchievementsListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	all, err := t.Achievements()
	if err != nil {
		return err
	}

	for _, a := range all {
		if (c.Unlocked && !a.Unlocked()) || (c.Locked && a.Unlocked()) {
			continue
		}
		if a.Unlocked() {
			fmt.Printf("  %s  %s\n", cli.SuccessStyle.Render(achievements.Describe(a)),
				cli.MutedStyle.Render(a.UnlockedAt.In(t.Location()).Format(constants.DateFormat)))
		} else {
			fmt.Printf("  %s\n", cli.MutedStyle.Render(achievements.Describe(a)))
		}
		fmt.Printf("      %s\n", a.Description)
	}
	fmt.Printf("\n  %d points earned from achievements\n", stats.TotalPoints(all))
	return nil
}

type AchievementsProgressCmd struct{}

func (c *AchievementsProgressCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	all, err := t.Achievements()
	if err != nil {
		return err
	}

	for _, p := range stats.ProgressByCategory(all) {
		fmt.Printf("  %-12s %s  %d/%d\n", p.Category, cli.ProgressBar(p.Percentage, 16), p.Unlocked, p.Total)
	}
	if recent := stats.Recent(all, 3); len(recent) > 0 {
		fmt.Println()
		fmt.Println(cli.TitleStyle.Render("Recently unlocked"))
		for _, a := range recent {
			fmt.Printf("  %s\n", achievements.Describe(a))
		}
	}
	return nil
}

type AchievementsCheckCmd struct{}

func (c *AchievementsCheckCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	unlocked, err := t.CheckAchievements()
	if err != nil {
		return err
	}
	if len(unlocked) == 0 {
		fmt.Println("No new achievements.")
		return nil
	}
	for _, a := range unlocked {
		fmt.Printf("  %s %s\n", cli.TitleStyle.Render("Achievement unlocked:"), achievements.Describe(a))
	}
	return nil
}
