package checkins

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/tracker"
)

type CheckinCmd struct {
	Mark CheckinMarkCmd `cmd:"" default:"withargs" help:"Record a check-in for a habit."`
	List CheckinListCmd `cmd:"" help:"List check-ins."`
	Edit CheckinEditCmd `cmd:"" help:"Edit a check-in's completion, notes or mood."`
}

type CheckinMarkCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Skip  bool   `help:"Record the habit as not done."`
	Notes string `short:"n" help:"Notes for this check-in."`
	Mood  int    `short:"m" help:"Mood from 1 to 5." default:"3"`
	Date  string `help:"Date (YYYY-MM-DD or RFC3339). Defaults to now."`
}

func (c *CheckinMarkCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(t, c.Habit)
	if err != nil {
		return err
	}

	in := tracker.CheckInInput{Completed: !c.Skip, Notes: c.Notes, Mood: c.Mood}
	if c.Date != "" {
		d, err := cli.ParseDate(c.Date, t.Now())
		if err != nil {
			return err
		}
		in.Date = &d
	}

	ctx.PerformAutomaticBackup()
	res, err := t.CompleteHabit(h.ID, in)
	if err != nil {
		return err
	}

	if !res.CheckIn.Completed {
		fmt.Printf("Recorded %s %s as not done.\n", h.Icon, h.Name)
		return nil
	}
	fmt.Printf("%s %s %s done  +%d XP\n", cli.SuccessStyle.Render("✓"), h.Icon, h.Name, constants.XPHabitCompleted)
	fmt.Printf("  🔥 Current streak: %d (longest %d)\n", res.Streak.Current, res.Streak.Longest)
	cli.PrintRewards(res.Unlocked, res.Level)
	return nil
}

type CheckinListCmd struct {
	Habit string `help:"Only show check-ins for this habit (ID or name)."`
	Limit int    `help:"Show at most this many of the latest check-ins (0 = all)." default:"20"`
}

func (c *CheckinListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habitID := 0
	if c.Habit != "" {
		h, err := cli.ResolveHabit(t, c.Habit)
		if err != nil {
			return err
		}
		habitID = h.ID
	}

	list, err := t.CheckIns(habitID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No check-ins found.")
		return nil
	}
	if c.Limit > 0 && len(list) > c.Limit {
		list = list[len(list)-c.Limit:]
	}

	names, err := habitNames(t)
	if err != nil {
		return err
	}
	for _, ci := range list {
		printCheckIn(ci, names[ci.HabitID], t.Location())
	}
	return nil
}

type CheckinEditCmd struct {
	ID    int     `arg:"" help:"Check-in ID."`
	Done  *bool   `help:"Mark the check-in as done (--done) or not done (--no-done)." negatable:""`
	Notes *string `help:"Replace the notes."`
	Mood  *int    `help:"Mood from 1 to 5."`
}

func (c *CheckinEditCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	patch := models.CheckInPatch{Completed: c.Done, Notes: c.Notes, Mood: c.Mood}
	if patch == (models.CheckInPatch{}) {
		fmt.Println("No changes specified.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	updated, err := t.UpdateCheckIn(c.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("%s Updated check-in %d\n", cli.SuccessStyle.Render("✓"), updated.ID)
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habits, err := t.Habits()
	if err != nil {
		return err
	}
	today, err := t.TodayCheckIns()
	if err != nil {
		return err
	}
	progress, err := t.TodayProgress()
	if err != nil {
		return err
	}

	done := make(map[int]bool, len(today))
	for _, ci := range today {
		if ci.Completed {
			done[ci.HabitID] = true
		}
	}

	fmt.Println(cli.TitleStyle.Render("Today · " + t.Now().Format(constants.DateFormat)))
	if len(habits) == 0 {
		fmt.Println("No habits yet. Create one with 'habitquest habit add'.")
		return nil
	}
	for _, h := range habits {
		mark := cli.MutedStyle.Render("○")
		if done[h.ID] {
			mark = cli.SuccessStyle.Render("●")
		}
		fmt.Printf("  %s %s %s\n", mark, h.Icon, h.Name)
	}
	fmt.Println()
	fmt.Printf("  %d/%d  %s\n", progress.Completed, progress.Total, cli.ProgressBar(progress.Percentage, 20))
	return nil
}

type StreakCmd struct {
	Habit string `arg:"" optional:"" help:"Habit ID or name. Shows every habit when omitted."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var habits []models.Habit
	if c.Habit != "" {
		h, err := cli.ResolveHabit(t, c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	} else if habits, err = t.Habits(); err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits yet.")
		return nil
	}

	fmt.Printf("  %-28s %8s %8s %9s %6s\n", "Habit", "Current", "Longest", "All-time", "Total")
	for _, h := range habits {
		s, err := t.HabitStreaks(h.ID)
		if err != nil {
			return err
		}
		best, err := t.AllTimeLongest(h.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  %-28s %8d %8d %9d %6d\n", h.Icon+" "+h.Name, s.Current, s.Longest, best, s.Total)
	}
	return nil
}

func habitNames(t *tracker.Tracker) (map[int]string, error) {
	habits, err := t.Habits()
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Icon + " " + h.Name
	}
	return names, nil
}

func printCheckIn(ci models.CheckIn, habit string, loc *time.Location) {
	status := cli.SuccessStyle.Render("done")
	if !ci.Completed {
		status = cli.MutedStyle.Render("skip")
	}
	fmt.Printf("  %4d  %s  %-24s %s  mood %d", ci.ID, ci.Date.In(loc).Format(constants.DateFormat+" "+constants.TimeFormat), habit, status, ci.Mood)
	if ci.Notes != "" {
		fmt.Printf("  %s", cli.MutedStyle.Render(ci.Notes))
	}
	fmt.Println()
}
