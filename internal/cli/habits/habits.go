package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Create a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits."`
	Show       HabitShowCmd       `cmd:"" help:"Show a habit with its streaks."`
	Edit       HabitEditCmd       `cmd:"" help:"Edit a habit."`
	Delete     HabitDeleteCmd     `cmd:"" help:"Delete a habit and its check-ins."`
	Categories HabitCategoriesCmd `cmd:"" help:"List habit categories in use."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Name of the habit."`
	Category    string `help:"Category." default:"General"`
	Frequency   string `help:"How often (daily, weekly, custom)." enum:"daily,weekly,custom" default:"daily"`
	Target      int    `help:"Times per period." default:"1"`
	Difficulty  int    `help:"1=easy, 2=medium, 3=hard." default:"1"`
	Color       string `help:"Hex color, e.g. #5B8DEF."`
	Icon        string `help:"Icon shown next to the name."`
	Description string `help:"Free-form description."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	res, err := t.CreateHabit(models.Habit{
		Name:        c.Name,
		Category:    c.Category,
		Frequency:   constants.Frequency(c.Frequency),
		Target:      c.Target,
		Difficulty:  constants.Difficulty(c.Difficulty),
		Color:       c.Color,
		Icon:        c.Icon,
		Description: c.Description,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Created habit %d: %s %s\n", cli.SuccessStyle.Render("✓"), res.Habit.ID, res.Habit.Icon, res.Habit.Name)
	fmt.Printf("  +%d XP\n", constants.XPHabitCreated)
	cli.PrintRewards(res.Unlocked, res.Level)
	return nil
}

type HabitListCmd struct {
	Category string `help:"Only show habits in this category."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habits, err := t.Habits()
	if err != nil {
		return err
	}
	stats, err := t.Stats()
	if err != nil {
		return err
	}

	shown := 0
	for _, h := range habits {
		if c.Category != "" && !strings.EqualFold(h.Category, c.Category) {
			continue
		}
		if shown == 0 {
			fmt.Println(cli.TitleStyle.Render("Habits"))
		}
		shown++
		fmt.Printf("  %3d  %s %s %-24s %-12s %-7s 🔥 %d\n",
			h.ID, cli.Swatch(h.Color), h.Icon, h.Name, h.Category, h.Frequency, stats.CurrentStreaks[h.ID])
	}
	if shown == 0 {
		fmt.Println("No habits found. Create one with 'habitquest habit add'.")
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(t, c.Habit)
	if err != nil {
		return err
	}
	s, err := t.HabitStreaks(h.ID)
	if err != nil {
		return err
	}
	best, err := t.AllTimeLongest(h.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s %s", h.Icon, h.Name)))
	fmt.Printf("  ID:          %d\n", h.ID)
	fmt.Printf("  Category:    %s\n", h.Category)
	fmt.Printf("  Frequency:   %s (target %d)\n", h.Frequency, h.Target)
	fmt.Printf("  Difficulty:  %s\n", difficultyLabel(h.Difficulty))
	fmt.Printf("  Color:       %s %s\n", cli.Swatch(h.Color), h.Color)
	if h.Description != "" {
		fmt.Printf("  Description: %s\n", h.Description)
	}
	fmt.Printf("  Created:     %s\n", h.CreatedAt.In(t.Location()).Format(constants.DateFormat))
	fmt.Println()
	fmt.Printf("  Current streak:  %d\n", s.Current)
	fmt.Printf("  Longest streak:  %d (all time %d)\n", s.Longest, best)
	fmt.Printf("  Completions:     %d\n", s.Total)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit ID or name."`
	Name        *string `help:"New name."`
	Category    *string `help:"New category."`
	Frequency   *string `help:"New frequency (daily, weekly, custom)."`
	Target      *int    `help:"New target."`
	Difficulty  *int    `help:"New difficulty (1-3)."`
	Color       *string `help:"New hex color."`
	Icon        *string `help:"New icon."`
	Description *string `help:"New description."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(t, c.Habit)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{
		Name:        c.Name,
		Category:    c.Category,
		Target:      c.Target,
		Color:       c.Color,
		Icon:        c.Icon,
		Description: c.Description,
	}
	if c.Frequency != nil {
		f := constants.Frequency(*c.Frequency)
		patch.Frequency = &f
	}
	if c.Difficulty != nil {
		d := constants.Difficulty(*c.Difficulty)
		patch.Difficulty = &d
	}
	if patch == (models.HabitPatch{}) {
		fmt.Println("No changes specified.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	updated, err := t.UpdateHabit(h.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("%s Updated habit %d: %s %s\n", cli.SuccessStyle.Render("✓"), updated.ID, updated.Icon, updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(t, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Delete %q and all of its check-ins?", h.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := t.DeleteHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("%s Deleted habit %d: %s\n", cli.SuccessStyle.Render("✓"), h.ID, h.Name)
	return nil
}

type HabitCategoriesCmd struct{}

func (c *HabitCategoriesCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	categories, err := t.Categories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Println("No categories yet.")
		return nil
	}
	for _, c := range categories {
		fmt.Println(c)
	}
	return nil
}

func difficultyLabel(d constants.Difficulty) string {
	switch d {
	case constants.DifficultyEasy:
		return "easy"
	case constants.DifficultyMedium:
		return "medium"
	case constants.DifficultyHard:
		return "hard"
	}
	return fmt.Sprintf("%d", d)
}
