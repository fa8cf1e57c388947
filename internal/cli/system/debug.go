package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump a habit and its check-ins as JSON."`
	DumpStats    *DebugDumpStatsCmd    `cmd:"" help:"Dump user stats as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(t, cmd.Habit)
	if err != nil {
		return err
	}
	checkIns, err := t.CheckIns(h.ID)
	if err != nil {
		return err
	}
	streaks, err := t.HabitStreaks(h.ID)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"habit":     h,
		"check_ins": checkIns,
		"streak":    streaks,
	})
}

type DebugDumpStatsCmd struct{}

func (cmd *DebugDumpStatsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	stats, err := t.Stats()
	if err != nil {
		return err
	}
	progress, err := t.LevelProgress()
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"stats":          stats,
		"level_progress": progress,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}
