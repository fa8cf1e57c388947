package system

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/notifier"
)

// NotifyCmd sends a reminder for the habits not yet completed today. It is
// meant to be run from cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
	Test   bool `help:"Send a test notification and exit."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if c.Test {
		return c.send(ctx, "🔔 habitquest notifications are working")
	}

	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if !t.Settings().NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	habits, err := t.Habits()
	if err != nil {
		return err
	}
	today, err := t.TodayCheckIns()
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(today))
	for _, ci := range today {
		if ci.Completed {
			done[ci.HabitID] = true
		}
	}

	var pending []string
	for _, h := range habits {
		if !done[h.ID] {
			pending = append(pending, h.Name)
		}
	}
	if len(pending) == 0 {
		if c.DryRun {
			fmt.Println("Nothing left to do today.")
		}
		return nil
	}
	return c.send(ctx, notifier.ReminderMessage(pending))
}

func (c *NotifyCmd) send(ctx *cli.Context, msg string) error {
	if c.DryRun {
		fmt.Println("[DryRun] " + msg)
		return nil
	}
	if ctx.Notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	if err := ctx.Notifier.Notify(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
