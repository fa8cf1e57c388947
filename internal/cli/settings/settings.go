package settings

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used for calendar days (e.g. Europe/Berlin, or Local)."`
	LookbackDays         *int    `help:"Days scanned backward when computing streaks."`
	EarlyBirdHour        *int    `help:"Check-ins before this local hour count towards Early Bird."`
	NotificationsEnabled *bool   `help:"Enable or disable desktop notifications."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	settings := t.Settings()

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Streak Lookback:       %d days\n", settings.LookbackDays)
		fmt.Printf("  Early Bird Before:     %02d:00\n", settings.EarlyBirdHour)
		fmt.Println("\nNotification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.LookbackDays != nil {
		settings.LookbackDays = *c.LookbackDays
		updated = true
	}
	if c.EarlyBirdHour != nil {
		settings.EarlyBirdHour = *c.EarlyBirdHour
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if updated {
		if err := t.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
