package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitquest/internal/constants"
)

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		LookbackDays:         constants.DefaultLookbackDays,
		EarlyBirdHour:        constants.DefaultEarlyBirdHour,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Missing keys keep their default values.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingLookbackDays:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing lookback_days: %w", err)
			}
			settings.LookbackDays = n
		case constants.SettingEarlyBirdHour:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing early_bird_hour: %w", err)
			}
			settings.EarlyBirdHour = n
		case constants.SettingNotifications:
			settings.NotificationsEnabled = value == "true"
		}
	}

	return settings, nil
}

// SettingsToMap converts a Settings struct to the key-value form stored in the settings table.
func SettingsToMap(s Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:      s.Timezone,
		constants.SettingLookbackDays:  strconv.Itoa(s.LookbackDays),
		constants.SettingEarlyBirdHour: strconv.Itoa(s.EarlyBirdHour),
		constants.SettingNotifications: strconv.FormatBool(s.NotificationsEnabled),
	}
}
