package constants

const (
	// Setting keys
	SettingTimezone      = "timezone"
	SettingLookbackDays  = "lookback_days"
	SettingEarlyBirdHour = "early_bird_hour"
	SettingNotifications = "notifications_enabled"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
)
