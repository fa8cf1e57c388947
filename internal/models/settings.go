package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone" validate:"required,tzname"`     // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	LookbackDays         int    `json:"lookback_days" validate:"min=1,max=365"`  // days scanned backward when computing streaks
	EarlyBirdHour        int    `json:"early_bird_hour" validate:"min=0,max=24"` // check-ins before this local hour count as early
	NotificationsEnabled bool   `json:"notifications_enabled"`                   // whether to send desktop notifications
}
