package constants

// Frequency represents how often a habit is expected to be done
type Frequency string

// Difficulty represents how hard a habit is (1=easy, 2=medium, 3=hard)
type Difficulty int

// AchievementCategory groups achievements by theme
type AchievementCategory string

// ExperienceReason records why experience was awarded
type ExperienceReason string

const (
	AppName            = "habitquest"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitquest/habitquest.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitquest-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "habitquest-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitquest"
	TrayAppExecutable      = "habitquest-tray"

	// Streak constants
	DefaultLookbackDays = 30

	// Experience constants
	ExperiencePerLevel   = 100
	XPHabitCreated       = 10
	XPHabitCompleted     = 5
	DefaultEarlyBirdHour = 8

	// Habit defaults
	DefaultCategory   = "General"
	DefaultTarget     = 1
	DefaultMood       = 3
	MinMood           = 1
	MaxMood           = 5
	WellnessCategory  = "Wellness"
	DefaultHabitColor = "#5B8DEF"
	DefaultHabitIcon  = "✓"

	// Frequency constants
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"

	// Difficulty constants
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3

	// Achievement categories
	CategoryMilestone  AchievementCategory = "milestone"
	CategoryStreak     AchievementCategory = "streak"
	CategoryCreation   AchievementCategory = "creation"
	CategoryCategory   AchievementCategory = "category"
	CategoryTime       AchievementCategory = "time"
	CategoryCompletion AchievementCategory = "completion"
	CategoryManagement AchievementCategory = "management"

	// Experience reasons
	ReasonHabitCreated        ExperienceReason = "habit_created"
	ReasonHabitCompleted      ExperienceReason = "habit_completed"
	ReasonAchievementUnlocked ExperienceReason = "achievement_unlocked"
)
