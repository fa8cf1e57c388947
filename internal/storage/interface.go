// Package storage defines the persistence contract shared by the SQLite,
// PostgreSQL and in-memory stores.
package storage

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

// Provider is implemented by every store. Errors wrap the sentinels in
// internal/errors: ErrNotFound for missing records, ErrPersistence for driver
// failures and ErrAlreadyUnlocked for repeated unlocks.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits. AddHabit assigns the next free id and returns the stored habit.
	// DeleteHabit removes the habit's check-ins in the same transaction.
	AddHabit(models.Habit) (models.Habit, error)
	GetHabit(id int) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id int) error

	// Check-ins. AddCheckIn fails with ErrNotFound if the habit does not exist.
	AddCheckIn(models.CheckIn) (models.CheckIn, error)
	GetCheckIn(id int) (models.CheckIn, error)
	GetCheckInsForHabit(habitID int) ([]models.CheckIn, error)
	GetAllCheckIns() ([]models.CheckIn, error)
	UpdateCheckIn(models.CheckIn) error

	// Stats. RecordExperience saves the stats and appends the ledger event
	// atomically.
	GetUserStats() (models.UserStats, error)
	SaveUserStats(models.UserStats) error
	RecordExperience(models.UserStats, models.ExperienceEvent) error
	GetExperienceEvents(limit int) ([]models.ExperienceEvent, error)

	// Achievements. SeedAchievements inserts missing definitions and refreshes
	// the descriptive fields of existing ones without touching unlocked_at.
	SeedAchievements([]models.Achievement) error
	GetAchievements() ([]models.Achievement, error)
	UnlockAchievement(id int, at time.Time) error

	// Utils
	GetConfigPath() string
}
