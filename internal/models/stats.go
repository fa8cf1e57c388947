package models

import (
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// UserStats is the single progression record for the user.
// Level is always derived from Experience; see progression.LevelFor.
type UserStats struct {
	Level            int         `json:"level"`
	Experience       int         `json:"experience"`
	TotalDaysTracked int         `json:"total_days_tracked"`
	CurrentStreaks   map[int]int `json:"current_streaks"` // habit ID -> streak length
	LongestStreaks   map[int]int `json:"longest_streaks"` // habit ID -> best recorded streak
	CompletionRate   float64     `json:"completion_rate"` // 0-1
	TotalHabits      int         `json:"total_habits"`
	TotalCheckIns    int         `json:"total_check_ins"`
	PerfectDays      int         `json:"perfect_days"`
	LastActivityDate *time.Time  `json:"last_activity_date,omitempty"`
}

// DefaultUserStats returns the zeroed stats record used on first run and after a reset.
func DefaultUserStats() UserStats {
	return UserStats{
		Level:          1,
		CurrentStreaks: map[int]int{},
		LongestStreaks: map[int]int{},
	}
}

// Clone returns a deep copy of the stats, so callers can mutate the maps freely.
func (s UserStats) Clone() UserStats {
	c := s
	c.CurrentStreaks = make(map[int]int, len(s.CurrentStreaks))
	for k, v := range s.CurrentStreaks {
		c.CurrentStreaks[k] = v
	}
	c.LongestStreaks = make(map[int]int, len(s.LongestStreaks))
	for k, v := range s.LongestStreaks {
		c.LongestStreaks[k] = v
	}
	if s.LastActivityDate != nil {
		t := *s.LastActivityDate
		c.LastActivityDate = &t
	}
	return c
}

// ExperienceEvent is a ledger row written with every experience award
type ExperienceEvent struct {
	ID        string                     `json:"id"`
	Reason    constants.ExperienceReason `json:"reason"`
	Points    int                        `json:"points"`
	RefID     int                        `json:"ref_id"` // habit or achievement ID
	CreatedAt time.Time                  `json:"created_at"`
}
