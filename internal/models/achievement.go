package models

import (
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// Achievement is a one-time unlockable reward. UnlockedAt is nil while locked
// and is never cleared once set.
type Achievement struct {
	ID          int                           `json:"id" yaml:"id"`
	Name        string                        `json:"name" yaml:"name"`
	Description string                        `json:"description" yaml:"description"`
	Icon        string                        `json:"icon" yaml:"icon"`
	Category    constants.AchievementCategory `json:"category" yaml:"category"`
	Points      int                           `json:"points" yaml:"points"`
	UnlockedAt  *time.Time                    `json:"unlocked_at,omitempty" yaml:"-"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}
