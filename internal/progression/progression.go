// Package progression derives levels from experience points.
package progression

import (
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

// Result is the outcome of an experience award
type Result struct {
	Experience int  `json:"experience"`
	Level      int  `json:"level"`
	LeveledUp  bool `json:"leveled_up"`
	NewLevel   int  `json:"new_level,omitempty"` // set only when LeveledUp
}

// LevelFor returns the level for a given amount of experience.
func LevelFor(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/constants.ExperiencePerLevel + 1
}

// AddExperience adds points to the current experience and recomputes the level.
// The result replaces both stored fields; the level is never set on its own.
func AddExperience(currentExperience, currentLevel, points int) Result {
	xp := currentExperience + points
	if xp < 0 {
		xp = 0
	}
	level := LevelFor(xp)

	res := Result{
		Experience: xp,
		Level:      level,
		LeveledUp:  level > currentLevel,
	}
	if res.LeveledUp {
		res.NewLevel = level
	}
	return res
}

// Apply writes an AddExperience result into a copy of stats.
func Apply(stats models.UserStats, res Result) models.UserStats {
	out := stats.Clone()
	out.Experience = res.Experience
	out.Level = res.Level
	return out
}

// LevelProgress describes how far the user is into the current level
type LevelProgress struct {
	Current    int `json:"current"`    // experience earned inside the current level
	Needed     int `json:"needed"`     // experience spanned by one level
	Percentage int `json:"percentage"` // 0-100
}

// Progress reports the experience earned towards the next level.
func Progress(stats models.UserStats) LevelProgress {
	level := LevelFor(stats.Experience)
	floor := (level - 1) * constants.ExperiencePerLevel
	current := stats.Experience - floor
	if current < 0 {
		current = 0
	}
	return LevelProgress{
		Current:    current,
		Needed:     constants.ExperiencePerLevel,
		Percentage: current * 100 / constants.ExperiencePerLevel,
	}
}
