package tracker

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/progression"
	"github.com/julianstephens/habitquest/internal/streak"
)

// LevelChange accumulates the outcome of several experience awards.
type LevelChange struct {
	Experience int
	Level      int
	LeveledUp  bool
}

func (l *LevelChange) observe(res progression.Result) {
	l.Experience = res.Experience
	l.Level = res.Level
	if res.LeveledUp {
		l.LeveledUp = true
	}
}

// CheckInInput describes a check-in as entered by the user. A nil Date means
// now and a zero Mood means the default mood.
type CheckInInput struct {
	Completed bool
	Notes     string
	Mood      int
	Date      *time.Time
}

type CompletionResult struct {
	CheckIn  models.CheckIn
	Streak   streak.Result
	Level    LevelChange
	Unlocked []models.Achievement
}

type CreateResult struct {
	Habit    models.Habit
	Level    LevelChange
	Unlocked []models.Achievement
}
