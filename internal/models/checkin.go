package models

import "time"

// CheckIn records a habit being marked done (or explicitly not done) at a point in time
type CheckIn struct {
	ID        int       `json:"id"`
	HabitID   int       `json:"habit_id" validate:"min=1"`
	Date      time.Time `json:"date" validate:"required"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes" validate:"max=1000"`
	Mood      int       `json:"mood" validate:"min=1,max=5"`
}

// CheckInPatch holds the fields of a check-in that may change after creation.
// The date is immutable.
type CheckInPatch struct {
	Completed *bool
	Notes     *string
	Mood      *int
}

// Apply returns a copy of c with the non-nil patch fields applied.
func (p CheckInPatch) Apply(c CheckIn) CheckIn {
	if p.Completed != nil {
		c.Completed = *p.Completed
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Mood != nil {
		c.Mood = *p.Mood
	}
	return c
}
