package models

import (
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name" validate:"required,max=100"`
	Category    string               `json:"category" validate:"required,max=50"`
	Frequency   constants.Frequency  `json:"frequency" validate:"oneof=daily weekly custom"`
	Target      int                  `json:"target" validate:"min=1,max=100"`   // times per period
	Difficulty  constants.Difficulty `json:"difficulty" validate:"min=1,max=3"` // 1=easy, 2=medium, 3=hard
	Color       string               `json:"color" validate:"omitempty,hexcolor"`
	Icon        string               `json:"icon" validate:"max=16"`
	Description string               `json:"description" validate:"max=500"`
	CreatedAt   time.Time            `json:"created_at"`
}

// HabitPatch holds the editable fields of a habit. Nil fields are left unchanged.
type HabitPatch struct {
	Name        *string
	Category    *string
	Frequency   *constants.Frequency
	Target      *int
	Difficulty  *constants.Difficulty
	Color       *string
	Icon        *string
	Description *string
}

// Apply returns a copy of h with the non-nil patch fields applied.
func (p HabitPatch) Apply(h Habit) Habit {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Category != nil {
		h.Category = *p.Category
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.Target != nil {
		h.Target = *p.Target
	}
	if p.Difficulty != nil {
		h.Difficulty = *p.Difficulty
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	return h
}

// WithDefaults fills unset optional fields with their documented defaults.
func (h Habit) WithDefaults() Habit {
	if h.Category == "" {
		h.Category = constants.DefaultCategory
	}
	if h.Frequency == "" {
		h.Frequency = constants.FrequencyDaily
	}
	if h.Target == 0 {
		h.Target = constants.DefaultTarget
	}
	if h.Difficulty == 0 {
		h.Difficulty = constants.DifficultyEasy
	}
	if h.Color == "" {
		h.Color = constants.DefaultHabitColor
	}
	if h.Icon == "" {
		h.Icon = constants.DefaultHabitIcon
	}
	return h
}
