package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
)

func validHabit() models.Habit {
	return models.Habit{Name: "Meditate", Category: "Wellness"}.WithDefaults()
}

func TestHabit(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(h *models.Habit)
		wantErr string
	}{
		{name: "valid", mutate: func(h *models.Habit) {}},
		{name: "blank name", mutate: func(h *models.Habit) { h.Name = "   " }, wantErr: "name: must not be blank"},
		{name: "empty name", mutate: func(h *models.Habit) { h.Name = "" }, wantErr: "name"},
		{name: "long name", mutate: func(h *models.Habit) { h.Name = strings.Repeat("x", 101) }, wantErr: "name: must be at most 100 characters"},
		{name: "bad frequency", mutate: func(h *models.Habit) { h.Frequency = "hourly" }, wantErr: "frequency: must be one of"},
		{name: "zero target", mutate: func(h *models.Habit) { h.Target = 0 }, wantErr: "target: must be at least 1"},
		{name: "difficulty too high", mutate: func(h *models.Habit) { h.Difficulty = 4 }, wantErr: "difficulty: must be at most 3"},
		{name: "bad color", mutate: func(h *models.Habit) { h.Color = "blue" }, wantErr: "color: must be a hex color"},
		{name: "empty color", mutate: func(h *models.Habit) { h.Color = "" }},
		{name: "weekly", mutate: func(h *models.Habit) { h.Frequency = constants.FrequencyWeekly }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit()
			tt.mutate(&h)
			err := Habit(h)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Habit() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Habit() expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestCheckIn(t *testing.T) {
	base := models.CheckIn{HabitID: 1, Date: time.Now(), Completed: true, Mood: 3}

	tests := []struct {
		name    string
		mutate  func(c *models.CheckIn)
		wantErr string
	}{
		{name: "valid", mutate: func(c *models.CheckIn) {}},
		{name: "missing habit", mutate: func(c *models.CheckIn) { c.HabitID = 0 }, wantErr: "habitid: must be at least 1"},
		{name: "zero date", mutate: func(c *models.CheckIn) { c.Date = time.Time{} }, wantErr: "date: is required"},
		{name: "mood too low", mutate: func(c *models.CheckIn) { c.Mood = 0 }, wantErr: "mood: must be at least 1"},
		{name: "mood too high", mutate: func(c *models.CheckIn) { c.Mood = 6 }, wantErr: "mood: must be at most 5"},
		{name: "long notes", mutate: func(c *models.CheckIn) { c.Notes = strings.Repeat("n", 1001) }, wantErr: "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := CheckIn(c)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckIn() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CheckIn() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	if err := Settings(models.DefaultSettings()); err != nil {
		t.Fatalf("default settings should be valid: %v", err)
	}

	s := models.DefaultSettings()
	s.Timezone = "UTC"
	if err := Settings(s); err != nil {
		t.Errorf("UTC should be valid: %v", err)
	}

	s.Timezone = "Mars/Olympus"
	if err := Settings(s); err == nil || !strings.Contains(err.Error(), "unknown timezone") {
		t.Errorf("Settings() error = %v, want unknown timezone", err)
	}

	s = models.DefaultSettings()
	s.LookbackDays = 0
	if err := Settings(s); err == nil {
		t.Error("lookback of 0 days should be rejected")
	}

	s = models.DefaultSettings()
	s.EarlyBirdHour = 25
	if err := Settings(s); err == nil {
		t.Error("early bird hour 25 should be rejected")
	}
}
