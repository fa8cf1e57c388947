package tracker

import (
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/stats"
	"github.com/julianstephens/habitquest/internal/validation"
)

// CreateHabit fills in defaults, validates and stores the habit, refreshes
// the stats, awards the creation bonus and evaluates achievements.
func (t *Tracker) CreateHabit(h models.Habit) (CreateResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h = h.WithDefaults()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = t.Now()
	}
	if err := validation.Habit(h); err != nil {
		return CreateResult{}, err
	}

	stored, err := t.store.AddHabit(h)
	if err != nil {
		return CreateResult{}, err
	}
	logger.Info("Habit created", "id", stored.ID, "name", stored.Name)
	out := CreateResult{Habit: stored}

	if _, err := t.refresh(); err != nil {
		return out, err
	}
	res, err := t.award(constants.XPHabitCreated, constants.ReasonHabitCreated, stored.ID)
	if err != nil {
		return out, err
	}
	out.Level.observe(res)

	snap, err := t.snapshot()
	if err != nil {
		return out, err
	}
	out.Unlocked, err = t.unlock(snap, &out.Level)
	return out, err
}

// UpdateHabit applies patch to the stored habit and re-derives the stats.
// The id and creation time never change.
func (t *Tracker) UpdateHabit(id int, patch models.HabitPatch) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := t.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	updated := patch.Apply(h)
	updated.ID = h.ID
	updated.CreatedAt = h.CreatedAt
	if err := validation.Habit(updated); err != nil {
		return models.Habit{}, err
	}
	if err := t.store.UpdateHabit(updated); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit updated", "id", id)
	// Frequency feeds the completion rate.
	if _, err := t.refresh(); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteHabit removes the habit and its check-ins, then re-derives the stats
// so the habit drops out of the streak maps.
func (t *Tracker) DeleteHabit(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteHabit(id); err != nil {
		return err
	}
	logger.Info("Habit deleted", "id", id)
	_, err := t.refresh()
	return err
}

func (t *Tracker) Habits() ([]models.Habit, error) {
	return t.store.GetAllHabits()
}

func (t *Tracker) Habit(id int) (models.Habit, error) {
	return t.store.GetHabit(id)
}

func (t *Tracker) Categories() ([]string, error) {
	habits, err := t.store.GetAllHabits()
	if err != nil {
		return nil, err
	}
	return stats.Categories(habits), nil
}
