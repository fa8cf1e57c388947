package tracker

import (
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/progression"
	"github.com/julianstephens/habitquest/internal/streak"
	"github.com/julianstephens/habitquest/internal/utils"
	"github.com/julianstephens/habitquest/internal/validation"
)

// CompleteHabit records a check-in for habitID and runs the dependent updates
// in order. Achievement evaluation always sees the streaks and stats that
// include this check-in.
func (t *Tracker) CompleteHabit(habitID int, in CheckInInput) (CompletionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := models.CheckIn{
		HabitID:   habitID,
		Date:      t.Now(),
		Completed: in.Completed,
		Notes:     in.Notes,
		Mood:      in.Mood,
	}
	if in.Date != nil {
		c.Date = *in.Date
	}
	if c.Mood == 0 {
		c.Mood = constants.DefaultMood
	}
	if err := validation.CheckIn(c); err != nil {
		return CompletionResult{}, err
	}

	stored, err := t.store.AddCheckIn(c)
	if err != nil {
		return CompletionResult{}, err
	}
	logger.Info("Check-in recorded", "id", stored.ID, "habit", habitID, "completed", stored.Completed)
	out := CompletionResult{CheckIn: stored}

	snap, err := t.snapshot()
	if err != nil {
		return out, err
	}
	out.Streak = streak.ForHabit(habitID, snap.CheckIns, t.Now(), t.settings.LookbackDays)

	snap.Stats, err = t.derive(snap)
	if err != nil {
		return out, err
	}

	if stored.Completed {
		res, err := t.award(constants.XPHabitCompleted, constants.ReasonHabitCompleted, habitID)
		if err != nil {
			return out, err
		}
		out.Level.observe(res)
		snap.Stats = progression.Apply(snap.Stats, res)
	}

	out.Unlocked, err = t.unlock(snap, &out.Level)
	return out, err
}

// UpdateCheckIn changes the notes, mood or completion of a check-in and
// re-derives the stats. The date cannot change.
func (t *Tracker) UpdateCheckIn(id int, patch models.CheckInPatch) (models.CheckIn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.store.GetCheckIn(id)
	if err != nil {
		return models.CheckIn{}, err
	}
	updated := patch.Apply(c)
	if err := validation.CheckIn(updated); err != nil {
		return models.CheckIn{}, err
	}
	if err := t.store.UpdateCheckIn(updated); err != nil {
		return models.CheckIn{}, err
	}
	logger.Info("Check-in updated", "id", id)

	if _, err := t.refresh(); err != nil {
		return updated, err
	}
	return updated, nil
}

// CheckIns returns the check-ins of one habit, or of every habit when
// habitID is 0.
func (t *Tracker) CheckIns(habitID int) ([]models.CheckIn, error) {
	if habitID == 0 {
		return t.store.GetAllCheckIns()
	}
	return t.store.GetCheckInsForHabit(habitID)
}

func (t *Tracker) TodayCheckIns() ([]models.CheckIn, error) {
	all, err := t.store.GetAllCheckIns()
	if err != nil {
		return nil, err
	}
	loc := t.Location()
	today := utils.DayKey(t.Now(), loc)

	var out []models.CheckIn
	for _, c := range all {
		if utils.DayKey(c.Date, loc) == today {
			out = append(out, c)
		}
	}
	return out, nil
}

// HabitStreaks computes the streaks of one habit. A habit without check-ins,
// including one that does not exist, has zero streaks.
func (t *Tracker) HabitStreaks(habitID int) (streak.Result, error) {
	checkIns, err := t.store.GetCheckInsForHabit(habitID)
	if err != nil {
		return streak.Result{}, err
	}
	return streak.ForHabit(habitID, checkIns, t.Now(), t.Settings().LookbackDays), nil
}

// AllTimeLongest scans the whole history of a habit for its longest run.
func (t *Tracker) AllTimeLongest(habitID int) (int, error) {
	checkIns, err := t.store.GetCheckInsForHabit(habitID)
	if err != nil {
		return 0, err
	}
	return streak.LongestRun(streak.CompletedDates(habitID, checkIns), t.Location()), nil
}
