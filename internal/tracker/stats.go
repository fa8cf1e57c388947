package tracker

import (
	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/progression"
	"github.com/julianstephens/habitquest/internal/stats"
)

func (t *Tracker) derive(snap achievements.Snapshot) (models.UserStats, error) {
	st := stats.Derive(snap.Stats, snap.Habits, snap.CheckIns, t.Now(), t.settings.LookbackDays)
	if err := t.store.SaveUserStats(st); err != nil {
		return models.UserStats{}, err
	}
	return st, nil
}

func (t *Tracker) refresh() (models.UserStats, error) {
	snap, err := t.snapshot()
	if err != nil {
		return models.UserStats{}, err
	}
	return t.derive(snap)
}

func (t *Tracker) Stats() (models.UserStats, error) {
	return t.store.GetUserStats()
}

// RefreshStats recomputes every derived field from the stored history.
func (t *Tracker) RefreshStats() (models.UserStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refresh()
}

// ResetStats puts the stats back to their defaults. Habits, check-ins,
// achievements and the experience ledger are kept.
func (t *Tracker) ResetStats() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.SaveUserStats(models.DefaultUserStats()); err != nil {
		return err
	}
	logger.Info("User stats reset")
	return nil
}

func (t *Tracker) TodayProgress() (stats.Today, error) {
	snap, err := t.snapshot()
	if err != nil {
		return stats.Today{}, err
	}
	return stats.TodayProgress(snap.Habits, snap.CheckIns, t.Now()), nil
}

func (t *Tracker) LevelProgress() (progression.LevelProgress, error) {
	st, err := t.store.GetUserStats()
	if err != nil {
		return progression.LevelProgress{}, err
	}
	return progression.Progress(st), nil
}

// ExperienceHistory returns the newest ledger events first; limit <= 0
// returns all of them.
func (t *Tracker) ExperienceHistory(limit int) ([]models.ExperienceEvent, error) {
	return t.store.GetExperienceEvents(limit)
}
