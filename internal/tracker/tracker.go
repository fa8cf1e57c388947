// Package tracker is the application service behind every command. It owns
// the ordering of the check-in flow: persist the check-in, recompute streaks,
// persist stats, award experience, then evaluate achievements against the
// updated stats and award their points.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/notifier"
	"github.com/julianstephens/habitquest/internal/progression"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/utils"
	"github.com/julianstephens/habitquest/internal/validation"
)

// Notifier delivers user-facing messages. notifier.Notifier satisfies it.
type Notifier interface {
	Notify(text string) error
}

type Tracker struct {
	mu       sync.Mutex
	store    storage.Provider
	notifier Notifier
	now      func() time.Time

	// cfgMu guards the fields below. Writers also hold mu, so flows running
	// under mu may read them directly.
	cfgMu     sync.RWMutex
	settings  models.Settings
	loc       *time.Location
	evaluator *achievements.Evaluator
}

type Option func(*Tracker)

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New reads the settings from store and builds an evaluator that honors the
// configured timezone and early bird hour.
func New(store storage.Provider, opts ...Option) (*Tracker, error) {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	settings, err := store.GetSettings()
	if err != nil {
		return nil, err
	}
	if err := t.configure(settings); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) configure(settings models.Settings) error {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return apperrors.Invalid("unknown timezone %q", settings.Timezone)
	}
	t.cfgMu.Lock()
	defer t.cfgMu.Unlock()
	t.settings = settings
	t.loc = loc
	t.evaluator = achievements.NewEvaluator(
		achievements.WithLocation(loc),
		achievements.WithEarlyBirdHour(settings.EarlyBirdHour),
		achievements.WithClock(t.now),
	)
	return nil
}

// Bootstrap seeds the achievement catalog. It is safe to run repeatedly.
func (t *Tracker) Bootstrap() error {
	catalog, err := achievements.Catalog()
	if err != nil {
		return err
	}
	return t.store.SeedAchievements(catalog)
}

func (t *Tracker) Now() time.Time {
	return t.now().In(t.Location())
}

func (t *Tracker) Location() *time.Location {
	t.cfgMu.RLock()
	defer t.cfgMu.RUnlock()
	return t.loc
}

func (t *Tracker) Settings() models.Settings {
	t.cfgMu.RLock()
	defer t.cfgMu.RUnlock()
	return t.settings
}

// SaveSettings validates and stores settings, then rebuilds the evaluator.
// It waits for any running flow to finish.
func (t *Tracker) SaveSettings(settings models.Settings) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := validation.Settings(settings); err != nil {
		return err
	}
	if err := t.store.SaveSettings(settings); err != nil {
		return err
	}
	return t.configure(settings)
}

func (t *Tracker) snapshot() (achievements.Snapshot, error) {
	var snap achievements.Snapshot
	var g errgroup.Group

	g.Go(func() error {
		var err error
		snap.Habits, err = t.store.GetAllHabits()
		return err
	})
	g.Go(func() error {
		var err error
		snap.CheckIns, err = t.store.GetAllCheckIns()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Stats, err = t.store.GetUserStats()
		return err
	})

	if err := g.Wait(); err != nil {
		return achievements.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

func (t *Tracker) notify(text string) {
	if t.notifier == nil || !t.settings.NotificationsEnabled {
		return
	}
	if err := t.notifier.Notify(text); err != nil {
		logger.Debug("Notification not delivered", "error", err)
	}
}

// AwardExperience adds points, persisting the stats and a ledger event in one
// write. A level-up is notified.
func (t *Tracker) AwardExperience(points int, reason constants.ExperienceReason, refID int) (progression.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.award(points, reason, refID)
}

func (t *Tracker) award(points int, reason constants.ExperienceReason, refID int) (progression.Result, error) {
	if points < 0 {
		return progression.Result{}, apperrors.Invalid("points must not be negative, got %d", points)
	}

	st, err := t.store.GetUserStats()
	if err != nil {
		return progression.Result{}, err
	}

	res := progression.AddExperience(st.Experience, st.Level, points)
	event := models.ExperienceEvent{
		ID:        uuid.NewString(),
		Reason:    reason,
		Points:    points,
		RefID:     refID,
		CreatedAt: t.Now(),
	}
	if err := t.store.RecordExperience(progression.Apply(st, res), event); err != nil {
		return progression.Result{}, err
	}

	logger.Debug("Experience awarded", "points", points, "reason", reason, "ref", refID, "total", res.Experience)
	if res.LeveledUp {
		logger.Info("Level up", "level", res.NewLevel)
		t.notify(notifier.LevelUpMessage(res.NewLevel))
	}
	return res, nil
}

// unlock evaluates snap, then awards and notifies each persisted unlock.
// Award failures do not stop the remaining awards; they are joined into the
// returned error.
func (t *Tracker) unlock(snap achievements.Snapshot, lvl *LevelChange) ([]models.Achievement, error) {
	unlocked, err := t.evaluator.Unlock(t.store, snap)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, a := range unlocked {
		logger.Info("Achievement unlocked", "id", a.ID, "name", a.Name)
		t.notify(notifier.AchievementMessage(a))
		res, err := t.award(a.Points, constants.ReasonAchievementUnlocked, a.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("award for achievement %d: %w", a.ID, err))
			continue
		}
		lvl.observe(res)
	}
	return unlocked, errors.Join(errs...)
}

// CheckAchievements evaluates the current state and awards anything newly earned.
func (t *Tracker) CheckAchievements() ([]models.Achievement, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.snapshot()
	if err != nil {
		return nil, err
	}
	var lvl LevelChange
	return t.unlock(snap, &lvl)
}

func (t *Tracker) Achievements() ([]models.Achievement, error) {
	return t.store.GetAchievements()
}
