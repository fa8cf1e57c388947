// Package achievements decides which achievements a user has newly earned.
//
// Definitions come from an embedded YAML catalog; the rule for each one is a
// Predicate registered under the achievement's id. Evaluation itself is pure.
// Unlock adds persistence and only reports unlocks the store accepted.
package achievements

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
)

// Store is the persistence an Evaluator needs to unlock achievements.
type Store interface {
	GetAchievements() ([]models.Achievement, error)
	UnlockAchievement(id int, at time.Time) error
}

// Evaluator checks locked achievements against a snapshot.
type Evaluator struct {
	registry *Registry
	env      Env
	now      func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLocation sets the zone used to read check-in hours.
func WithLocation(loc *time.Location) Option {
	return func(e *Evaluator) {
		if loc != nil {
			e.env.Location = loc
		}
	}
}

// WithEarlyBirdHour sets the hour before which a check-in counts as early.
func WithEarlyBirdHour(hour int) Option {
	return func(e *Evaluator) {
		if hour >= 0 && hour <= 24 {
			e.env.EarlyBirdHour = hour
		}
	}
}

// WithRegistry replaces the built-in predicates.
func WithRegistry(r *Registry) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithClock sets the source of unlock timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator returns an evaluator using the default registry, time.Local and
// the default early bird hour unless overridden.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		registry: DefaultRegistry(),
		env: Env{
			Location:      time.Local,
			EarlyBirdHour: constants.DefaultEarlyBirdHour,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the locked achievements whose predicate holds for snap,
// with UnlockedAt set. Unlocked achievements and ids without a predicate are
// skipped. The input slice is not modified.
func (e *Evaluator) Evaluate(achievements []models.Achievement, snap Snapshot) []models.Achievement {
	var earned []models.Achievement
	at := e.now()

	for _, a := range achievements {
		if a.Unlocked() {
			continue
		}
		pred, ok := e.registry.Lookup(a.ID)
		if !ok {
			continue
		}
		if !pred(snap, e.env) {
			continue
		}
		unlockedAt := at
		a.UnlockedAt = &unlockedAt
		earned = append(earned, a)
	}

	return earned
}

// Unlock evaluates the store's achievements against snap and persists each
// newly earned one. If the achievement list cannot be read nothing is
// reported. A failed unlock is logged and left out of the result; the
// remaining achievements are still processed.
func (e *Evaluator) Unlock(store Store, snap Snapshot) ([]models.Achievement, error) {
	all, err := store.GetAchievements()
	if err != nil {
		return nil, apperrors.Persistence("failed to load achievements", err)
	}

	var unlocked []models.Achievement
	for _, a := range e.Evaluate(all, snap) {
		if err := store.UnlockAchievement(a.ID, *a.UnlockedAt); err != nil {
			if errors.Is(err, apperrors.ErrAlreadyUnlocked) {
				logger.Debug("Achievement already unlocked", "id", a.ID)
			} else {
				logger.Warn("Failed to persist achievement unlock", "id", a.ID, "error", err)
			}
			continue
		}
		logger.Info("Achievement unlocked", "id", a.ID, "name", a.Name, "points", a.Points)
		unlocked = append(unlocked, a)
	}

	return unlocked, nil
}

// Describe formats an achievement for display.
func Describe(a models.Achievement) string {
	return fmt.Sprintf("%s %s (+%d XP)", a.Icon, a.Name, a.Points)
}
