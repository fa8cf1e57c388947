package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitquest/internal/backup"
	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
	"github.com/julianstephens/habitquest/internal/tracker"
)

type Context struct {
	Store    storage.Provider
	Notifier tracker.Notifier
	Clock    func() time.Time

	tracker *tracker.Tracker
}

// Tracker builds the tracker on first use. Commands that run before the store
// is initialized must not call it.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	opts := []tracker.Option{tracker.WithClock(c.Clock)}
	if c.Notifier != nil {
		opts = append(opts, tracker.WithNotifier(c.Notifier))
	}
	t, err := tracker.New(c.Store, opts...)
	if err != nil {
		return nil, err
	}
	c.tracker = t
	return t, nil
}

// ResetTracker drops the cached tracker, e.g. after the store was reopened.
func (c *Context) ResetTracker() {
	c.tracker = nil
}

// SQLitePath reports the database file when the store is SQLite-backed.
func (c *Context) SQLitePath() (string, bool) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return "", false
	}
	return s.GetConfigPath(), true
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on the terminal. Tests replace it.
var Confirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// ResolveHabit finds a habit by numeric id or, failing that, by
// case-insensitive name.
func ResolveHabit(t *tracker.Tracker, ref string) (models.Habit, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return t.Habit(id)
	}

	habits, err := t.Habits()
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", ref, apperrors.ErrNotFound)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp. A bare date keeps the
// current time of day so the check-in hour stays meaningful.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(constants.DateFormat, s, now.Location())
	if err != nil {
		return time.Time{}, apperrors.Invalid("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}
