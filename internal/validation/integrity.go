package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/progression"
)

// ConflictType represents the kind of inconsistency found in stored data
type ConflictType string

const (
	ConflictOrphanCheckIn      ConflictType = "orphan_check_in"
	ConflictFutureCheckIn      ConflictType = "future_check_in"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictStaleStreak        ConflictType = "stale_streak"
	ConflictLevelMismatch      ConflictType = "level_mismatch"
	ConflictUnknownAchievement ConflictType = "unknown_achievement"
)

// Conflict describes one inconsistency
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []int // habit, check-in or achievement IDs involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Data is the stored state audited by Audit
type Data struct {
	Habits       []models.Habit
	CheckIns     []models.CheckIn
	Stats        models.UserStats
	Achievements []models.Achievement
	KnownIDs     []int // achievement ids that have a predicate
}

// Audit looks for records that contradict each other. now bounds check-in dates.
func Audit(d Data, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	habits := make(map[int]bool, len(d.Habits))
	names := make(map[string][]int)
	for _, h := range d.Habits {
		habits[h.ID] = true
		key := strings.ToLower(strings.TrimSpace(h.Name))
		names[key] = append(names[key], h.ID)
	}

	dupNames := make([]string, 0)
	for name, ids := range names {
		if len(ids) > 1 {
			dupNames = append(dupNames, name)
		}
	}
	sort.Strings(dupNames)
	for _, name := range dupNames {
		ids := names[name]
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateHabitName,
			Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
			IDs:         ids,
		})
	}

	for _, c := range d.CheckIns {
		if !habits[c.HabitID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanCheckIn,
				Description: fmt.Sprintf("Check-in %d references missing habit %d", c.ID, c.HabitID),
				IDs:         []int{c.ID},
			})
		}
		if c.Date.After(now) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureCheckIn,
				Description: fmt.Sprintf("Check-in %d is dated in the future (%s)", c.ID, c.Date.Format(time.RFC3339)),
				IDs:         []int{c.ID},
			})
		}
	}

	var stale []int
	for id := range d.Stats.CurrentStreaks {
		if !habits[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		sort.Ints(stale)
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictStaleStreak,
			Description: fmt.Sprintf("Streaks recorded for missing habits %v (run 'stats refresh')", stale),
			IDs:         stale,
		})
	}

	if want := progression.LevelFor(d.Stats.Experience); want != d.Stats.Level {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictLevelMismatch,
			Description: fmt.Sprintf("Level %d does not match %d XP (expected level %d)", d.Stats.Level, d.Stats.Experience, want),
		})
	}

	if d.KnownIDs != nil {
		known := make(map[int]bool, len(d.KnownIDs))
		for _, id := range d.KnownIDs {
			known[id] = true
		}
		for _, a := range d.Achievements {
			if !known[a.ID] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictUnknownAchievement,
					Description: fmt.Sprintf("Achievement %d (%s) has no unlock rule and can never unlock", a.ID, a.Name),
					IDs:         []int{a.ID},
				})
			}
		}
	}

	return result
}
