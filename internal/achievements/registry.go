package achievements

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

// Snapshot is the read-only state an achievement predicate is checked against.
// Stats must already reflect the latest check-in.
type Snapshot struct {
	Stats    models.UserStats
	Habits   []models.Habit
	CheckIns []models.CheckIn
}

// Env carries evaluator settings that some predicates depend on.
type Env struct {
	Location      *time.Location
	EarlyBirdHour int
}

// Predicate reports whether an achievement has been earned.
type Predicate func(snap Snapshot, env Env) bool

// Registry maps achievement ids to their predicates.
type Registry struct {
	predicates map[int]Predicate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{predicates: make(map[int]Predicate)}
}

// Register binds a predicate to an achievement id.
func (r *Registry) Register(id int, p Predicate) error {
	if p == nil {
		return fmt.Errorf("achievement %d: nil predicate", id)
	}
	if _, exists := r.predicates[id]; exists {
		return fmt.Errorf("achievement %d: predicate already registered", id)
	}
	r.predicates[id] = p
	return nil
}

// Lookup returns the predicate for id, if any.
func (r *Registry) Lookup(id int) (Predicate, bool) {
	p, ok := r.predicates[id]
	return p, ok
}

// IDs returns the registered ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.predicates))
	for id := range r.predicates {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Built-in achievement ids.
const (
	FirstStep           = 1
	StreakStarter       = 2
	HabitMaster         = 3
	ConsistencyChampion = 4
	WellnessWarrior     = 5
	EarlyBird           = 6
	PerfectWeek         = 7
	HabitArchitect      = 8
)

// DefaultRegistry returns a registry holding the built-in predicates.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := map[int]Predicate{
		FirstStep:           firstStep,
		StreakStarter:       anyStreakAtLeast(3),
		HabitMaster:         habitCountAtLeast(5),
		ConsistencyChampion: anyStreakAtLeast(7),
		WellnessWarrior:     categoryCheckInsAtLeast(constants.WellnessCategory, 30),
		EarlyBird:           earlyCheckInsAtLeast(5),
		PerfectWeek:         perfectDaysAtLeast(7),
		HabitArchitect:      activeStreaksAtLeast(5),
	}
	for id, p := range builtins {
		// ids are distinct map keys
		_ = r.Register(id, p)
	}
	return r
}

func firstStep(snap Snapshot, _ Env) bool {
	for _, c := range snap.CheckIns {
		if c.Completed {
			return true
		}
	}
	return false
}

func anyStreakAtLeast(n int) Predicate {
	return func(snap Snapshot, _ Env) bool {
		for _, s := range snap.Stats.CurrentStreaks {
			if s >= n {
				return true
			}
		}
		return false
	}
}

func habitCountAtLeast(n int) Predicate {
	return func(snap Snapshot, _ Env) bool {
		return len(snap.Habits) >= n
	}
}

func categoryCheckInsAtLeast(category string, n int) Predicate {
	return func(snap Snapshot, _ Env) bool {
		inCategory := make(map[int]bool)
		for _, h := range snap.Habits {
			if h.Category == category {
				inCategory[h.ID] = true
			}
		}
		count := 0
		for _, c := range snap.CheckIns {
			if c.Completed && inCategory[c.HabitID] {
				count++
			}
		}
		return count >= n
	}
}

func earlyCheckInsAtLeast(n int) Predicate {
	return func(snap Snapshot, env Env) bool {
		loc := env.Location
		if loc == nil {
			loc = time.Local
		}
		count := 0
		for _, c := range snap.CheckIns {
			if c.Completed && c.Date.In(loc).Hour() < env.EarlyBirdHour {
				count++
			}
		}
		return count >= n
	}
}

func perfectDaysAtLeast(n int) Predicate {
	return func(snap Snapshot, _ Env) bool {
		return snap.Stats.PerfectDays >= n
	}
}

func activeStreaksAtLeast(n int) Predicate {
	return func(snap Snapshot, _ Env) bool {
		active := 0
		for _, s := range snap.Stats.CurrentStreaks {
			if s > 0 {
				active++
			}
		}
		return active >= n
	}
}
