package achievements

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
)

var fixedNow = time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

func newTestEvaluator(opts ...Option) *Evaluator {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	}
	return NewEvaluator(append(base, opts...)...)
}

func mustCatalog(t *testing.T) []models.Achievement {
	t.Helper()
	catalog, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog() failed: %v", err)
	}
	return catalog
}

func only(t *testing.T, id int) []models.Achievement {
	t.Helper()
	for _, a := range mustCatalog(t) {
		if a.ID == id {
			return []models.Achievement{a}
		}
	}
	t.Fatalf("achievement %d not in catalog", id)
	return nil
}

func ids(achievements []models.Achievement) []int {
	out := []int{}
	for _, a := range achievements {
		out = append(out, a.ID)
	}
	return out
}

func habits(n int, category string) []models.Habit {
	hs := make([]models.Habit, n)
	for i := range hs {
		hs[i] = models.Habit{ID: i + 1, Name: "habit", Category: category}
	}
	return hs
}

func checkIns(habitID, n, hour int, completed bool) []models.CheckIn {
	cs := make([]models.CheckIn, n)
	for i := range cs {
		cs[i] = models.CheckIn{
			ID:        i + 1,
			HabitID:   habitID,
			Date:      time.Date(2026, 10, 1+i, hour, 15, 0, 0, time.UTC),
			Completed: completed,
		}
	}
	return cs
}

func statsWith(streaks map[int]int, perfectDays int) models.UserStats {
	s := models.DefaultUserStats()
	for k, v := range streaks {
		s.CurrentStreaks[k] = v
	}
	s.PerfectDays = perfectDays
	return s
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		id   int
		snap Snapshot
		want bool
	}{
		{"first step with completed check-in", FirstStep, Snapshot{CheckIns: checkIns(1, 1, 12, true)}, true},
		{"first step ignores incomplete", FirstStep, Snapshot{CheckIns: checkIns(1, 3, 12, false)}, false},
		{"first step with nothing", FirstStep, Snapshot{}, false},

		{"streak starter at 3", StreakStarter, Snapshot{Stats: statsWith(map[int]int{1: 3}, 0)}, true},
		{"streak starter at 2", StreakStarter, Snapshot{Stats: statsWith(map[int]int{1: 2, 2: 2}, 0)}, false},

		{"habit master with 5 habits", HabitMaster, Snapshot{Habits: habits(5, "General")}, true},
		{"habit master with 4 habits", HabitMaster, Snapshot{Habits: habits(4, "General")}, false},

		{"consistency champion at 7", ConsistencyChampion, Snapshot{Stats: statsWith(map[int]int{4: 7}, 0)}, true},
		{"consistency champion at 6", ConsistencyChampion, Snapshot{Stats: statsWith(map[int]int{4: 6}, 0)}, false},

		{
			"wellness warrior at 30",
			WellnessWarrior,
			Snapshot{Habits: habits(1, "Wellness"), CheckIns: checkIns(1, 30, 12, true)},
			true,
		},
		{
			"wellness warrior at 29",
			WellnessWarrior,
			Snapshot{Habits: habits(1, "Wellness"), CheckIns: checkIns(1, 29, 12, true)},
			false,
		},
		{
			"wellness warrior ignores other categories",
			WellnessWarrior,
			Snapshot{Habits: habits(1, "Fitness"), CheckIns: checkIns(1, 40, 12, true)},
			false,
		},
		{
			"wellness warrior ignores check-ins of deleted habits",
			WellnessWarrior,
			Snapshot{Habits: habits(1, "Wellness"), CheckIns: checkIns(2, 40, 12, true)},
			false,
		},

		{"perfect week at 7", PerfectWeek, Snapshot{Stats: statsWith(nil, 7)}, true},
		{"perfect week at 6", PerfectWeek, Snapshot{Stats: statsWith(nil, 6)}, false},

		{
			"habit architect with 5 active streaks",
			HabitArchitect,
			Snapshot{Stats: statsWith(map[int]int{1: 1, 2: 1, 3: 2, 4: 9, 5: 1}, 0)},
			true,
		},
		{
			"habit architect ignores zero streaks",
			HabitArchitect,
			Snapshot{Stats: statsWith(map[int]int{1: 1, 2: 1, 3: 2, 4: 9, 5: 0, 6: 0}, 0)},
			false,
		},
	}

	e := newTestEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := len(e.Evaluate(only(t, tt.id), tt.snap)) == 1
			if got != tt.want {
				t.Errorf("achievement %d unlocked = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestEarlyBird(t *testing.T) {
	e := newTestEvaluator()
	wellness := habits(1, "Wellness")

	five := append(checkIns(1, 5, 7, true), models.CheckIn{
		HabitID: 1, Date: time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC), Completed: true,
	})
	if got := e.Evaluate(only(t, EarlyBird), Snapshot{Habits: wellness, CheckIns: five}); len(got) != 1 {
		t.Errorf("five early check-ins should unlock Early Bird, got %v", ids(got))
	}

	four := append(checkIns(1, 4, 7, true), models.CheckIn{
		HabitID: 1, Date: time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC), Completed: true,
	})
	if got := e.Evaluate(only(t, EarlyBird), Snapshot{Habits: wellness, CheckIns: four}); len(got) != 0 {
		t.Errorf("four early check-ins should not unlock Early Bird, got %v", ids(got))
	}

	notDone := checkIns(1, 6, 7, false)
	if got := e.Evaluate(only(t, EarlyBird), Snapshot{CheckIns: notDone}); len(got) != 0 {
		t.Errorf("incomplete check-ins should not count, got %v", ids(got))
	}
}

func TestEarlyBirdUsesLocation(t *testing.T) {
	// 13:00 UTC is 06:00 in Los Angeles during daylight time
	cs := checkIns(1, 5, 13, true)

	utc := newTestEvaluator()
	if got := utc.Evaluate(only(t, EarlyBird), Snapshot{CheckIns: cs}); len(got) != 0 {
		t.Errorf("13:00 UTC should not be early in UTC")
	}

	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	local := newTestEvaluator(WithLocation(la))
	if got := local.Evaluate(only(t, EarlyBird), Snapshot{CheckIns: cs}); len(got) != 1 {
		t.Errorf("06:00 local should be early in Los Angeles")
	}
}

func TestWithEarlyBirdHour(t *testing.T) {
	cs := checkIns(1, 5, 9, true)

	if got := newTestEvaluator().Evaluate(only(t, EarlyBird), Snapshot{CheckIns: cs}); len(got) != 0 {
		t.Error("09:00 should not be early with the default cutoff")
	}
	if got := newTestEvaluator(WithEarlyBirdHour(10)).Evaluate(only(t, EarlyBird), Snapshot{CheckIns: cs}); len(got) != 1 {
		t.Error("09:00 should be early with a 10:00 cutoff")
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	e := newTestEvaluator()
	snap := Snapshot{Stats: statsWith(map[int]int{1: 3}, 0)}
	achievements := only(t, StreakStarter)

	first := e.Evaluate(achievements, snap)
	if diff := cmp.Diff([]int{StreakStarter}, ids(first)); diff != "" {
		t.Fatalf("first evaluation mismatch (-want +got):\n%s", diff)
	}
	if first[0].UnlockedAt == nil || !first[0].UnlockedAt.Equal(fixedNow) {
		t.Errorf("UnlockedAt = %v, want %v", first[0].UnlockedAt, fixedNow)
	}
	if achievements[0].Unlocked() {
		t.Error("Evaluate must not modify its input")
	}

	second := e.Evaluate(first, snap)
	if len(second) != 0 {
		t.Errorf("re-evaluating unlocked achievements returned %v", ids(second))
	}
}

func TestEvaluateUnknownID(t *testing.T) {
	e := newTestEvaluator()
	unknown := []models.Achievement{{ID: 99, Name: "Mystery", Category: constants.CategoryMilestone}}
	snap := Snapshot{
		Stats:    statsWith(map[int]int{1: 50}, 50),
		Habits:   habits(10, "Wellness"),
		CheckIns: checkIns(1, 30, 6, true),
	}
	if got := e.Evaluate(unknown, snap); len(got) != 0 {
		t.Errorf("unknown id unlocked: %v", ids(got))
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	e := newTestEvaluator()
	snap := Snapshot{
		Stats:    statsWith(map[int]int{1: 7, 2: 1, 3: 1, 4: 1, 5: 1}, 7),
		Habits:   habits(5, "General"),
		CheckIns: checkIns(1, 5, 7, true),
	}

	forward := mustCatalog(t)
	reversed := make([]models.Achievement, len(forward))
	for i, a := range forward {
		reversed[len(forward)-1-i] = a
	}

	got := ids(e.Evaluate(forward, snap))
	want := []int{FirstStep, StreakStarter, HabitMaster, ConsistencyChampion, EarlyBird, PerfectWeek, HabitArchitect}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
	}

	back := ids(e.Evaluate(reversed, snap))
	if len(back) != len(want) {
		t.Errorf("reversed catalog unlocked %v, want %d achievements", back, len(want))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	always := func(Snapshot, Env) bool { return true }

	if err := r.Register(42, always); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := r.Register(42, always); err == nil {
		t.Error("expected error registering a duplicate id")
	}
	if err := r.Register(43, nil); err == nil {
		t.Error("expected error registering a nil predicate")
	}
	if diff := cmp.Diff([]int{42}, r.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	e := newTestEvaluator(WithRegistry(r))
	got := e.Evaluate([]models.Achievement{{ID: 42}, {ID: FirstStep}}, Snapshot{})
	if diff := cmp.Diff([]int{42}, ids(got)); diff != "" {
		t.Errorf("custom registry mismatch (-want +got):\n%s", diff)
	}
}

type fakeStore struct {
	achievements []models.Achievement
	listErr      error
	unlockErr    map[int]error
	unlocked     map[int]time.Time
}

func (f *fakeStore) GetAchievements() ([]models.Achievement, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.achievements, nil
}

func (f *fakeStore) UnlockAchievement(id int, at time.Time) error {
	if err := f.unlockErr[id]; err != nil {
		return err
	}
	if f.unlocked == nil {
		f.unlocked = make(map[int]time.Time)
	}
	f.unlocked[id] = at
	return nil
}

func TestUnlock(t *testing.T) {
	snap := Snapshot{
		Stats:    statsWith(map[int]int{1: 3}, 0),
		CheckIns: checkIns(1, 3, 12, true),
	}

	t.Run("persists qualifying achievements", func(t *testing.T) {
		store := &fakeStore{achievements: mustCatalog(t)}
		got, err := newTestEvaluator().Unlock(store, snap)
		if err != nil {
			t.Fatalf("Unlock() failed: %v", err)
		}
		if diff := cmp.Diff([]int{FirstStep, StreakStarter}, ids(got)); diff != "" {
			t.Errorf("Unlock() mismatch (-want +got):\n%s", diff)
		}
		if len(store.unlocked) != 2 || !store.unlocked[FirstStep].Equal(fixedNow) {
			t.Errorf("store unlocked = %v", store.unlocked)
		}
	})

	t.Run("fails closed when the list cannot be read", func(t *testing.T) {
		store := &fakeStore{listErr: errors.New("connection reset")}
		got, err := newTestEvaluator().Unlock(store, snap)
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, apperrors.ErrPersistence) {
			t.Errorf("error = %v, want ErrPersistence", err)
		}
		if len(got) != 0 {
			t.Errorf("Unlock() reported %v on failure", ids(got))
		}
	})

	t.Run("skips failed persists", func(t *testing.T) {
		store := &fakeStore{
			achievements: mustCatalog(t),
			unlockErr:    map[int]error{FirstStep: errors.New("disk full")},
		}
		got, err := newTestEvaluator().Unlock(store, snap)
		if err != nil {
			t.Fatalf("Unlock() failed: %v", err)
		}
		if diff := cmp.Diff([]int{StreakStarter}, ids(got)); diff != "" {
			t.Errorf("Unlock() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips achievements unlocked concurrently", func(t *testing.T) {
		store := &fakeStore{
			achievements: mustCatalog(t),
			unlockErr:    map[int]error{StreakStarter: apperrors.ErrAlreadyUnlocked},
		}
		got, err := newTestEvaluator().Unlock(store, snap)
		if err != nil {
			t.Fatalf("Unlock() failed: %v", err)
		}
		if diff := cmp.Diff([]int{FirstStep}, ids(got)); diff != "" {
			t.Errorf("Unlock() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("second run unlocks nothing", func(t *testing.T) {
		catalog := mustCatalog(t)
		first, _ := newTestEvaluator().Unlock(&fakeStore{achievements: catalog}, snap)
		for _, u := range first {
			for i := range catalog {
				if catalog[i].ID == u.ID {
					catalog[i].UnlockedAt = u.UnlockedAt
				}
			}
		}
		second, err := newTestEvaluator().Unlock(&fakeStore{achievements: catalog}, snap)
		if err != nil {
			t.Fatalf("Unlock() failed: %v", err)
		}
		if len(second) != 0 {
			t.Errorf("second Unlock() reported %v", ids(second))
		}
	})
}
