// Package storagetest holds behavior tests every storage.Provider must pass.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

// Factory returns a fresh, initialized store. It should register its own cleanup.
type Factory func(t *testing.T) storage.Provider

var base = time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)

// Run exercises the full Provider contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Habits", func(t *testing.T) { testHabits(t, newStore(t)) })
	t.Run("HabitIDs", func(t *testing.T) { testHabitIDs(t, newStore(t)) })
	t.Run("DeleteHabitCascades", func(t *testing.T) { testDeleteCascade(t, newStore(t)) })
	t.Run("CheckIns", func(t *testing.T) { testCheckIns(t, newStore(t)) })
	t.Run("UserStats", func(t *testing.T) { testUserStats(t, newStore(t)) })
	t.Run("ExperienceEvents", func(t *testing.T) { testExperience(t, newStore(t)) })
	t.Run("Achievements", func(t *testing.T) { testAchievements(t, newStore(t)) })
}

func habit(name string) models.Habit {
	return models.Habit{
		Name:        name,
		Category:    "Wellness",
		Frequency:   constants.FrequencyDaily,
		Target:      1,
		Difficulty:  constants.DifficultyMedium,
		Color:       "#00AA88",
		Icon:        "🧘",
		Description: "ten minutes",
		CreatedAt:   base,
	}
}

func mustAddHabit(t *testing.T, s storage.Provider, name string) models.Habit {
	t.Helper()
	h, err := s.AddHabit(habit(name))
	if err != nil {
		t.Fatalf("AddHabit(%q) failed: %v", name, err)
	}
	return h
}

func mustAddCheckIn(t *testing.T, s storage.Provider, habitID int, at time.Time, completed bool) models.CheckIn {
	t.Helper()
	c, err := s.AddCheckIn(models.CheckIn{HabitID: habitID, Date: at, Completed: completed, Mood: 4, Notes: "ok"})
	if err != nil {
		t.Fatalf("AddCheckIn() failed: %v", err)
	}
	return c
}

func testSettings(t *testing.T, s storage.Provider) {
	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if diff := cmp.Diff(models.DefaultSettings(), got); diff != "" {
		t.Errorf("initial settings mismatch (-want +got):\n%s", diff)
	}

	want := models.Settings{Timezone: "America/Chicago", LookbackDays: 60, EarlyBirdHour: 7, NotificationsEnabled: false}
	if err := s.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	got, err = s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved settings mismatch (-want +got):\n%s", diff)
	}
}

func testHabits(t *testing.T, s storage.Provider) {
	first := mustAddHabit(t, s, "Meditate")
	second := mustAddHabit(t, s, "Read")
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}

	got, err := s.GetHabit(first.ID)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if diff := cmp.Diff(first, got); diff != "" {
		t.Errorf("GetHabit() mismatch (-want +got):\n%s", diff)
	}

	first.Name = "Meditate longer"
	first.Target = 2
	first.Frequency = constants.FrequencyWeekly
	if err := s.UpdateHabit(first); err != nil {
		t.Fatalf("UpdateHabit() failed: %v", err)
	}

	all, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() failed: %v", err)
	}
	if diff := cmp.Diff([]models.Habit{first, second}, all); diff != "" {
		t.Errorf("GetAllHabits() mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.GetHabit(99); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit(99) error = %v, want ErrNotFound", err)
	}
	missing := habit("ghost")
	missing.ID = 99
	if err := s.UpdateHabit(missing); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateHabit(99) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteHabit(99); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("DeleteHabit(99) error = %v, want ErrNotFound", err)
	}
}

func testHabitIDs(t *testing.T, s storage.Provider) {
	mustAddHabit(t, s, "a")
	mustAddHabit(t, s, "b")
	mustAddHabit(t, s, "c")
	if err := s.DeleteHabit(2); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}
	if h := mustAddHabit(t, s, "d"); h.ID != 4 {
		t.Errorf("next id = %d, want 4 (max + 1)", h.ID)
	}
}

func testDeleteCascade(t *testing.T, s storage.Provider) {
	keep := mustAddHabit(t, s, "keep")
	drop := mustAddHabit(t, s, "drop")
	mustAddCheckIn(t, s, keep.ID, base, true)
	c := mustAddCheckIn(t, s, drop.ID, base, true)
	mustAddCheckIn(t, s, drop.ID, base.Add(24*time.Hour), true)

	if err := s.DeleteHabit(drop.ID); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}

	if _, err := s.GetHabit(drop.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("deleted habit still readable: %v", err)
	}
	if _, err := s.GetCheckIn(c.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("check-in of deleted habit still readable: %v", err)
	}
	all, err := s.GetAllCheckIns()
	if err != nil {
		t.Fatalf("GetAllCheckIns() failed: %v", err)
	}
	if len(all) != 1 || all[0].HabitID != keep.ID {
		t.Errorf("remaining check-ins = %+v, want only habit %d", all, keep.ID)
	}
}

func testCheckIns(t *testing.T, s storage.Provider) {
	h := mustAddHabit(t, s, "Stretch")
	other := mustAddHabit(t, s, "Walk")

	if _, err := s.AddCheckIn(models.CheckIn{HabitID: 42, Date: base, Completed: true, Mood: 3}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("AddCheckIn() for missing habit error = %v, want ErrNotFound", err)
	}

	local := time.FixedZone("PDT", -7*3600)
	later := mustAddCheckIn(t, s, h.ID, time.Date(2026, 10, 19, 6, 45, 0, 0, local), true)
	earlier := mustAddCheckIn(t, s, h.ID, base.Add(-48*time.Hour), false)
	mustAddCheckIn(t, s, other.ID, base, true)

	if later.ID != 1 || earlier.ID != 2 {
		t.Errorf("check-in ids = %d, %d, want 1, 2", later.ID, earlier.ID)
	}

	got, err := s.GetCheckIn(later.ID)
	if err != nil {
		t.Fatalf("GetCheckIn() failed: %v", err)
	}
	if diff := cmp.Diff(later, got); diff != "" {
		t.Errorf("GetCheckIn() mismatch (-want +got):\n%s", diff)
	}

	forHabit, err := s.GetCheckInsForHabit(h.ID)
	if err != nil {
		t.Fatalf("GetCheckInsForHabit() failed: %v", err)
	}
	if len(forHabit) != 2 || forHabit[0].ID != earlier.ID || forHabit[1].ID != later.ID {
		t.Errorf("GetCheckInsForHabit() = %+v, want check-ins %d then %d", forHabit, earlier.ID, later.ID)
	}

	none, err := s.GetCheckInsForHabit(77)
	if err != nil || len(none) != 0 {
		t.Errorf("GetCheckInsForHabit(77) = %v, %v, want empty", none, err)
	}

	earlier.Completed = true
	earlier.Notes = "made up for it"
	earlier.Mood = 5
	if err := s.UpdateCheckIn(earlier); err != nil {
		t.Fatalf("UpdateCheckIn() failed: %v", err)
	}
	got, err = s.GetCheckIn(earlier.ID)
	if err != nil {
		t.Fatalf("GetCheckIn() failed: %v", err)
	}
	if diff := cmp.Diff(earlier, got); diff != "" {
		t.Errorf("updated check-in mismatch (-want +got):\n%s", diff)
	}

	if err := s.UpdateCheckIn(models.CheckIn{ID: 500, Mood: 3}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateCheckIn(500) error = %v, want ErrNotFound", err)
	}

	all, err := s.GetAllCheckIns()
	if err != nil {
		t.Fatalf("GetAllCheckIns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("GetAllCheckIns() returned %d, want 3", len(all))
	}
}

func testUserStats(t *testing.T, s storage.Provider) {
	got, err := s.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if diff := cmp.Diff(models.DefaultUserStats(), got); diff != "" {
		t.Errorf("initial stats mismatch (-want +got):\n%s", diff)
	}

	last := base.Add(-time.Hour)
	want := models.UserStats{
		Level:            3,
		Experience:       215,
		TotalDaysTracked: 12,
		CurrentStreaks:   map[int]int{1: 4, 2: 0},
		LongestStreaks:   map[int]int{1: 9, 2: 3},
		CompletionRate:   0.75,
		TotalHabits:      2,
		TotalCheckIns:    20,
		PerfectDays:      7,
		LastActivityDate: &last,
	}
	if err := s.SaveUserStats(want); err != nil {
		t.Fatalf("SaveUserStats() failed: %v", err)
	}
	got, err = s.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved stats mismatch (-want +got):\n%s", diff)
	}

	if err := s.SaveUserStats(models.DefaultUserStats()); err != nil {
		t.Fatalf("SaveUserStats(default) failed: %v", err)
	}
	got, err = s.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if diff := cmp.Diff(models.DefaultUserStats(), got); diff != "" {
		t.Errorf("reset stats mismatch (-want +got):\n%s", diff)
	}
}

func testExperience(t *testing.T, s storage.Provider) {
	events := []models.ExperienceEvent{
		{ID: "0b6f7c1e-1111-4c4c-9a9a-000000000001", Reason: constants.ReasonHabitCreated, Points: 10, RefID: 1, CreatedAt: base},
		{ID: "0b6f7c1e-1111-4c4c-9a9a-000000000002", Reason: constants.ReasonHabitCompleted, Points: 5, RefID: 1, CreatedAt: base.Add(time.Minute)},
		{ID: "0b6f7c1e-1111-4c4c-9a9a-000000000003", Reason: constants.ReasonAchievementUnlocked, Points: 10, RefID: 1, CreatedAt: base.Add(2 * time.Minute)},
	}

	st := models.DefaultUserStats()
	for _, e := range events {
		st.Experience += e.Points
		if err := s.RecordExperience(st, e); err != nil {
			t.Fatalf("RecordExperience() failed: %v", err)
		}
	}

	got, err := s.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if got.Experience != 25 {
		t.Errorf("experience = %d, want 25", got.Experience)
	}

	recent, err := s.GetExperienceEvents(2)
	if err != nil {
		t.Fatalf("GetExperienceEvents() failed: %v", err)
	}
	if diff := cmp.Diff([]models.ExperienceEvent{events[2], events[1]}, recent); diff != "" {
		t.Errorf("GetExperienceEvents(2) mismatch (-want +got):\n%s", diff)
	}

	all, err := s.GetExperienceEvents(0)
	if err != nil {
		t.Fatalf("GetExperienceEvents(0) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("GetExperienceEvents(0) returned %d, want 3", len(all))
	}

	bad := st.Clone()
	bad.Experience = 999
	if err := s.RecordExperience(bad, events[0]); err == nil {
		t.Error("recording a duplicate event id should fail")
	}
	after, err := s.GetUserStats()
	if err != nil {
		t.Fatalf("GetUserStats() failed: %v", err)
	}
	if after.Experience != 25 {
		t.Errorf("failed RecordExperience changed stats: experience = %d", after.Experience)
	}
}

func testAchievements(t *testing.T, s storage.Provider) {
	defs := []models.Achievement{
		{ID: 1, Name: "First Step", Description: "d1", Icon: "👣", Category: constants.CategoryMilestone, Points: 10},
		{ID: 2, Name: "Streak Starter", Description: "d2", Icon: "🔥", Category: constants.CategoryStreak, Points: 25},
	}
	if err := s.SeedAchievements(defs); err != nil {
		t.Fatalf("SeedAchievements() failed: %v", err)
	}

	got, err := s.GetAchievements()
	if err != nil {
		t.Fatalf("GetAchievements() failed: %v", err)
	}
	if diff := cmp.Diff(defs, got); diff != "" {
		t.Errorf("seeded achievements mismatch (-want +got):\n%s", diff)
	}

	at := base.Add(3 * time.Hour)
	if err := s.UnlockAchievement(1, at); err != nil {
		t.Fatalf("UnlockAchievement() failed: %v", err)
	}
	if err := s.UnlockAchievement(1, at.Add(time.Hour)); !errors.Is(err, apperrors.ErrAlreadyUnlocked) {
		t.Errorf("second UnlockAchievement() error = %v, want ErrAlreadyUnlocked", err)
	}
	if err := s.UnlockAchievement(9, at); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UnlockAchievement(9) error = %v, want ErrNotFound", err)
	}

	renamed := append([]models.Achievement(nil), defs...)
	renamed[0].Name = "First Steps"
	if err := s.SeedAchievements(renamed); err != nil {
		t.Fatalf("re-seeding failed: %v", err)
	}

	got, err = s.GetAchievements()
	if err != nil {
		t.Fatalf("GetAchievements() failed: %v", err)
	}
	if got[0].Name != "First Steps" {
		t.Errorf("re-seed did not refresh name: %q", got[0].Name)
	}
	if got[0].UnlockedAt == nil || !got[0].UnlockedAt.Equal(at) {
		t.Errorf("UnlockedAt = %v, want %v kept across re-seed", got[0].UnlockedAt, at)
	}
	if got[1].Unlocked() {
		t.Error("achievement 2 should still be locked")
	}
}
