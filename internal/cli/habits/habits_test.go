package habits

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitquest/internal/cli"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage/memory"
)

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := memory.NewStore()
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	ctx := &cli.Context{Store: store, Clock: func() time.Time { return now }}
	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("Tracker() failed: %v", err)
	}
	if err := tr.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap() failed: %v", err)
	}
	return ctx
}

func stubConfirm(t *testing.T, answer bool) *int {
	t.Helper()
	calls := 0
	orig := cli.Confirm
	cli.Confirm = func(string) (bool, error) {
		calls++
		return answer, nil
	}
	t.Cleanup(func() { cli.Confirm = orig })
	return &calls
}

func TestHabitAddCmd(t *testing.T) {
	ctx := setupTestContext(t)

	cmd := &HabitAddCmd{Name: "Read", Category: "Learning", Frequency: "daily", Target: 1, Difficulty: 2}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("HabitAddCmd.Run() failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	h := habits[0]
	if h.Name != "Read" || h.Category != "Learning" || h.Difficulty != 2 {
		t.Errorf("stored habit = %+v", h)
	}

	stats, _ := ctx.Store.GetUserStats()
	if stats.Experience != 10 {
		t.Errorf("Experience = %d, want 10", stats.Experience)
	}
}

func TestHabitAddCmdRejectsInvalid(t *testing.T) {
	ctx := setupTestContext(t)

	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{name: "empty name", cmd: HabitAddCmd{Name: ""}},
		{name: "bad difficulty", cmd: HabitAddCmd{Name: "Run", Difficulty: 7}},
		{name: "bad color", cmd: HabitAddCmd{Name: "Run", Color: "blue"}},
		{name: "bad frequency", cmd: HabitAddCmd{Name: "Run", Frequency: "hourly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Run() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if err := (&HabitAddCmd{Name: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	name := "Morning Stretch"
	target := 2
	cmd := &HabitEditCmd{Habit: "stretch", Name: &name, Target: &target}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("HabitEditCmd.Run() failed: %v", err)
	}

	h, err := ctx.Store.GetHabit(1)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if diff := cmp.Diff([]any{"Morning Stretch", 2}, []any{h.Name, h.Target}); diff != "" {
		t.Errorf("edited habit mismatch (-want +got):\n%s", diff)
	}

	if err := (&HabitEditCmd{Habit: "99", Name: &name}).Run(ctx); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("editing a missing habit: error = %v, want ErrNotFound", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if err := (&HabitAddCmd{Name: "Meditate"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	calls := stubConfirm(t, false)
	if err := (&HabitDeleteCmd{Habit: "1"}).Run(ctx); err != nil {
		t.Fatalf("cancelled delete failed: %v", err)
	}
	if *calls != 1 {
		t.Errorf("Confirm called %d times, want 1", *calls)
	}
	if _, err := ctx.Store.GetHabit(1); err != nil {
		t.Fatalf("habit was deleted despite cancellation: %v", err)
	}

	if err := (&HabitDeleteCmd{Habit: "Meditate", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if *calls != 1 {
		t.Errorf("--yes still prompted")
	}
	if _, err := ctx.Store.GetHabit(1); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit() after delete error = %v, want ErrNotFound", err)
	}
}

func TestReadOnlyCommands(t *testing.T) {
	ctx := setupTestContext(t)
	for _, name := range []string{"Run", "Swim"} {
		if err := (&HabitAddCmd{Name: name, Category: "Fitness"}).Run(ctx); err != nil {
			t.Fatalf("add %s failed: %v", name, err)
		}
	}

	cmds := map[string]interface{ Run(*cli.Context) error }{
		"list":            &HabitListCmd{},
		"list filtered":   &HabitListCmd{Category: "fitness"},
		"list empty":      &HabitListCmd{Category: "Nope"},
		"show":            &HabitShowCmd{Habit: "swim"},
		"categories":      &HabitCategoriesCmd{},
		"edit no changes": &HabitEditCmd{Habit: "1"},
	}
	for name, cmd := range cmds {
		t.Run(name, func(t *testing.T) {
			if err := cmd.Run(ctx); err != nil {
				t.Errorf("Run() failed: %v", err)
			}
		})
	}

	if err := (&HabitShowCmd{Habit: "Cycle"}).Run(ctx); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("show missing habit: error = %v, want ErrNotFound", err)
	}
}
