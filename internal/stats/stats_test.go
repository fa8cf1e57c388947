package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

var now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

func day(d, hour int) time.Time {
	return time.Date(2026, 10, d, hour, 0, 0, 0, time.UTC)
}

func done(id, habitID int, at time.Time) models.CheckIn {
	return models.CheckIn{ID: id, HabitID: habitID, Date: at, Completed: true, Mood: 3}
}

func fixture() ([]models.Habit, []models.CheckIn) {
	habits := []models.Habit{
		{ID: 1, Name: "Read", Category: "Learning", Frequency: constants.FrequencyDaily, CreatedAt: day(15, 10)},
		{ID: 2, Name: "Long run", Category: "Fitness", Frequency: constants.FrequencyWeekly, CreatedAt: day(17, 8)},
	}
	checkIns := []models.CheckIn{
		done(1, 1, day(15, 20)),
		done(2, 1, day(16, 20)),
		done(3, 1, day(17, 20)),
		{ID: 4, HabitID: 1, Date: day(17, 21), Completed: false},
		done(5, 1, day(18, 20)),
		done(6, 1, day(19, 9)),
		done(7, 2, day(17, 7)),
		done(8, 2, day(18, 7)),
	}
	return habits, checkIns
}

func TestDerive(t *testing.T) {
	habits, checkIns := fixture()

	prev := models.DefaultUserStats()
	prev.Level = 2
	prev.Experience = 150
	prev.LongestStreaks[1] = 9
	prev.LongestStreaks[3] = 4 // habit 3 no longer exists
	prev.CurrentStreaks[3] = 4

	got := Derive(prev, habits, checkIns, now, 30)

	last := day(19, 9)
	want := models.UserStats{
		Level:            2,
		Experience:       150,
		TotalDaysTracked: 5,
		CurrentStreaks:   map[int]int{1: 5, 2: 2},
		LongestStreaks:   map[int]int{1: 9, 2: 2},
		CompletionRate:   1,
		TotalHabits:      2,
		TotalCheckIns:    7,
		PerfectDays:      4,
		LastActivityDate: &last,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Derive() mismatch (-want +got):\n%s", diff)
	}

	if prev.CurrentStreaks[3] != 4 {
		t.Error("Derive() modified its input")
	}
}

func TestDeriveEmpty(t *testing.T) {
	got := Derive(models.DefaultUserStats(), nil, nil, now, 30)
	want := models.DefaultUserStats()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Derive() mismatch (-want +got):\n%s", diff)
	}
}

func TestPerfectDays(t *testing.T) {
	habits, checkIns := fixture()

	tests := []struct {
		name     string
		habits   []models.Habit
		checkIns []models.CheckIn
		want     int
	}{
		{"fixture", habits, checkIns, 4},
		{"no habits", nil, checkIns, 0},
		{"no check-ins", habits, nil, 0},
		{
			"check-ins of deleted habits are ignored",
			habits[:1],
			[]models.CheckIn{done(1, 9, day(16, 10))},
			0,
		},
		{
			"habit created later does not spoil earlier days",
			habits,
			[]models.CheckIn{done(1, 1, day(16, 10))},
			1,
		},
		{
			"same day duplicates count once",
			habits[:1],
			[]models.CheckIn{done(1, 1, day(16, 10)), done(2, 1, day(16, 11))},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PerfectDays(tt.habits, tt.checkIns, time.UTC); got != tt.want {
				t.Errorf("PerfectDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	daily := models.Habit{ID: 1, Frequency: constants.FrequencyDaily, CreatedAt: day(10, 9)}
	weekly := models.Habit{ID: 2, Frequency: constants.FrequencyWeekly, CreatedAt: day(1, 9)}

	var half []models.CheckIn
	for d := 15; d <= 19; d++ {
		half = append(half, done(d, 1, day(d, 12)))
	}

	tests := []struct {
		name     string
		habits   []models.Habit
		checkIns []models.CheckIn
		want     float64
	}{
		{"no habits", nil, nil, 0},
		{"nothing done", []models.Habit{daily}, nil, 0},
		{"half of the days", []models.Habit{daily}, half, 0.5},
		{
			"one of three weeks",
			[]models.Habit{weekly},
			[]models.CheckIn{done(1, 2, day(17, 7)), done(2, 2, day(18, 7))},
			0.33,
		},
		{
			"check-ins before creation are ignored",
			[]models.Habit{daily},
			[]models.CheckIn{done(1, 1, day(2, 7))},
			0,
		},
		{
			"incomplete check-ins are ignored",
			[]models.Habit{daily},
			[]models.CheckIn{{ID: 1, HabitID: 1, Date: day(12, 7)}},
			0,
		},
		{
			"created today and done",
			[]models.Habit{{ID: 3, CreatedAt: day(19, 8)}},
			[]models.CheckIn{done(1, 3, day(19, 9))},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.habits, tt.checkIns, now); got != tt.want {
				t.Errorf("CompletionRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTodayProgress(t *testing.T) {
	habits, checkIns := fixture()

	got := TodayProgress(habits, checkIns, now)
	want := Today{Completed: 1, Total: 2, Percentage: 50}
	if got != want {
		t.Errorf("TodayProgress() = %+v, want %+v", got, want)
	}

	if got := TodayProgress(nil, nil, now); got != (Today{}) {
		t.Errorf("TodayProgress() with no habits = %+v", got)
	}
}

func TestCategories(t *testing.T) {
	habits := []models.Habit{
		{ID: 1, Category: "Wellness"},
		{ID: 2, Category: "Fitness"},
		{ID: 3, Category: "Wellness"},
		{ID: 4},
	}
	if diff := cmp.Diff([]string{"Fitness", "Wellness"}, Categories(habits)); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}
