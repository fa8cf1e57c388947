package streak

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitquest/internal/models"
)

var now = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

// daysAgo returns a timestamp n calendar days before now at the given hour.
func daysAgo(n, hour int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()-n, hour, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		dates    []time.Time
		lookback int
		want     Result
	}{
		{
			name:  "no check-ins",
			dates: nil,
			want:  Result{0, 0, 0},
		},
		{
			name:  "only today",
			dates: []time.Time{daysAgo(0, 9)},
			want:  Result{Current: 1, Longest: 1, Total: 1},
		},
		{
			name:  "today and four prior days",
			dates: []time.Time{daysAgo(0, 8), daysAgo(1, 8), daysAgo(2, 8), daysAgo(3, 8), daysAgo(4, 8)},
			want:  Result{Current: 5, Longest: 5, Total: 5},
		},
		{
			name:  "yesterday only is forgiven",
			dates: []time.Time{daysAgo(1, 20), daysAgo(2, 20)},
			want:  Result{Current: 2, Longest: 2, Total: 2},
		},
		{
			name:  "gap after today stops the walk",
			dates: []time.Time{daysAgo(0, 7), daysAgo(2, 7)},
			want:  Result{Current: 1, Longest: 1, Total: 2},
		},
		{
			name:  "today and yesterday missing",
			dates: []time.Time{daysAgo(2, 7), daysAgo(3, 7)},
			want:  Result{Current: 0, Longest: 0, Total: 2},
		},
		{
			name:  "same day counted once",
			dates: []time.Time{daysAgo(0, 6), daysAgo(0, 12), daysAgo(0, 23), daysAgo(1, 10)},
			want:  Result{Current: 2, Longest: 2, Total: 4},
		},
		{
			name:     "lookback window bounds the walk",
			dates:    []time.Time{daysAgo(0, 9), daysAgo(1, 9), daysAgo(2, 9), daysAgo(3, 9)},
			lookback: 2,
			want:     Result{Current: 2, Longest: 2, Total: 4},
		},
		{
			name:     "forgiven today consumes a lookback day",
			dates:    []time.Time{daysAgo(1, 9), daysAgo(2, 9), daysAgo(3, 9)},
			lookback: 3,
			want:     Result{Current: 2, Longest: 2, Total: 3},
		},
		{
			name:  "old history outside window still totals",
			dates: []time.Time{daysAgo(0, 9), daysAgo(40, 9), daysAgo(41, 9)},
			want:  Result{Current: 1, Longest: 1, Total: 3},
		},
		{
			name:  "unordered input",
			dates: []time.Time{daysAgo(2, 9), daysAgo(0, 9), daysAgo(1, 9)},
			want:  Result{Current: 3, Longest: 3, Total: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.dates, now, tt.lookback)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeFullWindow(t *testing.T) {
	var dates []time.Time
	for i := 0; i < 45; i++ {
		dates = append(dates, daysAgo(i, 9))
	}

	got := Compute(dates, now, 0)
	if got.Current != 30 || got.Longest != 30 {
		t.Errorf("Compute() = %+v, want current and longest capped at the 30 day default", got)
	}
	if got.Total != 45 {
		t.Errorf("Compute().Total = %d, want 45", got.Total)
	}
}

func TestComputeConsecutiveRuns(t *testing.T) {
	for n := 0; n < 10; n++ {
		var dates []time.Time
		for i := 0; i <= n; i++ {
			dates = append(dates, daysAgo(i, 12))
		}
		if got := Compute(dates, now, 30).Current; got != n+1 {
			t.Errorf("today plus %d prior days: current = %d, want %d", n, got, n+1)
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	dates := []time.Time{daysAgo(0, 9), daysAgo(1, 9), daysAgo(3, 9)}
	first := Compute(dates, now, 30)
	second := Compute(dates, now, 30)
	if first != second {
		t.Errorf("Compute() not repeatable: %+v then %+v", first, second)
	}
}

func TestComputeTodayExtendsStreak(t *testing.T) {
	dates := []time.Time{daysAgo(1, 9), daysAgo(2, 9), daysAgo(3, 9)}
	before := Compute(dates, now, 30)

	after := Compute(append(dates, daysAgo(0, 21)), now, 30)
	if after.Current != before.Current+1 {
		t.Errorf("checking in today: current = %d, want %d", after.Current, before.Current+1)
	}
}

func TestComputeUsesNowLocation(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 02:00 UTC on Oct 19 is the evening of Oct 18 in Los Angeles
	checkIn := time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC)
	laNow := time.Date(2026, 10, 19, 10, 0, 0, 0, la)

	got := Compute([]time.Time{checkIn}, laNow, 30)
	if got.Current != 1 {
		t.Errorf("check-in on local yesterday: current = %d, want 1", got.Current)
	}

	// Same instant read in UTC lands on today
	got = Compute([]time.Time{checkIn}, now, 30)
	if got.Current != 1 {
		t.Errorf("check-in on UTC today: current = %d, want 1", got.Current)
	}
}

func TestLongestRun(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"single day", []time.Time{daysAgo(5, 9)}, 1},
		{
			name: "older run is longer",
			dates: []time.Time{
				daysAgo(0, 9), daysAgo(1, 9),
				daysAgo(10, 9), daysAgo(11, 9), daysAgo(12, 9), daysAgo(13, 9),
			},
			want: 4,
		},
		{
			name:  "duplicates collapse",
			dates: []time.Time{daysAgo(3, 1), daysAgo(3, 22), daysAgo(4, 9)},
			want:  2,
		},
		{
			name: "run across month boundary",
			dates: []time.Time{
				time.Date(2026, 9, 29, 9, 0, 0, 0, time.UTC),
				time.Date(2026, 9, 30, 9, 0, 0, 0, time.UTC),
				time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestRun(tt.dates, time.UTC); got != tt.want {
				t.Errorf("LongestRun() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestForHabit(t *testing.T) {
	checkIns := []models.CheckIn{
		{ID: 1, HabitID: 1, Date: daysAgo(0, 9), Completed: true},
		{ID: 2, HabitID: 1, Date: daysAgo(1, 9), Completed: true},
		{ID: 3, HabitID: 1, Date: daysAgo(2, 9), Completed: false},
		{ID: 4, HabitID: 2, Date: daysAgo(2, 9), Completed: true},
	}

	got := ForHabit(1, checkIns, now, 30)
	if diff := cmp.Diff(Result{Current: 2, Longest: 2, Total: 2}, got); diff != "" {
		t.Errorf("ForHabit(1) mismatch (-want +got):\n%s", diff)
	}

	if got := ForHabit(99, checkIns, now, 30); got != (Result{}) {
		t.Errorf("ForHabit(unknown) = %+v, want zeros", got)
	}
}
