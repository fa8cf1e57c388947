package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

func unlockedAt(d int) *time.Time {
	t := day(d, 12)
	return &t
}

func sampleAchievements() []models.Achievement {
	return []models.Achievement{
		{ID: 1, Name: "First Step", Category: constants.CategoryMilestone, Points: 10, UnlockedAt: unlockedAt(3)},
		{ID: 2, Name: "Streak Starter", Category: constants.CategoryStreak, Points: 25, UnlockedAt: unlockedAt(9)},
		{ID: 4, Name: "Consistency Champion", Category: constants.CategoryStreak, Points: 75},
		{ID: 6, Name: "Early Bird", Category: constants.CategoryTime, Points: 50, UnlockedAt: unlockedAt(5)},
		{ID: 7, Name: "Perfect Week", Category: constants.CategoryCompletion, Points: 150},
	}
}

func TestProgressByCategory(t *testing.T) {
	got := ProgressByCategory(sampleAchievements())
	want := []CategoryProgress{
		{Category: constants.CategoryMilestone, Unlocked: 1, Total: 1, Percentage: 100},
		{Category: constants.CategoryStreak, Unlocked: 1, Total: 2, Percentage: 50},
		{Category: constants.CategoryTime, Unlocked: 1, Total: 1, Percentage: 100},
		{Category: constants.CategoryCompletion, Unlocked: 0, Total: 1, Percentage: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProgressByCategory() mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalPoints(t *testing.T) {
	if got := TotalPoints(sampleAchievements()); got != 85 {
		t.Errorf("TotalPoints() = %d, want 85", got)
	}
	if got := TotalPoints(nil); got != 0 {
		t.Errorf("TotalPoints(nil) = %d, want 0", got)
	}
}

func TestRecent(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"all", 10, []int{2, 6, 1}},
		{"limited", 2, []int{2, 6}},
		{"none", 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []int{}
			for _, a := range Recent(sampleAchievements(), tt.n) {
				got = append(got, a.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
