package stats

import (
	"math"
	"sort"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

// CategoryProgress is the unlock count for one achievement category
type CategoryProgress struct {
	Category   constants.AchievementCategory `json:"category"`
	Unlocked   int                           `json:"unlocked"`
	Total      int                           `json:"total"`
	Percentage int                           `json:"percentage"`
}

var categoryOrder = []constants.AchievementCategory{
	constants.CategoryMilestone,
	constants.CategoryStreak,
	constants.CategoryCreation,
	constants.CategoryCategory,
	constants.CategoryTime,
	constants.CategoryCompletion,
	constants.CategoryManagement,
}

// ProgressByCategory groups achievements by category. Categories without any
// achievement are omitted.
func ProgressByCategory(achievements []models.Achievement) []CategoryProgress {
	byCategory := make(map[constants.AchievementCategory]*CategoryProgress)
	for _, a := range achievements {
		p, ok := byCategory[a.Category]
		if !ok {
			p = &CategoryProgress{Category: a.Category}
			byCategory[a.Category] = p
		}
		p.Total++
		if a.Unlocked() {
			p.Unlocked++
		}
	}

	var out []CategoryProgress
	emit := func(c constants.AchievementCategory) {
		p, ok := byCategory[c]
		if !ok {
			return
		}
		p.Percentage = int(math.Round(float64(p.Unlocked) * 100 / float64(p.Total)))
		out = append(out, *p)
		delete(byCategory, c)
	}
	for _, c := range categoryOrder {
		emit(c)
	}

	var rest []constants.AchievementCategory
	for c := range byCategory {
		rest = append(rest, c)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, c := range rest {
		emit(c)
	}
	return out
}

// TotalPoints sums the points of the unlocked achievements.
func TotalPoints(achievements []models.Achievement) int {
	total := 0
	for _, a := range achievements {
		if a.Unlocked() {
			total += a.Points
		}
	}
	return total
}

// Recent returns up to n unlocked achievements, most recently unlocked first.
func Recent(achievements []models.Achievement, n int) []models.Achievement {
	var unlocked []models.Achievement
	for _, a := range achievements {
		if a.Unlocked() {
			unlocked = append(unlocked, a)
		}
	}
	sort.SliceStable(unlocked, func(i, j int) bool {
		return unlocked[i].UnlockedAt.After(*unlocked[j].UnlockedAt)
	})
	if n >= 0 && len(unlocked) > n {
		unlocked = unlocked[:n]
	}
	return unlocked
}
