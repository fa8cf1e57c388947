// Package stats derives the aggregate fields of UserStats from habit and
// check-in history, and summarizes achievement progress.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/streak"
	"github.com/julianstephens/habitquest/internal/utils"
)

// Derive recomputes every history-based field of prev. Level and Experience
// are carried over untouched. Calendar days are taken in now's location.
func Derive(prev models.UserStats, habits []models.Habit, checkIns []models.CheckIn, now time.Time, lookbackDays int) models.UserStats {
	out := prev.Clone()
	if out.Level < 1 {
		out.Level = 1
	}
	loc := now.Location()

	out.CurrentStreaks = make(map[int]int, len(habits))
	out.LongestStreaks = make(map[int]int, len(habits))
	for _, h := range habits {
		res := streak.ForHabit(h.ID, checkIns, now, lookbackDays)
		out.CurrentStreaks[h.ID] = res.Current
		out.LongestStreaks[h.ID] = max(prev.LongestStreaks[h.ID], res.Longest)
	}

	out.TotalHabits = len(habits)
	out.TotalCheckIns = 0
	out.LastActivityDate = nil
	days := make(map[string]bool)
	for _, c := range checkIns {
		if !c.Completed {
			continue
		}
		out.TotalCheckIns++
		days[utils.DayKey(c.Date, loc)] = true
		if out.LastActivityDate == nil || c.Date.After(*out.LastActivityDate) {
			d := c.Date
			out.LastActivityDate = &d
		}
	}
	out.TotalDaysTracked = len(days)
	out.PerfectDays = PerfectDays(habits, checkIns, loc)
	out.CompletionRate = CompletionRate(habits, checkIns, now)

	return out
}

// PerfectDays counts the calendar days on which at least one habit existed and
// every habit existing that day has a completed check-in.
func PerfectDays(habits []models.Habit, checkIns []models.CheckIn, loc *time.Location) int {
	if len(habits) == 0 {
		return 0
	}

	known := make(map[int]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	doneOn := make(map[string]map[int]bool)
	for _, c := range checkIns {
		if !c.Completed || !known[c.HabitID] {
			continue
		}
		key := utils.DayKey(c.Date, loc)
		if doneOn[key] == nil {
			doneOn[key] = make(map[int]bool)
		}
		doneOn[key][c.HabitID] = true
	}

	perfect := 0
	for key, done := range doneOn {
		day, err := utils.ParseDateInLocation(key, loc)
		if err != nil {
			continue
		}
		existing := 0
		complete := true
		for _, h := range habits {
			if utils.DaysBetween(h.CreatedAt, day, loc) < 0 {
				continue
			}
			existing++
			if !done[h.ID] {
				complete = false
				break
			}
		}
		if existing > 0 && complete {
			perfect++
		}
	}
	return perfect
}

// CompletionRate returns completed periods over possible periods across all
// habits, rounded to two decimals. Daily and custom habits have one period per
// day since creation, weekly habits one per started week.
func CompletionRate(habits []models.Habit, checkIns []models.CheckIn, now time.Time) float64 {
	loc := now.Location()
	possible, completed := 0, 0

	for _, h := range habits {
		span := utils.DaysBetween(h.CreatedAt, now, loc) + 1
		if span < 1 {
			span = 1
		}
		periodLen := 1
		if h.Frequency == constants.FrequencyWeekly {
			periodLen = 7
		}
		possible += (span + periodLen - 1) / periodLen

		periods := make(map[int]bool)
		for _, c := range checkIns {
			if c.HabitID != h.ID || !c.Completed {
				continue
			}
			offset := utils.DaysBetween(h.CreatedAt, c.Date, loc)
			if offset < 0 || offset >= span {
				continue
			}
			periods[offset/periodLen] = true
		}
		completed += len(periods)
	}

	if possible == 0 {
		return 0
	}
	rate := float64(completed) / float64(possible)
	rate = math.Round(rate*100) / 100
	return math.Max(0, math.Min(1, rate))
}

// Today summarizes how many habits have been completed today
type Today struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// TodayProgress counts the habits with a completed check-in on now's calendar day.
func TodayProgress(habits []models.Habit, checkIns []models.CheckIn, now time.Time) Today {
	loc := now.Location()
	today := utils.DayKey(now, loc)

	done := make(map[int]bool)
	for _, c := range checkIns {
		if c.Completed && utils.DayKey(c.Date, loc) == today {
			done[c.HabitID] = true
		}
	}

	res := Today{Total: len(habits)}
	for _, h := range habits {
		if done[h.ID] {
			res.Completed++
		}
	}
	if res.Total > 0 {
		res.Percentage = int(math.Round(float64(res.Completed) * 100 / float64(res.Total)))
	}
	return res
}

// Categories returns the distinct habit categories in alphabetical order.
func Categories(habits []models.Habit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range habits {
		if h.Category == "" || seen[h.Category] {
			continue
		}
		seen[h.Category] = true
		out = append(out, h.Category)
	}
	sort.Strings(out)
	return out
}
