// Package streak computes habit streaks from completed check-in dates.
//
// All functions are pure: they take the dates and an explicit reference time
// and never consult the wall clock.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/utils"
)

// Result holds the streak counts for one habit
type Result struct {
	Current int `json:"current"`
	Longest int `json:"longest"` // longest run inside the lookback window ending at now
	Total   int `json:"total"`   // number of completed check-ins, not limited by lookback
}

// Compute walks backward from now's calendar day for up to lookbackDays days.
//
// A missing check-in on day 0 (today) does not end the streak; the walk moves on
// to yesterday without counting. A missing check-in on any later day ends it.
// Calendar days are taken in now's location, and several check-ins on the same
// day cover that day once. lookbackDays <= 0 selects the default window.
func Compute(dates []time.Time, now time.Time, lookbackDays int) Result {
	res := Result{Total: len(dates)}
	if len(dates) == 0 {
		return res
	}
	if lookbackDays <= 0 {
		lookbackDays = constants.DefaultLookbackDays
	}

	loc := now.Location()
	covered := coveredDays(dates, loc)

	run := 0
	day := now
	for i := 0; i < lookbackDays; i++ {
		if covered[utils.DayKey(day, loc)] {
			res.Current++
			run++
			if run > res.Longest {
				res.Longest = run
			}
		} else if i > 0 {
			break
		}
		day = utils.AddDays(day, -1)
	}

	return res
}

// LongestRun scans the whole history and returns the longest run of
// consecutive covered calendar days in loc.
func LongestRun(dates []time.Time, loc *time.Location) int {
	if len(dates) == 0 {
		return 0
	}

	covered := coveredDays(dates, loc)
	days := make([]time.Time, 0, len(covered))
	for key := range covered {
		d, err := utils.ParseDateInLocation(key, loc)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && utils.DaysBetween(days[i-1], d, loc) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletedDates returns the dates of the completed check-ins belonging to habitID.
// An unknown habit simply has no dates.
func CompletedDates(habitID int, checkIns []models.CheckIn) []time.Time {
	var dates []time.Time
	for _, c := range checkIns {
		if c.HabitID == habitID && c.Completed {
			dates = append(dates, c.Date)
		}
	}
	return dates
}

// ForHabit is shorthand for Compute over the completed check-ins of one habit.
func ForHabit(habitID int, checkIns []models.CheckIn, now time.Time, lookbackDays int) Result {
	return Compute(CompletedDates(habitID, checkIns), now, lookbackDays)
}

func coveredDays(dates []time.Time, loc *time.Location) map[string]bool {
	covered := make(map[string]bool, len(dates))
	for _, d := range dates {
		covered[utils.DayKey(d, loc)] = true
	}
	return covered
}
