// Package memory is a storage.Provider kept entirely in process memory.
// It backs tests and dry runs; nothing survives Close.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
)

type Store struct {
	mu           sync.Mutex
	settings     models.Settings
	habits       map[int]models.Habit
	checkIns     map[int]models.CheckIn
	stats        models.UserStats
	achievements map[int]models.Achievement
	events       []models.ExperienceEvent
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.settings = models.DefaultSettings()
	s.habits = make(map[int]models.Habit)
	s.checkIns = make(map[int]models.CheckIn)
	s.stats = models.DefaultUserStats()
	s.achievements = make(map[int]models.Achievement)
	s.events = nil
}

func (s *Store) Init() error { return nil }

func (s *Store) Load() error { return nil }

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Store) GetConfigPath() string { return ":memory:" }

func (s *Store) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Store) AddHabit(h models.Habit) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = 1
	for id := range s.habits {
		if id >= h.ID {
			h.ID = id + 1
		}
	}
	s.habits[h.ID] = h
	return h, nil
}

func (s *Store) GetHabit(id int) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateHabit(h models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.habits[h.ID]
	if !ok {
		return apperrors.NotFound("habit", h.ID)
	}
	h.CreatedAt = existing.CreatedAt
	s.habits[h.ID] = h
	return nil
}

func (s *Store) DeleteHabit(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.habits[id]; !ok {
		return apperrors.NotFound("habit", id)
	}
	delete(s.habits, id)
	for cid, c := range s.checkIns {
		if c.HabitID == id {
			delete(s.checkIns, cid)
		}
	}
	return nil
}

func (s *Store) AddCheckIn(c models.CheckIn) (models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.habits[c.HabitID]; !ok {
		return models.CheckIn{}, apperrors.NotFound("habit", c.HabitID)
	}
	c.ID = 1
	for id := range s.checkIns {
		if id >= c.ID {
			c.ID = id + 1
		}
	}
	s.checkIns[c.ID] = c
	return c, nil
}

func (s *Store) GetCheckIn(id int) (models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.checkIns[id]
	if !ok {
		return models.CheckIn{}, apperrors.NotFound("check-in", id)
	}
	return c, nil
}

func (s *Store) filterCheckIns(keep func(models.CheckIn) bool) []models.CheckIn {
	var out []models.CheckIn
	for _, c := range s.checkIns {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *Store) GetCheckInsForHabit(habitID int) ([]models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterCheckIns(func(c models.CheckIn) bool { return c.HabitID == habitID }), nil
}

func (s *Store) GetAllCheckIns() ([]models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterCheckIns(func(models.CheckIn) bool { return true }), nil
}

func (s *Store) UpdateCheckIn(c models.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.checkIns[c.ID]
	if !ok {
		return apperrors.NotFound("check-in", c.ID)
	}
	existing.Completed = c.Completed
	existing.Notes = c.Notes
	existing.Mood = c.Mood
	s.checkIns[c.ID] = existing
	return nil
}

func (s *Store) GetUserStats() (models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Clone(), nil
}

func (s *Store) SaveUserStats(st models.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st.Clone()
	return nil
}

func (s *Store) RecordExperience(st models.UserStats, event models.ExperienceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events {
		if e.ID == event.ID {
			return apperrors.Persistence("failed to record experience event",
				fmt.Errorf("duplicate event id %s", event.ID))
		}
	}
	s.stats = st.Clone()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) GetExperienceEvents(limit int) ([]models.ExperienceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ExperienceEvent, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		out = append(out, s.events[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SeedAchievements(defs []models.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range defs {
		if existing, ok := s.achievements[a.ID]; ok {
			a.UnlockedAt = existing.UnlockedAt
		} else {
			a.UnlockedAt = nil
		}
		s.achievements[a.ID] = a
	}
	return nil
}

func (s *Store) GetAchievements() ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Achievement, 0, len(s.achievements))
	for _, a := range s.achievements {
		if a.UnlockedAt != nil {
			t := *a.UnlockedAt
			a.UnlockedAt = &t
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UnlockAchievement(id int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.achievements[id]
	if !ok {
		return apperrors.NotFound("achievement", id)
	}
	if a.UnlockedAt != nil {
		return fmt.Errorf("achievement %d: %w", id, apperrors.ErrAlreadyUnlocked)
	}
	a.UnlockedAt = &at
	s.achievements[id] = a
	return nil
}
