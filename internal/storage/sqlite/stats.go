package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) GetUserStats() (models.UserStats, error) {
	var st models.UserStats
	var current, longest string
	var lastActivity sql.NullString

	err := s.db.QueryRow(`
		SELECT level, experience, total_days_tracked, current_streaks, longest_streaks,
			completion_rate, total_habits, total_check_ins, perfect_days, last_activity_date
		FROM user_stats WHERE id = 1`).Scan(
		&st.Level, &st.Experience, &st.TotalDaysTracked, &current, &longest,
		&st.CompletionRate, &st.TotalHabits, &st.TotalCheckIns, &st.PerfectDays, &lastActivity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultUserStats(), nil
	}
	if err != nil {
		return models.UserStats{}, apperrors.Persistence("failed to get user stats", err)
	}

	if st.CurrentStreaks, err = storage.DecodeStreaks(current); err != nil {
		return models.UserStats{}, err
	}
	if st.LongestStreaks, err = storage.DecodeStreaks(longest); err != nil {
		return models.UserStats{}, err
	}
	if lastActivity.Valid {
		t, err := storage.ParseTime(lastActivity.String)
		if err != nil {
			return models.UserStats{}, fmt.Errorf("failed to parse last_activity_date: %w", err)
		}
		st.LastActivityDate = &t
	}
	return st, nil
}

func writeStats(db execer, st models.UserStats) error {
	current, err := storage.EncodeStreaks(st.CurrentStreaks)
	if err != nil {
		return err
	}
	longest, err := storage.EncodeStreaks(st.LongestStreaks)
	if err != nil {
		return err
	}
	var lastActivity sql.NullString
	if st.LastActivityDate != nil {
		lastActivity = sql.NullString{String: storage.FormatTime(*st.LastActivityDate), Valid: true}
	}

	_, err = db.Exec(`
		INSERT OR REPLACE INTO user_stats (id, level, experience, total_days_tracked, current_streaks,
			longest_streaks, completion_rate, total_habits, total_check_ins, perfect_days, last_activity_date)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.Level, st.Experience, st.TotalDaysTracked, current,
		longest, st.CompletionRate, st.TotalHabits, st.TotalCheckIns, st.PerfectDays, lastActivity,
	)
	if err != nil {
		return apperrors.Persistence("failed to save user stats", err)
	}
	return nil
}

func (s *Store) SaveUserStats(st models.UserStats) error {
	return writeStats(s.db, st)
}

func (s *Store) RecordExperience(st models.UserStats, event models.ExperienceEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeStats(tx, st); err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO experience_events (id, reason, points, ref_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		event.ID, string(event.Reason), event.Points, event.RefID, storage.FormatTime(event.CreatedAt),
	)
	if err != nil {
		return apperrors.Persistence("failed to record experience event", err)
	}

	return apperrors.Persistence("failed to commit experience", tx.Commit())
}

// GetExperienceEvents returns the most recent events first. limit <= 0 returns all.
func (s *Store) GetExperienceEvents(limit int) ([]models.ExperienceEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, reason, points, ref_id, created_at
		FROM experience_events
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.Persistence("failed to query experience events", err)
	}
	defer rows.Close()

	var events []models.ExperienceEvent
	for rows.Next() {
		var e models.ExperienceEvent
		var reason, createdAt string
		if err := rows.Scan(&e.ID, &reason, &e.Points, &e.RefID, &createdAt); err != nil {
			return nil, apperrors.Persistence("failed to scan experience event", err)
		}
		e.Reason = constants.ExperienceReason(reason)
		if e.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("failed to read experience events", err)
	}
	return events, nil
}
