package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

const checkInColumns = `id, habit_id, date, completed, notes, mood`

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	var date string
	var completed int

	if err := row.Scan(&c.ID, &c.HabitID, &date, &completed, &c.Notes, &c.Mood); err != nil {
		return models.CheckIn{}, err
	}
	c.Completed = completed != 0

	t, err := storage.ParseTime(date)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to parse date: %w", err)
	}
	c.Date = t
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) AddCheckIn(c models.CheckIn) (models.CheckIn, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM habits WHERE id = ?", c.HabitID).Scan(&exists); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to look up habit", err)
	}
	if exists == 0 {
		return models.CheckIn{}, apperrors.NotFound("habit", c.HabitID)
	}

	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM check_ins").Scan(&c.ID); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to allocate check-in id", err)
	}

	_, err = tx.Exec(`INSERT INTO check_ins (`+checkInColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, storage.FormatTime(c.Date), boolToInt(c.Completed), c.Notes, c.Mood)
	if err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to insert check-in", err)
	}

	if err := tx.Commit(); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to commit check-in", err)
	}
	return c, nil
}

func (s *Store) GetCheckIn(id int) (models.CheckIn, error) {
	row := s.db.QueryRow(`SELECT `+checkInColumns+` FROM check_ins WHERE id = ?`, id)
	c, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, apperrors.NotFound("check-in", id)
	}
	if err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to get check-in", err)
	}
	return c, nil
}

func (s *Store) queryCheckIns(query string, args ...any) ([]models.CheckIn, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperrors.Persistence("failed to query check-ins", err)
	}
	defer rows.Close()

	var out []models.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, apperrors.Persistence("failed to scan check-in", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("failed to read check-ins", err)
	}
	// dates carry their own offsets, so text order is not time order
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) GetCheckInsForHabit(habitID int) ([]models.CheckIn, error) {
	return s.queryCheckIns(`SELECT `+checkInColumns+` FROM check_ins WHERE habit_id = ? ORDER BY id`, habitID)
}

func (s *Store) GetAllCheckIns() ([]models.CheckIn, error) {
	return s.queryCheckIns(`SELECT ` + checkInColumns + ` FROM check_ins ORDER BY id`)
}

// UpdateCheckIn rewrites completed, notes and mood. The date and habit are fixed.
func (s *Store) UpdateCheckIn(c models.CheckIn) error {
	res, err := s.db.Exec(`UPDATE check_ins SET completed = ?, notes = ?, mood = ? WHERE id = ?`,
		boolToInt(c.Completed), c.Notes, c.Mood, c.ID)
	if err != nil {
		return apperrors.Persistence("failed to update check-in", err)
	}
	return requireAffected(res, "check-in", c.ID)
}
