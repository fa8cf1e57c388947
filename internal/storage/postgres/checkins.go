package postgres

import (
	"database/sql"
	"errors"

	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
)

const checkInColumns = `id, habit_id, date, completed, notes, mood`

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	err := row.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed, &c.Notes, &c.Mood)
	return c, err
}

func (s *Store) AddCheckIn(c models.CheckIn) (models.CheckIn, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS (SELECT 1 FROM habits WHERE id = $1)", c.HabitID).Scan(&exists); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to look up habit", err)
	}
	if !exists {
		return models.CheckIn{}, apperrors.NotFound("habit", c.HabitID)
	}

	if _, err := tx.Exec("LOCK TABLE check_ins IN EXCLUSIVE MODE"); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to lock check-ins", err)
	}
	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM check_ins").Scan(&c.ID); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to allocate check-in id", err)
	}

	_, err = tx.Exec(`INSERT INTO check_ins (`+checkInColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.HabitID, c.Date, c.Completed, c.Notes, c.Mood)
	if err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to insert check-in", err)
	}

	if err := tx.Commit(); err != nil {
		return models.CheckIn{}, apperrors.Persistence("failed to commit check-in", err)
	}
	return c, nil
}

func (s *Store) GetCheckIn(id int) (models.CheckIn, error) {
	c, err := scanCheckIn(s.db.QueryRow(`SELECT `+checkInColumns+` FROM check_ins WHERE id = $1`, id))
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
	return out, nil
}

func (s *Store) GetCheckInsForHabit(habitID int) ([]models.CheckIn, error) {
	return s.queryCheckIns(`SELECT `+checkInColumns+` FROM check_ins WHERE habit_id = $1 ORDER BY date, id`, habitID)
}

func (s *Store) GetAllCheckIns() ([]models.CheckIn, error) {
	return s.queryCheckIns(`SELECT ` + checkInColumns + ` FROM check_ins ORDER BY date, id`)
}

// UpdateCheckIn rewrites completed, notes and mood. The date and habit are fixed.
func (s *Store) UpdateCheckIn(c models.CheckIn) error {
	res, err := s.db.Exec(`UPDATE check_ins SET completed = $1, notes = $2, mood = $3 WHERE id = $4`,
		c.Completed, c.Notes, c.Mood, c.ID)
	if err != nil {
		return apperrors.Persistence("failed to update check-in", err)
	}
	return requireAffected(res, "check-in", c.ID)
}
