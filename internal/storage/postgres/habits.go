package postgres

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
)

const habitColumns = `id, name, category, frequency, target, difficulty, color, icon, description, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var frequency string
	var difficulty int

	err := row.Scan(&h.ID, &h.Name, &h.Category, &frequency, &h.Target, &difficulty,
		&h.Color, &h.Icon, &h.Description, &h.CreatedAt)
	if err != nil {
		return models.Habit{}, err
	}
	h.Frequency = constants.Frequency(frequency)
	h.Difficulty = constants.Difficulty(difficulty)
	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) (models.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Habit{}, apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	// serializes id allocation between concurrent writers
	if _, err := tx.Exec("LOCK TABLE habits IN EXCLUSIVE MODE"); err != nil {
		return models.Habit{}, apperrors.Persistence("failed to lock habits", err)
	}
	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM habits").Scan(&habit.ID); err != nil {
		return models.Habit{}, apperrors.Persistence("failed to allocate habit id", err)
	}

	_, err = tx.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		habit.ID, habit.Name, habit.Category, string(habit.Frequency), habit.Target, int(habit.Difficulty),
		habit.Color, habit.Icon, habit.Description, habit.CreatedAt,
	)
	if err != nil {
		return models.Habit{}, apperrors.Persistence("failed to insert habit", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, apperrors.Persistence("failed to commit habit", err)
	}
	return habit, nil
}

func (s *Store) GetHabit(id int) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	if err != nil {
		return models.Habit{}, apperrors.Persistence("failed to get habit", err)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT ` + habitColumns + ` FROM habits ORDER BY id`)
	if err != nil {
		return nil, apperrors.Persistence("failed to query habits", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, apperrors.Persistence("failed to scan habit", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("failed to read habits", err)
	}
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits
		SET name = $1, category = $2, frequency = $3, target = $4, difficulty = $5,
			color = $6, icon = $7, description = $8
		WHERE id = $9`,
		habit.Name, habit.Category, string(habit.Frequency), habit.Target, int(habit.Difficulty),
		habit.Color, habit.Icon, habit.Description, habit.ID,
	)
	if err != nil {
		return apperrors.Persistence("failed to update habit", err)
	}
	return requireAffected(res, "habit", habit.ID)
}

func (s *Store) DeleteHabit(id int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM check_ins WHERE habit_id = $1", id); err != nil {
		return apperrors.Persistence("failed to delete check-ins", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return apperrors.Persistence("failed to delete habit", err)
	}
	if err := requireAffected(res, "habit", id); err != nil {
		return err
	}

	return apperrors.Persistence("failed to commit habit deletion", tx.Commit())
}

func requireAffected(res sql.Result, kind string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence("failed to check affected rows", err)
	}
	if n == 0 {
		return apperrors.NotFound(kind, id)
	}
	return nil
}
