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

const habitColumns = `id, name, category, frequency, target, difficulty, color, icon, description, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var frequency, createdAt string
	var difficulty int

	if err := row.Scan(&h.ID, &h.Name, &h.Category, &frequency, &h.Target, &difficulty,
		&h.Color, &h.Icon, &h.Description, &createdAt); err != nil {
		return models.Habit{}, err
	}
	h.Frequency = constants.Frequency(frequency)
	h.Difficulty = constants.Difficulty(difficulty)

	t, err := storage.ParseTime(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.CreatedAt = t
	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) (models.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Habit{}, apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRow("SELECT COALESCE(MAX(id), 0) + 1 FROM habits").Scan(&habit.ID); err != nil {
		return models.Habit{}, apperrors.Persistence("failed to allocate habit id", err)
	}

	_, err = tx.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Category, string(habit.Frequency), habit.Target, int(habit.Difficulty),
		habit.Color, habit.Icon, habit.Description, storage.FormatTime(habit.CreatedAt),
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
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
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
		SET name = ?, category = ?, frequency = ?, target = ?, difficulty = ?,
			color = ?, icon = ?, description = ?
		WHERE id = ?`,
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

	if _, err := tx.Exec("DELETE FROM check_ins WHERE habit_id = ?", id); err != nil {
		return apperrors.Persistence("failed to delete check-ins", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
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
