package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

func (s *Store) SeedAchievements(defs []models.Achievement) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO achievements (id, name, description, icon, category, points)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			icon = excluded.icon,
			category = excluded.category,
			points = excluded.points`)
	if err != nil {
		return apperrors.Persistence("failed to prepare achievement statement", err)
	}
	defer stmt.Close()

	for _, a := range defs {
		if _, err := stmt.Exec(a.ID, a.Name, a.Description, a.Icon, string(a.Category), a.Points); err != nil {
			return apperrors.Persistence(fmt.Sprintf("failed to seed achievement %d", a.ID), err)
		}
	}

	return apperrors.Persistence("failed to commit achievements", tx.Commit())
}

func (s *Store) GetAchievements() ([]models.Achievement, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, icon, category, points, unlocked_at
		FROM achievements ORDER BY id`)
	if err != nil {
		return nil, apperrors.Persistence("failed to query achievements", err)
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var a models.Achievement
		var category string
		var unlockedAt sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &category, &a.Points, &unlockedAt); err != nil {
			return nil, apperrors.Persistence("failed to scan achievement", err)
		}
		a.Category = constants.AchievementCategory(category)
		if unlockedAt.Valid {
			t, err := storage.ParseTime(unlockedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse unlocked_at: %w", err)
			}
			a.UnlockedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("failed to read achievements", err)
	}
	return out, nil
}

// UnlockAchievement sets unlocked_at once. A second call fails with
// ErrAlreadyUnlocked and leaves the original timestamp in place.
func (s *Store) UnlockAchievement(id int, at time.Time) error {
	res, err := s.db.Exec(`UPDATE achievements SET unlocked_at = ? WHERE id = ? AND unlocked_at IS NULL`,
		storage.FormatTime(at), id)
	if err != nil {
		return apperrors.Persistence("failed to unlock achievement", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence("failed to check affected rows", err)
	}
	if n == 1 {
		return nil
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM achievements WHERE id = ?", id).Scan(&exists); err != nil {
		return apperrors.Persistence("failed to look up achievement", err)
	}
	if exists == 0 {
		return apperrors.NotFound("achievement", id)
	}
	return fmt.Errorf("achievement %d: %w", id, apperrors.ErrAlreadyUnlocked)
}
