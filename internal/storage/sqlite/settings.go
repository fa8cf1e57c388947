package sqlite

import (
	"fmt"

	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/models"
)

func (s *Store) hasSettings() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		return false, apperrors.Persistence("failed to count settings", err)
	}
	return count > 0, nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, apperrors.Persistence("failed to query settings", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, apperrors.Persistence("failed to scan setting", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, apperrors.Persistence("failed to read settings", err)
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, fmt.Errorf("invalid stored settings: %w", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return apperrors.Persistence("failed to prepare settings statement", err)
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return apperrors.Persistence(fmt.Sprintf("failed to save setting %s", key), err)
		}
	}

	return apperrors.Persistence("failed to commit settings", tx.Commit())
}
