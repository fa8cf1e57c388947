package achievements

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Achievements []models.Achievement `yaml:"achievements"`
}

var knownCategories = map[constants.AchievementCategory]bool{
	constants.CategoryMilestone:  true,
	constants.CategoryStreak:     true,
	constants.CategoryCreation:   true,
	constants.CategoryCategory:   true,
	constants.CategoryTime:       true,
	constants.CategoryCompletion: true,
	constants.CategoryManagement: true,
}

// Catalog returns the built-in achievement definitions, all locked, sorted by id.
func Catalog() ([]models.Achievement, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog decodes and checks a YAML achievement catalog.
func ParseCatalog(data []byte) ([]models.Achievement, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}

	seen := make(map[int]bool, len(file.Achievements))
	for _, a := range file.Achievements {
		if a.ID <= 0 {
			return nil, fmt.Errorf("achievement %q: id must be positive", a.Name)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate achievement id %d", a.ID)
		}
		seen[a.ID] = true

		if a.Name == "" {
			return nil, fmt.Errorf("achievement %d: name is required", a.ID)
		}
		if !knownCategories[a.Category] {
			return nil, fmt.Errorf("achievement %d: unknown category %q", a.ID, a.Category)
		}
		if a.Points < 0 {
			return nil, fmt.Errorf("achievement %d: points must not be negative", a.ID)
		}
	}

	out := file.Achievements
	for i := range out {
		out[i].UnlockedAt = nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
