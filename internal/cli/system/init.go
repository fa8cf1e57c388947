package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/storage/postgres"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.ResetTracker()
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := t.Bootstrap(); err != nil {
		return fmt.Errorf("failed to seed achievements: %w", err)
	}
	fmt.Printf("Initialized habitquest storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// reset deletes the SQLite database file. Other stores are left untouched.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath, ok := ctx.SQLitePath()
	if !ok {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}
	if c.Source != "" {
		if absDbPath, err := filepath.Abs(dbPath); err == nil {
			dbPath = absDbPath
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(source), nil
}

// migrateData copies every record from source into the freshly initialized
// store. Habit ids are reassigned by the destination, so check-ins and ledger
// entries are remapped to the new ids.
func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	dst := ctx.Store

	fmt.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating habits...")
	habits, err := src.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	ids := make(map[int]int, len(habits))
	for _, h := range habits {
		added, err := dst.AddHabit(h)
		if err != nil {
			return fmt.Errorf("failed to add habit %d: %w", h.ID, err)
		}
		ids[h.ID] = added.ID
	}
	fmt.Printf("    Migrated %d habits\n", len(habits))

	fmt.Println("  Migrating check-ins...")
	checkIns, err := src.GetAllCheckIns()
	if err != nil {
		return fmt.Errorf("failed to get check-ins from source: %w", err)
	}
	migrated := 0
	for _, ci := range checkIns {
		newID, ok := ids[ci.HabitID]
		if !ok {
			fmt.Printf("    Skipping orphaned check-in %d\n", ci.ID)
			continue
		}
		ci.HabitID = newID
		if _, err := dst.AddCheckIn(ci); err != nil {
			return fmt.Errorf("failed to add check-in %d: %w", ci.ID, err)
		}
		migrated++
	}
	fmt.Printf("    Migrated %d check-ins\n", migrated)

	fmt.Println("  Migrating achievements...")
	achievements, err := src.GetAchievements()
	if err != nil {
		return fmt.Errorf("failed to get achievements from source: %w", err)
	}
	unlocked := 0
	for _, a := range achievements {
		if !a.Unlocked() {
			continue
		}
		err := dst.UnlockAchievement(a.ID, *a.UnlockedAt)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAlreadyUnlocked) {
			return fmt.Errorf("failed to unlock achievement %d: %w", a.ID, err)
		}
		if err == nil {
			unlocked++
		}
	}
	fmt.Printf("    Migrated %d unlocked achievements\n", unlocked)

	fmt.Println("  Migrating experience...")
	stats, err := src.GetUserStats()
	if err != nil {
		return fmt.Errorf("failed to get stats from source: %w", err)
	}
	events, err := src.GetExperienceEvents(0)
	if err != nil {
		return fmt.Errorf("failed to get experience history from source: %w", err)
	}
	stats.CurrentStreaks = remapKeys(stats.CurrentStreaks, ids)
	stats.LongestStreaks = remapKeys(stats.LongestStreaks, ids)
	// History is newest first; replay oldest first.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Reason != constants.ReasonAchievementUnlocked {
			e.RefID = ids[e.RefID]
		}
		if err := dst.RecordExperience(stats, e); err != nil {
			return fmt.Errorf("failed to record experience event %s: %w", e.ID, err)
		}
	}
	if err := dst.SaveUserStats(stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	fmt.Printf("    Migrated %d experience events\n", len(events))

	ctx.ResetTracker()
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if _, err := t.RefreshStats(); err != nil {
		return fmt.Errorf("failed to refresh stats: %w", err)
	}
	return nil
}

func remapKeys(m map[int]int, ids map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for old, v := range m {
		if id, ok := ids[old]; ok {
			out[id] = v
		}
	}
	return out
}
