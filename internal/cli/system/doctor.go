package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/backup"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
	"github.com/julianstephens/habitquest/internal/utils"
	"github.com/julianstephens/habitquest/internal/validation"
)

// schemaVersioner is implemented by the SQL stores.
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name        string
	needsDB     bool
	warningOnly bool
	run         func(*cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warningOnly: true, run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock", run: checkClock},
	{name: "Timezone", needsDB: true, run: checkTimezone},
	{name: "Achievements seeded", needsDB: true, run: checkAchievementsSeeded},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warningOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	store, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitquest migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return nil
	}
	backups, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitquest backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var d validation.Data
	if d.Habits, err = ctx.Store.GetAllHabits(); err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	if d.CheckIns, err = ctx.Store.GetAllCheckIns(); err != nil {
		return fmt.Errorf("failed to get check-ins: %w", err)
	}
	if d.Stats, err = ctx.Store.GetUserStats(); err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if d.Achievements, err = ctx.Store.GetAchievements(); err != nil {
		return fmt.Errorf("failed to get achievements: %w", err)
	}
	d.KnownIDs = achievements.DefaultRegistry().IDs()

	result := validation.Audit(d, t.Now())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s)\n%s", len(result.Conflicts), result.FormatReport())
	}
	return nil
}

func checkClock(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return err
	}
	logger.Debug("Local time", "timezone", settings.Timezone, "now", now.Format(time.RFC3339))
	return nil
}

func checkAchievementsSeeded(ctx *cli.Context) error {
	catalog, err := achievements.Catalog()
	if err != nil {
		return fmt.Errorf("failed to read built-in achievements: %w", err)
	}
	stored, err := ctx.Store.GetAchievements()
	if err != nil {
		return fmt.Errorf("failed to get achievements: %w", err)
	}

	have := make(map[int]bool, len(stored))
	for _, a := range stored {
		have[a.ID] = true
	}
	missing := 0
	for _, a := range catalog {
		if !have[a.ID] {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d built-in achievement(s) missing (run 'habitquest init')", missing)
	}
	return nil
}
