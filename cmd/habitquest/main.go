package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/cli/backups"
	"github.com/julianstephens/habitquest/internal/cli/checkins"
	"github.com/julianstephens/habitquest/internal/cli/habits"
	"github.com/julianstephens/habitquest/internal/cli/progress"
	"github.com/julianstephens/habitquest/internal/cli/settings"
	"github.com/julianstephens/habitquest/internal/cli/system"
	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/notifier"
)

type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or OS keyring instead." env:"HABITQUEST_DB" default:"${default_config}"`
	Debug   bool   `help:"Write debug logs to stderr." env:"HABITQUEST_DEBUG"`

	Init      system.InitCmd    `cmd:"" help:"Initialize habitquest storage."`
	Migrate   system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Debugging system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring   struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a reminder for habits still open today (used by cron)."`

	Habit        habits.HabitCmd          `cmd:"" help:"Manage habits."`
	Checkin      checkins.CheckinCmd      `cmd:"" help:"Record and review check-ins."`
	Today        checkins.TodayCmd        `cmd:"" help:"Show today's progress." default:"1"`
	Streak       checkins.StreakCmd       `cmd:"" help:"Show streaks."`
	Stats        progress.StatsCmd        `cmd:"" help:"Level, experience and totals."`
	Achievements progress.AchievementsCmd `cmd:"" help:"Achievements and unlock progress."`
	Backup       backups.BackupCmd        `cmd:"" help:"Manage database backups."`
	Settings     settings.SettingsCmd     `cmd:"" help:"Manage application settings."`
}

// skipsLoad lists commands that run before the store exists or never touch it.
var skipsLoad = map[string]bool{
	"init":           true,
	"keyring set":    true,
	"keyring get":    true,
	"keyring delete": true,
	"keyring status": true,
	"debug db-path":  true,
	"doctor":         true,
}

// loadSkipped reports whether the selected command runs without loading the
// store. Positional placeholders such as <connection-string> are ignored.
func loadSkipped(ctx *kong.Context) bool {
	var path []string
	for _, word := range strings.Fields(ctx.Command()) {
		if strings.HasPrefix(word, "<") {
			continue
		}
		path = append(path, word)
	}
	return skipsLoad[strings.Join(path, " ")]
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, achievements and levels"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	}
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	var args CLI
	ctx := kong.Parse(&args, options()...)

	configDir := filepath.Dir(constants.DefaultConfigPath)
	if dir, err := cli.ExpandPath(configDir); err == nil {
		configDir = dir
	}
	if err := logger.Init(logger.Config{Debug: args.Debug, ConfigDir: configDir}); err != nil {
		// Logging is best effort; the CLI still works without a log file.
		logger.InitWriter(os.Stderr, logger.Config{Debug: args.Debug, Level: "error"})
	}

	store, err := cli.OpenStore(args.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:    store,
		Notifier: notifier.New(),
	}

	if !loadSkipped(ctx) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
