package system

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/cli"
)

// migrator is implemented by the SQL stores.
type migrator interface {
	ApplyMigrations(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate command is not supported for %s", ctx.Store.GetConfigPath())
	}

	count, err := store.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
