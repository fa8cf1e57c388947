package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitquest/internal/cli"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/keyring"
	"github.com/julianstephens/habitquest/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string used when --config
// is left at its default.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !cli.IsPostgres(cmd.ConnectionString) {
		return apperrors.Invalid("%q is not a PostgreSQL connection string", maskPassword(cmd.ConnectionString))
	}

	// The keyring is encrypted, so a password is accepted here with a warning.
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return apperrors.Invalid("invalid connection string: %v", err)
		}
		fmt.Println(cli.WarningStyle.Render("The connection string contains a password. It is stored as-is in the OS keyring."))
		fmt.Println(cli.MutedStyle.Render("Use .pgpass or PGPASSWORD to keep the password out of it."))
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Printf("%s Connection string stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	fmt.Println(cli.MutedStyle.Render("Run 'habitquest init' to create the schema, then 'habitquest doctor' to check it."))
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("no connection string stored, use 'habitquest keyring set': %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read connection string from keyring: %w", err)
	}

	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("no connection string stored: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Printf("%s Connection string deleted; habitquest falls back to SQLite\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	status := keyring.GetStatus()
	if !status.Available {
		fmt.Printf("%s OS keyring is not available\n", cli.DangerStyle.Render("✗"))
		return keyring.ErrKeyringUnavailable
	}

	fmt.Printf("%s OS keyring is available\n", cli.SuccessStyle.Render("✓"))
	if status.Stored {
		fmt.Println("  Storage: PostgreSQL (connection string in keyring)")
	} else {
		fmt.Println(cli.MutedStyle.Render("  Storage: SQLite (no connection string stored)"))
	}
	return nil
}

// maskPassword hides the password of a URL or key/value connection string.
func maskPassword(connStr string) string {
	if scheme, rest, ok := strings.Cut(connStr, "://"); ok {
		return scheme + "://" + maskUserInfo(rest)
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}

// maskUserInfo masks the password in user:password@host. The last @ ends the
// user info, so passwords may contain @.
func maskUserInfo(rest string) string {
	at := strings.LastIndex(rest, "@")
	if at == -1 {
		return rest
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return rest
	}
	return user + ":****" + rest[at:]
}
