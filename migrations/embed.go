// Package migrations embeds the versioned schema files for each supported database.
package migrations

import "embed"

// FS holds sqlite/NNN_*.sql and postgres/NNN_*.sql.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
