// Package migrations embeds the SQL schema migrations applied by
// database.RunMigrations.
package migrations

import "embed"

// FS holds the numbered *.up.sql / *.down.sql migration files.
//
//go:embed *.sql
var FS embed.FS
