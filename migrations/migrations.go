// Package migrations embeds the SQL schema applied by config.RunMigrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
