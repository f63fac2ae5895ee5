// Package migrations embeds the goose migrations for every supported store driver.
package migrations

import "embed"

// Postgres holds the migrations applied to a PostgreSQL store.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations applied to an embedded SQLite store.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
