package migrations

import "embed"

// FS contains the embedded schema migrations shared by the Postgres and SQLite drivers.
//
//go:embed *.sql
var FS embed.FS
