package migrations

import "embed"

// FS contains embedded MySQL migrations for task storage.
//
//go:embed *.sql
var FS embed.FS
