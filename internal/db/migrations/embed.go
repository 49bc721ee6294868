// Package migrations holds the goose SQL migrations of the craft journal.
package migrations

import "embed"

// FS contains every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
