// Package migrations embeds the goose SQL migrations so the migrate binary
// ships without a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
