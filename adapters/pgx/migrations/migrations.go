// Package migrations embeds the goose SQL migrations for the users and
// meals tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
