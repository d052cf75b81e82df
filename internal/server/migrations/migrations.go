// Package migrations embeds the goose SQL migrations of the survey store.
// The statements are kept portable between sqlite and postgres.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
