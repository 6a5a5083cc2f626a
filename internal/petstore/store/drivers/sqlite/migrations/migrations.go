// Package migrations embeds the SQL migration files so they ship inside the
// binary and can be applied via the iofs migrate source.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
