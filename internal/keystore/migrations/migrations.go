// Package migrations embeds the keystore schema migrations applied with
// goose on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
