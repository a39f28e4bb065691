// Package migrations embeds the PostgreSQL schema for the backing store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
