// Package db carries the SQL migrations so they can be embedded into the
// binary with the embed_migrations build tag.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
