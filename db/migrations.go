// Package db carries the SQL schema migrations compiled into blogctl when
// built with the embed_migrations tag.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
