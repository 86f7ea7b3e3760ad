// Package db holds the SQL migrations for the tenant configuration schema.
package db

import "embed"

// Migrations is used by builds tagged embed_migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
