// Package db embeds the SQL migrations so production builds can run them
// without the source tree present. Enabled via the embed_migrations build tag
// in cmd/wardenctl.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
