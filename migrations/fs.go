// Package migrations embeds the schema migration files for both database
// backends. Each backend mounts its own dialect subdirectory via fs.Sub.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
