// Package migrations embeds the action store schema into the binary.
package migrations

import (
	"embed"

	"github.com/nerrad567/luxctl/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
