// Package migrations embeds the SQL schema migrations for BeaconTrack Core.
//
// Migration files follow the naming convention:
//
//	YYYYMMDD_HHMMSS_description.up.sql
//	YYYYMMDD_HHMMSS_description.down.sql
//
// The embedded filesystem is handed to the database package at init time
// so the migration runner can discover and apply them on startup.
package migrations

import (
	"embed"

	"github.com/beacontrack/beacontrack-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationFiles embed.FS

func init() {
	database.MigrationsFS = migrationFiles
	database.MigrationsDir = "."
}
