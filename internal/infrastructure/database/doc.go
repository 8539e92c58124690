// Package database provides SQLite connection management for BeaconTrack Core.
//
// It wraps database/sql with:
//   - Connection setup (WAL mode, busy timeout, foreign keys)
//   - Embedded schema migrations applied at startup
//   - Health checks for the readiness probe
//
// SQLite is used for the position history store. The connection pool is
// pinned to a single connection to match SQLite's single-writer model.
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
