// Package database provides SQLite connectivity for the smart home core.
//
// It opens the database with WAL mode and a busy timeout, limits the pool to
// a single connection (SQLite has one writer), and applies embedded schema
// migrations. The automation package stores its execution history here.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with a
// matching .down.sql, and are additive-only. SchemaVersion reports the
// newest applied version for the startup log and /api/v1/metrics.
package database
