// Package database provides SQLite connectivity for the luxctl action store.
//
// This package manages:
//   - Creating the database directory and file on first use
//   - Foreign key enforcement on every connection (scope deletes cascade)
//   - Busy timeout so overlapping invocations wait instead of failing
//   - Embedded, additive schema migrations
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, BusyTimeout: 5})
//	if err != nil {
//	    return err // errors.Is(err, database.ErrUnavailable)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
