// Package database provides SQLite connectivity for Vixio Core.
//
// It opens the database with WAL mode and a busy timeout, and applies
// embedded, forward-only schema migrations. Story and timeline documents
// live here so a restarted core resumes with the last published show.
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
