// Package database provides SQLite connectivity for the audit trail.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations from embedded .sql files
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Performance Characteristics:
//   - WAL mode allows concurrent reads during writes
//   - Busy timeout prevents lock contention errors
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.Files()); err != nil {
//	    log.Fatal(err)
//	}
//
// Migrations are forward-only: .sql files applied in filename order, each
// in its own transaction, recorded in the schema_migrations table.
package database
