package database

import (
	"context"
	"testing"
	"testing/fstest"
)

// testMigrations returns a filesystem with two ordered migrations.
func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"0001_create_items.sql": &fstest.MapFile{
			Data: []byte(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL);`),
		},
		"0002_add_note.sql": &fstest.MapFile{
			Data: []byte(`ALTER TABLE items ADD COLUMN note TEXT;`),
		},
	}
}

// TestMigrate verifies migration application.
func TestMigrate(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.Migrate(ctx, testMigrations()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Both migrations must have applied: the second one only parses if
	// the first created the table.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO items (name, note) VALUES (?, ?)", "a", "b",
	); err != nil {
		t.Fatalf("schema incomplete after migration: %v", err)
	}

	// Migration records must exist in order.
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scanning version: %v", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterating versions: %v", err)
	}

	want := []string{"0001_create_items.sql", "0002_add_note.sql"}
	if len(versions) != len(want) {
		t.Fatalf("recorded %d migrations, want %d", len(versions), len(want))
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Errorf("version[%d] = %q, want %q", i, versions[i], want[i])
		}
	}
}

// TestMigrate_Idempotent verifies running migrations twice is safe.
func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	fsys := testMigrations()

	if err := db.Migrate(ctx, fsys); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if err := db.Migrate(ctx, fsys); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations",
	).Scan(&count); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("schema_migrations has %d rows, want 2", count)
	}
}

// TestMigrate_FailureRollsBack verifies a broken migration leaves no record.
func TestMigrate_FailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	fsys := fstest.MapFS{
		"0001_broken.sql": &fstest.MapFile{
			Data: []byte(`CREATE TABLE broken (;`),
		},
	}

	if err := db.Migrate(ctx, fsys); err == nil {
		t.Fatal("Migrate() expected error for broken SQL, got nil")
	}

	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations",
	).Scan(&count); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 0 {
		t.Errorf("schema_migrations has %d rows, want 0 after rollback", count)
	}
}

// TestMigrate_StopsAtFailure verifies earlier migrations stay committed.
func TestMigrate_StopsAtFailure(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	fsys := fstest.MapFS{
		"0001_good.sql": &fstest.MapFile{
			Data: []byte(`CREATE TABLE good (id INTEGER PRIMARY KEY);`),
		},
		"0002_bad.sql": &fstest.MapFile{
			Data: []byte(`THIS IS NOT SQL;`),
		},
	}

	if err := db.Migrate(ctx, fsys); err == nil {
		t.Fatal("Migrate() expected error, got nil")
	}

	// First migration stays applied.
	if _, err := db.ExecContext(ctx, "INSERT INTO good DEFAULT VALUES"); err != nil {
		t.Errorf("first migration was not committed: %v", err)
	}
}
