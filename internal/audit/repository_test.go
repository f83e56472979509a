package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sifis-home/wp6-mobile-application-api/internal/infrastructure/database"
	"github.com/sifis-home/wp6-mobile-application-api/migrations"
)

// openTestRepo creates a migrated temporary database and repository.
func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "audit.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background(), migrations.Files()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewSQLiteRepository(db.DB)
}

func TestRecord(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	entry := &Entry{
		Action:     ActionRestart,
		Outcome:    OutcomeOK,
		RemoteAddr: "192.0.2.10",
	}
	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if entry.ID == 0 {
		t.Error("Record() did not assign an ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Record() did not assign CreatedAt")
	}
}

func TestList(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	seed := []Entry{
		{Action: ActionAuth, Outcome: OutcomeRejected, Detail: "missing header"},
		{Action: ActionSetConfig, Outcome: OutcomeOK},
		{Action: ActionSetConfig, Outcome: OutcomeBusy},
		{Action: ActionAuth, Outcome: OutcomeDenied},
	}
	for i := range seed {
		if err := repo.Record(ctx, &seed[i]); err != nil {
			t.Fatalf("seeding entry %d: %v", i, err)
		}
	}

	t.Run("all entries, most recent first", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 4 {
			t.Errorf("Total = %d, want 4", result.Total)
		}
		if len(result.Entries) != 4 {
			t.Fatalf("len(Entries) = %d, want 4", len(result.Entries))
		}
		if result.Entries[0].Action != ActionAuth || result.Entries[0].Outcome != OutcomeDenied {
			t.Errorf("first entry = %s/%s, want most recent (auth/denied)",
				result.Entries[0].Action, result.Entries[0].Outcome)
		}
	})

	t.Run("filter by action", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{Action: ActionSetConfig})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d, want 2", result.Total)
		}
		for _, e := range result.Entries {
			if e.Action != ActionSetConfig {
				t.Errorf("entry action = %q, want %q", e.Action, ActionSetConfig)
			}
		}
	})

	t.Run("filter by outcome", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{Outcome: OutcomeRejected})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 1 {
			t.Errorf("Total = %d, want 1", result.Total)
		}
		if len(result.Entries) == 1 && result.Entries[0].Detail != "missing header" {
			t.Errorf("Detail = %q, want %q", result.Entries[0].Detail, "missing header")
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 4 {
			t.Errorf("Total = %d, want 4", result.Total)
		}
		if len(result.Entries) != 2 {
			t.Errorf("len(Entries) = %d, want 2", len(result.Entries))
		}
		if result.Limit != 2 || result.Offset != 2 {
			t.Errorf("Limit/Offset = %d/%d, want 2/2", result.Limit, result.Offset)
		}
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{Action: "no_such_action"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Entries == nil {
			t.Error("Entries should be an empty slice, not nil")
		}
	})
}

func TestList_ClampsLimit(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	result, err := repo.List(ctx, Filter{Limit: 10000, Offset: -5})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if result.Limit != 200 {
		t.Errorf("Limit = %d, want clamped to 200", result.Limit)
	}
	if result.Offset != 0 {
		t.Errorf("Offset = %d, want clamped to 0", result.Offset)
	}
}

func TestRecord_KeepsCreatedAt(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &Entry{Action: ActionShutdown, Outcome: OutcomeOK, CreatedAt: fixed}
	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	result, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(result.Entries))
	}
	if !result.Entries[0].CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", result.Entries[0].CreatedAt, fixed)
	}
}
