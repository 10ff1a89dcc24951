package database_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/smarthome-core/internal/infrastructure/database"
	_ "github.com/nerrad567/smarthome-core/migrations"
)

const executionsVersion = "20260301_090000"

// openTestDB opens a WAL database in a temp directory and applies the
// embedded migrations.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "smarthome.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestOpen(t *testing.T) {
	t.Run("creates nested directory and file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "data", "core", "smarthome.db")

		db, err := database.Open(database.Config{Path: dbPath, WALMode: true, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("database file: %v", err)
		}
	})

	t.Run("applies pragmas", func(t *testing.T) {
		db := openTestDB(t)
		ctx := context.Background()

		pragmas := []struct {
			name string
			want string
		}{
			{"journal_mode", "wal"},
			{"foreign_keys", "1"},
			{"busy_timeout", "5000"},
		}
		for _, p := range pragmas {
			var got string
			if err := db.QueryRowContext(ctx, "PRAGMA "+p.name).Scan(&got); err != nil {
				t.Fatalf("PRAGMA %s: %v", p.name, err)
			}
			if strings.ToLower(got) != p.want {
				t.Errorf("PRAGMA %s = %q, want %q", p.name, got, p.want)
			}
		}
	})

	t.Run("single writer pool", func(t *testing.T) {
		db := openTestDB(t)
		if n := db.Stats().MaxOpenConnections; n != 1 {
			t.Errorf("MaxOpenConnections = %d, want 1", n)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "smarthome.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() after Close() should fail")
	}

	db.DB = nil
	if err := db.Close(); err != nil {
		t.Errorf("Close() on nil DB error = %v", err)
	}
}

// ─── Execution history schema ──────────────────────────────────────

func TestMigrateCreatesExecutionHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO automation_executions
		(id, source, name, triggered_at, status, actions_total, actions_completed, duration_ms)
		VALUES (?, ?, 'Evening Lights', '2026-03-14T18:00:00Z', ?, 2, 2, 4)`

	tests := []struct {
		name    string
		source  string
		status  string
		wantErr bool
	}{
		{"rule completed", "rule", "completed", false},
		{"task failed", "task", "failed", false},
		{"scene completed", "scene", "completed", false},
		{"unknown source", "webhook", "completed", true},
		{"unknown status", "rule", "running", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ExecContext(ctx, insert, "exec-"+tt.name, tt.source, tt.status)
			if (err != nil) != tt.wantErr {
				t.Errorf("insert error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	var indexes int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND tbl_name='automation_executions' AND name LIKE 'idx_%'",
	).Scan(&indexes)
	if err != nil {
		t.Fatalf("index query: %v", err)
	}
	if indexes != 2 {
		t.Errorf("indexes = %d, want 2", indexes)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	version, pending, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != executionsVersion || pending != 0 {
		t.Errorf("SchemaVersion() = %q, %d pending; want %q, 0", version, pending, executionsVersion)
	}

	applied, _, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || applied[0].AppliedAt.IsZero() {
		t.Errorf("applied = %+v", applied)
	}

	// A forgotten record shows as pending and re-applies cleanly.
	if _, err := db.ExecContext(ctx, "DELETE FROM schema_migrations"); err != nil {
		t.Fatalf("clearing schema_migrations: %v", err)
	}
	version, pending, err = db.SchemaVersion(ctx)
	if err != nil || version != "" || pending != 1 {
		t.Errorf("after clearing = %q, %d pending, %v; want \"\", 1", version, pending, err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if version, _, _ := db.SchemaVersion(ctx); version != executionsVersion {
		t.Errorf("version after re-migrate = %q", version)
	}
}
