package automation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/smarthome-core/internal/infrastructure/database"
	_ "github.com/nerrad567/smarthome-core/migrations"
)

// setupTestRepo opens a migrated SQLite database in a temp directory.
func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetExecution(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

	exec := &Execution{
		Source:           SourceRule,
		Name:             "Evening Lights",
		TriggeredAt:      at,
		Status:           StatusFailed,
		ActionsTotal:     2,
		ActionsCompleted: 1,
		FailedAt:         strPtr("action[1]"),
		Error:            strPtr("device offline"),
		DurationMS:       3,
	}
	if err := repo.CreateExecution(ctx, exec); err != nil {
		t.Fatalf("CreateExecution() error = %v", err)
	}
	if exec.ID == "" {
		t.Fatal("ID was not generated")
	}

	got, err := repo.GetExecution(ctx, exec.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if got.Name != exec.Name || got.Status != StatusFailed || !got.TriggeredAt.Equal(at) {
		t.Errorf("GetExecution() = %+v", got)
	}
	if got.FailedAt == nil || *got.FailedAt != "action[1]" || got.Error == nil || *got.Error != "device offline" {
		t.Errorf("nullable fields = %v, %v", got.FailedAt, got.Error)
	}

	if _, err := repo.GetExecution(ctx, "missing"); !errors.Is(err, ErrExecutionNotFound) {
		t.Errorf("GetExecution(missing) error = %v, want ErrExecutionNotFound", err)
	}
}

func TestListExecutions(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_ = repo.CreateExecution(ctx, &Execution{
			Source: SourceRule, Name: "Evening Lights", Status: StatusCompleted,
			TriggeredAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	_ = repo.CreateExecution(ctx, &Execution{
		Source: SourceTask, Name: "Heat", Status: StatusCompleted, TriggeredAt: base.Add(10 * time.Hour),
	})

	rules, err := repo.ListExecutions(ctx, SourceRule, "evening lights", 0)
	if err != nil {
		t.Fatalf("ListExecutions() error = %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("ListExecutions() = %d, want 3", len(rules))
	}
	if !rules[0].TriggeredAt.After(rules[2].TriggeredAt) {
		t.Error("executions should be newest first")
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Name != "Heat" {
		t.Errorf("ListRecent(2) = %+v", recent)
	}

	empty, err := repo.ListExecutions(ctx, SourceScene, "away", 5)
	if err != nil || len(empty) != 0 || empty == nil {
		t.Errorf("ListExecutions(none) = %v, %v; want empty non-nil slice", empty, err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{in: 0, want: defaultListLimit},
		{in: -5, want: defaultListLimit},
		{in: 20, want: 20},
		{in: 1000, want: maxListLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
