package database

import (
	"context"
	"embed"
	"path/filepath"
	"testing"
)

func TestMigrateNoMigrations(t *testing.T) {
	origFS, origDir := MigrationsFS, MigrationsDir
	defer func() { MigrationsFS, MigrationsDir = origFS, origDir }()

	var emptyFS embed.FS
	MigrationsFS, MigrationsDir = emptyFS, "."

	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "empty.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
	version, pending, err := db.SchemaVersion(ctx)
	if err != nil || version != "" || pending != 0 {
		t.Errorf("SchemaVersion() = %q, %d, %v; want empty", version, pending, err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOk      bool
	}{
		{
			name:        "up",
			filename:    "20260301_090000_automation_executions.up.sql",
			wantVersion: "20260301_090000",
			wantIsUp:    true,
			wantOk:      true,
		},
		{
			name:        "down",
			filename:    "20260301_090000_automation_executions.down.sql",
			wantVersion: "20260301_090000",
			wantOk:      true,
		},
		{name: "embed source", filename: "embed.go"},
		{name: "missing direction", filename: "20260301_090000_automation_executions.sql"},
		{name: "no timestamp", filename: "executions.up.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && (version != tt.wantVersion || isUp != tt.wantIsUp) {
				t.Errorf("got %q up=%v, want %q up=%v", version, isUp, tt.wantVersion, tt.wantIsUp)
			}
		})
	}
}

func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20260301_090000_automation_executions.up.sql", "automation_executions"},
		{"20260301_090000_automation_executions.down.sql", "automation_executions"},
		{"20260415_070000_add_scene_source_index.up.sql", "add_scene_source_index"},
	}

	for _, tt := range tests {
		if got := extractMigrationName(tt.filename); got != tt.want {
			t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
