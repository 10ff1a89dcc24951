package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/smarthome-core/internal/infrastructure/config"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/logging"
)

func quietLogger() *logging.Logger {
	return logging.NewWithWriter(config.LoggingConfig{Level: "error", Format: "text"}, "test", io.Discard)
}

// writeConfig writes a config with every network service disabled, plus extra
// YAML appended at the top level.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()

	tmpDir := t.TempDir()
	content := `
site:
  id: test-site
  timezone: UTC

database:
  path: "` + filepath.Join(tmpDir, "test.db") + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

api:
  enabled: false

logging:
  level: error
  format: text
  output: stdout
` + extra

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

const testAutomation = `
automation:
  tick_interval: 1
  scheduler_interval: 1
  main_room: Living Room
  rules:
    - name: Evening Lights
      trigger: {type: time_after, time: "18:00"}
      conditions:
        - {type: room_dark, room: Living Room}
      actions:
        - {type: room_lights_on, room: Living Room, brightness: 60}
    - name: Motion Light
      template: motion_light
      room: Living Room
  tasks:
    - time: "06:00"
      description: Heat
      action: {type: set_temperature, device: Nest, temperature: 21}
`

func TestRun_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, "/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

func TestRun_EmptyDatabasePath(t *testing.T) {
	path := writeConfig(t, "")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	broken := strings.Replace(string(data), `path: "`, `path: "" # `, 1)
	if err := os.WriteFile(path, []byte(broken), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := run(ctx, path); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

func TestRun_InvalidRule(t *testing.T) {
	path := writeConfig(t, `
automation:
  rules:
    - name: Broken
      trigger: {type: time_after, time: "25:00"}
      actions:
        - {type: all_off}
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := run(ctx, path)
	if err == nil || !strings.Contains(err.Error(), "Broken") {
		t.Fatalf("run() error = %v, want rule error naming Broken", err)
	}
}

// TestRun_StartupAndShutdown runs the full lifecycle with local services only.
func TestRun_StartupAndShutdown(t *testing.T) {
	path := writeConfig(t, testAutomation)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	if err := run(ctx, path); err != nil {
		t.Fatalf("run() error = %v, want clean shutdown", err)
	}
}

func TestBuildCore(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, testAutomation))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	c, err := buildCore(cfg, quietLogger())
	if err != nil {
		t.Fatalf("buildCore: %v", err)
	}
	if got := len(c.engine.Rules()); got != 2 {
		t.Errorf("rules = %d, want 2", got)
	}
	if got := len(c.scheduler.Tasks()); got != 1 {
		t.Errorf("tasks = %d, want 1", got)
	}
	if got := len(c.scenes.Names()); got != 4 {
		t.Errorf("scenes = %d, want 4", got)
	}
	if got := len(c.home.Rooms()); got != 3 {
		t.Errorf("rooms = %d, want 3 (default home)", got)
	}
	if c.engine.Location() != time.UTC {
		t.Errorf("engine location = %v, want UTC", c.engine.Location())
	}
}

func TestBuildCore_InvalidTask(t *testing.T) {
	tests := []struct {
		name string
		task string
	}{
		{"bad time", `{time: "6am", description: x, action: {type: all_off}}`},
		{"bad action", `{time: "06:00", description: x, action: {type: explode}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeConfig(t, "\nautomation:\n  tasks:\n    - "+tt.task+"\n"))
			if err != nil {
				// Validation may already reject it.
				return
			}
			if _, err := buildCore(cfg, quietLogger()); err == nil {
				t.Error("buildCore() should fail")
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("SMARTHOME_CONFIG", "")
	if got := resolveConfigPath(""); got != defaultConfigPath {
		t.Errorf("default = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("SMARTHOME_CONFIG", "/custom/path/config.yaml")
	if got := resolveConfigPath(""); got != "/custom/path/config.yaml" {
		t.Errorf("env = %q", got)
	}
	if got := resolveConfigPath("flag.yaml"); got != "flag.yaml" {
		t.Errorf("flag = %q, want flag to win", got)
	}
}

func TestListRules(t *testing.T) {
	var buf bytes.Buffer
	if err := listRules(&buf, writeConfig(t, testAutomation)); err != nil {
		t.Fatalf("listRules: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Evening Lights", "Motion Light", "Heat", "06:00", "movie", "Living Room"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShippedConfigIsValid(t *testing.T) {
	if err := listRules(io.Discard, filepath.Join("..", "..", "configs", "config.yaml")); err != nil {
		t.Fatalf("configs/config.yaml: %v", err)
	}
}

func TestRootCmd(t *testing.T) {
	path := writeConfig(t, testAutomation)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"version", []string{"version"}, "smarthome dev"},
		{"rules with flag", []string{"rules", "--config", path}, "Evening Lights"},
		{"rules with short flag", []string{"rules", "-c", path}, "Motion Light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.want)
			}
		})
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"version", "extra"})
	if err := cmd.Execute(); err == nil {
		t.Error("Execute() should reject extra arguments")
	}
}
