package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/nerrad567/smarthome-core/internal/device"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	WebSocket     WSMetrics       `json:"websocket"`
	MQTT          BackendMetrics  `json:"mqtt"`
	InfluxDB      BackendMetrics  `json:"influxdb"`
	Devices       device.Stats    `json:"devices"`
	Automation    AutomationStats `json:"automation"`
	Database      DatabaseMetrics `json:"database"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// BackendMetrics reports an optional backend's connection state.
type BackendMetrics struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

// AutomationStats counts rules and scheduled tasks.
type AutomationStats struct {
	Rules        int  `json:"rules"`
	RulesEnabled int  `json:"rules_enabled"`
	Tasks        int  `json:"tasks"`
	Scenes       int  `json:"scenes"`
	SecurityArm  bool `json:"security_armed"`
}

// DatabaseMetrics contains database connection pool statistics.
type DatabaseMetrics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`

	SchemaVersion     string `json:"schema_version,omitempty"`
	PendingMigrations int    `json:"pending_migrations"`
}

func backendMetrics(c ConnectionChecker) BackendMetrics {
	if c == nil {
		return BackendMetrics{}
	}
	return BackendMetrics{Configured: true, Connected: c.IsConnected()}
}

// handleMetrics returns comprehensive system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{ConnectedClients: s.hub.ClientCount()},
		MQTT:      backendMetrics(s.mqtt),
		InfluxDB:  backendMetrics(s.influx),
	}

	err := s.ctrl.Do(r.Context(), func(context.Context) error {
		metrics.Devices = s.ctrl.Home().Registry().GetStats()
		rules := s.ctrl.Engine().Rules()
		metrics.Automation.Rules = len(rules)
		for _, rule := range rules {
			if rule.Enabled() {
				metrics.Automation.RulesEnabled++
			}
		}
		metrics.Automation.Tasks = len(s.ctrl.Scheduler().Tasks())
		if scenes := s.ctrl.Scenes(); scenes != nil {
			metrics.Automation.Scenes = len(scenes.Names())
		}
		metrics.Automation.SecurityArm = s.ctrl.Home().IsSecurityArmed()
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if s.db != nil {
		dbStats := s.db.Stats()
		metrics.Database = DatabaseMetrics{
			OpenConnections: dbStats.OpenConnections,
			InUse:           dbStats.InUse,
			Idle:            dbStats.Idle,
			WaitCount:       dbStats.WaitCount,
		}
		version, pending, err := s.db.SchemaVersion(r.Context())
		if err != nil {
			s.logger.Warn("reading schema version", "error", err)
		}
		metrics.Database.SchemaVersion = version
		metrics.Database.PendingMigrations = pending
	}

	writeJSON(w, http.StatusOK, metrics)
}
