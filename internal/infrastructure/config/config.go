package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the smart home core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Database   DatabaseConfig   `yaml:"database"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	API        APIConfig        `yaml:"api"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Logging    LoggingConfig    `yaml:"logging"`
	Automation AutomationConfig `yaml:"automation"`
	Home       HomeConfig       `yaml:"home"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// AutomationConfig contains rule engine and scheduler settings.
type AutomationConfig struct {
	// TickInterval is how often the rule engine ticks (seconds).
	TickInterval int `yaml:"tick_interval"`

	// SchedulerInterval is how often the scheduler checks its tasks (seconds).
	SchedulerInterval int `yaml:"scheduler_interval"`

	// MainRoom is the room targeted by the built-in movie and morning scenes.
	MainRoom string `yaml:"main_room"`

	// HistoryLimit caps the number of executions returned per query.
	HistoryLimit int `yaml:"history_limit"`

	Rules []RuleConfig `yaml:"rules"`
	Tasks []TaskConfig `yaml:"tasks"`
}

// RuleConfig declares a rule. Either Template or Trigger must be set.
//
//	rules:
//	  - name: Evening Lights
//	    trigger: {type: time_after, time: "18:00"}
//	    conditions:
//	      - {type: room_dark, room: Living Room}
//	    actions:
//	      - {type: room_lights_on, room: Living Room, brightness: 60}
type RuleConfig struct {
	Name       string            `yaml:"name"`
	Enabled    *bool             `yaml:"enabled"`
	Template   string            `yaml:"template"` // "motion_light"
	Room       string            `yaml:"room"`     // template argument
	Trigger    PredicateConfig   `yaml:"trigger"`
	Conditions []PredicateConfig `yaml:"conditions"`
	Actions    []ActionConfig    `yaml:"actions"`
}

// PredicateConfig declares a trigger or condition.
type PredicateConfig struct {
	Type   string `yaml:"type"`
	Time   string `yaml:"time"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Cron   string `yaml:"cron"`
	Room   string `yaml:"room"`
	Device string `yaml:"device"`
	Expr   string `yaml:"expr"`
	Negate bool   `yaml:"negate"`
}

// ActionConfig declares an action.
type ActionConfig struct {
	Type        string  `yaml:"type"`
	Room        string  `yaml:"room"`
	Device      string  `yaml:"device"`
	Brightness  int     `yaml:"brightness"`
	Position    int     `yaml:"position"`
	Temperature float64 `yaml:"temperature"`
}

// TaskConfig declares a daily scheduled task.
type TaskConfig struct {
	Time        string       `yaml:"time"`
	Description string       `yaml:"description"`
	Action      ActionConfig `yaml:"action"`
}

// HomeConfig describes the home's rooms and devices. When Rooms is empty the
// built-in default home is used.
type HomeConfig struct {
	Name     string       `yaml:"name"`
	LockCode string       `yaml:"lock_code"`
	Rooms    []RoomConfig `yaml:"rooms"`
}

// RoomConfig describes one room.
type RoomConfig struct {
	Name    string         `yaml:"name"`
	Floor   string         `yaml:"floor"`
	AreaM2  float64        `yaml:"area_m2"`
	Devices []DeviceConfig `yaml:"devices"`
}

// DeviceConfig describes one device or sensor.
type DeviceConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SMARTHOME_SECTION_KEY
// For example: SMARTHOME_DATABASE_PATH, SMARTHOME_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the default configuration with environment overrides
// applied. It is used when no config file exists.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "home-001",
			Name:     "Smart Home",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/smarthome.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: true,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "smarthome-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Automation: AutomationConfig{
			TickInterval:      5,
			SchedulerInterval: 5,
			MainRoom:          "Living Room",
			HistoryLimit:      50,
		},
		Home: HomeConfig{
			Name:     "My Smart Home",
			LockCode: "1234",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SMARTHOME_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Site
	if v := os.Getenv("SMARTHOME_SITE_TIMEZONE"); v != "" {
		cfg.Site.Timezone = v
	}

	// Database
	if v := os.Getenv("SMARTHOME_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("SMARTHOME_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SMARTHOME_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SMARTHOME_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("SMARTHOME_MQTT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = b
		}
	}

	// API
	if v := os.Getenv("SMARTHOME_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("SMARTHOME_API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = p
		}
	}

	// InfluxDB
	if v := os.Getenv("SMARTHOME_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("SMARTHOME_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Home
	if v := os.Getenv("SMARTHOME_LOCK_CODE"); v != "" {
		cfg.Home.LockCode = v
	}
}

// Validate checks the configuration for errors.
// All problems are collected so a broken file can be fixed in one pass.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("site.timezone %q is not a valid IANA zone", c.Site.Timezone))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if c.Automation.TickInterval < 1 {
		errs = append(errs, "automation.tick_interval must be at least 1 second")
	}
	if c.Automation.SchedulerInterval < 1 {
		errs = append(errs, "automation.scheduler_interval must be at least 1 second")
	}

	errs = append(errs, c.validateRules()...)
	errs = append(errs, c.validateHome()...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (c *Config) validateRules() []string {
	var errs []string
	seen := make(map[string]struct{}, len(c.Automation.Rules))
	for i, r := range c.Automation.Rules {
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Sprintf("automation.rules[%d].name is required", i))
			continue
		}
		key := strings.ToLower(r.Name)
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Sprintf("automation.rules[%d]: duplicate rule name %q", i, r.Name))
		}
		seen[key] = struct{}{}
		if r.Template == "" && r.Trigger.Type == "" {
			errs = append(errs, fmt.Sprintf("automation.rules[%d] (%s): trigger.type or template is required", i, r.Name))
		}
	}
	for i, t := range c.Automation.Tasks {
		if t.Time == "" {
			errs = append(errs, fmt.Sprintf("automation.tasks[%d].time is required", i))
		}
		if t.Action.Type == "" {
			errs = append(errs, fmt.Sprintf("automation.tasks[%d].action.type is required", i))
		}
	}
	return errs
}

func (c *Config) validateHome() []string {
	var errs []string
	rooms := make(map[string]struct{}, len(c.Home.Rooms))
	devices := make(map[string]struct{})
	for i, r := range c.Home.Rooms {
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("home.rooms[%d].name is required", i))
			continue
		}
		key := strings.ToLower(r.Name)
		if _, dup := rooms[key]; dup {
			errs = append(errs, fmt.Sprintf("home.rooms[%d]: duplicate room %q", i, r.Name))
		}
		rooms[key] = struct{}{}
		for j, d := range r.Devices {
			if d.Name == "" || d.Type == "" {
				errs = append(errs, fmt.Sprintf("home.rooms[%d].devices[%d]: name and type are required", i, j))
				continue
			}
			dk := strings.ToLower(d.Name)
			if _, dup := devices[dk]; dup {
				errs = append(errs, fmt.Sprintf("home.rooms[%d].devices[%d]: duplicate device %q", i, j, d.Name))
			}
			devices[dk] = struct{}{}
		}
	}
	return errs
}

// Location returns the site's time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetTickInterval returns the rule engine tick interval.
func (c *Config) GetTickInterval() time.Duration {
	return time.Duration(c.Automation.TickInterval) * time.Second
}

// GetSchedulerInterval returns the scheduler tick interval.
func (c *Config) GetSchedulerInterval() time.Duration {
	return time.Duration(c.Automation.SchedulerInterval) * time.Second
}
