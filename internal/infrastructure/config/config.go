package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default filesystem locations.
const (
	// DefaultPath is where luxctl looks for its YAML configuration.
	DefaultPath = "/usr/local/etc/luxctl/config.yaml"

	// DefaultDatabasePath is the action store used when no configuration overrides it.
	DefaultDatabasePath = "/var/db/bh1750/actions.sqlite"

	// envFileName is the optional dotenv file read from the config directory.
	envFileName = "luxctl.env"
)

// Sensor sources.
const (
	SensorSysctl = "sysctl"
	SensorFile   = "file"
	SensorFixed  = "fixed"
)

// Config is the root configuration structure for luxctl.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Executor ExecutorConfig `yaml:"executor"`
	Watch    WatchConfig    `yaml:"watch"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig identifies the installation in MQTT topics and metrics.
type SiteConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// SensorConfig selects where illuminance readings come from.
type SensorConfig struct {
	// Source is one of "sysctl", "file" or "fixed".
	Source string `yaml:"source"`

	// OID is the sysctl name read by the sysctl source.
	OID string `yaml:"oid"`

	// Path is the sysfs attribute read by the file source,
	// e.g. /sys/bus/iio/devices/iio:device0/in_illuminance_raw.
	Path string `yaml:"path"`

	// Level is the constant reading returned by the fixed source.
	Level int `yaml:"level"`
}

// ExecutorConfig contains settings for running triggered commands.
type ExecutorConfig struct {
	// Timeout bounds a single command run (seconds). 0 disables the bound.
	Timeout int `yaml:"timeout"`

	// WorkDir is the working directory for commands. Empty inherits ours.
	WorkDir string `yaml:"work_dir"`
}

// WatchConfig contains settings for the periodic watch mode.
type WatchConfig struct {
	// Schedule is a cron expression or descriptor such as "@every 30s".
	Schedule string `yaml:"schedule"`

	// PIDFile, when set, is locked for the lifetime of a watcher so a second
	// watcher on the same host refuses to start.
	PIDFile string `yaml:"pidfile"`
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

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. luxctl.env next to the YAML file, if present (never overrides the real environment)
//  4. Environment variables (override file values)
//
// Environment variables follow the pattern: LUXCTL_SECTION_KEY
// For example: LUXCTL_DATABASE_PATH, LUXCTL_SENSOR_SOURCE
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), envFileName)); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults (plus environment
// overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// Default returns a Config with the defaults of a stock BH1750 installation.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			ID: "default",
		},
		Database: DatabaseConfig{
			Path:        DefaultDatabasePath,
			WALMode:     false,
			BusyTimeout: 5,
		},
		Sensor: SensorConfig{
			Source: SensorSysctl,
			OID:    "dev.bh1750.0.illuminance",
		},
		Executor: ExecutorConfig{
			Timeout: 60,
		},
		Watch: WatchConfig{
			Schedule: "@every 30s",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "luxctl",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// loadEnvFile populates the process environment from a dotenv file.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LUXCTL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LUXCTL_SITE_ID"); v != "" {
		cfg.Site.ID = v
	}

	// Database
	if v := os.Getenv("LUXCTL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Sensor
	if v := os.Getenv("LUXCTL_SENSOR_SOURCE"); v != "" {
		cfg.Sensor.Source = v
	}
	if v := os.Getenv("LUXCTL_SENSOR_OID"); v != "" {
		cfg.Sensor.OID = v
	}
	if v := os.Getenv("LUXCTL_SENSOR_PATH"); v != "" {
		cfg.Sensor.Path = v
	}
	if v := os.Getenv("LUXCTL_SENSOR_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sensor.Level = n
		}
	}

	// MQTT
	if v := os.Getenv("LUXCTL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("LUXCTL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("LUXCTL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("LUXCTL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must not be negative")
	}

	switch c.Sensor.Source {
	case SensorSysctl:
		if c.Sensor.OID == "" {
			errs = append(errs, "sensor.oid is required for the sysctl source")
		}
	case SensorFile:
		if c.Sensor.Path == "" {
			errs = append(errs, "sensor.path is required for the file source")
		}
	case SensorFixed:
		if c.Sensor.Level < 0 {
			errs = append(errs, "sensor.level must not be negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("sensor.source %q must be one of sysctl, file, fixed", c.Sensor.Source))
	}

	if c.Executor.Timeout < 0 {
		errs = append(errs, "executor.timeout must not be negative")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && (c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535) {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetExecutorTimeout returns the command timeout as a Duration.
func (c *Config) GetExecutorTimeout() time.Duration {
	return time.Duration(c.Executor.Timeout) * time.Second
}
