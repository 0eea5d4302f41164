package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the crust service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the HTTP server (point queries, health checks and metrics).
// - Source: Where the CRUST 1.0 data files are read from.
// - Profiler: Settings of the background site profiling worker.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env      string         `yaml:"env"`      // Env is the current environment: local, development, production.
	Port     int            `yaml:"port"`     // Port is the HTTP server port.
	Source   SourceConfig   `yaml:"source"`   // Source describes the model data location.
	Profiler ProfilerConfig `yaml:"profiler"` // Profiler holds the site profiling worker settings.
	Database PostgresConfig `yaml:"postgres"` // Database holds the postgres database configuration.
}

// SourceConfig describes where the model data files live.
type SourceConfig struct {
	Type    string        `yaml:"type"`    // Type is "dir" or "http".
	Path    string        `yaml:"path"`    // Path is the data directory for the dir source.
	URL     string        `yaml:"url"`     // URL is the mirror base URL for the http source.
	Timeout time.Duration `yaml:"timeout"` // Timeout bounds a single file download.
}

// ProfilerConfig holds the settings of the site profiling worker.
type ProfilerConfig struct {
	Enabled   bool          `yaml:"enabled"`    // Enabled starts the worker; it requires a database.
	Workers   int           `yaml:"workers"`    // The number of concurrent workers for processing sites.
	Interval  time.Duration `yaml:"interval"`   // The duration between polling rounds.
	BatchSize int           `yaml:"batch_size"` // The maximum number of sites fetched per round.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad loads the configuration from the environment (and an optional .env
// file) and returns a Config struct. It panics on values that cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CRUST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("source.type", "dir")
	v.SetDefault("source.path", "data")
	v.SetDefault("source.url", "")
	v.SetDefault("source.timeout", "2m")
	v.SetDefault("profiler.enabled", "false")
	v.SetDefault("profiler.workers", "4")
	v.SetDefault("profiler.interval", "1m")
	v.SetDefault("profiler.batch_size", "100")

	port, err := parseInt(v.GetString("port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("source.timeout"))
	if err != nil {
		panic("failed to parse source timeout from configuration")
	}

	interval, err := time.ParseDuration(v.GetString("profiler.interval"))
	if err != nil {
		panic("failed to parse profiler interval from configuration")
	}

	workers, err := parseInt(v.GetString("profiler.workers"))
	if err != nil || workers < 1 {
		panic("failed to parse profiler workers from configuration, must be a positive integer")
	}

	batchSize, err := parseInt(v.GetString("profiler.batch_size"))
	if err != nil || batchSize < 1 {
		panic("failed to parse profiler batch size from configuration, must be a positive integer")
	}

	enabled, err := parseBool(v.GetString("profiler.enabled"))
	if err != nil {
		panic("failed to parse profiler enabled flag from configuration")
	}

	// Database variables keep the unprefixed names shared with other services.
	db := viper.New()
	db.AutomaticEnv()

	return &Config{
		Env:  v.GetString("env"),
		Port: port,
		Source: SourceConfig{
			Type:    v.GetString("source.type"),
			Path:    v.GetString("source.path"),
			URL:     v.GetString("source.url"),
			Timeout: timeout,
		},
		Profiler: ProfilerConfig{
			Enabled:   enabled,
			Workers:   workers,
			Interval:  interval,
			BatchSize: batchSize,
		},
		Database: PostgresConfig{
			Host:     db.GetString("DB_HOST"),
			Port:     db.GetString("DB_PORT"),
			User:     db.GetString("DB_USERNAME"),
			Password: db.GetString("DB_PASSWORD"),
			Name:     db.GetString("DB_NAME"),
		},
	}
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func parseBool(raw string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(raw))
}
