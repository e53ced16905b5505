package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration.
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Store       StoreConfig    `mapstructure:"store"`
	Database    DatabaseConfig `mapstructure:"database"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Filter      FilterConfig   `mapstructure:"filter"`
	Hub         HubConfig      `mapstructure:"hub"`
	Log         LogConfig      `mapstructure:"log"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
	Seed        SeedConfig     `mapstructure:"seed"`
}

// ServerConfig controls the HTTP listener and generated hrefs.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// PublicURL is the externally visible scheme://host[:port] used in hrefs.
	PublicURL       string        `mapstructure:"public_url"`
	BasePath        string        `mapstructure:"base_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the collection backend.
type StoreConfig struct {
	// Driver is one of "memory", "postgres" or "sqlite".
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	// LogQueries turns on GORM statement logging.
	LogQueries bool `mapstructure:"log_queries"`
}

// AuthConfig controls the optional bearer-token gate.
type AuthConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// FilterConfig tunes query matching.
type FilterConfig struct {
	// Timezone decides which calendar day a timestamp falls on.
	Timezone string `mapstructure:"timezone"`
}

// HubConfig tunes event listener callbacks.
type HubConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig overrides the environment-derived logging defaults.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// SeedConfig names a file loaded into the store at startup.
type SeedConfig struct {
	File string `mapstructure:"file"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.base_path", "/tmf-api")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.sqlite_path", "tmf.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_queries", false)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("filter.timezone", "UTC")
	v.SetDefault("hub.timeout", 5*time.Second)

	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("seed.file", "")
}

// Load reads defaults, then the optional config file, then TMF_* environment
// variables (e.g. TMF_SERVER_ADDR, TMF_STORE_DRIVER).
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("TMF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.enabled requires auth.jwt_secret")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with /: %q", c.Server.BasePath)
	}
	return nil
}

// Location resolves the filter time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Filter.Timezone == "" || strings.EqualFold(c.Filter.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Filter.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid filter.timezone %q: %w", c.Filter.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return strings.HasPrefix(env, "prod")
}

// DSN renders the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Database,
		d.SSLMode,
	)
}
