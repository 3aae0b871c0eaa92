package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "SHELF"
	ConfigEnv  = "SHELF_CONFIG"
	configDir  = ".shelf"
	configName = "config"
	configType = "toml"

	DriverTOML   = "toml"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds application configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Identity IdentityConfig `mapstructure:"identity"`
	Log      LogConfig      `mapstructure:"log"`
}

type StorageConfig struct {
	Driver string       `mapstructure:"driver"`
	TOML   TOMLConfig   `mapstructure:"toml"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
}

type TOMLConfig struct {
	Path string `mapstructure:"path"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MongoConfig points at the server. URI wins over URISecret, which names an
// entry of the secret store.
type MongoConfig struct {
	URI              string        `mapstructure:"uri"`
	URISecret        string        `mapstructure:"uri_secret"`
	Database         string        `mapstructure:"database"`
	ItemsCollection  string        `mapstructure:"items_collection"`
	GrantsCollection string        `mapstructure:"grants_collection"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

type SessionsConfig struct {
	PageSize      int           `mapstructure:"page_size"`
	PageTTL       time.Duration `mapstructure:"page_ttl"`
	CaptureTTL    time.Duration `mapstructure:"capture_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type AuthConfig struct {
	Admins []string `mapstructure:"admins"`
}

type IdentityConfig struct {
	User string `mapstructure:"user"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// SHELF_, with dots in keys replaced by underscores.
func Load() (Config, *viper.Viper, error) {
	v, err := New()
	if err != nil {
		return Config{}, nil, err
	}

	cfg, err := FromViper(v)
	if err != nil {
		return Config{}, nil, err
	}

	return cfg, v, nil
}

// New builds a viper instance with defaults, the optional config file and
// env overrides applied.
func New() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigType(configType)

	explicit := os.Getenv(ConfigEnv)
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("storage.driver", DriverTOML)
	v.SetDefault("storage.toml.path", filepath.Join(dir, "items.toml"))
	v.SetDefault("storage.sqlite.path", filepath.Join(dir, "shelf.db"))
	v.SetDefault("storage.mongo.uri", "")
	v.SetDefault("storage.mongo.uri_secret", "shelf://mongo/uri")
	v.SetDefault("storage.mongo.database", "shelf")
	v.SetDefault("storage.mongo.items_collection", "items")
	v.SetDefault("storage.mongo.grants_collection", "grants")
	v.SetDefault("storage.mongo.timeout", 10*time.Second)
	v.SetDefault("sessions.page_size", 25)
	v.SetDefault("sessions.page_ttl", 3*time.Minute)
	v.SetDefault("sessions.capture_ttl", 15*time.Second)
	v.SetDefault("sessions.sweep_interval", time.Minute)
	v.SetDefault("auth.admins", []string{})
	v.SetDefault("identity.user", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// FromViper decodes and validates v.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	// A comma separated env override arrives as a single string.
	c.Auth.Admins = splitList(v.GetStringSlice("auth.admins"))

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverTOML, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	if c.Sessions.PageSize <= 0 {
		return fmt.Errorf("sessions.page_size must be positive, got %d", c.Sessions.PageSize)
	}
	if c.Sessions.PageTTL <= 0 {
		return fmt.Errorf("sessions.page_ttl must be positive, got %s", c.Sessions.PageTTL)
	}
	if c.Sessions.CaptureTTL <= 0 {
		return fmt.Errorf("sessions.capture_ttl must be positive, got %s", c.Sessions.CaptureTTL)
	}
	if c.Sessions.SweepInterval < 0 {
		return fmt.Errorf("sessions.sweep_interval must not be negative, got %s", c.Sessions.SweepInterval)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	return nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
