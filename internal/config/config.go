package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Seed     SeedConfig     `yaml:"seed"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         string   `yaml:"port"`
	Mode         string   `yaml:"mode"` // debug, release, test
	AllowOrigins []string `yaml:"allow_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// SessionConfig controls the signed session cookie. CookieMaxAgeDays is the
// transport-level bound; AbsoluteTimeoutDays is enforced at the application
// layer whenever a member is resolved, independent of activity.
type SessionConfig struct {
	Secret              string `yaml:"secret"`
	CookieName          string `yaml:"cookie_name"`
	CookieMaxAgeDays    int    `yaml:"cookie_max_age_days"`
	AbsoluteTimeoutDays int    `yaml:"absolute_timeout_days"`
}

// SeedConfig holds the bootstrap rows created on first start.
type SeedConfig struct {
	AccessCode    string `yaml:"access_code"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultSessionSecret is only acceptable for local development; Load
// callers are expected to refuse it in release mode.
const DefaultSessionSecret = "bookclub-dev-secret-change-in-production"

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := *DefaultConfig()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			Mode:         "debug",
			AllowOrigins: []string{"http://localhost:8080", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "bookclub.db",
		},
		Session: SessionConfig{
			Secret:              DefaultSessionSecret,
			CookieName:          "bookclub_session",
			CookieMaxAgeDays:    30,
			AbsoluteTimeoutDays: 7,
		},
		Seed: SeedConfig{
			AccessCode:    "TW2024DEC",
			AdminEmail:    "admin@bookclub.com",
			AdminPassword: "admin123",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		c.Server.AllowOrigins = splitAndTrim(origins)
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.Session.Secret = secret
	}
	if code := os.Getenv("SEED_ACCESS_CODE"); code != "" {
		c.Seed.AccessCode = code
	}
	if email := os.Getenv("SEED_ADMIN_EMAIL"); email != "" {
		c.Seed.AdminEmail = email
	}
	if password := os.Getenv("SEED_ADMIN_PASSWORD"); password != "" {
		c.Seed.AdminPassword = password
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
