package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	defaultListenAddr   = ":8080"
	defaultDSN          = "file:mailmeow.db"
	defaultJWTExpiry    = Duration(24 * time.Hour)
	defaultSendTimeout  = Duration(30 * time.Second)
	defaultGraphBaseURL = "https://graph.microsoft.com"
	defaultGmailBaseURL = "https://gmail.googleapis.com"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML decodes either a duration string or a nanosecond integer.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if errDecode := value.Decode(&asString); errDecode == nil {
		parsed, errParse := time.ParseDuration(asString)
		if errParse != nil {
			return fmt.Errorf("config: invalid duration %q: %w", asString, errParse)
		}
		*d = Duration(parsed)
		return nil
	}
	var asInt int64
	if errDecode := value.Decode(&asInt); errDecode != nil {
		return fmt.Errorf("config: invalid duration %q", value.Value)
	}
	*d = Duration(asInt)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the full service configuration.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Database DBConfig     `yaml:"database"`
	JWT      JWTConfig    `yaml:"jwt"`
	Mail     MailConfig   `yaml:"mail"`
	Log      LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	DSN string `yaml:"dsn"`
}

// JWTConfig holds signing settings for user session tokens.
type JWTConfig struct {
	Secret string   `yaml:"secret"`
	Expiry Duration `yaml:"expiry"`
}

// MailConfig holds provider API settings for email sends.
type MailConfig struct {
	GraphBaseURL string   `yaml:"graph-base-url"`
	GmailBaseURL string   `yaml:"gmail-base-url"`
	SendTimeout  Duration `yaml:"send-timeout"`
}

// LogConfig holds logging output settings.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days"`
}

// Load reads a YAML config file and applies defaults. A missing file is not
// an error; the service then runs on defaults and environment overrides
// (MAILMEOW_DSN, MAILMEOW_JWT_SECRET).
func Load(path string) (Config, error) {
	var cfg Config
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		if !os.IsNotExist(errRead) {
			return cfg, fmt.Errorf("config: read %s: %w", path, errRead)
		}
	} else if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return cfg, fmt.Errorf("config: jwt secret is required (jwt.secret or MAILMEOW_JWT_SECRET)")
	}
	return cfg, nil
}

// applyEnvOverrides lets environment variables take precedence over the file.
func applyEnvOverrides(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv("MAILMEOW_DSN")); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv("MAILMEOW_JWT_SECRET")); secret != "" {
		cfg.JWT.Secret = secret
	}
}

// applyDefaults fills unset fields.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = defaultListenAddr
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = defaultDSN
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}
	if strings.TrimSpace(cfg.Mail.GraphBaseURL) == "" {
		cfg.Mail.GraphBaseURL = defaultGraphBaseURL
	}
	if strings.TrimSpace(cfg.Mail.GmailBaseURL) == "" {
		cfg.Mail.GmailBaseURL = defaultGmailBaseURL
	}
	if cfg.Mail.SendTimeout <= 0 {
		cfg.Mail.SendTimeout = defaultSendTimeout
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
}
