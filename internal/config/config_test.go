package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	content := "jwt:\n  secret: test-secret\n"
	if errWrite := os.WriteFile(path, []byte(content), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "file:mailmeow.db" {
		t.Fatalf("dsn default: %q", cfg.Database.DSN)
	}
	if cfg.JWT.Expiry.Std() != 24*time.Hour {
		t.Fatalf("jwt expiry default: %v", cfg.JWT.Expiry)
	}
	if cfg.Mail.GraphBaseURL != "https://graph.microsoft.com" {
		t.Fatalf("graph url default: %q", cfg.Mail.GraphBaseURL)
	}
	if cfg.Mail.SendTimeout.Std() != 30*time.Second {
		t.Fatalf("send timeout default: %v", cfg.Mail.SendTimeout)
	}
}

func TestLoadParsesFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	content := `server:
  addr: ":9090"
database:
  dsn: "postgres://mailmeow:pw@localhost/mailmeow"
jwt:
  secret: test-secret
  expiry: 1h
mail:
  send-timeout: 10s
`
	if errWrite := os.WriteFile(path, []byte(content), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr: %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "postgres://mailmeow:pw@localhost/mailmeow" {
		t.Fatalf("dsn: %q", cfg.Database.DSN)
	}
	if cfg.JWT.Expiry.Std() != time.Hour {
		t.Fatalf("jwt expiry: %v", cfg.JWT.Expiry)
	}
	if cfg.Mail.SendTimeout.Std() != 10*time.Second {
		t.Fatalf("send timeout: %v", cfg.Mail.SendTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAILMEOW_DSN", "file:/tmp/override.db")
	t.Setenv("MAILMEOW_JWT_SECRET", "env-secret")

	cfg, errLoad := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Database.DSN != "file:/tmp/override.db" {
		t.Fatalf("dsn override: %q", cfg.Database.DSN)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("secret override: %q", cfg.JWT.Secret)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	if _, errLoad := Load(filepath.Join(t.TempDir(), "missing.yaml")); errLoad == nil {
		t.Fatalf("expected error when jwt secret is unset")
	}
}
