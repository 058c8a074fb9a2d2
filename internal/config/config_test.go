package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	configContent := `
service:
  name: engine
  port: 9090
  debug: true
database:
  host: db.internal
  user: app
  database: matchdb
moderation:
  classifier_url: http://classifier:8070
  classify_timeout: 2s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != 9090 {
		t.Errorf("Service.Port = %d, want 9090", cfg.Service.Port)
	}
	if !cfg.Service.Debug {
		t.Error("Service.Debug = false, want true")
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.Database != "matchdb" {
		t.Errorf("Database.Database = %q, want matchdb", cfg.Database.Database)
	}
	if cfg.Moderation.ClassifierURL != "http://classifier:8070" {
		t.Errorf("Moderation.ClassifierURL = %q", cfg.Moderation.ClassifierURL)
	}
	if cfg.Moderation.ClassifyTimeout != 2*time.Second {
		t.Errorf("Moderation.ClassifyTimeout = %v, want 2s", cfg.Moderation.ClassifyTimeout)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	if err := os.WriteFile(configPath, []byte("service:\n  name: engine\n"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != defaultServicePort {
		t.Errorf("Service.Port = %d, want %d", cfg.Service.Port, defaultServicePort)
	}
	if cfg.Database.Host != defaultDBHost {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, defaultDBHost)
	}
	if cfg.Redis.SettingsCacheTTL != defaultSettingsCacheTTL {
		t.Errorf("Redis.SettingsCacheTTL = %v, want %v", cfg.Redis.SettingsCacheTTL, defaultSettingsCacheTTL)
	}
	if cfg.Matching.DefaultGeoWeight != defaultGeoWeight {
		t.Errorf("Matching.DefaultGeoWeight = %d, want %d", cfg.Matching.DefaultGeoWeight, defaultGeoWeight)
	}
	if cfg.Matching.DefaultInterestWeight != defaultInterestWeight {
		t.Errorf("Matching.DefaultInterestWeight = %d, want %d", cfg.Matching.DefaultInterestWeight, defaultInterestWeight)
	}
	if cfg.Moderation.ClassifyTimeout != defaultClassifyTimeout {
		t.Errorf("Moderation.ClassifyTimeout = %v, want %v", cfg.Moderation.ClassifyTimeout, defaultClassifyTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	if err := os.WriteFile(configPath, []byte("service:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("ENGINE_PORT", "7070")
	t.Setenv("CLASSIFIER_URL", "http://override:8070")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != 7070 {
		t.Errorf("Service.Port = %d, want env override 7070", cfg.Service.Port)
	}
	if cfg.Moderation.ClassifierURL != "http://override:8070" {
		t.Errorf("Moderation.ClassifierURL = %q, want env override", cfg.Moderation.ClassifierURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("Load() with missing file should error")
	}
}
