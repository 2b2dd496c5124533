package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	document := `
zone_host = "zone.example.com"
token = "abc"
space = "alpha"
insecure = true
read_only = true
timeout_seconds = 60
log_level = "debug"
cache_path = "/tmp/attrs.db"
`

	cfg, err := Parse(document)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.ZoneHost != "zone.example.com" {
		t.Errorf("Expected zone host 'zone.example.com', got %q", cfg.ZoneHost)
	}
	if cfg.Token != "abc" || cfg.Space != "alpha" {
		t.Errorf("Unexpected credentials: %+v", cfg)
	}
	if !cfg.Insecure || !cfg.ReadOnly {
		t.Error("Expected insecure and read_only to be set")
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("Expected timeout 60, got %d", cfg.TimeoutSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %q", cfg.LogLevel)
	}
	if cfg.CachePath != "/tmp/attrs.db" {
		t.Errorf("Expected cache path '/tmp/attrs.db', got %q", cfg.CachePath)
	}
}

func TestParse_Validation(t *testing.T) {
	if _, err := Parse(`token = "abc"`); err == nil {
		t.Error("Expected error for missing zone host")
	}
	if _, err := Parse(`zone_host = "zone.example.com"`); err == nil {
		t.Error("Expected error for missing token")
	}
	if _, err := Parse("zone_host = ["); err == nil {
		t.Error("Expected error for malformed TOML")
	}
	if _, err := Parse("zone_host = \"z\"\ntoken = \"t\"\ntimeout_seconds = -1"); err == nil {
		t.Error("Expected error for negative timeout")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	document := []byte("zone_host = \"zone.example.com\"\ntoken = \"abc\"\n")
	if err := os.WriteFile(path, document, 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ZoneHost != "zone.example.com" || cfg.Token != "abc" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ONEDATAFS_ZONE_HOST", "env.example.com")
	t.Setenv("ONEDATAFS_TOKEN", "env-token")
	t.Setenv("ONEDATAFS_SPACE", "env-space")
	t.Setenv("ONEDATAFS_INSECURE", "true")
	t.Setenv("ONEDATAFS_TIMEOUT", "15")

	// The environment alone completes the config even without a file.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ZoneHost != "env.example.com" || cfg.Token != "env-token" {
		t.Errorf("Expected env credentials, got %+v", cfg)
	}
	if cfg.Space != "env-space" || !cfg.Insecure || cfg.TimeoutSeconds != 15 {
		t.Errorf("Expected env settings, got %+v", cfg)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	document := []byte("zone_host = \"file.example.com\"\ntoken = \"file-token\"\n")
	if err := os.WriteFile(path, document, 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("ONEDATAFS_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ZoneHost != "file.example.com" {
		t.Errorf("Expected file zone host, got %q", cfg.ZoneHost)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Expected env token to win, got %q", cfg.Token)
	}
}
