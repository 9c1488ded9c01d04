package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "opencatechism-test"

moderation:
  max_text_length: 10000
  heavy_flag_threshold: 5
  queue_page_size: 25

community:
  leaderboard_size: 100
  rebuild_interval: "5m"
  rebuild_on_startup: true

analytics:
  snapshot_hour_utc: 2
  trend_days: 14

events:
  queue_size: 128
  workers: 2

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "opencatechism-test" {
		t.Errorf("auth.jwt_issuer = %q", cfg.Auth.JWTIssuer)
	}

	// Moderation
	if cfg.Moderation.MaxTextLength != 10000 {
		t.Errorf("moderation.max_text_length = %d, want 10000", cfg.Moderation.MaxTextLength)
	}
	if cfg.Moderation.HeavyFlagThreshold != 5 {
		t.Errorf("moderation.heavy_flag_threshold = %d, want 5", cfg.Moderation.HeavyFlagThreshold)
	}
	if cfg.Moderation.QueuePageSize != 25 {
		t.Errorf("moderation.queue_page_size = %d, want 25", cfg.Moderation.QueuePageSize)
	}

	// Community
	if cfg.Community.LeaderboardSize != 100 {
		t.Errorf("community.leaderboard_size = %d, want 100", cfg.Community.LeaderboardSize)
	}
	if cfg.Community.RebuildInterval != 5*time.Minute {
		t.Errorf("community.rebuild_interval = %v, want 5m", cfg.Community.RebuildInterval)
	}
	if !cfg.Community.RebuildOnStartup {
		t.Error("community.rebuild_on_startup should be true")
	}

	// Analytics
	if cfg.Analytics.SnapshotHourUTC != 2 {
		t.Errorf("analytics.snapshot_hour_utc = %d, want 2", cfg.Analytics.SnapshotHourUTC)
	}
	if cfg.Analytics.TrendDays != 14 {
		t.Errorf("analytics.trend_days = %d, want 14", cfg.Analytics.TrendDays)
	}

	// Events
	if cfg.Events.QueueSize != 128 {
		t.Errorf("events.queue_size = %d, want 128", cfg.Events.QueueSize)
	}
	if cfg.Events.Workers != 2 {
		t.Errorf("events.workers = %d, want 2", cfg.Events.Workers)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	// Run from a temp dir with no config.yaml so the fallback path is absent.
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Moderation.HeavyFlagThreshold != 3 {
		t.Errorf("moderation.heavy_flag_threshold = %d, want 3 (default)", cfg.Moderation.HeavyFlagThreshold)
	}
	if cfg.Community.LeaderboardSize != 500 {
		t.Errorf("community.leaderboard_size = %d, want 500 (default)", cfg.Community.LeaderboardSize)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{DSN: "postgres://u:p@localhost:5432/testdb"},
		Auth: AuthConfig{
			JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
			JWTIssuer: "opencatechism",
		},
		Moderation: ModerationConfig{
			MaxTextLength:      20000,
			HeavyFlagThreshold: 3,
			QueuePageSize:      50,
		},
		Community: CommunityConfig{LeaderboardSize: 500},
		Analytics: AnalyticsConfig{SnapshotHourUTC: 1, TrendDays: 30},
		Events:    EventsConfig{QueueSize: 256, Workers: 4},
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}
}

func TestValidate_JWTSecretEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty JWT secret")
	}
}

func TestValidate_MaxTextLengthZero(t *testing.T) {
	cfg := validConfig()
	cfg.Moderation.MaxTextLength = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for MaxTextLength = 0")
	}
}

func TestValidate_HeavyFlagThresholdZero(t *testing.T) {
	cfg := validConfig()
	cfg.Moderation.HeavyFlagThreshold = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for HeavyFlagThreshold = 0")
	}
}

func TestValidate_LeaderboardSizeZero(t *testing.T) {
	cfg := validConfig()
	cfg.Community.LeaderboardSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for LeaderboardSize = 0")
	}
}

func TestValidate_SnapshotHourOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Analytics.SnapshotHourUTC = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for SnapshotHourUTC = -1")
	}

	cfg.Analytics.SnapshotHourUTC = 24
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for SnapshotHourUTC = 24")
	}
}

func TestValidate_EventsQueueSizeZero(t *testing.T) {
	cfg := validConfig()
	cfg.Events.QueueSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for events QueueSize = 0")
	}
}

func TestValidate_EventsWorkersZero(t *testing.T) {
	cfg := validConfig()
	cfg.Events.Workers = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for events Workers = 0")
	}
}

func TestValidate_BoundaryValues(t *testing.T) {
	cfg := validConfig()
	cfg.Moderation.HeavyFlagThreshold = 1
	cfg.Analytics.SnapshotHourUTC = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for lower boundary values: %v", err)
	}

	cfg.Analytics.SnapshotHourUTC = 23
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for upper boundary values: %v", err)
	}
}
