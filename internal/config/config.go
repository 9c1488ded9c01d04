package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Moderation ModerationConfig `yaml:"moderation"`
	Community  CommunityConfig  `yaml:"community"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Events     EventsConfig     `yaml:"events"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token verification settings. Token issuance lives in
// the identity service; this service only verifies.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"opencatechism"`
}

// ModerationConfig holds submission and review settings.
type ModerationConfig struct {
	MaxTextLength      int `yaml:"max_text_length"      env:"MODERATION_MAX_TEXT_LENGTH"      env-default:"20000"`
	HeavyFlagThreshold int `yaml:"heavy_flag_threshold" env:"MODERATION_HEAVY_FLAG_THRESHOLD" env-default:"3"`
	QueuePageSize      int `yaml:"queue_page_size"      env:"MODERATION_QUEUE_PAGE_SIZE"      env-default:"50"`
}

// CommunityConfig holds gamification settings.
type CommunityConfig struct {
	LeaderboardSize  int           `yaml:"leaderboard_size"   env:"COMMUNITY_LEADERBOARD_SIZE"   env-default:"500"`
	RebuildInterval  time.Duration `yaml:"rebuild_interval"   env:"COMMUNITY_REBUILD_INTERVAL"   env-default:"15m"`
	RebuildOnStartup bool          `yaml:"rebuild_on_startup" env:"COMMUNITY_REBUILD_ON_STARTUP" env-default:"false"`
}

// AnalyticsConfig holds the nightly snapshot job settings.
type AnalyticsConfig struct {
	SnapshotHourUTC int `yaml:"snapshot_hour_utc" env:"ANALYTICS_SNAPSHOT_HOUR_UTC" env-default:"1"`
	TrendDays       int `yaml:"trend_days"        env:"ANALYTICS_TREND_DAYS"        env-default:"30"`
}

// EventsConfig holds the in-process event dispatcher settings.
type EventsConfig struct {
	QueueSize int `yaml:"queue_size" env:"EVENTS_QUEUE_SIZE" env-default:"256"`
	Workers   int `yaml:"workers"    env:"EVENTS_WORKERS"    env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
