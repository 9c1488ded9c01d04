package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Moderation.MaxTextLength <= 0 {
		return fmt.Errorf("moderation.max_text_length must be > 0 (got %d)", c.Moderation.MaxTextLength)
	}
	if c.Moderation.HeavyFlagThreshold < 1 {
		return fmt.Errorf("moderation.heavy_flag_threshold must be >= 1 (got %d)", c.Moderation.HeavyFlagThreshold)
	}
	if c.Community.LeaderboardSize <= 0 {
		return fmt.Errorf("community.leaderboard_size must be > 0 (got %d)", c.Community.LeaderboardSize)
	}
	if c.Analytics.SnapshotHourUTC < 0 || c.Analytics.SnapshotHourUTC > 23 {
		return fmt.Errorf("analytics.snapshot_hour_utc must be in [0,23] (got %d)", c.Analytics.SnapshotHourUTC)
	}
	if c.Events.QueueSize <= 0 {
		return fmt.Errorf("events.queue_size must be > 0 (got %d)", c.Events.QueueSize)
	}
	if c.Events.Workers <= 0 {
		return fmt.Errorf("events.workers must be > 0 (got %d)", c.Events.Workers)
	}

	return nil
}
