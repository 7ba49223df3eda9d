package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must be set")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateReview() error {
	if c.Review.PageSize <= 0 {
		return fmt.Errorf("review.page_size must be positive, got %d", c.Review.PageSize)
	}
	if c.Review.StalenessSeconds < 0 {
		return fmt.Errorf("review.staleness_seconds must not be negative, got %d", c.Review.StalenessSeconds)
	}
	if c.Review.StatsStalenessSeconds < 0 {
		return fmt.Errorf("review.stats_staleness_seconds must not be negative, got %d", c.Review.StatsStalenessSeconds)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.ReadTimeoutSeconds <= 0 {
		return errors.New("server.read_timeout_seconds must be positive")
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		return errors.New("server.write_timeout_seconds must be positive")
	}
	if c.Server.MinFreeDiskMiB < 0 {
		return errors.New("server.min_free_disk_mib must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
