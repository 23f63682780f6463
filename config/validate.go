package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateFreesound(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLibrary() error {
	if strings.TrimSpace(c.Library.Path) == "" {
		return errors.New("library.path must be set")
	}
	if strings.TrimSpace(c.Library.DatabasePath) == "" {
		return errors.New("library.database_path must be set")
	}
	if c.Library.MinFreeSpaceMB < 0 {
		return errors.New("library.min_free_space_mb must not be negative")
	}
	return nil
}

func (c *Config) validateFreesound() error {
	parsed, err := url.Parse(c.Freesound.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("freesound.base_url %q is not a valid URL", c.Freesound.BaseURL)
	}
	if c.Freesound.TimeoutSeconds <= 0 {
		return errors.New("freesound.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateDownloads() error {
	if c.Downloads.Concurrency <= 0 {
		return errors.New("downloads.concurrency must be positive")
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
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
