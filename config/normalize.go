package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeFreesound()
	c.normalizeDownloads()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLibrary() error {
	var err error
	if strings.TrimSpace(c.Library.Path) == "" {
		c.Library.Path = defaultLibraryDir
	}
	if c.Library.Path, err = expandPath(c.Library.Path); err != nil {
		return fmt.Errorf("library.path: %w", err)
	}
	if strings.TrimSpace(c.Library.DatabasePath) == "" {
		c.Library.DatabasePath = filepath.Join(c.Library.Path, databaseFileName)
	} else if c.Library.DatabasePath, err = expandPath(c.Library.DatabasePath); err != nil {
		return fmt.Errorf("library.database_path: %w", err)
	}
	if strings.TrimSpace(c.Library.InboxDir) == "" {
		c.Library.InboxDir = filepath.Join(c.Library.Path, inboxDirName)
	} else if c.Library.InboxDir, err = expandPath(c.Library.InboxDir); err != nil {
		return fmt.Errorf("library.inbox_dir: %w", err)
	}
	if strings.TrimSpace(c.Library.CacheDir) == "" {
		c.Library.CacheDir = filepath.Join(c.Library.Path, cacheDirName)
	} else if c.Library.CacheDir, err = expandPath(c.Library.CacheDir); err != nil {
		return fmt.Errorf("library.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFreesound() {
	if c.Freesound.APIKey == "" {
		if value, ok := os.LookupEnv("FREESOUND_API_KEY"); ok {
			c.Freesound.APIKey = strings.TrimSpace(value)
		}
	}
	c.Freesound.APIKey = strings.TrimSpace(c.Freesound.APIKey)
	c.Freesound.BaseURL = strings.TrimRight(strings.TrimSpace(c.Freesound.BaseURL), "/")
	if c.Freesound.BaseURL == "" {
		c.Freesound.BaseURL = defaultFreesoundBaseURL
	}
	c.Freesound.UserAgent = strings.TrimSpace(c.Freesound.UserAgent)
	if c.Freesound.UserAgent == "" {
		c.Freesound.UserAgent = defaultFreesoundUserAgent
	}
	if c.Freesound.TimeoutSeconds <= 0 {
		c.Freesound.TimeoutSeconds = defaultFreesoundTimeout
	}
}

func (c *Config) normalizeDownloads() {
	if c.Downloads.Concurrency <= 0 {
		c.Downloads.Concurrency = defaultDownloadConcurrency
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		if expanded, err := expandPath(c.Logging.File); err == nil {
			c.Logging.File = expanded
		}
	}
}
