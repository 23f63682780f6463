package testsupport

import (
	"path/filepath"
	"testing"

	"soundvault/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Remote access stays disabled unless an option supplies an API key.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Library.Path = filepath.Join(base, "library")
	cfgVal.Library.DatabasePath = filepath.Join(base, "library", "soundvault.db")
	cfgVal.Library.InboxDir = filepath.Join(base, "library", "inbox")
	cfgVal.Library.CacheDir = filepath.Join(base, "library", "cache")
	cfgVal.Library.MinFreeSpaceMB = 0
	cfgVal.Freesound.APIKey = ""
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIKey sets the remote service credential on the test config, which
// flips RemoteEnabled to true.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Freesound.APIKey = key
	}
}

// WithBaseURL points the remote client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Freesound.BaseURL = url
	}
}

// WithDownloadCaching toggles reuse of fetched preview payloads.
func WithDownloadCaching(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Downloads.CacheDownloadedSounds = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Library.Path)
}
