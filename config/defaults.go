package config

const (
	defaultLibraryDir          = "~/sounds"
	databaseFileName           = "soundvault.db"
	inboxDirName               = "inbox"
	cacheDirName               = "cache"
	defaultMinFreeSpaceMB      = 512
	defaultFreesoundBaseURL    = "https://freesound.org"
	defaultFreesoundUserAgent  = "SoundVault/dev"
	defaultFreesoundTimeout    = 30
	defaultDownloadConcurrency = 4
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Library: Library{
			Path:           defaultLibraryDir,
			MinFreeSpaceMB: defaultMinFreeSpaceMB,
		},
		Freesound: Freesound{
			BaseURL:        defaultFreesoundBaseURL,
			UserAgent:      defaultFreesoundUserAgent,
			TimeoutSeconds: defaultFreesoundTimeout,
		},
		Downloads: Downloads{
			CacheDownloadedSounds: true,
			Concurrency:           defaultDownloadConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
