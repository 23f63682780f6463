package soundvault

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"soundvault/config"
	"soundvault/internal/catalog"
	"soundvault/internal/logging"
	"soundvault/internal/storage"
	"soundvault/sound"
)

// Vault is the engine facade. All operations go through a Vault; it owns
// the catalog store, the library file manager, the exclusive library lock,
// and the optional remote source.
type Vault struct {
	cfg            *config.Config
	logger         *slog.Logger
	store          *catalog.Store
	files          *storage.Manager
	lock           *storage.Lock
	remote         RemoteSource
	cacheDownloads bool
	downloadLimit  int
}

// Option configures optional Vault behavior at Open time.
type Option func(*vaultOptions)

type vaultOptions struct {
	logger     *slog.Logger
	remote     RemoteSource
	httpClient *http.Client
}

// WithLogger attaches a logger. Without one the vault stays silent.
func WithLogger(logger *slog.Logger) Option {
	return func(o *vaultOptions) { o.logger = logger }
}

// WithRemoteSource substitutes the remote service implementation. When set
// it takes precedence over the configured Freesound credential.
func WithRemoteSource(remote RemoteSource) Option {
	return func(o *vaultOptions) { o.remote = remote }
}

// WithHTTPClient overrides the HTTP client used for the built-in Freesound
// source. Ignored when WithRemoteSource is also given.
func WithHTTPClient(client *http.Client) Option {
	return func(o *vaultOptions) { o.httpClient = client }
}

// Open prepares the library directories, acquires the exclusive library
// lock, opens the catalog database, and wires the remote source when a
// credential is configured. The caller must Close the returned Vault.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Vault, error) {
	if cfg == nil {
		return nil, sound.Wrap(sound.ErrConfiguration, "open vault", "config is nil", nil)
	}
	options := &vaultOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := logging.NewComponentLogger(options.logger, "vault")

	files, err := storage.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	if err := files.Layout().EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := storage.NewLock(files.Layout())
	if err := lock.Acquire(); err != nil {
		return nil, err
	}

	store, err := catalog.Open(ctx, cfg)
	if err != nil {
		_ = lock.Release()
		return nil, err
	}

	remote := options.remote
	if remote == nil && cfg.RemoteEnabled() {
		remote, err = newFreesoundSource(cfg, options.httpClient)
		if err != nil {
			_ = store.Close()
			_ = lock.Release()
			return nil, err
		}
	}

	downloadLimit := cfg.Downloads.Concurrency
	if downloadLimit < 1 {
		downloadLimit = 1
	}

	v := &Vault{
		cfg:            cfg,
		logger:         logger,
		store:          store,
		files:          files,
		lock:           lock,
		remote:         remote,
		cacheDownloads: cfg.Downloads.CacheDownloadedSounds,
		downloadLimit:  downloadLimit,
	}
	logger.Info("vault opened",
		logging.String(logging.FieldPath, files.Layout().Root()),
		logging.Bool("remote_enabled", remote != nil))
	return v, nil
}

// Close releases the catalog database and the library lock. A Vault must
// not be used after Close.
func (v *Vault) Close() error {
	if v == nil {
		return nil
	}
	var errs []error
	if v.store != nil {
		if err := v.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if v.lock != nil {
		if err := v.lock.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Config returns the configuration the vault was opened with.
func (v *Vault) Config() *config.Config {
	return v.cfg
}

// RemoteEnabled reports whether remote operations are available.
func (v *Vault) RemoteEnabled() bool {
	return v.remote != nil
}
