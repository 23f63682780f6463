package inbox

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"soundvault/internal/audiotag"
	"soundvault/internal/logging"
	"soundvault/sound"
)

// HandlerFunc imports one settled inbox file. A nil return tells the
// watcher the file was consumed and may be removed from the inbox.
type HandlerFunc func(ctx context.Context, path string) error

const (
	defaultSettleWindow  = 2 * time.Second
	defaultSweepInterval = 500 * time.Millisecond
)

// Config describes a Watcher.
type Config struct {
	// Dir is the inbox directory to watch. Created if absent.
	Dir string
	// Handle consumes settled files.
	Handle HandlerFunc
	// Logger receives watcher progress; nil discards.
	Logger *slog.Logger
	// SettleWindow is how long a file must stay unchanged before import.
	SettleWindow time.Duration
	// SweepInterval is how often candidates are re-examined.
	SweepInterval time.Duration
}

// Watcher drains audio files from an inbox directory.
type Watcher struct {
	dir    string
	handle HandlerFunc
	logger *slog.Logger
	settle time.Duration
	sweep  time.Duration

	// pending is touched only by Run's goroutine.
	pending map[string]*pendingFile
}

type pendingFile struct {
	lastEvent time.Time
	lastSize  int64
}

// NewWatcher validates the configuration and builds a Watcher. Run starts
// it.
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, sound.Wrap(sound.ErrConfiguration, "inbox watcher", "directory required", nil)
	}
	if cfg.Handle == nil {
		return nil, sound.Wrap(sound.ErrConfiguration, "inbox watcher", "handler required", nil)
	}
	settle := cfg.SettleWindow
	if settle <= 0 {
		settle = defaultSettleWindow
	}
	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = defaultSweepInterval
	}
	return &Watcher{
		dir:     cfg.Dir,
		handle:  cfg.Handle,
		logger:  logging.NewComponentLogger(cfg.Logger, "inbox"),
		settle:  settle,
		sweep:   sweep,
		pending: make(map[string]*pendingFile),
	}, nil
}

// Run watches until the context ends and returns the context's error.
// Audio files already in the inbox are queued immediately; new files
// import once they settle.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return sound.Wrap(sound.ErrStorage, "inbox watch", "create watcher", err)
	}
	defer fsw.Close()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return sound.Wrap(sound.ErrStorage, "inbox watch", "create inbox directory", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		return sound.Wrap(sound.ErrStorage, "inbox watch", "watch "+w.dir, err)
	}

	w.scanExisting()
	w.logger.Info("watching inbox",
		logging.String(logging.FieldPath, w.dir),
		logging.Int("queued", len(w.pending)))

	ticker := time.NewTicker(w.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.observe(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", logging.Error(err))
		case <-ticker.C:
			w.importSettled(ctx)
		}
	}
}

// scanExisting queues files already sitting in the inbox.
func (w *Watcher) scanExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("inbox scan failed", logging.Error(err))
		return
	}
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || !audiotag.IsAudioPath(entry.Name()) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		w.pending[path] = &pendingFile{lastEvent: now, lastSize: -1}
	}
}

func (w *Watcher) observe(event fsnotify.Event) {
	if !audiotag.IsAudioPath(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		entry := w.pending[event.Name]
		if entry == nil {
			entry = &pendingFile{lastSize: -1}
			w.pending[event.Name] = entry
		}
		entry.lastEvent = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	}
}

// importSettled imports every candidate whose size has stopped changing
// for the settle window.
func (w *Watcher) importSettled(ctx context.Context) {
	now := time.Now()
	for path, entry := range w.pending {
		info, err := os.Stat(path)
		if err != nil {
			// Removed behind our back.
			delete(w.pending, path)
			continue
		}
		if info.IsDir() {
			delete(w.pending, path)
			continue
		}
		if info.Size() != entry.lastSize {
			entry.lastSize = info.Size()
			entry.lastEvent = now
			continue
		}
		if now.Sub(entry.lastEvent) < w.settle {
			continue
		}
		delete(w.pending, path)
		w.importOne(ctx, path)
	}
}

func (w *Watcher) importOne(ctx context.Context, path string) {
	if err := w.handle(ctx, path); err != nil {
		w.logger.Warn("inbox import failed",
			logging.String(logging.FieldPath, path), logging.Error(err))
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.logger.Warn("inbox cleanup failed",
			logging.String(logging.FieldPath, path), logging.Error(err))
	}
	w.logger.Info("inbox file imported", logging.String(logging.FieldPath, path))
}
