package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"soundvault/config"
	"soundvault/sound"
)

const (
	soundDirName = "sounds"
	lockFileName = ".soundvault.lock"
)

// Layout resolves the directories and file references of one library root.
type Layout struct {
	root     string
	soundDir string
	inboxDir string
	cacheDir string
	lockPath string
}

// NewLayout derives the library layout from configuration.
func NewLayout(cfg *config.Config) (*Layout, error) {
	if cfg == nil || strings.TrimSpace(cfg.Library.Path) == "" {
		return nil, sound.Wrap(sound.ErrConfiguration, "resolve layout", "library path missing", nil)
	}
	root := filepath.Clean(cfg.Library.Path)
	return &Layout{
		root:     root,
		soundDir: filepath.Join(root, soundDirName),
		inboxDir: cfg.Library.InboxDir,
		cacheDir: cfg.Library.CacheDir,
		lockPath: filepath.Join(root, lockFileName),
	}, nil
}

// Root returns the library root directory.
func (l *Layout) Root() string { return l.root }

// SoundDir returns the directory holding imported audio assets.
func (l *Layout) SoundDir() string { return l.soundDir }

// InboxDir returns the drop directory watched for new audio files.
func (l *Layout) InboxDir() string { return l.inboxDir }

// CacheDir returns the directory holding fetched preview payloads.
func (l *Layout) CacheDir() string { return l.cacheDir }

// LockPath returns the library lock file path.
func (l *Layout) LockPath() string { return l.lockPath }

// SoundRef builds the catalog file reference for a sound asset: a
// root-relative path keyed by the sound id so renames never orphan files.
func (l *Layout) SoundRef(soundID, ext string) string {
	return filepath.Join(soundDirName, soundID+normalizeExt(ext))
}

// Resolve turns a catalog file reference into an absolute path under the
// library root. Absolute references pass through untouched; references that
// would escape the root are rejected.
func (l *Layout) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", sound.Wrap(sound.ErrStorage, "resolve reference", "empty file reference", nil)
	}
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref), nil
	}
	cleaned := filepath.Clean(ref)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", sound.Wrap(sound.ErrStorage, "resolve reference",
			fmt.Sprintf("reference %q escapes the library root", ref), nil)
	}
	return filepath.Join(l.root, cleaned), nil
}

// PreviewCachePath returns the cache location for a remote preview payload.
func (l *Layout) PreviewCachePath(sourceID, ext string) string {
	return filepath.Join(l.cacheDir, sanitizeFilename(sourceID)+normalizeExt(ext))
}

// EnsureDirectories creates the library directory tree.
func (l *Layout) EnsureDirectories() error {
	for _, dir := range []string{l.root, l.soundDir, l.inboxDir, l.cacheDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sound.Wrap(sound.ErrStorage, "ensure directories", dir, err)
		}
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// sanitizeFilename strips characters that are unsafe in file names so remote
// source ids can key cache entries directly.
func sanitizeFilename(value string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	value = replacer.Replace(value)
	value = strings.Trim(value, "-_.")
	if value == "" {
		return "preview"
	}
	return value
}
