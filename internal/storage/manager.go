package storage

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"soundvault/config"
	"soundvault/sound"
)

// Manager performs the file operations behind import, download, and removal.
// All asset writes land under the library's sounds directory; callers receive
// root-relative references for the catalog.
type Manager struct {
	layout       *Layout
	minFreeBytes uint64
	statfs       func(path string) (total, free uint64, err error)
}

// NewManager builds a Manager for the configured library.
func NewManager(cfg *config.Config) (*Manager, error) {
	layout, err := NewLayout(cfg)
	if err != nil {
		return nil, err
	}
	var minFree uint64
	if cfg.Library.MinFreeSpaceMB > 0 {
		minFree = uint64(cfg.Library.MinFreeSpaceMB) * 1024 * 1024
	}
	return &Manager{
		layout:       layout,
		minFreeBytes: minFree,
		statfs:       realStatfs,
	}, nil
}

// Layout exposes the resolved library layout.
func (m *Manager) Layout() *Layout { return m.layout }

// ImportCopy copies an external audio file into the sounds directory under
// the sound's id, verifying size and checksum, and returns the catalog
// reference. The source file is never modified or removed.
func (m *Manager) ImportCopy(src, soundID string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", sound.Wrap(sound.ErrNotFound, "import copy", src, err)
		}
		return "", sound.Wrap(sound.ErrStorage, "import copy", fmt.Sprintf("stat %s", src), err)
	}
	if info.IsDir() {
		return "", sound.Wrap(sound.ErrStorage, "import copy", fmt.Sprintf("%s is a directory", src), nil)
	}
	if err := m.ensureFreeSpace(uint64(info.Size())); err != nil {
		return "", err
	}
	if err := m.layout.EnsureDirectories(); err != nil {
		return "", err
	}

	ref := m.layout.SoundRef(soundID, filepath.Ext(src))
	dst, err := m.layout.Resolve(ref)
	if err != nil {
		return "", err
	}
	if err := copyVerified(src, dst); err != nil {
		return "", sound.Wrap(sound.ErrStorage, "import copy", fmt.Sprintf("%s to %s", src, dst), err)
	}
	return ref, nil
}

// WriteSound streams a payload into the sounds directory under the sound's
// id. The write goes to a partial file first and renames into place so a
// failed download never leaves a torn asset behind.
func (m *Manager) WriteSound(soundID, ext string, payload io.Reader) (string, int64, error) {
	if err := m.layout.EnsureDirectories(); err != nil {
		return "", 0, err
	}
	if err := m.ensureFreeSpace(m.minFreeBytes); err != nil {
		return "", 0, err
	}

	ref := m.layout.SoundRef(soundID, ext)
	dst, err := m.layout.Resolve(ref)
	if err != nil {
		return "", 0, err
	}
	partial := dst + ".partial"
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, sound.Wrap(sound.ErrStorage, "write sound", fmt.Sprintf("create %s", partial), err)
	}
	written, err := io.Copy(out, payload)
	if err != nil {
		out.Close()
		os.Remove(partial)
		return "", 0, sound.Wrap(sound.ErrStorage, "write sound", fmt.Sprintf("stream to %s", partial), err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partial)
		return "", 0, sound.Wrap(sound.ErrStorage, "write sound", fmt.Sprintf("close %s", partial), err)
	}
	if err := os.Rename(partial, dst); err != nil {
		os.Remove(partial)
		return "", 0, sound.Wrap(sound.ErrStorage, "write sound", fmt.Sprintf("rename to %s", dst), err)
	}
	return ref, written, nil
}

// RemoveSound deletes the asset behind a catalog reference. A reference whose
// file is already gone is not an error; the record is the source of truth.
func (m *Manager) RemoveSound(ref string) error {
	if ref == "" {
		return nil
	}
	path, err := m.layout.Resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return sound.Wrap(sound.ErrStorage, "remove sound", path, err)
	}
	return nil
}

// Open opens the asset behind a catalog reference for reading.
func (m *Manager) Open(ref string) (io.ReadCloser, error) {
	path, err := m.layout.Resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sound.Wrap(sound.ErrNotFound, "open sound", path, err)
		}
		return nil, sound.Wrap(sound.ErrStorage, "open sound", path, err)
	}
	return f, nil
}

// Exists reports whether the asset behind a catalog reference is on disk.
func (m *Manager) Exists(ref string) bool {
	path, err := m.layout.Resolve(ref)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WritePreviewCache stores a fetched preview payload for reuse and returns
// its location.
func (m *Manager) WritePreviewCache(sourceID, ext string, payload []byte) (string, error) {
	if err := m.layout.EnsureDirectories(); err != nil {
		return "", err
	}
	path := m.layout.PreviewCachePath(sourceID, ext)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", sound.Wrap(sound.ErrStorage, "write preview cache", path, err)
	}
	return path, nil
}

// ReadPreviewCache returns a cached preview payload, or ok=false when the
// entry is absent.
func (m *Manager) ReadPreviewCache(sourceID, ext string) ([]byte, bool, error) {
	path := m.layout.PreviewCachePath(sourceID, ext)
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, sound.Wrap(sound.ErrStorage, "read preview cache", path, err)
	}
	return payload, true, nil
}

// LookupPreviewCache finds a cached preview for a source id without knowing
// which rendition format was stored. A miss returns nil data and no error.
func (m *Manager) LookupPreviewCache(sourceID string) (data []byte, ext string, err error) {
	prefix := filepath.Base(m.layout.PreviewCachePath(sourceID, "")) + "."
	entries, err := os.ReadDir(m.layout.CacheDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", sound.Wrap(sound.ErrStorage, "scan preview cache", m.layout.CacheDir(), err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		path := filepath.Join(m.layout.CacheDir(), entry.Name())
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, "", sound.Wrap(sound.ErrStorage, "read preview cache", path, err)
		}
		return payload, filepath.Ext(entry.Name()), nil
	}
	return nil, "", nil
}

// FreeSpace reports total and available bytes on the filesystem holding the
// library root.
func (m *Manager) FreeSpace() (total, free uint64, err error) {
	total, free, err = m.statfs(m.layout.Root())
	if err != nil {
		return 0, 0, sound.Wrap(sound.ErrStorage, "free space", m.layout.Root(), err)
	}
	return total, free, nil
}

func (m *Manager) ensureFreeSpace(need uint64) error {
	if m.minFreeBytes == 0 && need == 0 {
		return nil
	}
	_, free, err := m.statfs(m.layout.Root())
	if err != nil {
		// Statfs on an uncreated root is not a write failure.
		return nil
	}
	if free < need+m.minFreeBytes {
		return sound.Wrap(sound.ErrStorage, "ensure free space",
			fmt.Sprintf("%d bytes free, need %d plus %d reserve", free, need, m.minFreeBytes), nil)
	}
	return nil
}

// copyVerified streams src to dst with SHA256 and size verification, removing
// dst on mismatch.
func copyVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
