package inbox_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"soundvault/internal/inbox"
	"soundvault/sound"
)

const (
	testSettle = 50 * time.Millisecond
	testSweep  = 20 * time.Millisecond
	waitLimit  = 5 * time.Second
)

// recorder collects handled paths and optionally fails them.
type recorder struct {
	mu      sync.Mutex
	paths   []string
	sizes   []int64
	failErr error
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		r.paths = append(r.paths, path)
		return r.failErr
	}
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	r.paths = append(r.paths, path)
	r.sizes = append(r.sizes, size)
	return nil
}

func (r *recorder) handled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *recorder) lastSize() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sizes) == 0 {
		return -1
	}
	return r.sizes[len(r.sizes)-1]
}

func startWatcher(t *testing.T, dir string, rec *recorder, settle time.Duration) (stop func() error) {
	t.Helper()

	w, err := inbox.NewWatcher(inbox.Config{
		Dir:           dir,
		Handle:        rec.handle,
		SettleWindow:  settle,
		SweepInterval: testSweep,
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	stopped := false
	stop = func() error {
		if stopped {
			return nil
		}
		stopped = true
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(waitLimit):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
	t.Cleanup(func() { stop() })
	return stop
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitLimit)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatcherImportsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drop.wav")
	if err := os.WriteFile(path, []byte("wav-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec := &recorder{}
	startWatcher(t, dir, rec, testSettle)

	waitFor(t, "existing file import", func() bool { return len(rec.handled()) == 1 })
	if got := rec.handled()[0]; got != path {
		t.Fatalf("handled %q, want %q", got, path)
	}
	waitFor(t, "inbox cleanup", func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	})
}

func TestWatcherImportsNewFile(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, rec, testSettle)

	path := filepath.Join(dir, "late.mp3")
	if err := os.WriteFile(path, []byte("mp3-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	waitFor(t, "new file import", func() bool { return len(rec.handled()) == 1 })
	if got := rec.handled()[0]; got != path {
		t.Fatalf("handled %q, want %q", got, path)
	}
}

func TestWatcherIgnoresNonAudio(t *testing.T) {
	dir := t.TempDir()
	note := filepath.Join(dir, "readme.txt")
	clip := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(note, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	if err := os.WriteFile(clip, []byte("wav-bytes"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	rec := &recorder{}
	startWatcher(t, dir, rec, testSettle)

	// The audio control file bounds the wait.
	waitFor(t, "audio import", func() bool { return len(rec.handled()) >= 1 })
	for _, p := range rec.handled() {
		if p == note {
			t.Fatal("non-audio file was handled")
		}
	}
	if _, err := os.Stat(note); err != nil {
		t.Fatalf("non-audio file should stay in the inbox: %v", err)
	}
}

func TestWatcherKeepsFileWhenHandlerFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stuck.wav")
	if err := os.WriteFile(path, []byte("wav-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec := &recorder{failErr: errors.New("catalog refused")}
	startWatcher(t, dir, rec, testSettle)

	waitFor(t, "failed import attempt", func() bool { return len(rec.handled()) == 1 })
	// Give the watcher a few more sweeps to prove it neither retries nor
	// removes the file.
	time.Sleep(5 * testSweep)
	if n := len(rec.handled()); n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("failed file should stay in the inbox: %v", err)
	}
}

func TestWatcherWaitsForGrowingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slow-copy.wav")

	rec := &recorder{}
	startWatcher(t, dir, rec, 500*time.Millisecond)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	chunk := []byte("0123456789")
	var total int64
	for i := 0; i < 5; i++ {
		if _, err := f.Write(chunk); err != nil {
			t.Fatalf("append: %v", err)
		}
		total += int64(len(chunk))
		time.Sleep(30 * time.Millisecond)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	waitFor(t, "settled import", func() bool { return len(rec.handled()) == 1 })
	if got := rec.lastSize(); got != total {
		t.Fatalf("handler saw %d bytes, want the full %d", got, total)
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	stop := startWatcher(t, dir, rec, testSettle)

	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
}

func TestNewWatcherValidation(t *testing.T) {
	if _, err := inbox.NewWatcher(inbox.Config{Handle: func(context.Context, string) error { return nil }}); !errors.Is(err, sound.ErrConfiguration) {
		t.Fatalf("missing dir should report ErrConfiguration, got %v", err)
	}
	if _, err := inbox.NewWatcher(inbox.Config{Dir: t.TempDir()}); !errors.Is(err, sound.ErrConfiguration) {
		t.Fatalf("missing handler should report ErrConfiguration, got %v", err)
	}
}
