package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteWAVFixture writes a minimal valid PCM WAV file containing the given
// number of silent 16-bit mono samples at 44.1 kHz.
func WriteWAVFixture(t testing.TB, path string, samples int) {
	t.Helper()

	if samples <= 0 {
		samples = 441
	}
	dataSize := samples * 2
	buf := make([]byte, 0, 44+dataSize)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, []byte("WAVEfmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, 44100)
	buf = binary.LittleEndian.AppendUint32(buf, 44100*2)
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)
	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	buf = append(buf, make([]byte, dataSize)...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMP3Fixture writes a tiny MP3 file carrying an ID3v2 tag with the given
// title. The audio payload is a single bogus frame; only the tag matters.
func WriteMP3Fixture(t testing.TB, path, title string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	frame := append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 128)...)
	if err := os.WriteFile(path, frame, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		t.Fatalf("open id3 tag %s: %v", path, err)
	}
	tag.SetTitle(title)
	if err := tag.Save(); err != nil {
		tag.Close()
		t.Fatalf("save id3 tag %s: %v", path, err)
	}
	if err := tag.Close(); err != nil {
		t.Fatalf("close id3 tag %s: %v", path, err)
	}
}
