// Package audiotag reads and writes embedded audio metadata. MP3 files carry
// ID3v2 tags; WAV files expose duration through their RIFF header. Other
// formats probe to an empty result rather than failing, so import never
// stalls on an exotic container.
package audiotag

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"soundvault/sound"
)

// audioExtensions are the container formats the vault accepts for import.
var audioExtensions = map[string]struct{}{
	".aif":  {},
	".aiff": {},
	".flac": {},
	".m4a":  {},
	".mp3":  {},
	".ogg":  {},
	".wav":  {},
	".wave": {},
}

// IsAudioPath reports whether the path carries a recognized audio extension.
func IsAudioPath(path string) bool {
	_, ok := audioExtensions[normalizedExt(path)]
	return ok
}

// Info is the metadata recovered from an audio file. Zero fields mean the
// file did not carry that information.
type Info struct {
	Title    string
	Duration float64
}

// Probe extracts embedded metadata from the file at path. Unreadable files
// report an error; files without usable tags report an empty Info.
func Probe(path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Info{}, sound.Wrap(sound.ErrNotFound, "probe audio", path, err)
		}
		return Info{}, sound.Wrap(sound.ErrStorage, "probe audio", path, err)
	}
	switch normalizedExt(path) {
	case ".mp3":
		return probeMP3(path), nil
	case ".wav", ".wave":
		return probeWAV(path), nil
	default:
		return Info{}, nil
	}
}

// Stamp writes the sound's name and description into the file's embedded
// tag. Only MP3 files are stamped; everything else is a no-op.
func Stamp(path string, meta sound.Metadata) error {
	if normalizedExt(path) != ".mp3" {
		return nil
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return sound.Wrap(sound.ErrStorage, "stamp audio", path, err)
	}
	defer tag.Close()

	tag.SetTitle(meta.Name)
	if len(meta.Tags) > 0 {
		tag.SetGenre(meta.Tags[0])
	}
	if meta.Description != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        meta.Description,
		})
	}
	if err := tag.Save(); err != nil {
		return sound.Wrap(sound.ErrStorage, "stamp audio", fmt.Sprintf("save tag for %s", path), err)
	}
	return nil
}

func normalizedExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func probeMP3(path string) Info {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		// A damaged tag degrades to filename-derived naming.
		return Info{}
	}
	defer tag.Close()
	return Info{Title: strings.TrimSpace(tag.Title())}
}

// probeWAV walks the RIFF chunk list for fmt and data sizes, which together
// yield the clip duration.
func probeWAV(path string) Info {
	f, err := os.Open(path)
	if err != nil {
		return Info{}
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return Info{}
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Info{}
	}

	var byteRate uint32
	var dataSize uint32
	chunk := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, chunk); err != nil {
			break
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])
		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(f, body); err != nil {
				return Info{}
			}
			if size >= 16 {
				byteRate = binary.LittleEndian.Uint32(body[8:12])
			}
		case "data":
			dataSize = size
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return durationInfo(byteRate, dataSize)
			}
		default:
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return durationInfo(byteRate, dataSize)
			}
		}
		// Chunks are word aligned.
		if size%2 == 1 {
			if _, err := f.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
		if byteRate > 0 && dataSize > 0 {
			break
		}
	}
	return durationInfo(byteRate, dataSize)
}

func durationInfo(byteRate, dataSize uint32) Info {
	if byteRate == 0 || dataSize == 0 {
		return Info{}
	}
	return Info{Duration: float64(dataSize) / float64(byteRate)}
}
