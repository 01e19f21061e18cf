package core

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"
)

// FormatID enumerates every recognised format.
type FormatID string

const (
	FmtWAV  FormatID = "wav"
	FmtAIFF FormatID = "aiff"
	FmtFLAC FormatID = "flac"
	FmtMP3  FormatID = "mp3"
	FmtOGG  FormatID = "ogg"

	FmtUnknown FormatID = "unknown"
)

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".wav":  FmtWAV,
	".wave": FmtWAV,
	".aif":  FmtAIFF,
	".aiff": FmtAIFF,
	".flac": FmtFLAC,
	".mp3":  FmtMP3,
	".ogg":  FmtOGG,
}

// DefaultExtensions lists the extensions treated as WAV without sniffing.
var DefaultExtensions = []string{".wav", ".wave"}

// sniffLen is enough for every audio matcher in h2non/filetype.
const sniffLen = 262

// DetectFormat returns the FormatID for the given file, first by reading
// magic bytes and falling back to extension.
func DetectFormat(fs afero.Fs, path string) (FormatID, error) {
	f, err := fs.Open(path)
	if err != nil {
		return FmtUnknown, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		if err == io.EOF {
			return formatFromExt(path), nil
		}
		return FmtUnknown, err
	}

	if kind, err := filetype.Match(buf[:n]); err == nil && kind != filetype.Unknown {
		if id, ok := extMap["."+kind.Extension]; ok {
			return id, nil
		}
		return FmtUnknown, nil
	}

	return formatFromExt(path), nil
}

func formatFromExt(path string) FormatID {
	if id, ok := extMap[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return FmtUnknown
}

// HasExtension reports whether path ends in one of exts, ignoring case.
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
