// Package assets loads the optional logo and font used by the PDF renderer.
package assets

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// Files holds asset bytes read from disk. A zero value has no assets.
type Files struct {
	logo []byte
	font []byte
}

// Load reads the logo and font at the given paths. An empty path is skipped
// silently; a missing or unreadable file is logged and skipped, since reports
// render fine without either.
func Load(logoPath, fontPath string, logger *slog.Logger) *Files {
	return &Files{
		logo: readOptional("logo", logoPath, logger),
		font: readOptional("font", fontPath, logger),
	}
}

// Logo returns the logo image bytes.
func (f *Files) Logo() ([]byte, bool) { return f.logo, len(f.logo) > 0 }

// Font returns the TrueType font bytes.
func (f *Files) Font() ([]byte, bool) { return f.font, len(f.font) > 0 }

func readOptional(kind, path string, logger *slog.Logger) []byte {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn(kind+" not found, continuing without it", "path", path)
		return nil
	case err != nil:
		logger.Warn("read "+kind+" failed, continuing without it", "path", path, "error", err)
		return nil
	}

	logger.Debug(kind+" loaded", "path", path, "bytes", len(data))
	return data
}
