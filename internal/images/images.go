// Package images names and loads the screenshot artifacts the engine writes
// to the shared working directory.
package images

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"
)

// SequencePath builds the artifact path for one capture sequence number.
// The engine splits directory from filename on '/', so the separator is a
// forward slash regardless of host OS path conventions.
func SequencePath(dir string, n int) string {
	return strings.TrimRight(filepath.ToSlash(dir), "/") + "/" + fmt.Sprintf("%06d", n)
}

// Load reads one saved artifact back from disk. The engine writes PNG data;
// JPEG is accepted for bridges configured with compressed output.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode artifact %q: %w", path, err)
	}
	return img, nil
}
