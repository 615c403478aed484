package images

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequencePathZeroPadding(t *testing.T) {
	require.Equal(t, "shots/000001", SequencePath("shots", 1))
	require.Equal(t, "shots/000100", SequencePath("shots", 100))
	require.Equal(t, "shots/123456", SequencePath("shots", 123456))
}

func TestSequencePathForwardSlashes(t *testing.T) {
	require.Equal(t, "/data/run7/000002", SequencePath("/data/run7/", 2))
}

func TestLoadDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "000001")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "000009"))
	require.Error(t, err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "000001")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
