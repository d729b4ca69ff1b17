package opencv

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"graphfield/internal/mask"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGray(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	img.SetGray(1, 0, color.Gray{Y: 200})
	img.SetGray(3, 1, color.Gray{Y: 11})
	img.SetGray(2, 1, color.Gray{Y: 10})

	path := filepath.Join(t.TempDir(), "mask.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadMatchesGoDecoder(t *testing.T) {
	path := writeGray(t)

	cv, err := Load(path, 10)
	require.NoError(t, err)
	golden, err := mask.Load(path, 10)
	require.NoError(t, err)

	assert.Equal(t, golden.Rows(), cv.Rows())
	assert.Equal(t, golden.Cols(), cv.Cols())
	assert.Equal(t, 2, cv.Count())
	assert.True(t, cv.At(0, 1))
	assert.True(t, cv.At(1, 3))
	assert.False(t, cv.At(1, 2))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"), 10)
	assert.Error(t, err)
}

func TestLoaderFor(t *testing.T) {
	path := writeGray(t)
	for _, name := range []string{"", "go", "opencv"} {
		m, err := LoaderFor(name)(path, 10)
		require.NoError(t, err, name)
		assert.Equal(t, 2, m.Count(), name)
	}
}
