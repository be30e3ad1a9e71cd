package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, w, h int, alpha uint8, asJPEG bool) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: alpha})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	if asJPEG {
		require.NoError(t, jpeg.Encode(f, img, nil))
	} else {
		require.NoError(t, png.Encode(f, img))
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tex"), 0755))
	writeImage(t, filepath.Join(dir, "tex", "wood grain.png"), 4, 4, 255, false)
	writeImage(t, filepath.Join(dir, "stone.png"), 4, 4, 255, false)

	for _, raw := range []string{
		"tex/wood grain.png",
		"./tex/wood%20grain.png",
		"file://tex/wood%20grain.png",
		"tex\\wood grain.png",
		filepath.Join(dir, "tex", "wood grain.png"),
	} {
		p, err := ResolvePath(raw, dir)
		require.NoError(t, err, raw)
		assert.Equal(t, filepath.Join(dir, "tex", "wood grain.png"), p, raw)
	}

	// absolute path from another machine falls back to model directory
	p, err := ResolvePath("C:/Users/artist/textures/stone.png", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stone.png"), p)

	_, err = ResolvePath("missing.png", dir)
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	pot := filepath.Join(dir, "pot.png")
	npot := filepath.Join(dir, "npot.png")
	writeImage(t, pot, 8, 16, 255, false)
	writeImage(t, npot, 6, 8, 128, false)

	info, err := Inspect(pot)
	require.NoError(t, err)
	assert.True(t, info.IsPNG)
	assert.True(t, info.PowerOfTwo)
	assert.False(t, info.Transparent)

	info, err = Inspect(npot)
	require.NoError(t, err)
	assert.False(t, info.PowerOfTwo)
	assert.True(t, info.Transparent)
}

func TestConvertToPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	writeImage(t, src, 4, 4, 255, true)

	isPNG, err := IsPNGFile(src)
	require.NoError(t, err)
	assert.False(t, isPNG)

	dst := WithExtension(src, ".png")
	assert.Equal(t, filepath.Join(dir, "photo.png"), dst)
	require.NoError(t, ConvertToPNG(src, dst))

	info, err := Inspect(dst)
	require.NoError(t, err)
	assert.True(t, info.IsPNG)
	assert.Equal(t, 4, info.Width)
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "res/model/duck.png", OutputFilename(filepath.Join("a", "b", "duck.png")))
}
