package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnail_ScalesDown(t *testing.T) {
	p := NewProcessor(80)
	thumb, err := p.Thumbnail(pngBytes(t, 800, 400), 200)
	require.NoError(t, err)

	assert.Equal(t, 200, thumb.Width)
	assert.Equal(t, 100, thumb.Height)
	assert.Equal(t, "image/png", thumb.ContentType)
	assert.True(t, IsImage(thumb.Data))
}

func TestThumbnail_KeepsSmallImages(t *testing.T) {
	thumb, err := NewProcessor(0).Thumbnail(pngBytes(t, 50, 20), 200)
	require.NoError(t, err)
	assert.Equal(t, 50, thumb.Width)
	assert.Equal(t, 20, thumb.Height)
}

func TestThumbnail_RejectsNonImages(t *testing.T) {
	_, err := NewProcessor(85).Thumbnail([]byte("not an image"), 100)
	assert.Error(t, err)
	assert.False(t, IsImage([]byte("nope")))
}
