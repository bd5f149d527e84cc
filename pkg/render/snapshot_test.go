package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerFramebuffer(w, h int) *Framebuffer {
	fb := NewFramebuffer(w, h)
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				fb.SetPixel(x, y, ColorWhite)
			} else {
				fb.SetPixel(x, y, RGB(200, 40, 10))
			}
		}
	}
	return fb
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ImageFormat
	}{
		{"out.png", FormatPNG},
		{"dir/OUT.PNG", FormatPNG},
		{"frame.webp", FormatWebP},
		{"frame.tga", FormatTGA},
	}
	for _, tc := range tests {
		got, err := FormatFromPath(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}

	_, err := FormatFromPath("frame.jpg")
	assert.ErrorContains(t, err, "unsupported")
	_, err = FormatFromPath("frame")
	assert.Error(t, err)

	assert.Equal(t, "image/webp", FormatWebP.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestEncodePNG(t *testing.T) {
	fb := checkerFramebuffer(6, 4)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fb.ToImage(), FormatPNG))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
	assert.Equal(t, color.RGBAModel.Convert(fb.GetPixel(1, 0)), color.RGBAModel.Convert(img.At(1, 0)))
}

func TestEncodeTGA(t *testing.T) {
	fb := checkerFramebuffer(5, 3)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fb.ToImage(), FormatTGA))

	img, err := tga.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, color.RGBAModel.Convert(fb.GetPixel(0, 0)), color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBAModel.Convert(fb.GetPixel(2, 1)), color.RGBAModel.Convert(img.At(2, 1)))
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, checkerFramebuffer(8, 8).ToImage(), FormatWebP))

	data := buf.Bytes()
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)), "bmp"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	img := checkerFramebuffer(4, 4).ToImage()

	for _, name := range []string{"a.png", "a.webp", "a.tga"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, img), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), name)
	}

	assert.Error(t, WriteFile(filepath.Join(dir, "a.gif"), img))
	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "a.png"), img))
}

func TestDownsample(t *testing.T) {
	img := checkerFramebuffer(40, 20).ToImage()

	same := Downsample(img, 40, 20)
	assert.Same(t, img, same.(*image.RGBA))

	small := Downsample(img, 20, 10)
	assert.Equal(t, image.Rect(0, 0, 20, 10), small.Bounds())
}

func TestThumbnail(t *testing.T) {
	wide := Thumbnail(checkerFramebuffer(200, 100).ToImage(), 64)
	assert.Equal(t, image.Rect(0, 0, 64, 32), wide.Bounds())

	tall := Thumbnail(checkerFramebuffer(30, 90).ToImage(), 30)
	assert.Equal(t, image.Rect(0, 0, 10, 30), tall.Bounds())
}

func TestCaption(t *testing.T) {
	img := NewFramebuffer(120, 40)
	img.Clear(ColorBlack)
	dst := img.ToImage()

	Caption(dst, []string{"ggx a=0.30"}, ColorWhite)

	lit := 0
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] > 0 {
			lit++
		}
	}
	assert.Positive(t, lit)

	// Text stays in the top-left corner.
	for y := 30; y < 40; y++ {
		for x := 0; x < 120; x++ {
			assert.Equal(t, uint8(0), dst.RGBAAt(x, y).R)
		}
	}
}
