package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorGray)
	assert.Equal(t, ColorGray, fb.GetPixel(3, 2))

	fb.SetPixel(1, 1, ColorRed)
	assert.Equal(t, ColorRed, fb.GetPixel(1, 1))

	// Out of range writes are dropped and reads are transparent.
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	assert.Equal(t, Color{}, fb.GetPixel(0, 3))
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	pixels := fb.Pixels

	fb.Resize(4, 4)
	assert.Equal(t, &pixels[0], &fb.Pixels[0], "same size keeps the buffer")

	fb.Resize(8, 2)
	assert.Equal(t, 8, fb.Width)
	assert.Equal(t, 2, fb.Height)
	assert.Len(t, fb.Pixels, 16)
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.Clear(ColorBlack)

	fb.DrawLine(0, 0, 9, 9, ColorWhite)
	for i := range 10 {
		assert.Equal(t, ColorWhite, fb.GetPixel(i, i))
	}
	assert.Equal(t, ColorBlack, fb.GetPixel(0, 9))

	fb.DrawLine(9, 0, 0, 0, ColorRed)
	assert.Equal(t, ColorRed, fb.GetPixel(5, 0))
}

func TestFramebufferRects(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.Clear(ColorBlack)

	fb.DrawRect(1, 1, 3, 3, ColorWhite)
	assert.Equal(t, ColorWhite, fb.GetPixel(2, 2))
	assert.Equal(t, ColorBlack, fb.GetPixel(4, 4))

	fb.DrawRectOutline(5, 5, 4, 4, ColorRed)
	assert.Equal(t, ColorRed, fb.GetPixel(5, 8))
	assert.Equal(t, ColorRed, fb.GetPixel(8, 5))
	assert.Equal(t, ColorBlack, fb.GetPixel(6, 6))
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(2, 1, RGB(10, 20, 30))

	img := fb.ToImage()
	assert.Equal(t, RGB(10, 20, 30), img.RGBAAt(2, 1))
	assert.Equal(t, Color{}, img.RGBAAt(0, 0))
}

func TestFramebufferDrawHalfBlocks(t *testing.T) {
	fb := NewFramebuffer(3, 4)
	fb.SetPixel(1, 0, ColorRed)
	fb.SetPixel(1, 1, ColorBlue)

	scr := uv.NewScreenBuffer(3, 2)
	fb.Draw(scr, scr.Bounds())

	cell := scr.CellAt(1, 0)
	require.NotNil(t, cell)
	assert.Equal(t, "▀", cell.Content)
	assert.Equal(t, ColorRed, cell.Style.Fg)
	assert.Equal(t, ColorBlue, cell.Style.Bg)

	// Transparent pixels fall back to the terminal default.
	assert.Nil(t, scr.CellAt(0, 1).Style.Fg)
}

func TestTerminalRendererSize(t *testing.T) {
	tr := NewTerminalRenderer(nil, 80, 24)
	w, h := tr.FramebufferSize()
	assert.Equal(t, 80, w)
	assert.Equal(t, 48, h)

	tr.Resize(100, 30)
	w, h = tr.FramebufferSize()
	assert.Equal(t, 100, w)
	assert.Equal(t, 60, h)
}
