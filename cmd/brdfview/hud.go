package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/taigrr/brdfview/pkg/shading"
)

const noticeDuration = 3 * time.Second

// HUD renders an overlay with model info, shading state and modes.
type HUD struct {
	filename  string
	triCount  int
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	notice      string
	noticeUntil time.Time
}

// HUDState is the part of the viewer the HUD reports.
type HUDState struct {
	Controls  *shading.Controls
	Wireframe bool
	Axes      bool
}

func NewHUD(filename string, triCount int) *HUD {
	return &HUD{
		filename: filename,
		triCount: triCount,
		fpsTime:  time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Notify shows msg on the bottom line for a few seconds, even with the
// HUD hidden.
func (h *HUD) Notify(msg string) {
	h.notice = msg
	h.noticeUntil = time.Now().Add(noticeDuration)
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// ShadingLine describes the material: model, roughness, F0 and which
// lights are on.
func ShadingLine(c *shading.Controls) string {
	var lights strings.Builder
	for i := range c.Lights.Len() {
		mark := "○"
		if c.Lights.Light(i).IsActive() {
			mark = "●"
		}
		if i == c.LightIndex {
			fmt.Fprintf(&lights, "%d%s←→ ", i+1, mark)
		} else {
			fmt.Fprintf(&lights, "%d%s ", i+1, mark)
		}
	}
	return fmt.Sprintf("%s  α=%.2f  F0=%.2f  lights %s",
		c.Material.Model, c.Material.Alpha, c.Material.F0, strings.TrimSpace(lights.String()))
}

// ModeLine shows the toggles as checkboxes.
func ModeLine(st HUDState) string {
	m := st.Controls.Modes
	return fmt.Sprintf("%s Microfacet  %s GGX  %s Schlick  %s X-Ray  %s Axes",
		checkbox(m.Microfacet), checkbox(m.GGX), checkbox(m.Schlick),
		checkbox(st.Wireframe), checkbox(st.Axes))
}

// Render draws the HUD with ANSI escapes after the frame is flushed.
// Its rows are always cleared so hiding the HUD works.
func (h *HUD) Render(w io.Writer, width, height int, show bool, st HUDState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	for _, row := range []int{1, height - 2, height - 1, height} {
		fmt.Fprint(w, moveTo(row, 1)+clearLine)
	}

	if h.notice != "" && time.Now().Before(h.noticeUntil) {
		fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(height, 1), bgBlack, bold, fgYellow, h.notice, reset)
		if !show {
			return
		}
		height-- // mode line moves up while a notice is shown
	}

	if !show {
		return
	}

	fmt.Fprintf(w, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.filename, reset)

	tris := fmt.Sprintf("%d tris", h.triCount)
	fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(1, max(width-len(tris)-1, 1)), bgBlack, fgCyan, bold, tris, reset)

	fmt.Fprintf(w, "%s%s%s %s %s", moveTo(height-1, 1), bgBlack, fgYellow, ShadingLine(st.Controls), reset)
	fmt.Fprintf(w, "%s%s%s %s %s", moveTo(height, 1), bgBlack, fgWhite, ModeLine(st), reset)
}
