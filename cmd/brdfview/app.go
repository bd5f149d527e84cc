package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/brdfview/pkg/logging"
	"github.com/taigrr/brdfview/pkg/publish"
	"github.com/taigrr/brdfview/pkg/render"
)

const mouseSensitivity = 0.03

// App is the interactive viewer. All fields are owned by the render loop;
// terminal events are drained there between frames.
type App struct {
	scene    *Scene
	view     *View
	rotation *RotationState
	hud      *HUD
	snap     *Snapshotter
	shots    string // --shots destination
	log      logging.Logger
	hudOut   io.Writer

	term         *uv.Terminal
	termRenderer *render.TerminalRenderer
	width        int // columns
	height       int // rows

	showHUD    bool
	mouseDown  bool
	lastMouseX int
	lastMouseY int
	quit       bool
}

// HandleEvent applies one terminal event.
func (a *App) HandleEvent(ctx context.Context, ev uv.Event) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		a.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		a.handleKey(ctx, ev.Key())

	case uv.KeyReleaseEvent:
		if b, ok := Lookup(uv.Key(ev)); ok && b.Action == ActionRotate {
			a.rotation.SetTorque(b.Axis, 0)
		}

	case uv.MouseClickEvent:
		a.mouseDown = true
		a.lastMouseX, a.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		a.mouseDown = false

	case uv.MouseMotionEvent:
		if a.mouseDown {
			dx := ev.X - a.lastMouseX
			dy := ev.Y - a.lastMouseY
			a.rotation.ApplyImpulse(float64(dy)*mouseSensitivity, float64(dx)*mouseSensitivity, 0)
			a.lastMouseX, a.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			a.view.Zoom(-zoomStep)
		case uv.MouseWheelDown:
			a.view.Zoom(zoomStep)
		}
	}
}

func (a *App) handleKey(ctx context.Context, key uv.Key) {
	b, ok := Lookup(key)
	if !ok {
		return
	}

	switch b.Action {
	case ActionQuit:
		a.quit = true
	case ActionShading:
		a.scene.Controls.Apply(b.Command)
		a.log.Debugf("%s", ShadingLine(a.scene.Controls))
	case ActionToggleLight:
		if b.Light < a.scene.Lights.Len() {
			on := a.scene.Controls.ToggleLight(b.Light)
			a.log.Debugf("light %d on=%t", b.Light+1, on)
		}
	case ActionRotate:
		a.rotation.SetTorque(b.Axis, b.Torque)
	case ActionImpulse:
		a.rotation.ApplyImpulse(
			(rand.Float64()-0.5)*1.5,
			(rand.Float64()-0.5)*1.5,
			(rand.Float64()-0.5)*1.5,
		)
	case ActionReset:
		a.rotation.Reset()
		a.view.ResetCamera()
	case ActionZoomIn:
		a.view.Zoom(-zoomStep)
	case ActionZoomOut:
		a.view.Zoom(zoomStep)
	case ActionWireframe:
		a.scene.Wireframe = !a.scene.Wireframe
	case ActionAxes:
		a.scene.Axes = !a.scene.Axes
	case ActionHUD:
		a.showHUD = !a.showHUD
	case ActionSnapshot:
		a.saveSnapshot(ctx)
	}
}

// shotDest names the file P writes: a timestamped PNG in the shots
// directory, or a generated key under an S3 prefix.
func shotDest(shots string, now time.Time) string {
	if publish.IsS3URL(shots) {
		return shots
	}
	return filepath.Join(shots, "brdfview-"+now.Format("20060102-150405")+".png")
}

func (a *App) saveSnapshot(ctx context.Context) {
	where, err := a.snap.Save(ctx, a.scene, a.rotation.Matrix(), shotDest(a.shots, time.Now()))
	if err != nil {
		a.log.Errorf("snapshot: %v", err)
		a.hud.Notify("snapshot failed: " + err.Error())
		return
	}
	a.hud.Notify("saved " + where)
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.term.Erase()
	a.term.Resize(width, height)
	a.termRenderer.Resize(width, height)
	a.view.Resize(a.termRenderer.FramebufferSize())
	a.log.Debugf("resized to %dx%d cells", width, height)
}

func (a *App) hudState() HUDState {
	return HUDState{Controls: a.scene.Controls, Wireframe: a.scene.Wireframe, Axes: a.scene.Axes}
}

// Frame advances the rotation by dt seconds and draws one frame.
func (a *App) Frame(ctx context.Context, dt float64) error {
	a.rotation.Step(dt)
	if err := a.view.Render(ctx, a.rotation.Matrix()); err != nil {
		return err
	}

	a.termRenderer.Render(a.view.Framebuffer())
	if err := a.termRenderer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	// HUD goes on top of the flushed cells
	a.hud.UpdateFPS()
	a.hud.Render(a.hudOut, a.width, a.height, a.showHUD, a.hudState())
	return nil
}

func runInteractive(ctx context.Context, fps int, scene *Scene, snap *Snapshotter, shots string, log logging.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	app := &App{
		scene:        scene,
		view:         scene.NewView(termRenderer.FramebufferSize()),
		rotation:     NewRotationState(fps),
		hud:          NewHUD(scene.Mesh.Name, scene.Mesh.TriangleCount()),
		snap:         snap,
		shots:        shots,
		log:          log,
		hudOut:       os.Stdout,
		term:         term,
		termRenderer: termRenderer,
		width:        width,
		height:       height,
	}

	events := term.Events()
	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()

	for !app.quit {
		if ctx.Err() != nil {
			return nil
		}

	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				app.HandleEvent(ctx, ev)
			default:
				break drain
			}
		}
		if app.quit {
			break
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		if err := app.Frame(ctx, dt); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
	log.Infof("quit")
	return nil
}
