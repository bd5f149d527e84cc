// brdfview - Terminal reflectance viewer
// Shades a mesh per vertex with Lambertian diffuse plus Blinn-Phong,
// Cook-Torrance or GGX specular under up to eight point lights.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	Z           - Reset rotation and zoom
//	C           - Toggle microfacet specular (off = Blinn-Phong)
//	V           - Toggle Cook-Torrance / GGX
//	B           - Toggle Smith / Schlick masking (GGX only)
//	R/T         - Roughness up/down
//	Y/U         - Fresnel F0 up/down
//	Left/Right  - Move light 3 along X
//	1-8         - Switch a light on or off
//	X           - Toggle wireframe mode (x-ray)
//	G           - Toggle world axes
//	P           - Save a snapshot
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/brdfview/pkg/config"
	"github.com/taigrr/brdfview/pkg/logging"
	"github.com/taigrr/brdfview/pkg/models"
)

var errNoModel = errors.New("no model given: pass a mesh file or set \"model\" in the config")

const controlsHelp = `Controls:
  Mouse drag  - Rotate model
  Scroll      - Zoom in/out
  W/S/A/D     - Pitch and yaw
  Q/E         - Roll left/right
  Space       - Random spin
  Z           - Reset view
  C           - Toggle microfacet specular
  V           - Toggle Cook-Torrance / GGX
  B           - Toggle Smith / Schlick masking
  R/T         - Roughness up/down
  Y/U         - Fresnel F0 up/down
  Left/Right  - Move light 3
  1-8         - Switch light on/off
  X           - Toggle wireframe
  G           - Toggle axes
  P           - Save snapshot
  ?           - Toggle HUD overlay
  Esc         - Quit`

// options are the command line settings. Flags holds the values that
// override the config file.
type options struct {
	configPath string
	logPath    string
	debug      bool
	snapshot   string
	shots      string
	envFile    string
	flags      config.Flags

	alpha, f0, exposure, gamma float64
}

// setFloats passes float flags on only when given, so an explicit value out
// of range is reported rather than read as unset.
func (o *options) setFloats(cmd *cobra.Command) {
	for _, fl := range []struct {
		name string
		v    *float64
		dst  **float64
	}{
		{"alpha", &o.alpha, &o.flags.Alpha},
		{"f0", &o.f0, &o.flags.F0},
		{"exposure", &o.exposure, &o.flags.Exposure},
		{"gamma", &o.gamma, &o.flags.Gamma},
	} {
		if cmd.Flags().Changed(fl.name) {
			*fl.dst = fl.v
		}
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brdfview [flags] <model.off|model.obj|model.glb|...>",
		Short: "Terminal reflectance viewer",
		Long: "Shades a mesh per vertex with Lambertian diffuse plus Blinn-Phong,\n" +
			"Cook-Torrance or GGX specular under up to eight point lights.\n\n" + controlsHelp,
		Example: `  brdfview bunny.off
  brdfview --specular ggx-smith --alpha 0.2 teapot.obj
  brdfview --snapshot out.webp --ssaa 3 --caption bunny.off
  brdfview --env .env --snapshot s3://renders/bunny/ bunny.off`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.flags.Model = args[0]
			}
			opts.setFloats(cmd)
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "JSON scene config file")
	f.StringVar(&opts.logPath, "log", "", "Append logs to this file")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	f.IntVar(&opts.flags.FPS, "fps", 0, "Target FPS (default 60)")
	f.StringVar(&opts.flags.Background, "bg", "", "Background color R,G,B (default 30,30,40)")
	f.IntVar(&opts.flags.Workers, "workers", 0, "Shading goroutines (default one per CPU)")
	f.StringVar(&opts.flags.Specular, "specular", "", "Specular model: blinn-phong, cook-torrance, ggx-smith or ggx-schlick")
	f.Float64Var(&opts.alpha, "alpha", 0, "Microfacet roughness in [roughness step, 1] (default 0.5)")
	f.Float64Var(&opts.f0, "f0", 0, "Fresnel reflectance at normal incidence in [0, 1] (default 0.5)")
	f.Float64Var(&opts.exposure, "exposure", 0, "Tone map exposure (default 1)")
	f.Float64Var(&opts.gamma, "gamma", 0, "Display gamma (default 1)")
	f.BoolVar(&opts.flags.Filmic, "filmic", false, "Use the ACES filmic tone curve")

	f.StringVar(&opts.snapshot, "snapshot", "", "Render one frame to a .png, .webp or .tga file or s3://bucket/key and exit")
	f.StringVar(&opts.shots, "shots", "", "Where P saves frames: a directory or s3://bucket/prefix/")
	f.IntVar(&opts.flags.Width, "width", 0, "Snapshot width (default 640)")
	f.IntVar(&opts.flags.Height, "height", 0, "Snapshot height (default 480)")
	f.IntVar(&opts.flags.Supersample, "ssaa", 0, "Snapshot supersampling factor (default 2)")
	f.IntVar(&opts.flags.Thumbnail, "thumb", 0, "Also write a thumbnail with this longest side")
	f.BoolVar(&opts.flags.Caption, "caption", false, "Print model and material on snapshots")
	f.StringVar(&opts.envFile, "env", "", ".env file with S3_ENDPOINT, S3_REGION, S3_ACCESS_KEY and S3_SECRET_KEY")
	return cmd
}

func main() {
	var opts options
	err := fang.Execute(context.Background(), newRootCmd(&opts),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM))
	if err != nil {
		os.Exit(1)
	}
}

// openLogger logs to --log when given, to stderr when no terminal UI is
// running, and nowhere otherwise.
func openLogger(opts *options, headless bool) (logging.Logger, func(), error) {
	const prefix = "brdfview"
	switch {
	case opts.logPath != "":
		l, f, err := logging.OpenFile(opts.logPath, prefix, opts.debug)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { f.Close() }, nil
	case headless:
		return logging.NewStderr(prefix, opts.debug), func() {}, nil
	default:
		return logging.NewNop(), func() {}, nil
	}
}

func run(ctx context.Context, opts *options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if err := cfg.Resolve(opts.flags); err != nil {
		return err
	}
	if cfg.Model == "" {
		return errNoModel
	}

	headless := opts.snapshot != ""
	log, closeLog, err := openLogger(opts, headless)
	if err != nil {
		return err
	}
	defer closeLog()

	mesh, err := models.Load(cfg.Model)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if mesh.Name == "" {
		mesh.Name = filepath.Base(cfg.Model)
	}
	log.Infof("loaded %s (%d vertices, %d triangles)", mesh.Name, mesh.VertexCount(), mesh.TriangleCount())

	scene, err := NewScene(&cfg, mesh)
	if err != nil {
		return err
	}
	log.Debugf("material %s, %d of %d lights on, %d workers",
		ShadingLine(scene.Controls), scene.Lights.ActiveCount(), scene.Lights.Len(), cfg.Render.Workers)

	snap := &Snapshotter{Settings: cfg.Snapshot, EnvFile: opts.envFile, Log: log}
	if headless {
		return runSnapshot(ctx, scene, snap, opts.snapshot)
	}
	return runInteractive(ctx, cfg.Render.FPS, scene, snap, opts.shots, log)
}
