package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/taigrr/brdfview/pkg/config"
	"github.com/taigrr/brdfview/pkg/logging"
	"github.com/taigrr/brdfview/pkg/math3d"
	"github.com/taigrr/brdfview/pkg/publish"
	"github.com/taigrr/brdfview/pkg/render"
)

// Snapshotter renders offscreen frames and stores them in a file or S3.
type Snapshotter struct {
	Settings config.SnapshotConfig
	EnvFile  string // optional .env with S3 credentials
	Log      logging.Logger

	uploader *publish.Uploader
}

// Render draws the scene at the snapshot size, supersampled and then
// resolved, with an optional caption.
func (sn *Snapshotter) Render(ctx context.Context, s *Scene, rot math3d.Mat4) (*image.RGBA, error) {
	ss := max(sn.Settings.Supersample, 1)
	w, h := sn.Settings.Width, sn.Settings.Height

	view := s.NewView(w*ss, h*ss)
	if err := view.Render(ctx, rot); err != nil {
		return nil, err
	}

	resolved := render.Downsample(view.Framebuffer().ToImage(), w, h)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), resolved, resolved.Bounds().Min, draw.Src)

	if sn.Settings.Caption {
		render.Caption(img, captionLines(s), render.ColorWhite)
	}
	return img, nil
}

func captionLines(s *Scene) []string {
	return []string{
		s.Mesh.Name,
		ShadingLine(s.Controls),
		fmt.Sprintf("%d tris", s.Mesh.TriangleCount()),
	}
}

// Save renders the scene and writes it to dest, which is a local path or
// an s3://bucket/key URL. It returns where the image went.
func (sn *Snapshotter) Save(ctx context.Context, s *Scene, rot math3d.Mat4, dest string) (string, error) {
	img, err := sn.Render(ctx, s, rot)
	if err != nil {
		return "", err
	}

	var thumb *image.RGBA
	if sn.Settings.Thumbnail > 0 {
		thumb = render.Thumbnail(img, sn.Settings.Thumbnail)
	}

	if !publish.IsS3URL(dest) {
		if err := render.WriteFile(dest, img); err != nil {
			return "", fmt.Errorf("snapshot: %w", err)
		}
		sn.Log.Infof("wrote %s", dest)
		if thumb != nil {
			name := thumbnailName(dest)
			if err := render.WriteFile(name, thumb); err != nil {
				return "", fmt.Errorf("thumbnail: %w", err)
			}
			sn.Log.Infof("wrote %s", name)
		}
		return dest, nil
	}

	target, err := publish.ParseTarget(dest)
	if err != nil {
		return "", err
	}
	target = target.Resolve(".png")
	if err := sn.upload(ctx, target, img); err != nil {
		return "", err
	}
	if thumb != nil {
		thumbTarget := publish.Target{Bucket: target.Bucket, Key: thumbnailName(target.Key)}
		if err := sn.upload(ctx, thumbTarget, thumb); err != nil {
			return "", err
		}
	}
	return target.String(), nil
}

func (sn *Snapshotter) upload(ctx context.Context, t publish.Target, img image.Image) error {
	format, err := render.FormatFromPath(t.Key)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.Encode(&buf, img, format); err != nil {
		return fmt.Errorf("encode %s: %w", t, err)
	}

	if sn.uploader == nil {
		cfg, err := publish.ConfigFromEnv(sn.EnvFile)
		if err != nil {
			return err
		}
		if sn.uploader, err = publish.NewUploader(cfg, sn.Log); err != nil {
			return err
		}
	}
	return sn.uploader.Upload(ctx, t, buf.Bytes(), format.ContentType())
}

// thumbnailName inserts "_thumb" before the extension.
func thumbnailName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_thumb" + ext
}

// runSnapshot renders a single frame without touching the terminal.
func runSnapshot(ctx context.Context, s *Scene, sn *Snapshotter, dest string) error {
	where, err := sn.Save(ctx, s, math3d.Identity(), dest)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, where)
	return nil
}
