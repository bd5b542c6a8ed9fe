package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Faultbox/meshprep/internal/config"
	"github.com/Faultbox/meshprep/internal/engine/camera"
	"github.com/Faultbox/meshprep/internal/engine/capture"
	"github.com/Faultbox/meshprep/internal/engine/gpu"
	"github.com/Faultbox/meshprep/internal/engine/input"
	"github.com/Faultbox/meshprep/internal/engine/window"
	"github.com/Faultbox/meshprep/internal/glyph"
	"github.com/Faultbox/meshprep/internal/importer"
	"github.com/Faultbox/meshprep/internal/logger"
	"github.com/Faultbox/meshprep/pkg/math"
)

var (
	bannerForeground = color.RGBA{R: 255, G: 51, B: 51, A: 255}
	bannerBackground = color.RGBA{B: 255, A: 255}
	clearColor       = [4]float32{0.25, 0.25, 0.25, 1}
)

func cmdPreview(args []string) error {
	fs, flags := newFlagSet("preview")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: meshprep preview [options] <scene>...")
	}

	cfg, err := setup(flags)
	if err != nil {
		return err
	}

	imp, err := loadScenes(cfg, fs.Args())
	if err != nil {
		return err
	}
	defer imp.Reset()

	if err := imp.PostprocessMeshesContext(context.Background()); err != nil {
		return err
	}
	imp.RemoveEmptyMeshes()
	if len(imp.Meshes) == 0 {
		return errors.New("nothing to preview: every mesh is empty")
	}

	format, err := glyph.FormatFromPath("frame." + cfg.Preview.ScreenshotFormat)
	if err != nil {
		return fmt.Errorf("screenshot format: %w", err)
	}
	shots := capture.NewScreenshot(cfg.Preview.ScreenshotDir, "meshprep", format)

	win, err := window.New(window.Config{
		Title:  "meshprep - " + fs.Arg(0),
		Width:  cfg.Preview.Width,
		Height: cfg.Preview.Height,
		VSync:  cfg.Preview.VSync,
	}, logger.Named("window"))
	if err != nil {
		return err
	}
	defer win.Close()

	v, err := newViewer(imp.Meshes, cfg.Preview, fs.Arg(0))
	if err != nil {
		return err
	}
	defer v.delete()

	in := input.New()
	for {
		state := in.Update()
		if state.Quit {
			return nil
		}
		if state.Reset {
			v.fit()
		}
		v.camera.HandleDrag(state.DragX, state.DragY)
		v.camera.HandleZoom(state.Wheel)

		w, h := win.Size()
		if state.Resize {
			logger.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
		}
		v.draw(w, h)
		if state.Screenshot {
			saveScreenshot(shots, w, h)
		}
		win.SwapBuffers()
	}
}

// saveScreenshot reads back the frame just drawn.
func saveScreenshot(shots *capture.Screenshot, width, height int) {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := shots.SavePixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// viewer draws uploaded meshes through an orbit camera plus a text banner.
type viewer struct {
	meshProgram *gpu.Program
	meshes      []*gpu.MeshBuffers
	bounds      importer.AABB
	camera      *camera.OrbitCamera

	quadProgram *gpu.Program
	banner      *gpu.Texture
	quad        *gpu.VertexArray
	quadBuffers []interface{ Delete() }
}

func newViewer(meshes []*importer.ImportMesh, cfg config.PreviewConfig, title string) (*viewer, error) {
	v := &viewer{bounds: importer.EmptyAABB(), camera: camera.NewOrbitCamera()}

	var err error
	v.meshProgram, err = gpu.NewProgram(gpu.MeshVertexShader, gpu.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}

	for _, m := range meshes {
		mb, err := gpu.UploadMesh(m)
		if err != nil {
			v.delete()
			return nil, fmt.Errorf("uploading %s: %w", m.Name(), err)
		}
		v.meshes = append(v.meshes, mb)
		v.bounds.Extend(m.AABB.Min)
		v.bounds.Extend(m.AABB.Max)
	}
	v.fit()

	if err := v.initBanner(cfg, fmt.Sprintf("%s: %d meshes", title, len(meshes))); err != nil {
		v.delete()
		return nil, err
	}

	logger.Info("preview ready",
		zap.Int("meshes", len(v.meshes)),
		zap.Float32("distance", v.camera.Distance),
	)
	return v, nil
}

func (v *viewer) initBanner(cfg config.PreviewConfig, text string) error {
	fontData := goregular.TTF
	if cfg.FontPath != "" {
		data, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return fmt.Errorf("reading font: %w", err)
		}
		fontData = data
	}

	r, err := glyph.NewRasterizer(fontData, cfg.FontSize)
	if err != nil {
		return err
	}
	defer r.Close()

	v.banner, err = gpu.NewTextureFromImage(r.Banner(text, bannerForeground, bannerBackground, 4))
	if err != nil {
		return err
	}

	v.quadProgram, err = gpu.NewProgram(gpu.QuadVertexShader, gpu.QuadFragmentShader)
	if err != nil {
		return fmt.Errorf("quad shader: %w", err)
	}

	positions := gpu.NewBuffer[math.Vec3](4)
	uvs := gpu.NewBuffer[math.Vec2](4)
	corners := []struct {
		pos math.Vec3
		uv  math.Vec2
	}{
		{math.Vec3{X: -1, Y: -1}, math.Vec2{X: 0, Y: 1}},
		{math.Vec3{X: -1, Y: 1}, math.Vec2{X: 0, Y: 0}},
		{math.Vec3{X: 1, Y: 1}, math.Vec2{X: 1, Y: 0}},
		{math.Vec3{X: 1, Y: -1}, math.Vec2{X: 1, Y: 1}},
	}
	for _, c := range corners {
		if _, err := positions.Add(c.pos); err != nil {
			return err
		}
		if _, err := uvs.Add(c.uv); err != nil {
			return err
		}
	}

	v.quad = gpu.NewVertexArray()
	v.quad.AddBuffer(0, 3, positions)
	v.quad.AddBuffer(1, 2, uvs)
	v.quadBuffers = []interface{ Delete() }{positions, uvs}
	return nil
}

// fit resets the camera to frame every mesh.
func (v *viewer) fit() {
	v.camera.FitToBounds(v.bounds.Min, v.bounds.Max)
}

func (v *viewer) draw(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	aspect := float32(width) / float32(max(height, 1))
	viewProj := v.camera.ProjectionMatrix(aspect).Mul(v.camera.ViewMatrix())

	v.meshProgram.Use()
	v.meshProgram.SetMat4("uViewProj", viewProj)
	v.meshProgram.SetMat4("uModel", math.Identity())
	v.meshProgram.SetVec3("uLightDir", math.Vec3{X: -0.4, Y: -1, Z: -0.6})
	v.meshProgram.SetVec3("uBaseColor", math.Vec3{X: 0.8, Y: 0.8, Z: 0.8})
	for _, mb := range v.meshes {
		mb.Draw()
	}

	v.drawBanner(width, height)
}

// drawBanner places the banner texture at pixel size in the top-left corner.
func (v *viewer) drawBanner(width, height int) {
	if v.banner == nil {
		return
	}
	bw, bh := v.banner.Size()
	gl.Disable(gl.DEPTH_TEST)
	gl.Viewport(8, int32(height-bh-8), int32(min(bw, width)), int32(bh))

	v.quadProgram.Use()
	v.quadProgram.SetInt("uTexture", 0)
	v.banner.Bind(0)
	v.quad.Draw(gl.TRIANGLE_FAN)

	gl.Viewport(0, 0, int32(width), int32(height))
}

func (v *viewer) delete() {
	for _, mb := range v.meshes {
		mb.Delete()
	}
	if v.meshProgram != nil {
		v.meshProgram.Delete()
	}
	if v.quad != nil {
		v.quad.Delete()
	}
	for _, b := range v.quadBuffers {
		b.Delete()
	}
	if v.banner != nil {
		v.banner.Delete()
	}
	if v.quadProgram != nil {
		v.quadProgram.Delete()
	}
}
