package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshprep/internal/export"
	"github.com/Faultbox/meshprep/internal/importer"
	"github.com/Faultbox/meshprep/internal/logger"
)

func cmdImport(args []string) error {
	fs, flags := newFlagSet("import")
	output := fs.String("o", "", "Output .glb file, or directory for raw meshes")
	format := fs.String("format", "", "Output format: glb or raw (default from config)")
	prune := fs.Bool("prune", false, "Drop meshes left without vertices")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: meshprep import [options] <scene>...")
	}

	cfg, err := setup(flags)
	if err != nil {
		return err
	}
	if *format != "" {
		cfg.Export.Format = *format
	}
	if *prune {
		cfg.Export.PruneEmpty = true
	}

	imp, err := loadScenes(cfg, fs.Args())
	if err != nil {
		return err
	}
	defer imp.Reset()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := imp.PostprocessMeshesContext(ctx); err != nil {
		return fmt.Errorf("postprocessing: %w", err)
	}
	if cfg.Export.PruneEmpty {
		if n := imp.RemoveEmptyMeshes(); n > 0 {
			logger.Info("pruned empty meshes", zap.Int("count", n))
		}
	} else {
		for _, m := range imp.Meshes {
			if len(m.Vertices) == 0 {
				logger.Warn("mesh has no triangles for its material", zap.String("mesh", m.Name()))
			}
		}
	}

	switch strings.ToLower(cfg.Export.Format) {
	case "glb":
		path := *output
		if path == "" {
			base := filepath.Base(fs.Arg(0))
			path = filepath.Join(cfg.Export.OutputDir, strings.TrimSuffix(base, filepath.Ext(base))+".glb")
		}
		return writeGLB(path, imp.Meshes)
	case "raw":
		dir := *output
		if dir == "" {
			dir = cfg.Export.OutputDir
		}
		return writeRaw(dir, imp.Meshes)
	default:
		return fmt.Errorf("unknown export format %q", cfg.Export.Format)
	}
}

func writeGLB(path string, meshes []*importer.ImportMesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteGLB(f, meshes); err != nil {
		return err
	}
	logger.Info("wrote glb", zap.String("path", path), zap.Int("meshes", len(meshes)))
	return f.Close()
}

func writeRaw(dir string, meshes []*importer.ImportMesh) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	used := make(map[string]int)
	for _, m := range meshes {
		name := sanitizeName(m.Name())
		if n := used[name]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		used[name]++

		path := filepath.Join(dir, name+".mesh")
		if err := writeRawFile(path, m); err != nil {
			return err
		}
		logger.Debug("wrote raw mesh",
			zap.String("path", path),
			zap.Int("vertices", len(m.Vertices)),
			zap.Int("indices", len(m.Indices)),
		)
	}
	logger.Info("wrote raw meshes", zap.String("dir", dir), zap.Int("meshes", len(meshes)))
	return nil
}

func writeRawFile(path string, m *importer.ImportMesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteRaw(f, m); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// sanitizeName makes a mesh name safe to use as a file name.
func sanitizeName(name string) string {
	if name == "" {
		return "mesh"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
