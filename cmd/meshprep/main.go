// meshprep converts interchange scenes into renderer-ready meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/meshprep/internal/config"
	"github.com/Faultbox/meshprep/internal/importer"
	"github.com/Faultbox/meshprep/internal/logger"
	"github.com/Faultbox/meshprep/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "import":
		err = cmdImport(args)
	case "info":
		err = cmdInfo(args)
	case "preview", "view":
		err = cmdPreview(args)
	case "glyph":
		err = cmdGlyph(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshprep - mesh import and preparation tool

Usage:
  meshprep <command> [options]

Commands:
  import [options] <scene>...   Postprocess scenes and export meshes (.glb or raw)
  info [options] <scene>...     List gathered meshes, materials and bones
  preview [options] <scene>...  Show postprocessed meshes in a window
  glyph [options] <text>        Render a text banner to .png or .webp

Scenes are glTF 2.0 files (.gltf or .glb).

Preview controls: drag to orbit, wheel to zoom, R to refit, F12 to save a screenshot,
Esc or Q to quit.

Examples:
  meshprep import -orientation z_up -scale 0.01 -o rock.glb rock.gltf
  meshprep import -format raw -o out/ -prune character.glb
  meshprep info -ignore-skeleton character.glb
  meshprep glyph -o banner.webp "Hello, world"`)
}

// newFlagSet creates a subcommand flag set with the shared configuration flags.
func newFlagSet(name string) (*flag.FlagSet, *config.Flags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs, config.BindFlags(fs)
}

// setup loads configuration and initializes logging for a parsed subcommand.
func setup(flags *config.Flags) (*config.Config, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// loadScenes parses every path and gathers it into a new importer.
func loadScenes(cfg *config.Config, paths []string) (*importer.Importer, error) {
	imp := importer.New(cfg.Import, logger.Named("importer"))
	for _, path := range paths {
		s, err := loadScene(path)
		if err != nil {
			imp.Reset()
			return nil, err
		}
		imp.Load(s)
	}
	return imp, nil
}

func loadScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := scene.LoadGLTF(data, os.DirFS(filepath.Dir(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}
