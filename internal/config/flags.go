package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/meshprep/internal/importer"
)

// Flags holds the configuration flags registered on one command's FlagSet.
type Flags struct {
	fs *flag.FlagSet

	config          *string
	debug           *bool
	scale           *float64
	center          *bool
	orientation     *string
	rootOrientation *string
	noColors        *bool
	ignoreSkeleton  *bool
	workers         *int
}

// BindFlags registers the shared configuration flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:              fs,
		config:          fs.String("config", "", "Path to config file"),
		debug:           fs.Bool("debug", false, "Enable debug logging"),
		scale:           fs.Float64("scale", 1, "Uniform scale applied to positions"),
		center:          fs.Bool("center", false, "Drop mesh translation"),
		orientation:     fs.String("orientation", "y_up", "Target up axis: y_up, z_up, z_minus_up, x_minus_up, x_up"),
		rootOrientation: fs.String("root-orientation", "y_up", "Target up axis for root motion"),
		noColors:        fs.Bool("no-colors", false, "Ignore vertex colors"),
		ignoreSkeleton:  fs.Bool("ignore-skeleton", false, "Treat skinned meshes as static"),
		workers:         fs.Int("workers", 0, "Postprocess goroutines (0 = number of CPUs)"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// applyFlags applies flags that were set on the command line. Unset flags keep the
// file or default value.
func (f *Flags) applyFlags(cfg *Config) error {
	set := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if set["scale"] {
		cfg.Import.MeshScale = float32(*f.scale)
	}
	if set["center"] {
		cfg.Import.CenterMesh = *f.center
	}
	if set["orientation"] {
		o, err := importer.ParseOrientation(*f.orientation)
		if err != nil {
			return fmt.Errorf("-orientation: %w", err)
		}
		cfg.Import.Orientation = o
	}
	if set["root-orientation"] {
		o, err := importer.ParseOrientation(*f.rootOrientation)
		if err != nil {
			return fmt.Errorf("-root-orientation: %w", err)
		}
		cfg.Import.RootOrientation = o
	}
	if *f.noColors {
		cfg.Import.ImportVertexColors = false
	}
	if set["ignore-skeleton"] {
		cfg.Import.IgnoreSkeleton = *f.ignoreSkeleton
	}
	if set["workers"] {
		cfg.Import.Workers = *f.workers
	}
	return nil
}
