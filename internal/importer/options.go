package importer

// Options configures one import job. Set them before gathering; postprocessing can be
// re-run after changing them.
type Options struct {
	// MeshScale is a uniform scale applied to raw positions before any transform.
	MeshScale float32 `yaml:"mesh_scale"`
	// CenterMesh drops the translation of the combined mesh transform.
	CenterMesh      bool        `yaml:"center_mesh"`
	Orientation     Orientation `yaml:"orientation"`
	RootOrientation Orientation `yaml:"root_orientation"`
	// ImportVertexColors gates reading the color stream even when the source has one.
	ImportVertexColors bool `yaml:"import_vertex_colors"`
	// IgnoreSkeleton makes skinning detection report false.
	IgnoreSkeleton bool `yaml:"ignore_skeleton"`
	// Workers is the number of goroutines used by PostprocessMeshesContext.
	Workers int `yaml:"workers"`
}

// DefaultOptions returns the options of a plain Y-up import.
func DefaultOptions() Options {
	return Options{
		MeshScale:          1,
		Orientation:        YUp,
		RootOrientation:    YUp,
		ImportVertexColors: true,
		Workers:            1,
	}
}
