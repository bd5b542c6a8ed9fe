package importer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshprep/pkg/scene"
)

// Importer owns the aggregation state of one import job: the scenes handed to it and
// every mesh, material, bone and animation gathered from them. An Importer is not safe
// for concurrent use; PostprocessMeshesContext parallelizes internally.
type Importer struct {
	opts Options
	log  *zap.Logger

	scenes []*scene.Scene

	Meshes     []*ImportMesh
	Materials  []*ImportMaterial
	Bones      []*ImportBone
	Animations []*ImportAnimation
}

// New creates an importer. A nil logger disables logging.
func New(opts Options, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{opts: opts, log: log}
}

// Options returns the active options.
func (imp *Importer) Options() Options {
	return imp.opts
}

// SetOptions replaces the options. Call PostprocessMeshes again to apply them.
func (imp *Importer) SetOptions(opts Options) {
	imp.opts = opts
}

// AddScene hands ownership of s to the importer; Reset destroys it.
func (imp *Importer) AddScene(s *scene.Scene) {
	imp.scenes = append(imp.scenes, s)
}

// Scenes returns the scenes owned by the importer.
func (imp *Importer) Scenes() []*scene.Scene {
	return imp.scenes
}

// Load takes ownership of s and gathers its meshes, materials and bones.
// Results accumulate with those of earlier Load calls.
func (imp *Importer) Load(s *scene.Scene) {
	imp.AddScene(s)
	start := len(imp.Meshes)
	imp.GatherMeshes(s)
	imp.GatherMaterials()
	imp.GatherBones()

	imp.log.Info("scene gathered",
		zap.String("scene", s.Name),
		zap.Int("source_meshes", s.MeshCount()),
		zap.Int("import_meshes", len(imp.Meshes)-start),
		zap.Int("materials", len(imp.Materials)),
		zap.Int("bones", len(imp.Bones)),
	)
}

// Reset destroys every owned scene and clears all gathered state.
func (imp *Importer) Reset() {
	for _, s := range imp.scenes {
		s.Destroy()
	}
	imp.scenes = nil
	imp.Meshes = nil
	imp.Materials = nil
	imp.Bones = nil
	imp.Animations = nil

	imp.log.Debug("importer reset")
}
