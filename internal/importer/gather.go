package importer

import (
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshprep/pkg/scene"
)

// GatherMeshes appends one ImportMesh for every (mesh, material slot) pair of s.
// Meshes without vertices or without materials are skipped. Earlier entries are kept.
func (imp *Importer) GatherMeshes(s *scene.Scene) {
	start := len(imp.Meshes)

	for i := 0; i < s.MeshCount(); i++ {
		mesh := s.Mesh(i)
		if mesh.VertexCount() == 0 {
			imp.log.Debug("skipping mesh without vertices", zap.String("mesh", mesh.Name))
			continue
		}
		if len(mesh.Materials) == 0 {
			imp.log.Debug("skipping mesh without materials", zap.String("mesh", mesh.Name))
			continue
		}

		for slot, mat := range mesh.Materials {
			imp.Meshes = append(imp.Meshes, &ImportMesh{
				Mesh:          mesh,
				Material:      mat,
				SubmeshIndex:  slot,
				LOD:           detectLOD(mesh),
				Import:        true,
				ImportPhysics: true,
			})
		}
	}

	imp.adjustLODs(start)
}

// detectLOD is the hook for name-based LOD detection. Every mesh is LOD 0 for now.
func detectLOD(*scene.Mesh) int {
	return 0
}

// adjustLODs shifts LOD indices of the meshes gathered since start so the finest
// detected level becomes 0. Entries from earlier batches are not touched.
func (imp *Importer) adjustLODs(start int) {
	batch := imp.Meshes[start:]
	if len(batch) == 0 {
		return
	}
	minLOD := batch[0].LOD
	for _, m := range batch[1:] {
		minLOD = min(minLOD, m.LOD)
	}
	if minLOD == 0 {
		return
	}
	for _, m := range batch {
		m.LOD -= minLOD
	}
}

// GatherMaterials registers every material referenced by a gathered mesh exactly once.
func (imp *Importer) GatherMaterials() {
	known := make(map[*scene.Material]bool, len(imp.Materials))
	for _, m := range imp.Materials {
		known[m.Material] = true
	}

	for _, mesh := range imp.Meshes {
		if mesh.Material == nil || known[mesh.Material] {
			continue
		}
		known[mesh.Material] = true

		mat := &ImportMaterial{Material: mesh.Material, Import: true}
		mat.Textures[TextureDiffuse] = importTexture(mesh.Material.Diffuse)
		mat.Textures[TextureNormal] = importTexture(mesh.Material.Normal)
		imp.Materials = append(imp.Materials, mat)
	}
}

func importTexture(t *scene.Texture) ImportTexture {
	if t == nil {
		return ImportTexture{}
	}
	p := strings.ReplaceAll(t.RelativeFileName, "\\", "/")
	if p != "" {
		p = path.Clean(p)
	}
	return ImportTexture{Texture: t, Path: p, Import: p != ""}
}

// GatherBones collects the skeleton of every skinned mesh: each cluster link and all its
// ancestors, once, ordered parents first. It does nothing when IgnoreSkeleton is set.
func (imp *Importer) GatherBones() {
	if imp.opts.IgnoreSkeleton {
		return
	}

	known := make(map[*scene.Node]bool, len(imp.Bones))
	for _, b := range imp.Bones {
		known[b.Node] = true
	}

	added := len(imp.Bones)
	for _, mesh := range imp.Meshes {
		if !imp.IsSkinned(mesh.Mesh) {
			continue
		}
		for _, c := range mesh.Mesh.Geometry.Skin.Clusters {
			for n := c.Link; n != nil && !known[n]; n = n.Parent {
				known[n] = true
				imp.Bones = append(imp.Bones, &ImportBone{Node: n, Depth: BoneDepth(n)})
			}
		}
	}

	batch := imp.Bones[added:]
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Depth < batch[j].Depth
	})
}

// RemoveEmptyMeshes drops meshes whose postprocessed vertex list is empty.
// It is an optional stage and never runs implicitly.
func (imp *Importer) RemoveEmptyMeshes() int {
	kept := imp.Meshes[:0]
	removed := 0
	for _, m := range imp.Meshes {
		if len(m.Vertices) == 0 {
			removed++
			imp.log.Debug("pruning empty mesh", zap.String("mesh", m.Name()))
			continue
		}
		kept = append(kept, m)
	}
	clear(imp.Meshes[len(kept):])
	imp.Meshes = kept
	return removed
}
