// Package importer turns a parsed scene into renderer-ready meshes: it selects
// mesh/material pairs, bakes transforms and orientation into the vertices, splits
// geometry per material and computes bounding volumes.
package importer

import (
	"github.com/Faultbox/meshprep/pkg/math"
	"github.com/Faultbox/meshprep/pkg/scene"
)

// Vertex is the fixed vertex record handed to GPU upload. A zero normal, tangent,
// color or texture coordinate means the source did not provide that stream.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Tangent  [3]float32
	Color    [4]float32
	TexCoord [2]float32
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns a box that any point extends, with +Inf minimum and -Inf maximum.
func EmptyAABB() AABB {
	return AABB{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Extend grows the box to include p.
func (b *AABB) Extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Empty reports whether no point has been added.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent along each axis.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Streams records which optional vertex streams were filled from source data.
type Streams struct {
	Normals  bool
	Tangents bool
	UVs      bool
	Colors   bool
}

// ImportMesh is one (source mesh, material) pair selected for export.
type ImportMesh struct {
	Mesh     *scene.Mesh
	Material *scene.Material
	// SubmeshIndex is the material slot of Material within Mesh.
	SubmeshIndex int
	LOD          int

	Import        bool
	ImportPhysics bool

	Vertices []Vertex
	Indices  []uint32
	// SourceIndices holds the geometry vertex index each output vertex came from.
	SourceIndices []int
	Streams       Streams

	RadiusSquared float32
	AABB          AABB
}

// Name returns a readable name combining mesh and material.
func (m *ImportMesh) Name() string {
	if m.Material == nil || m.Material.Name == "" {
		return m.Mesh.Name
	}
	return m.Mesh.Name + "_" + m.Material.Name
}

// Texture slots of ImportMaterial.Textures.
const (
	TextureDiffuse = iota
	TextureNormal
	textureSlotCount
)

// ImportTexture is one texture slot of an imported material.
type ImportTexture struct {
	Texture *scene.Texture
	Path    string
	Import  bool
	// ToDDS asks downstream tooling to convert the image.
	ToDDS bool
}

// ImportMaterial is a source material referenced by at least one gathered mesh.
type ImportMaterial struct {
	Material    *scene.Material
	Import      bool
	AlphaCutout bool
	Textures    [textureSlotCount]ImportTexture
}

// ImportBone is a skeleton node reachable from a skinned mesh.
type ImportBone struct {
	Node  *scene.Node
	Depth int
}

// ImportAnimation is a placeholder for animation stacks; nothing fills it yet.
type ImportAnimation struct {
	Name string
}
