// Package scene provides the read-only Scene Object Model consumed by the importer:
// a parsed node hierarchy with meshes, geometry streams, materials and skins.
//
// A Scene exclusively owns its graph. Every *Node, *Mesh, *Material and *Cluster handed out
// is a borrowed reference that stays valid until Destroy is called.
package scene

import "github.com/Faultbox/meshprep/pkg/math"

// Node is one element of the transform hierarchy.
type Node struct {
	Name   string
	Parent *Node     // nil for a root node
	Local  math.Mat4 // transform relative to Parent
	Bone   bool      // limb node referenced by a skin
}

// GlobalTransform returns the node transform in scene space.
func (n *Node) GlobalTransform() math.Mat4 {
	if n == nil {
		return math.Identity()
	}
	if n.Parent == nil {
		return n.Local
	}
	return n.Parent.GlobalTransform().Mul(n.Local)
}

// Texture references an image used by a material.
type Texture struct {
	Name             string
	RelativeFileName string
}

// Material is a surface description shared by meshes.
type Material struct {
	Name    string
	Diffuse *Texture
	Normal  *Texture
}

// Cluster links a bone to a skinned geometry.
type Cluster struct {
	Link          *Node
	TransformLink math.Mat4 // inverse bind transform of Link
}

// Skin groups the clusters deforming one geometry.
type Skin struct {
	Clusters []*Cluster
}

// Geometry holds the per-vertex streams of a mesh as a flat triangle list:
// vertices 3k, 3k+1 and 3k+2 form triangle k. Optional streams are nil when absent.
type Geometry struct {
	Vertices []math.Vec3
	Normals  []math.Vec3
	Tangents []math.Vec3
	UVs      []math.Vec2
	Colors   []math.Vec4

	// Materials holds the material slot of every triangle, or nil when the whole
	// geometry uses a single material.
	Materials []int

	Skin *Skin
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Vertices)
}

// TriangleMaterial returns the material slot of the triangle containing vertex i.
// The second result is false when the geometry has no per-triangle materials.
func (g *Geometry) TriangleMaterial(i int) (int, bool) {
	if g.Materials == nil {
		return 0, false
	}
	tri := i / 3
	if tri >= len(g.Materials) {
		return -1, true
	}
	return g.Materials[tri], true
}

// Mesh is a geometry instance placed in the hierarchy.
type Mesh struct {
	Name string
	Node *Node

	// GeometricTransform is the pivot/offset baked into the source file that is not
	// part of the node hierarchy.
	GeometricTransform math.Mat4

	Geometry  *Geometry
	Materials []*Material
}

// GlobalTransform returns the transform of the node carrying the mesh.
func (m *Mesh) GlobalTransform() math.Mat4 {
	return m.Node.GlobalTransform()
}

// VertexCount returns the number of geometry vertices.
func (m *Mesh) VertexCount() int {
	return m.Geometry.VertexCount()
}

// MaterialSlot returns the slot index of mat in the mesh material list, or -1.
func (m *Mesh) MaterialSlot(mat *Material) int {
	for i, candidate := range m.Materials {
		if candidate == mat {
			return i
		}
	}
	return -1
}

// Scene is a parsed interchange file.
type Scene struct {
	Name      string
	Nodes     []*Node
	Meshes    []*Mesh
	Materials []*Material

	destroyed bool
}

// MeshCount returns the number of meshes.
func (s *Scene) MeshCount() int {
	return len(s.Meshes)
}

// Mesh returns mesh i.
func (s *Scene) Mesh(i int) *Mesh {
	return s.Meshes[i]
}

// Destroy releases the scene graph. Borrowed references must not be used afterwards.
// Calling Destroy more than once is a no-op.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.Nodes = nil
	s.Meshes = nil
	s.Materials = nil
	s.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (s *Scene) Destroyed() bool {
	return s.destroyed
}
