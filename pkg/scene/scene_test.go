package scene

import (
	"testing"

	"github.com/Faultbox/meshprep/pkg/math"
)

func TestNodeGlobalTransform(t *testing.T) {
	root := &Node{Name: "root", Local: math.Translate(1, 0, 0)}
	child := &Node{Name: "child", Parent: root, Local: math.Translate(0, 2, 0)}
	grandchild := &Node{Name: "grandchild", Parent: child, Local: math.Scale(2, 2, 2)}

	got := grandchild.GlobalTransform().TransformVec3(math.Vec3{X: 1, Y: 1, Z: 1})
	want := math.Vec3{X: 3, Y: 4, Z: 2}
	if got != want {
		t.Errorf("GlobalTransform() maps (1,1,1) to %v, want %v", got, want)
	}

	var nilNode *Node
	if nilNode.GlobalTransform() != math.Identity() {
		t.Error("nil node should have identity transform")
	}
}

func TestGeometryTriangleMaterial(t *testing.T) {
	g := &Geometry{
		Vertices:  make([]math.Vec3, 9),
		Materials: []int{0, 1, 0},
	}

	tests := []struct {
		vertex   int
		wantSlot int
	}{
		{0, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 0}, {8, 0}, {9, -1},
	}
	for _, tt := range tests {
		slot, ok := g.TriangleMaterial(tt.vertex)
		if !ok || slot != tt.wantSlot {
			t.Errorf("TriangleMaterial(%d) = %d, %v; want %d, true", tt.vertex, slot, ok, tt.wantSlot)
		}
	}

	unfiltered := &Geometry{Vertices: make([]math.Vec3, 3)}
	if _, ok := unfiltered.TriangleMaterial(0); ok {
		t.Error("geometry without material array should report no per-triangle material")
	}
}

func TestMeshMaterialSlot(t *testing.T) {
	a, b, c := &Material{Name: "a"}, &Material{Name: "b"}, &Material{Name: "c"}
	m := &Mesh{Materials: []*Material{a, b}}

	if got := m.MaterialSlot(b); got != 1 {
		t.Errorf("MaterialSlot(b) = %d, want 1", got)
	}
	if got := m.MaterialSlot(c); got != -1 {
		t.Errorf("MaterialSlot(c) = %d, want -1", got)
	}
}

func TestSceneDestroy(t *testing.T) {
	s := &Scene{
		Nodes:  []*Node{{Name: "n"}},
		Meshes: []*Mesh{{Name: "m", Geometry: &Geometry{}}},
	}
	if s.MeshCount() != 1 {
		t.Fatalf("MeshCount() = %d, want 1", s.MeshCount())
	}

	s.Destroy()
	if !s.Destroyed() {
		t.Error("Destroyed() = false after Destroy")
	}
	if s.MeshCount() != 0 || s.Nodes != nil {
		t.Error("Destroy should release the graph")
	}

	// second call is a no-op
	s.Destroy()
}
