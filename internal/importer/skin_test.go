package importer

import (
	"errors"
	"testing"

	"github.com/Faultbox/meshprep/pkg/math"
	"github.com/Faultbox/meshprep/pkg/scene"
)

// skeleton returns root -> spine -> arm.
func skeleton() (root, spine, arm *scene.Node) {
	root = &scene.Node{Name: "root", Local: math.Identity(), Bone: true}
	spine = &scene.Node{Name: "spine", Parent: root, Local: math.Translate(0, 1, 0), Bone: true}
	arm = &scene.Node{Name: "arm", Parent: spine, Local: math.Translate(1, 0, 0), Bone: true}
	return root, spine, arm
}

func skinnedMesh(clusters ...scene.Cluster) *scene.Mesh {
	mesh := triangleMesh("body", math.Identity(), []math.Vec3{{}, {}, {}}, &scene.Material{Name: "skin"})
	mesh.Geometry.Skin = &scene.Skin{Clusters: clusters}
	return mesh
}

func TestBoneDepth(t *testing.T) {
	root, spine, arm := skeleton()
	tests := []struct {
		node *scene.Node
		want int
	}{
		{root, 1},
		{spine, 2},
		{arm, 3},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := BoneDepth(tt.node); got != tt.want {
			t.Errorf("BoneDepth(%v) = %d, want %d", tt.node, got, tt.want)
		}
	}
}

func TestBindPoseMatrix(t *testing.T) {
	root, _, arm := skeleton()
	ibm := math.Translate(-1, -1, 0)
	mesh := skinnedMesh(scene.Cluster{Link: arm, TransformLink: ibm})

	got, err := BindPoseMatrix(mesh, arm)
	if err != nil {
		t.Fatalf("BindPoseMatrix() error = %v", err)
	}
	if got != ibm {
		t.Errorf("BindPoseMatrix() = %v, want %v", got, ibm)
	}

	if _, err := BindPoseMatrix(mesh, root); !errors.Is(err, ErrBoneNotInSkin) {
		t.Errorf("BindPoseMatrix(unlinked) error = %v, want ErrBoneNotInSkin", err)
	}
	if _, err := BindPoseMatrix(mesh, nil); !errors.Is(err, ErrBoneNotInSkin) {
		t.Errorf("BindPoseMatrix(nil) error = %v, want ErrBoneNotInSkin", err)
	}

	plain := triangleMesh("prop", math.Identity(), []math.Vec3{{}, {}, {}})
	got, err = BindPoseMatrix(plain, root)
	if err != nil || got != math.Identity() {
		t.Errorf("BindPoseMatrix(no skin) = %v, %v; want identity", got, err)
	}
}

func TestIsSkinned(t *testing.T) {
	_, _, arm := skeleton()
	mesh := skinnedMesh(scene.Cluster{Link: arm, TransformLink: math.Identity()})
	plain := triangleMesh("prop", math.Identity(), []math.Vec3{{}, {}, {}})

	imp := New(DefaultOptions(), nil)
	if !imp.IsSkinned(mesh) {
		t.Error("IsSkinned(skinned) = false")
	}
	if imp.IsSkinned(plain) {
		t.Error("IsSkinned(plain) = true")
	}

	opts := DefaultOptions()
	opts.IgnoreSkeleton = true
	if New(opts, nil).IsSkinned(mesh) {
		t.Error("IsSkinned should be false when skeletons are ignored")
	}
}

func TestGatherBones(t *testing.T) {
	root, spine, arm := skeleton()
	mesh := skinnedMesh(
		scene.Cluster{Link: arm, TransformLink: math.Identity()},
		scene.Cluster{Link: spine, TransformLink: math.Identity()},
	)

	imp := New(DefaultOptions(), nil)
	imp.Load(testScene(mesh))

	want := []*scene.Node{root, spine, arm}
	if len(imp.Bones) != len(want) {
		t.Fatalf("len(Bones) = %d, want %d", len(imp.Bones), len(want))
	}
	for i, b := range imp.Bones {
		if b.Node != want[i] || b.Depth != i+1 {
			t.Errorf("Bones[%d] = (%s, %d), want (%s, %d)", i, b.Node.Name, b.Depth, want[i].Name, i+1)
		}
	}

	opts := DefaultOptions()
	opts.IgnoreSkeleton = true
	ignored := New(opts, nil)
	ignored.Load(testScene(skinnedMesh(scene.Cluster{Link: arm, TransformLink: math.Identity()})))
	if len(ignored.Bones) != 0 {
		t.Errorf("len(Bones) = %d with IgnoreSkeleton, want 0", len(ignored.Bones))
	}
}

func TestRootTransform(t *testing.T) {
	opts := DefaultOptions()
	opts.MeshScale = 2
	opts.Orientation = YUp
	opts.RootOrientation = ZUp
	imp := New(opts, nil)

	pos, rot := imp.RootTransform(math.Vec3{X: 1, Y: 2, Z: 3}, math.Quat{X: 0, Y: 1, Z: 0, W: 0})
	if want := (math.Vec3{X: 2, Y: 6, Z: -4}); pos != want {
		t.Errorf("position = %v, want %v", pos, want)
	}
	if want := (math.Quat{X: 0, Y: 0, Z: -1, W: 0}); rot != want {
		t.Errorf("rotation = %v, want %v", rot, want)
	}
}
