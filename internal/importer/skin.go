package importer

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshprep/pkg/math"
	"github.com/Faultbox/meshprep/pkg/scene"
)

// ErrBoneNotInSkin reports a skinned mesh whose clusters do not reference the
// requested bone. The source scene is structurally inconsistent.
var ErrBoneNotInSkin = errors.New("bone is not linked by any skin cluster")

// BoneDepth returns the number of nodes from n up to and including the hierarchy root.
// A root node has depth 1.
func BoneDepth(n *scene.Node) int {
	depth := 0
	for ; n != nil; n = n.Parent {
		depth++
	}
	return depth
}

// BindPoseMatrix returns the inverse bind transform recorded for bone on the skin of
// mesh, or identity when the mesh has no clusters.
func BindPoseMatrix(mesh *scene.Mesh, bone *scene.Node) (math.Mat4, error) {
	if mesh.Geometry == nil || mesh.Geometry.Skin == nil || len(mesh.Geometry.Skin.Clusters) == 0 {
		return math.Identity(), nil
	}
	for _, c := range mesh.Geometry.Skin.Clusters {
		if c.Link == bone {
			return c.TransformLink, nil
		}
	}
	if bone == nil {
		return math.Mat4{}, fmt.Errorf("mesh %q, nil bone: %w", mesh.Name, ErrBoneNotInSkin)
	}
	return math.Mat4{}, fmt.Errorf("mesh %q, bone %q: %w", mesh.Name, bone.Name, ErrBoneNotInSkin)
}

// IsSkinned reports whether mesh is deformed by a skin. It is always false when the
// importer ignores skeletons.
func (imp *Importer) IsSkinned(mesh *scene.Mesh) bool {
	if imp.opts.IgnoreSkeleton {
		return false
	}
	g := mesh.Geometry
	return g != nil && g.Skin != nil && len(g.Skin.Clusters) > 0
}

// RootTransform maps a root bone translation and rotation into RootOrientation.
// Root motion may target a different convention than the mesh geometry.
func (imp *Importer) RootTransform(pos math.Vec3, rot math.Quat) (math.Vec3, math.Quat) {
	o := imp.opts.RootOrientation
	return FixVec(o, pos.Scale(imp.opts.MeshScale)), FixQuat(o, rot)
}
