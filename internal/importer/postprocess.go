package importer

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshprep/pkg/math"
)

// PostprocessMeshes rebuilds vertices, indices and bounds of every gathered mesh from
// the source geometry. Previous results are discarded, so calling it again with
// unchanged options gives identical output.
func (imp *Importer) PostprocessMeshes() {
	start := time.Now()
	for _, m := range imp.Meshes {
		imp.postprocessMesh(m)
	}
	imp.logPostprocess(start)
}

// PostprocessMeshesContext is PostprocessMeshes sharded over Options.Workers goroutines.
// Each mesh only reads the immutable scene and writes its own fields.
func (imp *Importer) PostprocessMeshesContext(ctx context.Context) error {
	start := time.Now()
	if imp.opts.Workers <= 1 {
		for _, m := range imp.Meshes {
			if err := ctx.Err(); err != nil {
				return err
			}
			imp.postprocessMesh(m)
		}
		imp.logPostprocess(start)
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.opts.Workers)
	for _, m := range imp.Meshes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			imp.postprocessMesh(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	imp.logPostprocess(start)
	return nil
}

func (imp *Importer) logPostprocess(start time.Time) {
	vertices := 0
	for _, m := range imp.Meshes {
		vertices += len(m.Vertices)
	}
	imp.log.Info("meshes postprocessed",
		zap.Int("meshes", len(imp.Meshes)),
		zap.Int("vertices", vertices),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// meshTransform returns node global * geometric transform, without translation when
// CenterMesh is set.
func (imp *Importer) meshTransform(m *ImportMesh) math.Mat4 {
	transform := m.Mesh.GlobalTransform().Mul(m.Mesh.GeometricTransform)
	if imp.opts.CenterMesh {
		transform = transform.WithoutTranslation()
	}
	return transform
}

func (imp *Importer) postprocessMesh(m *ImportMesh) {
	geom := m.Mesh.Geometry
	opts := imp.opts
	transform := imp.meshTransform(m)

	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
	m.SourceIndices = m.SourceIndices[:0]

	aabb := EmptyAABB()
	var radiusSquared float32

	readColors := opts.ImportVertexColors && geom.Colors != nil
	m.Streams = Streams{
		Normals:  geom.Normals != nil,
		Tangents: geom.Tangents != nil,
		UVs:      geom.UVs != nil,
		Colors:   readColors,
	}

	for i, raw := range geom.Vertices {
		if slot, ok := geom.TriangleMaterial(i); ok && slot != m.SubmeshIndex {
			continue
		}

		pos := FixVec(opts.Orientation, transform.TransformVec3(raw.Scale(opts.MeshScale)))
		aabb.Extend(pos)
		// The bounding sphere needs the farthest vertex: accumulate the maximum.
		radiusSquared = max(radiusSquared, pos.LengthSquared())

		v := Vertex{Position: pos.Array()}
		if geom.Normals != nil {
			v.Normal = imp.fixDirection(transform, geom.Normals[i]).Array()
		}
		if geom.Tangents != nil {
			v.Tangent = imp.fixDirection(transform, geom.Tangents[i]).Array()
		}
		if geom.UVs != nil {
			v.TexCoord = geom.UVs[i].Array()
		}
		if readColors {
			v.Color = geom.Colors[i].Array()
		}

		m.Indices = append(m.Indices, uint32(len(m.Vertices)))
		m.Vertices = append(m.Vertices, v)
		m.SourceIndices = append(m.SourceIndices, i)
	}

	m.AABB = aabb
	m.RadiusSquared = radiusSquared
}

func (imp *Importer) fixDirection(transform math.Mat4, d math.Vec3) math.Vec3 {
	return FixVec(imp.opts.Orientation, transform.TransformDirection(d).Normalize())
}
