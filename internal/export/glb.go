// Package export writes postprocessed meshes to files: binary glTF for interchange and
// a flat little-endian layout that maps directly onto GPU buffers.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshprep/internal/importer"
	"github.com/Faultbox/meshprep/pkg/scene"
)

// ErrNothingToExport is returned when every mesh is empty.
var ErrNothingToExport = errors.New("no mesh has vertices to export")

// Generator is written into the glTF asset block.
const Generator = "meshprep"

// BuildGLB assembles a glTF document with one mesh and one node per non-empty mesh.
func BuildGLB(meshes []*importer.ImportMesh) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator

	materials := make(map[*scene.Material]int)
	for _, m := range meshes {
		if len(m.Vertices) == 0 {
			continue
		}

		prim := &gltf.Primitive{
			Attributes: writeStreams(doc, m),
			Indices:    gltf.Index(modeler.WriteIndices(doc, m.Indices)),
		}
		if m.Material != nil {
			idx, ok := materials[m.Material]
			if !ok {
				idx = len(doc.Materials)
				doc.Materials = append(doc.Materials, &gltf.Material{Name: m.Material.Name})
				materials[m.Material] = idx
			}
			prim.Material = gltf.Index(idx)
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: m.Name(), Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name(), Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if len(doc.Meshes) == 0 {
		return nil, ErrNothingToExport
	}
	return doc, nil
}

// WriteGLB encodes meshes as a single binary glTF container.
func WriteGLB(w io.Writer, meshes []*importer.ImportMesh) error {
	doc, err := BuildGLB(meshes)
	if err != nil {
		return err
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding glb: %w", err)
	}
	return nil
}

func writeStreams(doc *gltf.Document, m *importer.ImportMesh) map[string]int {
	n := len(m.Vertices)
	positions := make([][3]float32, n)
	for i, v := range m.Vertices {
		positions[i] = v.Position
	}
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}

	if m.Streams.Normals {
		normals := make([][3]float32, n)
		for i, v := range m.Vertices {
			normals[i] = v.Normal
		}
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	if m.Streams.Tangents {
		tangents := make([][4]float32, n)
		for i, v := range m.Vertices {
			tangents[i] = [4]float32{v.Tangent[0], v.Tangent[1], v.Tangent[2], 1}
		}
		attrs[gltf.TANGENT] = modeler.WriteTangent(doc, tangents)
	}
	if m.Streams.UVs {
		uvs := make([][2]float32, n)
		for i, v := range m.Vertices {
			uvs[i] = v.TexCoord
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}
	if m.Streams.Colors {
		colors := make([][4]float32, n)
		for i, v := range m.Vertices {
			colors[i] = v.Color
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}
	return attrs
}
