package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshprep/internal/importer"
	"github.com/Faultbox/meshprep/pkg/math"
	"github.com/Faultbox/meshprep/pkg/scene"
)

func testMesh() *importer.ImportMesh {
	mat := &scene.Material{Name: "stone"}
	m := &importer.ImportMesh{
		Mesh:     &scene.Mesh{Name: "rock"},
		Material: mat,
		Vertices: []importer.Vertex{
			{Position: [3]float32{-1, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{0, 2, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
		},
		Indices:       []uint32{0, 1, 2},
		Streams:       importer.Streams{Normals: true, UVs: true},
		RadiusSquared: 4,
		AABB:          importer.AABB{Min: math.Vec3{X: -1}, Max: math.Vec3{X: 1, Y: 2}},
	}
	return m
}

func TestBuildGLB(t *testing.T) {
	a := testMesh()
	b := testMesh()
	b.Material = a.Material
	empty := &importer.ImportMesh{Mesh: &scene.Mesh{Name: "empty"}}

	doc, err := BuildGLB([]*importer.ImportMesh{a, empty, b})
	if err != nil {
		t.Fatalf("BuildGLB() error = %v", err)
	}
	if len(doc.Meshes) != 2 || len(doc.Nodes) != 2 {
		t.Errorf("got %d meshes and %d nodes, want 2 and 2", len(doc.Meshes), len(doc.Nodes))
	}
	if len(doc.Materials) != 1 || doc.Materials[0].Name != "stone" {
		t.Errorf("materials = %d, want one shared material", len(doc.Materials))
	}

	attrs := doc.Meshes[0].Primitives[0].Attributes
	for _, name := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0} {
		if _, ok := attrs[name]; !ok {
			t.Errorf("missing attribute %s", name)
		}
	}
	for _, name := range []string{gltf.TANGENT, gltf.COLOR_0} {
		if _, ok := attrs[name]; ok {
			t.Errorf("attribute %s written for an absent stream", name)
		}
	}
}

func TestWriteGLBNothingToExport(t *testing.T) {
	var buf bytes.Buffer
	empty := &importer.ImportMesh{Mesh: &scene.Mesh{Name: "empty"}}
	if err := WriteGLB(&buf, []*importer.ImportMesh{empty}); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("WriteGLB() error = %v, want ErrNothingToExport", err)
	}
}

func TestWriteGLBLoadsBack(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGLB(&buf, []*importer.ImportMesh{testMesh()}); err != nil {
		t.Fatalf("WriteGLB() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Fatal("output is not a binary glTF container")
	}

	s, err := scene.LoadGLTF(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("LoadGLTF() error = %v", err)
	}
	if s.MeshCount() != 1 {
		t.Fatalf("MeshCount() = %d, want 1", s.MeshCount())
	}
	g := s.Mesh(0).Geometry
	if len(g.Vertices) != 3 || g.Normals == nil || g.UVs == nil {
		t.Errorf("geometry = %d vertices, normals %v, uvs %v", len(g.Vertices), g.Normals != nil, g.UVs != nil)
	}
	if want := (math.Vec3{Y: 2}); g.Vertices[2] != want {
		t.Errorf("third vertex = %v, want %v", g.Vertices[2], want)
	}
}

func TestRawRoundTrip(t *testing.T) {
	mesh := testMesh()

	var buf bytes.Buffer
	if err := WriteRaw(&buf, mesh); err != nil {
		t.Fatalf("WriteRaw() error = %v", err)
	}

	got, err := ReadRaw(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadRaw() error = %v", err)
	}
	h := got.Header
	if h.VertexCount != 3 || h.IndexCount != 3 {
		t.Errorf("counts = %d/%d, want 3/3", h.VertexCount, h.IndexCount)
	}
	if h.VertexStride != 60 {
		t.Errorf("VertexStride = %d, want 60", h.VertexStride)
	}
	if h.AABBMax != [3]float32{1, 2, 0} || h.RadiusSquared != 4 {
		t.Errorf("bounds = %v r²=%v", h.AABBMax, h.RadiusSquared)
	}
	if len(got.Attributes) != len(RawAttributes) {
		t.Errorf("len(Attributes) = %d, want %d", len(got.Attributes), len(RawAttributes))
	}
	for i := range mesh.Vertices {
		if got.Vertices[i] != mesh.Vertices[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, got.Vertices[i], mesh.Vertices[i])
		}
	}
	if len(got.Indices) != 3 || got.Indices[2] != 2 {
		t.Errorf("Indices = %v", got.Indices)
	}

	wantSize := binaryHeaderSize + len(RawAttributes)*12 + 3*60 + 3*4
	if buf.Len() != wantSize {
		t.Errorf("file size = %d, want %d", buf.Len(), wantSize)
	}
}

const binaryHeaderSize = 4 + 5*4 + 6*4 + 4

func TestReadRawHeaderErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRaw(&buf, testMesh()); err != nil {
		t.Fatalf("WriteRaw() error = %v", err)
	}
	data := buf.Bytes()

	tests := []struct {
		name    string
		mutate  func([]byte) []byte
		wantErr error
	}{
		{
			name:    "bad magic",
			mutate:  func(b []byte) []byte { b[0] = 'X'; return b },
			wantErr: ErrInvalidRawMagic,
		},
		{
			name:    "future version",
			mutate:  func(b []byte) []byte { b[4] = 9; return b },
			wantErr: ErrUnsupportedRawVersion,
		},
		{
			name: "attribute count beyond layout",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[20:], 0xFFFFFFFF)
				return b
			},
			wantErr: ErrRawAttributeCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), data...))
			if _, _, err := ReadRawHeader(bytes.NewReader(b)); !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadRawHeader() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, _, err := ReadRawHeader(bytes.NewReader(data[:10])); err == nil {
		t.Error("truncated header should fail")
	}
}

func TestReadRawOversizedCounts(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRaw(&buf, testMesh()); err != nil {
		t.Fatalf("WriteRaw() error = %v", err)
	}

	tests := []struct {
		name   string
		offset int
	}{
		{"vertex count", 8},
		{"index count", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := append([]byte(nil), buf.Bytes()...)
			binary.LittleEndian.PutUint32(b[tt.offset:], 0xFFFFFFFF)

			_, err := ReadRaw(bytes.NewReader(b))
			if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
				t.Errorf("ReadRaw() error = %v, want EOF", err)
			}
		})
	}
}

func TestRawRoundTripManyVertices(t *testing.T) {
	mesh := &importer.ImportMesh{
		Vertices: make([]importer.Vertex, 3*rawChunk+7),
		Indices:  make([]uint32, rawChunk+1),
	}
	for i := range mesh.Vertices {
		mesh.Vertices[i].Position[0] = float32(i)
	}
	for i := range mesh.Indices {
		mesh.Indices[i] = uint32(i)
	}

	var buf bytes.Buffer
	if err := WriteRaw(&buf, mesh); err != nil {
		t.Fatalf("WriteRaw() error = %v", err)
	}
	got, err := ReadRaw(&buf)
	if err != nil {
		t.Fatalf("ReadRaw() error = %v", err)
	}

	if len(got.Vertices) != len(mesh.Vertices) || len(got.Indices) != len(mesh.Indices) {
		t.Fatalf("read %d vertices / %d indices, want %d / %d",
			len(got.Vertices), len(got.Indices), len(mesh.Vertices), len(mesh.Indices))
	}
	last := len(got.Vertices) - 1
	if got.Vertices[last].Position[0] != float32(last) {
		t.Errorf("last vertex x = %v, want %d", got.Vertices[last].Position[0], last)
	}
	if got.Indices[rawChunk] != rawChunk {
		t.Errorf("index %d = %d", rawChunk, got.Indices[rawChunk])
	}
}
