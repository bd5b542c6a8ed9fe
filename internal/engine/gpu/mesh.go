package gpu

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshprep/internal/importer"
)

// ErrEmptyMesh is returned when uploading a mesh without vertices or indices.
var ErrEmptyMesh = errors.New("gpu: mesh has no vertices")

// Attribute describes one float attribute inside the interleaved vertex record.
type Attribute struct {
	Location   uint32
	Components int32
	Offset     uintptr
}

// Attribute locations used by the mesh shaders.
const (
	LocPosition uint32 = iota
	LocNormal
	LocTangent
	LocColor
	LocTexCoord
)

// VertexLayout returns the attribute table and stride of importer.Vertex.
func VertexLayout() ([]Attribute, int32) {
	var v importer.Vertex
	return []Attribute{
		{LocPosition, 3, unsafe.Offsetof(v.Position)},
		{LocNormal, 3, unsafe.Offsetof(v.Normal)},
		{LocTangent, 3, unsafe.Offsetof(v.Tangent)},
		{LocColor, 4, unsafe.Offsetof(v.Color)},
		{LocTexCoord, 2, unsafe.Offsetof(v.TexCoord)},
	}, int32(unsafe.Sizeof(v))
}

// MeshBuffers holds the GL objects of one uploaded mesh.
type MeshBuffers struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// UploadMesh copies the vertices and indices of m into static GL buffers.
func UploadMesh(m *importer.ImportMesh) (*MeshBuffers, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, ErrEmptyMesh
	}

	layout, stride := VertexLayout()
	mb := &MeshBuffers{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	for _, a := range layout {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, stride, a.Offset)
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.GenBuffers(1, &mb.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return mb, nil
}

// Draw renders the mesh as triangles.
func (mb *MeshBuffers) Draw() {
	gl.BindVertexArray(mb.vao)
	gl.DrawElements(gl.TRIANGLES, mb.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the GL objects.
func (mb *MeshBuffers) Delete() {
	if mb.vao != 0 {
		gl.DeleteVertexArrays(1, &mb.vao)
	}
	if mb.vbo != 0 {
		gl.DeleteBuffers(1, &mb.vbo)
	}
	if mb.ebo != 0 {
		gl.DeleteBuffers(1, &mb.ebo)
	}
	*mb = MeshBuffers{}
}
