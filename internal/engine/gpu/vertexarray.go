package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// arrayBuffer is any staged buffer a vertex array can source attributes from.
type arrayBuffer interface {
	Bind()
	Len() int
}

// VertexArray binds tightly packed float attribute buffers and an optional index
// buffer into one drawable object.
type VertexArray struct {
	id      uint32
	count   int32
	indices *Buffer[uint32]
}

// NewVertexArray creates an empty vertex array object.
func NewVertexArray() *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.id)
	return va
}

// AddBuffer uploads buf and sources attribute location attrib from it, components
// floats per element.
func (va *VertexArray) AddBuffer(attrib uint32, components int32, buf arrayBuffer) {
	gl.BindVertexArray(va.id)
	buf.Bind()
	gl.VertexAttribPointerWithOffset(attrib, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(attrib)
	gl.BindVertexArray(0)

	if va.indices == nil {
		va.count = int32(buf.Len())
	}
}

// SetIndices draws through buf instead of sequential vertices.
func (va *VertexArray) SetIndices(buf *Buffer[uint32]) {
	gl.BindVertexArray(va.id)
	buf.Bind()
	gl.BindVertexArray(0)
	va.indices = buf
	va.count = int32(buf.Len())
}

// Draw issues one draw call with the given primitive mode, e.g. gl.TRIANGLE_FAN.
func (va *VertexArray) Draw(mode uint32) {
	gl.BindVertexArray(va.id)
	if va.indices != nil {
		gl.DrawElements(mode, va.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, va.count)
	}
	gl.BindVertexArray(0)
}

// Delete releases the vertex array. Attached buffers are owned by the caller.
func (va *VertexArray) Delete() {
	if va.id != 0 {
		gl.DeleteVertexArrays(1, &va.id)
		va.id = 0
	}
}
