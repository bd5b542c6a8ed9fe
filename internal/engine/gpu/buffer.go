// Package gpu wraps the OpenGL objects used to preview imported meshes: staging
// buffers, textures, vertex arrays and shader programs.
//
// Constructors that do not take GL handles (NewBuffer, VertexLayout) are safe to call
// without a context; everything else requires a current GL 4.1 context.
package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrBufferFull is returned by Add once a buffer holds Cap elements.
var ErrBufferFull = errors.New("gpu: buffer is full")

// Buffer is a fixed-capacity CPU staging area for elements of T backed by a GL buffer
// object. The GL object is created on the first Bind.
type Buffer[T any] struct {
	target uint32
	usage  uint32
	data   []T
	id     uint32
}

// NewBuffer creates a vertex attribute buffer for capacity elements.
func NewBuffer[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{
		target: gl.ARRAY_BUFFER,
		usage:  gl.STATIC_DRAW,
		data:   make([]T, 0, capacity),
	}
}

// NewIndexBuffer creates an element buffer for capacity uint32 indices.
func NewIndexBuffer(capacity int) *Buffer[uint32] {
	b := NewBuffer[uint32](capacity)
	b.target = gl.ELEMENT_ARRAY_BUFFER
	return b
}

// Add appends v and returns the new element count.
func (b *Buffer[T]) Add(v T) (int, error) {
	if b.Full() {
		return len(b.data), ErrBufferFull
	}
	b.data = append(b.data, v)
	return len(b.data), nil
}

// Full reports whether the buffer holds Cap elements.
func (b *Buffer[T]) Full() bool {
	return len(b.data) == cap(b.data)
}

// Reset rewinds the write position; capacity and GL storage are kept.
func (b *Buffer[T]) Reset() {
	b.data = b.data[:0]
}

// Len returns the number of staged elements.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Cap returns the capacity in elements.
func (b *Buffer[T]) Cap() int {
	return cap(b.data)
}

// Data returns the staged elements.
func (b *Buffer[T]) Data() []T {
	return b.data
}

// SizeBytes returns the byte size of the staged elements.
func (b *Buffer[T]) SizeBytes() int {
	var zero T
	return len(b.data) * int(unsafe.Sizeof(zero))
}

// ID returns the GL buffer name, or 0 before the first Bind.
func (b *Buffer[T]) ID() uint32 {
	return b.id
}

// Bind binds the buffer and uploads the staged elements.
func (b *Buffer[T]) Bind() {
	if b.id == 0 {
		gl.GenBuffers(1, &b.id)
	}
	gl.BindBuffer(b.target, b.id)
	if len(b.data) == 0 {
		gl.BufferData(b.target, 0, nil, b.usage)
		return
	}
	gl.BufferData(b.target, b.SizeBytes(), unsafe.Pointer(&b.data[0]), b.usage)
}

// Update replaces the staged elements with data and uploads them.
func (b *Buffer[T]) Update(data []T) error {
	if err := b.stage(data); err != nil {
		return err
	}
	b.Bind()
	return nil
}

func (b *Buffer[T]) stage(data []T) error {
	if len(data) > cap(b.data) {
		return fmt.Errorf("gpu: %d elements exceed buffer capacity %d", len(data), cap(b.data))
	}
	b.data = append(b.data[:0], data...)
	return nil
}

// Delete releases the GL buffer object.
func (b *Buffer[T]) Delete() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}
