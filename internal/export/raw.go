package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/meshprep/internal/importer"
)

// Raw mesh format errors.
var (
	ErrInvalidRawMagic       = errors.New("invalid raw mesh magic: expected 'MPRB'")
	ErrUnsupportedRawVersion = errors.New("unsupported raw mesh version")
	ErrRawStrideMismatch     = errors.New("raw mesh vertex stride does not match this build")
	ErrRawAttributeCount     = errors.New("raw mesh attribute count exceeds the vertex layout")
)

// RawMagic opens every raw mesh file.
var RawMagic = [4]byte{'M', 'P', 'R', 'B'}

// RawVersion is the layout version written by WriteRaw.
const RawVersion = 1

// RawHeader is the fixed-size block at the start of a raw mesh file.
// It is followed by AttributeCount RawAttribute records, VertexCount packed vertices
// of VertexStride bytes each, then IndexCount uint32 indices.
type RawHeader struct {
	Magic          [4]byte
	Version        uint32
	VertexCount    uint32
	IndexCount     uint32
	VertexStride   uint32
	AttributeCount uint32
	AABBMin        [3]float32
	AABBMax        [3]float32
	RadiusSquared  float32
}

// RawAttribute describes one float32 component group of the vertex record.
type RawAttribute struct {
	Index      uint32 // shader attribute location
	Components uint32
	Offset     uint32 // byte offset inside the vertex record
}

// Attribute locations of the raw vertex record, matching the GPU vertex layout.
const (
	AttribPosition = iota
	AttribNormal
	AttribTangent
	AttribColor
	AttribTexCoord
)

// RawAttributes lists the vertex record layout in order.
var RawAttributes = []RawAttribute{
	{Index: AttribPosition, Components: 3, Offset: 0},
	{Index: AttribNormal, Components: 3, Offset: 12},
	{Index: AttribTangent, Components: 3, Offset: 24},
	{Index: AttribColor, Components: 4, Offset: 36},
	{Index: AttribTexCoord, Components: 2, Offset: 52},
}

// VertexStride is the packed size of importer.Vertex.
var VertexStride = binary.Size(importer.Vertex{})

// RawMesh is a decoded raw mesh file.
type RawMesh struct {
	Header     RawHeader
	Attributes []RawAttribute
	Vertices   []importer.Vertex
	Indices    []uint32
}

// WriteRaw writes mesh in the raw layout.
func WriteRaw(w io.Writer, mesh *importer.ImportMesh) error {
	header := RawHeader{
		Magic:          RawMagic,
		Version:        RawVersion,
		VertexCount:    uint32(len(mesh.Vertices)),
		IndexCount:     uint32(len(mesh.Indices)),
		VertexStride:   uint32(VertexStride),
		AttributeCount: uint32(len(RawAttributes)),
		AABBMin:        mesh.AABB.Min.Array(),
		AABBMax:        mesh.AABB.Max.Array(),
		RadiusSquared:  mesh.RadiusSquared,
	}

	for _, part := range []any{header, RawAttributes, mesh.Vertices, mesh.Indices} {
		if err := binary.Write(w, binary.LittleEndian, part); err != nil {
			return fmt.Errorf("writing raw mesh: %w", err)
		}
	}
	return nil
}

// ReadRawHeader reads the header and attribute table, leaving r at the vertex data.
func ReadRawHeader(r io.Reader) (RawHeader, []RawAttribute, error) {
	var header RawHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return header, nil, fmt.Errorf("reading raw header: %w", err)
	}
	if header.Magic != RawMagic {
		return header, nil, ErrInvalidRawMagic
	}
	if header.Version != RawVersion {
		return header, nil, fmt.Errorf("%w: %d", ErrUnsupportedRawVersion, header.Version)
	}

	if header.AttributeCount > uint32(len(RawAttributes)) {
		return header, nil, fmt.Errorf("%w: %d", ErrRawAttributeCount, header.AttributeCount)
	}

	attrs := make([]RawAttribute, header.AttributeCount)
	if err := binary.Read(r, binary.LittleEndian, attrs); err != nil {
		return header, nil, fmt.Errorf("reading raw attributes: %w", err)
	}
	return header, attrs, nil
}

// ReadRaw decodes a complete raw mesh file.
func ReadRaw(r io.Reader) (*RawMesh, error) {
	header, attrs, err := ReadRawHeader(r)
	if err != nil {
		return nil, err
	}
	if int(header.VertexStride) != VertexStride {
		return nil, fmt.Errorf("%w: %d != %d", ErrRawStrideMismatch, header.VertexStride, VertexStride)
	}

	mesh := &RawMesh{Header: header, Attributes: attrs}
	if mesh.Vertices, err = readChunked[importer.Vertex](r, header.VertexCount); err != nil {
		return nil, fmt.Errorf("reading raw vertices: %w", err)
	}
	if mesh.Indices, err = readChunked[uint32](r, header.IndexCount); err != nil {
		return nil, fmt.Errorf("reading raw indices: %w", err)
	}
	return mesh, nil
}

// rawChunk bounds how many records are allocated ahead of the data actually read, so a
// corrupt count fails on EOF instead of on allocation.
const rawChunk = 4096

func readChunked[T any](r io.Reader, n uint32) ([]T, error) {
	out := make([]T, 0, min(int(n), rawChunk))
	chunk := make([]T, min(int(n), rawChunk))
	for remaining := int(n); remaining > 0; {
		part := chunk[:min(remaining, rawChunk)]
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return nil, err
		}
		out = append(out, part...)
		remaining -= len(part)
	}
	return out, nil
}
