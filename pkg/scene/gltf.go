package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshprep/pkg/math"
)

// glTF scene source errors.
var (
	ErrUnsupportedPrimitive = errors.New("unsupported primitive mode: only triangle lists are imported")
	ErrNoPositions          = errors.New("primitive has no POSITION attribute")
	ErrInvalidAccessor      = errors.New("invalid accessor")
	ErrInvalidHierarchy     = errors.New("invalid node hierarchy")
)

// LoadGLTF builds a Scene from a .gltf or .glb byte buffer. External buffers and
// images are resolved through fsys; pass nil for self-contained files.
func LoadGLTF(data []byte, fsys fs.FS) (*Scene, error) {
	var dec *gltf.Decoder
	if fsys != nil {
		dec = gltf.NewDecoderFS(bytes.NewReader(data), fsys)
	} else {
		dec = gltf.NewDecoder(bytes.NewReader(data))
	}

	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding glTF: %w", err)
	}
	return FromGLTF(doc)
}

// FromGLTF converts an already decoded glTF document.
func FromGLTF(doc *gltf.Document) (*Scene, error) {
	b := &gltfBuilder{
		doc:       doc,
		scene:     &Scene{},
		materials: make(map[int]*Material),
		textures:  make(map[int]*Texture),
	}
	if len(doc.Scenes) > 0 {
		b.scene.Name = doc.Scenes[0].Name
	}

	if err := b.buildNodes(); err != nil {
		return nil, err
	}

	for i, n := range doc.Nodes {
		if n.Mesh == nil {
			continue
		}
		mesh, err := b.buildMesh(b.scene.Nodes[i], *n.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.Name, err)
		}
		if n.Skin != nil {
			skin, err := b.buildSkin(*n.Skin)
			if err != nil {
				return nil, fmt.Errorf("node %d (%s) skin: %w", i, n.Name, err)
			}
			mesh.Geometry.Skin = skin
		}
		b.scene.Meshes = append(b.scene.Meshes, mesh)
	}

	return b.scene, nil
}

type gltfBuilder struct {
	doc       *gltf.Document
	scene     *Scene
	materials map[int]*Material
	textures  map[int]*Texture
}

// buildNodes links parents from children lists. Each node may have one parent and the
// parent chain must end at a root.
func (b *gltfBuilder) buildNodes() error {
	nodes := make([]*Node, len(b.doc.Nodes))
	for i, n := range b.doc.Nodes {
		nodes[i] = &Node{Name: n.Name, Local: nodeLocal(n)}
	}
	for i, n := range b.doc.Nodes {
		for _, child := range n.Children {
			if child < 0 || child >= len(nodes) {
				return fmt.Errorf("%w: node %d has missing child %d", ErrInvalidHierarchy, i, child)
			}
			if nodes[child].Parent != nil {
				return fmt.Errorf("%w: node %d has more than one parent", ErrInvalidHierarchy, child)
			}
			for p := nodes[i]; p != nil; p = p.Parent {
				if p == nodes[child] {
					return fmt.Errorf("%w: node %d is an ancestor of node %d", ErrInvalidHierarchy, child, i)
				}
			}
			nodes[child].Parent = nodes[i]
		}
	}
	for _, skin := range b.doc.Skins {
		for _, j := range skin.Joints {
			if j >= 0 && j < len(nodes) {
				nodes[j].Bone = true
			}
		}
	}
	b.scene.Nodes = nodes
	return nil
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeLocal prefers an explicit matrix and falls back to translation * rotation * scale.
func nodeLocal(n *gltf.Node) math.Mat4 {
	if m := n.MatrixOrDefault(); m != identity64 {
		return math.Mat4FromFloat64(m)
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math.Compose(
		math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	)
}

// primitiveStreams holds one primitive de-indexed into a triangle list.
type primitiveStreams struct {
	positions [][3]float32
	normals   [][3]float32
	tangents  [][4]float32
	uvs       [][2]float32
	colors    [][4]uint8
	slot      int
}

func (b *gltfBuilder) buildMesh(node *Node, meshIdx int) (*Mesh, error) {
	if meshIdx < 0 || meshIdx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	src := b.doc.Meshes[meshIdx]

	mesh := &Mesh{
		Name:               src.Name,
		Node:               node,
		GeometricTransform: math.Identity(),
		Geometry:           &Geometry{},
	}
	if mesh.Name == "" {
		mesh.Name = node.Name
	}

	var prims []primitiveStreams
	for pi, prim := range src.Primitives {
		ps, err := b.readPrimitive(prim)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", pi, err)
		}
		ps.slot = -1
		if prim.Material != nil {
			mat := b.material(*prim.Material)
			ps.slot = mesh.MaterialSlot(mat)
			if ps.slot < 0 {
				mesh.Materials = append(mesh.Materials, mat)
				ps.slot = len(mesh.Materials) - 1
			}
		}
		prims = append(prims, ps)
	}

	fillGeometry(mesh.Geometry, prims, len(mesh.Materials))
	return mesh, nil
}

func (b *gltfBuilder) readPrimitive(prim *gltf.Primitive) (primitiveStreams, error) {
	var ps primitiveStreams
	if prim.Mode != gltf.PrimitiveTriangles {
		return ps, ErrUnsupportedPrimitive
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return ps, ErrNoPositions
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return ps, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return ps, fmt.Errorf("reading positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := b.accessor(*prim.Indices)
		if err != nil {
			return ps, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(b.doc, acr, nil)
		if err != nil {
			return ps, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = indices[:len(indices)-len(indices)%3]
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return ps, fmt.Errorf("%w: index %d exceeds %d vertices", ErrInvalidAccessor, idx, len(positions))
		}
	}

	ps.positions = deindex(positions, indices)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return ps, fmt.Errorf("normals: %w", err)
		}
		normals, err := modeler.ReadNormal(b.doc, acr, nil)
		if err != nil {
			return ps, fmt.Errorf("reading normals: %w", err)
		}
		if len(normals) == len(positions) {
			ps.normals = deindex(normals, indices)
		}
	}
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return ps, fmt.Errorf("tangents: %w", err)
		}
		tangents, err := modeler.ReadTangent(b.doc, acr, nil)
		if err != nil {
			return ps, fmt.Errorf("reading tangents: %w", err)
		}
		if len(tangents) == len(positions) {
			ps.tangents = deindex(tangents, indices)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return ps, fmt.Errorf("texture coordinates: %w", err)
		}
		uvs, err := modeler.ReadTextureCoord(b.doc, acr, nil)
		if err != nil {
			return ps, fmt.Errorf("reading texture coordinates: %w", err)
		}
		if len(uvs) == len(positions) {
			ps.uvs = deindex(uvs, indices)
		}
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		acr, err := b.accessor(idx)
		if err != nil {
			return ps, fmt.Errorf("colors: %w", err)
		}
		colors, err := modeler.ReadColor(b.doc, acr, nil)
		if err != nil {
			return ps, fmt.Errorf("reading colors: %w", err)
		}
		if len(colors) == len(positions) {
			ps.colors = deindex(colors, indices)
		}
	}

	return ps, nil
}

func deindex[T any](values []T, indices []uint32) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}

// fillGeometry concatenates primitives into one triangle list. An optional stream is
// kept only when every primitive provides it.
func fillGeometry(g *Geometry, prims []primitiveStreams, materialCount int) {
	hasNormals, hasTangents, hasUVs, hasColors := len(prims) > 0, len(prims) > 0, len(prims) > 0, len(prims) > 0
	singleSlot := true
	for _, p := range prims {
		hasNormals = hasNormals && p.normals != nil
		hasTangents = hasTangents && p.tangents != nil
		hasUVs = hasUVs && p.uvs != nil
		hasColors = hasColors && p.colors != nil
		if p.slot != prims[0].slot || p.slot < 0 {
			singleSlot = false
		}
	}

	for _, p := range prims {
		for _, v := range p.positions {
			g.Vertices = append(g.Vertices, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
		}
		if hasNormals {
			for _, n := range p.normals {
				g.Normals = append(g.Normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
			}
		}
		if hasTangents {
			for _, t := range p.tangents {
				g.Tangents = append(g.Tangents, math.Vec3{X: t[0], Y: t[1], Z: t[2]})
			}
		}
		if hasUVs {
			for _, uv := range p.uvs {
				g.UVs = append(g.UVs, math.Vec2{X: uv[0], Y: uv[1]})
			}
		}
		if hasColors {
			for _, c := range p.colors {
				g.Colors = append(g.Colors, math.Vec4{
					X: float32(c[0]) / 255,
					Y: float32(c[1]) / 255,
					Z: float32(c[2]) / 255,
					W: float32(c[3]) / 255,
				})
			}
		}
		if !singleSlot || materialCount > 1 {
			for range len(p.positions) / 3 {
				g.Materials = append(g.Materials, p.slot)
			}
		}
	}
}

func (b *gltfBuilder) material(idx int) *Material {
	if m, ok := b.materials[idx]; ok {
		return m
	}

	m := &Material{}
	if idx >= 0 && idx < len(b.doc.Materials) {
		src := b.doc.Materials[idx]
		m.Name = src.Name
		if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			m.Diffuse = b.texture(pbr.BaseColorTexture.Index)
		}
		if nt := src.NormalTexture; nt != nil && nt.Index != nil {
			m.Normal = b.texture(*nt.Index)
		}
	}
	if m.Name == "" {
		m.Name = fmt.Sprintf("material_%d", idx)
	}

	b.materials[idx] = m
	b.scene.Materials = append(b.scene.Materials, m)
	return m
}

func (b *gltfBuilder) texture(idx int) *Texture {
	if idx < 0 || idx >= len(b.doc.Textures) {
		return nil
	}
	src := b.doc.Textures[idx].Source
	if src == nil || *src < 0 || *src >= len(b.doc.Images) {
		return nil
	}
	if t, ok := b.textures[*src]; ok {
		return t
	}

	img := b.doc.Images[*src]
	t := &Texture{Name: img.Name, RelativeFileName: img.URI}
	if t.Name == "" {
		t.Name = fmt.Sprintf("image_%d", *src)
	}
	b.textures[*src] = t
	return t
}

func (b *gltfBuilder) buildSkin(idx int) (*Skin, error) {
	if idx < 0 || idx >= len(b.doc.Skins) {
		return nil, fmt.Errorf("skin index %d out of range", idx)
	}
	src := b.doc.Skins[idx]

	var inverseBinds [][4][4]float32
	if src.InverseBindMatrices != nil {
		acr, err := b.accessor(*src.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("inverse bind matrices: %w", err)
		}
		inverseBinds, err = modeler.ReadInverseBindMatrices(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading inverse bind matrices: %w", err)
		}
	}

	skin := &Skin{}
	for i, j := range src.Joints {
		if j < 0 || j >= len(b.scene.Nodes) {
			return nil, fmt.Errorf("joint %d references missing node %d", i, j)
		}
		c := &Cluster{Link: b.scene.Nodes[j], TransformLink: math.Identity()}
		if i < len(inverseBinds) {
			c.TransformLink = mat4FromColumns(inverseBinds[i])
		}
		skin.Clusters = append(skin.Clusters, c)
	}
	return skin, nil
}

// mat4FromColumns flattens a glTF column-major matrix.
func mat4FromColumns(m [4][4]float32) math.Mat4 {
	var out math.Mat4
	for c := range 4 {
		for r := range 4 {
			out[c*4+r] = m[c][r]
		}
	}
	return out
}

// accessor returns the accessor at idx once the buffer views it reads from are known to
// exist and to hold Count elements.
func (b *gltfBuilder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) || b.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrInvalidAccessor, idx)
	}
	acr := b.doc.Accessors[idx]
	if acr.Count < 0 || acr.ByteOffset < 0 {
		return nil, fmt.Errorf("%w: accessor %d has negative count or offset", ErrInvalidAccessor, idx)
	}

	elem := acr.ComponentType.ByteSize() * acr.Type.Components()
	if acr.BufferView != nil {
		if err := b.checkView(*acr.BufferView, acr.ByteOffset, acr.Count, elem); err != nil {
			return nil, fmt.Errorf("%w: accessor %d: %v", ErrInvalidAccessor, idx, err)
		}
	}
	if sp := acr.Sparse; sp != nil {
		if err := b.checkView(sp.Indices.BufferView, sp.Indices.ByteOffset, sp.Count, sp.Indices.ComponentType.ByteSize()); err != nil {
			return nil, fmt.Errorf("%w: accessor %d sparse indices: %v", ErrInvalidAccessor, idx, err)
		}
		if err := b.checkView(sp.Values.BufferView, sp.Values.ByteOffset, sp.Count, elem); err != nil {
			return nil, fmt.Errorf("%w: accessor %d sparse values: %v", ErrInvalidAccessor, idx, err)
		}
	}
	return acr, nil
}

// checkView verifies that count elements of elem bytes starting at offset fit inside
// buffer view idx and that the view fits inside its loaded buffer.
func (b *gltfBuilder) checkView(idx, offset, count, elem int) error {
	if idx < 0 || idx >= len(b.doc.BufferViews) || b.doc.BufferViews[idx] == nil {
		return fmt.Errorf("buffer view %d out of range", idx)
	}
	view := b.doc.BufferViews[idx]
	if view.Buffer < 0 || view.Buffer >= len(b.doc.Buffers) || b.doc.Buffers[view.Buffer] == nil {
		return fmt.Errorf("buffer view %d references missing buffer %d", idx, view.Buffer)
	}
	if view.ByteOffset < 0 || view.ByteLength < 0 ||
		view.ByteOffset+view.ByteLength > len(b.doc.Buffers[view.Buffer].Data) {
		return fmt.Errorf("buffer view %d exceeds buffer %d", idx, view.Buffer)
	}

	if count == 0 {
		return nil
	}
	stride := elem
	if view.ByteStride > 0 {
		stride = view.ByteStride
	}
	if offset+(count-1)*stride+elem > view.ByteLength {
		return fmt.Errorf("buffer view %d holds fewer than %d elements", idx, count)
	}
	return nil
}
