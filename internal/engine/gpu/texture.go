package gpu

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture is an RGBA8 2D texture with a CPU copy of its pixels.
type Texture struct {
	id     uint32
	width  int
	height int
	pix    []uint8
}

// NewTexture allocates a width x height texture with linear filtering.
func NewTexture(width, height int) *Texture {
	t := &Texture{width: width, height: height, pix: make([]uint8, width*height*4)}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

// NewTextureFromImage creates a texture sized to img and uploads it.
func NewTextureFromImage(img *image.RGBA) (*Texture, error) {
	b := img.Bounds()
	t := NewTexture(b.Dx(), b.Dy())
	if err := t.Update(packRGBA(img)); err != nil {
		t.Delete()
		return nil, err
	}
	return t, nil
}

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Update copies pix (tightly packed RGBA rows) and uploads it.
func (t *Texture) Update(pix []uint8) error {
	if err := checkPixels(t.width, t.height, len(pix)); err != nil {
		return err
	}
	copy(t.pix, pix)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.width), int32(t.height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.pix))
	return nil
}

// Bind makes the texture active on the given unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Delete releases the GL texture.
func (t *Texture) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func checkPixels(width, height, n int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: invalid texture size %dx%d", width, height)
	}
	if want := width * height * 4; n != want {
		return fmt.Errorf("gpu: got %d bytes of pixels, want %d for %dx%d RGBA", n, want, width, height)
	}
	return nil
}

// packRGBA returns the pixels of img without row padding, top row first.
func packRGBA(img *image.RGBA) []uint8 {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		return img.Pix[:rowLen*b.Dy()]
	}
	out := make([]uint8, 0, rowLen*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[start:start+rowLen]...)
	}
	return out
}
