// Package glyph renders single lines of text into coverage masks and color images,
// used for preview banners and text textures.
package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Rasterizer draws text with one font at one pixel size.
type Rasterizer struct {
	face    font.Face
	ascent  int
	descent int
}

// NewRasterizer parses TrueType or OpenType data and prepares a face of size pixels.
func NewRasterizer(data []byte, size float64) (*Rasterizer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to create face: %w", err)
	}

	m := face.Metrics()
	return &Rasterizer{
		face:    face,
		ascent:  m.Ascent.Round(),
		descent: m.Descent.Round(),
	}, nil
}

// Close releases the font face.
func (r *Rasterizer) Close() error {
	return r.face.Close()
}

// Ascent returns the baseline offset from the top of a rendered line.
func (r *Rasterizer) Ascent() int {
	return r.ascent
}

// LineHeight returns ascent plus descent in pixels.
func (r *Rasterizer) LineHeight() int {
	return r.ascent + r.descent
}

// Width returns the advance of text in pixels, kerning included.
func (r *Rasterizer) Width(text string) int {
	var w fixed.Int26_6
	prev := rune(-1)
	for _, c := range text {
		if prev >= 0 {
			w += r.face.Kern(prev, c)
		}
		adv, ok := r.face.GlyphAdvance(c)
		if ok {
			w += adv
		}
		prev = c
	}
	return w.Ceil()
}

// RenderLine draws text into a coverage mask exactly as wide as the text advance and
// LineHeight tall, with the baseline at Ascent.
func (r *Rasterizer) RenderLine(text string) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, r.Width(text), r.LineHeight()))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: r.face,
		Dot:  fixed.P(0, r.ascent),
	}
	d.DrawString(text)
	return mask
}

// Colorize blends bg toward fg by the coverage of every mask pixel.
func Colorize(mask *image.Alpha, fg, bg color.RGBA) *image.RGBA {
	b := mask.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{
				R: lerp(bg.R, fg.R, a),
				G: lerp(bg.G, fg.G, a),
				B: lerp(bg.B, fg.B, a),
				A: lerp(bg.A, fg.A, a),
			})
		}
	}
	return out
}

func lerp(from, to, t uint8) uint8 {
	return uint8((int(from)*(255-int(t)) + int(to)*int(t) + 127) / 255)
}

// Banner renders text on a solid background with padding pixels on every side.
func (r *Rasterizer) Banner(text string, fg, bg color.RGBA, padding int) *image.RGBA {
	line := Colorize(r.RenderLine(text), fg, bg)
	lb := line.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, lb.Dx()+2*padding, lb.Dy()+2*padding))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, lb.Add(image.Pt(padding, padding)), line, image.Point{}, draw.Src)
	return out
}
