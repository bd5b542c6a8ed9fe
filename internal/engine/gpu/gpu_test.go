package gpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/meshprep/internal/export"
	"github.com/Faultbox/meshprep/pkg/math"
)

func TestBufferStaging(t *testing.T) {
	b := NewBuffer[math.Vec3](2)
	if b.Full() || b.Len() != 0 || b.Cap() != 2 {
		t.Fatalf("new buffer: len %d cap %d full %v", b.Len(), b.Cap(), b.Full())
	}

	for i, want := range []int{1, 2} {
		n, err := b.Add(math.Vec3{X: float32(i)})
		if err != nil || n != want {
			t.Fatalf("Add() = %d, %v; want %d, nil", n, err, want)
		}
	}
	if !b.Full() {
		t.Error("buffer should be full at capacity")
	}
	if _, err := b.Add(math.Vec3{}); !errors.Is(err, ErrBufferFull) {
		t.Errorf("Add() on full buffer error = %v, want ErrBufferFull", err)
	}
	if b.SizeBytes() != 24 {
		t.Errorf("SizeBytes() = %d, want 24", b.SizeBytes())
	}

	b.Reset()
	if b.Len() != 0 || b.Full() || b.Cap() != 2 {
		t.Errorf("after Reset: len %d cap %d full %v", b.Len(), b.Cap(), b.Full())
	}
	if b.ID() != 0 {
		t.Error("GL object should not exist before Bind")
	}
}

func TestBufferStage(t *testing.T) {
	b := NewIndexBuffer(3)
	if err := b.stage([]uint32{4, 5, 6}); err != nil {
		t.Fatalf("stage() error = %v", err)
	}
	if got := b.Data(); len(got) != 3 || got[2] != 6 {
		t.Errorf("Data() = %v", got)
	}
	if err := b.stage([]uint32{1, 2, 3, 4}); err == nil {
		t.Error("staging past capacity should fail")
	}
}

func TestVertexLayout(t *testing.T) {
	layout, stride := VertexLayout()
	if stride != int32(export.VertexStride) {
		t.Errorf("stride = %d, want %d", stride, export.VertexStride)
	}
	if stride != 60 {
		t.Errorf("stride = %d, want 60 packed bytes", stride)
	}
	if len(layout) != len(export.RawAttributes) {
		t.Fatalf("len(layout) = %d, want %d", len(layout), len(export.RawAttributes))
	}
	for i, a := range layout {
		raw := export.RawAttributes[i]
		if a.Location != raw.Index || uint32(a.Components) != raw.Components || uint32(a.Offset) != raw.Offset {
			t.Errorf("attribute %d = %+v, raw file layout says %+v", i, a, raw)
		}
	}
}

func TestCheckPixels(t *testing.T) {
	tests := []struct {
		w, h, n int
		wantErr bool
	}{
		{4, 2, 32, false},
		{4, 2, 31, true},
		{0, 2, 0, true},
	}
	for _, tt := range tests {
		if err := checkPixels(tt.w, tt.h, tt.n); (err != nil) != tt.wantErr {
			t.Errorf("checkPixels(%d, %d, %d) error = %v, wantErr %v", tt.w, tt.h, tt.n, err, tt.wantErr)
		}
	}
}

func TestPackRGBA(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	full.SetRGBA(2, 1, color.RGBA{R: 9, A: 255})
	sub := full.SubImage(image.Rect(2, 1, 4, 3)).(*image.RGBA)

	pix := packRGBA(sub)
	if len(pix) != 2*2*4 {
		t.Fatalf("len(pix) = %d, want 16", len(pix))
	}
	if pix[0] != 9 || pix[3] != 255 {
		t.Errorf("first pixel = %v, want the sub-image origin", pix[:4])
	}
}
