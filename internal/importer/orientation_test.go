package importer

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshprep/pkg/math"
)

func TestFixVec(t *testing.T) {
	v := math.Vec3{X: 1, Y: 2, Z: 3}
	tests := []struct {
		o    Orientation
		want math.Vec3
	}{
		{YUp, math.Vec3{X: 1, Y: 2, Z: 3}},
		{ZUp, math.Vec3{X: 1, Y: 3, Z: -2}},
		{ZMinusUp, math.Vec3{X: 1, Y: -3, Z: 2}},
		{XMinusUp, math.Vec3{X: 2, Y: -1, Z: 3}},
		{XUp, math.Vec3{X: -2, Y: 1, Z: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			if got := FixVec(tt.o, v); got != tt.want {
				t.Errorf("FixVec(%v, %v) = %v, want %v", tt.o, v, got, tt.want)
			}
		})
	}
}

func TestFixVecInverse(t *testing.T) {
	inverse := map[Orientation]Orientation{
		YUp:      YUp,
		ZUp:      ZMinusUp,
		ZMinusUp: ZUp,
		XMinusUp: XUp,
		XUp:      XMinusUp,
	}
	v := math.Vec3{X: 0.5, Y: -4, Z: 7}

	for o, inv := range inverse {
		if got := FixVec(inv, FixVec(o, v)); got != v {
			t.Errorf("%v then %v: got %v, want %v", o, inv, got, v)
		}
	}
}

func TestFixQuatKeepsScalar(t *testing.T) {
	q := math.Quat{X: 1, Y: 2, Z: 3, W: 0.25}
	got := FixQuat(ZUp, q)
	want := math.Quat{X: 1, Y: 3, Z: -2, W: 0.25}
	if got != want {
		t.Errorf("FixQuat(ZUp, %v) = %v, want %v", q, got, want)
	}
}

func TestFixVecUnknownOrientationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown orientation")
		}
	}()
	FixVec(Orientation(42), math.Vec3{X: 1})
}

func TestParseOrientation(t *testing.T) {
	for _, o := range []Orientation{YUp, ZUp, ZMinusUp, XMinusUp, XUp} {
		got, err := ParseOrientation(o.String())
		if err != nil {
			t.Fatalf("ParseOrientation(%q) error = %v", o.String(), err)
		}
		if got != o {
			t.Errorf("ParseOrientation(%q) = %v, want %v", o.String(), got, o)
		}
	}

	if _, err := ParseOrientation("w_up"); err == nil {
		t.Error("ParseOrientation(\"w_up\") should fail")
	}
}

func TestOptionsYAML(t *testing.T) {
	src := []byte("mesh_scale: 0.01\norientation: z_up\nroot_orientation: x_minus_up\nworkers: 4\n")

	opts := DefaultOptions()
	if err := yaml.Unmarshal(src, &opts); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if opts.MeshScale != 0.01 {
		t.Errorf("MeshScale = %v, want 0.01", opts.MeshScale)
	}
	if opts.Orientation != ZUp {
		t.Errorf("Orientation = %v, want z_up", opts.Orientation)
	}
	if opts.RootOrientation != XMinusUp {
		t.Errorf("RootOrientation = %v, want x_minus_up", opts.RootOrientation)
	}
	if !opts.ImportVertexColors {
		t.Error("ImportVertexColors default should survive a partial document")
	}

	out, err := yaml.Marshal(opts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back Options
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() round trip error = %v", err)
	}
	if back != opts {
		t.Errorf("round trip = %+v, want %+v", back, opts)
	}

	if err := yaml.Unmarshal([]byte("orientation: sideways\n"), &opts); err == nil {
		t.Error("unknown orientation name should fail to decode")
	}
}
