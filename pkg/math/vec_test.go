package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"axis", Vec3{0, 3, 0}, Vec3{0, 1, 0}},
		{"zero stays zero", Vec3{}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{-1, 5, 0}
	b := Vec3{2, -3, 0}

	if got := a.Min(b); got != (Vec3{-1, -3, 0}) {
		t.Errorf("Min() = %v", got)
	}
	if got := a.Max(b); got != (Vec3{2, 5, 0}) {
		t.Errorf("Max() = %v", got)
	}
}

func TestVec3LengthSquared(t *testing.T) {
	if got := (Vec3{1, 2, 2}).LengthSquared(); got != 9 {
		t.Errorf("LengthSquared() = %v, want 9", got)
	}
}

func TestInf(t *testing.T) {
	pos := Inf(1)
	neg := Inf(-1)
	if !math32.IsInf(pos.X, 1) || !math32.IsInf(neg.Z, -1) {
		t.Errorf("Inf() = %v / %v", pos, neg)
	}
	if got := pos.Min(Vec3{-5, 0, 5}); got != (Vec3{-5, 0, 5}) {
		t.Errorf("+Inf.Min() = %v", got)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}
