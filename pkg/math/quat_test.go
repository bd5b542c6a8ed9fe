package math

import (
	"math"
	"testing"
)

func TestQuatIdentityToMat4(t *testing.T) {
	if got := QuatIdentity().ToMat4(); got != Identity() {
		t.Errorf("identity quaternion matrix = %v", got)
	}
}

func TestQuatFromAxisAngleMatchesRotateY(t *testing.T) {
	angle := float32(math.Pi / 3)
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, angle)

	if !q.ToMat4().ApproxEqual(RotateY(angle), 1e-5) {
		t.Errorf("quaternion matrix %v differs from RotateY", q.ToMat4())
	}
}

func TestQuatMulIdentity(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 0, 0}, 0.5)
	got := q.Mul(QuatIdentity())
	if got != q {
		t.Errorf("q * identity = %v, want %v", got, q)
	}
}

func TestQuatVectorPart(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	if q.Vector() != (Vec3{1, 2, 3}) {
		t.Errorf("Vector() = %v", q.Vector())
	}
	r := q.WithVector(Vec3{7, 8, 9})
	if r != (Quat{X: 7, Y: 8, Z: 9, W: 4}) {
		t.Errorf("WithVector() = %v", r)
	}
}

func TestQuatNormalizeDegenerate(t *testing.T) {
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("Normalize(zero) = %v, want identity", got)
	}
}
