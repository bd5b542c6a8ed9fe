package importer

import (
	"fmt"

	"github.com/Faultbox/meshprep/pkg/math"
)

// Orientation selects the up-axis convention imported data is mapped into.
type Orientation int

const (
	YUp Orientation = iota
	ZUp
	ZMinusUp
	XMinusUp
	XUp
)

// axisMap describes one orientation: output component k is sign[k] * input[src[k]].
type axisMap struct {
	src  [3]int
	sign [3]float32
}

var orientationTable = [...]axisMap{
	YUp:      {src: [3]int{0, 1, 2}, sign: [3]float32{1, 1, 1}},
	ZUp:      {src: [3]int{0, 2, 1}, sign: [3]float32{1, 1, -1}},
	ZMinusUp: {src: [3]int{0, 2, 1}, sign: [3]float32{1, -1, 1}},
	XMinusUp: {src: [3]int{1, 0, 2}, sign: [3]float32{1, -1, 1}},
	XUp:      {src: [3]int{1, 0, 2}, sign: [3]float32{-1, 1, 1}},
}

var orientationNames = [...]string{
	YUp:      "y_up",
	ZUp:      "z_up",
	ZMinusUp: "z_minus_up",
	XMinusUp: "x_minus_up",
	XUp:      "x_up",
}

func (o Orientation) valid() bool {
	return o >= 0 && int(o) < len(orientationTable)
}

func (o Orientation) axes() axisMap {
	if !o.valid() {
		panic(fmt.Sprintf("importer: unknown orientation %d", int(o)))
	}
	return orientationTable[o]
}

// String returns the configuration name of the orientation.
func (o Orientation) String() string {
	if !o.valid() {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.valid() {
		return nil, fmt.Errorf("unknown orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOrientation converts a configuration name such as "z_up" to an Orientation.
func ParseOrientation(name string) (Orientation, error) {
	for i, n := range orientationNames {
		if n == name {
			return Orientation(i), nil
		}
	}
	return YUp, fmt.Errorf("unknown orientation %q", name)
}

// FixVec maps a position or direction into orientation o.
// It panics on an orientation outside the defined set.
func FixVec(o Orientation, v math.Vec3) math.Vec3 {
	a := o.axes()
	return math.Vec3{
		X: a.sign[0] * v.Get(a.src[0]),
		Y: a.sign[1] * v.Get(a.src[1]),
		Z: a.sign[2] * v.Get(a.src[2]),
	}
}

// FixQuat maps the vector part of a rotation into orientation o.
// The scalar part is unchanged.
func FixQuat(o Orientation, q math.Quat) math.Quat {
	return q.WithVector(FixVec(o, q.Vector()))
}
