package world

import "math"

// Vec3 is a position or velocity in continuous world space.
// One block cell spans 1.0 on each axis.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Dist returns the euclidean distance to o.
func (v Vec3) Dist(o Vec3) float64 {
	return math.Sqrt(v.DistSq(o))
}

// DistSq returns the squared distance to o; used for radius checks to
// avoid the sqrt on the hot path.
func (v Vec3) DistSq(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// CellCenter maps block-grid coordinates to the continuous-space center
// of the cell they name.
func CellCenter(v Vec3) Vec3 {
	return Vec3{
		X: math.Floor(v.X) + 0.5,
		Y: math.Floor(v.Y) + 0.5,
		Z: math.Floor(v.Z) + 0.5,
	}
}
