package geo

import "math"

// Ray is an origin plus a direction. The direction does not have to be
// normalized; intersection parameters are comparable only within one ray.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Forward builds the unit view direction for a yaw/pitch pair. Yaw 0 looks
// down negative Z, matching the room layout.
func Forward(yaw, pitch float64) Vec3 {
	base := Vec3{X: 0, Y: 0, Z: -1}.RotateY(yaw)
	// Tilt around the horizontal axis: pitch raises or lowers the view
	// without affecting the ground-plane heading.
	sinP, cosP := math.Sincos(pitch)
	return Vec3{X: base.X * cosP, Y: sinP, Z: base.Z * cosP}
}

// IntersectGround returns the ray parameter t at which the ray crosses the
// y=0 plane, and whether it crosses in front of the origin. Rays parallel to
// the floor or pointing away from it miss.
func (r Ray) IntersectGround() (float64, bool) {
	if r.Dir.Y == 0 {
		return 0, false
	}
	t := -r.Origin.Y / r.Dir.Y
	if t < 0 {
		return 0, false
	}
	return t, true
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}
