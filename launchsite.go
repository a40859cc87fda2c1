package ofs

import "math"

// LaunchSite is a geodetic site on the surface of a rotating body, from which
// a rocket lifts off.
type LaunchSite struct {
	Name      string
	Latitude  float64 // degrees, positive north
	Longitude float64 // degrees, positive east
	Altitude  float64 // km above the mean surface (pad height)
	Body      CelestialObject
}

// SurfaceState returns the absolute state of this site at the given epoch:
// its position on the rotating surface and a velocity deriving purely from
// the body rotation. The site longitude follows the primary body's own
// rotation angle.
func (s LaunchSite) SurfaceState(primary *ReferenceBody, epoch float64) State {
	if !s.Body.Equals(primary.CelestialObject) {
		panic("launch site is not on the primary body")
	}
	r := s.Body.Radius + s.Altitude
	θ := math.Pi/2 - Deg2rad(s.Latitude) // colatitude
	φ := Deg2rad(s.Longitude) + primary.State.Rotation + primary.RotationRate()*(epoch-primary.State.Epoch)

	rel := NewState(epoch)
	rel.R = Spherical2Cartesian([]float64{r, θ, φ})
	rel.V = primary.SurfaceVelocity(rel.R)
	out := rel.MakeAbsolute(primary.State)
	out.Epoch = epoch
	return out
}
