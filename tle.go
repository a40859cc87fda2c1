package ofs

import (
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// NewSatelliteFromTLE returns an artificial satellite whose state is seeded
// from SGP4 propagation of the provided two-line element set at the given
// time, in the Earth-centered inertial frame (km, km/s). Useful as a
// rendezvous target or co-orbiting object for maneuver scenarios.
func NewSatelliteFromTLE(name, line1, line2 string, dt time.Time, mass float64, drag DragProperties) *Satellite {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	year, month, day := dt.Date()
	hour, min, sec := dt.Clock()
	pos, vel := satellite.Propagate(sat, year, int(month), day, hour, min, sec)

	s := NewState(0)
	s.R = []float64{pos.X, pos.Y, pos.Z}
	s.V = []float64{vel.X, vel.Y, vel.Z}
	return &Satellite{Name: name, DryMass: mass, Drag: drag, State: s}
}
