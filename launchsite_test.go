package ofs

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestLaunchSiteSurfaceState(t *testing.T) {
	prim := NewReferenceBody(Earth)
	site := LaunchSite{Name: "pad-39", Latitude: 0, Longitude: 0, Altitude: 0.1, Body: Earth}
	s := site.SurfaceState(prim, 0)
	if !floats.EqualWithinAbs(norm(s.R), Earth.Radius+0.1, 1e-9) {
		t.Fatalf("|R|=%f", norm(s.R))
	}
	// The pad velocity is horizontal and purely from the body rotation.
	if !floats.EqualWithinAbs(dot(unit(s.R), s.V), 0, 1e-12) {
		t.Fatal("pad velocity has a vertical component")
	}
	if !vectorsEqual(s.V, Earth.SurfaceVelocity(s.R)) {
		t.Fatal("pad velocity is not the surface velocity")
	}

	// A later epoch rotates the pad with the body.
	later := site.SurfaceState(prim, 600)
	Δφ := math.Atan2(later.R[1], later.R[0]) - math.Atan2(s.R[1], s.R[0])
	if ok, err := anglesEqual(Δφ, Earth.RotationRate()*600); !ok {
		t.Fatalf("pad did not rotate with the body: %s", err)
	}

	// Higher latitudes move slower.
	northern := LaunchSite{Latitude: 70, Longitude: 0, Altitude: 0, Body: Earth}
	if n := norm(northern.SurfaceState(prim, 0).V); n >= norm(s.V) {
		t.Fatalf("|v| at 70N = %f, should be below the equatorial %f", n, norm(s.V))
	}

	assertPanic(t, func() {
		moonSite := LaunchSite{Latitude: 0, Longitude: 0, Body: Moon}
		moonSite.SurfaceState(prim, 0)
	})
}
