package ofs

import (
	"math"
	"testing"
)

// Full closed-loop ascent: lift off from an equatorial pad and fly into a
// 300 km circular orbit.
func TestAscentScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("full ascent simulation")
	}
	prim := NewReferenceBody(Earth)
	site := LaunchSite{Name: "pad", Latitude: 0, Longitude: 0, Altitude: 0.1, Body: Earth}
	r := NewRocket("demo-1", testStack(), site.SurfaceState(prim, 0), nil)
	m := NewMission(r, prim, StepSize, ExportConfig{}, nil)

	target := NewOrbitFromOE(Earth.Radius+300, 0, 0, 0, 0, 0, Earth)
	asc := m.Fly(target, 2, 16)
	asc.PitchRate = 1.2 * deg2rad

	if !m.PropagateUntilCompleted(900) {
		t.Fatalf("ascent still in %s after 15 minutes", asc.State())
	}
	if asc.State() != AscentInOrbit {
		t.Fatalf("ascent ended in %s", asc.State())
	}

	rel := r.State.MakeRelative(prim.State)
	orbit := NewOrbitFromRV(rel.R, rel.V, Earth)
	if orbit.e >= 0.01 {
		t.Fatalf("insertion eccentricity %f", orbit.e)
	}
	if orbit.Periapsis() < 0.99*target.Periapsis() {
		t.Fatalf("insertion periapsis %f km, want at least %f km", orbit.Periapsis(), 0.99*target.Periapsis())
	}
	// The jettisoned first stage flies on as its own object.
	if len(m.Spawned) != 1 {
		t.Fatalf("expected one spawned stage, got %d", len(m.Spawned))
	}
	if _, ok := m.Spawned[0].Prog.(*Landing); !ok {
		t.Fatal("the spawned stage must fly a landing program")
	}
	// The orbiter is on its last stage with fuel to spare.
	if r.Stages.Current().Name != "second" {
		t.Fatalf("still flying on %s", r.Stages.Current().Name)
	}
	if r.Stages.Current().FuelMass <= 0 {
		t.Fatal("insertion must not exhaust the stage")
	}
}

func TestAscentStateMachineStrings(t *testing.T) {
	for s := AscentInitial; s <= AscentFailed; s++ {
		if s.String() == "" {
			t.Fatalf("state %d has no name", s)
		}
	}
	assertPanic(t, func() {
		_ = AscentState(0).String()
	})
}

func TestAscentTargetMismatch(t *testing.T) {
	prim := NewReferenceBody(Earth)
	r := NewRocket("demo", testStack(), NewState(0), nil)
	lunar := NewOrbitFromOE(Moon.Radius+100, 0, 0, 0, 0, 0, Moon)
	assertPanic(t, func() {
		NewAscent(r, prim, lunar, 2, 16, nil)
	})
}

func TestAscentInitialClimb(t *testing.T) {
	prim := NewReferenceBody(Earth)
	site := LaunchSite{Latitude: 0, Longitude: 0, Altitude: 0.1, Body: Earth}
	r := NewRocket("demo", testStack(), site.SurfaceState(prim, 0), nil)
	target := NewOrbitFromOE(Earth.Radius+300, 0, 0, 0, 0, 0, Earth)
	asc := NewAscent(r, prim, target, 2, 16, nil)
	r.SetProgram(asc, 0)

	if asc.State() != AscentInitial {
		t.Fatalf("fresh ascent in %s", asc.State())
	}
	asc.Update(0, StepSize)
	// Below the pitch-start altitude the thrust is the local vertical.
	up := unit(sub(r.State.R, prim.State.R))
	dir := asc.ThrustDirection()
	if math.Abs(dot(dir, up)-1) > 1e-9 {
		t.Fatalf("initial climb thrust %+v is not vertical", dir)
	}
	if asc.Completed() {
		t.Fatal("ascent cannot complete on the pad")
	}
}
