package ofs

import (
	"testing"
)

func TestAscentGrid(t *testing.T) {
	grid := AscentGrid(1, 3, 10, 20, 3)
	if len(grid) != 9 {
		t.Fatalf("got %d candidates", len(grid))
	}
	for _, c := range grid {
		if c.PitchEnd <= c.PitchStart {
			t.Fatalf("degenerate pitch window %+v", c)
		}
	}
	// Overlapping ranges drop the degenerate pairs.
	grid = AscentGrid(5, 15, 10, 20, 3)
	for _, c := range grid {
		if c.PitchEnd <= c.PitchStart {
			t.Fatalf("degenerate pitch window %+v survived", c)
		}
	}
	if len(grid) >= 9 {
		t.Fatalf("degenerate pairs were not skipped: %d candidates", len(grid))
	}
	assertPanic(t, func() {
		AscentGrid(1, 2, 3, 4, 1)
	})
}

// The search must be reproducible: two runs over the same grid pick the same
// candidate regardless of worker scheduling.
func TestSearchDeterminism(t *testing.T) {
	if testing.Short() {
		t.Skip("runs several full ascent simulations")
	}
	prim := NewReferenceBody(Earth)
	site := LaunchSite{Latitude: 0, Longitude: 0, Altitude: 0.1, Body: Earth}
	r := NewRocket("demo", testStack(), site.SurfaceState(prim, 0), nil)
	target := NewOrbitFromOE(Earth.Radius+300, 0, 0, 0, 0, 0, Earth)
	grid := AscentGrid(2, 4, 14, 18, 2)

	best1, found1 := FindOptimalAscent(r, *prim, target, grid, 0.5, 900)
	best2, found2 := FindOptimalAscent(r, *prim, target, grid, 0.5, 900)
	if found1 != found2 {
		t.Fatalf("runs disagree on success: %v vs %v", found1, found2)
	}
	if best1 != best2 {
		t.Fatalf("runs picked different results:\n%+v\n%+v", best1, best2)
	}
	// The caller's rocket must be untouched by all those simulations.
	if r.Stages.Current().FuelMass != 380000 {
		t.Fatalf("search burned the caller's fuel: %f", r.Stages.Current().FuelMass)
	}
	if r.Prog != nil {
		t.Fatal("search attached a program to the caller's rocket")
	}
}
