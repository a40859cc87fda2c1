package ofs

import (
	"testing"

	"github.com/gonum/floats"
)

func TestAtmosphereProperties(t *testing.T) {
	p, temp, ρ := earthAtmosphere.Properties(0)
	if !floats.EqualWithinAbs(temp, 288.14, 0.1) {
		t.Fatalf("sea level temperature %f K", temp)
	}
	if !floats.EqualWithinRel(p, 101.4e3, 1e-2) {
		t.Fatalf("sea level pressure %f Pa", p)
	}
	if !floats.EqualWithinAbs(ρ, 1.225, 1e-2) {
		t.Fatalf("sea level density %f kg/m^3", ρ)
	}
	// Density decreases monotonically through all three layers.
	prev := ρ
	for _, alt := range []float64{5, 10.9, 11.1, 20, 24.9, 25.1, 40, 60, 80, 99.9} {
		d := earthAtmosphere.Density(alt)
		if d <= 0 || d >= prev {
			t.Fatalf("density %f at %f km does not decrease (was %f)", d, alt, prev)
		}
		prev = d
	}
}

func TestAtmosphereEnd(t *testing.T) {
	if earthAtmosphere.Inside(100) || earthAtmosphere.Inside(150) {
		t.Fatal("atmosphere must end at its end altitude")
	}
	if !earthAtmosphere.Inside(99.99) {
		t.Fatal("99.99 km is inside the atmosphere")
	}
	if earthAtmosphere.Density(100) != 0 {
		t.Fatal("density above the atmosphere must be exactly zero")
	}
	var none *Atmosphere
	if none.Inside(0) {
		t.Fatal("a body with no atmosphere is never inside one")
	}
}

func TestDragForce(t *testing.T) {
	props := DragProperties{Area: 10, Cd: 0.75}
	v := []float64{0.2, -0.1, 0.05} // km/s
	drag := earthAtmosphere.DragForce(5, v, props)
	// Exactly anti-parallel to the relative velocity.
	if dot(drag, v) >= 0 {
		t.Fatal("drag must oppose the velocity")
	}
	if n := norm(cross(unit(drag), unit(v))); !floats.EqualWithinAbs(n, 0, 1e-9) {
		t.Fatalf("drag not collinear with velocity: |u_d x u_v| = %e", n)
	}
	// Quadratic in speed.
	drag2 := earthAtmosphere.DragForce(5, scale(2, v), props)
	if !floats.EqualWithinRel(norm(drag2), 4*norm(drag), 1e-9) {
		t.Fatalf("doubling speed must quadruple drag: %f vs %f", norm(drag2), 4*norm(drag))
	}
	// Zero above the atmosphere, not asymptotically small.
	if norm(earthAtmosphere.DragForce(120, v, props)) != 0 {
		t.Fatal("drag above the atmosphere must be exactly zero")
	}
}
