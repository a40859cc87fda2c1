package ofs

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

// Vallado's KEPLER example (example 2-4): 40 minutes of two-body motion.
func TestUniversalPropagateVallado(t *testing.T) {
	R0 := []float64{1131.340, -2282.343, 6672.423}
	V0 := []float64{-5.64305, 4.30333, 2.42879}
	R, V, err := UniversalPropagate(R0, V0, Earth.μ, 40*60)
	if err != nil {
		t.Fatal(err)
	}
	if !vectorsEqual(R, []float64{-4219.7527, 4363.0292, -3958.7666}) {
		t.Fatalf("R=%+v", R)
	}
	if !vectorsEqual(V, []float64{3.689866, -1.916735, -6.112511}) {
		t.Fatalf("V=%+v", V)
	}
	// Inputs must not be mutated.
	if !vectorsEqual(R0, []float64{1131.340, -2282.343, 6672.423}) {
		t.Fatal("R0 was mutated")
	}
}

func TestUniversalPropagateIdentity(t *testing.T) {
	R0 := []float64{7000, 100, -200}
	V0 := []float64{0.1, 7.5, 0.2}
	R, V, err := UniversalPropagate(R0, V0, Earth.μ, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !vectorsEqual(R, R0) || !vectorsEqual(V, V0) {
		t.Fatal("zero elapsed time must return the initial state")
	}
}

func TestUniversalPropagateFullPeriod(t *testing.T) {
	o := NewOrbitFromOE(8000, 0.1, 30, 40, 50, 60, Earth)
	R0, V0 := o.RV()
	R, V, err := UniversalPropagate(R0, V0, Earth.μ, o.Period())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(R[i], R0[i], 1e-4) {
			t.Fatalf("R[%d]=%f, want %f after one period", i, R[i], R0[i])
		}
		if !floats.EqualWithinAbs(V[i], V0[i], 1e-6) {
			t.Fatalf("V[%d]=%f, want %f after one period", i, V[i], V0[i])
		}
	}
	// Backward propagation works the same way.
	Rb, Vb, err := UniversalPropagate(R0, V0, Earth.μ, -o.Period())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(Rb[i], R0[i], 1e-3) || !floats.EqualWithinAbs(Vb[i], V0[i], 1e-6) {
			t.Fatal("one period backward must return to the start")
		}
	}
}

func TestUniversalPropagateHyperbolic(t *testing.T) {
	R0 := []float64{7000, 0, 0}
	V0 := []float64{0, 11, 4}
	ξ0 := norm(V0)*norm(V0)/2 - Earth.μ/norm(R0)
	R, V, err := UniversalPropagate(R0, V0, Earth.μ, 3600)
	if err != nil {
		t.Fatal(err)
	}
	ξ := norm(V)*norm(V)/2 - Earth.μ/norm(R)
	if !floats.EqualWithinRel(ξ, ξ0, 1e-9) {
		t.Fatalf("energy drifted on the hyperbola: %f -> %f", ξ0, ξ)
	}
	if norm(R) <= norm(R0) {
		t.Fatal("outbound hyperbolic motion must gain radius")
	}
	h0, h := cross(R0, V0), cross(R, V)
	if !floats.EqualWithinRel(norm(h), norm(h0), 1e-9) {
		t.Fatal("angular momentum drifted on the hyperbola")
	}
	if !floats.EqualWithinAbs(dot(unit(h), unit(h0)), 1, 1e-12) {
		t.Fatal("orbital plane drifted on the hyperbola")
	}
}

func TestKeplerSolveMovingPrimary(t *testing.T) {
	// The Moon as a moving primary: the relative motion must be unaffected
	// by the primary's own drift.
	primary0 := NewReferenceBody(Moon)
	primary0.State.R = []float64{384400, 0, 0}
	primary0.State.V = []float64{0, 1.018, 0}

	rel := NewState(0)
	rel.R = []float64{2000, 0, 0}
	rel.V = []float64{0, math.Sqrt(Moon.μ / 2000), 0} // circular
	initial := rel.MakeAbsolute(primary0.State)
	orbit := NewOrbitFromRV(rel.R, rel.V, Moon)

	sat := &Satellite{Name: "relay", DryMass: 250}
	elapsed := 1800.0
	primaryT := primary0.State.Clone()
	primaryT.R = add(primary0.State.R, scale(elapsed, primary0.State.V))
	primaryT.Epoch = elapsed

	out, err := KeplerSolve(sat, primary0.State, initial, orbit, primaryT, elapsed)
	if err != nil {
		t.Fatal(err)
	}
	if out.Epoch != elapsed {
		t.Fatalf("epoch=%f", out.Epoch)
	}
	outRel := out.MakeRelative(primaryT)
	if !floats.EqualWithinRel(norm(outRel.R), 2000, 1e-6) {
		t.Fatalf("circular radius drifted to %f", norm(outRel.R))
	}
	// Direct relative propagation must agree with the frame-translated one.
	Rd, Vd, _ := UniversalPropagate(rel.R, rel.V, Moon.μ, elapsed)
	if !vectorsEqual(outRel.R, Rd) || !vectorsEqual(outRel.V, Vd) {
		t.Fatal("frame translation changed the relative motion")
	}
}

func TestKeplerSolveContract(t *testing.T) {
	primary := NewReferenceBody(Earth)
	s := NewState(0)
	s.R = []float64{8000, 0, 0}
	s.V = []float64{0, 7.5, 0}
	sat := &Satellite{Name: "junk", DryMass: 10}
	assertPanic(t, func() {
		KeplerSolve(sat, primary.State, s, nil, primary.State, 60)
	})
	// An orbit that does not describe the provided state is a programming
	// error.
	other := NewOrbitFromOE(26000, 0.7, 63.4, 0, 270, 0, Earth)
	assertPanic(t, func() {
		KeplerSolve(sat, primary.State, s, other, primary.State, 60)
	})
}
