package ofs

import (
	"testing"

	"github.com/gonum/floats"
)

func TestStageFuel(t *testing.T) {
	s := NewStage("first", 22000, 410000, 7.6e6, 300, DragProperties{10.75, 0.75})
	if !floats.EqualWithinAbs(s.Mass(), 432000, 1e-9) {
		t.Fatalf("mass=%f", s.Mass())
	}
	if s.FuelRatio() != 1 {
		t.Fatalf("fuel ratio=%f", s.FuelRatio())
	}
	mdot := s.MassFlowRate()
	if !floats.EqualWithinRel(mdot, 7.6e6/(300*g0), 1e-12) {
		t.Fatalf("mass flow rate=%f", mdot)
	}
	used, ok := s.UseFuel(1, 10)
	if !ok {
		t.Fatal("a full stage must sustain a 10s burn")
	}
	if !floats.EqualWithinRel(used, mdot*10, 1e-12) {
		t.Fatalf("used=%f", used)
	}
	if !floats.EqualWithinRel(s.FuelMass, 410000-used, 1e-12) {
		t.Fatalf("fuel=%f", s.FuelMass)
	}
	// Half throttle burns half the fuel.
	used2, _ := s.UseFuel(0.5, 10)
	if !floats.EqualWithinRel(used2, used/2, 1e-12) {
		t.Fatalf("used at half throttle=%f", used2)
	}
}

func TestStageFuelStarvation(t *testing.T) {
	s := NewStage("tiny", 100, 10, 1e5, 300, DragProperties{})
	before := s.FuelMass
	// This burn would need far more than 10 kg of fuel.
	if _, ok := s.UseFuel(1, 60); ok {
		t.Fatal("starved burn must fail")
	}
	if s.FuelMass != before {
		t.Fatalf("failed burn mutated the fuel mass: %f", s.FuelMass)
	}
	if s.FuelMass < 0 {
		t.Fatal("fuel mass must never go negative")
	}
	// Draining in small steps stops before zero and never goes below.
	for i := 0; i < 10000; i++ {
		if _, ok := s.UseFuel(1, 0.01); !ok {
			break
		}
	}
	if s.FuelMass < 0 {
		t.Fatalf("fuel mass went negative: %f", s.FuelMass)
	}
}

func TestStageStack(t *testing.T) {
	first := NewStage("first", 22000, 410000, 7.6e6, 300, DragProperties{10.75, 0.75})
	second := NewStage("second", 4000, 107000, 9.34e5, 348, DragProperties{10.75, 0.75})
	ss := NewStageStack(first, second)
	if ss.Current() != first {
		t.Fatal("first stage must be active")
	}
	if !floats.EqualWithinAbs(ss.Mass(), first.Mass()+second.Mass(), 1e-9) {
		t.Fatalf("stack mass=%f", ss.Mass())
	}
	jettisoned, ok := ss.Separate()
	if !ok || jettisoned != first {
		t.Fatal("separation must jettison the first stage")
	}
	if ss.Current() != second {
		t.Fatal("second stage must now be active")
	}
	if !floats.EqualWithinAbs(ss.Mass(), second.Mass(), 1e-9) {
		t.Fatalf("stack mass after separation=%f", ss.Mass())
	}
	// Running out of stages is not an error, just a refusal.
	if _, ok := ss.Separate(); ok {
		t.Fatal("separating the last stage must be a no-op")
	}
	if ss.Current() != second {
		t.Fatal("the spent stage must stay in place")
	}
	assertPanic(t, func() {
		NewStageStack()
	})
}

func TestStageStackClone(t *testing.T) {
	ss := NewStageStack(
		NewStage("first", 22000, 410000, 7.6e6, 300, DragProperties{}),
		NewStage("second", 4000, 107000, 9.34e5, 348, DragProperties{}),
	)
	c := ss.Clone()
	c.Current().UseFuel(1, 10)
	c.Separate()
	if ss.Current().FuelMass != 410000 {
		t.Fatal("clone burn leaked into the original")
	}
	if ss.Current().Name != "first" {
		t.Fatal("clone separation leaked into the original")
	}
}
