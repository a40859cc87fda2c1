package ofs

import (
	kitlog "github.com/go-kit/kit/log"
)

// Rocket is an artificial satellite with a stage stack and an active control
// program commanding its thrust direction and throttle.
type Rocket struct {
	Name      string
	Stages    *StageStack
	Prog      ControlProgram
	Throttle  float64 // engine throttle in [0,1], an externally set control input
	RotPeriod float64
	State     State
	logger    kitlog.Logger
}

// NewRocket returns a rocket at full throttle with no active program.
func NewRocket(name string, stages *StageStack, state State, logger kitlog.Logger) *Rocket {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Rocket{Name: name, Stages: stages, Throttle: 1, State: state, logger: logger}
}

// Label implements the PhysicsObject interface.
func (r *Rocket) Label() string {
	return r.Name
}

// Mass implements the PhysicsObject interface.
func (r *Rocket) Mass() float64 {
	return r.Stages.Mass()
}

// RotationPeriod implements the PhysicsObject interface.
func (r *Rocket) RotationPeriod() float64 {
	return r.RotPeriod
}

// Drag returns the drag properties of the active stage.
func (r *Rocket) Drag() DragProperties {
	return r.Stages.Current().Drag
}

// SetProgram makes the provided program the active one, superseding any
// previous program, and starts it.
func (r *Rocket) SetProgram(p ControlProgram, totalTime float64) {
	r.Prog = p
	if p != nil {
		p.Start(totalTime)
	}
}

// Accelerate returns the engine thrust acceleration (km/s^2) along the active
// program's thrust direction, consuming fuel for a burn of Δt seconds. The
// acceleration is zero when no program is active, the engine is off, or the
// stage is fuel starved (the caller decides whether starvation triggers
// staging or a program failure).
func (r *Rocket) Accelerate(Δt float64) []float64 {
	if r.Prog == nil || r.Throttle <= 0 {
		return []float64{0, 0, 0}
	}
	dir := r.Prog.ThrustDirection()
	if norm(dir) == 0 {
		return []float64{0, 0, 0}
	}
	stage := r.Stages.Current()
	if _, ok := stage.UseFuel(r.Throttle, Δt); !ok {
		return []float64{0, 0, 0}
	}
	// N over kg gives m/s^2, the state is in km/s^2.
	return scale(stage.Thrust*r.Throttle/(r.Mass()*1e3), unit(dir))
}

// Clone returns a deep copy of this rocket sharing no mutable state. The
// clone has no active program: programs hold a pointer to their rocket and
// must be re-created on the clone.
func (r *Rocket) Clone() *Rocket {
	c := *r
	c.Stages = r.Stages.Clone()
	c.State = r.State.Clone()
	c.Prog = nil
	return &c
}
