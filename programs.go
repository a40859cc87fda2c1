package ofs

import (
	kitlog "github.com/go-kit/kit/log"
)

// ControlProgram is a state machine driving the thrust direction and throttle
// of a rocket from its current kinematic state. Exactly one program is active
// per rocket at a time; starting a new program supersedes the previous one.
// Update is called once per simulation step and must re-evaluate all of its
// transitions on every call, so that variable step sizes and time multipliers
// cannot desynchronize the state machine.
type ControlProgram interface {
	Start(totalTime float64)
	Update(totalTime, Δt float64)
	Completed() bool
	// ThrustDirection returns the commanded thrust direction as a unit vector
	// in the absolute frame, or a zero vector when the engines are off.
	ThrustDirection() []float64
	// Torque returns the commanded body torque. Attitude control is resolved
	// by a separate face-direction controller; programs in this core command
	// no torque of their own.
	Torque() []float64
}

// observations is the kinematic picture a program evaluates its transitions
// against: the primary-relative state and the osculating orbit derived from
// it, recomputed fresh every update.
type observations struct {
	rel      State
	orbit    *Orbit
	pos      OrbitPosition
	altitude float64
	up       []float64 // outward surface normal
	vSurf    []float64 // velocity relative to the rotating surface
}

func observe(r *Rocket, primary *ReferenceBody) observations {
	rel := r.State.MakeRelative(primary.State)
	orbit := NewOrbitFromRV(rel.R, rel.V, primary.CelestialObject)
	return observations{
		rel:      rel,
		orbit:    orbit,
		pos:      NewOrbitPosition(orbit),
		altitude: primary.Altitude(rel.R),
		up:       unit(rel.R),
		vSurf:    sub(rel.V, primary.SurfaceVelocity(rel.R)),
	}
}

// verticalSpeed returns the component of the surface-relative velocity along
// the outward normal.
func (ob observations) verticalSpeed() float64 {
	return dot(ob.vSurf, ob.up)
}

// horizontalVelocity returns the surface-relative velocity with its vertical
// component removed.
func (ob observations) horizontalVelocity() []float64 {
	return sub(ob.vSurf, scale(ob.verticalSpeed(), ob.up))
}

// prograde returns the unit vector along the inertial orbital velocity.
func (ob observations) prograde() []float64 {
	return unit(ob.rel.V)
}

// Manual is a control program whose thrust direction is supplied externally
// each step. It does not terminate on its own: its explicit cutoff condition
// is the periapsis altitude reaching a target.
type Manual struct {
	rocket          *Rocket
	primary         *ReferenceBody
	Direction       []float64 // externally fed thrust direction, absolute frame
	TargetPeriapsis float64   // cutoff periapsis altitude (km), negative to never cut off
	completed       bool
	logger          kitlog.Logger
}

// NewManual returns a manual program. A negative targetPeriapsis disables the
// cutoff condition.
func NewManual(rocket *Rocket, primary *ReferenceBody, targetPeriapsis float64, logger kitlog.Logger) *Manual {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Manual{rocket: rocket, primary: primary, Direction: []float64{0, 0, 0}, TargetPeriapsis: targetPeriapsis, logger: logger}
}

// Start implements the ControlProgram interface.
func (p *Manual) Start(totalTime float64) {
	p.completed = false
	p.logger.Log("subsys", "guidance", "program", "manual", "status", "started", "t", totalTime)
}

// Update implements the ControlProgram interface.
func (p *Manual) Update(totalTime, Δt float64) {
	if p.completed || p.TargetPeriapsis < 0 {
		return
	}
	ob := observe(p.rocket, p.primary)
	if ob.orbit.Periapsis()-p.primary.Radius >= p.TargetPeriapsis {
		p.completed = true
		p.rocket.Throttle = 0
		p.logger.Log("subsys", "guidance", "program", "manual", "status", "cutoff", "t", totalTime, "periapsis", ob.orbit.Periapsis()-p.primary.Radius)
	}
}

// Completed implements the ControlProgram interface.
func (p *Manual) Completed() bool {
	return p.completed
}

// ThrustDirection implements the ControlProgram interface.
func (p *Manual) ThrustDirection() []float64 {
	if p.completed {
		return []float64{0, 0, 0}
	}
	return p.Direction
}

// Torque implements the ControlProgram interface.
func (p *Manual) Torque() []float64 {
	return []float64{0, 0, 0}
}
