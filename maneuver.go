package ofs

import (
	kitlog "github.com/go-kit/kit/log"
)

// throttleFloor prevents the PID from starving the burn near completion.
const throttleFloor = 0.005

// ExecuteManeuver applies a PID-throttled burn along a fixed inertial
// direction until the accumulated applied Δv reaches the commanded Δv.
type ExecuteManeuver struct {
	Direction []float64 // fixed inertial burn direction (unit)
	Δv        float64   // commanded Δv magnitude (km/s)

	rocket    *Rocket
	pid       *PID
	applied   float64 // Δv applied so far (km/s)
	completed bool
	failed    bool
	logger    kitlog.Logger
}

// NewExecuteManeuver returns a maneuver-execution program burning along dir
// for the given Δv (km/s).
func NewExecuteManeuver(rocket *Rocket, dir []float64, Δv float64, logger kitlog.Logger) *ExecuteManeuver {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &ExecuteManeuver{
		Direction: unit(dir),
		Δv:        Δv,
		rocket:    rocket,
		pid:       NewPID(25, 0, 5),
		logger:    logger,
	}
}

// AppliedΔv returns the Δv applied so far (km/s).
func (p *ExecuteManeuver) AppliedΔv() float64 {
	return p.applied
}

// Failed returns whether the burn ran out of fuel before reaching the
// commanded Δv.
func (p *ExecuteManeuver) Failed() bool {
	return p.failed
}

// Start implements the ControlProgram interface.
func (p *ExecuteManeuver) Start(totalTime float64) {
	p.applied = 0
	p.completed = false
	p.failed = false
	p.pid.Reset()
	p.rocket.Throttle = 1
	p.logger.Log("subsys", "guidance", "program", "maneuver", "status", "started", "t", totalTime, "Δv(km/s)", p.Δv)
}

// Update implements the ControlProgram interface. The throttle is regulated
// against the remaining Δv, floored so the burn cannot starve, and clamped
// here because the PID does not clamp internally. Δv is only booked for
// steps the stage can actually feed: when the fuel cannot sustain the step
// the program stages if it can, and otherwise fails with the engine cut.
func (p *ExecuteManeuver) Update(totalTime, Δt float64) {
	if p.completed || p.failed {
		return
	}
	if p.applied >= p.Δv {
		p.completed = true
		// Reset to full throttle for whichever program runs next.
		p.rocket.Throttle = 1
		p.logger.Log("subsys", "guidance", "program", "maneuver", "status", "completed", "t", totalTime, "Δv(km/s)", p.applied)
		return
	}
	u := p.pid.Update(p.Δv-p.applied, Δt)
	switch {
	case u < throttleFloor:
		u = throttleFloor
	case u > 1:
		u = 1
	}
	stage := p.rocket.Stages.Current()
	// Mirrors the UseFuel starvation condition so the booked Δv is never
	// ahead of the burn the rocket will actually perform this step.
	if need := stage.MassFlowRate() * u * Δt; stage.FuelMass-need <= 0 {
		if jettisoned, ok := p.rocket.Stages.Separate(); ok {
			p.rocket.Throttle = 0 // engines off for the separation step
			p.logger.Log("subsys", "guidance", "program", "maneuver", "event", "staging", "t", totalTime,
				"stage", jettisoned.Name, "Δv(km/s)", p.applied)
			return
		}
		p.failed = true
		p.rocket.Throttle = 0
		p.logger.Log("subsys", "guidance", "program", "maneuver", "status", "fuel-starved", "t", totalTime, "Δv(km/s)", p.applied)
		return
	}
	p.rocket.Throttle = u

	// Book the Δv this step will apply at the commanded throttle, against
	// the mass Accelerate will see once the step's fuel is burned.
	need := stage.MassFlowRate() * u * Δt
	p.applied += stage.Thrust * u / ((p.rocket.Mass() - need) * 1e3) * Δt
}

// Completed implements the ControlProgram interface. A fuel-starved burn
// also completes the program; Failed distinguishes the outcomes.
func (p *ExecuteManeuver) Completed() bool {
	return p.completed || p.failed
}

// ThrustDirection implements the ControlProgram interface.
func (p *ExecuteManeuver) ThrustDirection() []float64 {
	if p.Completed() {
		return []float64{0, 0, 0}
	}
	return p.Direction
}

// Torque implements the ControlProgram interface.
func (p *ExecuteManeuver) Torque() []float64 {
	return []float64{0, 0, 0}
}
