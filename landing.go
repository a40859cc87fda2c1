package ofs

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// LandingState enumerates the states of the landing state machine.
type LandingState uint8

const (
	// LandingBoostback is the retrograde burn killing horizontal speed.
	LandingBoostback LandingState = iota + 1
	// LandingWaiting is the unpowered fall onto the braking envelope.
	LandingWaiting
	// LandingBurn is the terminal deceleration burn.
	LandingBurn
	// Landed is the terminal state; no further transitions happen.
	Landed
)

func (s LandingState) String() string {
	switch s {
	case LandingBoostback:
		return "boostback-burn"
	case LandingWaiting:
		return "waiting-for-landing-burn"
	case LandingBurn:
		return "landing-burn"
	case Landed:
		return "landed"
	}
	panic("cannot stringify unknown landing state")
}

// Landing flies a (typically jettisoned) stage to the surface: a boostback
// burn kills horizontal speed, the stage falls until its braking distance
// v²/(2·aNet) meets the altitude, and a landing burn along the outward
// surface normal rides that braking envelope down to the touchdown speed.
type Landing struct {
	HorizCutoff    float64 // boostback horizontal-speed cutoff (km/s)
	BurnMargin     float64 // safety factor on the braking distance, > 1
	TouchdownSpeed float64 // descent speed to touch down at (km/s)
	LandedAltitude float64 // altitude under which the stage counts as landed (km)

	rocket  *Rocket
	primary *ReferenceBody
	state   LandingState
	dir     []float64
	burning bool
	logger  kitlog.Logger
}

// NewLanding returns a landing program for the provided rocket (usually a
// single spent stage flying on its residual fuel).
func NewLanding(rocket *Rocket, primary *ReferenceBody, logger kitlog.Logger) *Landing {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Landing{
		HorizCutoff:    0.01, // 10 m/s
		BurnMargin:     1.1,
		TouchdownSpeed: 0.005, // 5 m/s
		LandedAltitude: 0.05,
		rocket:         rocket,
		primary:        primary,
		state:          LandingBoostback,
		dir:            []float64{0, 0, 0},
		logger:         logger,
	}
}

// State returns the current state of the landing state machine.
func (p *Landing) State() LandingState {
	return p.state
}

// Start implements the ControlProgram interface.
func (p *Landing) Start(totalTime float64) {
	p.state = LandingBoostback
	p.burning = true
	p.rocket.Throttle = 1
	p.logger.Log("subsys", "guidance", "program", "landing", "status", "started", "t", totalTime)
}

// Update implements the ControlProgram interface.
func (p *Landing) Update(totalTime, Δt float64) {
	if p.state == Landed {
		return // terminal, engines stay off
	}
	ob := observe(p.rocket, p.primary)

	switch p.state {
	case LandingBoostback:
		horiz := ob.horizontalVelocity()
		p.dir = scale(-1, unit(horiz))
		p.burning = true
		p.rocket.Throttle = 1
		if norm(horiz) < p.HorizCutoff {
			p.burning = false
			p.rocket.Throttle = 0
			p.transition(LandingWaiting, totalTime, ob)
		}
	case LandingWaiting:
		p.dir = ob.up
		if ob.verticalSpeed() < -p.descentEnvelope(ob) {
			p.burning = true
			p.rocket.Throttle = 1 // engine restart
			p.transition(LandingBurn, totalTime, ob)
		}
	case LandingBurn:
		p.dir = ob.up
		if ob.verticalSpeed() < -p.descentEnvelope(ob) {
			p.burning = true
			p.rocket.Throttle = 1
		} else {
			// On or above the braking envelope, coast back down onto it.
			p.burning = false
			p.rocket.Throttle = 0
		}
		if ob.altitude <= p.LandedAltitude {
			p.burning = false
			p.rocket.Throttle = 0
			p.transition(Landed, totalTime, ob)
		}
	}
}

// descentEnvelope returns the fastest allowed descent speed (km/s) at the
// current altitude: the suicide-burn braking envelope v = √(2·aNet·h) under
// net thrust minus gravity, derated by the burn margin and floored at the
// touchdown speed. A stage that cannot out-thrust gravity burns continuously.
func (p *Landing) descentEnvelope(ob observations) float64 {
	stage := p.rocket.Stages.Current()
	aNet := stage.Thrust/(p.rocket.Mass()*1e3) - norm(p.primary.GravityAccel(ob.rel.R))
	if aNet <= 0 {
		return p.TouchdownSpeed
	}
	return math.Max(p.TouchdownSpeed, math.Sqrt(2*aNet*ob.altitude/p.BurnMargin))
}

func (p *Landing) transition(to LandingState, totalTime float64, ob observations) {
	from := p.state
	p.state = to
	p.logger.Log("subsys", "guidance", "program", "landing", "from", from, "to", to, "t", totalTime,
		"alt(km)", ob.altitude, "vVert(km/s)", ob.verticalSpeed(), "vHoriz(km/s)", norm(ob.horizontalVelocity()))
}

// Completed implements the ControlProgram interface.
func (p *Landing) Completed() bool {
	return p.state == Landed
}

// ThrustDirection implements the ControlProgram interface.
func (p *Landing) ThrustDirection() []float64 {
	if !p.burning || p.state == Landed {
		return []float64{0, 0, 0}
	}
	return p.dir
}

// Torque implements the ControlProgram interface.
func (p *Landing) Torque() []float64 {
	return []float64{0, 0, 0}
}
