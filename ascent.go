package ofs

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// AscentState enumerates the states of the ascent guidance state machine.
type AscentState uint8

const (
	// AscentInitial is the vertical climb off the pad.
	AscentInitial AscentState = iota + 1
	// AscentTurning is the gravity-turn phase up to the target apoapsis.
	AscentTurning
	// AscentCoast is the unpowered climb to apoapsis.
	AscentCoast
	// AscentCircularizing is the orbit-insertion burn at apoapsis.
	AscentCircularizing
	// AscentInOrbit is the terminal success state.
	AscentInOrbit
	// AscentFailed is the terminal state of a missed insertion.
	AscentFailed
)

func (s AscentState) String() string {
	switch s {
	case AscentInitial:
		return "initial-ascent"
	case AscentTurning:
		return "turning"
	case AscentCoast:
		return "coast"
	case AscentCircularizing:
		return "circularizing"
	case AscentInOrbit:
		return "in-orbit"
	case AscentFailed:
		return "failed"
	}
	panic("cannot stringify unknown ascent state")
}

const (
	// defaultPitchRate is the gravity-turn pitch-over rate (rad/s).
	defaultPitchRate = 0.5 * deg2rad
	// coastRestartThreshold is the time to apoapsis (s) at which the
	// circularization burn starts.
	coastRestartThreshold = 30.0
	// separationFuelRatio is the remaining-fuel fraction at which the first
	// stage is jettisoned with enough residual fuel for a landing attempt.
	separationFuelRatio = 0.1
	// insertionνLimit is the true anomaly (rad) past which the insertion is
	// declared failed when the apoapsis has not been reached.
	insertionνLimit = 190 * deg2rad
)

// Ascent flies a rocket from the surface into a target orbit using a gravity
// turn: vertical climb to the pitch-start altitude, progressive pitch-over
// toward prograde until the pitch-end altitude, burn to the target apoapsis,
// coast, and a circularization burn at apoapsis.
type Ascent struct {
	Target               *Orbit  // target orbit around the primary
	PitchStart, PitchEnd float64 // gravity-turn altitude window (km)
	PitchRate            float64 // pitch-over rate (rad/s)
	EccTolerance         float64 // insertion eccentricity tolerance
	PeriTolerance        float64 // insertion periapsis radius tolerance (km)

	// OnSeparation, when set, is called with the jettisoned stage and the
	// rocket state at separation so the driver can spawn it as an
	// independent object (e.g. with a Landing program).
	OnSeparation func(stage *Stage, at State)

	rocket    *Rocket
	primary   *ReferenceBody
	state     AscentState
	pitch     float64 // current angle off the local vertical (rad)
	separated bool
	dir       []float64
	logger    kitlog.Logger
}

// NewAscent returns an ascent program targeting the provided orbit.
func NewAscent(rocket *Rocket, primary *ReferenceBody, target *Orbit, pitchStart, pitchEnd float64, logger kitlog.Logger) *Ascent {
	if !target.Origin.Equals(primary.CelestialObject) {
		panic("ascent target orbit is not centered on the primary body")
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Ascent{
		Target:        target,
		PitchStart:    pitchStart,
		PitchEnd:      pitchEnd,
		PitchRate:     defaultPitchRate,
		EccTolerance:  0.01,
		PeriTolerance: 0.01 * target.Periapsis(),
		rocket:        rocket,
		primary:       primary,
		state:         AscentInitial,
		dir:           []float64{0, 0, 0},
		logger:        logger,
	}
}

// State returns the current state of the ascent state machine.
func (p *Ascent) State() AscentState {
	return p.state
}

// Start implements the ControlProgram interface.
func (p *Ascent) Start(totalTime float64) {
	p.state = AscentInitial
	p.pitch = 0
	p.separated = false
	p.rocket.Throttle = 1
	p.logger.Log("subsys", "guidance", "program", "ascent", "status", "started", "t", totalTime,
		"pitchStart(km)", p.PitchStart, "pitchEnd(km)", p.PitchEnd)
}

// Update implements the ControlProgram interface. All transitions are
// re-evaluated on every call.
func (p *Ascent) Update(totalTime, Δt float64) {
	if p.state == AscentInOrbit || p.state == AscentFailed {
		return
	}
	ob := observe(p.rocket, p.primary)
	p.checkStaging(ob, totalTime)

	switch p.state {
	case AscentInitial:
		p.dir = ob.up
		if ob.altitude >= p.PitchStart {
			p.transition(AscentTurning, totalTime, ob)
		}
	case AscentTurning:
		p.dir = p.turningDirection(ob, Δt)
		if p.insertionFailed(ob) {
			p.rocket.Throttle = 0
			p.transition(AscentFailed, totalTime, ob)
			return
		}
		if ob.orbit.Apoapsis() >= p.Target.Apoapsis() {
			p.rocket.Throttle = 0 // engine cutoff
			p.transition(AscentCoast, totalTime, ob)
		}
	case AscentCoast:
		p.dir = ob.prograde() // keep the attitude for the restart
		if ob.pos.TimeToApoapsis() <= coastRestartThreshold {
			p.rocket.Throttle = 1 // engine restart
			p.transition(AscentCircularizing, totalTime, ob)
		}
	case AscentCircularizing:
		p.dir = p.insertionDirection(ob)
		if p.insertionFailed(ob) {
			p.rocket.Throttle = 0
			p.transition(AscentFailed, totalTime, ob)
			return
		}
		if ob.orbit.e <= p.EccTolerance &&
			ob.orbit.Periapsis() >= p.Target.Periapsis()-p.PeriTolerance {
			p.rocket.Throttle = 0 // final engine cutoff
			p.transition(AscentInOrbit, totalTime, ob)
		}
	}
}

// turningDirection pitches the thrust vector progressively from the local
// vertical toward prograde while inside the pitch window, then tracks
// prograde with a late bias toward the local gravity vector close to
// apoapsis to round out the ellipse.
func (p *Ascent) turningDirection(ob observations, Δt float64) []float64 {
	if ob.altitude <= p.PitchEnd {
		p.pitch = math.Min(p.pitch+p.PitchRate*Δt, math.Pi/2)
		horiz := unit(ob.horizontalVelocity())
		if norm(horiz) == 0 {
			// No horizontal motion yet: pitch eastward along the surface
			// rotation.
			horiz = unit(p.primary.SurfaceVelocity(ob.rel.R))
		}
		axis := cross(ob.up, horiz)
		if norm(axis) == 0 {
			return ob.up
		}
		return NewQuaternionFromAxisAngle(axis, p.pitch).Rotate(ob.up)
	}
	prograde := ob.prograde()
	tA := ob.pos.TimeToApoapsis()
	if math.IsInf(tA, 1) || tA > 120 {
		return prograde
	}
	// Late correction: lean into the gravity vector as apoapsis nears.
	bias := 0.35 * (1 - tA/120)
	return unit(add(prograde, scale(bias, scale(-1, ob.up))))
}

// insertionDirection holds the circularization burn along the local
// horizontal while damping any vertical drift, which keeps the vehicle near
// its apoapsis for the whole burn.
func (p *Ascent) insertionDirection(ob observations) []float64 {
	prograde := ob.prograde()
	horiz := sub(prograde, scale(dot(prograde, ob.up), ob.up))
	if norm(horiz) == 0 {
		horiz = p.primary.SurfaceVelocity(ob.rel.R)
	}
	return unit(add(unit(horiz), scale(-3*ob.verticalSpeed(), ob.up)))
}

// insertionFailed reports whether the vehicle slid too far around the orbit
// without reaching its apoapsis target.
func (p *Ascent) insertionFailed(ob observations) bool {
	ν := ob.pos.TrueAnomaly()
	return ν > insertionνLimit && ν < 2*math.Pi-insertionνLimit &&
		ob.orbit.Apoapsis() < p.Target.Apoapsis()-p.PeriTolerance
}

// checkStaging jettisons the first stage once its remaining fuel drops to the
// separation ratio (keeping a residual for its landing burn), or immediately
// on fuel starvation.
func (p *Ascent) checkStaging(ob observations, totalTime float64) {
	if p.separated || p.rocket.Throttle <= 0 {
		return
	}
	stage := p.rocket.Stages.Current()
	if stage.FuelRatio() > separationFuelRatio {
		return
	}
	jettisoned, ok := p.rocket.Stages.Separate()
	if !ok {
		return
	}
	p.separated = true
	p.logger.Log("subsys", "guidance", "program", "ascent", "event", "staging", "t", totalTime,
		"stage", jettisoned.Name, "residualFuel(kg)", jettisoned.FuelMass, "alt(km)", ob.altitude)
	if p.OnSeparation != nil {
		p.OnSeparation(jettisoned, p.rocket.State.Clone())
	}
}

func (p *Ascent) transition(to AscentState, totalTime float64, ob observations) {
	from := p.state
	p.state = to
	p.logger.Log("subsys", "guidance", "program", "ascent", "from", from, "to", to, "t", totalTime,
		"alt(km)", ob.altitude, "apoapsis(km)", ob.orbit.Apoapsis()-p.primary.Radius, "e", ob.orbit.e)
}

// Completed implements the ControlProgram interface. A failed insertion also
// completes the program: the vehicle keeps being simulated, unpowered.
func (p *Ascent) Completed() bool {
	return p.state == AscentInOrbit || p.state == AscentFailed
}

// ThrustDirection implements the ControlProgram interface.
func (p *Ascent) ThrustDirection() []float64 {
	if p.rocket.Throttle <= 0 || p.Completed() {
		return []float64{0, 0, 0}
	}
	return p.dir
}

// Torque implements the ControlProgram interface.
func (p *Ascent) Torque() []float64 {
	return []float64{0, 0, 0}
}
