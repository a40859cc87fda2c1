package ofs

import (
	"math"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// StepSize is the default step size of propagation in seconds.
const StepSize = 0.1

/* Handles the per-step flight propagation. */

// Mission drives the simulation of a rocket about its primary body: once per
// step it updates the active control program, composes the acceleration
// (gravity, drag, thrust) and hands the state to the RK4 propagator. Objects
// jettisoned during flight (spent stages flying a landing program) are
// stepped alongside the main vehicle.
type Mission struct {
	Rocket  *Rocket
	Primary *ReferenceBody
	Spawned []*Rocket

	CurrentTime float64 // total simulated time (s)
	Step        float64
	StartDT     time.Time // wall epoch of t=0, for telemetry timestamps

	histChan chan<- Record
	wg       sync.WaitGroup
	logger   kitlog.Logger
}

// NewMission returns a mission stepping the provided rocket. If the export
// config is useless no telemetry is written.
func NewMission(r *Rocket, primary *ReferenceBody, step float64, conf ExportConfig, logger kitlog.Logger) *Mission {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	m := &Mission{Rocket: r, Primary: primary, Step: step, StartDT: time.Now().UTC(), logger: logger}
	if !conf.IsUseless() {
		histChan := make(chan Record, 1000)
		m.histChan = histChan
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			StreamStates(conf, m.StartDT, histChan)
		}()
	}
	return m
}

// SpawnLandingStage turns a jettisoned stage into an independently simulated
// object flying a landing program on its residual fuel.
func (m *Mission) SpawnLandingStage(stage *Stage, at State) {
	r := NewRocket(m.Rocket.Name+"-"+stage.Name, NewStageStack(stage), at, m.logger)
	r.SetProgram(NewLanding(r, m.Primary, m.logger), m.CurrentTime)
	m.Spawned = append(m.Spawned, r)
	stagingEvents.Inc()
}

// StepOnce advances the whole simulation by one step.
func (m *Mission) StepOnce() {
	m.stepRocket(m.Rocket)
	for _, r := range m.Spawned {
		m.stepRocket(r)
	}
	m.CurrentTime += m.Step
	if m.histChan != nil {
		m.emit(m.Rocket)
		for _, r := range m.Spawned {
			m.emit(r)
		}
	}
}

func (m *Mission) stepRocket(r *Rocket) {
	if r.Prog != nil {
		r.Prog.Update(m.CurrentTime, m.Step)
	}
	// Burn fuel once per step; the RK4 trial evaluations then see a constant
	// thrust contribution and stay free of side effects.
	thrust := []float64{0, 0, 0}
	if !r.State.Impacted {
		thrust = r.Accelerate(m.Step)
	}
	next := SolveRK4(m.Primary, r, r.State, m.CurrentTime, m.Step, m.accelFor(r, thrust))
	integrationSteps.Inc()

	rel := next.MakeRelative(m.Primary.State)
	if !next.Impacted && m.Primary.Altitude(rel.R) <= 0 {
		// Impact freezes motion onto the rotating surface; the object is
		// never removed from the simulation.
		rel.R = scale(m.Primary.Radius/norm(rel.R), rel.R)
		rel.V = m.Primary.SurfaceVelocity(rel.R)
		next = rel.MakeAbsolute(m.Primary.State)
		next.Epoch = r.State.Epoch + m.Step
		next.Impacted = true
		impacts.Inc()
		m.logger.Log("subsys", "astro", "event", "impacted", "object", r.Name, "t", m.CurrentTime,
			"vImpact(km/s)", norm(sub(r.State.V, m.Primary.SurfaceVelocity(rel.R))))
	}
	r.State = next
}

// accelFor composes the acceleration callback for one object: two-body
// gravity, atmospheric drag against the rotating surface frame, and the
// constant thrust contribution of this step.
func (m *Mission) accelFor(r *Rocket, thrust []float64) AccelerationFunc {
	return func(t float64, trial State) []float64 {
		rel := trial.MakeRelative(m.Primary.State)
		a := m.Primary.GravityAccel(rel.R)
		if alt := m.Primary.Altitude(rel.R); m.Primary.Atmo.Inside(alt) {
			vSurf := sub(rel.V, m.Primary.SurfaceVelocity(rel.R))
			drag := m.Primary.Atmo.DragForce(alt, vSurf, r.Drag())
			a = add(a, scale(1/(r.Mass()*1e3), drag))
		}
		return add(a, thrust)
	}
}

// PropagateUntil steps the simulation until the given total time is reached.
func (m *Mission) PropagateUntil(t float64) {
	for m.CurrentTime < t {
		m.StepOnce()
	}
	m.LogStatus()
}

// PropagateUntilCompleted steps until the active program of the main rocket
// completes, or until maxTime as a hard limit.
func (m *Mission) PropagateUntilCompleted(maxTime float64) bool {
	for m.CurrentTime < maxTime {
		m.StepOnce()
		if m.Rocket.Prog != nil && m.Rocket.Prog.Completed() {
			m.LogStatus()
			return true
		}
	}
	m.logger.Log("subsys", "astro", "status", "killed", "t", m.CurrentTime)
	return false
}

// Close flushes the telemetry writer. The mission must not be stepped again.
func (m *Mission) Close() {
	if m.histChan != nil {
		close(m.histChan)
		m.histChan = nil
	}
	m.wg.Wait()
}

// LogStatus logs the status of the propagation and the vehicle.
func (m *Mission) LogStatus() {
	rel := m.Rocket.State.MakeRelative(m.Primary.State)
	orbit := NewOrbitFromRV(rel.R, rel.V, m.Primary.CelestialObject)
	m.logger.Log("subsys", "astro", "t", m.CurrentTime, "fuel(kg)", m.Rocket.Stages.Current().FuelMass,
		"alt(km)", m.Primary.Altitude(rel.R), "orbit", orbit)
}

func (m *Mission) emit(r *Rocket) {
	select {
	case m.histChan <- Record{r.Name, m.CurrentTime, r.State.Clone(),
		m.Primary.Altitude(sub(r.State.R, m.Primary.State.R)), r.Stages.Current().FuelMass}:
	default:
		// Telemetry must never stall the propagation; drop on backpressure.
	}
}

// Fly wires an ascent program onto the mission's rocket, spawning jettisoned
// stages as independent landing objects.
func (m *Mission) Fly(target *Orbit, pitchStart, pitchEnd float64) *Ascent {
	asc := NewAscent(m.Rocket, m.Primary, target, pitchStart, pitchEnd, m.logger)
	asc.OnSeparation = m.SpawnLandingStage
	m.Rocket.SetProgram(asc, m.CurrentTime)
	return asc
}

// Hohmann computes the classical two-burn transfer between two circular
// coplanar radii: the departure and arrival Δv (km/s, signed along prograde)
// and the time of flight (s). Feeds ExecuteManeuver commanded Δv values.
func Hohmann(rInit, rFinal float64, body CelestialObject) (Δv1, Δv2, tof float64) {
	aTransfer := (rInit + rFinal) / 2
	vInit := math.Sqrt(body.μ / rInit)
	vFinal := math.Sqrt(body.μ / rFinal)
	Δv1 = math.Sqrt(body.μ*(2/rInit-1/aTransfer)) - vInit
	Δv2 = vFinal - math.Sqrt(body.μ*(2/rFinal-1/aTransfer))
	tof = math.Pi * math.Sqrt(math.Pow(aTransfer, 3)/body.μ)
	return
}
