package ofs

// g0 is the standard gravity used for specific impulse (m/s^2).
const g0 = 9.80665

// Stage defines a single rocket stage.
type Stage struct {
	Name     string
	DryMass  float64 // kg
	FuelMass float64 // remaining fuel (kg)
	InitFuel float64 // fuel at construction (kg)
	Thrust   float64 // N at full throttle
	Isp      float64 // specific impulse (s)
	Drag     DragProperties
}

// NewStage returns a fully fueled stage.
func NewStage(name string, dryMass, fuelMass, thrust, isp float64, drag DragProperties) *Stage {
	return &Stage{name, dryMass, fuelMass, fuelMass, thrust, isp, drag}
}

// Mass returns the current total mass of this stage.
func (s *Stage) Mass() float64 {
	return s.DryMass + s.FuelMass
}

// FuelRatio returns the remaining fuel fraction.
func (s *Stage) FuelRatio() float64 {
	if s.InitFuel == 0 {
		return 0
	}
	return s.FuelMass / s.InitFuel
}

// MassFlowRate returns the full-throttle propellant mass flow rate (kg/s).
func (s *Stage) MassFlowRate() float64 {
	return s.Thrust / (s.Isp * g0)
}

// UseFuel consumes fuel for burning at the given throttle during Δt seconds.
// It returns the consumed mass, or false *without mutating state* when the
// remaining fuel cannot sustain the burn: fuel mass never goes negative.
func (s *Stage) UseFuel(throttle, Δt float64) (float64, bool) {
	used := s.MassFlowRate() * throttle * Δt
	if s.FuelMass-used <= 0 {
		return 0, false
	}
	s.FuelMass -= used
	return used, true
}

// Clone returns a deep copy of this stage.
func (s *Stage) Clone() *Stage {
	c := *s
	return &c
}

// StageStack is the ordered FIFO collection of the stages of a rocket, first
// stage first.
type StageStack struct {
	current *Stage
	queued  []*Stage
}

// NewStageStack returns a stack with the first provided stage active.
func NewStageStack(stages ...*Stage) *StageStack {
	if len(stages) == 0 {
		panic("a stage stack needs at least one stage")
	}
	return &StageStack{stages[0], append([]*Stage(nil), stages[1:]...)}
}

// Current returns the active stage.
func (ss *StageStack) Current() *Stage {
	return ss.current
}

// Mass returns the total mass of all remaining stages.
func (ss *StageStack) Mass() (m float64) {
	m = ss.current.Mass()
	for _, s := range ss.queued {
		m += s.Mass()
	}
	return
}

// Separate dequeues the next stage and returns the jettisoned one. Once the
// queue is empty this is a no-op returning false: running out of stages is
// not an error, it only means no further staging is possible and the spent
// stage stays in place.
func (ss *StageStack) Separate() (jettisoned *Stage, ok bool) {
	if len(ss.queued) == 0 {
		return nil, false
	}
	jettisoned = ss.current
	ss.current = ss.queued[0]
	ss.queued = ss.queued[1:]
	return jettisoned, true
}

// Clone returns a deep copy of this stack.
func (ss *StageStack) Clone() *StageStack {
	c := &StageStack{ss.current.Clone(), make([]*Stage, len(ss.queued))}
	for i, s := range ss.queued {
		c.queued[i] = s.Clone()
	}
	return c
}
