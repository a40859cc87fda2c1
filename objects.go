package ofs

// G is the gravitational constant in km^3/(kg.s^2).
const G = 6.67430e-20

// PhysicsObject is the capability surface shared by everything the
// propagators move: reference bodies, satellites and rockets. Variant
// specific behavior is selected by type switch at the call site, not by a
// dispatch hierarchy.
type PhysicsObject interface {
	Label() string
	Mass() float64           // total mass (kg)
	RotationPeriod() float64 // seconds per revolution about the spin axis, 0 if not spinning
}

// ReferenceBody pairs a celestial object with its current state. It is the
// primary body that relative states, orbits and atmospheres are expressed
// against, and may itself be moving (e.g. a moon orbiting its planet).
type ReferenceBody struct {
	CelestialObject
	State State
}

// NewReferenceBody returns a body at rest at the origin of the absolute frame.
func NewReferenceBody(c CelestialObject) *ReferenceBody {
	return &ReferenceBody{c, NewState(0)}
}

// Label implements the PhysicsObject interface.
func (b *ReferenceBody) Label() string {
	return b.Name
}

// Mass implements the PhysicsObject interface.
func (b *ReferenceBody) Mass() float64 {
	return b.μ / G
}

// RotationPeriod implements the PhysicsObject interface.
func (b *ReferenceBody) RotationPeriod() float64 {
	return b.RotPeriod
}

// Satellite is an artificial satellite: it has a fixed mass and is subject to
// atmospheric drag, but carries no engine.
type Satellite struct {
	Name      string
	DryMass   float64 // kg
	Drag      DragProperties
	RotPeriod float64
	State     State
}

// Label implements the PhysicsObject interface.
func (s *Satellite) Label() string {
	return s.Name
}

// Mass implements the PhysicsObject interface.
func (s *Satellite) Mass() float64 {
	return s.DryMass
}

// RotationPeriod implements the PhysicsObject interface.
func (s *Satellite) RotationPeriod() float64 {
	return s.RotPeriod
}
