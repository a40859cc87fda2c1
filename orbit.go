package ofs

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
	velocityε     = 1e-6                         // in km/s
)

// ConicType classifies an orbit by its conic section.
type ConicType uint8

const (
	// Elliptic orbits are bound (this includes circular orbits).
	Elliptic ConicType = iota + 1
	// Parabolic orbits are the degenerate escape case.
	Parabolic
	// Hyperbolic orbits are unbound.
	Hyperbolic
)

func (t ConicType) String() string {
	switch t {
	case Elliptic:
		return "elliptic"
	case Parabolic:
		return "parabolic"
	case Hyperbolic:
		return "hyperbolic"
	}
	panic("cannot stringify unknown conic type")
}

// Orbit defines an osculating orbit via its classical orbital elements.
// It is always a derived value computed from a state vector; the state vector
// stays authoritative.
type Orbit struct {
	a, e, i, Ω, ω, ν float64
	p                float64         // semi-parameter, kept explicitly so parabolic orbits work
	Origin           CelestialObject // orbit origin
	cacheHash        float64
	cachedR, cachedV []float64
}

// Type returns the conic classification of this orbit.
func (o Orbit) Type() ConicType {
	if floats.EqualWithinAbs(o.e, 1, eccentricityε) {
		return Parabolic
	}
	if o.e > 1 {
		return Hyperbolic
	}
	return Elliptic
}

// Bound returns whether this orbit is bound to its origin body.
func (o Orbit) Bound() bool {
	return o.Type() == Elliptic
}

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	if o.Type() == Parabolic {
		return 0
	}
	return -o.Origin.μ / (2 * o.a)
}

// SemiParameter returns the semi-parameter p.
func (o Orbit) SemiParameter() float64 {
	return o.p
}

// Apoapsis returns the apoapsis radius, +Inf for unbound orbits.
func (o Orbit) Apoapsis() float64 {
	if !o.Bound() {
		return math.Inf(1)
	}
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis radius (valid for all conic types).
func (o Orbit) Periapsis() float64 {
	return o.p / (1 + o.e)
}

// Tildeω returns the longitude of periapsis.
func (o Orbit) Tildeω() float64 {
	return math.Mod(o.ω+o.Ω, 2*math.Pi)
}

// TrueLongλ returns the *approximate* true longitude (cf. Vallado page 103).
// NOTE: One should only need this for equatorial orbits.
func (o Orbit) TrueLongλ() float64 {
	return math.Mod(o.ω+o.Ω+o.ν, 2*math.Pi)
}

// ArgLatitudeU returns the argument of latitude.
func (o Orbit) ArgLatitudeU() float64 {
	return math.Mod(o.ν+o.ω, 2*math.Pi)
}

// H returns the orbital angular momentum vector.
func (o Orbit) H() []float64 {
	return cross(o.RV())
}

// HNorm returns the norm of the orbital angular momentum.
func (o Orbit) HNorm() float64 {
	return math.Sqrt(o.p * o.Origin.μ)
}

// Period returns the orbital period in seconds. Panics on unbound orbits as
// calling this is a programming contract violation.
func (o Orbit) Period() float64 {
	if !o.Bound() {
		panic(fmt.Errorf("period undefined on %s orbit", o.Type()))
	}
	return 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.Origin.μ)
}

// MeanMotion returns the mean motion n (rad/s); hyperbolic mean motion for
// unbound orbits.
func (o Orbit) MeanMotion() float64 {
	switch o.Type() {
	case Hyperbolic:
		return math.Sqrt(o.Origin.μ / math.Pow(-o.a, 3))
	case Parabolic:
		return 2 * math.Sqrt(o.Origin.μ/math.Pow(o.p, 3))
	default:
		return math.Sqrt(o.Origin.μ / math.Pow(o.a, 3))
	}
}

// SinCosE returns the eccentric anomaly trig functions (sin and cos).
func (o Orbit) SinCosE() (sinE, cosE float64) {
	sinν, cosν := math.Sincos(o.ν)
	denom := 1 + o.e*cosν
	sinE = math.Sqrt(1-o.e*o.e) * sinν / denom
	cosE = (o.e + cosν) / denom
	return
}

// RV returns the Cartesian position and velocity in the origin-centered
// inertial frame. The result is cached until the elements change.
func (o *Orbit) RV() ([]float64, []float64) {
	if o.hashValid() {
		return o.cachedR, o.cachedV
	}
	// Support special orbits.
	ν := o.ν
	ω := o.ω
	Ω := o.Ω
	if o.e < eccentricityε {
		ω = 0
		if o.i < angleε {
			// Circular equatorial
			Ω = 0
			ν = o.TrueLongλ()
		} else {
			// Circular inclined
			ν = o.ArgLatitudeU()
		}
	} else if o.i < angleε {
		Ω = 0
		ω = o.Tildeω()
	}

	sinν, cosν := math.Sincos(ν)
	R := []float64{o.p * cosν / (1 + o.e*cosν), o.p * sinν / (1 + o.e*cosν), 0}
	R = PQW2ECI(o.i, ω, Ω, R)

	V := []float64{-math.Sqrt(o.Origin.μ/o.p) * sinν, math.Sqrt(o.Origin.μ/o.p) * (o.e + cosν), 0}
	V = PQW2ECI(o.i, ω, Ω, V)

	o.cachedR = R
	o.cachedV = V
	o.computeHash()
	return R, V
}

// R returns the radius vector.
func (o Orbit) R() (R []float64) {
	R, _ = o.RV()
	return R
}

// RNorm returns the norm of the radius vector without computing the vector.
func (o Orbit) RNorm() float64 {
	return o.p / (1 + o.e*math.Cos(o.ν))
}

// V returns the velocity vector.
func (o Orbit) V() (V []float64) {
	_, V = o.RV()
	return V
}

// VNorm returns the norm of the velocity vector without computing the vector.
func (o Orbit) VNorm() float64 {
	if o.Type() == Parabolic {
		return math.Sqrt(2 * o.Origin.μ / o.RNorm())
	}
	return math.Sqrt(o.Origin.μ * (2/o.RNorm() - 1/o.a))
}

// Elements returns the orbital elements of this orbit.
func (o *Orbit) Elements() (a, e, i, Ω, ω, ν float64) {
	return o.a, o.e, o.i, o.Ω, o.ω, o.ν
}

func (o *Orbit) computeHash() {
	o.cacheHash = o.ω + o.ν + o.Ω + o.i + o.e + o.p
}

func (o Orbit) hashValid() bool {
	return o.cacheHash == o.ω+o.ν+o.Ω+o.i+o.e+o.p
}

// Version returns a value which changes whenever the orbital elements change,
// allowing callers to invalidate cached plots or other derived views.
func (o Orbit) Version() float64 {
	return o.ω + o.ν + o.Ω + o.i + o.e + o.p
}

// String implements the stringer interface (hence the value receiver).
func (o Orbit) String() string {
	if o.e < eccentricityε {
		if o.i > angleε {
			return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f u=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ArgLatitudeU()))
		}
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f λ=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.TrueLongλ()))
	}
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.ν))
}

// Equals returns whether two orbits are identical with free true anomaly.
// Use StrictlyEquals to also check true anomaly.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if !o.Origin.Equals(o1.Origin) {
		return false, errors.New("different origin")
	}
	if !floats.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	if !floats.EqualWithinAbs(o.Ω, o1.Ω, angleε) {
		return false, errors.New("RAAN invalid")
	}
	if o.e < eccentricityε {
		if o.i > angleε {
			if !floats.EqualWithinAbs(o.ArgLatitudeU(), o1.ArgLatitudeU(), angleε) {
				return false, errors.New("argument of latitude invalid")
			}
		} else if !floats.EqualWithinAbs(o.TrueLongλ(), o1.TrueLongλ(), angleε) {
			return false, errors.New("true longitude invalid")
		}
	} else if !floats.EqualWithinAbs(o.ω, o1.ω, angleε) {
		return false, errors.New("argument of perigee invalid")
	}
	return true, nil
}

// StrictlyEquals returns whether two orbits are identical.
func (o Orbit) StrictlyEquals(o1 Orbit) (bool, error) {
	if o.e > eccentricityε && !floats.EqualWithinAbs(o.ν, o1.ν, angleε) {
		return false, errors.New("true anomaly invalid")
	}
	return o.Equals(o1)
}

// NewOrbitFromOE creates an orbit from the provided orbital elements.
// WARNING: Angles must be in degrees not radians.
func NewOrbitFromOE(a, e, i, Ω, ω, ν float64, c CelestialObject) *Orbit {
	// Making an approximation for circular and equatorial orbits.
	if e < eccentricityε {
		e = eccentricityε
	}
	if i < angleε {
		i = angleε
	}
	orbit := Orbit{a: a, e: e, i: Deg2rad(i), Ω: Deg2rad(Ω), ω: Deg2rad(ω), ν: Deg2rad(ν), p: a * (1 - e*e), Origin: c}
	orbit.RV()
	return &orbit
}

// NewOrbitFromRV returns the orbital elements from the R and V vectors,
// expressed in the inertial frame centered on the origin body.
// From Vallado's RV2COE (page 113), extended to unbound orbits: degenerate
// direction vectors (equatorial node line, circular eccentricity vector) fall
// back to fixed reference axes instead of producing NaNs.
func NewOrbitFromRV(R, V []float64, c CelestialObject) *Orbit {
	hVec := cross(R, V)
	h := norm(hVec)
	n := cross([]float64{0, 0, 1}, hVec)
	v := norm(V)
	r := norm(R)
	ξ := (v*v)/2 - c.μ/r
	p := h * h / c.μ

	eVec := make([]float64, 3)
	for i := 0; i < 3; i++ {
		eVec[i] = ((v*v-c.μ/r)*R[i] - dot(R, V)*V[i]) / c.μ
	}
	e := norm(eVec)

	var a float64
	if floats.EqualWithinAbs(e, 1, eccentricityε) {
		a = math.Inf(1) // parabolic, the semi-parameter carries the geometry
	} else {
		a = -c.μ / (2 * ξ)
	}

	i := math.Acos(hVec[2] / h)

	var Ω float64
	if norm(n) < 1e-12 {
		// Equatorial: the node line is undefined, fall back to the x axis.
		n = []float64{1, 0, 0}
		Ω = 0
	} else {
		Ω = math.Acos(n[0] / norm(n))
		if n[1] < 0 {
			Ω = 2*math.Pi - Ω
		}
	}

	var ω float64
	if e < eccentricityε {
		// Circular: the eccentricity vector is undefined, periapsis falls
		// back to the node line.
		ω = 0
		eVec = unit(n)
	} else {
		ω = math.Acos(dot(n, eVec) / (norm(n) * e))
		if math.IsNaN(ω) {
			ω = 0
		}
		if eVec[2] < 0 {
			ω = 2*math.Pi - ω
		}
	}

	νref := e
	if e < eccentricityε {
		νref = 1 // eVec is a unit fallback axis here
	}
	cosν := dot(eVec, R) / (νref * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && floats.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = sign(cosν) // rounding pushed us out of the Acos domain
	}
	ν := math.Acos(cosν)
	if dot(R, V) < 0 {
		ν = 2*math.Pi - ν
	}

	// Fix rounding errors.
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)

	orbit := Orbit{a: a, e: e, i: i, Ω: Ω, ω: ω, ν: ν, p: p, Origin: c,
		cachedR: append([]float64(nil), R...), cachedV: append([]float64(nil), V...)}
	orbit.computeHash()
	return &orbit
}

// CalculateOrbit derives the osculating orbit of an object from its
// primary-relative state.
func CalculateOrbit(relState State, c CelestialObject) *Orbit {
	return NewOrbitFromRV(relState.R, relState.V, c)
}

// Radii2ae returns the semi major axis and the eccentricity from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
