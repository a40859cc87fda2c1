package ofs

import (
	"fmt"
	"math"
)

// OrbitPosition is a position along an orbit given by its true anomaly. All
// queries are pure and share the Kepler solver's sign conventions (anomalies
// measured from periapsis, increasing along the motion).
type OrbitPosition struct {
	Orbit *Orbit
	ν     float64
}

// NewOrbitPosition returns the position of the orbit at its own true anomaly.
func NewOrbitPosition(o *Orbit) OrbitPosition {
	return OrbitPosition{o, o.ν}
}

// NewOrbitPositionAt returns the position of the orbit at the given true
// anomaly (radians).
func NewOrbitPositionAt(o *Orbit, ν float64) OrbitPosition {
	return OrbitPosition{o, math.Mod(ν, 2*math.Pi)}
}

// TrueAnomaly returns the true anomaly (radians).
func (op OrbitPosition) TrueAnomaly() float64 {
	return op.ν
}

// EccentricAnomaly returns the eccentric anomaly E in [0, 2π). Only valid on
// elliptic orbits.
func (op OrbitPosition) EccentricAnomaly() float64 {
	e := op.Orbit.e
	sinν, cosν := math.Sincos(op.ν)
	denom := 1 + e*cosν
	E := math.Atan2(math.Sqrt(1-e*e)*sinν/denom, (e+cosν)/denom)
	if E < 0 {
		E += 2 * math.Pi
	}
	return E
}

// HyperbolicAnomaly returns the hyperbolic anomaly H. Only valid on
// hyperbolic orbits.
func (op OrbitPosition) HyperbolicAnomaly() float64 {
	e := op.Orbit.e
	return 2 * math.Atanh(math.Sqrt((e-1)/(e+1))*math.Tan(νHalf(op.ν)))
}

// ParabolicAnomaly returns the parabolic anomaly D = tan(ν/2).
func (op OrbitPosition) ParabolicAnomaly() float64 {
	return math.Tan(νHalf(op.ν))
}

// νHalf maps ν to (-π, π] before halving so that the anomaly is negative
// before periapsis.
func νHalf(ν float64) float64 {
	if ν > math.Pi {
		ν -= 2 * math.Pi
	}
	return ν / 2
}

// MeanAnomaly returns the mean anomaly for the conic type of the underlying
// orbit: E−e·sinE, e·sinhH−H, or Barker's D+D³/3.
func (op OrbitPosition) MeanAnomaly() float64 {
	switch op.Orbit.Type() {
	case Hyperbolic:
		H := op.HyperbolicAnomaly()
		return op.Orbit.e*math.Sinh(H) - H
	case Parabolic:
		D := op.ParabolicAnomaly()
		return D + math.Pow(D, 3)/3
	default:
		E := op.EccentricAnomaly()
		return E - op.Orbit.e*math.Sin(E)
	}
}

// TimeSincePeriapsis returns the elapsed time (s) since the last periapsis
// passage; negative before periapsis on unbound orbits.
func (op OrbitPosition) TimeSincePeriapsis() float64 {
	M := op.MeanAnomaly()
	switch op.Orbit.Type() {
	case Parabolic:
		// Barker's equation: t-T = ½√(p³/μ)·(D+D³/3)
		return 0.5 * math.Sqrt(math.Pow(op.Orbit.p, 3)/op.Orbit.Origin.μ) * M
	default:
		return M / op.Orbit.MeanMotion()
	}
}

// TimeToPeriapsis returns the time (s) until the next periapsis passage. For
// unbound orbits past periapsis the result is negative: there is no next
// passage.
func (op OrbitPosition) TimeToPeriapsis() float64 {
	if op.Orbit.Bound() {
		M := op.MeanAnomaly()
		return (2*math.Pi - M) / op.Orbit.MeanMotion()
	}
	return -op.TimeSincePeriapsis()
}

// TimeToApoapsis returns the time (s) until the next apoapsis passage, +Inf
// on unbound orbits (the apoapsis is undefined).
func (op OrbitPosition) TimeToApoapsis() float64 {
	if !op.Orbit.Bound() {
		return math.Inf(1)
	}
	M := op.MeanAnomaly()
	t := (math.Pi - M) / op.Orbit.MeanMotion()
	if t < 0 {
		t += op.Orbit.Period()
	}
	return t
}

// RV returns the Cartesian state at this position in the origin-centered
// inertial frame.
func (op OrbitPosition) RV() ([]float64, []float64) {
	o := *op.Orbit
	o.ν = op.ν
	o.cachedR, o.cachedV = nil, nil
	o.cacheHash = math.NaN() // force recomputation on the copy
	return o.RV()
}

// AnomalyFromMean inverts Kepler's equation M = E − e·sinE via Newton-Raphson
// and returns the eccentric anomaly. Converges for any elliptic eccentricity.
func AnomalyFromMean(M, e float64) float64 {
	if e < 0 || e >= 1 {
		panic(fmt.Errorf("eccentric anomaly undefined for e=%f", e))
	}
	E := M
	if e > 0.8 {
		E = math.Pi
	}
	for iter := 0; iter < 50; iter++ {
		ΔE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= ΔE
		if math.Abs(ΔE) < 1e-12 {
			break
		}
	}
	return E
}

// TrueAnomalyFromEccentric converts an eccentric anomaly to a true anomaly.
func TrueAnomalyFromEccentric(E, e float64) float64 {
	ν := 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(E/2), math.Sqrt(1-e)*math.Cos(E/2))
	if ν < 0 {
		ν += 2 * math.Pi
	}
	return ν
}
