package ofs

import (
	"errors"
	"fmt"
	"math"
)

// ErrKeplerNoConvergence flags that the universal-variable iteration hit its
// iteration cap. The accompanying state is the best estimate and remains
// usable; the caller decides whether the degraded accuracy matters.
var ErrKeplerNoConvergence = errors.New("universal-variable iteration did not converge")

const (
	keplerMaxIter = 100
	keplerχε      = 1e-8
	// parabolicαε bounds |α|=|1/a| under which the orbit is treated as
	// parabolic when picking the initial universal anomaly.
	parabolicαε = 1e-6
)

// stumpff returns the C2 and C3 Stumpff coefficients for ψ = χ²α, switching
// to the series expansion near ψ=0 where the closed forms lose precision.
func stumpff(ψ float64) (c2, c3 float64) {
	switch {
	case ψ > parabolicαε:
		sψ := math.Sqrt(ψ)
		c2 = (1 - math.Cos(sψ)) / ψ
		c3 = (sψ - math.Sin(sψ)) / (sψ * sψ * sψ)
	case ψ < -parabolicαε:
		sψ := math.Sqrt(-ψ)
		c2 = (1 - math.Cosh(sψ)) / ψ
		c3 = (math.Sinh(sψ) - sψ) / (sψ * sψ * sψ)
	default:
		// Series truncated at the ψ³ term.
		c2 = 1/2. - ψ/24 + ψ*ψ/720 - ψ*ψ*ψ/40320
		c3 = 1/6. - ψ/120 + ψ*ψ/5040 - ψ*ψ*ψ/362880
	}
	return
}

// UniversalPropagate propagates a pure two-body state (R0, V0) around a body
// of gravitational parameter μ by Δt seconds using the universal-variable
// formulation (Vallado's KEPLER, algorithm 8): a single Newton-Raphson
// iteration on the universal anomaly χ handles elliptic, parabolic and
// hyperbolic motion without branching at the call site, and the Lagrange
// f and g coefficients map the initial state to the final one.
//
// On non-convergence within the iteration cap the best estimate is returned
// together with ErrKeplerNoConvergence; the iteration never loops unbounded.
// The inputs are never mutated.
func UniversalPropagate(R0, V0 []float64, μ, Δt float64) (R, V []float64, err error) {
	if Δt == 0 {
		return append([]float64(nil), R0...), append([]float64(nil), V0...), nil
	}
	r0 := norm(R0)
	v0 := norm(V0)
	sqrtμ := math.Sqrt(μ)
	rdotv := dot(R0, V0)
	α := 2/r0 - v0*v0/μ // 1/a

	// Initial guess per conic type.
	var χ float64
	switch {
	case α > parabolicαε: // elliptic
		χ = sqrtμ * Δt * α
	case α < -parabolicαε: // hyperbolic
		a := 1 / α
		χ = sign(Δt) * math.Sqrt(-a) *
			math.Log(-2*μ*α*Δt/(rdotv+sign(Δt)*math.Sqrt(-μ*a)*(1-r0*α)))
	default: // parabolic
		h := cross(R0, V0)
		p := dot(h, h) / μ
		s := 0.5 * math.Atan(1/(3*math.Sqrt(μ/(p*p*p))*Δt))
		w := math.Atan(math.Cbrt(math.Tan(s)))
		χ = math.Sqrt(p) * 2 / math.Tan(2*w)
	}

	var ψ, c2, c3, r float64
	converged := false
	for iter := 0; iter < keplerMaxIter; iter++ {
		ψ = χ * χ * α
		c2, c3 = stumpff(ψ)
		r = χ*χ*c2 + rdotv/sqrtμ*χ*(1-ψ*c3) + r0*(1-ψ*c2)
		Δχ := (sqrtμ*Δt - χ*χ*χ*c3 - rdotv/sqrtμ*χ*χ*c2 - r0*χ*(1-ψ*c3)) / r
		if math.IsNaN(Δχ) || math.IsInf(Δχ, 0) {
			// Diverged: restart from the safe elliptic-style guess.
			χ = sqrtμ * Δt * math.Abs(α)
			continue
		}
		// Clamp runaway Newton steps; the equation is stiff near parabolic.
		if limit := math.Abs(sqrtμ * Δt); math.Abs(Δχ) > limit && limit > 0 {
			Δχ = sign(Δχ) * limit
		}
		χ += Δχ
		if math.Abs(Δχ) < keplerχε {
			converged = true
			break
		}
	}
	// Recompute the auxiliaries at the final χ.
	ψ = χ * χ * α
	c2, c3 = stumpff(ψ)
	r = χ*χ*c2 + rdotv/sqrtμ*χ*(1-ψ*c3) + r0*(1-ψ*c2)

	f := 1 - χ*χ*c2/r0
	g := Δt - χ*χ*χ*c3/sqrtμ
	fDot := sqrtμ / (r * r0) * χ * (ψ*c3 - 1)
	gDot := 1 - χ*χ*c2/r

	R = make([]float64, 3)
	V = make([]float64, 3)
	for i := 0; i < 3; i++ {
		R[i] = f*R0[i] + g*V0[i]
		V[i] = fDot*R0[i] + gDot*V0[i]
	}
	if !converged {
		return R, V, ErrKeplerNoConvergence
	}
	return R, V, nil
}

// KeplerSolve propagates an object in exact two-body motion to elapsedTime
// seconds ahead and returns its new absolute state, accounting for the motion
// of the primary body itself: the initial state is made relative against the
// primary state at epoch and the result is re-expressed against the primary
// state at the target time. The inputs are not mutated.
//
// Calling this with an orbit that is not centered on the primary of the
// provided states is a programming error and panics.
func KeplerSolve(obj PhysicsObject, primaryAtEpoch State, initial State, initialOrbit *Orbit, primaryAtTime State, elapsedTime float64) (State, error) {
	if initialOrbit == nil {
		panic("KeplerSolve requires the initial orbit")
	}
	rel := initial.MakeRelative(primaryAtEpoch)
	if got := NewOrbitFromRV(rel.R, rel.V, initialOrbit.Origin); math.Abs(got.p-initialOrbit.p) > distanceε {
		panic(fmt.Errorf("inconsistent object/orbit pairing: state gives p=%f, orbit has p=%f", got.p, initialOrbit.p))
	}
	R, V, err := UniversalPropagate(rel.R, rel.V, initialOrbit.Origin.μ, elapsedTime)

	out := rel.Clone()
	out.R = R
	out.V = V
	out.A = initialOrbit.Origin.GravityAccel(R)
	out = out.MakeAbsolute(primaryAtTime)
	out.Epoch = initial.Epoch + elapsedTime
	if period := obj.RotationPeriod(); period != 0 {
		out.Rotation = math.Mod(initial.Rotation+2*math.Pi*elapsedTime/period, 2*math.Pi)
	}
	return out, err
}
