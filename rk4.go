package ofs

import "math"

// AccelerationFunc evaluates the acceleration (km/s^2) of an object in a
// trial state at a given total time. It must be pure: the propagator
// evaluates it on intermediate trial states which are never observable
// outside a step.
type AccelerationFunc func(totalTime float64, trial State) []float64

// SolveRK4 advances the state of an object by one fixed step Δt of classical
// 4th-order Runge-Kutta under the provided acceleration function, and returns
// the new state. The input state is not modified.
//
// Impacted objects are not integrated: they follow the rotating surface of
// the primary body instead, their velocity deriving purely from the body
// rotation. Integration is otherwise unconditional; NaN inputs propagate
// rather than fail, and callers must guard against them.
func SolveRK4(primary *ReferenceBody, obj PhysicsObject, s State, totalTime, Δt float64, accel AccelerationFunc) State {
	if s.Impacted {
		return followSurface(primary, s, Δt)
	}

	// Stage derivatives k0..k3: each evaluates the acceleration on a trial
	// state advanced with the previous stage's velocity and acceleration.
	k0v, k0a := s.V, accel(totalTime, s)
	t1 := trialState(s, 0.5*Δt, k0v, k0a)
	k1v, k1a := t1.V, accel(totalTime+0.5*Δt, t1)
	t2 := trialState(s, 0.5*Δt, k1v, k1a)
	k2v, k2a := t2.V, accel(totalTime+0.5*Δt, t2)
	t3 := trialState(s, Δt, k2v, k2a)
	k3v, k3a := t3.V, accel(totalTime+Δt, t3)

	out := s.Clone()
	out.Epoch += Δt
	w := Δt / 6
	for i := 0; i < 3; i++ {
		out.R[i] += w * (k0v[i] + 2*k1v[i] + 2*k2v[i] + k3v[i])
		out.V[i] += w * (k0a[i] + 2*k1a[i] + 2*k2a[i] + k3a[i])
	}
	// Keep the latest extrapolated acceleration for external diagnostics.
	out.A = append([]float64(nil), k3a...)

	if period := obj.RotationPeriod(); period != 0 {
		out.Rotation = math.Mod(out.Rotation+2*math.Pi*Δt/period, 2*math.Pi)
	}
	return out
}

// trialState returns s advanced by h using the given stage velocity and
// acceleration.
func trialState(s State, h float64, v, a []float64) State {
	t := s.Clone()
	t.Epoch += h
	for i := 0; i < 3; i++ {
		t.R[i] += h * v[i]
		t.V[i] += h * a[i]
	}
	return t
}

// followSurface advances an impacted object kinematically with the rotation
// of its primary body: longitude advances at the body rotation rate and the
// velocity is the surface velocity at the new position.
func followSurface(primary *ReferenceBody, s State, Δt float64) State {
	rel := s.MakeRelative(primary.State)
	sph := Cartesian2Spherical(rel.R)
	sph[2] += primary.RotationRate() * Δt
	rel.R = Spherical2Cartesian(sph)
	rel.V = primary.SurfaceVelocity(rel.R)
	rel.A = []float64{0, 0, 0}

	out := rel.MakeAbsolute(primary.State)
	out.Epoch = s.Epoch + Δt
	out.Rotation = math.Mod(s.Rotation+primary.RotationRate()*Δt, 2*math.Pi)
	out.Impacted = true
	return out
}
