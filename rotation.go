package ofs

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Rot313Vec rotates a given vector via a 3-1-3 Euler rotation.
func Rot313Vec(θ1, θ2, θ3 float64, vI []float64) []float64 {
	return MxV33(R3R1R3(θ1, θ2, θ3), vI)
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat64.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat64.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// PQW2ECI converts a vector from the perifocal frame to the inertial frame.
func PQW2ECI(i, ω, Ω float64, vI []float64) []float64 {
	return Rot313Vec(-ω, -i, -Ω, vI)
}

// ECI2PQW converts a vector from the inertial frame to the perifocal frame.
func ECI2PQW(i, ω, Ω float64, vI []float64) []float64 {
	return Rot313Vec(Ω, i, ω, vI)
}

// Quaternion is a unit rotation quaternion (scalar first).
type Quaternion struct {
	W, X, Y, Z float64
}

// NewQuaternionFromAxisAngle returns the quaternion rotating by θ about the given axis.
func NewQuaternionFromAxisAngle(axis []float64, θ float64) Quaternion {
	u := unit(axis)
	s, c := math.Sincos(θ / 2)
	return Quaternion{c, s * u[0], s * u[1], s * u[2]}
}

// Mul returns the Hamilton product q*p, i.e. the rotation p followed by q.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion{
		q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
	}
}

// Conjugate returns the conjugate quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Rotate applies this rotation to the provided vector.
func (q Quaternion) Rotate(v []float64) []float64 {
	qv := Quaternion{0, v[0], v[1], v[2]}
	r := q.Mul(qv).Mul(q.Conjugate())
	return []float64{r.X, r.Y, r.Z}
}
