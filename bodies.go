package ofs

import (
	"fmt"
	"math"
	"strings"
)

// CelestialObject defines a celestial body of reference.
type CelestialObject struct {
	Name      string
	Radius    float64 // mean equatorial radius (km)
	a         float64 // semi-major axis of its own heliocentric orbit (km)
	μ         float64 // gravitational parameter (km^3/s^2)
	SOI       float64 // sphere of influence with respect to the Sun (km)
	RotPeriod float64 // sidereal rotation period (s)
	Atmo      *Atmosphere
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c CelestialObject) GM() float64 {
	return c.μ
}

// RotationRate returns the angular rotation rate about the spin axis (rad/s).
func (c CelestialObject) RotationRate() float64 {
	if c.RotPeriod == 0 {
		return 0
	}
	return 2 * math.Pi / c.RotPeriod
}

// Altitude returns the altitude above the surface for a body-relative position.
func (c CelestialObject) Altitude(relR []float64) float64 {
	return norm(relR) - c.Radius
}

// SurfaceVelocity returns the velocity of the rotating surface under the
// provided body-relative position, i.e. ω×r with ω along the spin axis.
func (c CelestialObject) SurfaceVelocity(relR []float64) []float64 {
	return cross([]float64{0, 0, c.RotationRate()}, relR)
}

// GravityAccel returns the two-body gravitational acceleration (km/s^2) at the
// provided body-relative position.
func (c CelestialObject) GravityAccel(relR []float64) []float64 {
	r := norm(relR)
	return scale(-c.μ/(r*r*r), relR)
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c *CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.a == b.a && c.μ == b.μ && c.SOI == b.SOI
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "mars":
		return Mars, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined body '%s'", name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 695700, -1, 1.32712440017987e11, -1, 2192832, nil}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378.1363, 149598023, 3.98600433e5, 924645.0, 86164.0905, earthAtmosphere}

// Moon is a harsh mistress.
var Moon = CelestialObject{"Moon", 1738.0, 384400, 4.902800066e3, 66100, 2360591.5, nil}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3396.19, 227939282.5616, 4.28283100e4, 576000, 88642.66, nil}
