package ofs

import "math"

// DragProperties defines the static drag configuration of an object or stage.
type DragProperties struct {
	Area float64 // reference area (m^2)
	Cd   float64 // drag coefficient
}

// Atmosphere is a three-layer standard-atmosphere approximation: closed-form
// temperature and pressure per band (troposphere below 11 km, lower
// stratosphere 11-25 km, upper stratosphere above), density from the ideal
// gas relation. Formulas are the NASA Glenn earth-atmosphere model and work
// in SI internally; altitudes at the API are in km like the rest of the core.
type Atmosphere struct {
	EndAltitude float64 // altitude above which drag is exactly zero (km)
}

// earthAtmosphere ends at the Kármán line.
var earthAtmosphere = &Atmosphere{EndAltitude: 100}

// Inside returns whether the given altitude is within the atmosphere.
func (a *Atmosphere) Inside(altitude float64) bool {
	return a != nil && altitude < a.EndAltitude
}

// Properties returns the pressure (Pa), temperature (K) and density (kg/m^3)
// at the provided altitude (km).
func (a *Atmosphere) Properties(altitude float64) (pressure, temperature, density float64) {
	if !a.Inside(altitude) {
		return 0, 0, 0
	}
	h := altitude * 1e3 // m
	if h < 0 {
		h = 0
	}
	var tC, pKPa float64 // temperature in Celsius, pressure in kPa
	switch {
	case h < 11000:
		tC = 15.04 - 0.00649*h
		pKPa = 101.29 * math.Pow((tC+273.1)/288.08, 5.256)
	case h < 25000:
		tC = -56.46
		pKPa = 22.65 * math.Exp(1.73-0.000157*h)
	default:
		tC = -131.21 + 0.00299*h
		pKPa = 2.488 * math.Pow((tC+273.1)/216.6, -11.388)
	}
	temperature = tC + 273.1
	pressure = pKPa * 1e3
	density = pKPa / (0.2869 * temperature)
	return
}

// Density returns the density (kg/m^3) at the provided altitude (km).
func (a *Atmosphere) Density(altitude float64) float64 {
	_, _, ρ := a.Properties(altitude)
	return ρ
}

// DragForce returns the drag force (N) on an object moving at relV (km/s)
// with respect to the rotating surface frame. The force is exactly
// anti-parallel to relV and zero outside the atmosphere.
func (a *Atmosphere) DragForce(altitude float64, relV []float64, props DragProperties) []float64 {
	if !a.Inside(altitude) {
		return []float64{0, 0, 0}
	}
	ρ := a.Density(altitude)
	v := scale(1e3, relV) // m/s
	return scale(-0.5*ρ*norm(v)*props.Cd*props.Area, v)
}
