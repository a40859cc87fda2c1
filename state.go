package ofs

// State defines the kinematic state of a physics object at a given epoch.
// R, V and A are expressed in a single consistent frame: either absolute or
// relative to a primary body. Call sites must be explicit about which frame a
// state is in, and use MakeRelative/MakeAbsolute/SwapFrame to translate.
type State struct {
	Epoch    float64   // seconds since simulation start
	R        []float64 // position (km)
	V        []float64 // velocity (km/s)
	A        []float64 // latest acceleration estimate (km/s^2), diagnostic only
	Rotation float64   // rotation about the object spin axis (rad)
	Impacted bool      // whether this object rests on the primary body surface
}

// NewState returns a zeroed state at the given epoch.
func NewState(epoch float64) State {
	return State{epoch, make([]float64, 3), make([]float64, 3), make([]float64, 3), 0, false}
}

// Clone returns a deep copy of this state.
func (s State) Clone() State {
	c := s
	c.R = append([]float64(nil), s.R...)
	c.V = append([]float64(nil), s.V...)
	c.A = append([]float64(nil), s.A...)
	return c
}

// MakeRelative translates this absolute state into the frame of the provided
// primary body state, without modifying the receiver.
func (s State) MakeRelative(primary State) State {
	c := s.Clone()
	c.R = sub(s.R, primary.R)
	c.V = sub(s.V, primary.V)
	return c
}

// MakeAbsolute translates this primary-relative state back into the absolute
// frame, without modifying the receiver.
func (s State) MakeAbsolute(primary State) State {
	c := s.Clone()
	c.R = add(s.R, primary.R)
	c.V = add(s.V, primary.V)
	return c
}

// SwapFrame translates this state from the frame of one primary body to the
// frame of another.
func (s State) SwapFrame(from, to State) State {
	return s.MakeAbsolute(from).MakeRelative(to)
}
