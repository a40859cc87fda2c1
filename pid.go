package ofs

// PID is a standard proportional-integral-derivative controller:
// u = Kp·e + Ki·∫e·dt + Kd·de/dt. The integral and derivative terms only
// start accumulating after the first call so that initialization does not
// spike the output. The output is not clamped; bounding it is the caller's
// responsibility.
type PID struct {
	Kp, Ki, Kd float64
	integral   float64
	prevError  float64
	primed     bool
}

// NewPID returns a new controller with the provided gains.
func NewPID(kp, ki, kd float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd}
}

// Update feeds the controller the current error over the last Δt seconds and
// returns the control output.
func (c *PID) Update(err, Δt float64) float64 {
	u := c.Kp * err
	if c.primed && Δt > 0 {
		c.integral += err * Δt
		u += c.Ki*c.integral + c.Kd*(err-c.prevError)/Δt
	}
	c.prevError = err
	c.primed = true
	return u
}

// Reset clears the accumulated state, as if the controller had never run.
func (c *PID) Reset() {
	c.integral = 0
	c.prevError = 0
	c.primed = false
}
