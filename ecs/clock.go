package ecs

// Clock carries the frame timing shared by all systems.
type Clock struct {
	// Delta is the unscaled wall time of the current frame in seconds.
	Delta     float64
	TimeScale float64
	// Elapsed is scaled simulation time; it does not advance while paused.
	Elapsed float64
	Paused  bool
	Frame   uint64
}

// Advance starts a new frame of delta seconds.
func (c *Clock) Advance(delta float64) {
	if delta < 0 {
		delta = 0
	}
	c.Delta = delta
	c.Frame++
	if !c.Paused {
		c.Elapsed += delta * c.TimeScale
	}
}

// ScaledDelta is Delta with the time scale applied, zero while paused.
func (c *Clock) ScaledDelta() float64 {
	if c.Paused {
		return 0
	}
	return c.Delta * c.TimeScale
}

// DilatedDelta is Delta with the time scale applied, kept running while
// paused for consumers that tick outside gameplay.
func (c *Clock) DilatedDelta() float64 {
	return c.Delta * c.TimeScale
}
