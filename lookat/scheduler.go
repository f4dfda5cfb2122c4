package lookat

// FixedStepScheduler turns variable frame deltas into a whole number of
// constant-size simulation steps, carrying the remainder between ticks.
type FixedStepScheduler struct {
	FrequencyHz float64

	accumulated float64
	step        float64
}

func NewFixedStepScheduler(frequencyHz float64) *FixedStepScheduler {
	return &FixedStepScheduler{FrequencyHz: frequencyHz}
}

// Prepare recomputes the fixed step for this tick's time dilation.
func (s *FixedStepScheduler) Prepare(timeDilation float64) float64 {
	if s.FrequencyHz <= 0 {
		s.step = 0
		return 0
	}
	s.step = (1 / s.FrequencyHz) * timeDilation
	return s.step
}

// Negligible reports whether the current step is too small to integrate.
func (s *FixedStepScheduler) Negligible() bool {
	return s.step < minSpringStep
}

// Advance adds deltaSeconds to the accumulator and returns how many fixed
// steps elapsed. A negligible step leaves the accumulator untouched.
func (s *FixedStepScheduler) Advance(deltaSeconds float64) int {
	if s.Negligible() {
		return 0
	}
	if deltaSeconds > 0 {
		s.accumulated += deltaSeconds
	}
	steps := 0
	for s.accumulated > s.step {
		s.accumulated -= s.step
		steps++
	}
	return steps
}

func (s *FixedStepScheduler) Step() float64 {
	return s.step
}

func (s *FixedStepScheduler) Accumulated() float64 {
	return s.accumulated
}

func (s *FixedStepScheduler) Reset() {
	s.accumulated = 0
}
