package lookat

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// minSpringStep is the smallest timestep the spring will integrate.
	minSpringStep    = 1e-4
	directionEpsilon = 1e-6
)

// AngularSpring tracks a direction with a damped harmonic oscillator per axis.
// Each Update advances the state by exactly one step.
type AngularSpring struct {
	Stiffness float64
	Damping   float64
	Strength  float64

	value    mgl64.Vec3
	velocity mgl64.Vec3
	dir      mgl64.Vec3
	running  bool

	// coefficients are cached for the last (dt, frequency, damping) triple
	spring    harmonica.Spring
	dt        float64
	frequency float64
	ratio     float64
}

// Reset stops the spring. The next Update snaps to its target with zero velocity.
func (s *AngularSpring) Reset() {
	s.value = mgl64.Vec3{}
	s.velocity = mgl64.Vec3{}
	s.running = false
}

// Running reports whether the spring has been seeded since the last Reset.
func (s *AngularSpring) Running() bool {
	return s.running
}

// Velocity returns the per-axis velocity of the tracked vector.
func (s *AngularSpring) Velocity() mgl64.Vec3 {
	return s.velocity
}

// Direction returns the unit direction the spring currently points along.
func (s *AngularSpring) Direction() mgl64.Vec3 {
	return s.dir
}

// Update advances the spring one step of dt seconds toward target.
func (s *AngularSpring) Update(target mgl64.Vec3, dt float64) mgl64.Vec3 {
	if dt < minSpringStep {
		return s.dir
	}
	if !s.running {
		s.value = target
		s.velocity = mgl64.Vec3{}
		s.running = true
		s.refreshDirection()
		return s.dir
	}

	s.prepare(dt)
	for i := range s.value {
		s.value[i], s.velocity[i] = s.spring.Update(s.value[i], s.velocity[i], target[i])
	}
	s.refreshDirection()
	return s.dir
}

func (s *AngularSpring) prepare(dt float64) {
	frequency := s.Stiffness * s.Strength
	if dt == s.dt && frequency == s.frequency && s.Damping == s.ratio {
		return
	}
	s.spring = harmonica.NewSpring(dt, frequency, s.Damping)
	s.dt = dt
	s.frequency = frequency
	s.ratio = s.Damping
}

// refreshDirection keeps the last good direction while the tracked vector
// passes near the origin.
func (s *AngularSpring) refreshDirection() {
	l := s.value.Len()
	if l < directionEpsilon {
		return
	}
	if math.Abs(l-1) < 1e-12 {
		s.dir = s.value
		return
	}
	s.dir = s.value.Mul(1 / l)
}
