package lookat

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultSolverFrequencyHz = 120.0
	DefaultSpringDamping     = 1.0
	DefaultSpringStrength    = 1.0
	DefaultSpringStiffness   = 12.0
)

// BoneSetting is one author-time entry of the controlled bone list.
type BoneSetting struct {
	Name   string
	Weight float64
}

// Config holds the author-time constants of a solver.
type Config struct {
	SolverFrequencyHz float64
	// SpringDamping is the damping ratio; 1 is critical.
	SpringDamping float64
	// SpringStrength scales the oscillator frequency derived from SpringStiffness.
	SpringStrength  float64
	SpringStiffness float64

	EyeSocketName        string
	AllowOutsideGameplay bool

	// ReferenceAxis is the bone-local axis aimed at the target.
	ReferenceAxis mgl64.Vec3

	Bones []BoneSetting
}

func DefaultConfig() Config {
	return Config{
		SolverFrequencyHz: DefaultSolverFrequencyHz,
		SpringDamping:     DefaultSpringDamping,
		SpringStrength:    DefaultSpringStrength,
		SpringStiffness:   DefaultSpringStiffness,
		ReferenceAxis:     mgl64.Vec3{1, 0, 0},
	}
}

func (c Config) sanitized() Config {
	if c.SolverFrequencyHz <= 0 {
		c.SolverFrequencyHz = DefaultSolverFrequencyHz
	}
	if c.ReferenceAxis.Len() < directionEpsilon {
		c.ReferenceAxis = mgl64.Vec3{1, 0, 0}
	}
	c.ReferenceAxis = c.ReferenceAxis.Normalize()
	c.Bones = append([]BoneSetting(nil), c.Bones...)
	return c
}

func sameBones(a, b []BoneSetting) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
