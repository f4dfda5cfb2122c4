package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lookrig/lookat"
	"github.com/milk9111/lookrig/skeleton"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec [3]float64

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
}

// BoneTransformSpec is a parent-relative bone offset; rotation is XYZ euler degrees.
type BoneTransformSpec struct {
	Translation Vec3Spec `yaml:"translation,flow"`
	Rotation    Vec3Spec `yaml:"rotation,flow"`
}

func (b BoneTransformSpec) Transform() skeleton.Transform {
	rot := mgl64.AnglesToQuat(
		mgl64.DegToRad(b.Rotation[0]),
		mgl64.DegToRad(b.Rotation[1]),
		mgl64.DegToRad(b.Rotation[2]),
		mgl64.XYZ,
	)
	return skeleton.NewTransform(b.Translation.Vec3(), rot)
}

type BoneSpec struct {
	Name              string `yaml:"name"`
	Parent            string `yaml:"parent"`
	BoneTransformSpec `yaml:",inline"`
}

type SocketSpec struct {
	Name              string `yaml:"name"`
	Bone              string `yaml:"bone"`
	BoneTransformSpec `yaml:",inline"`
}

type SkeletonSpec struct {
	Bones   []BoneSpec   `yaml:"bones"`
	Sockets []SocketSpec `yaml:"sockets"`
}

type SolverSpec struct {
	FrequencyHz          float64  `yaml:"frequency_hz"`
	SpringDamping        float64  `yaml:"spring_damping"`
	SpringStrength       float64  `yaml:"spring_strength"`
	SpringStiffness      float64  `yaml:"spring_stiffness"`
	EyeSocket            string   `yaml:"eye_socket"`
	AllowOutsideGameplay bool     `yaml:"allow_outside_gameplay"`
	ReferenceAxis        Vec3Spec `yaml:"reference_axis,flow"`
}

type LookBoneSpec struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type RigSpec struct {
	Name        string         `yaml:"name"`
	Transform   TransformSpec  `yaml:"transform"`
	BlendWeight float64        `yaml:"blend_weight"`
	TargetMode  string         `yaml:"target_mode"`
	Solver      SolverSpec     `yaml:"solver"`
	Skeleton    SkeletonSpec   `yaml:"skeleton"`
	LookBones   []LookBoneSpec `yaml:"look_bones"`
}

// LoadRigSpec loads and validates a rig prefab.
func LoadRigSpec(filename string) (*RigSpec, error) {
	spec, err := LoadSpec[RigSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

func (r *RigSpec) Validate() error {
	if len(r.Skeleton.Bones) == 0 {
		return fmt.Errorf("%w: no bones", ErrInvalidSpec)
	}
	if len(r.LookBones) == 0 {
		return fmt.Errorf("%w: no look_bones", ErrInvalidSpec)
	}
	for _, lb := range r.LookBones {
		if lb.Weight <= 0 {
			return fmt.Errorf("%w: look bone %s weight %v must be positive", ErrInvalidSpec, lb.Name, lb.Weight)
		}
	}
	if r.Solver.FrequencyHz < 0 {
		return fmt.Errorf("%w: negative frequency_hz", ErrInvalidSpec)
	}
	if r.Solver.EyeSocket == "" {
		return fmt.Errorf("%w: missing eye_socket", ErrInvalidSpec)
	}
	if _, err := r.TargetKind(); err != nil {
		return err
	}
	return nil
}

// TargetKind maps target_mode to a solver target kind. Empty means actor.
func (r *RigSpec) TargetKind() (lookat.TargetKind, error) {
	switch r.TargetMode {
	case "", "actor":
		return lookat.TargetActor, nil
	case "location", "script":
		return lookat.TargetWorldLocation, nil
	default:
		return lookat.TargetActor, fmt.Errorf("%w: unknown target_mode %q", ErrInvalidSpec, r.TargetMode)
	}
}

// SolverConfig converts the spec into solver settings, filling unset values
// with solver defaults.
func (r *RigSpec) SolverConfig() lookat.Config {
	cfg := lookat.DefaultConfig()
	s := r.Solver
	if s.FrequencyHz > 0 {
		cfg.SolverFrequencyHz = s.FrequencyHz
	}
	if s.SpringDamping > 0 {
		cfg.SpringDamping = s.SpringDamping
	}
	if s.SpringStrength > 0 {
		cfg.SpringStrength = s.SpringStrength
	}
	if s.SpringStiffness > 0 {
		cfg.SpringStiffness = s.SpringStiffness
	}
	if s.ReferenceAxis != (Vec3Spec{}) {
		cfg.ReferenceAxis = s.ReferenceAxis.Vec3()
	}
	cfg.EyeSocketName = s.EyeSocket
	cfg.AllowOutsideGameplay = s.AllowOutsideGameplay
	cfg.Bones = make([]lookat.BoneSetting, 0, len(r.LookBones))
	for _, lb := range r.LookBones {
		cfg.Bones = append(cfg.Bones, lookat.BoneSetting{Name: lb.Name, Weight: lb.Weight})
	}
	return cfg
}

// BuildSkeleton creates the bone hierarchy and sockets described by the spec.
func (r *RigSpec) BuildSkeleton() (*skeleton.Skeleton, error) {
	skel := skeleton.New()
	for _, b := range r.Skeleton.Bones {
		if _, err := skel.AddBone(b.Name, b.Parent, b.Transform()); err != nil {
			return nil, fmt.Errorf("prefabs: rig %s: %w", r.Name, err)
		}
	}
	for _, s := range r.Skeleton.Sockets {
		if err := skel.AddSocket(s.Name, s.Bone, s.Transform()); err != nil {
			return nil, fmt.Errorf("prefabs: rig %s: %w", r.Name, err)
		}
	}
	return skel, nil
}

// ApplySolverConfig writes live solver settings back into the spec.
func (r *RigSpec) ApplySolverConfig(cfg lookat.Config) {
	r.Solver.FrequencyHz = cfg.SolverFrequencyHz
	r.Solver.SpringDamping = cfg.SpringDamping
	r.Solver.SpringStrength = cfg.SpringStrength
	r.Solver.SpringStiffness = cfg.SpringStiffness
	r.Solver.EyeSocket = cfg.EyeSocketName
	r.Solver.AllowOutsideGameplay = cfg.AllowOutsideGameplay
	r.Solver.ReferenceAxis = Vec3Spec(cfg.ReferenceAxis)
	r.LookBones = r.LookBones[:0]
	for _, b := range cfg.Bones {
		r.LookBones = append(r.LookBones, LookBoneSpec{Name: b.Name, Weight: b.Weight})
	}
}

// Marshal encodes the spec back to YAML.
func (r *RigSpec) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal rig %s: %w", r.Name, err)
	}
	return data, nil
}

type VelocitySpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ActorTargetSpec struct {
	Name       string        `yaml:"name"`
	Transform  TransformSpec `yaml:"transform"`
	Radius     float64       `yaml:"radius"`
	Mass       float64       `yaml:"mass"`
	Elasticity float64       `yaml:"elasticity"`
	Velocity   VelocitySpec  `yaml:"velocity"`
}

type ScriptTargetSpec struct {
	Name   string  `yaml:"name"`
	Script string  `yaml:"script"`
	Radius float64 `yaml:"radius"`
}

type CameraSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

type BoundsSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SceneSpec lists everything the sandbox spawns.
type SceneSpec struct {
	Name          string             `yaml:"name"`
	Camera        CameraSpec         `yaml:"camera"`
	Bounds        BoundsSpec         `yaml:"bounds"`
	Gravity       float64            `yaml:"gravity"`
	Rigs          []string           `yaml:"rigs"`
	ActorTargets  []ActorTargetSpec  `yaml:"actor_targets"`
	ScriptTargets []ScriptTargetSpec `yaml:"script_targets"`
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	if len(spec.Rigs) == 0 {
		return nil, fmt.Errorf("prefabs: %s: %w: no rigs", filename, ErrInvalidSpec)
	}
	return &spec, nil
}
