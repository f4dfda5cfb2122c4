package lookat

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lookrig/skeleton"
)

// minTargetDistanceSq rejects targets closer than half a unit to the eye.
const minTargetDistanceSq = 0.25

// Solver rotates a weighted bone chain toward a target using per-bone springs
// stepped at a fixed rate.
type Solver struct {
	cfg    Config
	target Target

	bones     []BoneEntry
	order     []int
	container BoneContainer
	scheduler FixedStepScheduler

	needsReinit  bool
	deltaSeconds float64
	warnedSocket string
}

var _ Node = (*Solver)(nil)

// NewSolver creates an unbound solver. Call InitializeBoneReferences before evaluating.
func NewSolver(cfg Config) *Solver {
	cfg = cfg.sanitized()
	s := &Solver{
		cfg:         cfg,
		bones:       newBoneEntries(cfg.Bones),
		scheduler:   FixedStepScheduler{FrequencyHz: cfg.SolverFrequencyHz},
		needsReinit: true,
	}
	s.applySpringConfig()
	return s
}

func (s *Solver) Config() Config {
	cfg := s.cfg
	cfg.Bones = append([]BoneSetting(nil), s.cfg.Bones...)
	return cfg
}

// SetConfig swaps author-time settings. Spring coefficients apply in place;
// a different bone list rebinds against the last container and reseeds.
func (s *Solver) SetConfig(cfg Config) {
	cfg = cfg.sanitized()
	rebind := !sameBones(cfg.Bones, s.cfg.Bones)
	s.cfg = cfg
	s.scheduler.FrequencyHz = cfg.SolverFrequencyHz
	if rebind {
		s.bones = newBoneEntries(cfg.Bones)
		s.order = nil
		if s.container != nil {
			s.InitializeBoneReferences(s.container)
		}
		s.needsReinit = true
	}
	s.applySpringConfig()
}

func (s *Solver) applySpringConfig() {
	for i := range s.bones {
		sp := &s.bones[i].spring
		sp.Stiffness = s.cfg.SpringStiffness
		sp.Damping = s.cfg.SpringDamping
		sp.Strength = s.cfg.SpringStrength
	}
}

func (s *Solver) SetTarget(t Target) {
	s.target = t
}

func (s *Solver) Target() Target {
	return s.target
}

// NeedsReinitialization reports whether the next evaluation will reseed.
func (s *Solver) NeedsReinitialization() bool {
	return s.needsReinit
}

// Scheduler exposes the fixed-step accumulator.
func (s *Solver) Scheduler() *FixedStepScheduler {
	return &s.scheduler
}

// Bones returns a snapshot of every controlled bone.
func (s *Solver) Bones() []BoneState {
	out := make([]BoneState, len(s.bones))
	for i := range s.bones {
		out[i] = s.bones[i].state()
	}
	return out
}

// Initialize prepares a freshly bound node.
func (s *Solver) Initialize() {
	s.needsReinit = true
	s.deltaSeconds = 0
	s.scheduler.Reset()
}

// ResetDynamics makes the next evaluation snap every bone to the target.
func (s *Solver) ResetDynamics() {
	s.needsReinit = true
}

// Update records the frame delta consumed by the next Evaluate.
func (s *Solver) Update(deltaSeconds float64) {
	s.deltaSeconds = deltaSeconds
}

// InitializeBoneReferences resolves bone names and recomputes biases.
func (s *Solver) InitializeBoneReferences(bones BoneContainer) {
	s.container = bones
	for i := range s.bones {
		idx := skeleton.InvalidBone
		if bones != nil {
			if resolved, ok := bones.BoneIndex(s.bones[i].Name); ok {
				idx = resolved
			}
		}
		s.bones[i].index = idx
	}
	computeBiases(s.bones)
	s.order = hierarchyOrder(s.bones)
}

// IsValidToEvaluate reports whether every configured bone resolved.
func (s *Solver) IsValidToEvaluate() bool {
	if len(s.bones) == 0 {
		return false
	}
	for i := range s.bones {
		if !s.bones[i].index.Valid() {
			return false
		}
	}
	return true
}

// Evaluate runs one animation tick against ctx.Pose. Any condition that makes
// the target unusable leaves both the pose and the solver state untouched.
func (s *Solver) Evaluate(ctx EvalContext) {
	delta := s.deltaSeconds
	s.deltaSeconds = 0

	if ctx.Pose == nil || !s.IsValidToEvaluate() {
		return
	}
	dir, ok := s.resolveTarget(ctx)
	if !ok {
		return
	}

	dilation := 1.0
	if ctx.World != nil {
		dilation = ctx.World.TimeDilation()
	}
	step := s.scheduler.Prepare(dilation)

	if s.needsReinit {
		s.seed(dir, step)
		s.needsReinit = false
	} else {
		s.simulate(dir, delta)
	}

	s.applyPose(ctx.Pose, ctx.Weight)
}

// resolveTarget returns the unit target direction in component space.
func (s *Solver) resolveTarget(ctx EvalContext) (mgl64.Vec3, bool) {
	targetPos, ok := s.target.position()
	if !ok {
		return mgl64.Vec3{}, false
	}
	if ctx.Mesh == nil {
		return mgl64.Vec3{}, false
	}
	socket, ok := ctx.Mesh.SocketWorldTransform(s.cfg.EyeSocketName)
	if !ok {
		if s.warnedSocket != s.cfg.EyeSocketName {
			log.Printf("lookat: eye socket %q not found, skipping", s.cfg.EyeSocketName)
			s.warnedSocket = s.cfg.EyeSocketName
		}
		return mgl64.Vec3{}, false
	}
	s.warnedSocket = ""

	if ctx.World != nil && !ctx.World.IsGameplayActive() && !s.cfg.AllowOutsideGameplay {
		return mgl64.Vec3{}, false
	}

	worldDir := targetPos.Sub(socket.Translation)
	sizeSq := worldDir.Dot(worldDir)
	if sizeSq < minTargetDistanceSq {
		return mgl64.Vec3{}, false
	}

	local := ctx.Mesh.ComponentToWorld().InverseTransformVectorNoScale(worldDir)
	return local.Mul(1 / math.Sqrt(sizeSq)), true
}

func (s *Solver) seed(dir mgl64.Vec3, step float64) {
	for i := range s.bones {
		b := &s.bones[i]
		b.previous = dir
		b.current = dir
		b.spring.Reset()
		b.spring.Update(dir, step)
	}
}

func (s *Solver) simulate(dir mgl64.Vec3, delta float64) {
	if s.scheduler.Negligible() {
		return
	}
	steps := s.scheduler.Advance(delta)
	if steps == 0 {
		return
	}
	step := s.scheduler.Step()

	if steps == 1 {
		for i := range s.bones {
			b := &s.bones[i]
			b.current = b.spring.Update(dir, step)
			b.previous = dir
		}
		return
	}

	// Spread the target's angular motion over the elapsed steps so a long
	// frame does not hand the spring one large jump.
	fraction := 1 / float64(steps)
	for i := range s.bones {
		b := &s.bones[i]
		full := mgl64.QuatBetweenVectors(b.previous, dir)
		increment := mgl64.QuatSlerp(mgl64.QuatIdent(), full, fraction).Normalize()
		for n := 1; n < steps; n++ {
			b.previous = increment.Rotate(b.previous)
			b.current = b.spring.Update(b.previous, step)
		}
		b.current = b.spring.Update(dir, step)
		b.previous = dir
	}
}

// applyPose walks bones parent first so each child aims from its parent's
// already rotated transform, whatever order the bones were configured in.
func (s *Solver) applyPose(pose PoseBuffer, weight float64) {
	for _, i := range s.order {
		b := &s.bones[i]
		alpha := b.bias * weight
		if alpha <= 0 {
			continue
		}
		if alpha > 1 {
			alpha = 1
		}

		comp := pose.ComponentTransform(b.index)
		axis := comp.Rotation.Rotate(s.cfg.ReferenceAxis)
		aim := mgl64.QuatBetweenVectors(axis, b.current)
		aimed := aim.Mul(comp.Rotation).Normalize()

		parentRot := mgl64.QuatIdent()
		if parent := pose.ParentIndex(b.index); parent.Valid() {
			parentRot = pose.ComponentTransform(parent).Rotation
		}
		desired := parentRot.Inverse().Mul(aimed).Normalize()

		local := pose.LocalTransform(b.index)
		if local.Rotation.Dot(desired) < 0 {
			desired = desired.Scale(-1)
		}
		local.Rotation = mgl64.QuatSlerp(local.Rotation, desired, alpha).Normalize()
		pose.SetLocalTransform(b.index, local)
	}
}
