package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/lookat"
	"github.com/milk9111/lookrig/skeleton"
)

// LookTargetSystem evaluates every rig's solver against the nearest target
// matching its mode.
type LookTargetSystem struct{}

func NewLookTargetSystem() *LookTargetSystem {
	return &LookTargetSystem{}
}

func (s *LookTargetSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	events := w.Events()
	reset := events.Has(ecs.EventResetDynamics)
	toggle := events.Has(ecs.EventToggleTargetMode)
	clock := w.Clock()

	for _, e := range w.Query(component.RigComponent.Kind(), component.TransformComponent.Kind()) {
		rig, ok := ecs.Get(w, e, component.RigComponent)
		if !ok || rig == nil || rig.Solver == nil || rig.Pose == nil {
			continue
		}
		transform, _ := ecs.Get(w, e, component.TransformComponent)

		if toggle {
			rig.Mode = nextTargetKind(rig.Mode)
		}
		if reset {
			rig.Solver.ResetDynamics()
		}

		rig.Solver.SetTarget(resolveTarget(w, rig.Mode, transform))
		rig.Solver.Update(clock.DilatedDelta())

		// The solver layers on top of the reference pose each frame.
		rig.Pose.ResetToRefPose()
		rig.Solver.Evaluate(lookat.EvalContext{
			Pose:   rig.Pose,
			Mesh:   rigMesh{transform: transform, pose: rig.Pose},
			World:  w,
			Weight: rig.BlendWeight,
		})
	}
}

func nextTargetKind(k lookat.TargetKind) lookat.TargetKind {
	if k == lookat.TargetActor {
		return lookat.TargetWorldLocation
	}
	return lookat.TargetActor
}

// resolveTarget picks the closest actor target in actor mode, or the closest
// scripted point in location mode. With nothing to look at the target is an
// empty actor, which the solver skips.
func resolveTarget(w *ecs.World, mode lookat.TargetKind, from component.Transform) lookat.Target {
	origin := mgl64.Vec3{from.X, from.Y, from.Z}
	if mode == lookat.TargetActor {
		best, ok := closest(w, origin, component.ActorTargetComponent.Kind())
		if !ok {
			return lookat.ActorTarget(nil)
		}
		return lookat.ActorTarget(entityActor{world: w, entity: best})
	}

	best, ok := closest(w, origin, component.ScriptTargetComponent.Kind())
	if !ok {
		return lookat.ActorTarget(nil)
	}
	t, _ := ecs.Get(w, best, component.TransformComponent)
	return lookat.LocationTarget(transformPosition(t))
}

func closest(w *ecs.World, origin mgl64.Vec3, kind component.Kind) (ecs.Entity, bool) {
	var (
		best   ecs.Entity
		bestSq float64
		found  bool
	)
	for _, e := range w.Query(kind, component.TransformComponent.Kind()) {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		d := transformPosition(t).Sub(origin)
		sq := d.Dot(d)
		if !found || sq < bestSq {
			best, bestSq, found = e, sq, true
		}
	}
	return best, found
}

func transformPosition(t component.Transform) mgl64.Vec3 {
	return mgl64.Vec3{t.X, t.Y, t.Z}
}

// componentToWorld converts an entity transform into a rig's mesh space.
func componentToWorld(t component.Transform) skeleton.Transform {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return skeleton.Transform{
		Translation: transformPosition(t),
		Rotation:    mgl64.QuatRotate(t.Rotation, mgl64.Vec3{0, 1, 0}),
		Scale:       mgl64.Vec3{scale, scale, scale},
	}
}

// rigMesh exposes a rig entity to the solver.
type rigMesh struct {
	transform component.Transform
	pose      *skeleton.Pose
}

func (m rigMesh) ComponentToWorld() skeleton.Transform {
	return componentToWorld(m.transform)
}

func (m rigMesh) SocketWorldTransform(name string) (skeleton.Transform, bool) {
	socket, ok := m.pose.SocketTransform(name)
	if !ok {
		return skeleton.Transform{}, false
	}
	return socket.Compose(m.ComponentToWorld()), true
}

// entityActor exposes a target entity to the solver. It becomes invalid as
// soon as the entity is destroyed.
type entityActor struct {
	world  *ecs.World
	entity ecs.Entity
}

func (a entityActor) IsValid() bool {
	return a.world.IsAlive(a.entity) && ecs.Has(a.world, a.entity, component.TransformComponent)
}

func (a entityActor) WorldLocation() mgl64.Vec3 {
	t, _ := ecs.Get(a.world, a.entity, component.TransformComponent)
	return transformPosition(t)
}
