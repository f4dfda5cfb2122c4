package entity

import (
	"fmt"

	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/lookat"
	"github.com/milk9111/lookrig/prefabs"
	"github.com/milk9111/lookrig/skeleton"
)

// NewRig loads a rig prefab and spawns it with a bound solver.
func NewRig(w *ecs.World, filename string) (ecs.Entity, error) {
	spec, err := prefabs.LoadRigSpec(filename)
	if err != nil {
		return 0, fmt.Errorf("rig: load spec: %w", err)
	}
	return NewRigFromSpec(w, filename, spec)
}

func NewRigFromSpec(w *ecs.World, filename string, spec *prefabs.RigSpec) (ecs.Entity, error) {
	skel, err := spec.BuildSkeleton()
	if err != nil {
		return 0, fmt.Errorf("rig: %w", err)
	}
	mode, err := spec.TargetKind()
	if err != nil {
		return 0, fmt.Errorf("rig: %w", err)
	}

	solver := lookat.NewSolver(spec.SolverConfig())
	solver.InitializeBoneReferences(skel)
	solver.Initialize()

	blend := spec.BlendWeight
	if blend == 0 {
		blend = 1
	}
	scale := spec.Transform.Scale
	if scale == 0 {
		scale = 1
	}

	rig := w.CreateEntity()
	if err := ecs.Add(w, rig, component.TransformComponent, component.Transform{
		X:        spec.Transform.X,
		Y:        spec.Transform.Y,
		Z:        spec.Transform.Z,
		Scale:    scale,
		Rotation: spec.Transform.Rotation,
	}); err != nil {
		return 0, fmt.Errorf("rig: add transform: %w", err)
	}

	if err := ecs.Add(w, rig, component.RigComponent, &component.Rig{
		Name:        spec.Name,
		SpecFile:    filename,
		Skeleton:    skel,
		Pose:        skeleton.NewPose(skel),
		Solver:      solver,
		BlendWeight: blend,
		Mode:        mode,
	}); err != nil {
		return 0, fmt.Errorf("rig: add rig: %w", err)
	}

	if err := ecs.Add(w, rig, component.RenderLayerComponent, component.RenderLayer{Index: 1}); err != nil {
		return 0, fmt.Errorf("rig: add render layer: %w", err)
	}

	return rig, nil
}
