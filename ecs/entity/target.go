package entity

import (
	"fmt"

	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/prefabs"
)

// NewActorTarget spawns a physics ball that actor-mode rigs look at.
func NewActorTarget(w *ecs.World, spec prefabs.ActorTargetSpec) (ecs.Entity, error) {
	radius := spec.Radius
	if radius <= 0 {
		radius = 10
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}

	target := w.CreateEntity()
	if err := ecs.Add(w, target, component.TransformComponent, component.Transform{
		X:     spec.Transform.X,
		Y:     spec.Transform.Y,
		Z:     spec.Transform.Z,
		Scale: 1,
	}); err != nil {
		return 0, fmt.Errorf("actor target: add transform: %w", err)
	}
	if err := ecs.Add(w, target, component.ActorTargetComponent, component.ActorTarget{Radius: radius}); err != nil {
		return 0, fmt.Errorf("actor target: add tag: %w", err)
	}
	if err := ecs.Add(w, target, component.PhysicsBodyComponent, &component.PhysicsBody{
		Radius:     radius,
		Mass:       mass,
		Elasticity: spec.Elasticity,
		VelocityX:  spec.Velocity.X,
		VelocityY:  spec.Velocity.Y,
	}); err != nil {
		return 0, fmt.Errorf("actor target: add body: %w", err)
	}
	if err := ecs.Add(w, target, component.RenderLayerComponent, component.RenderLayer{Index: 2}); err != nil {
		return 0, fmt.Errorf("actor target: add render layer: %w", err)
	}
	return target, nil
}

// NewScriptTarget spawns a point moved by a tengo script.
func NewScriptTarget(w *ecs.World, spec prefabs.ScriptTargetSpec) (ecs.Entity, error) {
	script, err := prefabs.CompileTargetScript(spec.Script)
	if err != nil {
		return 0, fmt.Errorf("script target: %w", err)
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = 6
	}

	target := w.CreateEntity()
	pos, err := script.Position(0)
	if err != nil {
		return 0, fmt.Errorf("script target: %w", err)
	}
	if err := ecs.Add(w, target, component.TransformComponent, component.Transform{
		X:     pos.X(),
		Y:     pos.Y(),
		Z:     pos.Z(),
		Scale: 1,
	}); err != nil {
		return 0, fmt.Errorf("script target: add transform: %w", err)
	}
	if err := ecs.Add(w, target, component.ScriptTargetComponent, component.ScriptTarget{Script: script, Radius: radius}); err != nil {
		return 0, fmt.Errorf("script target: add script: %w", err)
	}
	if err := ecs.Add(w, target, component.RenderLayerComponent, component.RenderLayer{Index: 2}); err != nil {
		return 0, fmt.Errorf("script target: add render layer: %w", err)
	}
	return target, nil
}
