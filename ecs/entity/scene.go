package entity

import (
	"fmt"

	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/prefabs"
)

// NewCamera spawns the view camera at the origin.
func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, error) {
	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	smooth := spec.Smoothness
	if smooth <= 0 {
		smooth = 0.1
	}

	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.TransformComponent, component.Transform{Scale: 1}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent, component.Camera{Zoom: zoom, Smoothness: smooth}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}

// BuildScene spawns the camera, rigs and targets described by a scene spec.
// rigOverride, when set, replaces the scene's rig list.
func BuildScene(w *ecs.World, scene *prefabs.SceneSpec, rigOverride string) error {
	if _, err := NewCamera(w, scene.Camera); err != nil {
		return err
	}

	rigs := scene.Rigs
	if rigOverride != "" {
		rigs = []string{rigOverride}
	}
	for _, file := range rigs {
		if _, err := NewRig(w, file); err != nil {
			return fmt.Errorf("scene %s: %w", scene.Name, err)
		}
	}
	for _, t := range scene.ActorTargets {
		if _, err := NewActorTarget(w, t); err != nil {
			return fmt.Errorf("scene %s: %s: %w", scene.Name, t.Name, err)
		}
	}
	for _, t := range scene.ScriptTargets {
		if _, err := NewScriptTarget(w, t); err != nil {
			return fmt.Errorf("scene %s: %s: %w", scene.Name, t.Name, err)
		}
	}
	return nil
}
