package system

import (
	"log"
	"strings"

	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/prefabs"
	"github.com/milk9111/lookrig/skeleton"
)

// ChangeSource reports edited prefab names and watch failures.
// *prefabs.Watcher implements it.
type ChangeSource interface {
	Poll() []string
	PollErrors() []error
}

// ConfigReloadSystem applies edited rig prefabs and target scripts to the
// live world without restarting the sandbox.
type ConfigReloadSystem struct {
	source ChangeSource
}

func NewConfigReloadSystem(source ChangeSource) *ConfigReloadSystem {
	return &ConfigReloadSystem{source: source}
}

func (s *ConfigReloadSystem) Update(w *ecs.World) {
	if s == nil || s.source == nil || w == nil {
		return
	}

	for _, err := range s.source.PollErrors() {
		log.Printf("reload: %v", err)
	}

	for _, name := range s.source.Poll() {
		if script, ok := strings.CutPrefix(name, "scripts/"); ok {
			s.reloadScript(w, script)
			continue
		}
		s.reloadRig(w, name)
	}
}

func (s *ConfigReloadSystem) reloadScript(w *ecs.World, name string) {
	script, err := prefabs.CompileTargetScript(name)
	if err != nil {
		log.Printf("reload: %v", err)
		return
	}
	if n := ReplaceScript(w, name, script); n > 0 {
		log.Printf("reload: script %s (%d targets)", name, n)
		w.Events().Push(ecs.Event{Type: ecs.EventConfigReloaded, Data: "scripts/" + name})
	}
}

func (s *ConfigReloadSystem) reloadRig(w *ecs.World, name string) {
	var spec *prefabs.RigSpec
	for _, e := range w.Query(component.RigComponent.Kind()) {
		rig, _ := ecs.Get(w, e, component.RigComponent)
		if rig == nil || rig.SpecFile != name {
			continue
		}
		if spec == nil {
			loaded, err := prefabs.LoadRigSpec(name)
			if err != nil {
				// Keep running with the last good config.
				log.Printf("reload: %v", err)
				return
			}
			spec = loaded
		}
		if err := ApplyRigSpec(w, e, rig, spec); err != nil {
			log.Printf("reload: %s: %v", name, err)
			continue
		}
		log.Printf("reload: rig %s from %s", rig.Name, name)
		w.Events().Push(ecs.Event{Type: ecs.EventConfigReloaded, Data: name})
	}
}

// ApplyRigSpec rebuilds a rig's skeleton from spec and hands the new settings
// to its solver. Spring state survives unless the look bone list changed.
func ApplyRigSpec(w *ecs.World, e ecs.Entity, rig *component.Rig, spec *prefabs.RigSpec) error {
	skel, err := spec.BuildSkeleton()
	if err != nil {
		return err
	}
	mode, err := spec.TargetKind()
	if err != nil {
		return err
	}

	rig.Name = spec.Name
	rig.Mode = mode
	rig.BlendWeight = spec.BlendWeight
	if rig.BlendWeight == 0 {
		rig.BlendWeight = 1
	}
	rig.Skeleton = skel
	rig.Pose = skeleton.NewPose(skel)
	rig.Solver.SetConfig(spec.SolverConfig())
	rig.Solver.InitializeBoneReferences(skel)

	transform, _ := ecs.Get(w, e, component.TransformComponent)
	transform.X, transform.Y, transform.Z = spec.Transform.X, spec.Transform.Y, spec.Transform.Z
	transform.Rotation = spec.Transform.Rotation
	if spec.Transform.Scale != 0 {
		transform.Scale = spec.Transform.Scale
	}
	return ecs.Add(w, e, component.TransformComponent, transform)
}
