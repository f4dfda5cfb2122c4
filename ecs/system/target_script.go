package system

import (
	"log"

	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/prefabs"
)

// TargetScriptSystem moves scripted targets along their tengo paths using the
// world's scaled elapsed time.
type TargetScriptSystem struct {
	failed map[ecs.Entity]string
}

func NewTargetScriptSystem() *TargetScriptSystem {
	return &TargetScriptSystem{failed: make(map[ecs.Entity]string)}
}

func (s *TargetScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	elapsed := w.Clock().Elapsed

	for _, e := range w.Query(component.ScriptTargetComponent.Kind(), component.TransformComponent.Kind()) {
		st, _ := ecs.Get(w, e, component.ScriptTargetComponent)
		pos, err := st.Script.Position(elapsed)
		if err != nil {
			// Log once per script; the target holds still until it is fixed.
			if s.failed[e] != st.Script.Name() {
				log.Printf("target script: %v", err)
				s.failed[e] = st.Script.Name()
			}
			continue
		}
		delete(s.failed, e)

		transform, _ := ecs.Get(w, e, component.TransformComponent)
		transform.X, transform.Y, transform.Z = pos.X(), pos.Y(), pos.Z()
		if err := ecs.Add(w, e, component.TransformComponent, transform); err != nil {
			panic("target script system: update transform: " + err.Error())
		}
	}
}

// ReplaceScript swaps the compiled script of every target using name.
func ReplaceScript(w *ecs.World, name string, script *prefabs.TargetScript) int {
	replaced := 0
	for _, e := range w.Query(component.ScriptTargetComponent.Kind()) {
		st, _ := ecs.Get(w, e, component.ScriptTargetComponent)
		if st.Script.Name() != name {
			continue
		}
		st.Script = script
		if err := ecs.Add(w, e, component.ScriptTargetComponent, st); err != nil {
			continue
		}
		replaced++
	}
	return replaced
}
