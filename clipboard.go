package main

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/prefabs"
	"golang.design/x/clipboard"
)

var errClipboardUnavailable = errors.New("clipboard unavailable")

// rigClipboard copies live solver settings as rig prefab YAML so tuned values
// can be pasted back into prefabs/.
type rigClipboard struct {
	ready bool
}

func newRigClipboard() *rigClipboard {
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard: %v", err)
		return &rigClipboard{}
	}
	return &rigClipboard{ready: true}
}

func (c *rigClipboard) CopyRigs(w *ecs.World) error {
	if c == nil || !c.ready {
		return errClipboardUnavailable
	}
	data, err := liveRigYAML(w)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("clipboard: copied %d bytes of rig yaml", len(data))
	return nil
}

// liveRigYAML re-reads every rig's prefab and overlays its current solver
// config. Multiple rigs are separated as YAML documents.
func liveRigYAML(w *ecs.World) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range w.Query(component.RigComponent.Kind()) {
		rig, _ := ecs.Get(w, e, component.RigComponent)
		if rig == nil || rig.Solver == nil {
			continue
		}
		spec, err := prefabs.LoadRigSpec(rig.SpecFile)
		if err != nil {
			return nil, fmt.Errorf("rig %s: %w", rig.Name, err)
		}
		spec.ApplySolverConfig(rig.Solver.Config())
		data, err := spec.Marshal()
		if err != nil {
			return nil, err
		}
		if buf.Len() > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
