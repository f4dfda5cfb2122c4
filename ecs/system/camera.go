package system

import (
	"github.com/milk9111/lookrig/common"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
)

// View maps world coordinates (Y up, origin centred) to screen pixels.
type View struct {
	X, Y   float64
	Zoom   float64
	Width  float64
	Height float64
}

func (v View) WorldToScreen(x, y float64) (float64, float64) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return (x-v.X)*zoom + v.Width/2, -(y-v.Y)*zoom + v.Height/2
}

func (v View) ScreenToWorld(sx, sy float64) (float64, float64) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return (sx-v.Width/2)/zoom + v.X, -(sy-v.Height/2)/zoom + v.Y
}

// CameraView returns the view of the world's camera at the base resolution.
func CameraView(w *ecs.World) View {
	view := View{Zoom: 1, Width: common.BaseWidth, Height: common.BaseHeight}
	camEntity, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return view
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent); ok {
		view.X, view.Y = t.X, t.Y
	}
	if c, ok := ecs.Get(w, camEntity, component.CameraComponent); ok && c.Zoom > 0 {
		view.Zoom = c.Zoom
	}
	return view
}

// CameraSystem eases the camera toward the centroid of all rigs and targets.
type CameraSystem struct {
	camEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !cs.camEntity.Valid() || !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}

	var tracked []ecs.Entity
	tracked = append(tracked, w.Query(component.RigComponent.Kind(), component.TransformComponent.Kind())...)
	tracked = append(tracked, w.Query(component.ActorTargetComponent.Kind(), component.TransformComponent.Kind())...)
	tracked = append(tracked, w.Query(component.ScriptTargetComponent.Kind(), component.TransformComponent.Kind())...)
	if len(tracked) == 0 {
		return
	}
	var cx, cy float64
	for _, e := range tracked {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		cx += t.X
		cy += t.Y
	}
	cx /= float64(len(tracked))
	cy /= float64(len(tracked))

	camComp, _ := ecs.Get(w, cs.camEntity, component.CameraComponent)
	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent)
	if !ok {
		return
	}
	smooth := common.Clamp(camComp.Smoothness, 0, 1)
	camTransform.X = common.Lerp(camTransform.X, cx, smooth)
	camTransform.Y = common.Lerp(camTransform.Y, cy, smooth)
	if err := ecs.Add(w, cs.camEntity, component.TransformComponent, camTransform); err != nil {
		panic("camera system: update transform: " + err.Error())
	}
}
