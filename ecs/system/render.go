package system

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/skeleton"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const debugArrowLength = 40

// RenderSystem draws the scene as vector primitives.
type RenderSystem struct {
	Debug bool

	width  float64
	height float64
	face   ebtext.Face
}

func NewRenderSystem(boundsWidth, boundsHeight float64, debug bool) *RenderSystem {
	return &RenderSystem{
		Debug:  debug,
		width:  boundsWidth,
		height: boundsHeight,
		face:   ebtext.NewGoXFace(basicfont.Face7x13),
	}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}
	screen.Fill(colornames.Midnightblue)
	view := CameraView(w)

	if r.width > 0 && r.height > 0 {
		x, y := view.WorldToScreen(-r.width/2, r.height/2)
		vector.StrokeRect(screen, float32(x), float32(y), float32(r.width*view.Zoom), float32(r.height*view.Zoom), 2, colornames.Slategray, false)
	}

	entities := w.Query(component.TransformComponent.Kind(), component.RenderLayerComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li, _ := ecs.Get(w, entities[i], component.RenderLayerComponent)
		lj, _ := ecs.Get(w, entities[j], component.RenderLayerComponent)
		if li.Index != lj.Index {
			return li.Index < lj.Index
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		if rig, ok := ecs.Get(w, e, component.RigComponent); ok && rig != nil {
			r.drawRig(screen, view, t, rig)
			continue
		}
		if target, ok := ecs.Get(w, e, component.ActorTargetComponent); ok {
			x, y := view.WorldToScreen(t.X, t.Y)
			vector.FillCircle(screen, float32(x), float32(y), float32(target.Radius*view.Zoom), colornames.Orange, true)
			continue
		}
		if target, ok := ecs.Get(w, e, component.ScriptTargetComponent); ok {
			x, y := view.WorldToScreen(t.X, t.Y)
			vector.StrokeCircle(screen, float32(x), float32(y), float32(target.Radius*view.Zoom), 2, colornames.Lightskyblue, true)
		}
	}

	r.drawHUD(w, screen)
}

func (r *RenderSystem) drawRig(screen *ebiten.Image, view View, t component.Transform, rig *component.Rig) {
	toWorld := componentToWorld(t)
	comps := rig.Pose.ComponentTransforms()

	for i, ct := range comps {
		child := ct.Compose(toWorld).Translation
		cx, cy := view.WorldToScreen(child.X(), child.Y())
		if parent := rig.Pose.ParentIndex(skeleton.BoneIndex(i)); parent.Valid() {
			p := comps[parent].Compose(toWorld).Translation
			px, py := view.WorldToScreen(p.X(), p.Y())
			vector.StrokeLine(screen, float32(px), float32(py), float32(cx), float32(cy), 4, colornames.Lightgrey, true)
		}
		vector.FillCircle(screen, float32(cx), float32(cy), 4, colornames.White, true)
	}

	eyeName := rig.Solver.Config().EyeSocketName
	eye, ok := rig.Pose.SocketTransform(eyeName)
	if !ok {
		return
	}
	eyePos := eye.Compose(toWorld).Translation
	ex, ey := view.WorldToScreen(eyePos.X(), eyePos.Y())
	vector.FillCircle(screen, float32(ex), float32(ey), 5, colornames.Crimson, true)

	if !r.Debug {
		return
	}
	for _, b := range rig.Solver.Bones() {
		if !b.Index.Valid() || int(b.Index) >= len(comps) {
			continue
		}
		origin := comps[b.Index].Compose(toWorld).Translation
		dir := toWorld.TransformVectorNoScale(b.Current)
		tip := origin.Add(dir.Mul(debugArrowLength))
		ox, oy := view.WorldToScreen(origin.X(), origin.Y())
		tx, ty := view.WorldToScreen(tip.X(), tip.Y())
		vector.StrokeLine(screen, float32(ox), float32(oy), float32(tx), float32(ty), 1, colornames.Limegreen, true)
	}
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	clock := w.Clock()
	lines := []string{
		fmt.Sprintf("FPS %.1f  time scale %.2f  paused %v", ebiten.ActualFPS(), clock.TimeScale, clock.Paused),
		"drag: move ball  tab: target mode  r: reset  up/down: time scale  h: hitch  g: allow idle  c: copy rig  esc: pause",
	}
	for _, e := range w.Query(component.RigComponent.Kind()) {
		rig, _ := ecs.Get(w, e, component.RigComponent)
		if rig == nil || rig.Solver == nil {
			continue
		}
		cfg := rig.Solver.Config()
		lines = append(lines, fmt.Sprintf("%s  mode %s  valid %v  idle %v  acc %.4f",
			rig.Name, rig.Mode, rig.Solver.IsValidToEvaluate(), cfg.AllowOutsideGameplay, rig.Solver.Scheduler().Accumulated()))
		if r.Debug {
			for _, b := range rig.Solver.Bones() {
				lines = append(lines, fmt.Sprintf("  %-10s bias %.3f  dir (%.2f, %.2f, %.2f)", b.Name, b.Bias, b.Current.X(), b.Current.Y(), b.Current.Z()))
			}
		}
	}

	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(8, float64(8+i*16))
		op.ColorScale.ScaleWithColor(color.White)
		ebtext.Draw(screen, line, r.face, op)
	}
}
