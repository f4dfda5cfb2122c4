package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/lookrig/common"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
)

const (
	timeScaleStep = 1.25
	grabRadius    = 60.0
)

// InputState is one frame of sandbox controls.
type InputState struct {
	ToggleMode      bool
	ResetDynamics   bool
	SlowDown        bool
	SpeedUp         bool
	ToggleAllowIdle bool

	Dragging bool
	CursorX  float64
	CursorY  float64
}

// InputSystem turns keyboard and mouse input into world events and edits.
type InputSystem struct {
	physics *PhysicsSystem
	grabbed ecs.Entity
}

func NewInputSystem(physics *PhysicsSystem) *InputSystem {
	return &InputSystem{physics: physics}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	mx, my := ebiten.CursorPosition()
	state := InputState{
		ToggleMode:      inpututil.IsKeyJustPressed(ebiten.KeyTab),
		ResetDynamics:   inpututil.IsKeyJustPressed(ebiten.KeyR),
		SlowDown:        inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyMinus),
		SpeedUp:         inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyEqual),
		ToggleAllowIdle: inpututil.IsKeyJustPressed(ebiten.KeyG),
		Dragging:        ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		CursorX:         float64(mx),
		CursorY:         float64(my),
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		state.ResetDynamics = state.ResetDynamics || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		state.ToggleMode = state.ToggleMode || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		state.SlowDown = state.SlowDown || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		state.SpeedUp = state.SpeedUp || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	i.Apply(w, state)
}

// Apply executes an input state against the world.
func (i *InputSystem) Apply(w *ecs.World, state InputState) {
	events := w.Events()
	if state.ToggleMode {
		events.Push(ecs.Event{Type: ecs.EventToggleTargetMode})
	}
	if state.ResetDynamics {
		events.Push(ecs.Event{Type: ecs.EventResetDynamics})
	}

	clock := w.Clock()
	if state.SlowDown {
		clock.TimeScale = common.Clamp(clock.TimeScale/timeScaleStep, common.MinTimeScale, common.MaxTimeScale)
	}
	if state.SpeedUp {
		clock.TimeScale = common.Clamp(clock.TimeScale*timeScaleStep, common.MinTimeScale, common.MaxTimeScale)
	}

	if state.ToggleAllowIdle {
		ToggleAllowOutsideGameplay(w)
	}

	i.drag(w, state)
}

func (i *InputSystem) drag(w *ecs.World, state InputState) {
	if !state.Dragging {
		i.grabbed = 0
		return
	}

	x, y := CameraView(w).ScreenToWorld(state.CursorX, state.CursorY)
	if !i.grabbed.Valid() || !w.IsAlive(i.grabbed) {
		i.grabbed = 0
		best := math.MaxFloat64
		for _, e := range w.Query(component.ActorTargetComponent.Kind(), component.TransformComponent.Kind()) {
			t, _ := ecs.Get(w, e, component.TransformComponent)
			d := math.Hypot(t.X-x, t.Y-y)
			if d < grabRadius && d < best {
				best = d
				i.grabbed = e
			}
		}
		if !i.grabbed.Valid() {
			return
		}
	}

	if i.physics != nil && i.physics.SetBodyPosition(i.grabbed, x, y) {
		return
	}
	t, ok := ecs.Get(w, i.grabbed, component.TransformComponent)
	if !ok {
		return
	}
	t.X, t.Y = x, y
	if err := ecs.Add(w, i.grabbed, component.TransformComponent, t); err != nil {
		panic("input system: update transform: " + err.Error())
	}
}

// Grabbed returns the actor target being dragged, if any.
func (i *InputSystem) Grabbed() (ecs.Entity, bool) {
	return i.grabbed, i.grabbed.Valid()
}

// ToggleAllowOutsideGameplay flips whether rigs keep looking while paused.
func ToggleAllowOutsideGameplay(w *ecs.World) {
	for _, e := range w.Query(component.RigComponent.Kind()) {
		rig, _ := ecs.Get(w, e, component.RigComponent)
		if rig == nil || rig.Solver == nil {
			continue
		}
		cfg := rig.Solver.Config()
		cfg.AllowOutsideGameplay = !cfg.AllowOutsideGameplay
		rig.Solver.SetConfig(cfg)
	}
}
