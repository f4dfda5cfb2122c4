package system

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
	"github.com/milk9111/lookrig/ecs/entity"
	"github.com/milk9111/lookrig/lookat"
	"github.com/milk9111/lookrig/prefabs"
	"github.com/milk9111/lookrig/skeleton"
)

const frame = 1.0 / 60

// sentry.yaml stands at (-180, -300) pointing up; its eye rests at y = -81.
var sentryEye = mgl64.Vec3{-180, -81, 0}

func spawnSentry(t *testing.T, w *ecs.World) (ecs.Entity, *component.Rig) {
	t.Helper()
	e, err := entity.NewRig(w, "sentry.yaml")
	if err != nil {
		t.Fatalf("NewRig: %v", err)
	}
	rig, ok := ecs.Get(w, e, component.RigComponent)
	if !ok {
		t.Fatalf("rig component missing")
	}
	return e, rig
}

func spawnBall(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.NewActorTarget(w, prefabs.ActorTargetSpec{
		Name:      "ball",
		Transform: prefabs.TransformSpec{X: x, Y: y},
		Radius:    10,
	})
	if err != nil {
		t.Fatalf("NewActorTarget: %v", err)
	}
	return e
}

func headLocal(t *testing.T, rig *component.Rig) skeleton.Transform {
	t.Helper()
	idx, ok := rig.Skeleton.BoneIndex("head")
	if !ok {
		t.Fatalf("head bone missing")
	}
	return rig.Pose.LocalTransform(idx)
}

func headRef(t *testing.T, rig *component.Rig) skeleton.Transform {
	t.Helper()
	idx, _ := rig.Skeleton.BoneIndex("head")
	bone, _ := rig.Skeleton.Bone(idx)
	return bone.RefPose
}

func TestLookTargetSystemSeedsTowardActor(t *testing.T) {
	w := ecs.NewWorld()
	_, rig := spawnSentry(t, w)
	spawnBall(t, w, 120, sentryEye.Y())

	w.Clock().Advance(frame)
	NewLookTargetSystem().Update(w)

	if rig.Solver.NeedsReinitialization() {
		t.Fatalf("first evaluation should seed the solver")
	}
	want := mgl64.Vec3{1, 0, 0}
	for _, b := range rig.Solver.Bones() {
		if !b.Current.ApproxEqualThreshold(want, 1e-9) {
			t.Fatalf("bone %s current = %v, want %v", b.Name, b.Current, want)
		}
	}
	if headLocal(t, rig).Rotation.ApproxEqualThreshold(headRef(t, rig).Rotation, 1e-6) {
		t.Fatalf("head rotation should move off the reference pose")
	}
}

func TestLookTargetSystemSkips(t *testing.T) {
	cases := []struct {
		name  string
		setup func(w *ecs.World, ball ecs.Entity)
	}{
		{
			name: "destroyed_actor",
			setup: func(w *ecs.World, ball ecs.Entity) {
				w.DestroyEntity(ball)
			},
		},
		{
			name: "paused_world",
			setup: func(w *ecs.World, ball ecs.Entity) {
				w.Clock().Paused = true
			},
		},
		{
			name: "target_on_eye",
			setup: func(w *ecs.World, ball ecs.Entity) {
				if err := ecs.Add(w, ball, component.TransformComponent, component.Transform{X: sentryEye.X(), Y: sentryEye.Y(), Scale: 1}); err != nil {
					t.Fatalf("move ball: %v", err)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, rig := spawnSentry(t, w)
			ball := spawnBall(t, w, 120, sentryEye.Y())
			c.setup(w, ball)

			w.Clock().Advance(frame)
			NewLookTargetSystem().Update(w)

			if !rig.Solver.NeedsReinitialization() {
				t.Fatalf("skipped frame must not seed")
			}
			if got, want := headLocal(t, rig).Rotation, headRef(t, rig).Rotation; !got.ApproxEqualThreshold(want, 1e-12) {
				t.Fatalf("head rotation = %v, want reference %v", got, want)
			}
		})
	}
}

func TestLookTargetSystemEvents(t *testing.T) {
	w := ecs.NewWorld()
	_, rig := spawnSentry(t, w)
	spawnBall(t, w, 120, sentryEye.Y())
	sys := NewLookTargetSystem()

	w.Clock().Advance(frame)
	sys.Update(w)
	if rig.Solver.NeedsReinitialization() {
		t.Fatalf("expected seeded solver")
	}

	w.Events().Push(ecs.Event{Type: ecs.EventToggleTargetMode})
	w.Clock().Advance(frame)
	sys.Update(w)
	if rig.Mode != lookat.TargetWorldLocation {
		t.Fatalf("mode = %v, want %v", rig.Mode, lookat.TargetWorldLocation)
	}
	w.Events().Drain()

	w.Events().Push(ecs.Event{Type: ecs.EventResetDynamics})
	w.Clock().Advance(frame)
	sys.Update(w)
	// No scripted target exists, so the reset stays pending.
	if !rig.Solver.NeedsReinitialization() {
		t.Fatalf("reset should request reinitialization")
	}
}

// headTravel seeds sentry toward +X, swings the ball overhead and returns how
// far the head spring has turned toward +Y after the given real frames.
func headTravel(t *testing.T, timeScale float64, frames int) float64 {
	t.Helper()
	w := ecs.NewWorld()
	_, rig := spawnSentry(t, w)
	ball := spawnBall(t, w, 120, sentryEye.Y())
	w.Clock().TimeScale = timeScale
	sys := NewLookTargetSystem()

	w.Clock().Advance(frame)
	sys.Update(w)

	if err := ecs.Add(w, ball, component.TransformComponent, component.Transform{X: sentryEye.X(), Y: 400, Scale: 1}); err != nil {
		t.Fatalf("move ball: %v", err)
	}
	for i := 0; i < frames; i++ {
		w.Clock().Advance(frame)
		sys.Update(w)
	}

	for _, b := range rig.Solver.Bones() {
		if b.Name == "head" {
			return b.Current.Y()
		}
	}
	t.Fatalf("head bone not controlled")
	return 0
}

func TestLookTargetSystemTimeScale(t *testing.T) {
	slow := headTravel(t, 0.25, 12)
	normal := headTravel(t, 1, 12)
	fast := headTravel(t, 4, 12)

	if !(slow < normal && normal < fast) {
		t.Fatalf("head travel should follow time scale: 0.25x=%v 1x=%v 4x=%v", slow, normal, fast)
	}
	if slow <= 0 {
		t.Fatalf("slowed rig should still move, travel %v", slow)
	}
}

func TestLookTargetSystemLooksWhilePaused(t *testing.T) {
	w := ecs.NewWorld()
	_, rig := spawnSentry(t, w)
	spawnBall(t, w, 120, sentryEye.Y())
	ToggleAllowOutsideGameplay(w)
	w.Clock().Paused = true
	sys := NewLookTargetSystem()

	w.Clock().Advance(frame)
	sys.Update(w)
	if rig.Solver.NeedsReinitialization() {
		t.Fatalf("rig allowed outside gameplay should seed while paused")
	}

	w.Clock().Advance(frame)
	sys.Update(w)
	if acc := rig.Solver.Scheduler().Accumulated(); acc <= 0 {
		t.Fatalf("paused rig should still accumulate frame time, got %v", acc)
	}
}

func TestTargetScriptSystemFollowsScript(t *testing.T) {
	w := ecs.NewWorld()
	e, err := entity.NewScriptTarget(w, prefabs.ScriptTargetSpec{Name: "wisp", Script: "orbit.tengo"})
	if err != nil {
		t.Fatalf("NewScriptTarget: %v", err)
	}

	w.Clock().Advance(0.5)
	NewTargetScriptSystem().Update(w)

	st, _ := ecs.Get(w, e, component.ScriptTargetComponent)
	want, err := st.Script.Position(w.Clock().Elapsed)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	got, _ := ecs.Get(w, e, component.TransformComponent)
	if !transformPosition(got).ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("target at %v, want %v", transformPosition(got), want)
	}
}

type fakeSource struct {
	names []string
	errs  []error
}

func (f *fakeSource) Poll() []string {
	out := f.names
	f.names = nil
	return out
}

func (f *fakeSource) PollErrors() []error {
	out := f.errs
	f.errs = nil
	return out
}

func TestConfigReloadSystem(t *testing.T) {
	w := ecs.NewWorld()
	e, rig := spawnSentry(t, w)
	if _, err := entity.NewScriptTarget(w, prefabs.ScriptTargetSpec{Name: "wisp", Script: "orbit.tengo"}); err != nil {
		t.Fatalf("NewScriptTarget: %v", err)
	}

	// Drift the rig so the reload has something to restore.
	tr, _ := ecs.Get(w, e, component.TransformComponent)
	tr.X = 999
	if err := ecs.Add(w, e, component.TransformComponent, tr); err != nil {
		t.Fatalf("move rig: %v", err)
	}

	src := &fakeSource{names: []string{"sentry.yaml", "scripts/orbit.tengo", "unrelated.yaml"}}
	NewConfigReloadSystem(src).Update(w)

	reloaded := 0
	for _, evt := range w.Events().Peek() {
		if evt.Type == ecs.EventConfigReloaded {
			reloaded++
		}
	}
	if reloaded != 2 {
		t.Fatalf("reload events = %d, want 2", reloaded)
	}

	tr, _ = ecs.Get(w, e, component.TransformComponent)
	if tr.X != -180 {
		t.Fatalf("rig x = %v, want -180", tr.X)
	}
	if !rig.Solver.IsValidToEvaluate() {
		t.Fatalf("solver should stay bound after reload")
	}
}

func TestConfigReloadSystemLogsWatchErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	w := ecs.NewWorld()
	src := &fakeSource{errs: []error{errors.New("inotify queue overflow")}}
	sys := NewConfigReloadSystem(src)
	sys.Update(w)

	if !strings.Contains(buf.String(), "reload: inotify queue overflow") {
		t.Fatalf("watch error not logged, got %q", buf.String())
	}

	buf.Reset()
	sys.Update(w)
	if buf.Len() != 0 {
		t.Fatalf("errors should be drained once, got %q", buf.String())
	}
}

func TestPhysicsSystemDropsBall(t *testing.T) {
	w := ecs.NewWorld()
	ball := spawnBall(t, w, 0, 100)
	ps := NewPhysicsSystem(1200, 680, -320)

	for i := 0; i < 30; i++ {
		w.Clock().Advance(frame)
		ps.Update(w)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent)
	if tr.Y >= 100 {
		t.Fatalf("ball y = %v, want it to fall below 100", tr.Y)
	}

	w.DestroyEntity(ball)
	ps.Update(w)
	if len(ps.bodies) != 0 {
		t.Fatalf("dead bodies should be removed, have %d", len(ps.bodies))
	}
}

func TestInputSystemApply(t *testing.T) {
	w := ecs.NewWorld()
	_, rig := spawnSentry(t, w)
	ball := spawnBall(t, w, 10, 10)
	in := NewInputSystem(nil)

	in.Apply(w, InputState{SpeedUp: true, ToggleMode: true, ToggleAllowIdle: true})
	if got := w.Clock().TimeScale; got != 1.25 {
		t.Fatalf("time scale = %v, want 1.25", got)
	}
	if !w.Events().Has(ecs.EventToggleTargetMode) {
		t.Fatalf("expected toggle event")
	}
	if !rig.Solver.Config().AllowOutsideGameplay {
		t.Fatalf("allow outside gameplay should flip on")
	}

	// Screen centre maps to the world origin without a camera.
	in.Apply(w, InputState{Dragging: true, CursorX: 640, CursorY: 360})
	if got, ok := in.Grabbed(); !ok || got != ball {
		t.Fatalf("grabbed = %v, want %v", got, ball)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent)
	if tr.X != 0 || tr.Y != 0 {
		t.Fatalf("ball at (%v, %v), want origin", tr.X, tr.Y)
	}

	in.Apply(w, InputState{})
	if _, ok := in.Grabbed(); ok {
		t.Fatalf("release should drop the grab")
	}
}

func TestViewRoundTrip(t *testing.T) {
	v := View{X: 30, Y: -20, Zoom: 2, Width: 1280, Height: 720}
	sx, sy := v.WorldToScreen(55, 12)
	x, y := v.ScreenToWorld(sx, sy)
	if !mgl64.FloatEqualThreshold(x, 55, 1e-9) || !mgl64.FloatEqualThreshold(y, 12, 1e-9) {
		t.Fatalf("round trip = (%v, %v)", x, y)
	}
}
