package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/lookrig/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for a dead entity")
				}
				if len(w.Entities()) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(w.Entities()))
				}
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(old)

	reused := w.CreateEntity()
	if reused.id() != old.id() {
		t.Fatalf("expected id reuse, got %d and %d", reused.id(), old.id())
	}
	if reused == old {
		t.Fatalf("reused entity must carry a new generation")
	}
	if w.IsAlive(old) {
		t.Fatalf("stale handle should not be alive")
	}
	if Has(w, reused, h) {
		t.Fatalf("components must not survive destruction")
	}
	if err := Add(w, old, h, 2); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[*float64]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1, 7) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1)
				if !ok || v != 7 {
					t.Fatalf("expected 7, got %v (ok=%v)", v, ok)
				}
				if Has(w, e2, h1) {
					t.Fatalf("e2 should not have int component")
				}
			},
		},
		{
			name:  "replace_int_on_e1",
			setup: func() error { return Add(w, e1, h1, 9) },
			check: func(t *testing.T) {
				if v, _ := Get(w, e1, h1); v != 9 {
					t.Fatalf("expected replaced value 9, got %v", v)
				}
			},
		},
		{
			name: "add_int_and_string",
			setup: func() error {
				if err := Add(w, e2, h1, 3); err != nil {
					return err
				}
				if err := Add(w, e2, h2, "two"); err != nil {
					return err
				}
				return Add(w, e3, h2, "three")
			},
			check: func(t *testing.T) {
				got := toSet(w.Query(h1.Kind(), h2.Kind()))
				if len(got) != 1 {
					t.Fatalf("expected one match, got %v", got)
				}
				if _, ok := got[e2]; !ok {
					t.Fatalf("expected e2 in query result")
				}
				if first, ok := w.First(h2.Kind()); !ok || (first != e2 && first != e3) {
					t.Fatalf("unexpected First result %v (ok=%v)", first, ok)
				}
			},
		},
		{
			name: "pointer_component_is_shared",
			setup: func() error {
				f := 1.5
				return Add(w, e3, h3, &f)
			},
			check: func(t *testing.T) {
				p, ok := Get(w, e3, h3)
				if !ok {
					t.Fatalf("pointer component missing")
				}
				*p = 4
				again, _ := Get(w, e3, h3)
				if *again != 4 {
					t.Fatalf("expected shared pointer, got %v", *again)
				}
			},
		},
		{
			name: "remove_string_from_e2",
			setup: func() error {
				if !Remove(w, e2, h2) {
					return errors.New("remove returned false")
				}
				return nil
			},
			check: func(t *testing.T) {
				if len(w.Query(h1.Kind(), h2.Kind())) != 0 {
					t.Fatalf("expected empty query after remove")
				}
				if Remove(w, e2, h2) {
					t.Fatalf("second remove should return false")
				}
			},
		},
		{
			name: "destroy_clears_components",
			setup: func() error {
				w.DestroyEntity(e3)
				return nil
			},
			check: func(t *testing.T) {
				if _, ok := w.First(h3.Kind()); ok {
					t.Fatalf("destroyed entity still matches query")
				}
				if got := toSet(w.Query(h2.Kind())); len(got) != 0 {
					t.Fatalf("expected no string components, got %v", got)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestAddComponentErrors(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	var zero component.ComponentHandle[int]

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"zero_kind", w.AddComponent(e, zero.Kind(), 1), component.ErrInvalidComponentKind},
		{"nil_kind", w.AddComponent(e, nil, 1), component.ErrInvalidComponentKind},
		{"nil_value", w.AddComponent(e, component.NewComponentKind[int](), nil), component.ErrNilComponent},
		{"dead_entity", w.AddComponent(Entity(0), component.NewComponentKind[int](), 1), component.ErrEntityNotAlive},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !errors.Is(c.err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, c.err)
			}
		})
	}
}

type recordingSystem struct {
	sawReset bool
}

func (s *recordingSystem) Update(w *World) {
	s.sawReset = w.Events().Has(EventResetDynamics)
}

func TestSchedulerFlushesEvents(t *testing.T) {
	w := NewWorld()
	rec := &recordingSystem{}
	sched := NewScheduler(nil, rec)
	if len(sched.Systems()) != 1 {
		t.Fatalf("nil systems should be ignored")
	}

	w.Events().Push(Event{Type: EventResetDynamics})
	sched.Update(w)
	if !rec.sawReset {
		t.Fatalf("system should see events pushed before the update")
	}
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("events should be cleared after the update")
	}

	sched.Update(w)
	if rec.sawReset {
		t.Fatalf("events must not leak into the next frame")
	}
}

func TestClockAndWorldContext(t *testing.T) {
	w := NewWorld()
	clock := w.Clock()
	if !w.IsGameplayActive() || w.TimeDilation() != 1 {
		t.Fatalf("new world should be active with unit dilation")
	}

	clock.TimeScale = 0.5
	clock.Advance(0.2)
	if clock.Elapsed != 0.1 || clock.ScaledDelta() != 0.1 || clock.Frame != 1 {
		t.Fatalf("unexpected clock %+v", *clock)
	}
	if w.TimeDilation() != 0.5 {
		t.Fatalf("dilation = %v, want 0.5", w.TimeDilation())
	}

	clock.Paused = true
	clock.Advance(0.2)
	if clock.Elapsed != 0.1 || clock.ScaledDelta() != 0 || clock.Delta != 0.2 {
		t.Fatalf("paused clock should keep wall delta only: %+v", *clock)
	}
	if w.IsGameplayActive() {
		t.Fatalf("paused world is not in active gameplay")
	}
	if clock.DilatedDelta() != 0.1 {
		t.Fatalf("dilated delta should keep running while paused, got %v", clock.DilatedDelta())
	}

	clock.Advance(-1)
	if clock.Delta != 0 {
		t.Fatalf("negative delta should clamp to zero, got %v", clock.Delta)
	}

	var nilWorld *World
	if nilWorld.IsGameplayActive() || nilWorld.TimeDilation() != 1 {
		t.Fatalf("nil world should be inactive with unit dilation")
	}
}
