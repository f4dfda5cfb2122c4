package ecs

import "github.com/milk9111/lookrig/ecs/component"

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, components, events and the simulation clock.
type World struct {
	entities   entityStore
	components map[component.ComponentID]*SparseSet
	events     EventQueue
	clock      Clock
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		components: make(map[component.ComponentID]*SparseSet),
		clock:      Clock{TimeScale: 1},
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its id.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, set := range w.components {
		set.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count())
	for i := range w.entities.gen {
		if e, ok := w.entities.current(entityID(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}

// AddComponent stores value for e under kind, replacing any previous value.
func (w *World) AddComponent(e Entity, kind component.Kind, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	set, ok := w.components[kind.ID()]
	if !ok {
		set = &SparseSet{}
		w.components[kind.ID()] = set
	}
	set.Set(e.id(), value)
	return nil
}

func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.components[kind.ID()].Remove(e.id())
}

func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.components[kind.ID()].Has(e.id())
}

func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	if !w.HasComponent(e, kind) {
		return nil, false
	}
	return w.components[kind.ID()].Get(e.id()), true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Clock returns the world clock.
func (w *World) Clock() *Clock {
	if w == nil {
		return nil
	}
	return &w.clock
}

// IsGameplayActive reports whether the simulation is running rather than paused.
func (w *World) IsGameplayActive() bool {
	return w != nil && !w.clock.Paused
}

// TimeDilation returns the global time scale.
func (w *World) TimeDilation() float64 {
	if w == nil {
		return 1
	}
	return w.clock.TimeScale
}
