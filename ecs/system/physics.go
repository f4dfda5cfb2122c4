package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/component"
)

const (
	wallThickness = 4
	wallFriction  = 0.4
	maxPhysicsDt  = 1.0 / 30
)

// PhysicsSystem bounces actor target bodies around the scene bounds.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*component.PhysicsBody
	width  float64
	height float64
}

// NewPhysicsSystem creates a space centred on the origin with walls around a
// width x height box. Gravity is along Y.
func NewPhysicsSystem(width, height, gravity float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	ps := &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*component.PhysicsBody),
		width:  width,
		height: height,
	}
	ps.addWalls()
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) addWalls() {
	if ps.width <= 0 || ps.height <= 0 {
		return
	}
	hw, hh := ps.width/2, ps.height/2
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: -hw, Y: -hh}, b: cp.Vector{X: hw, Y: -hh}},
		{a: cp.Vector{X: -hw, Y: hh}, b: cp.Vector{X: hw, Y: hh}},
		{a: cp.Vector{X: -hw, Y: -hh}, b: cp.Vector{X: -hw, Y: hh}},
		{a: cp.Vector{X: hw, Y: -hh}, b: cp.Vector{X: hw, Y: hh}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, wallThickness)
		shape.SetFriction(wallFriction)
		shape.SetElasticity(1)
		ps.space.AddShape(shape)
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.removeDead(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp == nil || bodyComp.Body != nil {
			continue
		}
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		ps.createBody(e, bodyComp, transform)
	}

	if w.Events().Has(ecs.EventResetDynamics) {
		for _, bodyComp := range ps.bodies {
			bodyComp.Body.SetVelocity(bodyComp.VelocityX, bodyComp.VelocityY)
		}
	}

	dt := w.Clock().ScaledDelta()
	if dt > maxPhysicsDt {
		dt = maxPhysicsDt
	}
	if dt > 0 {
		ps.space.Step(dt)
	}

	for e, bodyComp := range ps.bodies {
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		if err := ecs.Add(w, e, component.TransformComponent, transform); err != nil {
			panic("physics system: update transform: " + err.Error())
		}
	}
}

func (ps *PhysicsSystem) createBody(e ecs.Entity, bodyComp *component.PhysicsBody, transform component.Transform) {
	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetVelocity(bodyComp.VelocityX, bodyComp.VelocityY)

	shape := cp.NewCircle(body, bodyComp.Radius, cp.Vector{})
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetFriction(wallFriction)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	bodyComp.Body = body
	bodyComp.Shape = shape
	ps.bodies[e] = bodyComp
}

// SetBodyPosition teleports a body and clears its velocity.
func (ps *PhysicsSystem) SetBodyPosition(e ecs.Entity, x, y float64) bool {
	bodyComp, ok := ps.bodies[e]
	if !ok {
		return false
	}
	bodyComp.Body.SetPosition(cp.Vector{X: x, Y: y})
	bodyComp.Body.SetVelocity(0, 0)
	ps.space.ReindexShapesForBody(bodyComp.Body)
	return true
}

func (ps *PhysicsSystem) removeDead(w *ecs.World) {
	for e, bodyComp := range ps.bodies {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		if bodyComp.Shape != nil {
			ps.space.RemoveShape(bodyComp.Shape)
		}
		if bodyComp.Body != nil {
			ps.space.RemoveBody(bodyComp.Body)
		}
		bodyComp.Body = nil
		bodyComp.Shape = nil
		delete(ps.bodies, e)
	}
}
