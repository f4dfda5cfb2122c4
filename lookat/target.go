package lookat

import "github.com/go-gl/mathgl/mgl64"

type TargetKind int

const (
	TargetWorldLocation TargetKind = iota
	TargetActor
)

func (k TargetKind) String() string {
	switch k {
	case TargetActor:
		return "actor"
	case TargetWorldLocation:
		return "location"
	default:
		return "unknown"
	}
}

// Target is either a live actor or a fixed world-space point.
type Target struct {
	Kind     TargetKind
	Actor    Actor
	Location mgl64.Vec3
}

func ActorTarget(a Actor) Target {
	return Target{Kind: TargetActor, Actor: a}
}

func LocationTarget(p mgl64.Vec3) Target {
	return Target{Kind: TargetWorldLocation, Location: p}
}

// position returns the world position to look at, or false when the actor is gone.
func (t Target) position() (mgl64.Vec3, bool) {
	switch t.Kind {
	case TargetActor:
		if t.Actor == nil || !t.Actor.IsValid() {
			return mgl64.Vec3{}, false
		}
		return t.Actor.WorldLocation(), true
	default:
		return t.Location, true
	}
}
