package component

import "github.com/milk9111/lookrig/prefabs"

// ActorTarget tags a physics-driven entity rigs can look at.
type ActorTarget struct {
	Radius float64
}

var ActorTargetComponent = NewComponent[ActorTarget]()

// ScriptTarget moves an entity along a path computed by a tengo script.
type ScriptTarget struct {
	Script *prefabs.TargetScript
	Radius float64
}

var ScriptTargetComponent = NewComponent[ScriptTarget]()
