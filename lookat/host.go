package lookat

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lookrig/skeleton"
)

// PoseBuffer is the host pose the solver reads bones from and writes rotations into.
type PoseBuffer interface {
	LocalTransform(i skeleton.BoneIndex) skeleton.Transform
	SetLocalTransform(i skeleton.BoneIndex, t skeleton.Transform)
	ComponentTransform(i skeleton.BoneIndex) skeleton.Transform
	ParentIndex(i skeleton.BoneIndex) skeleton.BoneIndex
}

// BoneContainer resolves bone names into pose indices. A parent's index is
// always lower than its children's.
type BoneContainer interface {
	BoneIndex(name string) (skeleton.BoneIndex, bool)
}

// Mesh is the animated component that owns the pose.
type Mesh interface {
	ComponentToWorld() skeleton.Transform
	SocketWorldTransform(name string) (skeleton.Transform, bool)
}

// WorldContext reports the state of the simulation hosting the mesh.
type WorldContext interface {
	IsGameplayActive() bool
	TimeDilation() float64
}

// Actor is a live world object that can be looked at.
type Actor interface {
	IsValid() bool
	WorldLocation() mgl64.Vec3
}

// EvalContext carries everything the host hands over for one evaluation.
type EvalContext struct {
	Pose   PoseBuffer
	Mesh   Mesh
	World  WorldContext
	Weight float64
}

// Node is the lifecycle contract the host animation graph drives.
type Node interface {
	Initialize()
	ResetDynamics()
	Update(deltaSeconds float64)
	Evaluate(ctx EvalContext)
	IsValidToEvaluate() bool
	InitializeBoneReferences(bones BoneContainer)
}
