package component

import (
	"github.com/milk9111/lookrig/lookat"
	"github.com/milk9111/lookrig/skeleton"
)

// Rig is an animated skeleton driven by a look-target solver.
type Rig struct {
	Name        string
	SpecFile    string
	Skeleton    *skeleton.Skeleton
	Pose        *skeleton.Pose
	Solver      *lookat.Solver
	BlendWeight float64
	Mode        lookat.TargetKind
}

var RigComponent = NewComponent[*Rig]()
