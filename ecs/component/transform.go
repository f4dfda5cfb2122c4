package component

// Transform places an entity in the world. Y is up; Rotation is a yaw in
// radians about the Y axis.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	Scale    float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
