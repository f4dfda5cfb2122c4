package component

type Camera struct {
	Zoom float64
	// Smoothness is the fraction of the remaining distance closed each frame.
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
