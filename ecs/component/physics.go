package component

import "github.com/jakecoffman/cp"

type PhysicsBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Radius     float64
	Mass       float64
	Elasticity float64
	// Initial velocity applied when the body is created.
	VelocityX float64
	VelocityY float64
}

var PhysicsBodyComponent = NewComponent[*PhysicsBody]()
