package skeleton

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const scaleEpsilon = 1e-8

// Transform is a bone or component transform: scale, then rotation, then translation.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// NewTransform builds a unit-scale transform.
func NewTransform(translation mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{
		Translation: translation,
		Rotation:    rotation.Normalize(),
		Scale:       mgl64.Vec3{1, 1, 1},
	}
}

// Compose returns the transform of t expressed in the space parent is expressed in.
func (t Transform) Compose(parent Transform) Transform {
	return Transform{
		Translation: parent.TransformPoint(t.Translation),
		Rotation:    parent.Rotation.Mul(t.Rotation).Normalize(),
		Scale:       mulElem(parent.Scale, t.Scale),
	}
}

// RelativeTo returns t expressed in the local space of parent.
func (t Transform) RelativeTo(parent Transform) Transform {
	inv := parent.Rotation.Inverse()
	return Transform{
		Translation: parent.InverseTransformPoint(t.Translation),
		Rotation:    inv.Mul(t.Rotation).Normalize(),
		Scale:       divElem(t.Scale, parent.Scale),
	}
}

// TransformPoint maps a local point through scale, rotation and translation.
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(mulElem(t.Scale, p)).Add(t.Translation)
}

// InverseTransformPoint is the inverse of TransformPoint.
func (t Transform) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return divElem(t.Rotation.Inverse().Rotate(p.Sub(t.Translation)), t.Scale)
}

// TransformVectorNoScale rotates v, ignoring scale and translation.
func (t Transform) TransformVectorNoScale(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(v)
}

// InverseTransformVectorNoScale rotates v by the inverse rotation only.
func (t Transform) InverseTransformVectorNoScale(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(v)
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func divElem(a, b mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range out {
		if math.Abs(b[i]) < scaleEpsilon {
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}
