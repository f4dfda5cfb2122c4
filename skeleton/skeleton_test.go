package skeleton

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func buildArm(t *testing.T) *Skeleton {
	t.Helper()
	s := New()
	quarter := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	if _, err := s.AddBone("root", "", NewTransform(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent())); err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := s.AddBone("upper", "root", NewTransform(mgl64.Vec3{10, 0, 0}, quarter)); err != nil {
		t.Fatalf("add upper: %v", err)
	}
	if _, err := s.AddBone("lower", "upper", NewTransform(mgl64.Vec3{5, 0, 0}, mgl64.QuatIdent())); err != nil {
		t.Fatalf("add lower: %v", err)
	}
	if err := s.AddSocket("tip", "lower", NewTransform(mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent())); err != nil {
		t.Fatalf("add socket: %v", err)
	}
	return s
}

func TestSkeletonBuildErrors(t *testing.T) {
	s := buildArm(t)

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"duplicate_bone", func() error { _, err := s.AddBone("upper", "root", Identity()); return err }, ErrDuplicateBone},
		{"unknown_parent", func() error { _, err := s.AddBone("hand", "wrist", Identity()); return err }, ErrUnknownBone},
		{"empty_name", func() error { _, err := s.AddBone("", "", Identity()); return err }, ErrEmptyName},
		{"duplicate_socket", func() error { return s.AddSocket("tip", "lower", Identity()) }, ErrDuplicateSocket},
		{"socket_unknown_bone", func() error { return s.AddSocket("eye", "head", Identity()) }, ErrUnknownBone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.run(); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestPoseComponentTransforms(t *testing.T) {
	s := buildArm(t)
	p := NewPose(s)

	lower, ok := s.BoneIndex("lower")
	if !ok {
		t.Fatalf("lower not found")
	}
	got := p.ComponentTransform(lower).Translation
	want := mgl64.Vec3{10, 5, 0}
	if !got.ApproxEqualThreshold(want, eps) {
		t.Fatalf("expected lower at %v, got %v", want, got)
	}

	all := p.ComponentTransforms()
	if !all[lower].Translation.ApproxEqualThreshold(want, eps) {
		t.Fatalf("ComponentTransforms disagrees: %v", all[lower].Translation)
	}

	tip, ok := p.SocketTransform("tip")
	if !ok {
		t.Fatalf("tip socket missing")
	}
	if !tip.Translation.ApproxEqualThreshold(mgl64.Vec3{10, 7, 0}, eps) {
		t.Fatalf("unexpected socket position %v", tip.Translation)
	}

	if _, ok := p.SocketTransform("eye"); ok {
		t.Fatalf("unknown socket should not resolve")
	}
}

func TestPoseSetAndReset(t *testing.T) {
	s := buildArm(t)
	p := NewPose(s)
	upper, _ := s.BoneIndex("upper")

	local := p.LocalTransform(upper)
	local.Rotation = mgl64.QuatIdent()
	p.SetLocalTransform(upper, local)

	lower, _ := s.BoneIndex("lower")
	if got := p.ComponentTransform(lower).Translation; !got.ApproxEqualThreshold(mgl64.Vec3{15, 0, 0}, eps) {
		t.Fatalf("expected straightened arm, got %v", got)
	}

	p.SetLocalTransform(BoneIndex(42), Identity())
	p.ResetToRefPose()
	if got := p.ComponentTransform(lower).Translation; !got.ApproxEqualThreshold(mgl64.Vec3{10, 5, 0}, eps) {
		t.Fatalf("expected reference pose after reset, got %v", got)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	parent := Transform{
		Translation: mgl64.Vec3{1, 2, 3},
		Rotation:    mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0}),
		Scale:       mgl64.Vec3{2, 2, 2},
	}
	child := NewTransform(mgl64.Vec3{4, -1, 0.5}, mgl64.QuatRotate(-0.3, mgl64.Vec3{1, 0, 0}))

	back := child.Compose(parent).RelativeTo(parent)
	if !back.Translation.ApproxEqualThreshold(child.Translation, 1e-9) {
		t.Fatalf("translation mismatch: %v vs %v", back.Translation, child.Translation)
	}
	if !back.Rotation.ApproxEqualThreshold(child.Rotation, 1e-9) {
		t.Fatalf("rotation mismatch: %v vs %v", back.Rotation, child.Rotation)
	}

	v := mgl64.Vec3{0, 0, 3}
	if got := parent.InverseTransformVectorNoScale(parent.TransformVectorNoScale(v)); !got.ApproxEqualThreshold(v, 1e-9) {
		t.Fatalf("vector round trip mismatch: %v", got)
	}
}
