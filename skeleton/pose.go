package skeleton

// Pose is a per-evaluation buffer of local bone transforms.
type Pose struct {
	skeleton *Skeleton
	local    []Transform
}

// NewPose creates a pose initialised to the skeleton's reference pose.
func NewPose(s *Skeleton) *Pose {
	p := &Pose{skeleton: s, local: make([]Transform, s.NumBones())}
	p.ResetToRefPose()
	return p
}

func (p *Pose) Skeleton() *Skeleton {
	if p == nil {
		return nil
	}
	return p.skeleton
}

// ResetToRefPose restores every bone to its reference transform.
func (p *Pose) ResetToRefPose() {
	if p == nil || p.skeleton == nil {
		return
	}
	if len(p.local) != len(p.skeleton.bones) {
		p.local = make([]Transform, len(p.skeleton.bones))
	}
	for i, b := range p.skeleton.bones {
		p.local[i] = b.RefPose
	}
}

func (p *Pose) NumBones() int {
	if p == nil {
		return 0
	}
	return len(p.local)
}

func (p *Pose) valid(i BoneIndex) bool {
	return p != nil && i >= 0 && int(i) < len(p.local)
}

// LocalTransform returns the parent-relative transform of bone i.
func (p *Pose) LocalTransform(i BoneIndex) Transform {
	if !p.valid(i) {
		return Identity()
	}
	return p.local[i]
}

// SetLocalTransform overwrites bone i. Out of range indices are ignored.
func (p *Pose) SetLocalTransform(i BoneIndex, t Transform) {
	if !p.valid(i) {
		return
	}
	p.local[i] = t
}

// ParentIndex returns the parent of bone i.
func (p *Pose) ParentIndex(i BoneIndex) BoneIndex {
	if p == nil {
		return InvalidBone
	}
	return p.skeleton.Parent(i)
}

// ComponentTransform returns bone i relative to the skeleton root space.
func (p *Pose) ComponentTransform(i BoneIndex) Transform {
	if !p.valid(i) {
		return Identity()
	}
	t := p.local[i]
	for parent := p.skeleton.Parent(i); parent.Valid(); parent = p.skeleton.Parent(parent) {
		t = t.Compose(p.local[parent])
	}
	return t
}

// ComponentTransforms returns every bone in component space, in skeleton order.
func (p *Pose) ComponentTransforms() []Transform {
	if p == nil {
		return nil
	}
	out := make([]Transform, len(p.local))
	for i, t := range p.local {
		parent := p.skeleton.Parent(BoneIndex(i))
		if parent.Valid() {
			t = t.Compose(out[parent])
		}
		out[i] = t
	}
	return out
}

// SocketTransform returns the named socket in component space.
func (p *Pose) SocketTransform(name string) (Transform, bool) {
	if p == nil {
		return Transform{}, false
	}
	sock, ok := p.skeleton.Socket(name)
	if !ok {
		return Transform{}, false
	}
	return sock.Offset.Compose(p.ComponentTransform(sock.Bone)), true
}
