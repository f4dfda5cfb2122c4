package skeleton

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateBone   = errors.New("skeleton: duplicate bone")
	ErrDuplicateSocket = errors.New("skeleton: duplicate socket")
	ErrUnknownBone     = errors.New("skeleton: unknown bone")
	ErrEmptyName       = errors.New("skeleton: empty name")
)

// BoneIndex is a position in a skeleton's bone list.
type BoneIndex int

// InvalidBone marks an unresolved bone reference.
const InvalidBone BoneIndex = -1

// Valid reports whether the index refers to a bone.
func (i BoneIndex) Valid() bool {
	return i >= 0
}

type Bone struct {
	Name    string
	Parent  BoneIndex
	RefPose Transform
}

// Socket is a named attachment point offset from a bone.
type Socket struct {
	Name   string
	Bone   BoneIndex
	Offset Transform
}

// Skeleton is an ordered bone hierarchy. Parents always precede their children.
type Skeleton struct {
	bones   []Bone
	byName  map[string]BoneIndex
	sockets map[string]Socket
}

// New creates an empty skeleton.
func New() *Skeleton {
	return &Skeleton{
		byName:  make(map[string]BoneIndex),
		sockets: make(map[string]Socket),
	}
}

// AddBone appends a bone. An empty parent makes it a root.
func (s *Skeleton) AddBone(name, parent string, ref Transform) (BoneIndex, error) {
	if name == "" {
		return InvalidBone, ErrEmptyName
	}
	if _, ok := s.byName[name]; ok {
		return InvalidBone, fmt.Errorf("%w: %s", ErrDuplicateBone, name)
	}
	parentIdx := InvalidBone
	if parent != "" {
		idx, ok := s.byName[parent]
		if !ok {
			return InvalidBone, fmt.Errorf("%w: parent %s of %s", ErrUnknownBone, parent, name)
		}
		parentIdx = idx
	}
	idx := BoneIndex(len(s.bones))
	s.bones = append(s.bones, Bone{Name: name, Parent: parentIdx, RefPose: ref})
	s.byName[name] = idx
	return idx, nil
}

// AddSocket attaches a named socket to an existing bone.
func (s *Skeleton) AddSocket(name, bone string, offset Transform) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := s.sockets[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSocket, name)
	}
	idx, ok := s.byName[bone]
	if !ok {
		return fmt.Errorf("%w: %s for socket %s", ErrUnknownBone, bone, name)
	}
	s.sockets[name] = Socket{Name: name, Bone: idx, Offset: offset}
	return nil
}

// BoneIndex resolves a bone name.
func (s *Skeleton) BoneIndex(name string) (BoneIndex, bool) {
	if s == nil {
		return InvalidBone, false
	}
	idx, ok := s.byName[name]
	if !ok {
		return InvalidBone, false
	}
	return idx, true
}

func (s *Skeleton) Bone(i BoneIndex) (Bone, bool) {
	if s == nil || i < 0 || int(i) >= len(s.bones) {
		return Bone{}, false
	}
	return s.bones[i], true
}

func (s *Skeleton) NumBones() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// Parent returns the parent of i, or InvalidBone for roots and bad indices.
func (s *Skeleton) Parent(i BoneIndex) BoneIndex {
	b, ok := s.Bone(i)
	if !ok {
		return InvalidBone
	}
	return b.Parent
}

func (s *Skeleton) Socket(name string) (Socket, bool) {
	if s == nil {
		return Socket{}, false
	}
	sock, ok := s.sockets[name]
	return sock, ok
}
