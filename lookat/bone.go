package lookat

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lookrig/skeleton"
)

// minBoneWeight keeps bias math finite for zero or negative author weights.
const minBoneWeight = 1e-4

// BoneEntry is the per-bone simulation state owned by a Solver.
type BoneEntry struct {
	Name   string
	Weight float64

	index    skeleton.BoneIndex
	bias     float64
	current  mgl64.Vec3
	previous mgl64.Vec3
	spring   AngularSpring
}

// BoneState is a read-only snapshot of a BoneEntry.
type BoneState struct {
	Name     string
	Index    skeleton.BoneIndex
	Weight   float64
	Bias     float64
	Current  mgl64.Vec3
	Previous mgl64.Vec3
	Velocity mgl64.Vec3
}

func newBoneEntries(settings []BoneSetting) []BoneEntry {
	bones := make([]BoneEntry, len(settings))
	for i, bs := range settings {
		bones[i] = BoneEntry{
			Name:   bs.Name,
			Weight: bs.Weight,
			index:  skeleton.InvalidBone,
		}
	}
	return bones
}

func (b *BoneEntry) state() BoneState {
	return BoneState{
		Name:     b.Name,
		Index:    b.index,
		Weight:   b.Weight,
		Bias:     b.bias,
		Current:  b.current,
		Previous: b.previous,
		Velocity: b.spring.Velocity(),
	}
}

// computeBiases scales every weight by the smallest one and normalises the
// result so the biases sum to one.
func computeBiases(bones []BoneEntry) {
	if len(bones) == 0 {
		return
	}
	minWeight := 0.0
	for i := range bones {
		w := clampWeight(bones[i].Weight)
		if i == 0 || w < minWeight {
			minWeight = w
		}
	}

	total := 0.0
	for i := range bones {
		bones[i].bias = clampWeight(bones[i].Weight) / minWeight
		total += bones[i].bias
	}
	for i := range bones {
		bones[i].bias /= total
	}
}

func clampWeight(w float64) float64 {
	if w < minBoneWeight {
		return minBoneWeight
	}
	return w
}

// hierarchyOrder returns bone positions sorted by pose index. Containers index
// parents before their children.
func hierarchyOrder(bones []BoneEntry) []int {
	order := make([]int, len(bones))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bones[order[a]].index < bones[order[b]].index
	})
	return order
}
