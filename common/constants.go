package common

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

const (
	MinTimeScale = 0.1
	MaxTimeScale = 4.0
	// HitchSeconds is the frame length injected by the hitch key.
	HitchSeconds = 0.25
)
