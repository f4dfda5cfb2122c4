package prefabs

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrScriptOutput = errors.New("prefabs: script must define x and y")

// TargetScript is a compiled tengo program mapping time to a world position.
// Scripts read the global `t` (seconds) and assign `x`, `y` and optionally `z`.
type TargetScript struct {
	name     string
	compiled *tengo.Compiled
}

// CompileTargetScript loads and compiles a script from prefabs/scripts.
func CompileTargetScript(name string) (*TargetScript, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return CompileTargetSource(name, src)
}

func CompileTargetSource(name string, src []byte) (*TargetScript, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	if err := script.Add("t", 0.0); err != nil {
		return nil, fmt.Errorf("prefabs: script %s: %w", name, err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile script %s: %w", name, err)
	}
	return &TargetScript{name: name, compiled: compiled}, nil
}

func (s *TargetScript) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Position runs the script for time t.
func (s *TargetScript) Position(t float64) (mgl64.Vec3, error) {
	if s == nil || s.compiled == nil {
		return mgl64.Vec3{}, fmt.Errorf("prefabs: script not compiled")
	}
	if err := s.compiled.Set("t", t); err != nil {
		return mgl64.Vec3{}, fmt.Errorf("prefabs: script %s: %w", s.name, err)
	}
	if err := s.compiled.Run(); err != nil {
		return mgl64.Vec3{}, fmt.Errorf("prefabs: run script %s: %w", s.name, err)
	}
	if !s.compiled.IsDefined("x") || !s.compiled.IsDefined("y") {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s", ErrScriptOutput, s.name)
	}
	pos := mgl64.Vec3{s.compiled.Get("x").Float(), s.compiled.Get("y").Float()}
	if s.compiled.IsDefined("z") {
		pos[2] = s.compiled.Get("z").Float()
	}
	return pos, nil
}
