package main

import (
	"log"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/lookrig/common"
	"github.com/milk9111/lookrig/ecs"
	"github.com/milk9111/lookrig/ecs/entity"
	"github.com/milk9111/lookrig/ecs/system"
	"github.com/milk9111/lookrig/prefabs"
)

// maxFrameSeconds caps wall-clock frame time after window drags and breakpoints.
const maxFrameSeconds = 0.5

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	render    *system.RenderSystem
	watcher   *prefabs.Watcher
	pauseUI   *ebitenui.UI
	clipboard *rigClipboard

	last time.Time
}

func NewGame(sceneName, rigName string, debug, watch bool) (*Game, error) {
	scene, err := prefabs.LoadSceneSpec(sceneName)
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	if err := entity.BuildScene(w, scene, rigName); err != nil {
		return nil, err
	}

	g := &Game{
		world:     w,
		render:    system.NewRenderSystem(scene.Bounds.Width, scene.Bounds.Height, debug),
		clipboard: newRigClipboard(),
	}

	if watch {
		watcher, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("prefabs: hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	physics := system.NewPhysicsSystem(scene.Bounds.Width, scene.Bounds.Height, scene.Gravity)
	g.scheduler = ecs.NewScheduler(system.NewInputSystem(physics))
	if g.watcher != nil {
		g.scheduler.Add(system.NewConfigReloadSystem(g.watcher))
	}
	g.scheduler.Add(physics)
	g.scheduler.Add(system.NewTargetScriptSystem())
	g.scheduler.Add(system.NewLookTargetSystem())
	g.scheduler.Add(system.NewCameraSystem())
	g.pauseUI = NewPauseUI(g)

	return g, nil
}

func (g *Game) Update() error {
	now := time.Now()
	dt := 1 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = min(now.Sub(g.last).Seconds(), maxFrameSeconds)
	}
	g.last = now

	clock := g.world.Clock()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		clock.Paused = !clock.Paused
	}
	// A hitch feeds the solver one long frame so it has to substep.
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		dt += common.HitchSeconds
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := g.clipboard.CopyRigs(g.world); err != nil {
			log.Printf("clipboard: %v", err)
		}
	}

	clock.Advance(dt)
	g.scheduler.Update(g.world)

	if clock.Paused {
		g.pauseUI.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.world.Clock().Paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		log.Printf("prefabs: close watcher: %v", err)
	}
}
