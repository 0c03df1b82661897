package main

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	gameCtx context.Context

	ctrl     *playbackController
	hud      *hudState
	renderer Renderer

	lastReq frameRequest
	haveReq bool
)

// Game drives the cooperative loop: Update is the once-per-animation-frame
// scheduling tick the controller runs on, Draw paints the frame the tick
// requested. Neither ever runs concurrently with the other.
type Game struct{}

func (g *Game) Update() error {
	select {
	case <-gameCtx.Done():
		saveSettings()
		return errors.New("shutdown")
	default:
	}
	if ctrl == nil {
		return nil
	}

	handleHotkeys(ctrl)
	handleScrub(ctrl)

	if req, ok := ctrl.tick(time.Now()); ok {
		lastReq = req
		haveReq = true
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if ctrl == nil {
		return
	}
	req := lastReq
	if !haveReq {
		// Before the first full tick, paint an exact frame of whatever
		// the engine currently holds.
		req = frameRequest{base: ctrl.engine.Current()}
	}
	renderer.Render(screen, req)
	hud.draw(screen, ctrl)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	gs.WindowWidth, gs.WindowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// startMatch wires a fresh controller for eng, tearing down whatever match
// was active so no stale loop state survives the switch.
func startMatch(eng Engine) {
	conf := playbackConfig{
		DefaultSpeed:    gs.DefaultSpeed,
		FastSpeed:       gs.FastSpeed,
		RewindSpeed:     gs.RewindSpeed,
		DriftStallTurns: gs.DriftStallTurns,
		RewindStopTurn:  gs.RewindStopTurn,
		ComputeBudget:   time.Duration(gs.ComputeBudgetMs) * time.Millisecond,
		Interpolate:     gs.MotionSmoothing,
	}
	hud = newHUD(eng.TotalTurns())
	ctrl = newPlaybackController(eng, hud, conf)
	lastReq = frameRequest{}
	haveReq = false
}

func runGame(ctx context.Context) error {
	gameCtx = ctx
	initFont()
	renderer = newRobotRenderer()
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("bcviewer")
	err := ebiten.RunGame(&Game{})
	if err != nil && err.Error() == "shutdown" {
		return nil
	}
	return err
}
