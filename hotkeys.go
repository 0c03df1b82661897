package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleHotkeys maps single-key shortcuts onto controller transitions.
// Nothing here carries playback logic; keys translate one-to-one into the
// named intents.
func handleHotkeys(c *playbackController) {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		switch k {
		case ebiten.KeySpace:
			c.togglePause()
		case ebiten.KeyF:
			c.toggleFastForward()
		case ebiten.KeyR:
			c.toggleRewind()
		case ebiten.KeyArrowLeft:
			c.skipSeconds(-gs.SkipSeconds)
		case ebiten.KeyArrowRight:
			c.skipSeconds(gs.SkipSeconds)
		case ebiten.KeyHome:
			c.seekTo(0)
		case ebiten.KeyEnd:
			c.seekTo(c.engine.FarthestTurn())
		case ebiten.KeyS:
			gs.MotionSmoothing = !gs.MotionSmoothing
			c.conf.Interpolate = gs.MotionSmoothing
		}
	}
}

// handleScrub seeks on pointer-down over the timeline bar.
func handleScrub(c *playbackController) {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	w, h := gs.WindowWidth, gs.WindowHeight
	if !timelineHit(x, y, w, h) {
		return
	}
	c.seekTo(scrubTurn(x, w, c.engine.FarthestTurn()))
}
