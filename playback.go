package main

import (
	"math"
	"time"
)

// playbackConfig carries the tunable playback constants. The defaults live
// in settings.go so they persist with the rest of the user settings; the
// algorithm itself never assumes particular magnitudes.
type playbackConfig struct {
	// Speeds in turns per second. RewindSpeed is a magnitude; the
	// controller negates it.
	DefaultSpeed float64
	FastSpeed    float64
	RewindSpeed  float64

	// DriftStallTurns is how far simTime may run ahead of (or behind) the
	// engine's current turn before advancement stalls to let the engine
	// catch up. RewindStopTurn is the near-zero guard band where rewind
	// auto-disengages. Both happen to be 10 but serve different ends of
	// the timeline; keep them separate.
	DriftStallTurns float64
	RewindStopTurn  int

	// ComputeBudget is the wall-clock slice granted to the engine's own
	// turn computation every tick.
	ComputeBudget time.Duration

	Interpolate bool
}

// playbackState is the whole mutable state of the time-control loop. One
// owner, four named transitions, mutated only from the game loop.
type playbackState struct {
	goalSpeed    float64 // signed turns/second; 0 = paused
	rewinding    bool
	seekInFlight bool
	seekTarget   int
	simTime      float64   // continuous turn position, reconciled to the engine
	lastTick     time.Time // zero before the first tick
}

// frameRequest is what one tick asks the renderer to draw.
type frameRequest struct {
	base        WorldSnapshot
	delta       TurnDelta
	interpolate bool
	fraction    float64
}

// statusSink receives the per-tick display update. The HUD implements it;
// tests use a recording stub.
type statusSink interface {
	SetTime(currentTurn, farthestTurn int, updatesPerSec, rendersPerSec float64)
}

// playbackController reconciles wall-clock time, the selected playback
// speed, seek requests, and the throughput of the engine and renderer. It
// runs once per animation frame on the game loop and never concurrently
// with itself, so it carries no locks.
type playbackController struct {
	engine  Engine
	display statusSink
	conf    playbackConfig

	st playbackState

	renderRate *rateTracker
	updateRate *rateTracker
}

func newPlaybackController(eng Engine, display statusSink, conf playbackConfig) *playbackController {
	return &playbackController{
		engine:     eng,
		display:    display,
		conf:       conf,
		renderRate: newRateTracker(),
		updateRate: newRateTracker(),
	}
}

func (c *playbackController) paused() bool { return c.st.goalSpeed == 0 }

func (c *playbackController) speed() float64 { return c.st.goalSpeed }

func (c *playbackController) seeking() bool { return c.st.seekInFlight }

// togglePause flips between paused and the default forward rate.
func (c *playbackController) togglePause() {
	if c.st.goalSpeed == 0 {
		c.st.goalSpeed = c.conf.DefaultSpeed
	} else {
		c.st.goalSpeed = 0
	}
	c.st.rewinding = false
}

// toggleFastForward flips between the fast rate and the default rate.
func (c *playbackController) toggleFastForward() {
	if c.st.goalSpeed == c.conf.FastSpeed {
		c.st.goalSpeed = c.conf.DefaultSpeed
	} else {
		c.st.goalSpeed = c.conf.FastSpeed
	}
	c.st.rewinding = false
}

// toggleRewind starts rewinding, or drops back to the default forward rate
// if a rewind is already active.
func (c *playbackController) toggleRewind() {
	if c.st.rewinding {
		c.st.goalSpeed = c.conf.DefaultSpeed
		c.st.rewinding = false
	} else {
		c.st.goalSpeed = -c.conf.RewindSpeed
		c.st.rewinding = true
	}
}

// seekTo jumps playback to turn. The target is clamped to the loaded
// range; time advancement freezes until the engine confirms arrival so the
// renderer never interpolates across the jump.
func (c *playbackController) seekTo(turn int) {
	if turn < 0 {
		turn = 0
	}
	if far := c.engine.FarthestTurn(); turn > far {
		turn = far
	}
	c.st.seekInFlight = true
	c.st.seekTarget = turn
	c.engine.Seek(turn)
	c.st.simTime = float64(turn)
}

// skipSeconds seeks relative to the current turn by the given wall-clock
// duration at the default playback rate.
func (c *playbackController) skipSeconds(sec float64) {
	c.seekTo(c.engine.Current().Turn + int(sec*c.conf.DefaultSpeed))
}

// reset clears the loop state for a new match.
func (c *playbackController) reset() {
	c.st = playbackState{}
	c.renderRate.reset()
	c.updateRate.reset()
}

// tick runs one iteration of the time-control loop. It returns the frame
// to draw and false only on the very first tick, which merely records its
// timestamp.
func (c *playbackController) tick(now time.Time) (frameRequest, bool) {
	if c.st.lastTick.IsZero() {
		c.st.lastTick = now
		return frameRequest{}, false
	}
	dt := now.Sub(c.st.lastTick)
	before := c.engine.Current().Turn

	switch {
	case c.st.seekInFlight:
		// Frozen until the engine lands on the target turn.
		if before == c.st.seekTarget {
			c.st.seekInFlight = false
		}
	case c.st.rewinding && before <= c.conf.RewindStopTurn:
		// Rewinding past the start of the match is meaningless; settle
		// back onto the default forward rate.
		c.toggleRewind()
	default:
		drift := math.Abs(c.st.simTime - float64(before))
		if drift < c.conf.DriftStallTurns {
			c.st.simTime += c.st.goalSpeed * dt.Seconds()
			c.clampSimTime()
			c.engine.Seek(int(math.Floor(c.st.simTime)))
		}
		// A drift at or past the stall window means the engine has fallen
		// behind the intended timeline; hold simTime until it catches up.
	}

	after := c.engine.Current().Turn
	c.renderRate.update(now, 1)
	c.updateRate.update(now, math.Abs(float64(after-before)))

	far := c.engine.FarthestTurn()
	c.display.SetTime(after, far, c.updateRate.rate(), c.renderRate.rate())

	c.engine.Compute(c.conf.ComputeBudget)

	// Playing off the end of a fully computed match parks the loop.
	if c.st.goalSpeed > 0 && !c.st.seekInFlight &&
		c.engine.FarthestTurn() >= c.engine.TotalTurns() &&
		after >= c.engine.TotalTurns() {
		c.st.goalSpeed = 0
		c.st.rewinding = false
	}

	snap := c.engine.Current()
	req := frameRequest{base: snap}
	if shouldInterpolate(c.conf.Interpolate, c.st.goalSpeed, snap.Turn, c.engine.FarthestTurn(), c.renderRate.rate()) {
		if d, ok := c.engine.Delta(snap.Turn); ok {
			req.delta = d
			req.interpolate = true
			req.fraction = lerpFraction(c.st.simTime, snap.Turn)
		}
	}

	c.st.lastTick = now
	return req, true
}

func (c *playbackController) clampSimTime() {
	if c.st.simTime < 0 {
		c.st.simTime = 0
	}
	if far := float64(c.engine.FarthestTurn()); c.st.simTime > far {
		c.st.simTime = far
	}
}
