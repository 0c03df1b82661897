package main

import (
	"math"
	"testing"
	"time"
)

// stubEngine is a scripted Engine: seeks land instantly unless lag is set,
// letting tests hold a seek in flight.
type stubEngine struct {
	snap     WorldSnapshot
	farthest int
	total    int
	deltas   map[int]TurnDelta
	lag      bool
	seeks    []int
	computes int
}

func (e *stubEngine) Current() WorldSnapshot { return e.snap }

func (e *stubEngine) Delta(turn int) (TurnDelta, bool) {
	d, ok := e.deltas[turn]
	return d, ok
}

func (e *stubEngine) Seek(turn int) {
	e.seeks = append(e.seeks, turn)
	if e.lag || turn < 0 || turn > e.farthest {
		return
	}
	e.snap.Turn = turn
}

func (e *stubEngine) Compute(time.Duration) { e.computes++ }

func (e *stubEngine) FarthestTurn() int { return e.farthest }

func (e *stubEngine) TotalTurns() int { return e.total }

type recordSink struct {
	current, farthest int
	ups, rps          float64
	calls             int
}

func (s *recordSink) SetTime(currentTurn, farthestTurn int, updatesPerSec, rendersPerSec float64) {
	s.current = currentTurn
	s.farthest = farthestTurn
	s.ups = updatesPerSec
	s.rps = rendersPerSec
	s.calls++
}

func testConf() playbackConfig {
	return playbackConfig{
		DefaultSpeed:    10,
		FastSpeed:       300,
		RewindSpeed:     100,
		DriftStallTurns: 10,
		RewindStopTurn:  10,
		ComputeBudget:   5 * time.Millisecond,
		Interpolate:     true,
	}
}

func newTestController(eng *stubEngine) (*playbackController, *recordSink) {
	sink := &recordSink{}
	return newPlaybackController(eng, sink, testConf()), sink
}

func TestFirstTickOnlyRecords(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	c, sink := newTestController(eng)
	c.togglePause()

	if _, ok := c.tick(time.Unix(100, 0)); ok {
		t.Fatalf("first tick produced a frame request")
	}
	if c.st.simTime != 0 || len(eng.seeks) != 0 || sink.calls != 0 {
		t.Fatalf("first tick mutated state: simTime=%v seeks=%v calls=%d", c.st.simTime, eng.seeks, sink.calls)
	}
	if c.st.lastTick.IsZero() {
		t.Fatalf("first tick did not record its timestamp")
	}
}

func TestAdvancementFormula(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	c, sink := newTestController(eng)
	c.togglePause()
	if c.speed() != 10 {
		t.Fatalf("unpause: goalSpeed=%v, want 10", c.speed())
	}

	t0 := time.Unix(100, 0)
	c.tick(t0)
	if _, ok := c.tick(t0.Add(time.Second)); !ok {
		t.Fatalf("second tick produced no frame request")
	}
	if math.Abs(c.st.simTime-10) > 1e-9 {
		t.Fatalf("simTime=%v, want 10", c.st.simTime)
	}
	if got := eng.seeks[len(eng.seeks)-1]; got != 10 {
		t.Fatalf("engine seeked to %d, want 10", got)
	}
	if sink.current != 10 || sink.farthest != 100 {
		t.Fatalf("display got (%d,%d), want (10,100)", sink.current, sink.farthest)
	}
	if eng.computes == 0 {
		t.Fatalf("engine Compute never invoked")
	}
}

func TestToggleIdempotence(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	c, _ := newTestController(eng)

	c.togglePause()
	c.togglePause()
	if c.speed() != 0 {
		t.Fatalf("pause/unpause: goalSpeed=%v, want 0", c.speed())
	}

	c.togglePause()
	c.toggleFastForward()
	if c.speed() != 300 {
		t.Fatalf("fast-forward: goalSpeed=%v, want 300", c.speed())
	}
	c.toggleFastForward()
	if c.speed() != 10 {
		t.Fatalf("fast-forward twice: goalSpeed=%v, want 10", c.speed())
	}

	c.toggleRewind()
	if c.speed() != -100 || !c.st.rewinding {
		t.Fatalf("rewind: goalSpeed=%v rewinding=%v", c.speed(), c.st.rewinding)
	}
	c.toggleRewind()
	if c.speed() != 10 || c.st.rewinding {
		t.Fatalf("rewind twice: goalSpeed=%v rewinding=%v, want 10/false", c.speed(), c.st.rewinding)
	}
}

func TestRewindAutoStopNearStart(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	eng.snap.Turn = 5
	c, _ := newTestController(eng)
	c.st.simTime = 5
	c.toggleRewind()

	t0 := time.Unix(100, 0)
	c.tick(t0)
	c.tick(t0.Add(16 * time.Millisecond))
	if c.speed() != c.conf.DefaultSpeed || c.st.rewinding {
		t.Fatalf("after auto-stop: goalSpeed=%v rewinding=%v, want %v/false", c.speed(), c.st.rewinding, c.conf.DefaultSpeed)
	}
	if c.st.simTime != 5 {
		t.Fatalf("auto-stop tick advanced simTime to %v", c.st.simTime)
	}
}

func TestSeekFreezesUntilEngineArrives(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000, lag: true}
	c, _ := newTestController(eng)
	c.togglePause()

	c.seekTo(50)
	if !c.seeking() || c.st.simTime != 50 {
		t.Fatalf("after seekTo: seeking=%v simTime=%v", c.seeking(), c.st.simTime)
	}

	t0 := time.Unix(100, 0)
	c.tick(t0)
	c.tick(t0.Add(time.Second))
	if !c.seeking() {
		t.Fatalf("seek cleared before the engine arrived")
	}
	if c.st.simTime != 50 {
		t.Fatalf("simTime advanced during seek: %v", c.st.simTime)
	}

	eng.snap.Turn = 50
	c.tick(t0.Add(2 * time.Second))
	if c.seeking() {
		t.Fatalf("seek still in flight after arrival")
	}

	c.tick(t0.Add(2500 * time.Millisecond))
	if math.Abs(c.st.simTime-55) > 1e-9 {
		t.Fatalf("advancement did not resume: simTime=%v, want 55", c.st.simTime)
	}
}

func TestSeekTargetClamped(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	c, _ := newTestController(eng)

	c.seekTo(-5)
	if c.st.seekTarget != 0 {
		t.Fatalf("negative seek clamped to %d, want 0", c.st.seekTarget)
	}
	c.seekTo(100000)
	if c.st.seekTarget != 100 {
		t.Fatalf("overlarge seek clamped to %d, want 100", c.st.seekTarget)
	}
}

func TestDriftStallsAdvancement(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000, lag: true}
	c, _ := newTestController(eng)
	c.togglePause()
	c.st.simTime = 15 // engine stuck at turn 0

	t0 := time.Unix(100, 0)
	c.tick(t0)
	c.tick(t0.Add(time.Second))
	if c.st.simTime != 15 {
		t.Fatalf("stalled tick moved simTime to %v", c.st.simTime)
	}

	// Engine catches up, drift shrinks below the window, time flows again.
	eng.snap.Turn = 10
	c.tick(t0.Add(2 * time.Second))
	if math.Abs(c.st.simTime-25) > 1e-9 {
		t.Fatalf("post-stall simTime=%v, want 25", c.st.simTime)
	}
}

func TestUpdateRateCountsTurnsAdvanced(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	c, sink := newTestController(eng)
	c.togglePause()

	t0 := time.Unix(100, 0)
	c.tick(t0)
	c.tick(t0.Add(time.Second))
	c.tick(t0.Add(1500 * time.Millisecond))
	if sink.ups <= 0 {
		t.Fatalf("updates/sec not measured: %v", sink.ups)
	}
	if sink.rps <= 0 {
		t.Fatalf("renders/sec not measured: %v", sink.rps)
	}
}

func TestInterpolatedFrameRequest(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000, deltas: map[int]TurnDelta{
		0: {Turn: 0, Moves: []robotMove{{ID: 1, ToX: 1}}},
	}}
	c, _ := newTestController(eng)
	c.togglePause()

	// Tick fast enough that the measured render rate exceeds the 10
	// turns/sec goal speed.
	now := time.Unix(100, 0)
	c.tick(now)
	var req frameRequest
	var ok bool
	for i := 0; i < 6; i++ {
		now = now.Add(10 * time.Millisecond)
		req, ok = c.tick(now)
	}
	if !ok || !req.interpolate {
		t.Fatalf("expected interpolated frame, got ok=%v interpolate=%v", ok, req.interpolate)
	}
	if req.fraction < 0 || req.fraction > 1 {
		t.Fatalf("fraction out of range: %v", req.fraction)
	}
	if math.Abs(req.fraction-c.st.simTime) > 1e-9 {
		t.Fatalf("fraction=%v, want simTime %v while on turn 0", req.fraction, c.st.simTime)
	}
}

func TestExactFrameWhenNextTurnMissing(t *testing.T) {
	eng := &stubEngine{farthest: 1, total: 1000}
	c, _ := newTestController(eng)
	c.togglePause()

	now := time.Unix(100, 0)
	c.tick(now)
	var req frameRequest
	for i := 0; i < 6; i++ {
		now = now.Add(10 * time.Millisecond)
		req, _ = c.tick(now)
	}
	if req.interpolate {
		t.Fatalf("interpolated with currentTurn+1 >= farthestTurn")
	}
}

func TestCompletionAutoPauses(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 100}
	eng.snap.Turn = 100
	c, _ := newTestController(eng)
	c.togglePause()
	c.st.simTime = 100

	t0 := time.Unix(100, 0)
	c.tick(t0)
	c.tick(t0.Add(time.Second))
	if !c.paused() {
		t.Fatalf("playback did not pause at the end of the match: goalSpeed=%v", c.speed())
	}
}

func TestResetClearsLoopState(t *testing.T) {
	eng := &stubEngine{farthest: 100, total: 1000}
	c, _ := newTestController(eng)
	c.togglePause()
	t0 := time.Unix(100, 0)
	c.tick(t0)
	c.tick(t0.Add(time.Second))

	c.reset()
	if c.st.simTime != 0 || !c.st.lastTick.IsZero() || c.speed() != 0 || c.seeking() {
		t.Fatalf("reset left state behind: %+v", c.st)
	}
	if c.renderRate.rate() != 0 || c.updateRate.rate() != 0 {
		t.Fatalf("reset left tracker samples behind")
	}
}
