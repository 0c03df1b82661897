package main

import (
	"reflect"
	"testing"
	"time"
)

func generateTurns(e *simEngine, n int) {
	for e.FarthestTurn() < n {
		e.Compute(time.Millisecond)
	}
}

func TestSimEngineDeterministic(t *testing.T) {
	a := newSimEngine(7, 500)
	b := newSimEngine(7, 500)
	generateTurns(a, 50)
	generateTurns(b, 50)

	a.Seek(50)
	b.Seek(50)
	if !reflect.DeepEqual(a.Current(), b.Current()) {
		t.Fatalf("same seed diverged at turn 50")
	}
}

func TestSimEngineSeekOutOfRangeNoops(t *testing.T) {
	e := newSimEngine(1, 500)
	generateTurns(e, 20)
	e.Seek(10)

	e.Seek(-1)
	if e.Current().Turn != 10 {
		t.Fatalf("negative seek moved engine to %d", e.Current().Turn)
	}
	e.Seek(e.FarthestTurn() + 5)
	if e.Current().Turn != 10 {
		t.Fatalf("out-of-range seek moved engine to %d", e.Current().Turn)
	}
}

func TestSimEngineBackwardSeekMatchesReplay(t *testing.T) {
	e := newSimEngine(3, 1000)
	generateTurns(e, 400)

	e.Seek(350)
	e.Seek(120)
	got := cloneSnapshot(e.Current())

	fresh := newSimEngine(3, 1000)
	generateTurns(fresh, 400)
	fresh.Seek(120)
	if !reflect.DeepEqual(got, fresh.Current()) {
		t.Fatalf("checkpointed backward seek diverged from forward replay")
	}
}

func TestSimEngineDeltaAdvancesOneTurn(t *testing.T) {
	e := newSimEngine(9, 500)
	generateTurns(e, 30)

	e.Seek(12)
	snap := cloneSnapshot(e.Current())
	d, ok := e.Delta(12)
	if !ok {
		t.Fatalf("no delta for loaded turn 12")
	}
	applyDelta(&snap, d)

	e.Seek(13)
	if !reflect.DeepEqual(snap, e.Current()) {
		t.Fatalf("delta application diverged from engine state at turn 13")
	}
}

func TestSimEngineDeltaBounds(t *testing.T) {
	e := newSimEngine(2, 500)
	generateTurns(e, 10)
	if _, ok := e.Delta(-1); ok {
		t.Fatalf("delta for negative turn")
	}
	if _, ok := e.Delta(e.FarthestTurn()); ok {
		t.Fatalf("delta past the farthest computed turn")
	}
}

func TestSimEngineComputeStopsAtTotal(t *testing.T) {
	e := newSimEngine(4, 25)
	e.Compute(time.Second)
	if e.FarthestTurn() != 25 {
		t.Fatalf("farthest=%d, want 25", e.FarthestTurn())
	}
	e.Compute(time.Millisecond)
	if e.FarthestTurn() != 25 {
		t.Fatalf("compute ran past the final turn")
	}
}
