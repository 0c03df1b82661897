package main

import "time"

// Robot team identifiers. Neutral units are not part of this viewer.
const (
	teamRed uint8 = iota
	teamBlue
)

// Robot is one unit in a world snapshot. Positions are arena units with the
// origin in the top-left corner.
type Robot struct {
	ID    int
	Team  uint8
	X, Y  float64
	HP    int
	MaxHP int
}

// WorldSnapshot is the authoritative state of the match at one turn.
type WorldSnapshot struct {
	Turn   int
	ArenaW float64
	ArenaH float64
	Robots []Robot
}

type robotMove struct {
	ID           int
	FromX, FromY float64
	ToX, ToY     float64
}

type robotDamage struct {
	ID     int
	Amount int
}

// TurnDelta records the change from turn N to turn N+1. The renderer uses
// Moves to place robots between the two snapshots when interpolating.
type TurnDelta struct {
	Turn   int
	Moves  []robotMove
	Damage []robotDamage
	Deaths []int
}

// Engine is the simulation side of the viewer. The controller only touches
// the simulation through this contract; it never reaches into per-turn
// computation.
//
// Seek silently no-ops outside the loaded range, matching the classic
// client behavior; callers track FarthestTurn themselves.
type Engine interface {
	Current() WorldSnapshot
	Delta(turn int) (TurnDelta, bool)
	Seek(turn int)
	Compute(budget time.Duration)
	FarthestTurn() int
	TotalTurns() int
}

// applyDelta advances snap in place from delta.Turn to delta.Turn+1.
func applyDelta(snap *WorldSnapshot, d TurnDelta) {
	idx := make(map[int]int, len(snap.Robots))
	for i := range snap.Robots {
		idx[snap.Robots[i].ID] = i
	}
	for _, m := range d.Moves {
		if i, ok := idx[m.ID]; ok {
			snap.Robots[i].X = m.ToX
			snap.Robots[i].Y = m.ToY
		}
	}
	for _, dmg := range d.Damage {
		if i, ok := idx[dmg.ID]; ok {
			snap.Robots[i].HP -= dmg.Amount
			if snap.Robots[i].HP < 0 {
				snap.Robots[i].HP = 0
			}
		}
	}
	if len(d.Deaths) > 0 {
		dead := make(map[int]bool, len(d.Deaths))
		for _, id := range d.Deaths {
			dead[id] = true
		}
		alive := snap.Robots[:0]
		for _, r := range snap.Robots {
			if !dead[r.ID] {
				alive = append(alive, r)
			}
		}
		snap.Robots = alive
	}
	snap.Turn = d.Turn + 1
}

// cloneSnapshot deep-copies a snapshot so checkpoint restores cannot alias
// the live robot slice.
func cloneSnapshot(src WorldSnapshot) WorldSnapshot {
	dst := src
	dst.Robots = append([]Robot(nil), src.Robots...)
	return dst
}
