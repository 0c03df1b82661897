package main

import (
	"math"
	"math/rand"
	"time"
)

// checkpointInterval determines how often full snapshots are retained while
// turns are generated. Larger intervals reduce memory usage at the cost of
// slower backward seeks.
const checkpointInterval = 300

const (
	fakeArenaW     = 100.0
	fakeArenaH     = 100.0
	fakeTeamSize   = 12
	fakeAttackDist = 8.0
	fakeMaxHP      = 50
)

// simEngine is a deterministic synthetic match implementing the Engine
// contract. It lets the viewer run without a real match file: robots drift
// toward the enemy side, trade damage at close range, and die off until the
// final turn. Computation is incremental and budgeted, like a real engine
// amortizing per-turn work across frames.
type simEngine struct {
	total int // final turn index
	cur   WorldSnapshot

	// head is the state at the farthest generated turn; deltas[i] carries
	// turn i to i+1.
	head        WorldSnapshot
	deltas      []TurnDelta
	checkpoints []WorldSnapshot
	rng         *rand.Rand
}

func newSimEngine(seed int64, totalTurns int) *simEngine {
	if totalTurns < 1 {
		totalTurns = 1
	}
	rng := rand.New(rand.NewSource(seed))
	snap := WorldSnapshot{ArenaW: fakeArenaW, ArenaH: fakeArenaH}
	for i := 0; i < fakeTeamSize; i++ {
		snap.Robots = append(snap.Robots, Robot{
			ID: i, Team: teamRed,
			X: 5 + rng.Float64()*20, Y: 5 + rng.Float64()*(fakeArenaH-10),
			HP: fakeMaxHP, MaxHP: fakeMaxHP,
		})
		snap.Robots = append(snap.Robots, Robot{
			ID: fakeTeamSize + i, Team: teamBlue,
			X: fakeArenaW - 5 - rng.Float64()*20, Y: 5 + rng.Float64()*(fakeArenaH-10),
			HP: fakeMaxHP, MaxHP: fakeMaxHP,
		})
	}
	return &simEngine{
		total:       totalTurns,
		cur:         cloneSnapshot(snap),
		head:        snap,
		checkpoints: []WorldSnapshot{cloneSnapshot(snap)},
		rng:         rng,
	}
}

func (e *simEngine) Current() WorldSnapshot { return e.cur }

func (e *simEngine) FarthestTurn() int { return len(e.deltas) }

func (e *simEngine) TotalTurns() int { return e.total }

func (e *simEngine) Delta(turn int) (TurnDelta, bool) {
	if turn < 0 || turn >= len(e.deltas) {
		return TurnDelta{}, false
	}
	return e.deltas[turn], true
}

// Compute generates further turns until the wall-clock budget expires or
// the match is fully generated. At least one turn is produced per call so
// a tiny budget still makes progress.
func (e *simEngine) Compute(budget time.Duration) {
	deadline := time.Now().Add(budget)
	for len(e.deltas) < e.total {
		e.generateTurn()
		if !time.Now().Before(deadline) {
			break
		}
	}
}

// Seek moves the current snapshot to turn, silently ignoring targets
// outside the generated range. Backward seeks restore the nearest retained
// checkpoint and replay deltas forward from there.
func (e *simEngine) Seek(turn int) {
	if turn < 0 || turn > len(e.deltas) {
		return
	}
	if turn == e.cur.Turn {
		return
	}
	if turn > e.cur.Turn {
		// Forward: replay from where we are.
		for e.cur.Turn < turn {
			applyDelta(&e.cur, e.deltas[e.cur.Turn])
		}
		return
	}
	cp := e.checkpoints[turn/checkpointInterval]
	e.cur = cloneSnapshot(cp)
	for e.cur.Turn < turn {
		applyDelta(&e.cur, e.deltas[e.cur.Turn])
	}
}

func (e *simEngine) generateTurn() {
	turn := len(e.deltas)
	d := TurnDelta{Turn: turn}

	var redX, redY, blueX, blueY float64
	var redN, blueN int
	for _, r := range e.head.Robots {
		if r.Team == teamRed {
			redX += r.X
			redY += r.Y
			redN++
		} else {
			blueX += r.X
			blueY += r.Y
			blueN++
		}
	}

	for _, r := range e.head.Robots {
		// March toward the enemy centroid with a little lateral wobble.
		tx, ty := blueX, blueY
		tn := blueN
		if r.Team == teamBlue {
			tx, ty = redX, redY
			tn = redN
		}
		nx, ny := r.X, r.Y
		if tn > 0 {
			dx := tx/float64(tn) - r.X
			dy := ty/float64(tn) - r.Y
			dist := math.Hypot(dx, dy)
			if dist > 1 {
				nx += dx / dist * 0.4
				ny += dy / dist * 0.4
			}
		}
		ny += (e.rng.Float64() - 0.5) * 0.6
		nx = math.Max(0, math.Min(fakeArenaW, nx))
		ny = math.Max(0, math.Min(fakeArenaH, ny))
		if nx != r.X || ny != r.Y {
			d.Moves = append(d.Moves, robotMove{ID: r.ID, FromX: r.X, FromY: r.Y, ToX: nx, ToY: ny})
		}
	}

	// Close-range skirmish damage against the nearest enemy.
	for _, r := range e.head.Robots {
		for _, o := range e.head.Robots {
			if o.Team == r.Team {
				continue
			}
			if math.Hypot(o.X-r.X, o.Y-r.Y) <= fakeAttackDist && e.rng.Float64() < 0.3 {
				d.Damage = append(d.Damage, robotDamage{ID: o.ID, Amount: 1 + e.rng.Intn(3)})
				break
			}
		}
	}

	probe := cloneSnapshot(e.head)
	applyDelta(&probe, TurnDelta{Turn: turn, Moves: d.Moves, Damage: d.Damage})
	for _, r := range probe.Robots {
		if r.HP <= 0 {
			d.Deaths = append(d.Deaths, r.ID)
		}
	}

	e.deltas = append(e.deltas, d)
	applyDelta(&e.head, d)
	if e.head.Turn%checkpointInterval == 0 {
		e.checkpoints = append(e.checkpoints, cloneSnapshot(e.head))
	}
}
