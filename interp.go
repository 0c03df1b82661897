package main

// shouldInterpolate decides whether the next frame is drawn between two
// turns or exactly on one. Interpolation needs the next turn's delta to be
// loaded, and only pays off while the renderer outpaces the requested
// playback speed; once the loop draws slower than one turn per frame the
// in-between positions would never be seen.
func shouldInterpolate(enabled bool, goalSpeed float64, currentTurn, farthestTurn int, renderRate float64) bool {
	if !enabled {
		return false
	}
	if currentTurn+1 >= farthestTurn {
		return false
	}
	if goalSpeed >= renderRate {
		return false
	}
	return true
}

// lerpFraction is the fractional position between currentTurn and the next
// turn, clamped to [0,1].
func lerpFraction(simTime float64, currentTurn int) float64 {
	f := simTime - float64(currentTurn)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
