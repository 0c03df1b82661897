package main

import "math"

// scrubTurn translates a pointer X position on the timeline bar into a
// seek target. The coordinate is clamped to the bar before scaling, so a
// drag that runs off either edge pins to the first or farthest turn.
func scrubTurn(x, width, farthestTurn int) int {
	if width <= 0 {
		return 0
	}
	if x < 0 {
		x = 0
	}
	if x > width {
		x = width
	}
	return int(math.Floor(float64(farthestTurn) * float64(x) / float64(width)))
}

// timelineHeight is the scrub bar strip along the bottom of the window.
const timelineHeight = 18

// timelineHit reports whether a pointer position lands on the scrub bar.
func timelineHit(x, y, screenW, screenH int) bool {
	return y >= screenH-timelineHeight && y < screenH && x >= 0 && x <= screenW
}
