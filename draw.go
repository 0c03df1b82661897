package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/time/rate"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Renderer draws one frame. A request without interpolate set asks for an
// exact frame on req.base.Turn.
type Renderer interface {
	Render(dst *ebiten.Image, req frameRequest)
}

const (
	robotRadius = 8.0
	hudMargin   = 8
)

var (
	hudFont   text.Face
	teamColor = map[uint8]color.RGBA{
		teamRed:  {R: 220, G: 60, B: 50, A: 255},
		teamBlue: {R: 70, G: 110, B: 230, A: 255},
	}
)

func initFont() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	hudFont = &text.GoTextFace{Source: src, Size: 14}
}

// robotRenderer draws the arena from a frame request, placing each robot
// between its current and next-turn position when interpolation is on.
type robotRenderer struct {
	sprites map[uint8]*ebiten.Image
}

func newRobotRenderer() *robotRenderer {
	r := &robotRenderer{sprites: make(map[uint8]*ebiten.Image, len(teamColor))}
	r.precacheSprites()
	return r
}

// precacheSprites renders the per-team robot discs up front so Draw never
// rasterizes circles mid-frame. The work is fanned out across CPUs.
func (r *robotRenderer) precacheSprites() {
	type built struct {
		team uint8
		img  *ebiten.Image
	}
	out := make(chan built, len(teamColor))
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for team, clr := range teamColor {
		wg.Add()
		go func(team uint8, clr color.RGBA) {
			defer wg.Done()
			size := int(robotRadius*2) + 2
			img := ebiten.NewImage(size, size)
			c := float32(size) / 2
			vector.DrawFilledCircle(img, c, c, robotRadius, clr, true)
			vector.StrokeCircle(img, c, c, robotRadius, 1, color.RGBA{0, 0, 0, 180}, true)
			out <- built{team: team, img: img}
		}(team, clr)
	}
	wg.Wait()
	close(out)
	for b := range out {
		r.sprites[b.team] = b.img
	}
}

func (r *robotRenderer) Render(dst *ebiten.Image, req frameRequest) {
	snap := req.base
	if snap.ArenaW <= 0 || snap.ArenaH <= 0 {
		return
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()-timelineHeight
	scale := float64(w) / snap.ArenaW
	if s := float64(h) / snap.ArenaH; s < scale {
		scale = s
	}

	var moves map[int]robotMove
	if req.interpolate {
		moves = make(map[int]robotMove, len(req.delta.Moves))
		for _, m := range req.delta.Moves {
			moves[m.ID] = m
		}
	}

	for _, robot := range snap.Robots {
		x, y := robot.X, robot.Y
		if m, ok := moves[robot.ID]; ok {
			x = m.FromX + (m.ToX-m.FromX)*req.fraction
			y = m.FromY + (m.ToY-m.FromY)*req.fraction
		}
		sx := float32(x * scale)
		sy := float32(y * scale)

		if sprite := r.sprites[robot.Team]; sprite != nil {
			op := &ebiten.DrawImageOptions{}
			sw := sprite.Bounds().Dx()
			op.GeoM.Translate(float64(sx)-float64(sw)/2, float64(sy)-float64(sw)/2)
			dst.DrawImage(sprite, op)
		}

		if robot.MaxHP > 0 && robot.HP < robot.MaxHP {
			frac := float32(robot.HP) / float32(robot.MaxHP)
			barW := float32(robotRadius * 2)
			bx := sx - barW/2
			by := sy - float32(robotRadius) - 5
			vector.DrawFilledRect(dst, bx, by, barW, 3, color.RGBA{40, 40, 40, 200}, false)
			vector.DrawFilledRect(dst, bx, by, barW*frac, 3, color.RGBA{80, 220, 80, 230}, false)
		}
	}
}

// hudState implements statusSink and draws the status line plus the
// timeline scrub bar. Rebuilding the formatted status string is throttled
// so a 60Hz loop does not spend every frame in fmt.
type hudState struct {
	currentTurn  int
	farthestTurn int
	totalTurns   int
	updatesPerS  float64
	rendersPerS  float64

	statusText    string
	statusLimiter *rate.Limiter
}

func newHUD(totalTurns int) *hudState {
	return &hudState{
		totalTurns:    totalTurns,
		statusLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

func (h *hudState) SetTime(currentTurn, farthestTurn int, updatesPerSec, rendersPerSec float64) {
	h.currentTurn = currentTurn
	h.farthestTurn = farthestTurn
	h.updatesPerS = updatesPerSec
	h.rendersPerS = rendersPerSec
	if h.statusLimiter.Allow() {
		h.rebuildStatus()
	}
}

func (h *hudState) rebuildStatus() {
	tps := int(gs.DefaultSpeed)
	if tps < 1 {
		tps = 1
	}
	cur := time.Duration(h.currentTurn) * time.Second / time.Duration(tps)
	total := time.Duration(h.totalTurns) * time.Second / time.Duration(tps)
	h.statusText = fmt.Sprintf("turn %s / %s   %s / %s   UPS: %.0f   FPS: %.0f",
		humanize.Comma(int64(h.currentTurn)),
		humanize.Comma(int64(h.totalTurns)),
		durafmt.Parse(cur.Round(time.Second)).LimitFirstN(2).Format(shortUnits),
		durafmt.Parse(total.Round(time.Second)).LimitFirstN(2).Format(shortUnits),
		h.updatesPerS, h.rendersPerS)
}

func (h *hudState) draw(dst *ebiten.Image, c *playbackController) {
	w, hgt := dst.Bounds().Dx(), dst.Bounds().Dy()

	// Timeline: loaded extent in dark grey, current position in white.
	barY := float32(hgt - timelineHeight)
	vector.DrawFilledRect(dst, 0, barY, float32(w), timelineHeight, color.RGBA{25, 25, 25, 255}, false)
	if h.totalTurns > 0 {
		loaded := float32(w) * float32(h.farthestTurn) / float32(h.totalTurns)
		vector.DrawFilledRect(dst, 0, barY, loaded, timelineHeight, color.RGBA{70, 70, 70, 255}, false)
		pos := float32(w) * float32(h.currentTurn) / float32(h.totalTurns)
		vector.DrawFilledRect(dst, pos-1, barY, 3, timelineHeight, color.RGBA{240, 240, 240, 255}, false)
	}

	if hudFont == nil {
		return
	}
	line := h.statusText
	switch {
	case c.seeking():
		line += "   [seeking]"
	case c.paused():
		line += "   [paused]"
	case c.st.rewinding:
		line += "   [rewind]"
	case c.speed() == c.conf.FastSpeed:
		line += "   [fast]"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(hudMargin, hudMargin)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(dst, line, hudFont, op)
}
