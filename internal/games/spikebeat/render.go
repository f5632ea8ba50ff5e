package spikebeat

import (
	"fmt"
	"math"

	"github.com/vovakirdan/spikebeat/internal/core"
)

// Render characters
const (
	PlayerChar     = '█'
	DeadChar       = 'X'
	SpikeChar      = '▲'
	GroundChar     = '▀'
	GroundStripe   = '▔'
	ParticleChar   = '·'
	ParticleBright = '*'
	StarChar       = '.'
	GoalChar       = '▌'
)

// playfield maps viewport coordinates onto the rows between the HUD and the
// narrative line.
type playfield struct {
	w, h   int
	top    int
	sx, sy float64
}

func newPlayfield(dst *core.Screen, f *Frame) playfield {
	pf := playfield{w: dst.Width(), h: dst.Height() - 2, top: 1}
	if pf.h < 1 {
		pf.h = 1
	}
	if f.ViewportW > 0 {
		pf.sx = float64(pf.w) / f.ViewportW
	}
	if f.ViewportH > 0 {
		pf.sy = float64(pf.h) / f.ViewportH
	}
	return pf
}

func (pf playfield) col(x float64) int {
	return int(math.Floor(x * pf.sx))
}

func (pf playfield) row(y float64) int {
	return pf.top + int(math.Floor(y*pf.sy))
}

// span returns at least one cell for any positive length.
func span(v, scale float64) int {
	n := int(math.Round(v * scale))
	if n < 1 && v > 0 {
		n = 1
	}
	return n
}

// RenderFrame draws a frame onto a character screen.
func RenderFrame(dst *core.Screen, f *Frame) {
	dst.Clear()
	dst.SetTheme(f.Color)

	if f.State == StateHome {
		renderHome(dst, f)
		return
	}

	pf := newPlayfield(dst, f)
	groundRow := pf.row(f.GroundY)

	if f.Parallax {
		drawParallax(dst, pf, f.CameraX, groundRow)
	}

	// Ground with stripes scrolling at camera speed
	dst.FillRect(0, groundRow, pf.w, 1, GroundChar, core.ColorTheme)
	offset := int(f.CameraX*pf.sx) % 4
	for x := -offset; x < pf.w; x += 4 {
		dst.SetColored(x, groundRow+1, GroundStripe, core.ColorGray)
	}

	if f.HasGoal {
		gx := pf.col(f.GoalX)
		for y := pf.top; y < groundRow; y++ {
			dst.SetColored(gx, y, GoalChar, core.ColorBrightWhite)
		}
	}

	spikeColor := core.ColorTheme
	if f.Pulse > 0.6 {
		spikeColor = core.ColorBrightWhite
	}
	for _, s := range f.Spikes {
		drawSpike(dst, pf, s, spikeColor)
	}

	for _, p := range f.Particles {
		ch := ParticleChar
		if p.Fade() > 0.5 {
			ch = ParticleBright
		}
		dst.SetColored(pf.col(p.X), pf.row(p.Y), ch, core.ColorTheme)
	}

	drawPlayer(dst, pf, f.Player)
	drawHUD(dst, f)

	switch f.State {
	case StateDead:
		drawCenteredMessage(dst, "CRASHED", fmt.Sprintf("Attempt %d  |  R to retry  |  Esc for levels", f.HUD.Attempt))
	case StateComplete:
		drawCenteredMessage(dst, "LEVEL COMPLETE", fmt.Sprintf("%s in %d attempts", f.HUD.Level, f.HUD.Attempt))
	}
}

// drawParallax scatters a slow star layer above the ground.
func drawParallax(dst *core.Screen, pf playfield, cameraX float64, groundRow int) {
	shift := int(cameraX * pf.sx * 0.25)
	for y := pf.top; y < groundRow-1; y += 3 {
		for x := 0; x < pf.w; x++ {
			wx := x + shift
			if (wx*7+y*13)%29 == 0 {
				dst.SetColored(x, y, StarChar, core.ColorGray)
			}
		}
	}
}

// drawSpike fills the triangle row by row, narrowing toward the apex.
func drawSpike(dst *core.Screen, pf playfield, s ScreenSpike, c core.Color) {
	x0 := pf.col(s.X)
	w := span(s.W, pf.sx)
	h := span(s.H, pf.sy)
	base := pf.row(s.BaseY) - 1
	for dy := 0; dy < h; dy++ {
		inset := 0
		if h > 1 {
			inset = dy * w / (2 * h)
		}
		for dx := inset; dx < w-inset; dx++ {
			dst.SetColored(x0+dx, base-dy, SpikeChar, c)
		}
		if w-2*inset <= 0 {
			dst.SetColored(x0+w/2, base-dy, SpikeChar, c)
		}
	}
}

func drawPlayer(dst *core.Screen, pf playfield, p Pose) {
	x0 := pf.col(p.X)
	y0 := pf.row(p.Y)
	w := span(p.W, pf.sx)
	h := span(p.H, pf.sy)
	if p.Dead {
		dst.FillRect(x0, y0, w, h, DeadChar, core.ColorBrightRed)
		return
	}
	dst.FillRect(x0, y0, w, h, PlayerChar, core.ColorBrightWhite)
}

func drawHUD(dst *core.Screen, f *Frame) {
	left := fmt.Sprintf(" %s  Attempt %d ", f.HUD.Level, f.HUD.Attempt)
	dst.DrawTextColored(1, 0, left, core.ColorTheme)

	right := fmt.Sprintf(" %3d%% ", f.HUD.Progress)
	dst.DrawText(dst.Width()-len(right)-1, 0, right)

	if f.HUD.Status != "" {
		dst.DrawTextCentered(0, f.HUD.Status)
	}
	dst.DrawTextCenteredColored(dst.Height()-1, f.HUD.Narrative, core.ColorGray)
}

// renderHome draws the level carousel.
func renderHome(dst *core.Screen, f *Frame) {
	title := "S P I K E B E A T"
	dst.DrawTextCenteredColored(1, title, core.ColorTheme)

	name := fmt.Sprintf("<  %s  >", f.HUD.Level)
	boxW := core.Max(len([]rune(name))+6, 30)
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)
	dst.DrawTextCenteredColored(boxY+1, name, core.ColorTheme)
	dst.DrawTextCentered(boxY+3, fmt.Sprintf("Level %d of %d", f.HUD.Index+1, f.HUD.Count))

	dst.DrawTextCenteredColored(boxY+boxH+1, f.HUD.Narrative, core.ColorGray)
	dst.DrawTextCentered(dst.Height()-2, "←/→ choose   Enter play   Space jump   Q quit")
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
