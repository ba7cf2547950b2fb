package game

import (
	"fmt"

	"github.com/ByteArena/box2d"

	"github.com/vovakirdan/hidden-marble/internal/core"
)

// Minimum screen size for drawing the board.
const (
	minScreenW = 24
	minScreenH = 8
	hudHeight  = 1
)

// Glyphs used on the board.
const (
	glyphWall   = '█'
	glyphCorner = '▓'
	glyphMarble = '●'
)

// Render draws the board, the HUD and any overlay into dst.
// The screen is pre-cleared before this call.
func (s *Session) Render(dst *core.Screen) {
	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small", core.ColorRed)
		return
	}
	if s.world == nil {
		return
	}

	s.renderHUD(dst)

	area := core.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight-1)
	vp := core.FitViewport(area, s.world.Width(), s.world.Height())
	dst.DrawBox(vp.Area, core.ColorGray)

	if s.solved || s.reveal {
		s.renderMaze(dst, vp)
	}

	pos := s.world.MarblePosition()
	mx, my := vp.ToScreen(pos.X, pos.Y)
	dst.SetColor(mx, my, glyphMarble, core.ColorBrightWhite)

	s.renderStatus(dst)
}

func (s *Session) renderMaze(dst *core.Screen, vp core.Viewport) {
	xf := s.world.MazeTransform()
	color := core.ColorBrown
	if s.solved {
		color = core.ColorOrange
	}
	for _, def := range s.world.MazeFixtureDefs() {
		if def.IsSensor {
			continue
		}
		c := box2d.B2TransformVec2Mul(xf, def.Center)
		r := vp.Span(c.X, c.Y, 0.5, 0.5)
		glyph := glyphWall
		if def.IsCorner {
			glyph = glyphCorner
		}
		dst.DrawRect(r, glyph, color)
	}
}

func (s *Session) renderHUD(dst *core.Screen) {
	gx, gy := s.tilt.Gravity()
	dst.DrawText(0, 0, fmt.Sprintf("HIDDEN MARBLE  %s", s.size.Name), core.ColorCyan)
	right := fmt.Sprintf("hits %d  tilt %+.1f,%+.1f", s.hits, gx, gy)
	dst.DrawText(dst.Width()-len(right), 0, right, core.ColorDefault)
}

func (s *Session) renderStatus(dst *core.Screen) {
	y := dst.Height() - 1
	switch s.Status() {
	case StatusSolved:
		text := "Solved! R for a new maze"
		if s.result.Size != "" {
			text = fmt.Sprintf("Solved in %.1fs with %d hits! R for a new maze", s.result.Duration.Seconds(), s.result.Hits)
		}
		dst.DrawTextCentered(y, text, core.ColorGreen)
	case StatusPaused:
		dst.DrawTextCentered(y, "PAUSED", core.ColorYellow)
	default:
		if s.rolling {
			dst.DrawTextCentered(y, "rolling on "+s.surface().String(), core.ColorGray)
		} else if s.reveal {
			dst.DrawTextCentered(y, "maze revealed", core.ColorGray)
		}
	}
}
