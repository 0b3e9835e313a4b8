package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Layout: every board cell is two characters wide.
const (
	cellW        = 2
	boardScreenW = Width*cellW + 2 // plus border
	boardScreenH = Height + 2
	panelW       = 16
)

// Cell glyphs
const (
	blockGlyph = "[]"
	ghostGlyph = "::"
	emptyGlyph = " ."
)

// kindColors gives every piece kind its classic color.
var kindColors = map[Kind]core.Color{
	I: core.ColorCyan,
	O: core.ColorYellow,
	T: core.ColorMagenta,
	S: core.ColorGreen,
	Z: core.ColorRed,
	J: core.ColorBlue,
	L: core.ColorOrange,
}

// Render draws the board, the active and ghost pieces and the side panel.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.tooSmall {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Window too small (need %dx%d)", minScreenW, minScreenH))
		return
	}
	session, _ := g.current()
	if session == nil {
		return
	}
	snap := session.Snapshot()

	originX := core.Max(0, (dst.Width()-minScreenW)/2)
	originY := core.Max(0, (dst.Height()-boardScreenH)/2)

	renderBoard(dst, snap, originX, originY)
	renderPanel(dst, snap, originX+boardScreenW+2, originY)

	switch snap.Phase {
	case PhasePaused:
		drawBanner(dst, originX, originY, "PAUSED", "P to resume")
	case PhaseGameOver:
		drawBanner(dst, originX, originY, "GAME OVER", "R to restart")
	}
}

// renderBoard draws the bordered playfield at (ox, oy).
func renderBoard(dst *core.Screen, snap Snapshot, ox, oy int) {
	dst.DrawBox(core.NewRect(ox, oy, boardScreenW, boardScreenH))

	cellAt := func(x, y int) (int, int) {
		return ox + 1 + x*cellW, oy + 1 + y
	}

	for y := range Height {
		for x := range Width {
			sx, sy := cellAt(x, y)
			if k := snap.Board.At(x, y); k != Empty {
				dst.DrawTextColored(sx, sy, blockGlyph, kindColors[k])
			} else {
				dst.DrawTextColored(sx, sy, emptyGlyph, core.ColorGray)
			}
		}
	}

	// Piece cells above the top edge are not drawn.
	visible := core.NewRect(0, 0, Width, Height)
	color := kindColors[snap.ActiveKind]
	for _, c := range snap.Ghost {
		if visible.Contains(c.X, c.Y) {
			sx, sy := cellAt(c.X, c.Y)
			dst.DrawTextColored(sx, sy, ghostGlyph, core.ColorGray)
		}
	}
	for _, c := range snap.Active {
		if visible.Contains(c.X, c.Y) {
			sx, sy := cellAt(c.X, c.Y)
			dst.DrawTextColored(sx, sy, blockGlyph, color)
		}
	}
}

// renderPanel draws the next-piece preview and the statistics at (px, py).
func renderPanel(dst *core.Screen, snap Snapshot, px, py int) {
	dst.DrawText(px, py, "NEXT")
	preview := CanonicalMask(snap.Next)
	for r := range core.Min(preview.Height(), 2) {
		for c := range MaskSize {
			if preview[r][c] {
				dst.DrawTextColored(px+c*cellW, py+1+r, blockGlyph, kindColors[snap.Next])
			}
		}
	}

	lines := []string{
		fmt.Sprintf("SCORE %9d", snap.Stats.Score),
		fmt.Sprintf("LEVEL %9d", snap.Stats.Level),
		fmt.Sprintf("LINES %9d", snap.Stats.Lines),
		"",
		fmt.Sprintf("HIGH  %9d", snap.Stats.HighScore),
		fmt.Sprintf("GAMES %9d", snap.Stats.TotalGames),
		fmt.Sprintf("PIECES%9d", snap.Stats.TotalPieces),
	}
	for i, line := range lines {
		dst.DrawText(px, py+4+i, line)
	}

	help := []string{
		"←/→  move",
		"↑    rotate",
		"↓    soft drop",
		"spc  hard drop",
		"p    pause",
		"q    quit",
	}
	for i, line := range help {
		dst.DrawTextColored(px, py+13+i, line, core.ColorGray)
	}
}

// drawBanner writes a two-line message across the middle of the board.
func drawBanner(dst *core.Screen, ox, oy int, title, hint string) {
	mid := oy + boardScreenH/2
	for i, text := range []string{title, hint} {
		x := core.Clamp(ox+(boardScreenW-len([]rune(text)))/2, ox, ox+boardScreenW-1)
		dst.DrawTextColored(x, mid-1+i, text, core.ColorWhite)
	}
}
