// Package tetris implements the falling-block puzzle engine: piece geometry,
// the board, collision, locking, line clearing, scoring and the drop clock.
//
// Engine is a plain single-owner state machine. Session wraps it in one
// goroutine so input commands and clock ticks are applied one at a time.
package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Kind identifies one of the seven piece shapes. The zero value is an empty cell.
type Kind uint8

const (
	Empty Kind = iota
	I
	O
	T
	S
	Z
	J
	L
)

// Kinds lists every playable piece kind in a stable order.
var Kinds = [...]Kind{I, O, T, S, Z, J, L}

// String returns the one-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	default:
		return "."
	}
}

// MaskSize is the side of the square box every piece is defined in.
const MaskSize = 4

// Mask is an occupancy grid indexed as [row][col].
type Mask [MaskSize][MaskSize]bool

// Shapes are drawn in the top rows of the box so a freshly spawned piece
// at y=0 is fully visible.
var shapes = map[Kind][MaskSize]string{
	I: {
		"####",
		"....",
		"....",
		"....",
	},
	O: {
		".##.",
		".##.",
		"....",
		"....",
	},
	T: {
		".#..",
		"###.",
		"....",
		"....",
	},
	S: {
		".##.",
		"##..",
		"....",
		"....",
	},
	Z: {
		"##..",
		".##.",
		"....",
		"....",
	},
	J: {
		"#...",
		"###.",
		"....",
		"....",
	},
	L: {
		"..#.",
		"###.",
		"....",
		"....",
	},
}

// rotations[k][r] is the mask of kind k after r clockwise quarter turns.
var rotations [len(Kinds) + 1][4]Mask

func init() {
	for _, k := range Kinds {
		var m Mask
		for r, line := range shapes[k] {
			for c, ch := range line {
				m[r][c] = ch == '#'
			}
		}
		rotations[k][0] = m
		for r := 1; r < 4; r++ {
			rotations[k][r] = rotateCW(rotations[k][r-1])
		}
	}
}

// rotateCW turns a mask a quarter turn clockwise: new[c][N-1-r] = old[r][c].
func rotateCW(m Mask) Mask {
	var out Mask
	for r := range MaskSize {
		for c := range MaskSize {
			out[c][MaskSize-1-r] = m[r][c]
		}
	}
	return out
}

// CanonicalMask returns the unrotated mask of a kind.
// Empty or unknown kinds yield an empty mask.
func CanonicalMask(k Kind) Mask {
	return RotatedMask(k, 0)
}

// RotatedMask returns the mask of a kind after rotation clockwise quarter turns.
// Any integer rotation is accepted and reduced mod 4.
func RotatedMask(k Kind, rotation int) Mask {
	if k == Empty || int(k) > len(Kinds) {
		return Mask{}
	}
	return rotations[k][((rotation%4)+4)%4]
}

// Height returns the number of rows the mask spans (from its top row).
func (m Mask) Height() int {
	h := 0
	for r := range MaskSize {
		for c := range MaskSize {
			if m[r][c] {
				h = r + 1
			}
		}
	}
	return h
}

// Piece is the active, player-controlled piece.
type Piece struct {
	Kind     Kind
	Rotation int // 0..3 clockwise quarter turns
	X, Y     int // Board position of the mask's top-left corner
}

// Cells returns the absolute board cells the piece covers.
func (p Piece) Cells() []core.Point {
	m := RotatedMask(p.Kind, p.Rotation)
	origin := core.Point{X: p.X, Y: p.Y}
	cells := make([]core.Point, 0, 4)
	for r := range MaskSize {
		for c := range MaskSize {
			if m[r][c] {
				cells = append(cells, origin.Add(c, r))
			}
		}
	}
	return cells
}
