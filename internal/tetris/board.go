package tetris

// Board dimensions. They never change.
const (
	Width  = 10
	Height = 20
)

// Board is the grid of locked cells, indexed as cells[y][x] with y=0 at the top.
// Cells keep the kind that filled them so hosts can color them; correctness
// only depends on occupancy.
type Board struct {
	cells [Height][Width]Kind
}

// inside reports whether (x, y) is a cell of the visible grid.
func inside(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// At returns the kind stored in a cell, Empty outside the grid.
func (b Board) At(x, y int) Kind {
	if !inside(x, y) {
		return Empty
	}
	return b.cells[y][x]
}

// IsOccupied reports whether a cell holds a locked block.
// Cells outside the grid (including above the top edge) are never occupied.
func (b Board) IsOccupied(x, y int) bool {
	return b.At(x, y) != Empty
}

// SetOccupied locks a block of the given kind into a cell.
// Out-of-range coordinates are ignored.
func (b *Board) SetOccupied(x, y int, k Kind) {
	if !inside(x, y) {
		return
	}
	b.cells[y][x] = k
}

// RowFull reports whether every cell of a row is occupied.
func (b Board) RowFull(row int) bool {
	if row < 0 || row >= Height {
		return false
	}
	for x := range Width {
		if b.cells[row][x] == Empty {
			return false
		}
	}
	return true
}

// ClearRow empties a single row in place.
func (b *Board) ClearRow(row int) {
	if row < 0 || row >= Height {
		return
	}
	b.cells[row] = [Width]Kind{}
}

// ShiftDown removes row by moving every row above it down by one.
// Row 0 becomes empty.
func (b *Board) ShiftDown(row int) {
	if row < 0 || row >= Height {
		return
	}
	for y := row; y > 0; y-- {
		b.cells[y] = b.cells[y-1]
	}
	b.cells[0] = [Width]Kind{}
}

// Count returns the number of occupied cells.
func (b Board) Count() int {
	n := 0
	for y := range Height {
		for x := range Width {
			if b.cells[y][x] != Empty {
				n++
			}
		}
	}
	return n
}

// Reset empties the whole board.
func (b *Board) Reset() {
	b.cells = [Height][Width]Kind{}
}

// Rows returns a copy of the grid.
func (b Board) Rows() [Height][Width]Kind {
	return b.cells
}

// String renders the board as rows of kind letters, '.' for empty cells.
func (b Board) String() string {
	buf := make([]byte, 0, (Width+1)*Height)
	for y := range Height {
		for x := range Width {
			buf = append(buf, b.cells[y][x].String()...)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// IsValidPlacement reports whether a piece of kind k, rotated rotation
// quarter turns, fits with its mask's top-left corner at (x, y).
// Cells above the top edge (y < 0) are free space; anything left, right
// or below the grid, or on a locked cell, is a collision.
func IsValidPlacement(b *Board, k Kind, rotation, x, y int) bool {
	m := RotatedMask(k, rotation)
	for r := range MaskSize {
		for c := range MaskSize {
			if !m[r][c] {
				continue
			}
			cx, cy := x+c, y+r
			if cx < 0 || cx >= Width || cy >= Height {
				return false
			}
			if b.IsOccupied(cx, cy) {
				return false
			}
		}
	}
	return true
}

// fits is IsValidPlacement for a Piece value.
func fits(b *Board, p Piece) bool {
	return IsValidPlacement(b, p.Kind, p.Rotation, p.X, p.Y)
}
