package tetris

// ClearLines removes every full row, scanning from the bottom up.
// Rows above a removed row drop by one and keep their stacking order;
// the same index is checked again after each removal. Returns the count.
func ClearLines(b *Board) int {
	cleared := 0
	for row := Height - 1; row >= 0; {
		if !b.RowFull(row) {
			row--
			continue
		}
		b.ClearRow(row)
		b.ShiftDown(row)
		cleared++
	}
	return cleared
}
