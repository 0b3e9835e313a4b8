package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardOutOfRange(t *testing.T) {
	var b Board
	b.SetOccupied(-1, 0, I)
	b.SetOccupied(Width, 0, I)
	b.SetOccupied(0, Height, I)
	b.SetOccupied(0, -1, I)
	assert.Equal(t, 0, b.Count())

	assert.False(t, b.IsOccupied(-1, 5))
	assert.False(t, b.IsOccupied(0, -1))
	assert.Equal(t, Empty, b.At(Width, 0))
}

func TestIsValidPlacement(t *testing.T) {
	var b Board
	b.SetOccupied(5, 10, Z)

	tests := []struct {
		name     string
		kind     Kind
		rotation int
		x, y     int
		want     bool
	}{
		{"spawn", T, 0, 3, 0, true},
		{"above top is free", I, 1, 0, -3, true},
		{"left wall", O, 0, -2, 5, false},
		{"left edge inside", O, 0, -1, 5, true},
		{"right wall", I, 0, 7, 5, false},
		{"right edge inside", I, 0, 6, 5, true},
		{"floor", O, 0, 3, 19, false},
		{"resting on floor", O, 0, 3, 18, true},
		{"locked cell", O, 0, 4, 9, false},
		{"next to locked cell", O, 0, 5, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidPlacement(&b, tt.kind, tt.rotation, tt.x, tt.y)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClearLinesSingle(t *testing.T) {
	var b Board
	fillRow(&b, Height-1)
	b.SetOccupied(2, Height-2, S)
	b.SetOccupied(7, Height-3, T)

	cleared := ClearLines(&b)
	require.Equal(t, 1, cleared)
	assert.Equal(t, 2, b.Count())
	assert.Equal(t, S, b.At(2, Height-1), "rows above move down by one")
	assert.Equal(t, T, b.At(7, Height-2))
}

func TestClearLinesNonAdjacent(t *testing.T) {
	var b Board
	fillRow(&b, Height-1)
	fillRow(&b, Height-2, 0)
	fillRow(&b, Height-3)
	b.SetOccupied(4, Height-4, I)

	before := b.Count()
	cleared := ClearLines(&b)
	require.Equal(t, 2, cleared)
	assert.Equal(t, before-2*Width, b.Count())

	// The partial row sinks to the bottom, the marker sits on top of it.
	assert.False(t, b.IsOccupied(0, Height-1))
	assert.True(t, b.IsOccupied(1, Height-1))
	assert.Equal(t, I, b.At(4, Height-2))
	for y := 0; y < Height-2; y++ {
		assert.False(t, b.RowFull(y))
	}
}

func TestClearLinesTetris(t *testing.T) {
	var b Board
	for y := Height - 4; y < Height; y++ {
		fillRow(&b, y)
	}
	assert.Equal(t, 4, ClearLines(&b))
	assert.Equal(t, 0, b.Count())
}

func TestClearLinesNone(t *testing.T) {
	var b Board
	fillRow(&b, Height-1, 9)
	assert.Equal(t, 0, ClearLines(&b))
	assert.Equal(t, Width-1, b.Count())
}

func TestBoardString(t *testing.T) {
	var b Board
	b.SetOccupied(0, 0, L)
	rows := b.String()
	assert.Equal(t, "L.........\n", rows[:Width+1])
}
