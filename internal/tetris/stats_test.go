package tetris

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsJSON(t *testing.T) {
	s := Stats{Score: 120, Level: 2, Lines: 11, TotalPieces: 40, TotalGames: 3, HighScore: 900}
	data, err := EncodeStats(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":120,"level":2,"lines":11,"totalPieces":40,"totalGames":3,"highScore":900}`, string(data))

	got, err := DecodeStats(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeStatsRejectsGarbage(t *testing.T) {
	_, err := DecodeStats([]byte("{not json"))
	assert.Error(t, err)

	_, err = DecodeStats([]byte(`{"score":-1}`))
	assert.Error(t, err)
}

func TestLoadStatsFailsSoft(t *testing.T) {
	logger := log.New(io.Discard)
	assert.Equal(t, Stats{}, loadStats(nil, logger))
	assert.Equal(t, Stats{}, loadStats(&memStore{loadErr: errBroken}, logger))
	assert.Equal(t, Stats{HighScore: 7}, loadStats(&memStore{stats: Stats{HighScore: 7}}, logger))
}

func TestRecordGame(t *testing.T) {
	record := Stats{Score: 50, Level: 1, Lines: 2, TotalPieces: 30, TotalGames: 2, HighScore: 400}
	game := Stats{Score: 600, Level: 3, Lines: 21, TotalPieces: 999, TotalGames: 999}

	got := RecordGame(record, game, 12)
	assert.Equal(t, Stats{Score: 600, Level: 3, Lines: 21, TotalPieces: 42, TotalGames: 3, HighScore: 600}, got)

	got = RecordGame(got, Stats{Score: 10, Level: 1}, 3)
	assert.Equal(t, 600, got.HighScore)
	assert.Equal(t, 4, got.TotalGames)
	assert.Equal(t, 45, got.TotalPieces)
}

func TestSaveGameHealsUnreadableRecord(t *testing.T) {
	store := &memStore{loadErr: errBroken}
	local := Stats{Score: 80, Level: 1, Lines: 2, TotalPieces: 9, TotalGames: 1, HighScore: 80}

	saved, err := saveGame(plainStore{store}, local, 9)
	require.NoError(t, err)
	assert.Equal(t, local, saved)

	got, saves := store.saved()
	assert.Equal(t, 1, saves)
	assert.Equal(t, local, got)
}
