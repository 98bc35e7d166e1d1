package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsandst/magnificence-oxidized-chess/internal/board"
)

func TestRandomEngineReturnsLegalMove(t *testing.T) {
	eng, err := New(RandomName, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, RandomName, eng.Name())

	pos := board.NewPosition()
	for i := 0; i < 20; i++ {
		pv := eng.Search(pos, Limits{})
		require.Len(t, pv, 1)

		var list board.MoveList
		pos.GenerateMoves(&list)
		assert.True(t, list.Contains(pv[0]), "%s is not legal", pv[0])
	}
}

func TestRandomEngineNoMoves(t *testing.T) {
	eng, err := New(RandomName, nil, nil, nil, nil)
	require.NoError(t, err)

	pos, err := board.FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.Empty(t, eng.Search(pos, Limits{}))
}

func TestEngineFactory(t *testing.T) {
	eng, err := New(AlphaBetaName, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, AlphaBetaName, eng.Name())

	_, err = New("deepblue", nil, nil, nil, nil)
	assert.Error(t, err)

	// The empty name selects the default strategy.
	eng, err = New("", nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, AlphaBetaName, eng.Name())
}
