package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/require"
)

// newBoard parses position into a fresh Board for test use, failing the test on invalid FEN.
func newBoard(t *testing.T, position string) *board.Board {
	t.Helper()

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}

// mustMove parses str in pure algebraic notation and resolves it against b's current
// position, recovering the full move metadata (Type, Piece, Capture) that ParseMove alone
// cannot supply.
func mustMove(t *testing.T, b *board.Board, str string) board.Move {
	t.Helper()

	bare, err := board.ParseMove(str)
	require.NoError(t, err)

	m, ok := b.Position().Resolve(b.Turn(), bare)
	require.True(t, ok, "move '%v' not pseudo-legal in position", str)
	return m
}

// newSearcher returns a deterministic searcher with every heuristic enabled and a small TT.
func newSearcher() *search.Searcher {
	ctx := context.Background()
	s := search.NewSearcher(eval.Standard{}, search.NewTranspositionTable(ctx, 1<<20))
	return s
}
