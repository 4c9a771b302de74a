package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end scenarios.

func TestSearchDepth_MateInOne(t *testing.T) {
	// Qh7#, Qg7#, Qf8# and Qe8# all mate here; the search keeps the first mate in generation
	// order, Qh7#, supported by the king on g6. The mate score must dominate every material gain.
	s := newSearcher()
	b := newBoard(t, "7k/5Q2/6K1/8/8/8/8/8 w - - 0 1")

	r := s.SearchDepth(context.Background(), b, 3)
	require.True(t, r.HasMove)
	assert.Equal(t, mustMove(t, b, "f7h7"), r.BestMove)
	assert.GreaterOrEqual(t, int(r.ScoreCP), 24000)
}

func TestSearchDepth_DrivesKingBack(t *testing.T) {
	// K+Q vs bare king with the attacking king too far to help: no forced mate within the
	// horizon, so the score stays a material score, never a mate score.
	s := newSearcher()
	b := newBoard(t, "k7/8/6Q1/8/8/8/8/K7 w - - 0 1")

	r := s.SearchDepth(context.Background(), b, 3)
	require.True(t, r.HasMove)
	assert.Greater(t, int(r.ScoreCP), 500)
	assert.Less(t, int(r.ScoreCP), 24000)
}

func TestSearchDepth_AvoidsLosingQueen(t *testing.T) {
	s := newSearcher()
	b := newBoard(t, "rnb1kbnr/4pppp/3q4/1P6/p7/P3P3/3P1PPP/RNBQKBNR b KQkq - 0 7")

	r := s.SearchDepth(context.Background(), b, 2)
	require.True(t, r.HasMove)
	assert.NotEqual(t, mustMove(t, b, "d6h2"), r.BestMove)
}

func TestSearchDepth_AvoidsLosingQueen2(t *testing.T) {
	s := newSearcher()
	b := newBoard(t, "r1bqkb1r/1pp1pppp/5n2/3Pn3/p7/P1NB1Q2/1PP2PPP/R1B1K2R w KQkq - 1 9")

	r := s.SearchDepth(context.Background(), b, 2)
	require.True(t, r.HasMove)
	assert.NotEqual(t, mustMove(t, b, "d3h7"), r.BestMove)
}

func TestSearchDepth_MateInOneAtDepthOne(t *testing.T) {
	s := newSearcher()
	b := newBoard(t, "R5NB/5R2/8/1k6/4B3/8/8/2R3K1 w - - 3 61")

	r := s.SearchDepth(context.Background(), b, 1)
	require.True(t, r.HasMove)
	assert.Equal(t, mustMove(t, b, "f7b7"), r.BestMove)
}

func TestSearchDepth_WinsQueen(t *testing.T) {
	s := newSearcher()
	b := newBoard(t, "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23")

	r := s.SearchDepth(context.Background(), b, 2)
	require.True(t, r.HasMove)
	assert.Equal(t, mustMove(t, b, "f3d4"), r.BestMove)
}

// Testable properties.

func TestSearchDepth_ScoreWithinBounds(t *testing.T) {
	positions := []string{
		"k7/8/6Q1/8/8/8/8/K7 w - - 0 1",
		"r1bqkb1r/1pp1pppp/5n2/3Pn3/p7/P1NB1Q2/1PP2PPP/R1B1K2R w KQkq - 1 9",
		"2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23",
	}
	for _, fen := range positions {
		s := newSearcher()
		b := newBoard(t, fen)

		r := s.SearchDepth(context.Background(), b, 3)
		assert.GreaterOrEqual(t, int(r.ScoreCP), int(eval.MinScore))
		assert.LessOrEqual(t, int(r.ScoreCP), int(eval.MaxScore))
	}
}

func TestSearchDepth_BestMoveIsLegal(t *testing.T) {
	s := newSearcher()
	b := newBoard(t, "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23")

	r := s.SearchDepth(context.Background(), b, 3)
	require.True(t, r.HasMove)

	legal := b.Position().LegalMoves(b.Turn())
	found := false
	for _, m := range legal {
		if m.Equals(r.BestMove) {
			found = true
			break
		}
	}
	assert.True(t, found, "bestmove %v not among legal moves %v", r.BestMove, legal)
}

func TestSearchDepth_DeterministicRepeatability(t *testing.T) {
	fenStr := "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23"

	run := func() search.Result {
		s := newSearcher()
		p := s.Params()
		p.Deterministic = true
		p.Threads = 1
		s.SetParams(p)

		b := newBoard(t, fenStr)
		return s.SearchDepth(context.Background(), b, 3)
	}

	a, b := run(), run()
	assert.Equal(t, a.BestMove, b.BestMove)
	assert.Equal(t, a.ScoreCP, b.ScoreCP)
	assert.Equal(t, a.Nodes, b.Nodes)
}

func TestSearchDepth_NullMoveMinorScoreDelta(t *testing.T) {
	// A quiet, non-zugzwang middlegame position: null-move pruning should not meaningfully
	// change the search's evaluation of the position.
	fenStr := "r1bqkb1r/1pp1pppp/5n2/3Pn3/p7/P1NB1Q2/1PP2PPP/R1B1K2R w KQkq - 1 9"

	withNull := func(use bool) eval.Score {
		s := newSearcher()
		s.SetUseNullMove(use)
		b := newBoard(t, fenStr)
		return s.SearchDepth(context.Background(), b, 3).ScoreCP
	}

	on, off := withNull(true), withNull(false)
	delta := int(on - off)
	if delta < 0 {
		delta = -delta
	}
	assert.LessOrEqual(t, delta, 100)
}

func TestSearchDepth_NullMoveDisabledInZugzwang(t *testing.T) {
	// King + pawn vs king: the side to move has no non-pawn material, so the null-move
	// guard (HasNonPawnMaterial) must keep it disabled regardless of the UseNullMove toggle.
	fenStr := "8/8/8/8/5K2/8/5P2/7k w - - 0 1"

	runWith := func(use bool) search.Result {
		s := newSearcher()
		s.SetUseNullMove(use)
		b := newBoard(t, fenStr)
		return s.SearchDepth(context.Background(), b, 4)
	}

	on, off := runWith(true), runWith(false)
	assert.Equal(t, off.ScoreCP, on.ScoreCP)
	assert.Equal(t, off.Nodes, on.Nodes)
}

func TestSearchDepth_NullMoveDisabledInCheck(t *testing.T) {
	// Black king in check from the rook on e5, and black has no non-pawn material, so
	// null-move pruning can only ever fire at white interior nodes. It must not change the
	// root score.
	fenStr := "4k3/8/8/4R3/8/8/8/4K3 b - - 0 1"

	runWith := func(use bool) search.Result {
		s := newSearcher()
		s.SetUseNullMove(use)
		b := newBoard(t, fenStr)
		return s.SearchDepth(context.Background(), b, 3)
	}

	on, off := runWith(true), runWith(false)
	assert.Equal(t, off.ScoreCP, on.ScoreCP)
	assert.Equal(t, off.BestMove, on.BestMove)
}

func TestSearchDepth_TTExactBoundSoundness(t *testing.T) {
	fenStr := "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23"

	s := newSearcher()
	p := s.Params()
	p.UseAspiration = false // force a full-window root search so the root entry is Exact
	s.SetParams(p)

	b := newBoard(t, fenStr)
	_ = s.SearchDepth(context.Background(), b, 3)

	depth, bound, ok := s.TTProbe(b)
	require.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.GreaterOrEqual(t, depth, 3)
}

func TestSearchDepth_AbortedIterationSuppressesExactWrite(t *testing.T) {
	fenStr := "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23"

	s := newSearcher()
	p := s.Params()
	p.MaxNodes = 1 // halts before depth 1 can complete
	s.SetParams(p)

	b := newBoard(t, fenStr)
	_ = s.SearchWithParams(context.Background(), b, p, 6, 0)

	depth, bound, ok := s.TTProbe(b)
	if ok {
		assert.False(t, bound == search.ExactBound && depth >= 6)
	}
}
