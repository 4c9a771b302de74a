package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchWithParams_RootParallelAgreesWithSingleThread(t *testing.T) {
	fenStr := "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23"

	run := func(threads int) search.Result {
		s := newSearcher()
		p := s.Params()
		p.Threads = threads
		p.Deterministic = threads <= 1
		s.SetParams(p)

		b := newBoard(t, fenStr)
		return s.SearchWithParams(context.Background(), b, p, 3, 0)
	}

	single := run(1)
	multi := run(4)

	require.True(t, single.HasMove)
	require.True(t, multi.HasMove)
	assert.Equal(t, single.BestMove, multi.BestMove)
	assert.Equal(t, single.ScoreCP, multi.ScoreCP)
}

func TestLauncher_HaltReturnsLastCompletedPV(t *testing.T) {
	s := newSearcher()
	launcher := search.NewLauncher(s)

	b := newBoard(t, "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23")

	handle, out := launcher.Launch(context.Background(), b, 0, nil)

	var last search.PV
	for pv := range out {
		last = pv
		if pv.Depth >= 2 {
			break
		}
	}

	final := handle.Halt()
	assert.True(t, final.Has)
	assert.GreaterOrEqual(t, final.Depth, last.Depth)
}

func TestLauncher_HaltIsIdempotent(t *testing.T) {
	s := newSearcher()
	launcher := search.NewLauncher(s)

	b := newBoard(t, "2b2k1r/1pp1b2p/7R/5P2/r2q4/P4NQ1/2P5/R4K2 w - - 0 23")

	handle, out := launcher.Launch(context.Background(), b, 2, nil)
	for range out {
	}

	a := handle.Halt()
	c := handle.Halt()
	assert.Equal(t, a, c)
}
