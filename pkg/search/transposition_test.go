package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTable_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	b := newBoard(t, "3r2k1/8/8/8/8/8/8/3Q2K1 w - - 0 1")
	m := mustMove(t, b, "d1d8")

	ok := tt.Write(b.Hash(), search.ExactBound, 0, 5, eval.Score(123), m)
	require.True(t, ok)

	bound, depth, score, move, found := tt.Read(b.Hash())
	require.True(t, found)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 5, depth)
	assert.Equal(t, eval.Score(123), score)
	assert.True(t, move.Equals(m))
}

func TestTranspositionTable_MissOnUnknownHash(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	_, _, _, _, found := tt.Read(board.ZobristHash(0xdeadbeef))
	assert.False(t, found)
}

func TestTranspositionTable_NewGenerationAllowsReplacementAtEqualDepth(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	b := newBoard(t, "3r2k1/8/8/8/8/8/8/3Q2K1 w - - 0 1")
	m := mustMove(t, b, "d1d8")

	require.True(t, tt.Write(b.Hash(), search.ExactBound, 0, 4, eval.Score(10), m))

	tt.NewGeneration()

	// A different hash that differs only above the index bits collides on the same slot.
	// Same depth, new generation: must still replace, since older-generation entries are
	// always preferred for replacement regardless of depth.
	other := b.Hash() ^ board.ZobristHash(1<<40)
	ok := tt.Write(other, search.ExactBound, 0, 4, eval.Score(20), m)
	assert.True(t, ok)

	_, _, score, _, found := tt.Read(other)
	require.True(t, found)
	assert.Equal(t, eval.Score(20), score)
}

func TestNewTranspositionTable_SizeNeverExceedsBudget(t *testing.T) {
	ctx := context.Background()

	// 7*40 bytes sits one slot short of the next power of two: the entry count must floor
	// down to 4, not round up to 8 and exceed the requested budget.
	tt := search.NewTranspositionTable(ctx, 7*40)
	assert.LessOrEqual(t, tt.Size(), uint64(7*40))
}

func TestNoTranspositionTable_AlwaysMisses(t *testing.T) {
	tt := search.NoTranspositionTable{}

	ok := tt.Write(board.ZobristHash(42), search.ExactBound, 0, 3, eval.Score(5), board.Move{})
	assert.False(t, ok)

	_, _, _, _, found := tt.Read(board.ZobristHash(42))
	assert.False(t, found)
}

func TestNewMinDepthTranspositionTable_RejectsShallowWrites(t *testing.T) {
	ctx := context.Background()
	factory := search.NewMinDepthTranspositionTable(4)
	tt := factory(ctx, 1<<16)

	b := newBoard(t, "3r2k1/8/8/8/8/8/8/3Q2K1 w - - 0 1")
	m := mustMove(t, b, "d1d8")

	assert.False(t, tt.Write(b.Hash(), search.ExactBound, 0, 3, eval.Score(1), m))
	assert.True(t, tt.Write(b.Hash(), search.ExactBound, 0, 4, eval.Score(1), m))

	_, depth, _, _, found := tt.Read(b.Hash())
	require.True(t, found)
	assert.Equal(t, 4, depth)
}
