package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseNoisyMove_NeverReturnsUnsafeCapture(t *testing.T) {
	// White to move: Qxa2 hangs the queen to the rook on a1, and no other top-2 ordered
	// candidate loses at least 150cp. Across many seeds, the sampler must never settle on
	// the losing capture.
	s := newSearcher()
	b := newBoard(t, "k7/8/8/8/8/8/p6P/rQ2K3 w - - 0 1")

	ordered := s.DebugOrderForParent(b, 0)
	require.NotEmpty(t, ordered)

	for seed := int64(0); seed < 64; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m, ok := s.ChooseNoisyMove(context.Background(), b, ordered, 2, rng, eval.Score(-150))
		require.True(t, ok)
		assert.NotEqual(t, "b1a2", m.String())
	}
}
