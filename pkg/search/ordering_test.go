package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugOrderForParent_CaptureOrderedFirst(t *testing.T) {
	// The only capture available (queen takes the undefended rook) should outrank every
	// quiet move, since no TT hint or killer/history entries exist yet for this position.
	s := newSearcher()
	b := newBoard(t, "3r2k1/8/8/8/8/8/8/3Q2K1 w - - 0 1")

	ordered := s.DebugOrderForParent(b, 0)
	require.NotEmpty(t, ordered)

	capture := mustMove(t, b, "d1d8")
	assert.True(t, ordered[0].Equals(capture), "expected capture %v first, got %v", capture, ordered[0])
}

func TestDebugOrderForParent_IncludesAllPseudoLegalMoves(t *testing.T) {
	s := newSearcher()
	b := newBoard(t, "3r2k1/8/8/8/8/8/8/3Q2K1 w - - 0 1")

	ordered := s.DebugOrderForParent(b, 0)
	legal := b.Position().PseudoLegalMoves(b.Turn())
	assert.Len(t, ordered, len(legal))
}
