package search_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestSEE_RookTakesPawnLosesExchange(t *testing.T) {
	b := newBoard(t, "6k1/2R4p/6p1/8/6K1/6P1/8/8 w - - 3 38")
	m := mustMove(t, b, "c7h7")

	got := search.SEE(b.Position(), board.White, m)
	assert.Less(t, int(got), 0)
}

func TestSEE_NoRecaptureEqualsVictimValue(t *testing.T) {
	// White rook on h2 may simply take the undefended black pawn on g2: no recapture is
	// possible, so SEE must equal the pawn's nominal value exactly.
	b := newBoard(t, "6k1/7p/8/8/8/8/6pR/6K1 w - - 0 1")
	m := mustMove(t, b, "h2g2")

	got := search.SEE(b.Position(), board.White, m)
	assert.Equal(t, eval.NominalValue(board.Pawn), got)
}

func TestSEE_NonCaptureIsZero(t *testing.T) {
	b := newBoard(t, "6k1/8/8/8/8/8/6P1/6K1 w - - 0 1")
	m := mustMove(t, b, "g2g3")

	got := search.SEE(b.Position(), board.White, m)
	assert.Equal(t, eval.ZeroScore, got)
}
