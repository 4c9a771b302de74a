package search

import (
	"fmt"
	"time"

	"github.com/herohde/morlock/pkg/board"
)

// TimeControl represents the remaining clock time for both sides in a game, used to derive
// a soft/hard budget for a single move.
type TimeControl struct {
	White, Black time.Duration
	Moves        int // 0 == rest of game
}

// Limits returns a soft and hard limit for making a move with the given color. After the
// soft limit, no new iterative-deepening iteration should be started; the hard limit is an
// absolute deadline enforced regardless of iteration boundaries.
func (t TimeControl) Limits(c board.Color) (soft, hard time.Duration) {
	remainder := t.White
	if c == board.Black {
		remainder = t.Black
	}

	// Assume 40 moves to the end of the game, if nothing else is known. Let B = T/80 be
	// the soft timeout and the hard timeout be 3B.

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft = remainder / (2 * moves)
	hard = 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}
