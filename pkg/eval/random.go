package eval

import (
	"context"
	"math/rand"

	"github.com/herohde/morlock/pkg/board"
)

// Random is a randomized noise generator. It adds a small amount of randomness to
// evaluations, in centipawns, in the range [-limit/2;limit-limit/2). The zero value always
// returns zero and is safe to use.
type Random struct {
	rand  *rand.Rand
	limit int
}

// NewRandom returns a noise generator bounded by limit centipawns, seeded deterministically.
func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(_ context.Context, _ *board.Board) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
