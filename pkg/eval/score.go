package eval

import (
	"fmt"
)

// Score is a signed position or move score in centipawns. Positive favors the side to
// move, negative its opponent; Evaluate always returns a value relative to the side to move, as is
// customary for negamax-style search. Mate scores are encoded as MateScore minus the
// number of plies to deliver mate, so that shorter mates are preferred over longer ones
// during search.
type Score int32

const (
	ZeroScore Score = 0
	DrawScore Score = 0

	// MateScore is the score of an immediate checkmate (mate in 0 plies).
	MateScore Score = 30000

	// MaxScore/MinScore bound every score that a caller may observe: no search result should
	// ever be reported outside this range. See Crop.
	MaxScore Score = MateScore
	MinScore Score = -MateScore

	// InfScore/NegInfScore are sentinel bounds strictly outside [MinScore;MaxScore], used to
	// seed alpha-beta windows and to signal "no value yet".
	InfScore    Score = MateScore + 1
	NegInfScore Score = -InfScore

	// InvalidScore marks an aborted or otherwise absent search result.
	InvalidScore Score = NegInfScore - 1
)

func (s Score) String() string {
	if d, ok := s.MateIn(); ok {
		return fmt.Sprintf("mate %v", d)
	}
	return fmt.Sprintf("%v cp", int32(s))
}

// Negate flips the score to the opponent's perspective.
func (s Score) Negate() Score {
	return -s
}

// Less reports whether s is strictly smaller than o.
func (s Score) Less(o Score) bool {
	return s < o
}

// IsInvalid reports whether s is a sentinel (not a real position/move score).
func (s Score) IsInvalid() bool {
	return s <= NegInfScore || s >= InfScore
}

// IsMate reports whether s encodes a forced mate (for the side the score favors).
func (s Score) IsMate() bool {
	return s > MateScore-1000 || s < -MateScore+1000
}

// MateIn returns the number of plies to mate (positive: this side mates; negative: this
// side gets mated), and whether s encodes a mate at all.
func (s Score) MateIn() (int, bool) {
	if !s.IsMate() {
		return 0, false
	}
	if s > 0 {
		return int(MateScore - s), true
	}
	return -int(MateScore + s), true
}

// IncrementMateDistance lengthens a mate score by one ply, for propagating a mate found at
// a child node up to its parent. Non-mate scores are returned unchanged.
func IncrementMateDistance(s Score) Score {
	if !s.IsMate() {
		return s
	}
	if s > 0 {
		return s - 1
	}
	return s + 1
}

// Crop clamps s into [MinScore;MaxScore], collapsing the Inf sentinels to real bounds. Used
// at API boundaries so callers never observe a sentinel value.
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
