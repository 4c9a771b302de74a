package search

import "fmt"

// Params holds the tunable configuration for a Searcher. The zero value is not meaningful;
// use NewParams for sane defaults.
type Params struct {
	// UseTT, if false, means the search begins with (and only ever consults) an empty,
	// effectively disabled TT.
	UseTT bool

	// MaxNodes, if positive, bounds the number of nodes visited across an entire search.
	MaxNodes uint64
	// MoveTime, if positive, bounds the wall-clock budget of an entire search.
	MoveTime int64 // milliseconds; 0 == unbounded

	OrderCaptures bool
	UseHistory    bool
	UseKillers    bool
	UseLMR        bool
	UseNullMove   bool
	UseAspiration bool

	// NullMinDepth is the minimum remaining depth at which null-move pruning is considered.
	NullMinDepth int
	// AspirationWindowCP is the initial aspiration window half-width, in centipawns.
	AspirationWindowCP int

	// Threads is the number of worker threads used for root parallelism. Ignored (treated
	// as 1) when Deterministic is true.
	Threads int
	// Deterministic forces single-threaded traversal with a fixed move-ordering tiebreak,
	// so that repeated searches of the same position and TT state agree bit-for-bit.
	Deterministic bool
}

// NewParams returns the default tunables: every heuristic on, a conservative null-move
// depth, a 25cp aspiration window, and single-threaded deterministic search.
func NewParams() Params {
	return Params{
		UseTT:              true,
		OrderCaptures:      true,
		UseHistory:         true,
		UseKillers:         true,
		UseLMR:             true,
		UseNullMove:        true,
		UseAspiration:      true,
		NullMinDepth:       3,
		AspirationWindowCP: 25,
		Threads:            1,
		Deterministic:      true,
	}
}

func (p Params) String() string {
	return fmt.Sprintf("params{tt=%v threads=%v deterministic=%v lmr=%v nullmove=%v aspiration=%v}",
		p.UseTT, p.Threads, p.Deterministic, p.UseLMR, p.UseNullMove, p.UseAspiration)
}

// effectiveThreads returns the thread count actually used for root search.
func (p Params) effectiveThreads() int {
	if p.Deterministic || p.Threads < 1 {
		return 1
	}
	return p.Threads
}
