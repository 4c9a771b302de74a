package search_test

import (
	"testing"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTimeControl_Limits_DefaultMovesToGo(t *testing.T) {
	tc := search.TimeControl{White: 80 * time.Second, Black: 40 * time.Second}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, time.Second, soft) // 80s / (2*40)
	assert.Equal(t, 3*time.Second, hard)
}

func TestTimeControl_Limits_ExplicitMovesToGo(t *testing.T) {
	tc := search.TimeControl{White: 20 * time.Second, Moves: 9}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, time.Second, soft) // 20s / (2*10)
	assert.Equal(t, 3*time.Second, hard)
}

func TestTimeControl_Limits_PerColor(t *testing.T) {
	tc := search.TimeControl{White: 80 * time.Second, Black: 40 * time.Second}

	wsoft, _ := tc.Limits(board.White)
	bsoft, _ := tc.Limits(board.Black)
	assert.Greater(t, wsoft, bsoft)
}
