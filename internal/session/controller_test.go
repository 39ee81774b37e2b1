package session

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abilityholdem/internal/character"
	"abilityholdem/internal/game"
	"abilityholdem/internal/randutil"
)

func newTestController(t *testing.T, seed int64) (*Controller, *quartz.Mock) {
	t.Helper()
	mock := quartz.NewMock(t)
	cfg := DefaultConfig()
	ctrl, err := New(cfg, character.Defaults(), "souma", randutil.New(seed), mock, log.New(nil), nil)
	require.NoError(t, err)
	return ctrl, mock
}

// advanceUntil fires pending timers one at a time until the predicate
// holds or the budget runs out. Stepping event by event keeps Advance
// from overshooting a pending bot think timer.
func advanceUntil(t *testing.T, ctrl *Controller, mock *quartz.Mock, pred func(*game.Table) bool) bool {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		ok := false
		ctrl.View(func(tbl *game.Table) { ok = pred(tbl) })
		if ok {
			return true
		}
		if _, pending := mock.Peek(); !pending {
			return false
		}
		_, w := mock.AdvanceNext()
		w.MustWait(ctx)
	}
	return false
}

// humanUpOrDone reports that the hand is over or the human is to act.
func humanUpOrDone(tbl *game.Table) bool {
	if !tbl.Street.Betting() {
		return true
	}
	cur := tbl.CurrentPlayer()
	return cur != nil && cur.Human
}

func TestNewRejectsUnknownCharacter(t *testing.T) {
	mock := quartz.NewMock(t)
	_, err := New(DefaultConfig(), character.Defaults(), "nobody", randutil.New(1), mock, log.New(nil), nil)
	require.Error(t, err)
}

func TestSeatsHumanAndThreeBots(t *testing.T) {
	ctrl, _ := newTestController(t, 1)
	ctrl.View(func(tbl *game.Table) {
		require.Len(t, tbl.Players, 4)
		assert.True(t, tbl.Players[0].Human)
		for _, p := range tbl.Players[1:] {
			assert.False(t, p.Human)
		}
		for _, p := range tbl.Players {
			require.NotNil(t, p.Ability)
			assert.Equal(t, 2000, p.Chips)
		}
	})
	// Human picked souma, so no bot plays it.
	ch, ok := ctrl.Character(0)
	require.True(t, ok)
	assert.Equal(t, "souma", ch.Key)
}

func TestBotsActOnTheClock(t *testing.T) {
	ctrl, mock := newTestController(t, 2)
	require.NoError(t, ctrl.StartHand())

	// The first hand puts seat 3 first to act; bots must act as the
	// clock advances until the human is up or the hand ends.
	require.True(t, advanceUntil(t, ctrl, mock, humanUpOrDone),
		"bots never released the action")
}

func TestHumanActionOnlyOnTheirTurn(t *testing.T) {
	ctrl, mock := newTestController(t, 3)
	require.NoError(t, ctrl.StartHand())

	isHumanTurn := false
	ctrl.View(func(tbl *game.Table) {
		cur := tbl.CurrentPlayer()
		isHumanTurn = cur != nil && cur.Human
	})
	if !isHumanTurn {
		err := ctrl.HumanAction(game.Call, 0)
		assert.ErrorIs(t, err, ErrNotHumanTurn)
	}

	// Fold whenever the action reaches the human until the hand ends.
	for i := 0; i < 20; i++ {
		require.True(t, advanceUntil(t, ctrl, mock, humanUpOrDone))
		idle := false
		ctrl.View(func(tbl *game.Table) { idle = !tbl.Street.Betting() })
		if idle {
			break
		}
		require.NoError(t, ctrl.HumanAction(game.Fold, 0))
	}
	idle := false
	ctrl.View(func(tbl *game.Table) { idle = !tbl.Street.Betting() })
	assert.True(t, idle, "hand should finish after the human folds")
}

func TestBlindsEscalateWithTime(t *testing.T) {
	ctrl, mock := newTestController(t, 4)
	require.NoError(t, ctrl.StartHand())

	var sb, bb int
	ctrl.View(func(tbl *game.Table) { sb, bb = tbl.SmallBlind, tbl.BigBlind })
	assert.Equal(t, 100, sb)
	assert.Equal(t, 200, bb)

	// Finish the current hand; no bot timer is pending once it is idle.
	for i := 0; i < 20; i++ {
		require.True(t, advanceUntil(t, ctrl, mock, humanUpOrDone))
		idle := false
		ctrl.View(func(tbl *game.Table) { idle = !tbl.Street.Betting() })
		if idle {
			break
		}
		require.NoError(t, ctrl.HumanAction(game.Fold, 0))
	}

	// Jump past the whole schedule: the blinds cap at the final level.
	mock.Advance(400 * time.Second).MustWait(context.Background())
	require.NoError(t, ctrl.StartHand())
	ctrl.View(func(tbl *game.Table) { sb, bb = tbl.SmallBlind, tbl.BigBlind })
	assert.Equal(t, 1000, sb)
	assert.Equal(t, 2000, bb)

	_, ok := ctrl.TimeToNextLevel()
	assert.False(t, ok, "no further level after the last")
}

func TestEstimateEquityForLiveHand(t *testing.T) {
	ctrl, _ := newTestController(t, 5)
	require.NoError(t, ctrl.StartHand())

	res, err := ctrl.EstimateEquity(context.Background())
	require.NoError(t, err)
	assert.Greater(t, res.WinProbability, 0.0)
	assert.Less(t, res.WinProbability, 1.0)
	assert.Equal(t, DefaultConfig().Game.EquityTrials, res.Trials)

	// A repeat call inside the throttle window returns the cached result.
	again, err := ctrl.EstimateEquity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.WinProbability, again.WinProbability)
}

func TestLogLinesRecordHandFlow(t *testing.T) {
	ctrl, _ := newTestController(t, 6)
	require.NoError(t, ctrl.StartHand())
	lines := ctrl.LogLines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "New hand")
}
