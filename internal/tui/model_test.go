package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"abilityholdem/internal/character"
	"abilityholdem/internal/randutil"
	"abilityholdem/internal/session"
)

// Rendering reads several controller values around the state snapshot; it
// must never re-enter the controller lock while holding it.
func TestViewRendersWithoutBlocking(t *testing.T) {
	ctrl, err := session.New(session.DefaultConfig(), character.Defaults(), "souma",
		randutil.New(1), quartz.NewMock(t), log.New(nil), nil)
	require.NoError(t, err)
	require.NoError(t, ctrl.StartHand())

	m := New(ctrl, log.New(nil))
	m.width, m.height = 100, 40

	done := make(chan string, 1)
	go func() { done <- m.View() }()
	select {
	case view := <-done:
		require.Contains(t, view, "blinds")
		require.Contains(t, view, "You")
	case <-time.After(2 * time.Second):
		t.Fatal("View blocked on the controller lock")
	}
}
