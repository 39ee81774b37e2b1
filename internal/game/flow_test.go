package game

import (
	"errors"
	"testing"

	"abilityholdem/internal/randutil"
)

func TestStartHandGuards(t *testing.T) {
	table := stackedTable(t)
	if err := table.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := table.StartHand(); !errors.Is(err, ErrHandInProgress) {
		t.Errorf("second StartHand: got %v, want ErrHandInProgress", err)
	}

	table2 := NewTable(randutil.New(1), testPlayers(2000, 2000, 2000, 2000), 100, 200)
	table2.Players[1].Out = true
	table2.Players[2].Out = true
	table2.Players[3].Out = true
	if err := table2.StartHand(); !errors.Is(err, ErrGameOver) {
		t.Errorf("one player left: got %v, want ErrGameOver", err)
	}
}

func TestButtonRotationSkipsEliminated(t *testing.T) {
	table := NewTable(randutil.New(2), testPlayers(2000, 2000, 2000, 2000), 100, 200)
	if err := table.StartHand(); err != nil {
		t.Fatal(err)
	}
	if table.Dealer != 0 {
		t.Fatalf("first dealer = %d, want 0", table.Dealer)
	}
	// Finish the hand by folding everyone to the big blind.
	for table.Street.Betting() {
		seat := table.ToAct
		if err := table.ApplyAction(seat, Action{Kind: Fold}); err != nil {
			t.Fatal(err)
		}
	}

	table.Players[1].Out = true
	if err := table.StartHand(); err != nil {
		t.Fatal(err)
	}
	if table.Dealer != 2 {
		t.Errorf("dealer = %d, want 2 (seat 1 is out)", table.Dealer)
	}
	if len(table.Players[1].Hand) != 0 {
		t.Error("eliminated player must not be dealt in")
	}
}

func TestEliminatedPlayersStartFolded(t *testing.T) {
	table := NewTable(randutil.New(3), testPlayers(2000, 2000, 2000, 2000), 100, 200)
	table.Players[3].Out = true
	if err := table.StartHand(); err != nil {
		t.Fatal(err)
	}
	if !table.Players[3].Folded {
		t.Error("out player should start the hand folded")
	}
	if table.ToAct == 3 {
		t.Error("out player must never be asked to act")
	}
}

func TestAllInPreflopRunsOutToShowdown(t *testing.T) {
	table := stackedTable(t, 500, 500, 500, 500)
	if err := table.StartHand(); err != nil {
		t.Fatal(err)
	}

	mustAct(t, table, 3, Action{Kind: AllIn})
	mustAct(t, table, 0, Action{Kind: AllIn})
	mustAct(t, table, 1, Action{Kind: AllIn})
	mustAct(t, table, 2, Action{Kind: AllIn})

	// No one can act: the board runs out and the hand resolves.
	if table.Street != Idle {
		t.Fatalf("street = %v, want idle after automatic runout", table.Street)
	}
	if len(table.Board) != 5 {
		t.Fatalf("board has %d cards, want 5", len(table.Board))
	}
	// Aces hold on the stacked dry board: seat 1 takes all 2000.
	if got := table.Players[1].Chips; got != 2000 {
		t.Errorf("winner chips = %d, want 2000", got)
	}
	for _, seat := range []int{0, 2, 3} {
		if !table.Players[seat].Out {
			t.Errorf("seat %d should be eliminated", seat)
		}
	}
	if !table.GameEnded {
		t.Error("game should end when one stack remains")
	}
}

func TestFoldToBigBlindEndsPreflopImmediately(t *testing.T) {
	table := stackedTable(t)
	if err := table.StartHand(); err != nil {
		t.Fatal(err)
	}
	renderCount := 0
	table.cb.Render = func() { renderCount++ }

	mustAct(t, table, 3, Action{Kind: Fold})
	mustAct(t, table, 0, Action{Kind: Fold})
	mustAct(t, table, 1, Action{Kind: Fold})

	if table.Street != Idle {
		t.Errorf("street = %v, want idle", table.Street)
	}
	if renderCount == 0 {
		t.Error("render callback should fire on state changes")
	}
	// Next hand can start right away.
	if err := table.StartHand(); err != nil {
		t.Errorf("restart after uncontested hand: %v", err)
	}
}
