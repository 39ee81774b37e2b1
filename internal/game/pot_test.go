package game

import (
	"testing"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/randutil"
)

func testPlayers(chips ...int) []*Player {
	players := make([]*Player, len(chips))
	for i, c := range chips {
		players[i] = NewPlayer(i, "P"+string(rune('0'+i)), c, i == 0, nil)
	}
	return players
}

func TestComputePotsLayersByContribution(t *testing.T) {
	table := NewTable(randutil.New(1), testPlayers(2000, 2000, 2000), 100, 200)
	table.Players[0].Total = 100
	table.Players[1].Total = 100
	table.Players[2].Total = 50

	pots := table.ComputePots()
	if len(pots) != 2 {
		t.Fatalf("got %d pots, want 2: %+v", len(pots), pots)
	}
	if pots[0].Amount != 150 || len(pots[0].Eligible) != 3 || pots[0].Chunk != 50 {
		t.Errorf("main pot = %+v, want 150 chips, 3 eligible, chunk 50", pots[0])
	}
	if pots[1].Amount != 100 || len(pots[1].Eligible) != 2 || pots[1].Chunk != 50 {
		t.Errorf("side pot = %+v, want 100 chips, 2 eligible, chunk 50", pots[1])
	}
}

func TestComputePotsFoldedChipsStayInButNotEligible(t *testing.T) {
	table := NewTable(randutil.New(1), testPlayers(2000, 2000, 2000), 100, 200)
	table.Players[0].Total = 100
	table.Players[1].Total = 100
	table.Players[2].Total = 100
	table.Players[2].Folded = true

	pots := table.ComputePots()
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 300 {
		t.Errorf("pot amount = %d, want 300 (folded chips stay in)", pots[0].Amount)
	}
	if len(pots[0].Eligible) != 2 {
		t.Errorf("eligible = %v, want only the two live seats", pots[0].Eligible)
	}
	for _, seat := range pots[0].Eligible {
		if seat == 2 {
			t.Error("folded player must not be eligible")
		}
	}
}

func TestShowdownTieSplitsWithRemainderToFirstWinner(t *testing.T) {
	table := NewTable(randutil.New(1), testPlayers(2000, 2000, 2000), 100, 200)
	// Seats 0 and 1 tie playing the board; seat 2 folded 25 chips in.
	table.Players[0].Hand = cards("2s", "3h")
	table.Players[1].Hand = cards("2d", "3c")
	table.Players[2].Hand = cards("As", "Ah")
	table.Players[2].Folded = true
	table.Board = cards("Td", "Jd", "Qd", "Kd", "Ad")
	for _, p := range table.Players {
		p.Total = 25
		p.Chips = 2000 - 25
	}
	table.Pot = 75
	table.Street = River

	table.resolveShowdown()

	if got := table.Players[0].Chips; got != 2000-25+38 {
		t.Errorf("seat 0 chips = %d, want %d (share plus remainder)", got, 2000-25+38)
	}
	if got := table.Players[1].Chips; got != 2000-25+37 {
		t.Errorf("seat 1 chips = %d, want %d", got, 2000-25+37)
	}
	if got := table.Players[2].Chips; got != 2000-25 {
		t.Errorf("folded seat 2 chips = %d, want %d", got, 2000-25)
	}
	if table.Street != Idle {
		t.Errorf("street = %v after showdown, want idle", table.Street)
	}
}

func TestShowdownSinglePotWinner(t *testing.T) {
	table := NewTable(randutil.New(1), testPlayers(2000, 2000), 100, 200)
	table.Players[0].Hand = cards("As", "Ad")
	table.Players[1].Hand = cards("Ks", "Kd")
	table.Board = cards("2c", "7d", "9s", "3h", "5d")
	for _, p := range table.Players {
		p.Total = 500
		p.Chips = 1500
	}
	table.Pot = 1000
	table.Street = River

	table.resolveShowdown()

	if got := table.Players[0].Chips; got != 2500 {
		t.Errorf("winner chips = %d, want 2500", got)
	}
	if got := table.Players[1].Chips; got != 1500 {
		t.Errorf("loser chips = %d, want 1500", got)
	}
	info := table.ShowdownInfo()
	if len(info) != 2 {
		t.Fatalf("showdown info has %d entries, want 2", len(info))
	}
	if info[0].Score.Category() != 1 {
		t.Errorf("seat 0 category = %v, want Pair", info[0].Score.Category())
	}
}

func TestSidePotGoesToSecondBestWhenShortStackWinsMain(t *testing.T) {
	table := NewTable(randutil.New(1), testPlayers(0, 0, 0), 100, 200)
	// Seat 2 is all-in short with the best hand; seats 0 and 1 contest the
	// side pot, where seat 0's kings beat seat 1's queens.
	table.Players[0].Hand = cards("Ks", "Kd")
	table.Players[1].Hand = cards("Qs", "Qd")
	table.Players[2].Hand = cards("As", "Ad")
	table.Board = cards("2c", "7d", "9s", "3h", "5d")
	table.Players[0].Total = 100
	table.Players[1].Total = 100
	table.Players[2].Total = 50
	table.Players[2].AllIn = true
	table.Pot = 250
	table.Street = River

	table.resolveShowdown()

	if got := table.Players[2].Chips; got != 150 {
		t.Errorf("short stack chips = %d, want 150 (main pot only)", got)
	}
	if got := table.Players[0].Chips; got != 100 {
		t.Errorf("side pot winner chips = %d, want 100", got)
	}
	if got := table.Players[1].Chips; got != 0 {
		t.Errorf("loser chips = %d, want 0", got)
	}
	if !table.Players[1].Out {
		t.Error("busted player should be eliminated")
	}
}

func TestEliminationEndsGameWhenOnePlayerRemains(t *testing.T) {
	over := false
	table := NewTable(randutil.New(1), testPlayers(0, 2000), 100, 200,
		WithCallbacks(Callbacks{GameOver: func() { over = true }}))
	table.Players[0].Hand = cards("2s", "3h")
	table.Players[1].Hand = cards("As", "Ad")
	table.Board = cards("7c", "8d", "9s", "Jh", "Kd")
	table.Players[0].Total = 100
	table.Players[1].Total = 100
	table.Players[0].AllIn = true
	table.Pot = 200
	table.Street = River

	table.resolveShowdown()

	if !table.Players[0].Out {
		t.Error("busted player should be out")
	}
	if !table.GameEnded {
		t.Error("game should end with one player left")
	}
	if !over {
		t.Error("game over callback should fire")
	}
}

// cards builds cards from compact specs like "As" or "Td".
func cards(specs ...string) []deck.Card {
	suits := map[byte]deck.Suit{'s': deck.Spades, 'h': deck.Hearts, 'd': deck.Diamonds, 'c': deck.Clubs}
	ranks := map[byte]deck.Rank{
		'2': deck.Two, '3': deck.Three, '4': deck.Four, '5': deck.Five,
		'6': deck.Six, '7': deck.Seven, '8': deck.Eight, '9': deck.Nine,
		'T': deck.Ten, 'J': deck.Jack, 'Q': deck.Queen, 'K': deck.King, 'A': deck.Ace,
	}
	out := make([]deck.Card, 0, len(specs))
	for _, s := range specs {
		out = append(out, deck.NewCard(ranks[s[0]], suits[s[1]]))
	}
	return out
}
