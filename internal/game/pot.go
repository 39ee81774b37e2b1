package game

import (
	"sort"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/evaluator"
)

// SidePot is one layer of the pot with the seats entitled to win it.
type SidePot struct {
	Amount   int
	Eligible []int
	Chunk    int // per-player contribution to this layer
}

// ComputePots splits the hand's contributions into a main pot and side
// pots. Each layer takes the smallest positive remaining contribution
// from every contributor; only live contributors are eligible to win the
// layer, but folded players' chips stay in it.
func (t *Table) ComputePots() []SidePot {
	remaining := make(map[int]int)
	for _, p := range t.Players {
		if p.Total > 0 {
			remaining[p.Seat] = p.Total
		}
	}

	var pots []SidePot
	for len(remaining) > 0 {
		chunk := 0
		for _, v := range remaining {
			if chunk == 0 || v < chunk {
				chunk = v
			}
		}
		pot := SidePot{Chunk: chunk}
		for seat := range remaining {
			pot.Amount += chunk
			if t.Players[seat].Live() {
				pot.Eligible = append(pot.Eligible, seat)
			}
			remaining[seat] -= chunk
			if remaining[seat] == 0 {
				delete(remaining, seat)
			}
		}
		sort.Ints(pot.Eligible)
		pots = append(pots, pot)
	}
	return pots
}

// resolveShowdown ends the hand: it awards the pot (uncontested or via
// evaluation and side-pot splitting), eliminates busted players, and
// returns the table to the idle state ready for the next hand.
func (t *Table) resolveShowdown() {
	t.Street = Showdown
	live := t.livePlayers()

	switch len(live) {
	case 0:
		// Unreachable in practice; chips stay in place.
	case 1:
		w := live[0]
		w.Chips += t.Pot
		t.logf("%s wins %d uncontested.", w.Name, t.Pot)
		t.speak(w.Seat, "win")
		t.Pot = 0
	default:
		t.awardShowdown(live)
	}

	t.eliminateBusted()
	t.Street = Idle
	t.render()
}

func (t *Table) awardShowdown(live []*Player) {
	t.markAllRevealed()

	scores := make(map[int]evaluator.Score, len(live))
	for _, p := range live {
		all := append(append([]deck.Card(nil), p.Hand...), t.Board...)
		s, used := evaluator.BestDetailed(all)
		scores[p.Seat] = s
		t.showdownInfo[p.Seat] = ShowdownResult{
			Score:    s,
			Used:     used,
			Decisive: evaluator.DecisiveCards(used, s),
		}
		t.logf("%s shows %s (%s).", p.Name, formatCards(p.Hand), s.Name())
	}

	for i, pot := range t.ComputePots() {
		if len(pot.Eligible) == 0 {
			continue
		}
		if len(pot.Eligible) == 1 {
			seat := pot.Eligible[0]
			t.Players[seat].Chips += pot.Amount
			t.logf("%d returned to %s.", pot.Amount, t.Players[seat].Name)
			continue
		}

		var winners []int
		var best evaluator.Score
		for _, seat := range pot.Eligible {
			switch evaluator.Compare(scores[seat], best) {
			case 1:
				best = scores[seat]
				winners = []int{seat}
			case 0:
				winners = append(winners, seat)
			}
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount - share*len(winners)
		for j, seat := range winners {
			amount := share
			if j == 0 {
				amount += remainder
			}
			t.Players[seat].Chips += amount
			label := "pot"
			if i > 0 {
				label = "side pot"
			}
			t.logf("%s wins %d from the %s with %s.",
				t.Players[seat].Name, amount, label, best.Name())
			t.speak(seat, "win")
		}
	}
	t.Pot = 0
}

// eliminateBusted marks zero-stack players out and ends the game when the
// human busts or a single player remains.
func (t *Table) eliminateBusted() {
	for _, p := range t.Players {
		if !p.Out && p.Chips <= 0 {
			p.Out = true
			p.Folded = true
			p.AllIn = false
			t.logf("%s is eliminated.", p.Name)
			t.speak(p.Seat, "eliminated")
		}
	}

	humanOut := false
	for _, p := range t.Players {
		if p.Human && p.Out {
			humanOut = true
		}
	}
	if humanOut || t.CountNonOut() <= 1 {
		t.GameEnded = true
		if t.CountNonOut() == 1 {
			for _, p := range t.Players {
				if !p.Out {
					t.logf("%s wins the game.", p.Name)
				}
			}
		}
		if t.cb.GameOver != nil {
			t.cb.GameOver()
		}
	}
}
