package game

import (
	"errors"
	"strings"

	"abilityholdem/internal/deck"
)

var (
	// ErrHandInProgress is returned when a hand is already running.
	ErrHandInProgress = errors.New("hand already in progress")
	// ErrGameOver is returned once the game has ended.
	ErrGameOver = errors.New("game is over")
)

// StartHand shuffles a fresh deck, rotates the button, posts blinds and
// deals hole cards. It fails if a hand is already in progress or fewer
// than two players remain.
func (t *Table) StartHand() error {
	if t.GameEnded {
		return ErrGameOver
	}
	if t.Street != Idle {
		return ErrHandInProgress
	}
	if t.CountNonOut() < 2 {
		return ErrGameOver
	}

	t.Board = nil
	t.Pot = 0
	t.CurrentBet = 0
	t.MinRaise = t.BigBlind
	t.LastAggressor = -1
	t.OpenCards = false
	t.acted = map[int]bool{}
	t.seenBy = map[int]map[int]int{}
	t.foresight = map[int][]deck.Card{}
	t.clairvoyanceUsed = map[int]bool{}
	t.showdownInfo = map[int]ShowdownResult{}
	for _, p := range t.Players {
		p.resetForHand()
	}

	t.Dealer = t.NextNonOutFrom(t.Dealer + 1)
	if t.newDeck != nil {
		t.Deck = t.newDeck()
	} else {
		t.Deck = deck.New(t.rng)
	}
	t.logf("--- New hand. Dealer: %s. Blinds %d/%d. ---",
		t.Players[t.Dealer].Name, t.SmallBlind, t.BigBlind)

	// Two passes, starting left of the button, skipping eliminated seats.
	n := len(t.Players)
	for pass := 0; pass < 2; pass++ {
		for i := 1; i <= n; i++ {
			p := t.Players[(t.Dealer+i)%n]
			if p.Out {
				continue
			}
			c, _ := t.Deck.Pop()
			p.Hand = append(p.Hand, c)
		}
	}

	sb := t.NextNonOutFrom(t.Dealer + 1)
	bb := t.NextNonOutFrom(sb + 1)
	t.postBlind(t.Players[sb], t.SmallBlind, "SB")
	t.postBlind(t.Players[bb], t.BigBlind, "BB")
	t.CurrentBet = t.BigBlind

	t.Street = Preflop
	t.ToAct = t.NextActiveFrom(bb + 1)
	t.render()

	t.maybeSkipStreet()
	return nil
}

// postBlind commits a forced bet, capped to the stack.
func (t *Table) postBlind(p *Player, amount int, label string) {
	paid := t.commit(p, amount)
	p.LastAction = &LastAction{Kind: "blind", Amount: paid, Label: label}
	t.logf("%s posts %s %d.", p.Name, label, paid)
	t.updateOpenCards()
}

// maybeSkipStreet advances past a street on which no player can act, for
// example when the blinds put everyone all-in.
func (t *Table) maybeSkipStreet() {
	if !t.Street.Betting() {
		return
	}
	for _, p := range t.Players {
		if p.CanAct() {
			return
		}
	}
	t.nextStreet()
}

// nextStreet settles the street and deals the next one, running straight
// through to showdown when no further betting is possible.
func (t *Table) nextStreet() {
	for _, p := range t.Players {
		p.Bet = 0
		p.LastAction = nil
	}
	t.CurrentBet = 0
	t.MinRaise = t.BigBlind
	t.LastAggressor = -1
	t.acted = map[int]bool{}
	t.clairvoyanceUsed = map[int]bool{}
	// Foreseen cards are about to hit the board; the glimpse is spent.
	t.foresight = map[int][]deck.Card{}

	if len(t.livePlayers()) <= 1 {
		t.resolveShowdown()
		return
	}

	switch t.Street {
	case Preflop:
		t.Street = Flop
		t.dealBoard(3)
	case Flop:
		t.Street = Turn
		t.dealBoard(1)
	case Turn:
		t.Street = River
		t.dealBoard(1)
	case River:
		t.resolveShowdown()
		return
	default:
		return
	}

	t.logf("%s: %s", t.Street, formatCards(t.Board))
	t.ToAct = t.NextActiveFrom(t.Dealer + 1)
	t.render()

	if t.noActionLeft() {
		t.nextStreet()
		return
	}
	t.maybeSkipStreet()
}

// dealBoard pops count cards onto the board, applying any pending
// blessing bias first.
func (t *Table) dealBoard(count int) {
	t.applyBlessingBias(count)
	for i := 0; i < count; i++ {
		c, ok := t.Deck.Pop()
		if !ok {
			return
		}
		t.Board = append(t.Board, c)
	}
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
