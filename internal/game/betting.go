package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBettingStreet is returned for actions outside a betting street.
	ErrNotBettingStreet = errors.New("no betting in progress")
	// ErrNotYourTurn is returned when a seat acts out of turn.
	ErrNotYourTurn = errors.New("not this seat's turn")
	// ErrCannotCheck is returned for a check facing an outstanding bet.
	ErrCannotCheck = errors.New("cannot check facing a bet")
)

// Action is a betting decision. Amount is the raise-to level for Raise and
// ignored otherwise.
type Action struct {
	Kind   ActionKind
	Amount int
}

// ApplyAction applies a betting action for the given seat. It validates
// the turn, mutates table state, and advances the hand: to the next
// player, the next street, or straight to showdown when no further action
// is possible. Invalid actions leave the table unchanged.
func (t *Table) ApplyAction(seat int, a Action) error {
	if !t.Street.Betting() {
		return ErrNotBettingStreet
	}
	if seat != t.ToAct {
		return ErrNotYourTurn
	}
	p := t.Players[seat]
	if !p.CanAct() {
		return ErrNotYourTurn
	}

	switch a.Kind {
	case Fold:
		p.Folded = true
		p.LastAction = &LastAction{Kind: "fold", Label: "Fold"}
		t.logf("%s folds.", p.Name)
		t.speak(seat, "fold")
	case Check:
		if p.Bet != t.CurrentBet {
			return ErrCannotCheck
		}
		t.acted[seat] = true
		p.LastAction = &LastAction{Kind: "check", Label: "Check"}
		t.logf("%s checks.", p.Name)
		t.speak(seat, "check")
	case Call:
		need := t.CurrentBet - p.Bet
		if need <= 0 {
			return t.ApplyAction(seat, Action{Kind: Check})
		}
		paid := t.commit(p, need)
		t.acted[seat] = true
		if p.AllIn && paid < need {
			p.LastAction = &LastAction{Kind: "allin", Amount: paid, Label: fmt.Sprintf("All-in %d", paid)}
			t.logf("%s calls all-in for %d.", p.Name, paid)
			t.speak(seat, "allin")
		} else {
			p.LastAction = &LastAction{Kind: "call", Amount: paid, Label: fmt.Sprintf("Call %d", paid)}
			t.logf("%s calls %d.", p.Name, paid)
			t.speak(seat, "call")
		}
	case Raise:
		t.applyRaise(p, a.Amount)
	case AllIn:
		t.applyAllIn(p)
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}

	t.updateOpenCards()
	t.advance()
	return nil
}

// applyRaise moves the player's street bet to the requested level. The
// amount is clamped up to the minimum legal raise; a raise the player
// cannot cover degrades to an all-in call that leaves the bet level, the
// minimum raise and the acted marks untouched.
func (t *Table) applyRaise(p *Player, target int) {
	if minTotal := t.CurrentBet + t.MinRaise; target < minTotal {
		target = minTotal
	}
	if target > p.Bet+p.Chips {
		t.allInCall(p)
		return
	}

	raiseBy := target - t.CurrentBet
	t.commit(p, target-p.Bet)
	t.CurrentBet = target
	t.MinRaise = raiseBy
	t.LastAggressor = p.Seat
	// A full raise reopens the action: only the raiser counts as having
	// acted at the new level.
	t.acted = map[int]bool{p.Seat: true}

	if p.AllIn {
		p.LastAction = &LastAction{Kind: "allin", Amount: target, Label: fmt.Sprintf("All-in %d", target)}
		t.logf("%s goes all-in to %d.", p.Name, target)
		t.speak(p.Seat, "allin")
	} else {
		p.LastAction = &LastAction{Kind: "raise", Amount: target, Label: fmt.Sprintf("Raise to %d", target)}
		t.logf("%s raises to %d.", p.Name, target)
		t.speak(p.Seat, "raise")
	}
}

// applyAllIn bets the player's whole stack. Above the current bet it acts
// as a raise; a short all-in (under the minimum raise) bumps the bet
// level without reopening the action, and a stack that cannot exceed the
// bet is an all-in call.
func (t *Table) applyAllIn(p *Player) {
	target := p.Bet + p.Chips
	if target <= t.CurrentBet {
		t.applyCallFallback(p)
		return
	}

	raiseBy := target - t.CurrentBet
	fullRaise := target >= t.CurrentBet+t.MinRaise
	t.commit(p, p.Chips)
	t.CurrentBet = target
	if fullRaise {
		t.MinRaise = raiseBy
		t.LastAggressor = p.Seat
		t.acted = map[int]bool{p.Seat: true}
	} else {
		// Short all-in: the level moves but players who already acted
		// are not given a fresh option.
		t.acted[p.Seat] = true
	}

	p.LastAction = &LastAction{Kind: "allin", Amount: target, Label: fmt.Sprintf("All-in %d", target)}
	t.logf("%s goes all-in to %d.", p.Name, target)
	t.speak(p.Seat, "allin")
}

// allInCall commits the whole stack without moving the bet level.
func (t *Table) allInCall(p *Player) {
	paid := t.commit(p, p.Chips)
	t.acted[p.Seat] = true
	p.LastAction = &LastAction{Kind: "allin", Amount: p.Bet, Label: fmt.Sprintf("All-in %d", p.Bet)}
	t.logf("%s calls all-in for %d.", p.Name, paid)
	t.speak(p.Seat, "allin")
}

func (t *Table) applyCallFallback(p *Player) {
	need := t.CurrentBet - p.Bet
	if need <= 0 {
		t.acted[p.Seat] = true
		p.LastAction = &LastAction{Kind: "check", Label: "Check"}
		t.logf("%s checks.", p.Name)
		t.speak(p.Seat, "check")
		return
	}
	paid := t.commit(p, need)
	t.acted[p.Seat] = true
	if p.AllIn && paid < need {
		p.LastAction = &LastAction{Kind: "allin", Amount: paid, Label: fmt.Sprintf("All-in %d", paid)}
		t.logf("%s calls all-in for %d.", p.Name, paid)
		t.speak(p.Seat, "allin")
	} else {
		p.LastAction = &LastAction{Kind: "call", Amount: paid, Label: fmt.Sprintf("Call %d", paid)}
		t.logf("%s calls %d.", p.Name, paid)
		t.speak(p.Seat, "call")
	}
}

// commit moves up to amount chips from the player's stack into the pot,
// flagging all-in when the stack empties. Returns the chips actually
// moved.
func (t *Table) commit(p *Player, amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.Total += amount
	t.Pot += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}

// advance moves the hand forward after an action: showdown when one
// contender remains, next street when no further action is possible or
// betting is settled, otherwise the next player. The noActionLeft check
// comes first so that once cards are open a level street completes even
// for seats without a fresh acted mark.
func (t *Table) advance() {
	live := t.livePlayers()
	if len(live) <= 1 {
		t.resolveShowdown()
		return
	}
	if t.noActionLeft() || (t.allSettled() && t.allActedOrUnable()) {
		t.nextStreet()
		return
	}
	t.nextPlayer()
	t.render()
}
