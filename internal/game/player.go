package game

import "abilityholdem/internal/deck"

// Player represents one seat at the table. Hand, bets and per-hand flags
// reset every hand; Out is permanent once chips hit zero after a showdown.
type Player struct {
	Seat  int
	Name  string
	Human bool
	Chips int

	Hand   []deck.Card
	Folded bool
	Bet    int // chips wagered this street
	Total  int // chips wagered this hand, across streets
	AllIn  bool
	Out    bool

	Ability *Ability

	// RevealMask marks which hole cards are visible to others: bit 0 for
	// the first card, bit 1 for the second.
	RevealMask int

	LastAction *LastAction

	// AggrPulse is a transient aggression boost from a recent ability use,
	// consumed by the bot policy.
	AggrPulse int
	// JustTeleported marks a hole-card swap since the player's last turn.
	JustTeleported bool
}

// NewPlayer creates a player with a starting stack.
func NewPlayer(seat int, name string, chips int, human bool, ability *Ability) *Player {
	return &Player{Seat: seat, Name: name, Chips: chips, Human: human, Ability: ability}
}

// CanAct reports whether the player may take a betting action.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.Out && !p.AllIn
}

// Live reports whether the player is still contesting the current hand.
func (p *Player) Live() bool {
	return !p.Folded && !p.Out
}

// resetForHand clears per-hand state. Eliminated players start folded so
// the betting loop skips them.
func (p *Player) resetForHand() {
	p.Hand = nil
	p.Folded = p.Out
	p.Bet = 0
	p.Total = 0
	p.AllIn = false
	p.RevealMask = 0
	p.LastAction = nil
	p.AggrPulse = 0
	p.JustTeleported = false
}
