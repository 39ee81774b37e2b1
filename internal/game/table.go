package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/evaluator"
)

// Table is the aggregate owning all mutable hand state: the players, the
// deck, the board, betting levels and the ability memory. All mutation goes
// through its methods; there is no package-level state.
type Table struct {
	Players []*Player

	Deck  *deck.Deck
	Board []deck.Card

	Pot        int
	Dealer     int
	SmallBlind int
	BigBlind   int

	Street        Street
	ToAct         int
	CurrentBet    int
	MinRaise      int
	LastAggressor int

	// OpenCards flips once an all-in player's bet has been matched; hands
	// stay face-up for the rest of the hand.
	OpenCards bool

	// GameEnded flips when at most one player remains non-eliminated.
	GameEnded bool

	acted map[int]bool

	// Ability memory. seenBy maps viewer seat -> target seat -> hole index
	// revealed to that viewer. foresight holds board cards shown to a
	// foresight user. Blessing state tracks the pending strong bias and
	// the weak residual that follows it.
	seenBy                map[int]map[int]int
	foresight             map[int][]deck.Card
	blessingStrongFor     int
	blessingResidualSeat  int
	blessingResidualCount int
	clairvoyanceUsed      map[int]bool

	// showdownInfo holds each live player's evaluated hand at showdown for
	// the renderer; cleared at the next hand.
	showdownInfo map[int]ShowdownResult

	rng     *rand.Rand
	cb      Callbacks
	logger  *log.Logger
	newDeck func() *deck.Deck
}

// ShowdownResult is a player's evaluated hand at showdown.
type ShowdownResult struct {
	Score    evaluator.Score
	Used     []deck.Card
	Decisive []deck.Card
}

// Reveal is one opponent hole card visible to a viewer.
type Reveal struct {
	Seat int
	Card deck.Card
}

// Option configures a Table.
type Option func(*Table)

// WithCallbacks attaches the boundary collaborators.
func WithCallbacks(cb Callbacks) Option {
	return func(t *Table) { t.cb = cb }
}

// WithLogger attaches a structured logger for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger.WithPrefix("table") }
}

// WithDeckFactory overrides how each hand builds its deck. Tests use it
// to stack known cards.
func WithDeckFactory(fn func() *deck.Deck) Option {
	return func(t *Table) { t.newDeck = fn }
}

// NewTable creates a table in the idle state. The RNG is required so that
// shuffling, ability rolls and candidate sampling are reproducible under a
// seeded source.
func NewTable(rng *rand.Rand, players []*Player, smallBlind, bigBlind int, opts ...Option) *Table {
	if rng == nil {
		panic("rng is required")
	}
	if len(players) < 2 {
		panic("at least 2 players required")
	}
	t := &Table{
		Players:              players,
		SmallBlind:           smallBlind,
		BigBlind:             bigBlind,
		Street:               Idle,
		LastAggressor:        -1,
		Dealer:               len(players) - 1, // first rotation lands on seat 0
		acted:                map[int]bool{},
		seenBy:               map[int]map[int]int{},
		foresight:            map[int][]deck.Card{},
		blessingStrongFor:    -1,
		blessingResidualSeat: -1,
		clairvoyanceUsed:     map[int]bool{},
		showdownInfo:         map[int]ShowdownResult{},
		rng:                  rng,
		logger:               log.New(nil),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) render() {
	if t.cb.Render != nil {
		t.cb.Render()
	}
}

func (t *Table) logf(format string, args ...any) {
	if t.cb.Log != nil {
		t.cb.Log(fmt.Sprintf(format, args...))
	}
}

func (t *Table) speak(seat int, event string) {
	if t.cb.Speak != nil {
		t.cb.Speak(seat, event)
	}
}

// CurrentPlayer returns the player whose turn it is, or nil outside a
// betting street.
func (t *Table) CurrentPlayer() *Player {
	if !t.Street.Betting() {
		return nil
	}
	return t.Players[t.ToAct]
}

// NextActiveFrom returns the first seat at or after start that can still
// act this street.
func (t *Table) NextActiveFrom(start int) int {
	n := len(t.Players)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if t.Players[seat].CanAct() {
			return seat
		}
	}
	return start
}

// NextNonOutFrom returns the first non-eliminated seat at or after start.
func (t *Table) NextNonOutFrom(start int) int {
	n := len(t.Players)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if !t.Players[seat].Out {
			return seat
		}
	}
	return start
}

// nextPlayer advances ToAct to the next seat able to act.
func (t *Table) nextPlayer() {
	n := len(t.Players)
	for i := 1; i <= n; i++ {
		seat := (t.ToAct + i) % n
		if t.Players[seat].CanAct() {
			t.ToAct = seat
			return
		}
	}
	t.ToAct = 0
}

// livePlayers returns players still contesting the hand.
func (t *Table) livePlayers() []*Player {
	live := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p.Live() {
			live = append(live, p)
		}
	}
	return live
}

// allSettled reports whether every live player is all-in or level with the
// current bet.
func (t *Table) allSettled() bool {
	live := t.livePlayers()
	if len(live) <= 1 {
		return true
	}
	for _, p := range live {
		if !p.AllIn && p.Bet != t.CurrentBet {
			return false
		}
	}
	return true
}

// allActedOrUnable reports whether every live player has either acted
// since the last raise or can take no further action.
func (t *Table) allActedOrUnable() bool {
	for _, p := range t.livePlayers() {
		if !p.AllIn && !t.acted[p.Seat] {
			return false
		}
	}
	return true
}

// updateOpenCards trips the open-cards flag once any all-in player's bet
// is matched or exceeded by another live player. Once tripped it holds for
// the rest of the hand.
func (t *Table) updateOpenCards() {
	if t.OpenCards {
		return
	}
	live := t.livePlayers()
	for _, a := range live {
		if !a.AllIn {
			continue
		}
		for _, b := range live {
			if b.Seat == a.Seat {
				continue
			}
			if b.Bet >= a.Bet {
				t.OpenCards = true
				t.markAllRevealed()
				return
			}
		}
	}
}

func (t *Table) markAllRevealed() {
	for _, p := range t.Players {
		if p.Live() && len(p.Hand) == 2 {
			p.RevealMask = 0b11
		}
	}
}

// noActionLeft reports whether the street can make no further progress:
// at most one contender, everyone all-in, or (once cards are open) all
// live bets level without fresh acted marks. The open-cards relaxation
// prevents a deadlock when all-in players can never act again.
func (t *Table) noActionLeft() bool {
	live := t.livePlayers()
	if len(live) <= 1 {
		return true
	}
	allIn := true
	for _, p := range live {
		if !p.AllIn {
			allIn = false
			break
		}
	}
	if allIn {
		return true
	}
	if t.OpenCards {
		for _, p := range live {
			if !p.AllIn && p.Bet != t.CurrentBet {
				return false
			}
		}
		return true
	}
	return false
}

// RevealedTo returns the opponent hole cards the viewer has seen through
// clairvoyance.
func (t *Table) RevealedTo(viewer int) []Reveal {
	seen := t.seenBy[viewer]
	if len(seen) == 0 {
		return nil
	}
	out := make([]Reveal, 0, len(seen))
	for target, idx := range seen {
		p := t.Players[target]
		if len(p.Hand) != 2 {
			continue
		}
		out = append(out, Reveal{Seat: target, Card: p.Hand[idx]})
	}
	return out
}

// Foresight returns the future board cards previously shown to the seat,
// or nil.
func (t *Table) Foresight(seat int) []deck.Card {
	return t.foresight[seat]
}

// BlessingPendingFor returns the seat with a strong blessing pending, or
// -1.
func (t *Table) BlessingPendingFor() int {
	return t.blessingStrongFor
}

// BlessingResidualFor returns the seat still carrying a weak blessing
// residual, or -1.
func (t *Table) BlessingResidualFor() int {
	if t.blessingResidualCount <= 0 {
		return -1
	}
	return t.blessingResidualSeat
}

// ShowdownInfo returns the evaluated hands of the last showdown, keyed by
// seat.
func (t *Table) ShowdownInfo() map[int]ShowdownResult {
	return t.showdownInfo
}

// CountNonOut returns the number of players still in the game.
func (t *Table) CountNonOut() int {
	n := 0
	for _, p := range t.Players {
		if !p.Out {
			n++
		}
	}
	return n
}

// TotalChips returns chips held by players plus the pot. It is constant
// for the life of a game.
func (t *Table) TotalChips() int {
	total := t.Pot
	for _, p := range t.Players {
		total += p.Chips
	}
	return total
}
