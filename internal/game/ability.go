package game

import (
	"sort"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/evaluator"
)

const (
	teleportCandidates = 8
	teleportDecay      = 0.72
	blessingWeakWindow = 12
)

// Use triggers the seat's ability with default targeting. Bots call this;
// the human UI uses the specific entry points for explicit targeting.
// Abilities that cannot take effect right now are a silent no-op and do
// not consume a use.
func (t *Table) Use(seat int) bool {
	p := t.Players[seat]
	if p.Ability == nil {
		return false
	}
	switch p.Ability.Key {
	case AbilityForesight:
		return t.UseForesight(seat)
	case AbilityClairvoyance:
		return t.UseClairvoyance(seat)
	case AbilityTeleport:
		return t.UseTeleport(seat, -1)
	case AbilityBlessing:
		return t.UseBlessing(seat)
	}
	return false
}

// abilityReady checks the common preconditions: a betting street, a live
// player with that ability and uses remaining.
func (t *Table) abilityReady(seat int, key AbilityKey) (*Player, bool) {
	if !t.Street.Betting() {
		return nil, false
	}
	p := t.Players[seat]
	if !p.Live() || p.Ability == nil || p.Ability.Key != key || p.Ability.Uses <= 0 {
		return nil, false
	}
	return p, true
}

func (t *Table) consumeUse(p *Player, event string) {
	p.Ability.Uses--
	p.AggrPulse++
	t.logf("%s uses %s.", p.Name, p.Ability.Name)
	t.speak(p.Seat, event)
	t.render()
}

// UseForesight shows the seat the board cards about to be dealt, up to
// three, capped by how many are still to come. On the river there is
// nothing left to see and the use is not consumed.
func (t *Table) UseForesight(seat int) bool {
	p, ok := t.abilityReady(seat, AbilityForesight)
	if !ok {
		return false
	}
	n := 5 - len(t.Board)
	if n > 3 {
		n = 3
	}
	if n <= 0 || t.Deck.Len() < n {
		return false
	}
	t.foresight[seat] = t.Deck.PeekTop(n)
	t.consumeUse(p, "ability_foresight")
	return true
}

// UseClairvoyance reveals one hidden hole card of each target opponent to
// the viewer. With no targets it takes every live opponent. A target whose
// card the viewer has already seen is skipped; the use is consumed only
// when at least one new card is revealed, and at most once per street.
func (t *Table) UseClairvoyance(seat int, targets ...int) bool {
	p, ok := t.abilityReady(seat, AbilityClairvoyance)
	if !ok || t.clairvoyanceUsed[seat] {
		return false
	}
	if len(targets) == 0 {
		for _, o := range t.Players {
			if o.Seat != seat && o.Live() {
				targets = append(targets, o.Seat)
			}
		}
	}

	revealed := false
	for _, target := range targets {
		if target == seat {
			continue
		}
		o := t.Players[target]
		if !o.Live() || len(o.Hand) != 2 {
			continue
		}
		if t.seenBy[seat] == nil {
			t.seenBy[seat] = map[int]int{}
		}
		if _, seen := t.seenBy[seat][target]; seen {
			continue
		}
		t.seenBy[seat][target] = t.rng.IntN(2)
		revealed = true
	}
	if !revealed {
		return false
	}
	t.clairvoyanceUsed[seat] = true
	t.consumeUse(p, "ability_clairvoyance")
	return true
}

// UseTeleport swaps one of the seat's hole cards for a strong card drawn
// from the deck. holeIdx selects which card to discard; -1 discards the
// card contributing less to the hand. The replacement is sampled from the
// top candidates with geometrically decaying weights, and the discard
// goes back into the deck at a random position.
func (t *Table) UseTeleport(seat, holeIdx int) bool {
	p, ok := t.abilityReady(seat, AbilityTeleport)
	if !ok || len(p.Hand) != 2 || t.Deck.Empty() {
		return false
	}
	if holeIdx < 0 || holeIdx > 1 {
		holeIdx = t.weakerHoleIndex(p)
	}
	keep := p.Hand[1-holeIdx]

	type cand struct {
		pos   int
		value float64
	}
	cands := make([]cand, 0, t.Deck.Len())
	for i := 0; i < t.Deck.Len(); i++ {
		c := t.Deck.At(i)
		cands = append(cands, cand{i, t.candidateValue(c, []deck.Card{keep}, t.Board)})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].value > cands[j].value })
	if len(cands) > teleportCandidates {
		cands = cands[:teleportCandidates]
	}

	total, w := 0.0, 1.0
	weights := make([]float64, len(cands))
	for i := range cands {
		weights[i] = w
		total += w
		w *= teleportDecay
	}
	roll := t.rng.Float64() * total
	pick := 0
	for i, wt := range weights {
		roll -= wt
		if roll <= 0 {
			pick = i
			break
		}
	}

	discard := p.Hand[holeIdx]
	p.Hand[holeIdx] = t.Deck.RemoveAt(cands[pick].pos)
	t.Deck.InsertRandom(discard)
	p.JustTeleported = true
	t.consumeUse(p, "ability_teleport")
	return true
}

// weakerHoleIndex returns the index of the hole card whose removal hurts
// the hand less.
func (t *Table) weakerHoleIndex(p *Player) int {
	without := func(idx int) evaluator.Score {
		cards := append([]deck.Card{p.Hand[1-idx]}, t.Board...)
		return evaluator.Best(cards)
	}
	// Dropping index 0 leaves card 1; keep whichever remainder is stronger.
	if evaluator.Compare(without(0), without(1)) >= 0 {
		return 0
	}
	return 1
}

// UseBlessing queues a bias on the next board deal in the seat's favor.
// Only one strong blessing can be pending at a time.
func (t *Table) UseBlessing(seat int) bool {
	p, ok := t.abilityReady(seat, AbilityBlessing)
	if !ok || t.blessingStrongFor >= 0 || t.Street == River {
		return false
	}
	t.blessingStrongFor = seat
	t.consumeUse(p, "ability_blessing")
	return true
}

// applyBlessingBias reorders the top of the deck before a board deal. A
// pending strong blessing biases every card of the deal over the whole
// deck, then decays into a weak residual for the same seat: one further
// single-card bias over a small window.
func (t *Table) applyBlessingBias(count int) {
	if t.blessingStrongFor >= 0 {
		seat := t.blessingStrongFor
		t.biasTop(seat, count, t.Deck.Len())
		t.blessingStrongFor = -1
		t.blessingResidualSeat = seat
		t.blessingResidualCount = 1
		return
	}
	if t.blessingResidualSeat >= 0 && t.blessingResidualCount > 0 {
		t.biasTop(t.blessingResidualSeat, 1, blessingWeakWindow)
		t.blessingResidualCount--
		if t.blessingResidualCount == 0 {
			t.blessingResidualSeat = -1
		}
	}
}

// biasTop moves, for each of the first count deal positions, the best
// candidate within the window to that position. Cards already placed by
// earlier iterations count toward the hand being improved.
func (t *Table) biasTop(seat, count, window int) {
	p := t.Players[seat]
	if !p.Live() || len(p.Hand) == 0 {
		return
	}
	board := append([]deck.Card(nil), t.Board...)
	for i := 0; i < count && i < t.Deck.Len(); i++ {
		limit := i + window
		if limit > t.Deck.Len() {
			limit = t.Deck.Len()
		}
		best, bestVal := i, -1.0
		for j := i; j < limit; j++ {
			v := t.candidateValue(t.Deck.At(j), p.Hand, board)
			if v > bestVal {
				best, bestVal = j, v
			}
		}
		if best != i {
			t.Deck.SwapDealOrder(i, best)
		}
		board = append(board, t.Deck.At(i))
	}
}

// candidateValue scores how much a card would help the hand. With a
// developed board it evaluates the full hand and weights the category
// heavily; earlier it rewards pairing, suit match, straight adjacency and
// raw high cards.
func (t *Table) candidateValue(c deck.Card, hand, board []deck.Card) float64 {
	if len(board) >= 3 {
		cards := make([]deck.Card, 0, len(hand)+len(board)+1)
		cards = append(cards, hand...)
		cards = append(cards, board...)
		cards = append(cards, c)
		s := evaluator.Best(cards)
		v := float64(int(s.Category()) * 2500)
		for _, x := range s {
			v += float64(x*100 + int(c.Rank))
		}
		return v
	}
	v := 0.0
	for _, h := range hand {
		if h.Rank == c.Rank {
			v += 3200
		}
		if h.Suit == c.Suit {
			v += 1200
		}
		d := int(h.Rank) - int(c.Rank)
		if d >= -2 && d <= 2 && d != 0 {
			v += 800
		}
	}
	if c.Rank >= deck.King {
		v += 200
	}
	return v
}
