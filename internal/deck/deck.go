package deck

import rand "math/rand/v2"

// Deck is an ordered sequence of cards. The top of the deck is the end of
// the slice: dealing pops from the end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// All returns the 52-card universe in a fixed suit-major order.
func All() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// New creates a full 52-card deck shuffled with the provided RNG.
// The RNG is retained for later reshuffles and random insertions.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: All(), rng: rng}
	d.Shuffle()
	return d
}

// NewOrdered creates a deck that deals the given cards first, in order,
// followed by the rest of the 52-card universe in fixed order. Tests use
// it to stack known hands.
func NewOrdered(rng *rand.Rand, first ...Card) *Deck {
	rest := make([]Card, 0, 52)
	for _, c := range All() {
		if !Contains(first, c) {
			rest = append(rest, c)
		}
	}
	// Deal order is end-first, so the stacked cards go last, reversed.
	cards := make([]Card, 0, 52)
	cards = append(cards, rest...)
	for i := len(first) - 1; i >= 0; i-- {
		cards = append(cards, first[i])
	}
	return &Deck{cards: cards, rng: rng}
}

// Shuffle randomizes the deck in place using Fisher-Yates.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Pop removes and returns the top card.
func (d *Deck) Pop() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Len returns the number of cards left in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Empty reports whether the deck has no cards left.
func (d *Deck) Empty() bool {
	return len(d.cards) == 0
}

// PeekTop returns up to n cards in the order they would be dealt,
// without removing them.
func (d *Deck) PeekTop(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.cards[len(d.cards)-1-i])
	}
	return out
}

// At returns the card at deal-order position i (0 = next to be dealt).
func (d *Deck) At(i int) Card {
	return d.cards[len(d.cards)-1-i]
}

// RemoveAt removes and returns the card at deal-order position i.
func (d *Deck) RemoveAt(i int) Card {
	idx := len(d.cards) - 1 - i
	c := d.cards[idx]
	d.cards = append(d.cards[:idx], d.cards[idx+1:]...)
	return c
}

// Remove deletes the first card equal to c by value. It returns false when
// the card is not present.
func (d *Deck) Remove(c Card) bool {
	for i, x := range d.cards {
		if x == c {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// InsertRandom puts c back at a uniformly random position in the deck.
func (d *Deck) InsertRandom(c Card) {
	pos := d.rng.IntN(len(d.cards) + 1)
	d.cards = append(d.cards, Card{})
	copy(d.cards[pos+1:], d.cards[pos:])
	d.cards[pos] = c
}

// SwapDealOrder exchanges the cards at deal-order positions i and j.
func (d *Deck) SwapDealOrder(i, j int) {
	a := len(d.cards) - 1 - i
	b := len(d.cards) - 1 - j
	d.cards[a], d.cards[b] = d.cards[b], d.cards[a]
}

// Clone returns a copy of the deck sharing the RNG.
func (d *Deck) Clone() *Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return &Deck{cards: cards, rng: d.rng}
}
