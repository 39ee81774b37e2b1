// Package evaluator scores poker hands as comparable rank vectors.
//
// A Score is an ordered tuple [category, tiebreak...] compared
// lexicographically, higher wins. Categories run 0 (high card) through
// 8 (straight flush). The wheel (A-2-3-4-5) is ranked as a 5-high
// straight.
package evaluator

import (
	"sort"

	"abilityholdem/internal/deck"
)

// Category is the hand category component of a Score.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand description.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Score is a comparable hand strength vector. A nil Score is weaker than
// any non-nil Score.
type Score []int

// Category returns the hand category of the score.
func (s Score) Category() Category {
	if len(s) == 0 {
		return HighCard
	}
	return Category(s[0])
}

// Name returns the human-readable name of the scored hand.
func (s Score) Name() string {
	return s.Category().String()
}

// Compare compares two scores lexicographically, treating missing
// positions as 0. nil compares below any non-nil score, and two nils
// are equal.
func Compare(a, b Score) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// ScoreFive scores exactly five cards.
func ScoreFive(cards []deck.Card) Score {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	counts := map[int]int{}
	for _, r := range ranks {
		counts[r]++
	}
	// Rank groups ordered by count desc, then rank desc.
	type group struct{ rank, count int }
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{r, n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	isFlush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			isFlush = false
			break
		}
	}

	uniq := make([]int, 0, len(counts))
	for _, r := range ranks {
		if len(uniq) == 0 || uniq[len(uniq)-1] != r {
			uniq = append(uniq, r)
		}
	}
	isStraight, topStraight := straightHigh(uniq)

	switch {
	case isStraight && isFlush:
		return Score{int(StraightFlush), topStraight}
	case groups[0].count == 4:
		kicker := 0
		for _, g := range groups {
			if g.count == 1 {
				kicker = g.rank
				break
			}
		}
		return Score{int(FourOfAKind), groups[0].rank, kicker}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count == 2:
		return Score{int(FullHouse), groups[0].rank, groups[1].rank}
	case isFlush:
		return append(Score{int(Flush)}, ranks...)
	case isStraight:
		return Score{int(Straight), topStraight}
	case groups[0].count == 3:
		s := Score{int(ThreeOfAKind), groups[0].rank}
		for _, r := range ranks {
			if r != groups[0].rank {
				s = append(s, r)
			}
		}
		return s
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		high, low := groups[0].rank, groups[1].rank
		if low > high {
			high, low = low, high
		}
		kicker := 0
		for _, r := range ranks {
			if r != high && r != low {
				kicker = r
				break
			}
		}
		return Score{int(TwoPair), high, low, kicker}
	case groups[0].count == 2:
		s := Score{int(Pair), groups[0].rank}
		for _, r := range ranks {
			if r != groups[0].rank {
				s = append(s, r)
			}
		}
		return s
	default:
		return append(Score{int(HighCard)}, ranks...)
	}
}

// straightHigh reports whether uniq (distinct ranks, descending) holds five
// consecutive ranks, returning the top rank of the straight. The wheel
// counts as a 5-high straight.
func straightHigh(uniq []int) (bool, int) {
	for i := 0; i+4 < len(uniq); i++ {
		if uniq[i] == uniq[i+1]+1 && uniq[i+1] == uniq[i+2]+1 &&
			uniq[i+2] == uniq[i+3]+1 && uniq[i+3] == uniq[i+4]+1 {
			return true, uniq[i]
		}
	}
	has := func(r int) bool {
		for _, u := range uniq {
			if u == r {
				return true
			}
		}
		return false
	}
	if has(14) && has(5) && has(4) && has(3) && has(2) {
		return true, 5
	}
	return false, 0
}

// Best returns the best score among all 5-card subsets of cards. Inputs of
// five or fewer cards degrade gracefully: fewer than five cards score as a
// high-card vector over whatever is present, so callers holding partial
// hands still get a comparable (and minimal-category) result.
func Best(cards []deck.Card) Score {
	if len(cards) < 5 {
		ranks := make([]int, len(cards))
		for i, c := range cards {
			ranks[i] = int(c.Rank)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
		return append(Score{int(HighCard)}, ranks...)
	}
	if len(cards) == 5 {
		return ScoreFive(cards)
	}
	s, _ := BestDetailed(cards)
	return s
}

// BestDetailed returns the best score along with the five cards that
// produced it.
func BestDetailed(cards []deck.Card) (Score, []deck.Card) {
	if len(cards) <= 5 {
		return Best(cards), append([]deck.Card(nil), cards...)
	}
	var best Score
	var bestCards []deck.Card
	five := make([]deck.Card, 0, 5)
	forEachFive(cards, func(subset []deck.Card) {
		five = five[:0]
		five = append(five, subset...)
		s := ScoreFive(five)
		if best == nil || Compare(s, best) > 0 {
			best = s
			bestCards = append([]deck.Card(nil), five...)
		}
	})
	return best, bestCards
}

// forEachFive visits every 5-card subset of cards (6 or 7 cards in).
func forEachFive(cards []deck.Card, visit func([]deck.Card)) {
	n := len(cards)
	switch n {
	case 6:
		buf := make([]deck.Card, 0, 5)
		for skip := 0; skip < n; skip++ {
			buf = buf[:0]
			for i, c := range cards {
				if i != skip {
					buf = append(buf, c)
				}
			}
			visit(buf)
		}
	case 7:
		buf := make([]deck.Card, 0, 5)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				buf = buf[:0]
				for k, c := range cards {
					if k != i && k != j {
						buf = append(buf, c)
					}
				}
				visit(buf)
			}
		}
	default:
		if n >= 5 {
			visit(cards[:5])
		}
	}
}

// DecisiveCards returns only the cards of used that determine the named
// hand: the four of a four-of-a-kind without its kicker, the pair of a
// one-pair hand, both pairs of two pair, all five cards for straights,
// flushes and full houses, and just the single highest card for high card.
func DecisiveCards(used []deck.Card, s Score) []deck.Card {
	if len(used) == 0 || s == nil {
		return nil
	}
	counts := map[deck.Rank]int{}
	for _, c := range used {
		counts[c.Rank]++
	}
	rankWithCount := func(n int) (deck.Rank, bool) {
		var best deck.Rank
		found := false
		for r, cnt := range counts {
			if cnt == n && (!found || r > best) {
				best = r
				found = true
			}
		}
		return best, found
	}
	filterRank := func(keep func(deck.Card) bool) []deck.Card {
		out := make([]deck.Card, 0, len(used))
		for _, c := range used {
			if keep(c) {
				out = append(out, c)
			}
		}
		return out
	}

	switch s.Category() {
	case StraightFlush, Straight, FullHouse:
		return append([]deck.Card(nil), used...)
	case FourOfAKind:
		r, _ := rankWithCount(4)
		return filterRank(func(c deck.Card) bool { return c.Rank == r })
	case Flush:
		suit := used[0].Suit
		return filterRank(func(c deck.Card) bool { return c.Suit == suit })
	case ThreeOfAKind:
		r, _ := rankWithCount(3)
		return filterRank(func(c deck.Card) bool { return c.Rank == r })
	case TwoPair:
		return filterRank(func(c deck.Card) bool { return counts[c.Rank] == 2 })
	case Pair:
		r, _ := rankWithCount(2)
		return filterRank(func(c deck.Card) bool { return c.Rank == r })
	default:
		top := used[0]
		for _, c := range used[1:] {
			if c.Rank > top.Rank {
				top = c
			}
		}
		return []deck.Card{top}
	}
}
