package evaluator

import (
	"sort"

	"abilityholdem/internal/deck"
)

// Strength01 maps a score plus the cards it was built from to a rough
// equity-like scalar in [0,1]. It blends the hand category with the top
// kicker's proximity to an ace, adds a little for live flush and straight
// draws, and gives high-card hands a small overcard bonus. It is a
// heuristic for the bot policy, not a true equity calculation.
func Strength01(s Score, board, hand []deck.Card) float64 {
	if len(s) == 0 {
		return 0
	}
	v := float64(s[0]) / float64(StraightFlush) * 0.72
	if len(s) > 1 {
		v += float64(s[1]) / float64(deck.Ace) * 0.12
	}

	all := make([]deck.Card, 0, len(board)+len(hand))
	all = append(all, hand...)
	all = append(all, board...)

	if s.Category() < Flush && hasFlushDraw(all) {
		v += 0.08
	}
	if s.Category() < Straight && hasStraightDraw(all) {
		v += 0.05
	}
	if s.Category() == HighCard && hasOvercard(hand, board) {
		v += 0.03
	}

	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// hasFlushDraw reports four or more cards of one suit among the cards.
func hasFlushDraw(cards []deck.Card) bool {
	var counts [4]int
	for _, c := range cards {
		counts[c.Suit]++
		if counts[c.Suit] >= 4 {
			return true
		}
	}
	return false
}

// hasStraightDraw reports three consecutive distinct ranks, one short of an
// open-ended run.
func hasStraightDraw(cards []deck.Card) bool {
	seen := map[int]bool{}
	ranks := make([]int, 0, len(cards))
	for _, c := range cards {
		r := int(c.Rank)
		if !seen[r] {
			seen[r] = true
			ranks = append(ranks, r)
		}
	}
	sort.Ints(ranks)
	for i := 0; i+2 < len(ranks); i++ {
		if ranks[i+1] == ranks[i]+1 && ranks[i+2] == ranks[i]+2 {
			return true
		}
	}
	return false
}

// hasOvercard reports whether any hole card outranks the whole board.
func hasOvercard(hand, board []deck.Card) bool {
	if len(board) == 0 {
		return false
	}
	boardMax := deck.Rank(0)
	for _, c := range board {
		if c.Rank > boardMax {
			boardMax = c.Rank
		}
	}
	for _, c := range hand {
		if c.Rank > boardMax {
			return true
		}
	}
	return false
}
