// Package bot implements the computer players' decision policy.
package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/evaluator"
	"abilityholdem/internal/game"
)

// Ability trigger chances, rolled once per turn.
const (
	foresightChance    = 0.25
	clairvoyanceChance = 0.28
	teleportChance     = 0.22
	blessingChance     = 0.25
)

// Engine decides actions for bot seats. It is stateless between turns;
// all memory lives on the table.
type Engine struct {
	rng    *rand.Rand
	logger *log.Logger
}

// New creates a bot engine sharing the game RNG so runs are reproducible
// under a fixed seed.
func New(rng *rand.Rand, logger *log.Logger) *Engine {
	return &Engine{rng: rng, logger: logger.WithPrefix("bot")}
}

// Act takes the seat's turn: maybe fire its ability, then pick and apply
// a betting action.
func (e *Engine) Act(t *game.Table, seat int) error {
	p := t.Players[seat]
	e.maybeUseAbility(t, p)

	need := t.CurrentBet - p.Bet
	rnd := e.rng.Float64()
	threat := e.threatFromReveals(t, p)
	aggr := e.aggressionFromForesight(t, p)
	if p.JustTeleported {
		aggr += 0.25
		p.JustTeleported = false
	}
	if t.BlessingResidualFor() == seat {
		aggr += 0.25
	}
	if p.AggrPulse > 0 {
		aggr += 0.25
	}

	var action game.Action
	if t.Street == game.Preflop {
		action = e.preflopAction(t, p, need, rnd, aggr, threat)
	} else {
		action = e.postflopAction(t, p, need, rnd, aggr, threat)
	}
	e.logger.Debug("acting", "seat", seat, "street", t.Street, "action", action.Kind, "need", need)
	return t.ApplyAction(seat, action)
}

func (e *Engine) preflopAction(t *game.Table, p *game.Player, need int, rnd, aggr, threat float64) game.Action {
	a, b := int(p.Hand[0].Rank), int(p.Hand[1].Rank)
	if b > a {
		a, b = b, a
	}
	pair := a == b
	suited := p.Hand[0].Suit == p.Hand[1].Suit
	score := a + b
	preStrength := min(1, float64(a+b-4)/24)
	if pair {
		score += 20
		preStrength += 0.4
	}
	if suited {
		score += 3
		preStrength += 0.1
	}

	if need == 0 {
		base := 0.12
		if score >= 26 {
			base = 0.4
		}
		raiseProb := clamp(base+preStrength*0.2+aggr*0.4-threat*0.2, 0, 0.9)
		if rnd < raiseProb {
			return game.Action{Kind: game.Raise, Amount: t.CurrentBet + t.MinRaise}
		}
		return checkOrCall(t, p)
	}
	base := 0.28
	if score >= 25 {
		base = 0.72
	}
	callProb := clamp(base+preStrength*0.2+aggr*0.3-threat*0.25, 0, 0.97)
	if rnd < callProb {
		return checkOrCall(t, p)
	}
	return game.Action{Kind: game.Fold}
}

func (e *Engine) postflopAction(t *game.Table, p *game.Player, need int, rnd, aggr, threat float64) game.Action {
	made := evaluator.Best(append(append([]deck.Card(nil), p.Hand...), t.Board...))
	cat := made.Category()
	strength := evaluator.Strength01(made, t.Board, p.Hand)

	if need == 0 {
		var base float64
		switch {
		case cat >= evaluator.Straight:
			base = 0.72
		case cat >= evaluator.ThreeOfAKind:
			base = 0.58
		case cat >= evaluator.TwoPair:
			base = 0.42
		case cat >= evaluator.Pair:
			base = 0.18
		default:
			base = 0.06
		}
		raiseProb := clamp(base+strength*0.3+aggr*0.4-threat*0.22, 0, 0.92)
		if rnd < raiseProb {
			return game.Action{Kind: game.Raise, Amount: t.CurrentBet + t.MinRaise}
		}
		if cat >= evaluator.Pair || rnd < 0.22+strength*0.3+aggr*0.25-threat*0.18 {
			return checkOrCall(t, p)
		}
		return game.Action{Kind: game.Check}
	}

	potOdds := float64(need) / float64(max(1, t.Pot+need))
	callBoost := max(0.0, strength-potOdds)
	var base float64
	switch {
	case cat >= evaluator.ThreeOfAKind:
		base = 0.8
	case cat >= evaluator.TwoPair:
		base = 0.66
	case cat >= evaluator.Pair:
		base = 0.44
	default:
		base = 0.2
	}
	callProb := clamp(base+callBoost+aggr*0.3-threat*0.25, 0, 0.97)
	if rnd < callProb {
		return checkOrCall(t, p)
	}
	return game.Action{Kind: game.Fold}
}

func checkOrCall(t *game.Table, p *game.Player) game.Action {
	if p.Bet == t.CurrentBet {
		return game.Action{Kind: game.Check}
	}
	return game.Action{Kind: game.Call}
}

// maybeUseAbility rolls once and fires the seat's ability if the roll
// clears its threshold. The engine-side preconditions make failed
// attempts free.
func (e *Engine) maybeUseAbility(t *game.Table, p *game.Player) {
	if p.Ability == nil || p.Ability.Uses <= 0 {
		return
	}
	r := e.rng.Float64()
	switch p.Ability.Key {
	case game.AbilityForesight:
		if len(t.Board) < 5 && r < foresightChance {
			t.UseForesight(p.Seat)
		}
	case game.AbilityClairvoyance:
		if r < clairvoyanceChance {
			// Peek at most two opponents not yet seen.
			t.UseClairvoyance(p.Seat, e.freshTargets(t, p.Seat, 2)...)
		}
	case game.AbilityTeleport:
		if r < teleportChance {
			t.UseTeleport(p.Seat, -1)
		}
	case game.AbilityBlessing:
		if len(t.Board) < 5 && r < blessingChance {
			t.UseBlessing(p.Seat)
		}
	}
}

// freshTargets returns up to limit live opponents whose cards the viewer
// has not seen.
func (e *Engine) freshTargets(t *game.Table, viewer, limit int) []int {
	seen := map[int]bool{}
	for _, r := range t.RevealedTo(viewer) {
		seen[r.Seat] = true
	}
	var out []int
	for _, o := range t.Players {
		if o.Seat == viewer || !o.Live() || len(o.Hand) != 2 || seen[o.Seat] {
			continue
		}
		out = append(out, o.Seat)
		if len(out) == limit {
			break
		}
	}
	return out
}

// threatFromReveals scores how scary the opponents' revealed cards look
// against the board, capped at 2.
func (e *Engine) threatFromReveals(t *game.Table, p *game.Player) float64 {
	reveals := t.RevealedTo(p.Seat)
	if len(reveals) == 0 {
		return 0
	}
	boardRanks := map[deck.Rank]bool{}
	suitCounts := map[deck.Suit]int{}
	for _, c := range t.Board {
		boardRanks[c.Rank] = true
		suitCounts[c.Suit]++
	}
	var flushSuit deck.Suit
	maxSuit := 0
	for s, n := range suitCounts {
		if n > maxSuit {
			maxSuit, flushSuit = n, s
		}
	}

	threat := 0.0
	for _, r := range reveals {
		if boardRanks[r.Card.Rank] {
			threat += 0.7
		}
		if maxSuit >= 3 && r.Card.Suit == flushSuit {
			threat += 0.4
		}
		if r.Card.Rank >= deck.King {
			threat += 0.2
		}
	}
	return min(threat, 2.0)
}

// aggressionFromForesight rewards a foreseen card that improves the hand.
func (e *Engine) aggressionFromForesight(t *game.Table, p *game.Player) float64 {
	seq := t.Foresight(p.Seat)
	if len(seq) == 0 {
		return 0
	}
	cur := evaluator.Best(append(append([]deck.Card(nil), p.Hand...), t.Board...))
	next := evaluator.Best(append(append(append([]deck.Card(nil), p.Hand...), t.Board...), seq[0]))
	if evaluator.Compare(next, cur) > 0 {
		return 0.6
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
