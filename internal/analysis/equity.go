// Package analysis estimates hand equity by Monte-Carlo simulation.
package analysis

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/evaluator"
	"abilityholdem/internal/randutil"
)

// Contender is an opponent in an equity estimate. Known holds any hole
// cards fixed by revelation; missing cards are drawn randomly each trial.
type Contender struct {
	Known []deck.Card
}

// Request describes one equity estimate.
type Request struct {
	Hero      []deck.Card
	Board     []deck.Card
	Opponents []Contender
	Trials    int
	Seed      int64
	// Workers caps the number of goroutines; 0 means GOMAXPROCS.
	Workers int
}

// Result is the outcome of an estimate.
type Result struct {
	Trials int
	// WinProbability credits each trial 1/n for an n-way chop, so a
	// guaranteed win reports exactly 1.
	WinProbability float64
}

var errNoHero = errors.New("hero hole cards required")

// Estimate runs the simulation. Each trial completes the board to five
// cards and deals the opponents' unknown cards from the remaining deck,
// then compares best hands. Trials are split across workers with
// independently seeded generators so results are reproducible for a given
// seed and worker count.
func Estimate(ctx context.Context, req Request) (Result, error) {
	if len(req.Hero) == 0 {
		return Result{}, errNoHero
	}
	trials := req.Trials
	if trials <= 0 {
		trials = 2000
	}
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > trials {
		workers = trials
	}

	pool := buildPool(req)
	credits := make([]float64, workers)

	g, ctx := errgroup.WithContext(ctx)
	per := trials / workers
	extra := trials % workers
	for w := 0; w < workers; w++ {
		w := w
		n := per
		if w < extra {
			n++
		}
		g.Go(func() error {
			rng := randutil.New(req.Seed + int64(w))
			local := make([]deck.Card, len(pool))
			for i := 0; i < n; i++ {
				if i%256 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				copy(local, pool)
				credits[w] += runTrial(rng, req, local)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	total := 0.0
	for _, c := range credits {
		total += c
	}
	return Result{Trials: trials, WinProbability: total / float64(trials)}, nil
}

// buildPool returns the unseen cards: the full deck minus the hero's
// hand, the board, and every revealed opponent card.
func buildPool(req Request) []deck.Card {
	known := make([]deck.Card, 0, len(req.Hero)+len(req.Board)+len(req.Opponents)*2)
	known = append(known, req.Hero...)
	known = append(known, req.Board...)
	for _, opp := range req.Opponents {
		known = append(known, opp.Known...)
	}
	pool := make([]deck.Card, 0, 52)
	for _, c := range deck.All() {
		if !deck.Contains(known, c) {
			pool = append(pool, c)
		}
	}
	return pool
}

// runTrial plays out one random completion and returns the hero's credit:
// 1 for an outright win, 1/n for an n-way tie, 0 otherwise. local is a
// scratch copy of the pool and is consumed by partial shuffling.
func runTrial(rng *rand.Rand, req Request, local []deck.Card) float64 {
	draw := func() deck.Card {
		i := rng.IntN(len(local))
		c := local[i]
		local[i] = local[len(local)-1]
		local = local[:len(local)-1]
		return c
	}

	board := make([]deck.Card, len(req.Board), 5)
	copy(board, req.Board)
	for len(board) < 5 {
		board = append(board, draw())
	}

	hero := evaluator.Best(append(append([]deck.Card(nil), req.Hero...), board...))

	winners := 1
	for _, opp := range req.Opponents {
		hand := make([]deck.Card, 0, 2)
		hand = append(hand, opp.Known...)
		for len(hand) < 2 {
			hand = append(hand, draw())
		}
		s := evaluator.Best(append(hand, board...))
		switch evaluator.Compare(s, hero) {
		case 1:
			return 0
		case 0:
			winners++
		}
	}
	return 1 / float64(winners)
}
