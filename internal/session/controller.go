// Package session coordinates a game: it owns the table, drives the bot
// seats on a clock, escalates blinds, and serves equity estimates to the
// UI.
package session

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"abilityholdem/internal/analysis"
	"abilityholdem/internal/bot"
	"abilityholdem/internal/character"
	"abilityholdem/internal/deck"
	"abilityholdem/internal/game"
)

const (
	maxLogLines     = 200
	equityThrottle  = 1200 * time.Millisecond
	botThinkExtraMs = 400
)

// ErrNotHumanTurn is returned when the human acts out of turn.
var ErrNotHumanTurn = errors.New("not your turn")

// Controller runs one game session. All public methods are safe for
// concurrent use.
type Controller struct {
	mu sync.Mutex

	cfg    *Config
	table  *game.Table
	bots   *bot.Engine
	clock  quartz.Clock
	logger *log.Logger
	rng    *rand.Rand

	chars     map[int]character.Character
	humanSeat int

	blindStart time.Time
	blindIdx   int

	logLines []string
	speech   map[int]string
	over     bool

	botTimer *quartz.Timer

	// notify signals the UI that state changed. It must not call back
	// into the controller synchronously.
	notify func()

	equity       analysis.Result
	equityAt     time.Time
	equityValid  bool
	equityBusy   bool
	equitySerial int64
}

// New builds a session. The human plays the character with humanKey; the
// remaining roster fills the bot seats in order.
func New(cfg *Config, roster []character.Character, humanKey string, rng *rand.Rand, clock quartz.Clock, logger *log.Logger, notify func()) (*Controller, error) {
	if err := character.Validate(roster); err != nil {
		return nil, err
	}
	var human *character.Character
	var rest []character.Character
	for i := range roster {
		if roster[i].Key == humanKey {
			human = &roster[i]
		} else {
			rest = append(rest, roster[i])
		}
	}
	if human == nil {
		return nil, errors.New("unknown character: " + humanKey)
	}
	if len(rest) < 3 {
		return nil, errors.New("not enough characters for bot seats")
	}

	c := &Controller{
		cfg:       cfg,
		bots:      bot.New(rng, logger),
		clock:     clock,
		logger:    logger.WithPrefix("session"),
		rng:       rng,
		chars:     map[int]character.Character{},
		humanSeat: 0,
		speech:    map[int]string{},
		notify:    notify,
	}

	players := make([]*game.Player, 0, 4)
	players = append(players, game.NewPlayer(0, "You", cfg.Game.StartingChips, true, human.NewAbility()))
	c.chars[0] = *human
	for i := 0; i < 3; i++ {
		ch := rest[i]
		players = append(players, game.NewPlayer(i+1, ch.Name, cfg.Game.StartingChips, false, ch.NewAbility()))
		c.chars[i+1] = ch
	}

	lvl := cfg.Blinds[0]
	c.table = game.NewTable(rng, players, lvl.SmallBlind, lvl.BigBlind,
		game.WithLogger(logger),
		game.WithCallbacks(game.Callbacks{
			Render:   c.onRender,
			Log:      c.onLog,
			Speak:    c.onSpeak,
			GameOver: c.onGameOver,
		}))
	return c, nil
}

func (c *Controller) onRender() {
	if c.notify != nil {
		c.notify()
	}
}

func (c *Controller) onLog(line string) {
	c.logLines = append(c.logLines, line)
	if len(c.logLines) > maxLogLines {
		c.logLines = c.logLines[len(c.logLines)-maxLogLines:]
	}
	c.logger.Info(line)
}

func (c *Controller) onSpeak(seat int, event string) {
	ch, ok := c.chars[seat]
	if !ok {
		return
	}
	phrases := ch.Line(event)
	if len(phrases) == 0 {
		return
	}
	c.speech[seat] = phrases[c.rng.IntN(len(phrases))]
}

func (c *Controller) onGameOver() {
	c.over = true
	c.logger.Info("game over")
}

// StartHand starts the next hand, first applying any due blind increase.
func (c *Controller) StartHand() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyBlindLevel()
	c.speech = map[int]string{}
	if err := c.table.StartHand(); err != nil {
		return err
	}
	c.scheduleBots()
	return nil
}

// applyBlindLevel walks the schedule by elapsed session time and bumps
// the table blinds when a new level is due. The clock starts at the first
// hand.
func (c *Controller) applyBlindLevel() {
	if c.blindStart.IsZero() {
		c.blindStart = c.clock.Now()
		return
	}
	elapsed := c.clock.Since(c.blindStart)
	idx := 0
	var acc time.Duration
	for i, lvl := range c.cfg.Blinds {
		acc += lvl.Duration()
		if elapsed >= acc {
			idx = i + 1
		} else {
			break
		}
	}
	if idx > len(c.cfg.Blinds)-1 {
		idx = len(c.cfg.Blinds) - 1
	}
	if idx != c.blindIdx {
		c.blindIdx = idx
		lvl := c.cfg.Blinds[idx]
		c.table.SmallBlind = lvl.SmallBlind
		c.table.BigBlind = lvl.BigBlind
		c.onLog("Blinds up: " + lvl.String())
	}
}

// TimeToNextLevel returns how long until the blinds rise, or false at the
// final level or before the first hand.
func (c *Controller) TimeToNextLevel() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blindStart.IsZero() || c.blindIdx >= len(c.cfg.Blinds)-1 {
		return 0, false
	}
	elapsed := c.clock.Since(c.blindStart)
	var acc time.Duration
	for i := 0; i <= c.blindIdx; i++ {
		acc += c.cfg.Blinds[i].Duration()
	}
	if acc <= elapsed {
		return 0, true
	}
	return acc - elapsed, true
}

// scheduleBots queues the next bot turn on the clock. Called with the
// lock held after every state change that may hand the turn to a bot.
func (c *Controller) scheduleBots() {
	if c.botTimer != nil {
		c.botTimer.Stop()
		c.botTimer = nil
	}
	p := c.table.CurrentPlayer()
	if p == nil || p.Human {
		return
	}
	delay := time.Duration(c.cfg.Game.ThinkDelayMs+c.rng.IntN(botThinkExtraMs)) * time.Millisecond
	seat := p.Seat
	c.botTimer = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		cur := c.table.CurrentPlayer()
		if cur == nil || cur.Seat != seat || cur.Human {
			return
		}
		if err := c.bots.Act(c.table, seat); err != nil {
			c.logger.Error("bot action failed", "seat", seat, "error", err)
		}
		c.scheduleBots()
	})
}

// HumanAction applies the human player's betting action.
func (c *Controller) HumanAction(kind game.ActionKind, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.table.CurrentPlayer()
	if cur == nil || !cur.Human {
		return ErrNotHumanTurn
	}
	if err := c.table.ApplyAction(c.humanSeat, game.Action{Kind: kind, Amount: amount}); err != nil {
		return err
	}
	c.equityValid = false
	c.scheduleBots()
	return nil
}

// UseAbility fires the human character's ability. target carries the
// optional parameter: opponent seats for clairvoyance, the hole index for
// teleport.
func (c *Controller) UseAbility(target ...int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.table.Players[c.humanSeat]
	if p.Ability == nil {
		return false
	}
	var ok bool
	switch p.Ability.Key {
	case game.AbilityForesight:
		ok = c.table.UseForesight(c.humanSeat)
	case game.AbilityClairvoyance:
		ok = c.table.UseClairvoyance(c.humanSeat, target...)
	case game.AbilityTeleport:
		idx := -1
		if len(target) > 0 {
			idx = target[0]
		}
		ok = c.table.UseTeleport(c.humanSeat, idx)
	case game.AbilityBlessing:
		ok = c.table.UseBlessing(c.humanSeat)
	}
	if ok {
		c.equityValid = false
	}
	return ok
}

// EstimateEquity returns the human's win probability for the current
// state. Results are cached briefly so a redrawing UI does not rerun the
// simulation every frame; a stale call recomputes outside the lock.
func (c *Controller) EstimateEquity(ctx context.Context) (analysis.Result, error) {
	c.mu.Lock()
	if c.equityValid && c.clock.Since(c.equityAt) < equityThrottle {
		res := c.equity
		c.mu.Unlock()
		return res, nil
	}
	if c.equityBusy {
		res := c.equity
		c.mu.Unlock()
		return res, nil
	}
	hero := c.table.Players[c.humanSeat]
	if len(hero.Hand) == 0 || !hero.Live() {
		c.mu.Unlock()
		return analysis.Result{}, errors.New("no live hand")
	}
	req := analysis.Request{
		Hero:   append([]deck.Card(nil), hero.Hand...),
		Board:  append([]deck.Card(nil), c.table.Board...),
		Trials: c.cfg.Game.EquityTrials,
		Seed:   c.rng.Int64(),
	}
	revealed := map[int]deck.Card{}
	for _, r := range c.table.RevealedTo(c.humanSeat) {
		revealed[r.Seat] = r.Card
	}
	for _, p := range c.table.Players {
		if p.Seat == c.humanSeat || !p.Live() {
			continue
		}
		opp := analysis.Contender{}
		if card, ok := revealed[p.Seat]; ok {
			opp.Known = []deck.Card{card}
		}
		req.Opponents = append(req.Opponents, opp)
	}
	c.equityBusy = true
	c.equitySerial++
	serial := c.equitySerial
	c.mu.Unlock()

	res, err := analysis.Estimate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.equityBusy = false
	if err != nil {
		return analysis.Result{}, err
	}
	if serial == c.equitySerial {
		c.equity = res
		c.equityAt = c.clock.Now()
		c.equityValid = true
	}
	return res, nil
}

// View runs fn with the lock held so the UI can read a consistent table
// state. fn must not call other controller methods.
func (c *Controller) View(fn func(t *game.Table)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.table)
}

// LogLines returns a copy of the recent event log.
func (c *Controller) LogLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.logLines...)
}

// Speeches returns a copy of the last phrase spoken by each seat.
func (c *Controller) Speeches() map[int]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]string, len(c.speech))
	for seat, line := range c.speech {
		out[seat] = line
	}
	return out
}

// Character returns the character seated at seat.
func (c *Controller) Character(seat int) (character.Character, bool) {
	ch, ok := c.chars[seat]
	return ch, ok
}

// Over reports whether the game has ended.
func (c *Controller) Over() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.over
}

// Stop cancels any pending bot turn.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.botTimer != nil {
		c.botTimer.Stop()
		c.botTimer = nil
	}
}
