// Package tui renders the game in the terminal.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"abilityholdem/internal/deck"
	"abilityholdem/internal/game"
	"abilityholdem/internal/session"
)

// RefreshMsg asks the model to re-read session state. The session's
// notify hook sends it through the program.
type RefreshMsg struct{}

type equityMsg struct {
	pct float64
	err error
}

// Model is the Bubble Tea model for a running game.
type Model struct {
	ctrl   *session.Controller
	logger *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	width  int
	height int

	equityPct float64
	equityOK  bool
	lastError string
	quitting  bool
	handnum   int
}

// New creates the model around a session controller.
func New(ctrl *session.Controller, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "new | fold | check | call | raise 400 | allin | ability | equity | quit"
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		ctrl:        ctrl,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case RefreshMsg:
		m.syncLog()

	case equityMsg:
		if msg.err == nil {
			m.equityPct = msg.pct
			m.equityOK = true
		} else {
			m.equityOK = false
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		h := msg.Height - 22
		if h < 4 {
			h = 4
		}
		m.logViewport.Height = h

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.ctrl.Stop()
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			cmd := m.processCommand(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) processCommand(raw string) tea.Cmd {
	m.lastError = ""
	if raw == "" {
		return nil
	}
	fields := strings.Fields(strings.ToLower(raw))
	var err error
	switch fields[0] {
	case "quit", "exit":
		m.quitting = true
		m.ctrl.Stop()
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case "new", "deal":
		if err = m.ctrl.StartHand(); err == nil {
			m.handnum++
			m.equityOK = false
		}
	case "fold":
		err = m.ctrl.HumanAction(game.Fold, 0)
	case "check":
		err = m.ctrl.HumanAction(game.Check, 0)
	case "call":
		err = m.ctrl.HumanAction(game.Call, 0)
	case "allin":
		err = m.ctrl.HumanAction(game.AllIn, 0)
	case "raise":
		if len(fields) < 2 {
			m.lastError = "usage: raise <amount>"
			return nil
		}
		var amt int
		if amt, err = strconv.Atoi(fields[1]); err != nil {
			m.lastError = "raise amount must be a number"
			return nil
		}
		err = m.ctrl.HumanAction(game.Raise, amt)
	case "ability":
		args := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			n, convErr := strconv.Atoi(f)
			if convErr != nil {
				m.lastError = "ability arguments must be numbers"
				return nil
			}
			args = append(args, n)
		}
		if !m.ctrl.UseAbility(args...) {
			m.lastError = "ability unavailable right now"
		}
	case "equity":
		return m.estimateEquity()
	default:
		m.lastError = "unknown command: " + fields[0]
	}
	if err != nil {
		m.lastError = err.Error()
	}
	m.syncLog()
	return nil
}

func (m *Model) estimateEquity() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := m.ctrl.EstimateEquity(ctx)
		return equityMsg{pct: res.WinProbability, err: err}
	}
}

func (m *Model) syncLog() {
	lines := m.ctrl.LogLines()
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	m.logViewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Ability Hold'em"))
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(paneStyle.Width(m.width - 2).Render(m.logViewport.View()))
	b.WriteString("\n")
	if m.lastError != "" {
		b.WriteString(errorStyle.Render(m.lastError))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m *Model) renderTable() string {
	// View holds the controller lock, so everything else the frame needs
	// is read first.
	next, nextOK := m.ctrl.TimeToNextLevel()
	speech := m.ctrl.Speeches()

	var out string
	m.ctrl.View(func(t *game.Table) {
		var b strings.Builder

		header := fmt.Sprintf("hand %d   street: %s   blinds: %d/%d", m.handnum, t.Street, t.SmallBlind, t.BigBlind)
		if nextOK {
			header += fmt.Sprintf("   blinds up in %ds", int(next.Seconds()))
		}
		b.WriteString(header)
		b.WriteString("\n")

		b.WriteString("board: ")
		if len(t.Board) == 0 {
			b.WriteString(hiddenCardStyle.Render("(none)"))
		} else {
			b.WriteString(renderCards(t.Board))
		}
		if fs := t.Foresight(0); len(fs) > 0 {
			b.WriteString("   " + abilityStyle.Render("foreseen: "+plainCards(fs)))
		}
		b.WriteString("   " + potStyle.Render(fmt.Sprintf("pot: %d", t.Pot)))
		if m.equityOK {
			b.WriteString(fmt.Sprintf("   win: %.1f%%", m.equityPct*100))
		}
		b.WriteString("\n\n")

		revealed := map[int]deck.Card{}
		for _, r := range t.RevealedTo(0) {
			revealed[r.Seat] = r.Card
		}
		info := t.ShowdownInfo()

		for _, p := range t.Players {
			b.WriteString(m.renderSeat(t, p, revealed))
			if res, ok := info[p.Seat]; ok {
				b.WriteString("  " + hiddenCardStyle.Render(res.Score.Name()))
			}
			if line, ok := speech[p.Seat]; ok {
				b.WriteString("  " + speechStyle.Render("“"+line+"”"))
			}
			b.WriteString("\n")
		}
		out = b.String()
	})
	return paneStyle.Width(m.width - 2).Render(out)
}

func (m *Model) renderSeat(t *game.Table, p *game.Player, revealed map[int]deck.Card) string {
	var b strings.Builder

	name := p.Name
	if p.Seat == t.Dealer {
		name = dealerBadgeStyle.Render("D") + " " + name
	}
	switch {
	case p.Out:
		name = foldedSeatStyle.Render(name + " (out)")
	case p.Folded:
		name = foldedSeatStyle.Render(name + " (folded)")
	case t.Street.Betting() && t.ToAct == p.Seat:
		name = activeSeatStyle.Render(name + " ←")
	}
	b.WriteString(fmt.Sprintf("%-28s", name))
	b.WriteString(fmt.Sprintf(" %5d chips", p.Chips))
	if p.Bet > 0 {
		b.WriteString(fmt.Sprintf("  bet %d", p.Bet))
	}

	b.WriteString("  ")
	b.WriteString(m.renderHand(p, revealed))

	if p.Ability != nil {
		b.WriteString("  " + abilityStyle.Render(fmt.Sprintf("%s ×%d", p.Ability.Name, p.Ability.Uses)))
	}
	if p.LastAction != nil {
		b.WriteString("  [" + p.LastAction.Label + "]")
	}
	return b.String()
}

func (m *Model) renderHand(p *game.Player, revealed map[int]deck.Card) string {
	if len(p.Hand) != 2 {
		return hiddenCardStyle.Render("-- --")
	}
	if p.Human || p.RevealMask == 0b11 {
		return renderCards(p.Hand)
	}
	parts := make([]string, 2)
	for i, c := range p.Hand {
		shown := p.RevealMask&(1<<i) != 0
		if !shown {
			if rc, ok := revealed[p.Seat]; ok && rc == c {
				shown = true
			}
		}
		if shown {
			parts[i] = renderCard(c)
		} else {
			parts[i] = hiddenCardStyle.Render("??")
		}
	}
	return strings.Join(parts, " ")
}

func renderCard(c deck.Card) string {
	if c.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return blackCardStyle.Render(c.String())
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}

func plainCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
