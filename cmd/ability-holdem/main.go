package main

import (
	"fmt"
	rand "math/rand/v2"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"abilityholdem/internal/bot"
	"abilityholdem/internal/character"
	"abilityholdem/internal/game"
	"abilityholdem/internal/randutil"
	"abilityholdem/internal/session"
	"abilityholdem/internal/tui"
)

var bannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type CLI struct {
	Config     string `short:"c" help:"Path to HCL config file" type:"path"`
	Characters string `help:"Path to HCL character roster" type:"path"`
	Character  string `help:"Character to play" default:"souma"`
	Seed       int64  `help:"RNG seed, 0 derives one from the clock" default:"0"`
	Simulate   int    `short:"n" help:"Run N bot-only hands without the UI and exit" default:"0"`
	LogFile    string `help:"Override log file path"`
	LogLevel   string `help:"Override log level (debug, info, warn, error)"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("ability-holdem"),
		kong.Description("Four-player Texas Hold'em with character abilities."))

	cfg, err := session.LoadConfig(cli.Config)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cli.LogFile != "" {
		cfg.Game.LogFile = cli.LogFile
	}
	if cli.LogLevel != "" {
		cfg.Game.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err)
	}

	charsFile := cli.Characters
	if charsFile == "" {
		charsFile = cfg.Game.CharactersFile
	}
	roster, err := character.Load(charsFile)
	if err != nil {
		log.Fatal("Failed to load characters", "error", err)
	}

	logFile, err := os.OpenFile(cfg.Game.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatal("Failed to open log file", "error", err)
	}
	defer logFile.Close()

	level, err := log.ParseLevel(cfg.Game.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	seed := cli.Seed
	var rng = randutil.New(seed)
	if seed == 0 {
		rng = randutil.NewFromClock()
	}

	if cli.Simulate > 0 {
		if err := simulate(cfg, roster, rng, logger, cli.Simulate); err != nil {
			log.Fatal("Simulation failed", "error", err)
		}
		kctx.Exit(0)
	}

	if termenv.ColorProfile() != termenv.Ascii {
		fmt.Println(bannerStyle.Render(" ♠ ♥ Ability Hold'em ♦ ♣ "))
	} else {
		fmt.Println("Ability Hold'em")
	}

	var program *tea.Program
	ctrl, err := session.New(cfg, roster, cli.Character, rng, quartz.NewReal(), logger, func() {
		if program != nil {
			program.Send(tui.RefreshMsg{})
		}
	})
	if err != nil {
		log.Fatal("Failed to create session", "error", err)
	}

	model := tui.New(ctrl, logger)
	program = tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatal("TUI error", "error", err)
	}
	ctrl.Stop()
	kctx.Exit(0)
}

// simulate plays hands with bots in every seat and prints a short
// summary. Useful for smoke-testing the engine and bot policy.
func simulate(cfg *session.Config, roster []character.Character, rng *rand.Rand, logger *log.Logger, hands int) error {
	if err := character.Validate(roster); err != nil {
		return err
	}
	players := make([]*game.Player, 0, 4)
	for i := 0; i < 4; i++ {
		ch := roster[i%len(roster)]
		players = append(players, game.NewPlayer(i, fmt.Sprintf("%s-%d", ch.Name, i), cfg.Game.StartingChips, false, ch.NewAbility()))
	}

	lvl := cfg.Blinds[0]
	table := game.NewTable(rng, players, lvl.SmallBlind, lvl.BigBlind, game.WithLogger(logger))
	engine := bot.New(rng, logger)

	played := 0
	for i := 0; i < hands; i++ {
		if err := table.StartHand(); err != nil {
			break
		}
		for table.Street.Betting() {
			cur := table.CurrentPlayer()
			if cur == nil {
				break
			}
			if err := engine.Act(table, cur.Seat); err != nil {
				return fmt.Errorf("bot action: %w", err)
			}
		}
		played++
		if table.GameEnded {
			break
		}
	}

	fmt.Printf("Played %d hands.\n", played)
	for _, p := range players {
		status := ""
		if p.Out {
			status = " (eliminated)"
		}
		fmt.Printf("  %-16s %6d chips%s\n", p.Name, p.Chips, status)
	}
	return nil
}
