// Package character loads the playable characters and their abilities.
package character

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"abilityholdem/internal/game"
)

// Character is one selectable persona. Lines map speech event keys
// (fold, call, raise, win, ability_foresight, ...) to candidate phrases;
// missing keys simply stay silent.
type Character struct {
	Key     string              `hcl:"key,label"`
	Name    string              `hcl:"name"`
	Gender  string              `hcl:"gender,optional"`
	Story   string              `hcl:"story,optional"`
	Ability AbilityConfig       `hcl:"ability,block"`
	Lines   []LineConfig        `hcl:"lines,block"`
	lineMap map[string][]string // built on load
}

// AbilityConfig describes a character's special ability.
type AbilityConfig struct {
	Key     string `hcl:"key"`
	Name    string `hcl:"name"`
	Desc    string `hcl:"desc,optional"`
	MaxUses int    `hcl:"max_uses,optional"`
}

// LineConfig is one speech event and its candidate phrases.
type LineConfig struct {
	Event   string   `hcl:"event,label"`
	Phrases []string `hcl:"phrases"`
}

// File is the top-level config document.
type File struct {
	Characters []Character `hcl:"character,block"`
}

// Line returns the character's phrases for an event. Ability events fall
// back to the generic "ability" event.
func (c *Character) Line(event string) []string {
	if phrases, ok := c.lineMap[event]; ok {
		return phrases
	}
	if len(event) > 8 && event[:8] == "ability_" {
		return c.lineMap["ability"]
	}
	return nil
}

// NewAbility builds the runtime ability record for a fresh game.
func (c *Character) NewAbility() *game.Ability {
	uses := c.Ability.MaxUses
	if uses <= 0 {
		uses = 3
	}
	return &game.Ability{
		Key:  game.AbilityKey(c.Ability.Key),
		Name: c.Ability.Name,
		Uses: uses,
	}
}

// Load reads characters from an HCL file, falling back to the built-in
// roster when the file is absent.
func Load(filename string) ([]Character, error) {
	if filename == "" {
		return Defaults(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Defaults(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(cfg.Characters) == 0 {
		return Defaults(), nil
	}

	for i := range cfg.Characters {
		c := &cfg.Characters[i]
		if c.Ability.MaxUses == 0 {
			c.Ability.MaxUses = 3
		}
		c.lineMap = map[string][]string{}
		for _, l := range c.Lines {
			c.lineMap[l.Event] = l.Phrases
		}
	}
	if err := Validate(cfg.Characters); err != nil {
		return nil, err
	}
	return cfg.Characters, nil
}

// Validate checks that the roster can seat a full table: at least four
// characters with unique, known ability keys.
func Validate(chars []Character) error {
	if len(chars) < 4 {
		return fmt.Errorf("at least 4 characters required, got %d", len(chars))
	}
	known := map[string]bool{
		string(game.AbilityForesight):    true,
		string(game.AbilityClairvoyance): true,
		string(game.AbilityTeleport):     true,
		string(game.AbilityBlessing):     true,
	}
	seen := map[string]bool{}
	for _, c := range chars {
		if !known[c.Ability.Key] {
			return fmt.Errorf("character %s: unknown ability %q", c.Key, c.Ability.Key)
		}
		if seen[c.Key] {
			return fmt.Errorf("duplicate character key %q", c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

// Defaults returns the built-in four-character roster.
func Defaults() []Character {
	mk := func(key, name, gender, abilityKey, abilityName, desc string, lines map[string][]string) Character {
		return Character{
			Key:    key,
			Name:   name,
			Gender: gender,
			Ability: AbilityConfig{
				Key:     abilityKey,
				Name:    abilityName,
				Desc:    desc,
				MaxUses: 3,
			},
			lineMap: lines,
		}
	}
	return []Character{
		mk("souma", "Souma", "male",
			string(game.AbilityForesight), "Foresight",
			"Glimpse the community cards before they are dealt.",
			map[string][]string{
				"ability": {"I already know how this ends."},
				"raise":   {"Let's make it interesting."},
				"win":     {"Just as I foresaw."},
			}),
		mk("yuri", "Yuri", "female",
			string(game.AbilityClairvoyance), "Clairvoyance",
			"See one hidden card in each opponent's hand.",
			map[string][]string{
				"ability": {"Your cards are showing."},
				"fold":    {"Not this time."},
				"win":     {"I could see it all along."},
			}),
		mk("yusei", "Yusei", "male",
			string(game.AbilityTeleport), "Teleport",
			"Swap one of your hole cards for another from the deck.",
			map[string][]string{
				"ability": {"A little sleight of hand."},
				"allin":   {"Everything. Right now."},
				"win":     {"Magic, isn't it?"},
			}),
		mk("satsuki", "Satsuki", "female",
			string(game.AbilityBlessing), "Blessing",
			"Bend the next deal of the board in your favor.",
			map[string][]string{
				"ability": {"Fortune, smile on me."},
				"call":    {"I'll trust my luck."},
				"win":     {"Blessed, as always."},
			}),
	}
}
