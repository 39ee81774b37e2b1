package game

// Street represents the phase of a hand.
type Street int

const (
	Idle Street = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"idle", "preflop", "flop", "turn", "river", "showdown"}[s]
}

// Betting reports whether the street accepts player actions.
func (s Street) Betting() bool {
	return s == Preflop || s == Flop || s == Turn || s == River
}

// ActionKind represents a player action.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
	AllIn
)

func (a ActionKind) String() string {
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// LastAction records the most recent thing a player did this street,
// for display purposes only.
type LastAction struct {
	Kind   string
	Amount int
	Label  string
}

// AbilityKey identifies one of the four character abilities.
type AbilityKey string

const (
	AbilityForesight    AbilityKey = "foresight"
	AbilityClairvoyance AbilityKey = "clairvoyance"
	AbilityTeleport     AbilityKey = "teleport"
	AbilityBlessing     AbilityKey = "blessing"
)

// Ability is a player's one-shot special ability and its remaining uses.
type Ability struct {
	Key  AbilityKey
	Name string
	Uses int
}

// Callbacks are the table's boundary collaborators. Every field is
// optional; the table tolerates nil and calls them redundantly. They read
// state, never mutate it, and return nothing.
type Callbacks struct {
	// Render is invoked after every state-affecting operation.
	Render func()
	// Log receives one human-readable line per call.
	Log func(line string)
	// Speak fires cosmetic hooks keyed by (seat, eventKey). Missing lines
	// are a silent no-op on the receiving side.
	Speak func(seat int, eventKey string)
	// GameOver fires when the human player is eliminated or a single
	// player remains.
	GameOver func()
}
