package game

import "fmt"

// Options are the per-instance policy knobs of the simulation.
type Options struct {
	// TeammatesCollaborate makes events split participants as "one team
	// versus the rest" instead of uniform selection.
	TeammatesCollaborate bool `json:"teammates_collaborate"`

	// AllowNoVictors permits a day to kill the last survivors.
	AllowNoVictors bool `json:"allow_no_victors"`

	// TeamSize is the member count used by FormTeams. 0 disables teams.
	TeamSize int `json:"team_size"`

	// ResurrectionChance is the per-day probability that one random dead
	// player is revived before the event loop. 0 disables resurrection.
	ResurrectionChance float64 `json:"resurrection_chance"`

	// BleedDeathChance is the probability that a bleeding player dies in
	// the end-of-day bleed resolution pass.
	BleedDeathChance float64 `json:"bleed_death_chance"`

	// ArenaChance is the per-day probability of an arena event replacing
	// the day's template pool. Never rolled on the bloodbath day.
	ArenaChance float64 `json:"arena_chance"`
}

// DefaultOptions returns the stock configuration of a new game.
func DefaultOptions() Options {
	return Options{
		TeammatesCollaborate: true,
		AllowNoVictors:       false,
		TeamSize:             0,
		ResurrectionChance:   0,
		BleedDeathChance:     0.5,
		ArenaChance:          0.25,
	}
}

// Set updates one option by name. Numeric values accept both int and
// float64 so JSON-decoded payloads work unmodified. Unknown names and
// wrong value types return ErrInvalidOption and leave the options
// unchanged.
func (o *Options) Set(name string, value any) error {
	switch name {
	case "teammatesCollaborate":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q wants a bool, got %T", ErrInvalidOption, name, value)
		}
		o.TeammatesCollaborate = b

	case "allowNoVictors":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q wants a bool, got %T", ErrInvalidOption, name, value)
		}
		o.AllowNoVictors = b

	case "teamSize":
		n, ok := toInt(value)
		if !ok || n < 0 {
			return fmt.Errorf("%w: %q wants a non-negative int, got %v", ErrInvalidOption, name, value)
		}
		o.TeamSize = n

	case "resurrectionChance":
		f, ok := toFloat(value)
		if !ok || f < 0 || f > 1 {
			return fmt.Errorf("%w: %q wants a probability in [0,1], got %v", ErrInvalidOption, name, value)
		}
		o.ResurrectionChance = f

	case "bleedDeathChance":
		f, ok := toFloat(value)
		if !ok || f < 0 || f > 1 {
			return fmt.Errorf("%w: %q wants a probability in [0,1], got %v", ErrInvalidOption, name, value)
		}
		o.BleedDeathChance = f

	case "arenaChance":
		f, ok := toFloat(value)
		if !ok || f < 0 || f > 1 {
			return fmt.Errorf("%w: %q wants a probability in [0,1], got %v", ErrInvalidOption, name, value)
		}
		o.ArenaChance = f

	default:
		return fmt.Errorf("%w: unknown option %q", ErrInvalidOption, name)
	}

	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
