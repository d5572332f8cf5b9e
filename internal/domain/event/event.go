// Package event defines the scripted event templates the selector draws
// from and the Final Event records the simulator produces for the
// presentation layer. Templates are immutable configuration: once loaded
// they are never mutated during a simulation.
package event

// Outcome is what happens to one side of an event.
type Outcome string

const (
	OutcomeDies    Outcome = "dies"
	OutcomeWounded Outcome = "wounded"
	OutcomeThrives Outcome = "thrives"
	OutcomeNone    Outcome = "none"
)

// Side describes one side (victims or attackers) of a template.
type Side struct {
	// Count is the number of participants on this side. A negative value
	// encodes "at least -Count", topped up by a weighted random extra at
	// selection time.
	Count int `yaml:"count" json:"count"`

	Outcome Outcome `yaml:"outcome" json:"outcome"`

	// Killer credits kills on this side's players for every death the
	// event causes on the other side.
	Killer bool `yaml:"killer" json:"killer"`
}

// Template is one scripted event. The message carries {victim} and
// {attacker} placeholders plus [V:singular|plural] / [A:singular|plural]
// markers resolved by the outcome recorder.
type Template struct {
	Message  string `yaml:"message" json:"message"`
	Victim   Side   `yaml:"victim" json:"victim"`
	Attacker Side   `yaml:"attacker" json:"attacker"`
}

// Min returns the side's minimum participant count: the encoded count
// itself, or the floor of an "at least" encoding.
func (s Side) Min() int {
	if s.Count < 0 {
		return -s.Count
	}
	return s.Count
}

// Participants returns the minimum participant count the template needs.
func (t Template) Participants() int {
	return t.Victim.Min() + t.Attacker.Min()
}

// Deadly reports whether either side's outcome kills.
func (t Template) Deadly() bool {
	return t.Victim.Outcome == OutcomeDies || t.Attacker.Outcome == OutcomeDies
}

// ArenaEvent is a day-level special event. When one triggers, its
// announcement message is logged and its outcome sub-templates become the
// player-event pool for the rest of that day.
type ArenaEvent struct {
	ID       string     `yaml:"id" json:"id"`
	Message  string     `yaml:"message" json:"message"`
	Outcomes []Template `yaml:"outcomes" json:"outcomes"`
}

// FinalEvent is a recorded, narrated outcome of applying one template to a
// concrete set of participants. The presentation layer resolves the ids
// into avatars or mentions; the engine only deals in identities.
type FinalEvent struct {
	Text      string   `json:"text"`
	Victims   []string `json:"victims,omitempty"`
	Attackers []string `json:"attackers,omitempty"`
}

// ParticipantIDs returns victims then attackers, in selection order.
func (f FinalEvent) ParticipantIDs() []string {
	ids := make([]string, 0, len(f.Victims)+len(f.Attackers))
	ids = append(ids, f.Victims...)
	ids = append(ids, f.Attackers...)
	return ids
}
