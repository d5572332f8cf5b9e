// Package player defines the participant entity of the Games.
// This package is PURE and must NOT import any infrastructure packages
// (network, storage, platform).
package player

// State identifies the physical condition of a player.
type State string

const (
	StateNormal  State = "normal"
	StateWounded State = "wounded"
	StateZombie  State = "zombie" // revived after dying
	StateDead    State = "dead"
)

// Player represents one participant in a game instance.
// Players are never deleted, only marked dead; the final ranking needs
// every participant that ever entered the arena.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Living   bool  `json:"living"`
	Bleeding bool  `json:"bleeding"`
	State    State `json:"state"`

	// Rank is 1 for every living player and is fixed at the moment of
	// death to the number of survivors just before the death.
	Rank  int `json:"rank"`
	Kills int `json:"kills"`
}

// NewPlayer creates a fresh living participant.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Living: true,
		State:  StateNormal,
		Rank:   1,
	}
}

// Kill marks the player dead with the given final rank.
func (p *Player) Kill(rank int) {
	p.Living = false
	p.Bleeding = false
	p.State = StateDead
	p.Rank = rank
}

// Wound applies a wound. A player wounded while already wounded starts
// bleeding instead of being wounded twice. Returns true if the player is
// now bleeding.
func (p *Player) Wound() bool {
	if p.State == StateWounded {
		p.Bleeding = true
	} else {
		p.State = StateWounded
	}
	return p.Bleeding
}

// Thrive clears any wound or bleed the player is carrying.
func (p *Player) Thrive() {
	p.Bleeding = false
	p.State = StateNormal
}

// Revive brings a dead player back as a zombie with the best rank.
func (p *Player) Revive() {
	p.Living = true
	p.Bleeding = false
	p.State = StateZombie
	p.Rank = 1
}
