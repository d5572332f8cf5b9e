// Package team defines the team entity of the Games.
// Like package player this is pure data; counters are maintained by the
// simulator, never by the team itself.
package team

// Team groups players for collaborative events. A player belongs to at
// most one team and membership is only edited while no game is running.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// Players holds member ids in join order, unique within the team.
	Players []string `json:"players"`

	NumAlive int `json:"num_alive"`

	// Rank is 0 while the team still has living members and is fixed at
	// the moment the last member dies.
	Rank int `json:"rank"`
}

// New creates an empty team.
func New(id int, name string) *Team {
	return &Team{ID: id, Name: name}
}

// HasPlayer reports whether the given player id is a member.
func (t *Team) HasPlayer(id string) bool {
	for _, pid := range t.Players {
		if pid == id {
			return true
		}
	}
	return false
}

// AddPlayer appends a member if not already present.
func (t *Team) AddPlayer(id string) {
	if t.HasPlayer(id) {
		return
	}
	t.Players = append(t.Players, id)
}

// RemovePlayer drops a member, preserving the order of the rest.
func (t *Team) RemovePlayer(id string) {
	for i, pid := range t.Players {
		if pid == id {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			return
		}
	}
}
