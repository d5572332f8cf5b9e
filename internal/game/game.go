// Package game holds the aggregate state of one contest instance: the
// included players, teams, current day and the policy options. One Game
// per independent contest; instances never share mutable data.
//
// The aggregate offers invariant-preserving mutators for roster and team
// management. Simulation-time mutation is the engine's job and happens
// under the per-instance lock owned by the manager.
package game

import (
	"fmt"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/domain/player"
	"github.com/panembot/games-server/internal/domain/team"
	"github.com/panembot/games-server/internal/random"
)

// Game is the full state of one contest instance.
type Game struct {
	ID string `json:"id"`

	// Players holds every participant ever admitted, in inclusion order.
	// The order is load-bearing: the engine iterates it with a seeded
	// random source, so reordering would change replay results.
	Players []*player.Player `json:"players"`

	Teams []*team.Team `json:"teams"`

	Day *Day `json:"day"`

	// History keeps completed days for replays and late-joining
	// spectators.
	History []*Day `json:"history"`

	// NumAlive must always equal the count of living players; the
	// engine asserts this in tests via CheckInvariants.
	NumAlive int `json:"num_alive"`

	InProgress bool `json:"in_progress"`
	Ended      bool `json:"ended"`

	// Winner is set once the win condition fires.
	Winner *Winner `json:"winner,omitempty"`

	Options Options `json:"options"`
}

// Winner records how a game ended: a single player, a whole team, or
// nobody at all when the no-victors policy allowed it.
type Winner struct {
	PlayerID string `json:"player_id,omitempty"`
	TeamID   int    `json:"team_id,omitempty"`
	NoVictor bool   `json:"no_victor,omitempty"`
}

// New creates an empty game instance with default options.
func New(id string) *Game {
	return &Game{
		ID:      id,
		Day:     NewDay(),
		Options: DefaultOptions(),
	}
}

// Player returns the participant with the given id, or nil.
func (g *Game) Player(id string) *player.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IncludePlayer admits a participant. Re-including an existing player only
// refreshes the display name. Roster edits are rejected mid-game.
func (g *Game) IncludePlayer(id, name string) error {
	if g.Ended {
		return ErrGameEnded
	}
	if g.InProgress {
		return ErrGameInProgress
	}

	if p := g.Player(id); p != nil {
		p.Name = name
		return nil
	}

	g.Players = append(g.Players, player.NewPlayer(id, name))
	g.NumAlive++
	return nil
}

// ExcludePlayer removes a participant from the pool and from any team.
func (g *Game) ExcludePlayer(id string) error {
	if g.Ended {
		return ErrGameEnded
	}
	if g.InProgress {
		return ErrGameInProgress
	}

	for i, p := range g.Players {
		if p.ID != id {
			continue
		}
		if p.Living {
			g.NumAlive--
		}
		g.Players = append(g.Players[:i], g.Players[i+1:]...)
		for _, t := range g.Teams {
			if t.HasPlayer(id) {
				t.RemovePlayer(id)
				if p.Living {
					t.NumAlive--
				}
			}
		}
		return nil
	}

	return fmt.Errorf("exclude player %s: not in this game", id)
}

// FormTeams shuffles the included players and splits them into teams of
// the given size. A trailing remainder forms one smaller team. Passing
// size 0 clears all teams.
func (g *Game) FormTeams(size int, r random.Source) error {
	if g.Ended {
		return ErrGameEnded
	}
	if g.InProgress {
		return ErrGameInProgress
	}
	if size < 0 {
		return fmt.Errorf("%w: team size must be >= 0", ErrInvalidOption)
	}

	g.reformTeams(size, r)
	return nil
}

// ReformTeams re-runs team formation mid-game. It is the self-heal path
// for a detected team inconsistency and deliberately skips the
// no-game-in-progress guard.
func (g *Game) ReformTeams(r random.Source) {
	g.reformTeams(g.Options.TeamSize, r)
}

func (g *Game) reformTeams(size int, r random.Source) {
	g.Options.TeamSize = size
	g.Teams = nil
	if size == 0 {
		return
	}

	ids := make([]string, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}
	// Fisher-Yates with the injected source keeps formation replayable.
	for i := len(ids) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}

	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		t := team.New(len(g.Teams)+1, fmt.Sprintf("Team %d", len(g.Teams)+1))
		for _, id := range ids[start:end] {
			t.AddPlayer(id)
			if g.Player(id).Living {
				t.NumAlive++
			}
		}
		g.Teams = append(g.Teams, t)
	}
}

// TeamOf returns the team containing the player, or nil.
func (g *Game) TeamOf(playerID string) *team.Team {
	for _, t := range g.Teams {
		if t.HasPlayer(playerID) {
			return t
		}
	}
	return nil
}

// AliveTeams counts teams that still have living members.
func (g *Game) AliveTeams() int {
	n := 0
	for _, t := range g.Teams {
		if t.NumAlive > 0 {
			n++
		}
	}
	return n
}

// LivingPlayers returns the living participants in inclusion order.
func (g *Game) LivingPlayers() []*player.Player {
	var out []*player.Player
	for _, p := range g.Players {
		if p.Living {
			out = append(out, p)
		}
	}
	return out
}

// DeadPlayers returns the dead participants in inclusion order.
func (g *Game) DeadPlayers() []*player.Player {
	var out []*player.Player
	for _, p := range g.Players {
		if !p.Living {
			out = append(out, p)
		}
	}
	return out
}

// CurrentEvents returns the Final Events buffered for the current day.
func (g *Game) CurrentEvents() []event.FinalEvent {
	if g.Day == nil {
		return nil
	}
	return g.Day.Events
}

// CheckInvariants verifies the aggregate counters against the entity
// state. It is an assertion for tests: production code never expects it
// to fail.
func (g *Game) CheckInvariants() error {
	living := 0
	for _, p := range g.Players {
		if p.Living {
			living++
		}
	}
	if living != g.NumAlive {
		return &InvariantError{Detail: fmt.Sprintf("numAlive=%d but %d players are living", g.NumAlive, living)}
	}

	seen := make(map[string]int)
	for _, t := range g.Teams {
		alive := 0
		for _, id := range t.Players {
			seen[id]++
			if seen[id] > 1 {
				return &InvariantError{Detail: fmt.Sprintf("player %s belongs to more than one team", id)}
			}
			p := g.Player(id)
			if p == nil {
				return &InvariantError{Detail: fmt.Sprintf("team %d references unknown player %s", t.ID, id)}
			}
			if p.Living {
				alive++
			}
		}
		if alive != t.NumAlive {
			return &InvariantError{Detail: fmt.Sprintf("team %d numAlive=%d but %d members are living", t.ID, t.NumAlive, alive)}
		}
	}

	return nil
}
