package engine

import (
	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/domain/player"
	"github.com/panembot/games-server/internal/game"
)

// applyTemplate applies an accepted event's outcomes to the entity model.
// It is a stateless function over explicit references: no closures
// capturing loop state, so there is nothing to capture incorrectly.
func applyTemplate(g *game.Game, tmpl event.Template, victims, attackers []*player.Player) {
	applySide(g, victims, tmpl.Victim.Outcome, attackers, tmpl.Attacker.Killer)
	applySide(g, attackers, tmpl.Attacker.Outcome, victims, tmpl.Victim.Killer)
}

// applySide applies one side's outcome. When the opposing side carries
// the killer flag, each of its players is credited one kill per death
// caused here.
func applySide(g *game.Game, side []*player.Player, outcome event.Outcome, opposing []*player.Player, opposingKills bool) {
	switch outcome {
	case event.OutcomeDies:
		for _, p := range side {
			killPlayer(g, p)
			if opposingKills {
				for _, k := range opposing {
					k.Kills++
				}
			}
		}
	case event.OutcomeWounded:
		for _, p := range side {
			p.Wound()
		}
	case event.OutcomeThrives:
		for _, p := range side {
			p.Thrive()
		}
	}
}

// killPlayer marks a player dead and keeps every aggregate counter
// consistent in one step: the player's final rank is the survivor count
// just before the death, the global and team counters drop together, and
// a team losing its last member is ranked at that moment.
func killPlayer(g *game.Game, p *player.Player) {
	p.Kill(g.NumAlive)
	g.NumAlive--

	if t := g.TeamOf(p.ID); t != nil {
		t.NumAlive--
		if t.NumAlive == 0 {
			t.Rank = g.AliveTeams() + 1
		}
	}
}
