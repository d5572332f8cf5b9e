package engine

import (
	"github.com/panembot/games-server/internal/domain/player"
	"github.com/panembot/games-server/internal/domain/team"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/random"
)

// pickParticipants chooses concrete players for an event with the given
// side counts. With team collaboration off (or no teams formed) players
// are drawn uniformly from the acting pool. With it on, one team faces
// everyone else: the team with the most eligible members is tried first,
// the remaining teams in id order, and the first team for which either
// orientation fits fixes which side the team plays. Selection is always
// without replacement: a chosen player is never revisited within the
// same event.
//
// Failure to find a satisfying team is a rejection reported back to the
// selector, not a hard error.
func (e *Engine) pickParticipants(g *game.Game, acting []*player.Player, numVictim, numAttacker int, r random.Source) (victims, attackers []*player.Player, ok bool) {
	if !g.Options.TeammatesCollaborate || len(g.Teams) == 0 {
		picked := drawFrom(acting, numVictim+numAttacker, r)
		return picked[:numVictim], picked[numVictim:], true
	}

	for _, t := range anchorOrder(g, acting) {
		members, others := splitByTeam(t, acting)

		if len(members) >= numVictim && len(others) >= numAttacker {
			return drawFrom(members, numVictim, r), drawFrom(others, numAttacker, r), true
		}
		if len(members) >= numAttacker && len(others) >= numVictim {
			return drawFrom(others, numVictim, r), drawFrom(members, numAttacker, r), true
		}
	}

	return nil, nil, false
}

// anchorOrder returns candidate anchor teams: the one with the most
// eligible members first, then the rest in team-id order. Teams with no
// eligible members are skipped.
func anchorOrder(g *game.Game, acting []*player.Player) []*team.Team {
	anchor := (*team.Team)(nil)
	anchorEligible := 0
	for _, t := range g.Teams {
		if n := eligibleMembers(t, acting); n > anchorEligible {
			anchor = t
			anchorEligible = n
		}
	}
	if anchor == nil {
		return nil
	}

	out := []*team.Team{anchor}
	for _, t := range g.Teams {
		if t != anchor && eligibleMembers(t, acting) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// eligibleTeamCount counts teams with at least one living member in the
// acting pool.
func eligibleTeamCount(g *game.Game, acting []*player.Player) int {
	n := 0
	for _, t := range g.Teams {
		if eligibleMembers(t, acting) > 0 {
			n++
		}
	}
	return n
}

func eligibleMembers(t *team.Team, acting []*player.Player) int {
	n := 0
	for _, p := range acting {
		if t.HasPlayer(p.ID) {
			n++
		}
	}
	return n
}

func splitByTeam(t *team.Team, acting []*player.Player) (members, others []*player.Player) {
	for _, p := range acting {
		if t.HasPlayer(p.ID) {
			members = append(members, p)
		} else {
			others = append(others, p)
		}
	}
	return members, others
}

// drawFrom samples n players without replacement via a partial
// Fisher-Yates shuffle of a copy. The input slice is never reordered.
func drawFrom(pool []*player.Player, n int, r random.Source) []*player.Player {
	if n == 0 {
		return nil
	}
	tmp := append([]*player.Player(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + r.Intn(len(tmp)-i)
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	return tmp[:n:n]
}
