package engine

import (
	"fmt"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/domain/player"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/random"
)

// maxSelectRetries bounds the rejection-retry loop. Exceeding it is a
// fatal per-day error surfaced to the host, never silently swallowed.
const maxSelectRetries = 100

// maxExtraRedraws bounds the extra-participant re-draw on "at least"
// counts. After it the minimum is used, which the caller has already
// checked against the pool.
const maxExtraRedraws = 100

// extraParticipants resolves "at least N" template counts: the encoded
// minimum is topped up with this fixed discrete distribution.
var extraParticipants = random.MustWeightedInt(
	[]int{0, 1, 2, 3, 5, 6},
	[]float64{0.66, 0.27, 0.03, 0.02, 0.015, 0.005},
)

// Rejection reasons, kept explicit so selector behavior is observable
// instead of a silent retry loop.
const (
	rejectTooManyParticipants = "too_many_participants"
	rejectTeamsExhausted      = "fewer_than_two_teams"
	rejectNoTeamSplit         = "no_team_split"
	rejectWouldKillEveryone   = "would_kill_everyone"
)

// selection is one accepted event: the template plus the concrete
// participants the coordinator picked for each side.
type selection struct {
	tmpl      event.Template
	victims   []*player.Player
	attackers []*player.Player
}

func (s selection) participants() []*player.Player {
	out := make([]*player.Player, 0, len(s.victims)+len(s.attackers))
	out = append(out, s.victims...)
	out = append(out, s.attackers...)
	return out
}

// selectEvent repeatedly draws a template uniformly from the pool until
// one passes every active constraint, or the retry budget runs out.
func (e *Engine) selectEvent(g *game.Game, pool []event.Template, acting []*player.Player, r random.Source) (selection, error) {
	if len(pool) == 0 {
		return selection{}, fmt.Errorf("%w: empty template pool", game.ErrNoValidEvent)
	}

	rejections := make(map[string]int)
	teamsActive := g.Options.TeammatesCollaborate && len(g.Teams) > 0

	for attempt := 0; attempt < maxSelectRetries; attempt++ {
		tmpl := pool[r.Intn(len(pool))]

		// Only the minimums can disqualify the template itself. The
		// weighted extra on "at least" counts is re-drawn until the total
		// fits, keeping the drawn template.
		if tmpl.Participants() > len(acting) {
			e.reject(rejections, rejectTooManyParticipants)
			continue
		}

		numVictim := resolveCount(tmpl.Victim.Count, len(acting)-tmpl.Attacker.Min(), r)
		numAttacker := resolveCount(tmpl.Attacker.Count, len(acting)-numVictim, r)

		deaths := 0
		if tmpl.Victim.Outcome == event.OutcomeDies {
			deaths += numVictim
		}
		if tmpl.Attacker.Outcome == event.OutcomeDies {
			deaths += numAttacker
		}
		if !g.Options.AllowNoVictors && deaths >= g.NumAlive {
			e.reject(rejections, rejectWouldKillEveryone)
			continue
		}

		if teamsActive && tmpl.Deadly() && eligibleTeamCount(g, acting) < 2 {
			e.reject(rejections, rejectTeamsExhausted)
			continue
		}

		victims, attackers, ok := e.pickParticipants(g, acting, numVictim, numAttacker, r)
		if !ok {
			e.reject(rejections, rejectNoTeamSplit)
			continue
		}

		e.metrics.EventSelected()
		return selection{tmpl: tmpl, victims: victims, attackers: attackers}, nil
	}

	e.metrics.SelectorFailure()
	return selection{}, fmt.Errorf("%w after %d attempts: %v", game.ErrNoValidEvent, maxSelectRetries, rejections)
}

func (e *Engine) reject(rejections map[string]int, reason string) {
	rejections[reason]++
	e.metrics.SelectorRejection()
}

// resolveCount turns an encoded template count into a concrete one that
// fits the budget. A negative count means "at least -count" plus a
// weighted random extra; an extra pushing the total past the budget is
// re-drawn. The caller guarantees the minimum itself fits.
func resolveCount(count, budget int, r random.Source) int {
	if count >= 0 {
		return count
	}

	floor := -count
	for i := 0; i < maxExtraRedraws; i++ {
		if n := floor + extraParticipants.Pick(r); n <= budget {
			return n
		}
	}
	return floor
}
