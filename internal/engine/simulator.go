package engine

import (
	"fmt"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/domain/player"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/random"
	"github.com/panembot/games-server/internal/templates"
)

// Narration for the simulator's own events (resurrection and the bleed
// resolution pass). These go through the same recorder as template
// events.
const (
	resurrectionMessage = "{victim} rise[V:s|] from the dead, clawing [V:their|their] way back into the arena."
	bleedDeathMessage   = "{victim} bleed[V:s|] out and die[V:s|] from [V:their|their] wounds."
	bleedRecoverMessage = "{victim} stop[V:s|] the bleeding and recover[V:s|]."
)

// StartDay runs one full day for the game: resurrection pass, event loop,
// bleed resolution. It returns the completed day with its state set to
// the first reveal step; reveal pacing is the host's responsibility.
//
// StartDay is not reentrant: while a day is simulating or revealing it
// fails with ErrAlreadyInProgress. On selector exhaustion the day is
// aborted with ErrNoValidEvent: effects already applied stay applied, the
// day state resets to NotStarted and the host decides whether to retry
// or abort the game.
func (e *Engine) StartDay(g *game.Game, col templates.Collection, r random.Source) (*game.Day, error) {
	if g.Ended {
		return nil, game.ErrGameEnded
	}
	if g.Day.State != game.DayNotStarted {
		return nil, game.ErrAlreadyInProgress
	}

	g.InProgress = true
	g.Day = &game.Day{Num: g.Day.Num + 1, State: game.DaySimulating}
	day := g.Day

	teamsActive := g.Options.TeammatesCollaborate && len(g.Teams) > 0
	if teamsActive {
		e.healTeamInconsistency(g, r)
	}

	if ev := e.resurrectionPass(g, r); ev != nil {
		day.Events = append(day.Events, *ev)
	}

	pool := col.Player
	if day.Num == 0 {
		pool = col.Bloodbath
	} else if len(col.Arena) > 0 && g.Options.ArenaChance > 0 && r.Float64() < g.Options.ArenaChance {
		arena := col.Arena[r.Intn(len(col.Arena))]
		day.Events = append(day.Events, event.FinalEvent{Text: arena.Message})
		pool = arena.Outcomes
		e.log.Event("ARENA", g.ID, fmt.Sprintf("Day %d: %s", day.Num, arena.ID))
	}

	// Event loop: every living player acts exactly once per day. The
	// acting pool shrinks with each accepted event until it is empty.
	acting := g.LivingPlayers()
	for len(acting) > 0 {
		sel, err := e.selectEvent(g, pool, acting, r)
		if err != nil {
			day.State = game.DayNotStarted
			e.log.Error(fmt.Sprintf("Day %d aborted for game %s: %v", day.Num, g.ID, err))
			return nil, err
		}

		applyTemplate(g, sel.tmpl, sel.victims, sel.attackers)
		day.Events = append(day.Events, renderEvent(sel.tmpl, sel.victims, sel.attackers))
		acting = removePlayers(acting, sel.participants())
	}

	day.Events = append(day.Events, e.bleedPass(g, r)...)

	day.State = game.DayRevealBase
	e.metrics.DaySimulated()
	e.log.Event("DAY_SIMULATED", g.ID, fmt.Sprintf("Day %d: %d events, %d alive", day.Num, len(day.Events), g.NumAlive))
	return day, nil
}

// AdvanceReveal discloses the next buffered Final Event. After the last
// one the win condition is evaluated and the day state resets for the
// next StartDay (or the game ends). Once every event is revealed the
// call is idempotent: it keeps returning (nil, false, nil) without
// mutating anything.
func (e *Engine) AdvanceReveal(g *game.Game) (*event.FinalEvent, bool, error) {
	day := g.Day
	if day == nil || day.State < game.DayRevealBase {
		return nil, false, nil
	}

	idx := day.Revealed()
	if idx >= len(day.Events) {
		// A day that produced no events still needs its win check.
		e.endDay(g)
		return nil, false, nil
	}

	ev := day.Events[idx]
	day.State++
	e.metrics.RevealServed()

	if !day.HasMoreReveals() {
		e.endDay(g)
		return &ev, false, nil
	}
	return &ev, true, nil
}

// endDay archives the completed day, evaluates the win condition and
// resets the day state machine.
func (e *Engine) endDay(g *game.Game) {
	completed := g.Day
	g.History = append(g.History, completed)
	g.Day = &game.Day{Num: completed.Num, State: game.DayNotStarted}

	e.checkWinCondition(g)
}

// checkWinCondition ends the game when exactly one team, exactly one
// player, or nobody is left standing. More than one living party means
// the Games continue.
func (e *Engine) checkWinCondition(g *game.Game) {
	if len(g.Teams) > 0 && g.AliveTeams() == 1 {
		for _, t := range g.Teams {
			if t.NumAlive == 0 {
				continue
			}
			t.Rank = 1
			for _, id := range t.Players {
				if p := g.Player(id); p != nil && p.Living {
					p.Rank = 1
				}
			}
			g.Winner = &game.Winner{TeamID: t.ID}
			e.log.Event("GAME_WON", g.ID, fmt.Sprintf("%s wins with %d members alive", t.Name, t.NumAlive))
		}
		g.Ended = true
		g.InProgress = false
		return
	}

	if g.NumAlive == 1 {
		for _, p := range g.LivingPlayers() {
			p.Rank = 1
			g.Winner = &game.Winner{PlayerID: p.ID}
			e.log.Event("GAME_WON", g.ID, p.Name+" is the victor")
		}
		g.Ended = true
		g.InProgress = false
		return
	}

	if g.NumAlive == 0 {
		g.Winner = &game.Winner{NoVictor: true}
		g.Ended = true
		g.InProgress = false
		e.log.Event("GAME_WON", g.ID, "nobody survived the Games")
	}
}

// resurrectionPass optionally revives one random dead player before the
// event loop. The revived player takes rank 1 again; dead players whose
// rank was better than the revived one shift by one so the dead ranks
// stay contiguous.
func (e *Engine) resurrectionPass(g *game.Game, r random.Source) *event.FinalEvent {
	if g.Options.ResurrectionChance <= 0 {
		return nil
	}
	dead := g.DeadPlayers()
	if len(dead) == 0 || r.Float64() >= g.Options.ResurrectionChance {
		return nil
	}

	revived := dead[r.Intn(len(dead))]
	for _, q := range dead {
		if q != revived && q.Rank < revived.Rank {
			q.Rank++
		}
	}
	revived.Revive()
	g.NumAlive++
	if t := g.TeamOf(revived.ID); t != nil {
		t.NumAlive++
		t.Rank = 0
	}

	e.log.Event("RESURRECTION", g.ID, revived.Name+" returned from the dead")
	ev := event.FinalEvent{
		Text:    renderMessage(resurrectionMessage, []*player.Player{revived}, nil),
		Victims: []string{revived.ID},
	}
	return &ev
}

// bleedPass resolves every bleeding survivor at the end of a day: each
// one independently dies with the configured probability, unless that
// death would leave nobody alive while no-victors is disallowed, in
// which case the player recovers instead. Outcomes are evaluated
// sequentially in inclusion order, so an earlier bleed death can be the
// reason a later one is spared.
func (e *Engine) bleedPass(g *game.Game, r random.Source) []event.FinalEvent {
	var died, recovered []*player.Player
	for _, p := range g.Players {
		if !p.Bleeding || !p.Living {
			continue
		}
		if r.Float64() < g.Options.BleedDeathChance && (g.Options.AllowNoVictors || g.NumAlive > 1) {
			killPlayer(g, p)
			died = append(died, p)
		} else {
			p.Thrive()
			recovered = append(recovered, p)
		}
	}

	var out []event.FinalEvent
	if len(died) > 0 {
		out = append(out, event.FinalEvent{
			Text:    renderMessage(bleedDeathMessage, died, nil),
			Victims: playerIDs(died),
		})
	}
	if len(recovered) > 0 {
		out = append(out, event.FinalEvent{
			Text:    renderMessage(bleedRecoverMessage, recovered, nil),
			Victims: playerIDs(recovered),
		})
	}
	return out
}

// healTeamInconsistency re-forms teams when a living player is reachable
// from no team. This is logged and self-healed, never silently ignored.
func (e *Engine) healTeamInconsistency(g *game.Game, r random.Source) {
	for _, p := range g.LivingPlayers() {
		if g.TeamOf(p.ID) == nil {
			e.log.Error(fmt.Sprintf("game %s: %v (player %s), re-forming teams", g.ID, game.ErrTeamInconsistency, p.ID))
			g.ReformTeams(r)
			return
		}
	}
}

func removePlayers(pool []*player.Player, picked []*player.Player) []*player.Player {
	out := pool[:0]
	for _, p := range pool {
		used := false
		for _, q := range picked {
			if p == q {
				used = true
				break
			}
		}
		if !used {
			out = append(out, p)
		}
	}
	return out
}
