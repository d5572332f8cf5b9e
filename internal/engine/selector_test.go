package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/random"
)

func TestResolveCountFixed(t *testing.T) {
	r := random.New(1)
	for _, n := range []int{0, 1, 3} {
		if got := resolveCount(n, 10, r); got != n {
			t.Errorf("resolveCount(%d) = %d, want the count unchanged", n, got)
		}
	}
}

func TestResolveCountAtLeast(t *testing.T) {
	// The extra draw compares one uniform float against the cumulative
	// weight table: 0 lands in the first bucket (+0), a value near 1 in
	// the last (+6).
	if got := resolveCount(-2, 10, &scriptSource{floats: []float64{0}}); got != 2 {
		t.Errorf("resolveCount(-2) with minimal draw = %d, want 2", got)
	}
	if got := resolveCount(-2, 10, &scriptSource{floats: []float64{0.9999}}); got != 8 {
		t.Errorf("resolveCount(-2) with maximal draw = %d, want 8", got)
	}
}

func TestResolveCountAtLeastBounds(t *testing.T) {
	r := random.New(9)
	for i := 0; i < 1000; i++ {
		got := resolveCount(-3, 9, r)
		if got < 3 || got > 9 {
			t.Fatalf("resolveCount(-3) = %d, want within [3,9]", got)
		}
	}
}

func TestResolveCountRedrawsExtraAgainstBudget(t *testing.T) {
	// First extra lands in the +1 bucket, overflowing a budget of 2; the
	// re-draw lands in +0 and fits. The floor never overflows.
	r := &scriptSource{floats: []float64{0.7, 0.1}}
	if got := resolveCount(-2, 2, r); got != 2 {
		t.Errorf("resolveCount(-2) with budget 2 = %d, want the re-drawn total 2", got)
	}
	if len(r.floats) != 0 {
		t.Error("the overflowing extra should have consumed a re-draw")
	}
}

func TestSelectEventEmptyPool(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A", "B")

	_, err := e.selectEvent(g, nil, g.LivingPlayers(), random.New(1))
	if !errors.Is(err, game.ErrNoValidEvent) {
		t.Fatalf("err = %v, want ErrNoValidEvent", err)
	}
}

func TestSelectEventRejectsOversizedTemplates(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A", "B")

	pool := []event.Template{chillTemplate(5)}
	_, err := e.selectEvent(g, pool, g.LivingPlayers(), random.New(1))
	if !errors.Is(err, game.ErrNoValidEvent) {
		t.Fatalf("err = %v, want ErrNoValidEvent", err)
	}
	if !strings.Contains(err.Error(), rejectTooManyParticipants) {
		t.Errorf("err should name the rejection reason, got %q", err)
	}
}

func TestSelectEventRejectsTotalWipeout(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A")

	pool := []event.Template{deathTemplate()}
	_, err := e.selectEvent(g, pool, g.LivingPlayers(), random.New(1))
	if !errors.Is(err, game.ErrNoValidEvent) {
		t.Fatalf("err = %v, want ErrNoValidEvent", err)
	}
	if !strings.Contains(err.Error(), rejectWouldKillEveryone) {
		t.Errorf("err should name the rejection reason, got %q", err)
	}
	if p := g.Player("A"); !p.Living {
		t.Error("rejection must not apply effects")
	}
}

func TestSelectEventAllowsWipeoutWhenNoVictorsPermitted(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A")
	g.Options.AllowNoVictors = true

	sel, err := e.selectEvent(g, []event.Template{deathTemplate()}, g.LivingPlayers(), random.New(1))
	if err != nil {
		t.Fatalf("err = %v, want the deadly event accepted", err)
	}
	if len(sel.victims) != 1 || sel.victims[0].ID != "A" {
		t.Errorf("victims = %v, want the sole player", sel.victims)
	}
}

func TestSelectEventRejectsDeadlyWithOneTeamLeft(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A", "B")
	if err := g.FormTeams(2, random.New(1)); err != nil {
		t.Fatalf("form teams: %v", err)
	}

	pool := []event.Template{deathTemplate()}
	_, err := e.selectEvent(g, pool, g.LivingPlayers(), random.New(1))
	if !errors.Is(err, game.ErrNoValidEvent) {
		t.Fatalf("err = %v, want ErrNoValidEvent", err)
	}
	if !strings.Contains(err.Error(), rejectTeamsExhausted) {
		t.Errorf("err should name the rejection reason, got %q", err)
	}

	// A harmless event is still fine within the same single team.
	if _, err := e.selectEvent(g, []event.Template{chillTemplate(1)}, g.LivingPlayers(), random.New(1)); err != nil {
		t.Errorf("harmless event rejected: %v", err)
	}
}

func TestSelectEventKeepsTemplateWhenExtraOverflows(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A", "B")

	atLeast := event.Template{
		Message: "{victim} [V:is|are] caught in a rockslide.",
		Victim:  event.Side{Count: -2, Outcome: event.OutcomeNone},
	}
	pool := []event.Template{atLeast, chillTemplate(1)}

	// Template draw 0; the extra lands in +1 (total 3 > 2 players) and is
	// re-drawn to +0. The drawn template must survive, not the draw.
	r := &scriptSource{ints: []int{0}, floats: []float64{0.7, 0.1}}

	sel, err := e.selectEvent(g, pool, g.LivingPlayers(), r)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.tmpl.Victim.Count != -2 {
		t.Errorf("selected template has victim count %d, want the at-least template kept", sel.tmpl.Victim.Count)
	}
	if len(sel.victims) != 2 {
		t.Errorf("got %d victims, want 2", len(sel.victims))
	}
}

func TestSelectEventRetriesPastUnfittingTemplates(t *testing.T) {
	e := newTestEngine()
	g := newTestGame(t, "A", "B")

	// The oversized template is drawn first and rejected; the selector
	// must move on instead of giving up.
	pool := []event.Template{chillTemplate(5), chillTemplate(2)}
	r := &scriptSource{ints: []int{0, 1}}

	sel, err := e.selectEvent(g, pool, g.LivingPlayers(), r)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(sel.victims) != 2 {
		t.Errorf("got %d victims, want 2", len(sel.victims))
	}
}
