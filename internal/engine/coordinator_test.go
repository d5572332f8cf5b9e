package engine

import (
	"testing"

	"github.com/panembot/games-server/internal/domain/player"
	"github.com/panembot/games-server/internal/domain/team"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/random"
)

func rosterOf(ids ...string) []*player.Player {
	out := make([]*player.Player, len(ids))
	for i, id := range ids {
		out[i] = player.NewPlayer(id, id)
	}
	return out
}

func teamOf(id int, members ...string) *team.Team {
	t := team.New(id, "Team")
	for _, m := range members {
		t.AddPlayer(m)
		t.NumAlive++
	}
	return t
}

func TestDrawFromWithoutReplacement(t *testing.T) {
	pool := rosterOf("a", "b", "c", "d", "e")
	r := random.New(11)

	got := drawFrom(pool, 5, r)
	if len(got) != 5 {
		t.Fatalf("drew %d players, want 5", len(got))
	}
	seen := make(map[string]bool)
	for _, p := range got {
		if seen[p.ID] {
			t.Errorf("player %s drawn twice", p.ID)
		}
		seen[p.ID] = true
	}

	// The input pool keeps its order.
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		if pool[i].ID != id {
			t.Fatalf("input pool reordered: %s at %d", pool[i].ID, i)
		}
	}
}

func TestDrawFromZero(t *testing.T) {
	if got := drawFrom(rosterOf("a", "b"), 0, random.New(1)); got != nil {
		t.Errorf("drawFrom(.., 0) = %v, want nil", got)
	}
}

func TestAnchorOrderPrefersLargestTeam(t *testing.T) {
	g := game.New("t")
	g.Teams = []*team.Team{
		teamOf(1, "a"),
		teamOf(2, "b", "c", "d"),
		teamOf(3, "e", "f"),
	}
	acting := rosterOf("a", "b", "c", "d", "e", "f")

	order := anchorOrder(g, acting)
	if len(order) != 3 {
		t.Fatalf("got %d candidate teams, want 3", len(order))
	}
	wantIDs := []int{2, 1, 3}
	for i, want := range wantIDs {
		if order[i].ID != want {
			t.Errorf("order[%d] = team %d, want team %d", i, order[i].ID, want)
		}
	}
}

func TestAnchorOrderSkipsExhaustedTeams(t *testing.T) {
	g := game.New("t")
	g.Teams = []*team.Team{
		teamOf(1, "a", "b"),
		teamOf(2, "c", "d"),
	}
	// Team 2's members already acted today.
	acting := rosterOf("a", "b")

	order := anchorOrder(g, acting)
	if len(order) != 1 || order[0].ID != 1 {
		t.Fatalf("order = %v, want only team 1", order)
	}
}

func TestPickParticipantsUniformWithoutTeams(t *testing.T) {
	e := newTestEngine()
	g := game.New("t")
	g.Options = game.DefaultOptions()
	acting := rosterOf("a", "b", "c")

	victims, attackers, ok := e.pickParticipants(g, acting, 2, 1, random.New(4))
	if !ok {
		t.Fatal("uniform pick should always fit when counts do")
	}
	if len(victims) != 2 || len(attackers) != 1 {
		t.Fatalf("got %d victims and %d attackers, want 2 and 1", len(victims), len(attackers))
	}
	seen := make(map[string]bool)
	for _, p := range append(victims, attackers...) {
		if seen[p.ID] {
			t.Errorf("player %s picked on both sides", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestPickParticipantsAnchorAsVictims(t *testing.T) {
	e := newTestEngine()
	g := game.New("t")
	g.Options = game.DefaultOptions()
	g.Teams = []*team.Team{teamOf(1, "a", "b"), teamOf(2, "c")}
	acting := rosterOf("a", "b", "c")

	victims, attackers, ok := e.pickParticipants(g, acting, 2, 1, random.New(4))
	if !ok {
		t.Fatal("split should fit")
	}
	for _, v := range victims {
		if !g.Teams[0].HasPlayer(v.ID) {
			t.Errorf("victim %s is not on the anchor team", v.ID)
		}
	}
	if len(attackers) != 1 || attackers[0].ID != "c" {
		t.Errorf("attackers = %v, want the opposing player", attackers)
	}
}

func TestPickParticipantsAnchorAsAttackers(t *testing.T) {
	e := newTestEngine()
	g := game.New("t")
	g.Options = game.DefaultOptions()
	g.Teams = []*team.Team{teamOf(1, "a", "b"), teamOf(2, "c")}
	acting := rosterOf("a", "b", "c")

	// One victim, two attackers: only the flipped orientation fits the
	// two-member anchor, so its members attack.
	victims, attackers, ok := e.pickParticipants(g, acting, 1, 2, random.New(4))
	if !ok {
		t.Fatal("split should fit")
	}
	if len(victims) != 1 || victims[0].ID != "c" {
		t.Errorf("victims = %v, want the opposing player", victims)
	}
	for _, a := range attackers {
		if !g.Teams[0].HasPlayer(a.ID) {
			t.Errorf("attacker %s is not on the anchor team", a.ID)
		}
	}
}

func TestPickParticipantsNoSplitAvailable(t *testing.T) {
	e := newTestEngine()
	g := game.New("t")
	g.Options = game.DefaultOptions()
	g.Teams = []*team.Team{teamOf(1, "a", "b")}
	acting := rosterOf("a", "b")

	// A one-versus-one event needs players on both sides, but everyone
	// still acting shares the only team.
	if _, _, ok := e.pickParticipants(g, acting, 1, 1, random.New(4)); ok {
		t.Error("pick should fail when no team split satisfies the counts")
	}
}
