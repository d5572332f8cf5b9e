package engine

import (
	"testing"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/domain/player"
)

func named(pairs ...string) []*player.Player {
	out := make([]*player.Player, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, player.NewPlayer(pairs[i], pairs[i+1]))
	}
	return out
}

func TestRenderMessageSingular(t *testing.T) {
	msg := "{victim} run[V:s|] while {attacker} give[A:s|] chase."
	got := renderMessage(msg, named("v1", "Rue"), named("a1", "Cato"))
	want := "Rue runs while Cato gives chase."
	if got != want {
		t.Errorf("renderMessage = %q, want %q", got, want)
	}
}

func TestRenderMessagePlural(t *testing.T) {
	msg := "{victim} [V:hides|hide] while {attacker} hunt[A:s|] [V:them|them] down."
	got := renderMessage(msg, named("v1", "Rue", "v2", "Thresh"), named("a1", "Cato"))
	want := "Rue and Thresh hide while Cato hunts them down."
	if got != want {
		t.Errorf("renderMessage = %q, want %q", got, want)
	}
}

func TestRenderMessageMixedForms(t *testing.T) {
	msg := "{attacker} corner[A:s|] {victim}, who beg[V:s|] for mercy."
	got := renderMessage(msg, named("v1", "Rue"), named("a1", "Cato", "a2", "Clove", "a3", "Marvel"))
	want := "Cato, Clove, and Marvel corner Rue, who begs for mercy."
	if got != want {
		t.Errorf("renderMessage = %q, want %q", got, want)
	}
}

func TestNameList(t *testing.T) {
	tests := []struct {
		players []*player.Player
		want    string
	}{
		{nil, ""},
		{named("1", "Rue"), "Rue"},
		{named("1", "Rue", "2", "Thresh"), "Rue and Thresh"},
		{named("1", "Rue", "2", "Thresh", "3", "Cato"), "Rue, Thresh, and Cato"},
		{named("1", "Rue", "2", "Thresh", "3", "Cato", "4", "Clove"), "Rue, Thresh, Cato, and Clove"},
	}
	for _, tt := range tests {
		if got := nameList(tt.players); got != tt.want {
			t.Errorf("nameList(%d players) = %q, want %q", len(tt.players), got, tt.want)
		}
	}
}

func TestRenderEventRecordsParticipants(t *testing.T) {
	tmpl := event.Template{
		Message:  "{attacker} throws a spear at {victim}.",
		Victim:   event.Side{Count: 1, Outcome: event.OutcomeDies},
		Attacker: event.Side{Count: 1, Outcome: event.OutcomeNone, Killer: true},
	}

	ev := renderEvent(tmpl, named("v1", "Rue"), named("a1", "Marvel"))

	if ev.Text != "Marvel throws a spear at Rue." {
		t.Errorf("text = %q", ev.Text)
	}
	if len(ev.Victims) != 1 || ev.Victims[0] != "v1" {
		t.Errorf("victims = %v, want [v1]", ev.Victims)
	}
	if len(ev.Attackers) != 1 || ev.Attackers[0] != "a1" {
		t.Errorf("attackers = %v, want [a1]", ev.Attackers)
	}
	if got := ev.ParticipantIDs(); len(got) != 2 || got[0] != "v1" || got[1] != "a1" {
		t.Errorf("participant ids = %v, want victims before attackers", got)
	}
}

func TestRenderEventNoParticipantsOnASide(t *testing.T) {
	tmpl := chillTemplate(2)
	ev := renderEvent(tmpl, named("1", "Rue", "2", "Thresh"), nil)

	if ev.Text != "Rue and Thresh rest by the fire." {
		t.Errorf("text = %q", ev.Text)
	}
	if ev.Attackers != nil {
		t.Errorf("attackers = %v, want nil for an empty side", ev.Attackers)
	}
}
