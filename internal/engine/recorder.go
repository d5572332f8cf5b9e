package engine

import (
	"regexp"
	"strings"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/domain/player"
)

// Plural markers: [V:singular|plural] resolves against the victim count,
// [A:singular|plural] against the attacker count.
var (
	victimForm   = regexp.MustCompile(`\[V:([^|\]]*)\|([^\]]*)\]`)
	attackerForm = regexp.MustCompile(`\[A:([^|\]]*)\|([^\]]*)\]`)
)

// renderEvent turns an applied template into a Final Event record: the
// narrative text with names substituted, plus the ordered participant
// ids for the presentation layer to resolve into avatars or mentions.
func renderEvent(tmpl event.Template, victims, attackers []*player.Player) event.FinalEvent {
	return event.FinalEvent{
		Text:      renderMessage(tmpl.Message, victims, attackers),
		Victims:   playerIDs(victims),
		Attackers: playerIDs(attackers),
	}
}

func renderMessage(msg string, victims, attackers []*player.Player) string {
	msg = strings.ReplaceAll(msg, "{victim}", nameList(victims))
	msg = strings.ReplaceAll(msg, "{attacker}", nameList(attackers))
	msg = victimForm.ReplaceAllString(msg, pluralGroup(len(victims)))
	msg = attackerForm.ReplaceAllString(msg, pluralGroup(len(attackers)))
	return msg
}

func pluralGroup(n int) string {
	if n > 1 {
		return "$2"
	}
	return "$1"
}

// nameList joins display names the way a narrator would: "A", "A and B",
// "A, B, and C".
func nameList(ps []*player.Player) string {
	switch len(ps) {
	case 0:
		return ""
	case 1:
		return ps[0].Name
	case 2:
		return ps[0].Name + " and " + ps[1].Name
	}

	var b strings.Builder
	for i, p := range ps {
		if i == len(ps)-1 {
			b.WriteString("and ")
		}
		b.WriteString(p.Name)
		if i < len(ps)-1 {
			b.WriteString(", ")
		}
	}
	return b.String()
}

func playerIDs(ps []*player.Player) []string {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}
