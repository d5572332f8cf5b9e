// Package templates provides read-only access to the event template
// collections: the built-in defaults compiled into the binary, optional
// collections loaded from a directory, and per-instance custom additions.
//
// The store can be reloaded on external notification without restarting
// in-flight games: games receive merged copies, never shared slices.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/platform/logger"
)

//go:embed defaults.yaml
var defaultsRaw []byte

// Collection groups the three template sets a game draws from.
type Collection struct {
	Bloodbath []event.Template   `yaml:"bloodbath" json:"bloodbath"`
	Player    []event.Template   `yaml:"player" json:"player"`
	Arena     []event.ArenaEvent `yaml:"arena" json:"arena"`
}

// Store serves template collections to game instances.
type Store struct {
	mu     sync.RWMutex
	base   Collection            // embedded defaults + directory overlay
	custom map[string]Collection // per-game additions
	dir    string
	log    *logger.Logger
}

// NewStore loads the embedded defaults and, if dir is non-empty, overlays
// every *.yaml collection found there.
func NewStore(dir string, log *logger.Logger) (*Store, error) {
	s := &Store{
		custom: make(map[string]Collection),
		dir:    dir,
		log:    log,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the defaults and the overlay directory. Games already
// running keep the collection they were handed; only new days pick up the
// refreshed set.
func (s *Store) Reload() error {
	var base Collection
	if err := yaml.Unmarshal(defaultsRaw, &base); err != nil {
		return fmt.Errorf("parse embedded templates: %w", err)
	}

	if s.dir != "" {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return fmt.Errorf("read template dir %s: %w", s.dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
			if err != nil {
				return fmt.Errorf("read template file %s: %w", e.Name(), err)
			}
			var extra Collection
			if err := yaml.Unmarshal(raw, &extra); err != nil {
				return fmt.Errorf("parse template file %s: %w", e.Name(), err)
			}
			base.Bloodbath = append(base.Bloodbath, extra.Bloodbath...)
			base.Player = append(base.Player, extra.Player...)
			base.Arena = append(base.Arena, extra.Arena...)
		}
	}

	normalize(&base)
	if err := validate(base); err != nil {
		return err
	}

	s.mu.Lock()
	s.base = base
	s.mu.Unlock()

	if s.log != nil {
		s.log.Info(fmt.Sprintf("Template store loaded: %d bloodbath, %d player, %d arena",
			len(base.Bloodbath), len(base.Player), len(base.Arena)))
	}
	return nil
}

// AddCustom registers a per-game template in the named set ("bloodbath"
// or "player").
func (s *Store) AddCustom(gameID, set string, t event.Template) error {
	normalizeTemplate(&t)
	if err := validateTemplate(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.custom[gameID]
	switch set {
	case "bloodbath":
		c.Bloodbath = append(c.Bloodbath, t)
	case "player":
		c.Player = append(c.Player, t)
	default:
		return fmt.Errorf("unknown template set %q", set)
	}
	s.custom[gameID] = c
	return nil
}

// RemoveCustom drops every custom template of a game, e.g. when the game
// is deleted.
func (s *Store) RemoveCustom(gameID string) {
	s.mu.Lock()
	delete(s.custom, gameID)
	s.mu.Unlock()
}

// ForGame returns a merged copy of the current base collections and the
// game's custom additions. The copy is the caller's to keep: later
// reloads do not touch it.
func (s *Store) ForGame(gameID string) Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.custom[gameID]
	out := Collection{
		Bloodbath: make([]event.Template, 0, len(s.base.Bloodbath)+len(c.Bloodbath)),
		Player:    make([]event.Template, 0, len(s.base.Player)+len(c.Player)),
		Arena:     make([]event.ArenaEvent, 0, len(s.base.Arena)),
	}
	out.Bloodbath = append(out.Bloodbath, s.base.Bloodbath...)
	out.Bloodbath = append(out.Bloodbath, c.Bloodbath...)
	out.Player = append(out.Player, s.base.Player...)
	out.Player = append(out.Player, c.Player...)
	out.Arena = append(out.Arena, s.base.Arena...)
	return out
}

func normalize(c *Collection) {
	for i := range c.Bloodbath {
		normalizeTemplate(&c.Bloodbath[i])
	}
	for i := range c.Player {
		normalizeTemplate(&c.Player[i])
	}
	for i := range c.Arena {
		for j := range c.Arena[i].Outcomes {
			normalizeTemplate(&c.Arena[i].Outcomes[j])
		}
	}
}

func normalizeTemplate(t *event.Template) {
	if t.Victim.Outcome == "" {
		t.Victim.Outcome = event.OutcomeNone
	}
	if t.Attacker.Outcome == "" {
		t.Attacker.Outcome = event.OutcomeNone
	}
}

func validate(c Collection) error {
	for _, set := range [][]event.Template{c.Bloodbath, c.Player} {
		for _, t := range set {
			if err := validateTemplate(t); err != nil {
				return err
			}
		}
	}
	for _, a := range c.Arena {
		if a.Message == "" {
			return fmt.Errorf("arena event %q has no message", a.ID)
		}
		if len(a.Outcomes) == 0 {
			return fmt.Errorf("arena event %q has no outcomes", a.ID)
		}
		for _, t := range a.Outcomes {
			if err := validateTemplate(t); err != nil {
				return fmt.Errorf("arena event %q: %w", a.ID, err)
			}
		}
	}
	return nil
}

func validateTemplate(t event.Template) error {
	if t.Message == "" {
		return fmt.Errorf("template has no message")
	}
	if t.Participants() < 1 {
		return fmt.Errorf("template %q needs at least one participant", t.Message)
	}
	for _, o := range []event.Outcome{t.Victim.Outcome, t.Attacker.Outcome} {
		switch o {
		case event.OutcomeDies, event.OutcomeWounded, event.OutcomeThrives, event.OutcomeNone:
		default:
			return fmt.Errorf("template %q has unknown outcome %q", t.Message, o)
		}
	}
	return nil
}
