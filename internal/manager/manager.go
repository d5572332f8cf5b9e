// Package manager owns the registry of active game instances and
// serializes access to each one. Every host command for an instance runs
// under that instance's mutex, so a day simulation always runs to
// completion (or to a reveal suspension point) before another command
// touches the same game. Distinct instances run fully in parallel and
// share no mutable state.
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/engine"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/infra/storage"
	"github.com/panembot/games-server/internal/platform/logger"
	"github.com/panembot/games-server/internal/random"
	"github.com/panembot/games-server/internal/templates"
)

// Notifier is the presentation-layer hook. It receives day and Final
// Event records and never feeds anything back into the engine. All
// arguments are read-only snapshots.
type Notifier interface {
	DayBegan(gameID string, dayNum, eventCount int)
	EventRevealed(gameID string, ev event.FinalEvent, more bool)
	DayEnded(gameID string, dayNum int, winner *game.Winner)
}

// Manager is the process-scoped registry of contest instances.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*instance

	engine    *engine.Engine
	templates *templates.Store
	repo      storage.GameRepository // nil disables persistence
	notifier  Notifier               // nil disables notifications
	log       *logger.Logger
}

type instance struct {
	mu   sync.Mutex
	game *game.Game
	rng  random.Source
}

// New creates a manager. repo and notifier may be nil.
func New(eng *engine.Engine, store *templates.Store, repo storage.GameRepository, log *logger.Logger) *Manager {
	return &Manager{
		instances: make(map[string]*instance),
		engine:    eng,
		templates: store,
		repo:      repo,
		log:       log,
	}
}

// SetNotifier wires the presentation layer. Call before serving traffic.
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// LoadAll restores persisted instances. An absent or corrupt store never
// fails the process; unreadable documents are logged and skipped.
func (m *Manager) LoadAll(ctx context.Context) {
	if m.repo == nil {
		return
	}

	docs, err := m.repo.List(ctx)
	if err != nil {
		m.log.Warn("Could not load persisted games, starting empty: " + err.Error())
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		var g game.Game
		if err := json.Unmarshal(doc.State, &g); err != nil || g.ID == "" {
			m.log.Warn(fmt.Sprintf("Skipping corrupt game document %s: %v", doc.GameID, err))
			continue
		}
		// A document that decodes but carries no day (older schema or an
		// external writer) must not leave a nil day behind for the next
		// host command to trip over.
		if g.Day == nil {
			g.Day = game.NewDay()
		}
		seed, err := random.NewSeed()
		if err != nil {
			m.log.Error("Could not seed restored game " + g.ID + ": " + err.Error())
			continue
		}
		m.instances[g.ID] = &instance{game: &g, rng: random.New(seed)}
	}
	m.log.Info(fmt.Sprintf("Restored %d game instance(s)", len(m.instances)))
}

// CreateGame registers a new instance. An empty id gets a generated one.
// The returned id addresses the instance in every other call.
func (m *Manager) CreateGame(id string) (string, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return m.CreateGameWithSeed(id, seed)
}

// CreateGameWithSeed registers a new instance with a fixed random seed,
// which makes every simulation of the instance replayable.
func (m *Manager) CreateGameWithSeed(id string, seed int64) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.instances[id]; exists {
		return "", fmt.Errorf("create game: id %s already in use", id)
	}
	m.instances[id] = &instance{game: game.New(id), rng: random.New(seed)}

	m.log.Event("GAME_CREATED", id, "new instance registered")
	return id, nil
}

// GameIDs lists the registered instances.
func (m *Manager) GameIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	return ids
}

// IncludePlayer admits a participant to a game.
func (m *Manager) IncludePlayer(gameID, playerID, name string) error {
	return m.withInstance(gameID, func(in *instance) error {
		return in.game.IncludePlayer(playerID, name)
	})
}

// ExcludePlayer removes a participant from a game.
func (m *Manager) ExcludePlayer(gameID, playerID string) error {
	return m.withInstance(gameID, func(in *instance) error {
		return in.game.ExcludePlayer(playerID)
	})
}

// FormTeams shuffles the included players into teams of the given size.
func (m *Manager) FormTeams(gameID string, size int) error {
	return m.withInstance(gameID, func(in *instance) error {
		return in.game.FormTeams(size, in.rng)
	})
}

// SetOption updates one policy option of a game.
func (m *Manager) SetOption(gameID, name string, value any) error {
	return m.withInstance(gameID, func(in *instance) error {
		return in.game.Options.Set(name, value)
	})
}

// AddCustomTemplate registers a per-game event template in the named
// set ("bloodbath" or "player").
func (m *Manager) AddCustomTemplate(gameID, set string, t event.Template) error {
	return m.withInstance(gameID, func(in *instance) error {
		return m.templates.AddCustom(gameID, set, t)
	})
}

// StartDay simulates one full day of a game.
func (m *Manager) StartDay(gameID string) (dayNum, eventCount int, err error) {
	err = m.withInstance(gameID, func(in *instance) error {
		day, err := m.engine.StartDay(in.game, m.templates.ForGame(gameID), in.rng)
		if err != nil {
			return err
		}
		dayNum, eventCount = day.Num, len(day.Events)
		if m.notifier != nil {
			m.notifier.DayBegan(gameID, day.Num, len(day.Events))
		}
		return nil
	})
	return dayNum, eventCount, err
}

// AdvanceReveal discloses the next buffered Final Event of the current
// day. It returns (nil, false, nil) once everything is revealed; the
// call is idempotent at that point.
func (m *Manager) AdvanceReveal(gameID string) (ev *event.FinalEvent, more bool, err error) {
	err = m.withInstance(gameID, func(in *instance) error {
		dayNum := in.game.Day.Num
		wasRevealing := in.game.Day.State >= game.DayRevealBase
		ev, more, err = m.engine.AdvanceReveal(in.game)
		if err != nil {
			return err
		}
		if m.notifier != nil {
			if ev != nil {
				m.notifier.EventRevealed(gameID, *ev, more)
			}
			// wasRevealing keeps idempotent calls after the day ended
			// from re-announcing the same day.
			if wasRevealing && !more && in.game.Day.State == game.DayNotStarted {
				m.notifier.DayEnded(gameID, dayNum, in.game.Winner)
			}
		}
		return nil
	})
	return ev, more, err
}

// HasMoreReveals reports whether another Final Event is buffered. Hosts
// use it to drive reveal pacing from any scheduling mechanism.
func (m *Manager) HasMoreReveals(gameID string) (more bool, err error) {
	err = m.withInstance(gameID, func(in *instance) error {
		more = in.game.Day.HasMoreReveals()
		return nil
	})
	return more, err
}

// EndGame aborts a game: whatever day state exists is frozen, the game
// is marked ended and no further simulation is possible.
func (m *Manager) EndGame(gameID string) error {
	return m.withInstance(gameID, func(in *instance) error {
		in.game.Ended = true
		in.game.InProgress = false
		in.game.Day.State = game.DayNotStarted
		m.log.Event("GAME_ENDED", gameID, "aborted by host")
		return nil
	})
}

// DeleteGame unregisters an instance and removes its persisted state and
// custom templates.
func (m *Manager) DeleteGame(ctx context.Context, gameID string) error {
	m.mu.Lock()
	_, ok := m.instances[gameID]
	delete(m.instances, gameID)
	m.mu.Unlock()
	if !ok {
		return game.ErrNoSuchGame
	}

	m.templates.RemoveCustom(gameID)
	if m.repo != nil {
		if err := m.repo.Delete(ctx, gameID); err != nil {
			m.log.Error("Could not delete persisted game " + gameID + ": " + err.Error())
		}
	}
	return nil
}

// Snapshot returns the serialized state of an instance: the same
// structured document the persistence layer stores.
func (m *Manager) Snapshot(gameID string) ([]byte, error) {
	var raw []byte
	err := m.withInstance(gameID, func(in *instance) error {
		var err error
		raw, err = json.Marshal(in.game)
		return err
	})
	return raw, err
}

// withInstance runs fn under the instance lock and persists the state
// afterwards. Persistence is best-effort: a failing store is logged, it
// never makes a host command fail.
func (m *Manager) withInstance(gameID string, fn func(*instance) error) error {
	m.mu.RLock()
	in, ok := m.instances[gameID]
	m.mu.RUnlock()
	if !ok {
		return game.ErrNoSuchGame
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	// Persist even when fn fails: ErrNoValidEvent aborts a day but keeps
	// the effects of events already applied, and those must survive a
	// restart. Saving an unchanged state is harmless.
	err := fn(in)
	m.persist(in)
	return err
}

func (m *Manager) persist(in *instance) {
	if m.repo == nil {
		return
	}

	raw, err := json.Marshal(in.game)
	if err != nil {
		m.log.Error("Could not serialize game " + in.game.ID + ": " + err.Error())
		return
	}
	doc := storage.GameDocument{GameID: in.game.ID, State: raw, UpdatedAt: time.Now().UTC()}
	if err := m.repo.Save(context.Background(), doc); err != nil {
		m.log.Error("Could not persist game " + in.game.ID + ": " + err.Error())
	}
}
