package manager

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/engine"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/infra/storage"
	"github.com/panembot/games-server/internal/platform/logger"
	"github.com/panembot/games-server/internal/templates"
)

// memRepo is an in-memory GameRepository for tests.
type memRepo struct {
	mu   sync.Mutex
	docs map[string]storage.GameDocument
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[string]storage.GameDocument)}
}

func (r *memRepo) Save(_ context.Context, doc storage.GameDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.GameID] = doc
	return nil
}

func (r *memRepo) Get(_ context.Context, gameID string) (*storage.GameDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[gameID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *memRepo) List(_ context.Context) ([]storage.GameDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]storage.GameDocument, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, gameID)
	return nil
}

// recordingNotifier counts presentation callbacks.
type recordingNotifier struct {
	dayBegan  int
	revealed  int
	dayEnded  int
	lastBegan int
}

func (n *recordingNotifier) DayBegan(_ string, dayNum, _ int) {
	n.dayBegan++
	n.lastBegan = dayNum
}
func (n *recordingNotifier) EventRevealed(_ string, _ event.FinalEvent, _ bool) { n.revealed++ }
func (n *recordingNotifier) DayEnded(_ string, _ int, _ *game.Winner)          { n.dayEnded++ }

func newTestManager(t *testing.T, repo storage.GameRepository) *Manager {
	t.Helper()
	log := logger.NewLogger()
	store, err := templates.NewStore("", log)
	require.NoError(t, err)
	return New(engine.New(log, nil), store, repo, log)
}

func addPlayers(t *testing.T, m *Manager, gameID string, n int) {
	t.Helper()
	names := []string{"Asher", "Briar", "Cove", "Daxton", "Emberly", "Fable"}
	for i := 0; i < n; i++ {
		require.NoError(t, m.IncludePlayer(gameID, names[i][:2], names[i]))
	}
}

func TestCreateGameGeneratesID(t *testing.T) {
	m := newTestManager(t, nil)

	id, err := m.CreateGame("")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, m.GameIDs(), id)
}

func TestCreateGameRejectsDuplicateID(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.CreateGame("g1")
	require.NoError(t, err)
	_, err = m.CreateGame("g1")
	assert.Error(t, err)
}

func TestUnknownGameFails(t *testing.T) {
	m := newTestManager(t, nil)

	assert.ErrorIs(t, m.IncludePlayer("missing", "p1", "P"), game.ErrNoSuchGame)
	_, _, err := m.StartDay("missing")
	assert.ErrorIs(t, err, game.ErrNoSuchGame)
	assert.ErrorIs(t, m.DeleteGame(context.Background(), "missing"), game.ErrNoSuchGame)
}

func TestSetOptionSurfacesValidation(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.CreateGame("g1")
	require.NoError(t, err)

	require.NoError(t, m.SetOption("g1", "allowNoVictors", true))
	assert.ErrorIs(t, m.SetOption("g1", "bogus", 1), game.ErrInvalidOption)
}

func TestStartDayWhileRevealingFails(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	addPlayers(t, m, "g1", 4)

	_, _, err = m.StartDay("g1")
	require.NoError(t, err)
	_, _, err = m.StartDay("g1")
	assert.ErrorIs(t, err, game.ErrAlreadyInProgress)
}

func TestRevealPacing(t *testing.T) {
	m := newTestManager(t, nil)
	n := &recordingNotifier{}
	m.SetNotifier(n)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	addPlayers(t, m, "g1", 4)

	dayNum, eventCount, err := m.StartDay("g1")
	require.NoError(t, err)
	assert.Equal(t, 0, dayNum)
	require.Greater(t, eventCount, 0)
	assert.Equal(t, 1, n.dayBegan)
	assert.Equal(t, 0, n.lastBegan)

	revealed := 0
	for {
		ev, more, err := m.AdvanceReveal("g1")
		require.NoError(t, err)
		if ev != nil {
			revealed++
		}
		if !more {
			break
		}
	}
	assert.Equal(t, eventCount, revealed)
	assert.Equal(t, eventCount, n.revealed)
	assert.Equal(t, 1, n.dayEnded)

	// Idempotent calls after the last reveal notify nothing further.
	ev, more, err := m.AdvanceReveal("g1")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.False(t, more)
	assert.Equal(t, eventCount, n.revealed)
	assert.Equal(t, 1, n.dayEnded)

	hasMore, err := m.HasMoreReveals("g1")
	require.NoError(t, err)
	assert.False(t, hasMore)
}

func TestEndGameFreezesInstance(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	addPlayers(t, m, "g1", 4)

	_, _, err = m.StartDay("g1")
	require.NoError(t, err)
	require.NoError(t, m.EndGame("g1"))

	_, _, err = m.StartDay("g1")
	assert.ErrorIs(t, err, game.ErrGameEnded)
	assert.ErrorIs(t, m.IncludePlayer("g1", "p9", "Late"), game.ErrGameEnded)
}

func TestPersistenceRoundtrip(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	addPlayers(t, m, "g1", 4)
	_, eventCount, err := m.StartDay("g1")
	require.NoError(t, err)

	doc, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, doc)

	var stored game.Game
	require.NoError(t, json.Unmarshal(doc.State, &stored))
	assert.Equal(t, "g1", stored.ID)
	assert.Len(t, stored.Players, 4)
	assert.Len(t, stored.Day.Events, eventCount)

	// A fresh manager picks the instance back up mid-reveal.
	m2 := newTestManager(t, repo)
	m2.LoadAll(context.Background())
	require.Contains(t, m2.GameIDs(), "g1")

	more, err := m2.HasMoreReveals("g1")
	require.NoError(t, err)
	assert.True(t, more)
}

func TestLoadAllNormalizesMissingDay(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Save(context.Background(), storage.GameDocument{
		GameID: "g1", State: []byte(`{"id":"g1","players":[],"num_alive":0}`),
	}))

	m := newTestManager(t, repo)
	m.LoadAll(context.Background())
	require.Contains(t, m.GameIDs(), "g1")

	// Every host command on the restored instance must answer normally.
	ev, more, err := m.AdvanceReveal("g1")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.False(t, more)

	hasMore, err := m.HasMoreReveals("g1")
	require.NoError(t, err)
	assert.False(t, hasMore)

	require.NoError(t, m.EndGame("g1"))
}

func TestLoadAllSkipsCorruptDocuments(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Save(context.Background(), storage.GameDocument{
		GameID: "broken", State: []byte("{not json"),
	}))

	healthy, err := json.Marshal(game.New("g1"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), storage.GameDocument{
		GameID: "g1", State: healthy,
	}))

	m := newTestManager(t, repo)
	m.LoadAll(context.Background())

	ids := m.GameIDs()
	assert.Equal(t, []string{"g1"}, ids)
}

func TestDeleteGameRemovesEverything(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	require.NoError(t, m.IncludePlayer("g1", "p1", "Asher"))

	require.NoError(t, m.AddCustomTemplate("g1", "player", event.Template{
		Message: "{victim} naps in a tree.",
		Victim:  event.Side{Count: 1, Outcome: event.OutcomeNone},
	}))

	require.NoError(t, m.DeleteGame(context.Background(), "g1"))

	assert.NotContains(t, m.GameIDs(), "g1")
	doc, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSnapshotMatchesPersistedDocument(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	require.NoError(t, m.IncludePlayer("g1", "p1", "Asher"))

	raw, err := m.Snapshot("g1")
	require.NoError(t, err)

	doc, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.JSONEq(t, string(doc.State), string(raw))
}

func TestFailedCommandStillPersists(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo)
	_, err := m.CreateGameWithSeed("g1", 42)
	require.NoError(t, err)
	require.NoError(t, m.IncludePlayer("g1", "p1", "Asher"))

	// Wipe the stored document, then run a command that fails. The state
	// must be written back regardless: a day aborted by the selector
	// keeps its applied effects, so every command persists on exit.
	require.NoError(t, repo.Delete(context.Background(), "g1"))
	assert.ErrorIs(t, m.SetOption("g1", "bogus", 1), game.ErrInvalidOption)

	doc, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, doc)

	var stored game.Game
	require.NoError(t, json.Unmarshal(doc.State, &stored))
	assert.Len(t, stored.Players, 1)
}
