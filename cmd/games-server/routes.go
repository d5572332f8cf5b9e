package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/manager"
	"github.com/panembot/games-server/internal/platform/logger"
)

// registerRoutes wires the host scheduling API. Every endpoint returns a
// JSON body and maps engine errors to HTTP statuses; nothing ever panics
// across this boundary.
func registerRoutes(mux *http.ServeMux, mgr *manager.Manager, log *logger.Logger) {
	h := &apiHandler{mgr: mgr, log: log}

	mux.HandleFunc("POST /api/games", h.createGame)
	mux.HandleFunc("GET /api/games", h.listGames)
	mux.HandleFunc("GET /api/games/{id}", h.getGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.deleteGame)
	mux.HandleFunc("POST /api/games/{id}/players", h.includePlayer)
	mux.HandleFunc("DELETE /api/games/{id}/players/{playerID}", h.excludePlayer)
	mux.HandleFunc("POST /api/games/{id}/teams", h.formTeams)
	mux.HandleFunc("POST /api/games/{id}/options", h.setOption)
	mux.HandleFunc("POST /api/games/{id}/templates", h.addTemplate)
	mux.HandleFunc("POST /api/games/{id}/day", h.startDay)
	mux.HandleFunc("POST /api/games/{id}/reveal", h.advanceReveal)
	mux.HandleFunc("POST /api/games/{id}/end", h.endGame)
}

type apiHandler struct {
	mgr *manager.Manager
	log *logger.Logger
}

func (h *apiHandler) createGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decode(w, r, &req) {
		return
	}
	id, err := h.mgr.CreateGame(req.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *apiHandler) listGames(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"games": h.mgr.GameIDs()})
}

func (h *apiHandler) getGame(w http.ResponseWriter, r *http.Request) {
	raw, err := h.mgr.Snapshot(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *apiHandler) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *apiHandler) includePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.ID == "" || req.Name == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "player id and name required"})
		return
	}
	if err := h.mgr.IncludePlayer(r.PathValue("id"), req.ID, req.Name); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "included"})
}

func (h *apiHandler) excludePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.ExcludePlayer(r.PathValue("id"), r.PathValue("playerID")); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "excluded"})
}

func (h *apiHandler) formTeams(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size int `json:"size"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.mgr.FormTeams(r.PathValue("id"), req.Size); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "teams formed"})
}

func (h *apiHandler) setOption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.mgr.SetOption(r.PathValue("id"), req.Name, req.Value); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "option set"})
}

func (h *apiHandler) addTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Set      string         `json:"set"`
		Template event.Template `json:"template"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.mgr.AddCustomTemplate(r.PathValue("id"), req.Set, req.Template); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "template added"})
}

func (h *apiHandler) startDay(w http.ResponseWriter, r *http.Request) {
	dayNum, count, err := h.mgr.StartDay(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"day": dayNum, "events": count})
}

func (h *apiHandler) advanceReveal(w http.ResponseWriter, r *http.Request) {
	ev, more, err := h.mgr.AdvanceReveal(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"event": ev, "more": more})
}

func (h *apiHandler) endGame(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.EndGame(r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ended"})
}

// fail maps engine errors to HTTP statuses.
func (h *apiHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNoSuchGame):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidOption):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrAlreadyInProgress),
		errors.Is(err, game.ErrGameInProgress),
		errors.Is(err, game.ErrGameEnded):
		status = http.StatusConflict
	case errors.Is(err, game.ErrNoValidEvent):
		// Fatal to the day, recoverable for the game: the host may retry
		// the day or abort.
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.log.Error("API error: " + err.Error())
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
