package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
)

// AdminHandler serves catalog edits. Every route requires the bearer token.
type AdminHandler struct {
	deps  AdminDependencies
	token string
}

// NewAdminHandler creates a new admin handler. An empty token disables it.
func NewAdminHandler(deps AdminDependencies, token string) *AdminHandler {
	return &AdminHandler{deps: deps, token: token}
}

type updateComponentRequest struct {
	OldName   string          `json:"old_name"`
	Component model.Component `json:"component"`
}

type deleteComponentsRequest struct {
	Type  model.ComponentType `json:"type"`
	Names []string            `json:"names"`
}

type updateGameRequest struct {
	OldTitle string     `json:"old_title"`
	Game     model.Game `json:"game"`
}

type deleteGamesRequest struct {
	Titles []string `json:"titles"`
}

type deletedResponse struct {
	Deleted int `json:"deleted"`
}

// guard rejects requests without the admin bearer token.
func (h *AdminHandler) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" || h.deps == nil {
			writeError(w, http.StatusForbidden, "forbidden", ErrForbidden)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(h.token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="rigcheck-admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
			return
		}
		next(w, r)
	}
}

// HandleComponents handles GET|POST|PUT|DELETE /admin/components.
func (h *AdminHandler) HandleComponents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		t, err := componentTypeParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeJSON(w, http.StatusOK, componentsResponse{Components: h.deps.Components(ctx, t)})

	case http.MethodPost:
		var c model.Component
		if err := decodeJSON(r, &c); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		saved, err := h.deps.AddComponent(ctx, c)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)

	case http.MethodPut:
		var req updateComponentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		saved, err := h.deps.UpdateComponent(ctx, strings.TrimSpace(req.OldName), req.Component)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		var req deleteComponentsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if len(req.Names) == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: no names", ErrBadRequest))
			return
		}
		n, err := h.deps.DeleteComponents(ctx, req.Type, req.Names...)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

// HandleGames handles GET|POST|PUT|DELETE /admin/games.
func (h *AdminHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, gamesResponse{Games: h.deps.Games(ctx)})

	case http.MethodPost:
		var g model.Game
		if err := decodeJSON(r, &g); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		saved, err := h.deps.AddGame(ctx, g)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)

	case http.MethodPut:
		var req updateGameRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		saved, err := h.deps.UpdateGame(ctx, strings.TrimSpace(req.OldTitle), req.Game)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		var req deleteGamesRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if len(req.Titles) == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: no titles", ErrBadRequest))
			return
		}
		n, err := h.deps.DeleteGames(ctx, req.Titles...)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

// HandleReload handles POST /admin/reload.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	version, err := h.deps.Reload(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "version": version})
}

// HandleStats handles GET /admin/stats.
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st, err := h.deps.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
