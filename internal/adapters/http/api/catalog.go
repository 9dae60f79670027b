package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
)

// CatalogHandler serves read-only views of games and components.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type gamesResponse struct {
	Games []model.Game `json:"games"`
}

type componentsResponse struct {
	Components []model.Component `json:"components"`
}

// HandleListGames handles GET /games requests.
func (h *CatalogHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Games: h.deps.Games(r.Context())})
}

// HandleGetGame handles GET /games/{title} requests.
func (h *CatalogHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	title := strings.TrimPrefix(r.URL.Path, "/games/")
	if strings.TrimSpace(title) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing title", ErrBadRequest))
		return
	}
	g, err := h.deps.Game(r.Context(), title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleListComponents handles GET /components?type= requests.
func (h *CatalogHandler) HandleListComponents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	t, err := componentTypeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, componentsResponse{Components: h.deps.Components(r.Context(), t)})
}

// componentTypeParam parses the optional ?type= query parameter.
func componentTypeParam(r *http.Request) (model.ComponentType, error) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return "", nil
	}
	t, err := model.ParseComponentType(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return t, nil
}
