// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/internal/domain/scoring"
	"github.com/okian/rigcheck/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by the public handlers.
type Dependencies interface {
	Assess(ctx context.Context, requestID string, pc model.PC, title string) (scoring.Assessment, error)
	Upgrades(ctx context.Context, pc model.PC, title string, budget model.Budget) (scoring.Plan, error)
	Graph(ctx context.Context, pc model.PC) []scoring.GraphPoint
	Games(ctx context.Context) []model.Game
	Game(ctx context.Context, title string) (model.Game, error)
	Components(ctx context.Context, t model.ComponentType) []model.Component
	Stats(ctx context.Context) (service.Stats, error)
}

// AdminDependencies are the catalog edits behind /admin.
type AdminDependencies interface {
	AddComponent(ctx context.Context, c model.Component) (model.Component, error)
	UpdateComponent(ctx context.Context, oldName string, c model.Component) (model.Component, error)
	DeleteComponents(ctx context.Context, t model.ComponentType, names ...string) (int, error)
	AddGame(ctx context.Context, g model.Game) (model.Game, error)
	UpdateGame(ctx context.Context, oldTitle string, g model.Game) (model.Game, error)
	DeleteGames(ctx context.Context, titles ...string) (int, error)
	Reload(ctx context.Context) (uint64, error)
	Stats(ctx context.Context) (service.Stats, error)
	Components(ctx context.Context, t model.ComponentType) []model.Component
	Games(ctx context.Context) []model.Game
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	checkHandler   *CheckHandler
	catalogHandler *CatalogHandler
	adminHandler   *AdminHandler
	logger         logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAdmin enables the /admin routes guarded by token. An empty token keeps
// them registered but answering 403.
func WithAdmin(deps AdminDependencies, token string) ServerOption {
	return func(s *Server) {
		s.adminHandler = NewAdminHandler(deps, token)
	}
}

// WithServerLogger sets the logger used for internal errors.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		checkHandler:   NewCheckHandler(deps),
		catalogHandler: NewCatalogHandler(deps),
		logger:         logger.Get().Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.catalogHandler.HandleListGames, "games"))
	mux.HandleFunc("/games/", MetricsMiddleware(s.catalogHandler.HandleGetGame, "game"))
	mux.HandleFunc("/components", MetricsMiddleware(s.catalogHandler.HandleListComponents, "components"))
	mux.HandleFunc("/compatibility", MetricsMiddleware(s.checkHandler.HandleCompatibility, "compatibility"))
	mux.HandleFunc("/upgrades", MetricsMiddleware(s.checkHandler.HandleUpgrades, "upgrades"))
	mux.HandleFunc("/performance-graph", MetricsMiddleware(s.checkHandler.HandleGraph, "performance_graph"))

	admin := s.adminHandler
	if admin == nil {
		admin = NewAdminHandler(nil, "")
	}
	mux.HandleFunc("/admin/components", MetricsMiddleware(admin.guard(admin.HandleComponents), "admin_components"))
	mux.HandleFunc("/admin/games", MetricsMiddleware(admin.guard(admin.HandleGames), "admin_games"))
	mux.HandleFunc("/admin/reload", MetricsMiddleware(admin.guard(admin.HandleReload), "admin_reload"))
	mux.HandleFunc("/admin/stats", MetricsMiddleware(admin.guard(admin.HandleStats), "admin_stats"))
}

// pcRequest mirrors the PC object of the OpenAPI schema.
type pcRequest struct {
	CPU     string `json:"cpu"`
	GPU     string `json:"gpu"`
	RAM     string `json:"ram"`
	Storage string `json:"storage"`
	OS      string `json:"os"`
}

func (p pcRequest) validate() (model.PC, error) {
	pc := model.PC{
		CPU:     strings.TrimSpace(p.CPU),
		GPU:     strings.TrimSpace(p.GPU),
		RAM:     strings.TrimSpace(p.RAM),
		Storage: strings.TrimSpace(p.Storage),
		OS:      strings.TrimSpace(p.OS),
	}
	switch {
	case pc.CPU == "":
		return pc, errors.New("missing pc.cpu")
	case pc.GPU == "":
		return pc, errors.New("missing pc.gpu")
	}
	return pc, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// methodNotAllowed answers 405 and lists the accepted methods.
func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoring.ErrUnknownGame), errors.Is(err, catalog.ErrNotFound), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, scoring.ErrInvalidBudget),
		errors.Is(err, catalog.ErrInvalidComponent),
		errors.Is(err, catalog.ErrInvalidGame):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
