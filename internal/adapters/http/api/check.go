package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/internal/domain/scoring"
)

// Upgrade response texts.
const (
	idealPCMessage = "Your PC is already ideal for this game"
)

var budgetMessages = map[model.Budget]string{
	model.BudgetLow:    "Budget picks",
	model.BudgetMedium: "Balanced picks",
	model.BudgetHigh:   "Premium picks",
}

// CheckHandler serves compatibility checks, upgrade plans and graphs.
type CheckHandler struct {
	deps Dependencies
}

// NewCheckHandler creates a new check handler.
func NewCheckHandler(deps Dependencies) *CheckHandler {
	return &CheckHandler{deps: deps}
}

type compatibilityRequest struct {
	PC   pcRequest `json:"pc"`
	Game string    `json:"game"`
}

type upgradesRequest struct {
	PC     pcRequest `json:"pc"`
	Game   string    `json:"game"`
	Budget string    `json:"budget"`
}

type upgradesResponse struct {
	Game            string          `json:"game"`
	Budget          model.Budget    `json:"budget"`
	BudgetMessage   string          `json:"budget_message"`
	Recommendations []model.Upgrade `json:"recommendations"`
	TotalCost       float64         `json:"total_cost"`
	Summary         string          `json:"summary"`
}

type graphRequest struct {
	PC pcRequest `json:"pc"`
}

type graphResponse struct {
	Games []scoring.GraphPoint `json:"games"`
}

// HandleCompatibility handles POST /compatibility requests.
func (h *CheckHandler) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req compatibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	pc, err := req.PC.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	title := strings.TrimSpace(req.Game)
	if title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing game", ErrBadRequest))
		return
	}

	a, err := h.deps.Assess(r.Context(), RequestIDFromContext(r.Context()), pc, title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleUpgrades handles POST /upgrades requests.
func (h *CheckHandler) HandleUpgrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req upgradesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	pc, err := req.PC.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	title := strings.TrimSpace(req.Game)
	if title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing game", ErrBadRequest))
		return
	}
	budget, err := model.ParseBudget(req.Budget)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	plan, err := h.deps.Upgrades(r.Context(), pc, title, budget)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, upgradesResponse{
		Game:            title,
		Budget:          plan.Budget,
		BudgetMessage:   budgetMessages[plan.Budget],
		Recommendations: plan.Recommendations,
		TotalCost:       plan.TotalCost,
		Summary:         summary(plan),
	})
}

func summary(p scoring.Plan) string {
	if len(p.Recommendations) == 0 {
		return idealPCMessage
	}
	return fmt.Sprintf("%d component(s) recommended", len(p.Recommendations))
}

// HandleGraph handles POST /performance-graph requests.
func (h *CheckHandler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req graphRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	pc, err := req.PC.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, graphResponse{Games: h.deps.Graph(r.Context(), pc)})
}
