package api

import (
	"context"
	"net/http"

	service "github.com/okian/rigcheck/internal/app"
	"github.com/okian/rigcheck/internal/domain/model"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	Stats(ctx context.Context) (service.Stats, error)
}

// StatsHandler handles public stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

type publicStats struct {
	Games      int                         `json:"games"`
	Components int                         `json:"components"`
	ByType     map[model.ComponentType]int `json:"components_by_type"`
	Version    uint64                      `json:"version"`
}

// HandleStats handles GET /stats requests. History figures are admin only.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st, err := h.statsProvider.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicStats{
		Games:      st.Games,
		Components: st.Components,
		ByType:     st.ByType,
		Version:    st.Version,
	})
}
