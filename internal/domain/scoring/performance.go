package scoring

import (
	"math"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

// Performance returns the score of a part: the catalog entry when the name is
// catalogued (exact, then case-insensitive), the name heuristic otherwise.
// Catalog data always wins over the heuristic.
func Performance(cat *catalog.Catalog, name string, t model.ComponentType) float64 {
	if name == "" {
		return NeutralScore
	}
	if e, ok := cat.Lookup(t, name); ok {
		if e.Performance > 0 && !math.IsInf(e.Performance, 0) {
			return e.Performance
		}
		return NeutralScore
	}
	return EstimateFromName(name, t)
}

// Scores holds the per-part performance used in an estimate.
type Scores struct {
	CPU float64 `json:"cpu"`
	GPU float64 `json:"gpu"`
	RAM float64 `json:"ram"`
}

// ScorePC looks up all three parts of pc.
func ScorePC(cat *catalog.Catalog, pc model.PC) Scores {
	return Scores{
		CPU: Performance(cat, pc.CPU, model.CPU),
		GPU: Performance(cat, pc.GPU, model.GPU),
		RAM: Performance(cat, pc.RAM, model.RAM),
	}
}
