package scoring

import (
	"math"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

// Estimator constants.
const (
	gpuWeight = 0.55
	cpuWeight = 0.30
	ramWeight = 0.15

	// TargetFPS is what a PC matching the recommended tier should reach.
	TargetFPS = 60
	// FallbackMultiplier converts a weighted score to FPS when no calibration is possible.
	FallbackMultiplier = 0.4
	// MinFPS is the lowest value an estimate reports.
	MinFPS = 5

	fallbackCPUAverage = 175
	fallbackGPUAverage = 150
	fallbackRAMLabel   = "16 GB"
)

// WeightedScore combines part scores. GPU dominates, then CPU, then RAM.
func WeightedScore(s Scores) float64 {
	return gpuWeight*s.GPU + cpuWeight*s.CPU + ramWeight*s.RAM
}

// TierScores averages the candidate scores of a requirement tier.
// Empty candidate lists fall back to fixed averages.
func TierScores(cat *catalog.Catalog, t model.Tier) Scores {
	ram := t.RAM
	if ram == "" {
		ram = fallbackRAMLabel
	}
	return Scores{
		CPU: average(cat, t.CPU, model.CPU, fallbackCPUAverage),
		GPU: average(cat, t.GPU, model.GPU, fallbackGPUAverage),
		RAM: Performance(cat, ram, model.RAM),
	}
}

// Multiplier calibrates the weighted score so that the game's recommended
// tier maps to TargetFPS.
func Multiplier(cat *catalog.Catalog, recommended model.Tier) float64 {
	rec := WeightedScore(TierScores(cat, recommended))
	if rec <= 0 || math.IsNaN(rec) {
		return FallbackMultiplier
	}
	return TargetFPS / rec
}

// EstimateFPS estimates the frame rate of pc in game. A nil game is the
// degraded mode for unregistered titles and uses FallbackMultiplier.
func EstimateFPS(cat *catalog.Catalog, game *model.Game, pc model.PC) int {
	return estimate(cat, game, ScorePC(cat, pc))
}

func estimate(cat *catalog.Catalog, game *model.Game, s Scores) int {
	m := FallbackMultiplier
	if game != nil {
		m = Multiplier(cat, game.Recommended)
	}
	fps := int(math.Round(WeightedScore(s) * m))
	if fps < MinFPS {
		return MinFPS
	}
	return fps
}

func average(cat *catalog.Catalog, names []string, t model.ComponentType, fallback float64) float64 {
	if len(names) == 0 {
		return fallback
	}
	var sum float64
	for _, n := range names {
		sum += Performance(cat, n, t)
	}
	return sum / float64(len(names))
}
