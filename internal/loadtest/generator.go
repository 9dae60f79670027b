package loadtest

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/rigcheck/internal/domain/model"
)

// catalogView is the subset of the public catalog a run draws from.
type catalogView struct {
	games []string
	parts map[model.ComponentType][]string
}

// generate builds n distinct checks plus round(n*retryRatio) resends of
// earlier ones. Resends reuse the request id, so the server must record them
// once.
func generate(rng *rand.Rand, view catalogView, n int, retryRatio float64) []Check {
	checks := make([]Check, 0, n+int(float64(n)*retryRatio+0.5))
	for range n {
		checks = append(checks, Check{
			RequestID: uuid.NewString(),
			PC: model.PC{
				CPU: pick(rng, view.parts[model.CPU]),
				GPU: pick(rng, view.parts[model.GPU]),
				RAM: pick(rng, view.parts[model.RAM]),
			},
			Game: pick(rng, view.games),
		})
	}
	retries := int(float64(n)*retryRatio + 0.5)
	for range retries {
		checks = append(checks, checks[rng.IntN(n)])
	}
	rng.Shuffle(len(checks), func(i, j int) { checks[i], checks[j] = checks[j], checks[i] })
	return checks
}

func pick(rng *rand.Rand, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[rng.IntN(len(names))]
}
