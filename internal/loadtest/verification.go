package loadtest

import (
	"fmt"
	"sort"
)

// expectedPopular orders local per-game counts the way the server does:
// most checks first, ties by title.
func expectedPopular(recorded map[string]string) []GameCount {
	counts := make(map[string]int)
	for _, game := range recorded {
		counts[game]++
	}
	out := make([]GameCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GameCount{Game: g, Checks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Checks != out[j].Checks {
			return out[i].Checks > out[j].Checks
		}
		return out[i].Game < out[j].Game
	})
	return out
}

// verify compares the recorded history with what was sent. Popular games are
// only compared exactly when the history was empty before the run.
func verify(before, after adminStats, recorded map[string]string) error {
	if got, want := after.TotalChecks-before.TotalChecks, len(recorded); got != want {
		return fmt.Errorf("%w: %d checks recorded, %d distinct requests succeeded", ErrMismatch, got, want)
	}
	for i := 1; i < len(after.PopularGames); i++ {
		a, b := after.PopularGames[i-1], after.PopularGames[i]
		if a.Checks < b.Checks || (a.Checks == b.Checks && a.Game > b.Game) {
			return fmt.Errorf("%w: popular games out of order at %d", ErrMismatch, i)
		}
	}
	if before.TotalChecks != 0 {
		return nil
	}
	want := expectedPopular(recorded)
	if len(want) > len(after.PopularGames) {
		want = want[:len(after.PopularGames)]
	}
	for i, w := range want {
		if after.PopularGames[i] != w {
			return fmt.Errorf("%w: popular game %d is %+v, want %+v", ErrMismatch, i, after.PopularGames[i], w)
		}
	}
	return nil
}
