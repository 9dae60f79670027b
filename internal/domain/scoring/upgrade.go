package scoring

import (
	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

// affordableRAM replaces a high-budget RAM target for low-budget shoppers.
const affordableRAM = "16 GB"

// allowedBudgets lists which catalog brackets a shopper's budget may pick from.
var allowedBudgets = map[model.Budget][]model.Budget{
	model.BudgetLow:    {model.BudgetLow, model.BudgetMedium},
	model.BudgetMedium: {model.BudgetMedium},
	model.BudgetHigh:   {model.BudgetMedium, model.BudgetHigh},
}

// Allowed reports whether a part in bracket part may be offered to a shopper
// with budget. Unknown shopper budgets are treated as medium.
func Allowed(budget, part model.Budget) bool {
	set, ok := allowedBudgets[budget]
	if !ok {
		set = allowedBudgets[model.BudgetMedium]
	}
	for _, b := range set {
		if b == part {
			return true
		}
	}
	return false
}

// Plan is the set of upgrades proposed for one game and budget.
type Plan struct {
	Recommendations []model.Upgrade `json:"recommendations"`
	TotalCost       float64         `json:"total_cost"`
	Budget          model.Budget    `json:"budget"`
}

func (p *Plan) add(u model.Upgrade) {
	p.Recommendations = append(p.Recommendations, u)
	p.TotalCost += u.Price
}

// SelectUpgrades proposes parts from the game's high tier that beat the
// user's current CPU and GPU within budget, plus RAM up to the high tier size.
// Candidates missing from the catalog are skipped.
func SelectUpgrades(cat *catalog.Catalog, pc model.PC, game model.Game, budget model.Budget) Plan {
	plan := Plan{Recommendations: []model.Upgrade{}, Budget: budget}

	for _, t := range []model.ComponentType{model.CPU, model.GPU} {
		current := pc.Part(t)
		candidates := highCandidates(game, t)
		if contains(candidates, current) {
			continue
		}
		name, e, ok := bestCandidate(cat, t, candidates, Performance(cat, current, t), budget)
		if !ok || name == current {
			continue
		}
		plan.add(upgrade(t, current, name, e, model.PriorityHigh))
	}

	if u, ok := selectRAM(cat, pc.RAM, game.High.RAM, budget); ok {
		plan.add(u)
	}
	return plan
}

// bestCandidate picks the highest scoring candidate that is strictly faster
// than current and sits in an allowed bracket.
func bestCandidate(cat *catalog.Catalog, t model.ComponentType, names []string, current float64, budget model.Budget) (string, model.Component, bool) {
	var (
		bestName string
		best     model.Component
		found    bool
	)
	bestScore := current
	for _, n := range names {
		e, ok := cat.Lookup(t, n)
		if !ok {
			continue
		}
		if Allowed(budget, e.Budget) && e.Performance > bestScore {
			bestScore = e.Performance
			bestName, best, found = n, e, true
		}
	}
	return bestName, best, found
}

func selectRAM(cat *catalog.Catalog, current, required string, budget model.Budget) (model.Upgrade, bool) {
	have, ok := model.LeadingInt(current)
	if !ok {
		return model.Upgrade{}, false
	}
	need, ok := model.LeadingInt(required)
	if !ok || have >= need {
		return model.Upgrade{}, false
	}
	e, ok := cat.Lookup(model.RAM, required)
	if !ok {
		return model.Upgrade{}, false
	}
	target := required
	if budget == model.BudgetLow && e.Budget == model.BudgetHigh {
		size, _ := model.LeadingInt(affordableRAM)
		if size <= have {
			return model.Upgrade{}, false
		}
		if e, ok = cat.Lookup(model.RAM, affordableRAM); !ok {
			return model.Upgrade{}, false
		}
		target = affordableRAM
	}
	if target == current {
		return model.Upgrade{}, false
	}
	return upgrade(model.RAM, current, target, e, model.PriorityMedium), true
}

func upgrade(t model.ComponentType, current, name string, e model.Component, p model.Priority) model.Upgrade {
	return model.Upgrade{
		Category:    t,
		Current:     current,
		Recommended: name,
		Price:       e.Price,
		Priority:    p,
		Budget:      e.Budget,
		Link:        e.Link,
	}
}

func highCandidates(g model.Game, t model.ComponentType) []string {
	if t == model.CPU {
		return g.High.CPU
	}
	return g.High.GPU
}

func contains(names []string, s string) bool {
	for _, n := range names {
		if n == s {
			return true
		}
	}
	return false
}
