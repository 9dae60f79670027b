package catalog

import (
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
)

const shopSearchURL = "https://www.dns-shop.ru/search/?q="

// part is a compact row of the built-in component table.
type part struct {
	name   string
	price  float64
	perf   float64
	budget model.Budget
	// search overrides the shop query, used by the legacy aliases.
	search string
}

func (p part) component(t model.ComponentType) model.Component {
	q := p.search
	if q == "" {
		q = p.name
	}
	return model.Component{
		Type:        t,
		Name:        p.name,
		Price:       p.price,
		Performance: p.perf,
		Budget:      p.budget,
		Link:        shopSearchURL + strings.ReplaceAll(q, " ", "+"),
	}
}

const (
	low    = model.BudgetLow
	medium = model.BudgetMedium
	high   = model.BudgetHigh
)

var defaultCPUs = []part{
	{name: "Intel Core i3-10100", price: 90, perf: 95, budget: low},
	{name: "Intel Core i3-12100", price: 110, perf: 110, budget: low},
	{name: "Intel Core i5-10400", price: 130, perf: 155, budget: low},
	{name: "Intel Core i5-12400", price: 180, perf: 180, budget: medium},
	{name: "Intel Core i5-13400", price: 210, perf: 190, budget: medium},
	{name: "Intel Core i5-13600K", price: 280, perf: 215, budget: medium},
	{name: "Intel Core i7-10700K", price: 240, perf: 215, budget: medium},
	{name: "Intel Core i7-12700K", price: 320, perf: 255, budget: medium},
	{name: "Intel Core i7-13700K", price: 400, perf: 270, budget: high},
	{name: "Intel Core i7-13620H", price: 300, perf: 230, budget: medium},
	{name: "Intel Core i9-12900K", price: 500, perf: 300, budget: high},
	{name: "Intel Core i9-13900K", price: 580, perf: 325, budget: high},
	{name: "Intel Core i9-14900K", price: 620, perf: 335, budget: high},
	{name: "AMD Ryzen 3 3200G", price: 80, perf: 85, budget: low},
	{name: "AMD Ryzen 5 3600", price: 120, perf: 155, budget: low},
	{name: "AMD Ryzen 5 5600", price: 160, perf: 185, budget: medium},
	{name: "AMD Ryzen 5 5600X", price: 175, perf: 190, budget: medium},
	{name: "AMD Ryzen 5 7600X", price: 250, perf: 225, budget: medium},
	{name: "AMD Ryzen 7 3700X", price: 180, perf: 200, budget: medium},
	{name: "AMD Ryzen 7 5700X", price: 220, perf: 235, budget: medium},
	{name: "AMD Ryzen 7 5700X3D", price: 270, perf: 270, budget: medium},
	{name: "AMD Ryzen 7 7700X", price: 350, perf: 265, budget: high},
	{name: "AMD Ryzen 9 5900X", price: 320, perf: 265, budget: high},
	{name: "AMD Ryzen 9 5950X", price: 400, perf: 280, budget: high},
	{name: "AMD Ryzen 9 7900X", price: 480, perf: 300, budget: high},
	{name: "AMD Ryzen 9 9950X3D", price: 720, perf: 360, budget: high},

	// Short names used by the requirement tiers.
	{name: "Intel i3-12100", price: 110, perf: 110, budget: low, search: "Intel Core i3-12100"},
	{name: "Intel i5-12400", price: 180, perf: 180, budget: medium, search: "Intel Core i5-12400"},
	{name: "Intel i7-13620h", price: 300, perf: 230, budget: medium, search: "Intel Core i7-13620H"},
	{name: "Intel i9-14900k", price: 620, perf: 335, budget: high, search: "Intel Core i9-14900K"},
	{name: "AMD Ryzen 3 3200g", price: 80, perf: 85, budget: low, search: "AMD Ryzen 3 3200G"},
	{name: "AMD Ryzen 5 5600x", price: 175, perf: 190, budget: medium, search: "AMD Ryzen 5 5600X"},
	{name: "AMD Ryzen 7 5700x3d", price: 270, perf: 270, budget: medium, search: "AMD Ryzen 7 5700X3D"},
	{name: "AMD Ryzen 9 9950x3d", price: 720, perf: 360, budget: high, search: "AMD Ryzen 9 9950X3D"},
}

var defaultGPUs = []part{
	{name: "NVIDIA GTX 1060 6GB", price: 90, perf: 85, budget: low},
	{name: "NVIDIA GTX 1070", price: 100, perf: 110, budget: low},
	{name: "NVIDIA GTX 1080", price: 130, perf: 130, budget: low},
	{name: "NVIDIA GTX 1650", price: 160, perf: 100, budget: low},
	{name: "NVIDIA GTX 1650 Super", price: 175, perf: 112, budget: low},
	{name: "NVIDIA GTX 1660", price: 185, perf: 128, budget: low},
	{name: "NVIDIA GTX 1660 Super", price: 200, perf: 140, budget: low},
	{name: "NVIDIA RTX 2060", price: 250, perf: 150, budget: medium},
	{name: "NVIDIA RTX 2060 Super", price: 280, perf: 168, budget: medium},
	{name: "NVIDIA RTX 2070 Super", price: 320, perf: 190, budget: medium},
	{name: "NVIDIA RTX 2080 Ti", price: 420, perf: 235, budget: high},
	{name: "NVIDIA RTX 3060", price: 350, perf: 200, budget: medium},
	{name: "NVIDIA RTX 3060 Ti", price: 390, perf: 220, budget: medium},
	{name: "NVIDIA RTX 3070", price: 440, perf: 248, budget: medium},
	{name: "NVIDIA RTX 3070 Ti", price: 480, perf: 262, budget: high},
	{name: "NVIDIA RTX 3080", price: 580, perf: 295, budget: high},
	{name: "NVIDIA RTX 3090", price: 750, perf: 320, budget: high},
	{name: "NVIDIA RTX 4060", price: 420, perf: 252, budget: medium},
	{name: "NVIDIA RTX 4060 Ti", price: 490, perf: 278, budget: high},
	{name: "NVIDIA RTX 4070", price: 620, perf: 315, budget: high},
	{name: "NVIDIA RTX 4070 Ti Super", price: 780, perf: 375, budget: high},
	{name: "NVIDIA RTX 4080", price: 1000, perf: 415, budget: high},
	{name: "NVIDIA RTX 4090", price: 1600, perf: 510, budget: high},
	{name: "AMD RX 570", price: 70, perf: 78, budget: low},
	{name: "AMD RX 580", price: 85, perf: 93, budget: low},
	{name: "AMD RX 5600 XT", price: 160, perf: 138, budget: low},
	{name: "AMD RX 5700 XT", price: 210, perf: 182, budget: medium},
	{name: "AMD RX 6600", price: 230, perf: 160, budget: medium},
	{name: "AMD RX 6600 XT", price: 260, perf: 172, budget: medium},
	{name: "AMD RX 6700 XT", price: 330, perf: 212, budget: medium},
	{name: "AMD RX 6800 XT", price: 460, perf: 268, budget: high},
	{name: "AMD RX 7600", price: 280, perf: 228, budget: medium},
	{name: "AMD RX 7800 XT", price: 480, perf: 282, budget: high},
	{name: "AMD RX 7900 XTX", price: 820, perf: 395, budget: high},
	{name: "Intel Arc A770", price: 250, perf: 202, budget: medium},
}

var defaultRAM = []part{
	{name: "4 GB", price: 15, perf: 60, budget: low},
	{name: "8 GB", price: 30, perf: 100, budget: low},
	{name: "16 GB", price: 55, perf: 150, budget: medium},
	{name: "32 GB", price: 100, perf: 200, budget: medium},
	{name: "64 GB", price: 200, perf: 250, budget: high},
}

// DefaultCatalog returns a fresh copy of the built-in component table.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for t, rows := range map[model.ComponentType][]part{
		model.CPU: defaultCPUs,
		model.GPU: defaultGPUs,
		model.RAM: defaultRAM,
	} {
		for _, p := range rows {
			c.entries[t][p.name] = p.component(t)
		}
		c.reindex(t)
	}
	return c
}

func tier(cpu, gpu []string, ram string) model.Tier {
	return model.Tier{CPU: cpu, GPU: gpu, RAM: ram}
}

func list(names ...string) []string { return names }

// Requirement tiers shared by most titles.
var (
	entryMin = func() model.Tier {
		return tier(list("Intel i3-12100", "AMD Ryzen 3 3200g"), list("NVIDIA GTX 1650"), "8 GB")
	}
	midRec = func(ram string) model.Tier {
		return tier(list("Intel i5-12400", "AMD Ryzen 5 5600x"), list("NVIDIA RTX 2060", "AMD RX 6600"), ram)
	}
	heavyMin = func() model.Tier {
		return tier(list("Intel i5-12400", "AMD Ryzen 5 5600x"), list("NVIDIA RTX 2060", "AMD RX 6600"), "16 GB")
	}
	heavyRec = func() model.Tier {
		return tier(list("Intel i7-13620h", "AMD Ryzen 7 5700x3d"), list("NVIDIA RTX 3060", "AMD RX 7800 XT"), "16 GB")
	}
	heavyHigh = func() model.Tier {
		return tier(list("Intel i9-14900k", "AMD Ryzen 9 9950x3d"), list("NVIDIA RTX 4060", "AMD RX 7800 XT"), "32 GB")
	}
	upperHigh = func(gpu ...string) model.Tier {
		return tier(list("Intel i7-13620h", "AMD Ryzen 7 5700x3d"), gpu, "16 GB")
	}
)

func defaultGames() []model.Game {
	return []model.Game{
		{
			Title:   "Counter-Strike 2",
			Minimum: entryMin(),
			Recommended: tier(
				list("Intel i5-12400", "Intel i7-13620h", "AMD Ryzen 5 5600x"),
				list("NVIDIA RTX 2060", "NVIDIA RTX 3060", "AMD RX 6600"),
				"16 GB"),
			High: tier(
				list("Intel i9-14900k", "AMD Ryzen 7 5700x3d", "AMD Ryzen 9 9950x3d"),
				list("NVIDIA RTX 4060", "AMD RX 7800 XT"),
				"32 GB"),
		},
		{
			Title:       "PUBG: Battlegrounds",
			Minimum:     entryMin(),
			Recommended: midRec("16 GB"),
			High: tier(
				list("Intel i7-13620h", "AMD Ryzen 7 5700x3d", "Intel i9-14900k", "AMD Ryzen 9 9950x3d"),
				list("NVIDIA RTX 3060", "NVIDIA RTX 4060", "AMD RX 7800 XT"),
				"16 GB"),
		},
		{
			Title:       "Minecraft",
			Minimum:     entryMin(),
			Recommended: tier(list("Intel i5-12400", "AMD Ryzen 5 5600x"), list("NVIDIA RTX 2060"), "8 GB"),
			High:        upperHigh("NVIDIA RTX 3060", "NVIDIA RTX 4060"),
		},
		{
			Title:       "Valorant",
			Minimum:     entryMin(),
			Recommended: midRec("8 GB"),
			High:        upperHigh("NVIDIA RTX 3060", "NVIDIA RTX 4060"),
		},
		{Title: "Cyberpunk 2077", Minimum: heavyMin(), Recommended: heavyRec(), High: heavyHigh()},
		{
			Title:       "Red Dead Redemption 2",
			Minimum:     entryMin(),
			Recommended: midRec("16 GB"),
			High: tier(list("Intel i7-13620h", "AMD Ryzen 7 5700x3d"),
				list("NVIDIA RTX 4060", "AMD RX 7800 XT"), "32 GB"),
		},
		{Title: "Fortnite", Minimum: entryMin(), Recommended: midRec("16 GB"), High: upperHigh("NVIDIA RTX 3060", "NVIDIA RTX 4060")},
		{Title: "GTA V", Minimum: entryMin(), Recommended: midRec("16 GB"), High: upperHigh("NVIDIA RTX 3060", "AMD RX 7800 XT")},
		{Title: "The Witcher 3", Minimum: entryMin(), Recommended: midRec("16 GB"), High: upperHigh("NVIDIA RTX 3060", "NVIDIA RTX 4060")},
		{Title: "Apex Legends", Minimum: entryMin(), Recommended: midRec("16 GB"), High: upperHigh("NVIDIA RTX 3060", "NVIDIA RTX 4060")},
		{
			Title:       "Dota 2",
			Minimum:     entryMin(),
			Recommended: tier(list("Intel i5-12400", "AMD Ryzen 5 5600x"), list("NVIDIA RTX 2060"), "8 GB"),
			High:        upperHigh("NVIDIA RTX 3060"),
		},
		{
			Title:       "League of Legends",
			Minimum:     entryMin(),
			Recommended: tier(list("Intel i5-12400", "AMD Ryzen 5 5600x"), list("NVIDIA RTX 2060"), "8 GB"),
			High:        upperHigh("NVIDIA RTX 3060"),
		},
		{Title: "Overwatch 2", Minimum: entryMin(), Recommended: midRec("16 GB"), High: upperHigh("NVIDIA RTX 3060", "NVIDIA RTX 4060")},
		{Title: "Elden Ring", Minimum: heavyMin(), Recommended: heavyRec(), High: heavyHigh()},
		{Title: "Starfield", Minimum: heavyMin(), Recommended: heavyRec(), High: heavyHigh()},
	}
}

// DefaultRegistry returns a fresh copy of the built-in requirement table.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, g := range defaultGames() {
		r.games[g.Title] = g
	}
	return r
}
