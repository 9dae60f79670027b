// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ComponentType tags a catalog section.
type ComponentType string

// Component categories known to the catalog.
const (
	CPU ComponentType = "cpu"
	GPU ComponentType = "gpu"
	RAM ComponentType = "ram"
)

// ComponentTypes lists every category in display order.
var ComponentTypes = []ComponentType{CPU, GPU, RAM}

// Valid reports whether t is one of the known categories.
func (t ComponentType) Valid() bool {
	switch t {
	case CPU, GPU, RAM:
		return true
	}
	return false
}

// ParseComponentType parses a case-insensitive category name.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown component type %q", s)
	}
	return t, nil
}

// Budget is the price bracket of a catalog entry, or the bracket a user shops in.
type Budget string

// Budget brackets.
const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// Valid reports whether b is one of the known brackets.
func (b Budget) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// ParseBudget parses a case-insensitive budget name. Empty input means medium.
func ParseBudget(s string) (Budget, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BudgetMedium, nil
	}
	b := Budget(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown budget %q", s)
	}
	return b, nil
}

// Component is a catalog entry for one hardware part.
type Component struct {
	Type        ComponentType `json:"type"`
	Name        string        `json:"name"`        // catalog key
	Price       float64       `json:"price"`       // currency units
	Performance float64       `json:"performance"` // unitless, higher is faster
	Budget      Budget        `json:"budget"`
	Link        string        `json:"link,omitempty"` // where to buy
}

// Tier is one requirement level of a game. CPU and GPU hold any-of candidates.
type Tier struct {
	CPU []string `json:"cpu"`
	GPU []string `json:"gpu"`
	RAM string   `json:"ram"`
}

// Clone returns a deep copy of t.
func (t Tier) Clone() Tier {
	return Tier{
		CPU: append([]string(nil), t.CPU...),
		GPU: append([]string(nil), t.GPU...),
		RAM: t.RAM,
	}
}

// Game holds the three requirement tiers of a title plus display metadata.
type Game struct {
	Title       string `json:"title"`
	Image       string `json:"image,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Minimum     Tier   `json:"minimum"`
	Recommended Tier   `json:"recommended"`
	High        Tier   `json:"high"`
}

// Clone returns a deep copy of g.
func (g Game) Clone() Game {
	g.Minimum = g.Minimum.Clone()
	g.Recommended = g.Recommended.Clone()
	g.High = g.High.Clone()
	return g
}

// PC describes the machine a user owns. Names are free text.
type PC struct {
	CPU     string `json:"cpu"`
	GPU     string `json:"gpu"`
	RAM     string `json:"ram"`     // e.g. "16 GB"
	Storage string `json:"storage"` // informational
	OS      string `json:"os"`      // informational
}

// Part returns the user's part name for a category.
func (p PC) Part(t ComponentType) string {
	switch t {
	case CPU:
		return p.CPU
	case GPU:
		return p.GPU
	case RAM:
		return p.RAM
	}
	return ""
}

// Priority orders upgrade recommendations.
type Priority string

// Recommendation priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Upgrade recommends replacing one part.
type Upgrade struct {
	Category    ComponentType `json:"category"`
	Current     string        `json:"current"`
	Recommended string        `json:"recommended"`
	Price       float64       `json:"price"`
	Priority    Priority      `json:"priority"`
	Budget      Budget        `json:"budget_category"`
	Link        string        `json:"link,omitempty"`
}

// CheckRecord is one compatibility check kept for statistics.
type CheckRecord struct {
	ID        string    `json:"id"`
	Game      string    `json:"game"`
	FPS       int       `json:"fps"`
	Status    string    `json:"status"`
	CheckedAt time.Time `json:"checked_at"`
}

var (
	ramSizePattern = regexp.MustCompile(`(\d+)\s*gb`)
	leadingInt     = regexp.MustCompile(`^\s*([+-]?\d+)`)
)

// RAMSizeGB finds the first "<n> GB" in a label, case-insensitively.
// Sizes too large for an int saturate.
func RAMSizeGB(label string) (int, bool) {
	m := ramSizePattern.FindStringSubmatch(strings.ToLower(label))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// LeadingInt parses the integer a label starts with, ignoring what follows,
// so "16 GB" and "16GB DDR4" both give 16. Out of range values saturate.
func LeadingInt(label string) (int, bool) {
	m := leadingInt.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}
