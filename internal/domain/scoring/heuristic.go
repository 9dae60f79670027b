package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
)

// NeutralScore is returned for empty or unrecognized names.
const NeutralScore = 100

// cpuGeneration matches the first 4-5 digit model number in a CPU name.
var cpuGeneration = regexp.MustCompile(`(\d{4,5})`)

type cpuRule struct {
	keywords []string
	base     float64
}

// cpuRules is checked in order; the first rule with a matching keyword wins.
var cpuRules = []cpuRule{
	{keywords: []string{"x3d", "9950"}, base: 350},
	{keywords: []string{"i9", "ryzen 9"}, base: 315},
	{keywords: []string{"i7", "ryzen 7"}, base: 255},
	{keywords: []string{"i5", "ryzen 5"}, base: 175},
	{keywords: []string{"i3", "ryzen 3"}, base: 100},
}

func generationBonus(n string) float64 {
	m := cpuGeneration.FindString(n)
	if m == "" {
		return 0
	}
	num, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	switch {
	case num >= 14000:
		return 15
	case num >= 13000:
		return 10
	case num >= 12000:
		return 5
	}
	return 0
}

func estimateCPU(n string) float64 {
	bonus := generationBonus(n)
	for _, r := range cpuRules {
		if containsAny(n, r.keywords) {
			return r.base + bonus
		}
	}
	return NeutralScore
}

type gpuRule struct {
	patterns []string
	score    float64
}

// gpuRules must stay ordered most specific first within each model family:
// "4070 ti super" before "4070 ti" before "4070", otherwise the looser
// pattern shadows the stricter one.
var gpuRules = []gpuRule{
	{[]string{"4090"}, 510},
	{[]string{"4080"}, 415},
	{[]string{"4070 ti super", "4070ti super", "4070 ti s"}, 375},
	{[]string{"4070 ti", "4070ti"}, 350},
	{[]string{"4070"}, 315},
	{[]string{"4060 ti", "4060ti"}, 278},
	{[]string{"4060"}, 252},
	{[]string{"3090 ti", "3090ti"}, 335},
	{[]string{"3090"}, 320},
	{[]string{"3080 ti", "3080ti"}, 310},
	{[]string{"3080"}, 295},
	{[]string{"3070 ti", "3070ti"}, 262},
	{[]string{"3070"}, 248},
	{[]string{"3060 ti", "3060ti"}, 220},
	{[]string{"3060"}, 200},
	{[]string{"2080 ti", "2080ti"}, 235},
	{[]string{"2080"}, 215},
	{[]string{"2070 super", "2070s"}, 190},
	{[]string{"2070"}, 180},
	{[]string{"2060 super", "2060s"}, 168},
	{[]string{"2060"}, 150},
	{[]string{"7900 xtx", "7900xtx"}, 395},
	{[]string{"7900 xt", "7900xt"}, 360},
	{[]string{"7800 xt", "7800xt"}, 282},
	{[]string{"7700 xt", "7700xt"}, 255},
	{[]string{"7600 xt", "7600xt"}, 238},
	{[]string{"7600"}, 228},
	{[]string{"6950 xt", "6950xt"}, 305},
	{[]string{"6900 xt", "6900xt"}, 290},
	{[]string{"6800 xt", "6800xt"}, 268},
	{[]string{"6800"}, 250},
	{[]string{"6750 xt", "6750xt"}, 220},
	{[]string{"6700 xt", "6700xt"}, 212},
	{[]string{"6650 xt", "6650xt"}, 185},
	{[]string{"6600 xt", "6600xt"}, 172},
	{[]string{"6600"}, 160},
	{[]string{"5700 xt", "5700xt"}, 182},
	{[]string{"5700"}, 170},
	{[]string{"5600 xt", "5600xt"}, 138},
	{[]string{"5500 xt", "5500xt"}, 110},
	{[]string{"arc a770"}, 202},
	{[]string{"arc a750"}, 185},
	{[]string{"1660 super", "1660s"}, 140},
	{[]string{"1660 ti", "1660ti"}, 135},
	{[]string{"1660"}, 128},
	{[]string{"1650 super", "1650s"}, 112},
	{[]string{"1650"}, 100},
	{[]string{"1080 ti", "1080ti"}, 160},
	{[]string{"1080"}, 130},
	{[]string{"1070 ti", "1070ti"}, 122},
	{[]string{"1070"}, 110},
	{[]string{"rx 580", "rx580"}, 93},
	{[]string{"rx 570", "rx570"}, 78},
	{[]string{"1060"}, 85},
}

func estimateGPU(n string) float64 {
	for _, r := range gpuRules {
		if containsAny(n, r.patterns) {
			return r.score
		}
	}
	return NeutralScore
}

type ramStep struct {
	minGB int
	score float64
}

var ramSteps = []ramStep{
	{64, 250},
	{32, 200},
	{16, 150},
	{8, 100},
	{4, 60},
}

// unparsedRAMScore is used when no "<n> GB" can be read from the label.
const unparsedRAMScore = 80

func estimateRAM(n string) float64 {
	gb, _ := model.RAMSizeGB(n)
	for _, s := range ramSteps {
		if gb >= s.minGB {
			return s.score
		}
	}
	return unparsedRAMScore
}

// EstimateFromName guesses a performance score from model-number cues in a
// part name. It never fails and always returns a positive value.
func EstimateFromName(name string, t model.ComponentType) float64 {
	if name == "" {
		return NeutralScore
	}
	n := strings.ToLower(name)
	switch t {
	case model.CPU:
		return estimateCPU(n)
	case model.GPU:
		return estimateGPU(n)
	case model.RAM:
		return estimateRAM(n)
	}
	return NeutralScore
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
