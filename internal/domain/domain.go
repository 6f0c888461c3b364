// Package domain holds the per-hardware-domain rule data: normalization
// rulesets, catalog exclusion keywords, tier vocabulary, sheet column layout
// and scoring weights. Everything here is data, so supporting a new excluded
// product family or tier is a value change, not new code.
package domain

import (
	"fmt"
	"strings"

	"comhere/internal/normalize"
)

type ScoringMode string

const (
	// ScoringTolerant renormalizes weights upward when data coverage is
	// partial and refuses to score rows below the minimum weight sum.
	ScoringTolerant ScoringMode = "tolerant"
	// ScoringStrict applies fixed weights and leaves the score undefined if
	// any input is missing.
	ScoringStrict ScoringMode = "strict"
)

// WeightTerm is one feature's contribution to a composite score. Invert
// applies the weight to (1 - normalized), for features where lower is better
// but the raw scale runs the other way.
type WeightTerm struct {
	Feature string
	Weight  float64
	Invert  bool
}

// Column binds a zero-based sheet column to a named feature.
type Column struct {
	Index   int
	Feature string
}

// SelectedGameFeature is the per-row game-performance feature the CPU domain
// derives from its tier before normalization.
const SelectedGameFeature = "selected_game"

type Domain struct {
	Name  string
	Rules normalize.Ruleset

	// SplitVariants enables the GPU-only memory-suffix and VRAM-capacity
	// candidate keys.
	SplitVariants bool

	ExcludeKeywords []string

	TierNames    []string
	TierMarker   string
	OptionsLabel string
	// TierDataFeature must be present for a row to count as data during tier
	// propagation.
	TierDataFeature string

	HeaderRows  int
	LabelColumn int
	Columns     []Column

	Mode             ScoringMode
	MinWeightSum     float64
	CompositeWeights []WeightTerm
	PureWeights      []WeightTerm
	// GameColumnByTier maps a tier to the game-performance column measured on
	// that tier's pairing GPU; nil outside the CPU domain.
	GameColumnByTier map[string]string

	// StaticNameField is the label field of the static catalog JSON;
	// LiveCategory is the parts category of the live catalog API.
	StaticNameField string
	LiveCategory    string
}

func CPU() Domain {
	return Domain{
		Name:            "cpu",
		Rules:           normalize.CPU,
		ExcludeKeywords: []string{"xeon", "epyc", "platinum", "opteron"},
		TierNames:       []string{"하이엔드", "퍼포먼스", "메인스트림", "엔트리"},
		TierMarker:      "라인",
		OptionsLabel:    "게임 옵션",
		TierDataFeature: "value",
		HeaderRows:      4,
		LabelColumn:     0,
		Columns: []Column{
			{Index: 1, Feature: "game_4090"},
			{Index: 2, Feature: "game_5070"},
			{Index: 3, Feature: "game_4060ti"},
			{Index: 4, Feature: "game_3050"},
			{Index: 5, Feature: "cine_single"},
			{Index: 6, Feature: "cine_multi"},
			{Index: 8, Feature: "price"},
			{Index: 13, Feature: "value"},
		},
		Mode:         ScoringStrict,
		MinWeightSum: 0.5,
		CompositeWeights: []WeightTerm{
			{Feature: SelectedGameFeature, Weight: 0.5},
			{Feature: "cine_multi", Weight: 0.2},
			{Feature: "cine_single", Weight: 0.1},
			{Feature: "value", Weight: 0.05, Invert: true},
			{Feature: "price", Weight: -0.1},
		},
		PureWeights: []WeightTerm{
			{Feature: SelectedGameFeature, Weight: 0.6},
			{Feature: "cine_multi", Weight: 0.3},
			{Feature: "cine_single", Weight: 0.1},
		},
		GameColumnByTier: map[string]string{
			"하이엔드":  "game_4090",
			"퍼포먼스":  "game_5070",
			"메인스트림": "game_4060ti",
			"엔트리":   "game_3050",
		},
		StaticNameField: "name",
		LiveCategory:    "cpu",
	}
}

func GPU() Domain {
	return Domain{
		Name:            "gpu",
		Rules:           normalize.GPU,
		SplitVariants:   true,
		ExcludeKeywords: []string{"firepro", "quadro", "tesla", "rtx a", "radeon pro"},
		TierNames:       []string{"하이엔드", "퍼포먼스", "상위 메인스트림", "하위 메인스트림", "엔트리", "로우엔드"},
		TierMarker:      "라인",
		OptionsLabel:    "게임 그래픽 옵션",
		TierDataFeature: "perf_fhd",
		HeaderRows:      3,
		LabelColumn:     0,
		Columns: []Column{
			{Index: 1, Feature: "perf_fhd"},
			{Index: 2, Feature: "perf_qhd"},
			{Index: 3, Feature: "perf_uhd"},
			{Index: 4, Feature: "fire_strike"},
			{Index: 5, Feature: "time_spy"},
			{Index: 6, Feature: "steel_nomad"},
			{Index: 7, Feature: "blender"},
			{Index: 8, Feature: "fps_fhd"},
			{Index: 9, Feature: "fps_qhd"},
			{Index: 10, Feature: "fps_uhd"},
			{Index: 12, Feature: "price"},
			{Index: 14, Feature: "value_fhd"},
		},
		Mode:         ScoringTolerant,
		MinWeightSum: 0.5,
		CompositeWeights: []WeightTerm{
			{Feature: "perf_fhd", Weight: 0.2},
			{Feature: "perf_qhd", Weight: 0.2},
			{Feature: "perf_uhd", Weight: 0.2},
			{Feature: "fire_strike", Weight: 0.05},
			{Feature: "time_spy", Weight: 0.05},
			{Feature: "steel_nomad", Weight: 0.05},
			{Feature: "blender", Weight: 0.07},
			{Feature: "fps_fhd", Weight: 0.01},
			{Feature: "fps_qhd", Weight: 0.01},
			{Feature: "fps_uhd", Weight: 0.01},
			{Feature: "value_fhd", Weight: -0.075},
		},
		PureWeights: []WeightTerm{
			{Feature: "perf_fhd", Weight: 0.2},
			{Feature: "perf_qhd", Weight: 0.2},
			{Feature: "perf_uhd", Weight: 0.2},
			{Feature: "fire_strike", Weight: 0.05},
			{Feature: "time_spy", Weight: 0.05},
			{Feature: "steel_nomad", Weight: 0.05},
			{Feature: "blender", Weight: 0.07},
			{Feature: "fps_fhd", Weight: 0.01},
			{Feature: "fps_qhd", Weight: 0.01},
			{Feature: "fps_uhd", Weight: 0.01},
		},
		StaticNameField: "chipset",
		LiveCategory:    "video-card",
	}
}

func ByName(name string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cpu":
		return CPU(), nil
	case "gpu":
		return GPU(), nil
	default:
		return Domain{}, fmt.Errorf("unknown domain: %s", name)
	}
}

// Excluded reports whether a reference name belongs to an out-of-scope product
// family (server and workstation parts).
func (d Domain) Excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range d.ExcludeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CanonicalKey derives the key used to join scored rows back to persisted
// matches. The GPU form strips the memory-type and capacity tokens so retail
// labels land on catalog chipset names.
func (d Domain) CanonicalKey(label string) string {
	key := d.Rules.Apply(label)
	if !d.SplitVariants {
		return key
	}
	key = normalize.StripMemoryType(key)
	key, _ = normalize.SplitCapacity(key)
	return key
}

// NormFeatures is the set of features that take part in min-max scaling: every
// feature referenced by either weight table, in first-reference order.
func (d Domain) NormFeatures() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(d.CompositeWeights))
	for _, terms := range [][]WeightTerm{d.CompositeWeights, d.PureWeights} {
		for _, t := range terms {
			if _, ok := seen[t.Feature]; ok {
				continue
			}
			seen[t.Feature] = struct{}{}
			out = append(out, t.Feature)
		}
	}
	return out
}
