package models

import (
	"fmt"
	"math"
	"sort"
)

// Feature weight names understood by the race projector
const (
	WeightQualPace    = "qual_pace"
	WeightQ3Presence  = "q3_presence"
	WeightRacePace    = "race_pace"
	WeightTrackFit    = "track_fit"
	WeightTyreFit     = "tyre_fit"
	WeightStrategyFit = "strategy_fit"
	WeightMomentum    = "momentum"
	WeightForm        = "form"
	WeightStartCraft  = "start_craft"
	WeightReliability = "reliability"
)

// KnownWeights lists every feature a weight table may reference
var KnownWeights = []string{
	WeightQualPace,
	WeightQ3Presence,
	WeightRacePace,
	WeightTrackFit,
	WeightTyreFit,
	WeightStrategyFit,
	WeightMomentum,
	WeightForm,
	WeightStartCraft,
	WeightReliability,
}

const weightSumTolerance = 1e-6

// FallbackRules configure how sparse history degrades
type FallbackRules struct {
	NeutralScore          float64 `json:"neutral_score" mapstructure:"neutral_score"`
	MinConfidence         float64 `json:"min_confidence" mapstructure:"min_confidence"`
	SeasonFallbackPenalty float64 `json:"season_fallback_penalty" mapstructure:"season_fallback_penalty"`
}

// ProjectionModel is a versioned set of feature weights. It is never mutated by simulation.
type ProjectionModel struct {
	Version           string             `json:"version" mapstructure:"version"`
	QualifyingWeights map[string]float64 `json:"qualifying_weights" mapstructure:"qualifying_weights"`
	QualifyingTotal   float64            `json:"qualifying_total" mapstructure:"qualifying_total"`
	RaceWeights       map[string]float64 `json:"race_weights" mapstructure:"race_weights"`
	RaceTotal         float64            `json:"race_total" mapstructure:"race_total"`
	Fallback          FallbackRules      `json:"fallback" mapstructure:"fallback"`
}

// Validate checks weight names and that each phase sums to its declared total
func (m ProjectionModel) Validate() error {
	if err := validatePhase("qualifying_weights", m.QualifyingWeights, m.QualifyingTotal); err != nil {
		return err
	}
	if err := validatePhase("race_weights", m.RaceWeights, m.RaceTotal); err != nil {
		return err
	}
	if m.Fallback.NeutralScore < 0 || m.Fallback.NeutralScore > 1 {
		return NewConfigurationError("fallback.neutral_score", "must be within [0,1]")
	}
	if m.Fallback.MinConfidence < 0 || m.Fallback.MinConfidence > 1 {
		return NewConfigurationError("fallback.min_confidence", "must be within [0,1]")
	}
	return nil
}

func validatePhase(setting string, weights map[string]float64, total float64) error {
	if len(weights) == 0 {
		return NewConfigurationError(setting, "at least one weight is required")
	}
	known := make(map[string]bool, len(KnownWeights))
	for _, k := range KnownWeights {
		known[k] = true
	}
	sum := 0.0
	for _, name := range SortedWeightNames(weights) {
		w := weights[name]
		if !known[name] {
			return NewConfigurationError(setting, fmt.Sprintf("unknown weight %q", name))
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return NewConfigurationError(setting, fmt.Sprintf("weight %q must be a non-negative number", name))
		}
		sum += w
	}
	if math.Abs(sum-total) > weightSumTolerance {
		return NewConfigurationError(setting, fmt.Sprintf("weights sum to %.6f, expected %.6f", sum, total))
	}
	return nil
}

// SortedWeightNames returns weight names in a stable order for deterministic sums
func SortedWeightNames(weights map[string]float64) []string {
	names := make([]string, 0, len(weights))
	for k := range weights {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultProjectionModel returns the baseline tuning table
func DefaultProjectionModel() ProjectionModel {
	return ProjectionModel{
		Version: "v1",
		QualifyingWeights: map[string]float64{
			WeightQualPace:   0.45,
			WeightQ3Presence: 0.20,
			WeightTrackFit:   0.20,
			WeightMomentum:   0.05,
			WeightForm:       0.10,
		},
		QualifyingTotal: 1.0,
		RaceWeights: map[string]float64{
			WeightRacePace:    0.30,
			WeightQualPace:    0.10,
			WeightTrackFit:    0.15,
			WeightTyreFit:     0.08,
			WeightStrategyFit: 0.07,
			WeightMomentum:    0.05,
			WeightForm:        0.10,
			WeightStartCraft:  0.05,
			WeightReliability: 0.10,
		},
		RaceTotal: 1.0,
		Fallback: FallbackRules{
			NeutralScore:          0.5,
			MinConfidence:         0.1,
			SeasonFallbackPenalty: 0.75,
		},
	}
}
