// Package projection simulates race outcomes and extrapolates championship standings.
package projection

import (
	"fmt"

	"github.com/yourusername/podium-picks/internal/models"
)

// SimulationConfig configures the Monte-Carlo race projector
type SimulationConfig struct {
	Runs int   `mapstructure:"runs" validate:"gt=0"`
	Seed int64 `mapstructure:"seed"`
	// NoiseScale is the performance noise standard deviation at full confidence
	NoiseScale float64 `mapstructure:"noise_scale" validate:"gte=0"`
	// DNFScale multiplies each driver's unreliability into a per-race DNF probability
	DNFScale float64 `mapstructure:"dnf_scale" validate:"gte=0"`
	// GridInfluence is the share of race performance taken from the simulated grid slot
	GridInfluence float64   `mapstructure:"grid_influence" validate:"gte=0,lte=1"`
	PointsTable   []float64 `mapstructure:"points_table" validate:"required,min=1"`
}

// DefaultSimulationConfig returns the standard simulation settings
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Runs:          5000,
		Seed:          20250301,
		NoiseScale:    0.12,
		DNFScale:      1.0,
		GridInfluence: 0.3,
		PointsTable:   []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
	}
}

// Validate checks the simulation settings
func (c SimulationConfig) Validate() error {
	if c.Runs <= 0 {
		return models.ErrInvalidRuns.WithField("runs")
	}
	if c.NoiseScale < 0 {
		return models.NewConfigurationError("projection.noise_scale", "must not be negative")
	}
	if c.DNFScale < 0 {
		return models.NewConfigurationError("projection.dnf_scale", "must not be negative")
	}
	if c.GridInfluence < 0 || c.GridInfluence > 1 {
		return models.NewConfigurationError("projection.grid_influence", "must be within [0,1]")
	}
	return ValidatePointsTable(c.PointsTable)
}

// ValidatePointsTable requires a non-empty, non-negative, non-increasing table
func ValidatePointsTable(table []float64) error {
	if len(table) == 0 {
		return models.NewConfigurationError("projection.points_table", "points table is empty")
	}
	for i, p := range table {
		if p < 0 {
			return models.NewConfigurationError("projection.points_table", fmt.Sprintf("position %d has negative points", i+1))
		}
		if i > 0 && p > table[i-1] {
			return models.NewConfigurationError("projection.points_table", fmt.Sprintf("position %d pays more than position %d", i+1, i))
		}
	}
	return nil
}

func (c SimulationConfig) pointsFor(position int) float64 {
	if position < 1 || position > len(c.PointsTable) {
		return 0
	}
	return c.PointsTable[position-1]
}
