package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/tiebreak"
)

// Services holds the services built from one configuration and store
type Services struct {
	Cache       *ResultCache
	Standings   *StandingsService
	Actuals     *ActualService
	Projections *ProjectionService
}

// NewServices wires every service against a shared result cache
func NewServices(cfg *config.Config, store repository.Store, log *logrus.Logger) (*Services, error) {
	scoringRules, err := cfg.ScoringRules()
	if err != nil {
		return nil, fmt.Errorf("invalid scoring rules: %w", err)
	}
	pickRules, err := cfg.SeasonPickRules()
	if err != nil {
		return nil, fmt.Errorf("invalid season pick rules: %w", err)
	}
	resolver, err := tiebreak.NewResolver(cfg.TieBreak.Keys)
	if err != nil {
		return nil, fmt.Errorf("invalid tie-break keys: %w", err)
	}
	if err := cfg.Projection.Model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid projection model: %w", err)
	}

	resultCache := NewResultCache(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupSeconds)*time.Second,
	)

	return &Services{
		Cache:     resultCache,
		Standings: NewStandingsService(store, resultCache, scoringRules, pickRules, resolver, log),
		Actuals:   NewActualService(store, resultCache, cfg.DeriveOptions(), log),
		Projections: NewProjectionService(
			store,
			resultCache,
			cfg.Projection.Model,
			cfg.Projection.Simulation,
			cfg.FeatureConfig(),
			log,
		),
	}, nil
}
