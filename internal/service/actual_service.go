package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/repository"
)

// Actual refresh outcomes
const (
	RefreshDerived = "derived"
	RefreshSkipped = "skipped"
	RefreshFailed  = "failed"
)

// ActualService recomputes race actuals from results and records adjudications
type ActualService struct {
	store  repository.Store
	cache  *ResultCache
	opts   models.DeriveOptions
	audit  *logger.AuditLogger
	logger *logrus.Logger
}

// NewActualService creates a new actual service
func NewActualService(store repository.Store, resultCache *ResultCache, opts models.DeriveOptions, log *logrus.Logger) *ActualService {
	return &ActualService{
		store:  store,
		cache:  resultCache,
		opts:   opts,
		audit:  logger.NewAuditLogger(log),
		logger: log,
	}
}

// RefreshActual derives the actual for a round, applies stored overrides and saves it.
// Returns nil without error when the round has no results yet.
func (s *ActualService) RefreshActual(ctx context.Context, season, round int) (*models.RaceActual, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}

	qualifying, err := s.store.GetQualifying(ctx, season, round)
	if err != nil {
		metrics.RecordActualRefresh(RefreshFailed)
		return nil, fmt.Errorf("failed to get qualifying: %w", err)
	}
	race, err := s.store.GetRaceResults(ctx, season, round)
	if err != nil {
		metrics.RecordActualRefresh(RefreshFailed)
		return nil, fmt.Errorf("failed to get race results: %w", err)
	}
	if len(qualifying) == 0 && len(race) == 0 {
		metrics.RecordActualRefresh(RefreshSkipped)
		return nil, nil
	}

	roster, err := s.store.GetRoster(ctx, season)
	if err != nil {
		metrics.RecordActualRefresh(RefreshFailed)
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	actual := models.DeriveActual(season, round, qualifying, race, roster, s.opts)

	overrides, err := s.store.GetOverrides(ctx, season, round)
	if err != nil {
		metrics.RecordActualRefresh(RefreshFailed)
		return nil, fmt.Errorf("failed to get overrides: %w", err)
	}
	if len(overrides) > 0 {
		updated, err := models.ApplyOverride(actual, overrides)
		if err != nil {
			s.audit.LogOverrideRejected(season, round, overrides, err)
		} else {
			actual = updated
			s.audit.LogOverrideApplied(season, round, overrides, "adjudication")
		}
	}

	if err := s.store.SaveActual(ctx, actual); err != nil {
		metrics.RecordActualRefresh(RefreshFailed)
		return nil, fmt.Errorf("failed to save actual: %w", err)
	}

	s.audit.LogActualDerived(season, round, actual.Pole, actual.P1, actual.P2, actual.P3, actual.FastestLap)
	metrics.RecordActualRefresh(RefreshDerived)
	if s.cache != nil {
		s.cache.InvalidateSeason(season)
	}

	return &actual, nil
}

// RefreshSeason refreshes every scheduled round and returns how many actuals were derived.
// A failing round is logged and does not stop the others.
func (s *ActualService) RefreshSeason(ctx context.Context, season int) (int, error) {
	schedule, err := s.store.GetSchedule(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to get schedule: %w", err)
	}

	derived := 0
	for _, event := range schedule.Sorted() {
		if err := ctx.Err(); err != nil {
			return derived, err
		}
		actual, err := s.RefreshActual(ctx, season, event.Round)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"season": season,
				"round":  event.Round,
			}).Error("Failed to refresh actual")
			continue
		}
		if actual != nil {
			derived++
		}
	}

	return derived, nil
}

// RecordAdjudication stores a verdict on a category pick and drops cached season results
func (s *ActualService) RecordAdjudication(ctx context.Context, user string, season int, field string, status models.AdjudicationStatus, recordedBy string) error {
	if user == "" {
		return models.ErrUserRequired.WithField("user")
	}
	if season <= 0 {
		return models.ErrSeasonRequired.WithField("season")
	}

	if err := s.store.RecordAdjudication(ctx, user, season, field, status); err != nil {
		return err
	}

	s.audit.LogAdjudicationRecorded(user, season, field, string(status), recordedBy)
	if s.cache != nil {
		s.cache.InvalidateSeason(season)
	}
	return nil
}
