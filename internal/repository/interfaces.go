package repository

import (
	"context"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
)

// ResultRepository is the read-only query surface consumed by scoring and projection
type ResultRepository interface {
	GetRoster(ctx context.Context, season int) (models.Roster, error)
	// GetSchedule returns the season's events ordered by round
	GetSchedule(ctx context.Context, season int) (models.Schedule, error)
	GetQualifying(ctx context.Context, season, round int) (models.QualifyingResults, error)
	GetRaceResults(ctx context.Context, season, round int) (models.RaceResults, error)
	// GetActual returns nil without error when no actual has been derived yet
	GetActual(ctx context.Context, season, round int) (*models.RaceActual, error)
	GetPredictions(ctx context.Context, query PredictionQuery) ([]models.Prediction, error)
	// GetSeasonPicks returns every user's picks when user is empty
	GetSeasonPicks(ctx context.Context, user string, season int) ([]models.SeasonPick, error)
	// GetAdjudication returns an empty adjudication when nothing is recorded
	GetAdjudication(ctx context.Context, user string, season int) (models.Adjudication, error)
	// GetTrackProfile returns models.ErrNotFound for unknown tracks
	GetTrackProfile(ctx context.Context, trackID string) (features.TrackProfile, error)
}

// ActualStore persists derived actuals and the overrides adjudicated onto them
type ActualStore interface {
	GetOverrides(ctx context.Context, season, round int) (map[string]bool, error)
	SaveActual(ctx context.Context, actual models.RaceActual) error
}

// AdjudicationStore records manual verdicts on category picks
type AdjudicationStore interface {
	RecordAdjudication(ctx context.Context, user string, season int, field string, status models.AdjudicationStatus) error
}

// Store combines the read surface with the write paths
type Store interface {
	ResultRepository
	ActualStore
	AdjudicationStore
}

// PredictionQuery selects predictions for a season, optionally narrowed by user and round
type PredictionQuery struct {
	User   string
	Season int
	Round  int
}

// Validate checks that the season is set and the optional round is not negative
func (q PredictionQuery) Validate() error {
	if q.Season <= 0 {
		return models.ErrSeasonRequired.WithField("season")
	}
	if q.Round < 0 {
		return models.ErrRoundRequired.WithField("round")
	}
	return nil
}

// Matches reports whether a prediction falls within the query
func (q PredictionQuery) Matches(p models.Prediction) bool {
	if p.Season != q.Season {
		return false
	}
	if q.User != "" && p.User != q.User {
		return false
	}
	return q.Round == 0 || p.Round == q.Round
}
