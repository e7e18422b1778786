package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/repository"
)

// Simulation outcomes
const (
	SimulationCompleted  = "completed"
	SimulationDegenerate = "degenerate"
)

// ChampionshipOutlook holds the projected drivers' and constructors' championships
type ChampionshipOutlook struct {
	Season       int                               `json:"season"`
	AfterRound   int                               `json:"after_round"`
	Drivers      projection.ChampionshipProjection `json:"drivers"`
	Constructors projection.ChampionshipProjection `json:"constructors"`
}

// ProjectionService builds feature models and runs race and championship projections
type ProjectionService struct {
	repo       repository.ResultRepository
	cache      *ResultCache
	model      models.ProjectionModel
	simulation projection.SimulationConfig
	features   features.Config
	logger     *logger.ProjectionLogger
}

// NewProjectionService creates a new projection service
func NewProjectionService(
	repo repository.ResultRepository,
	resultCache *ResultCache,
	model models.ProjectionModel,
	simulation projection.SimulationConfig,
	featureCfg features.Config,
	log *logrus.Logger,
) *ProjectionService {
	return &ProjectionService{
		repo:       repo,
		cache:      resultCache,
		model:      model,
		simulation: simulation,
		features:   featureCfg,
		logger:     logger.NewProjectionLogger(log),
	}
}

// ProjectRound simulates a round from the results of the rounds before it
func (s *ProjectionService) ProjectRound(ctx context.Context, season, round int) (*projection.RaceProjection, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}

	return s.projectRound(ctx, season, round, round-1)
}

// projectRound simulates a round using results up to and including round asOf
func (s *ProjectionService) projectRound(ctx context.Context, season, round, asOf int) (*projection.RaceProjection, error) {
	asOf = min(round-1, asOf)
	key := CacheKey{Kind: kindRaceProjection, Season: season, Round: round, AsOf: asOf}
	return cached(s.cache, key, func() (*projection.RaceProjection, error) {
		field, err := s.buildField(ctx, season, round, asOf)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		race, err := projection.ProjectRace(field, s.model, s.simulation)
		if err != nil {
			return nil, err
		}
		race.Season = season
		race.Round = round
		duration := time.Since(start)

		if race.Degenerate {
			metrics.RecordSimulation(SimulationDegenerate, race.Runs, duration.Seconds())
			s.logger.LogDegenerateField(season, round, race.Reason)
			return &race, nil
		}

		favourite, win := favouriteOf(race)
		metrics.RecordSimulation(SimulationCompleted, race.Runs, duration.Seconds())
		metrics.RecordFavourite(strconv.Itoa(season), strconv.Itoa(round), win)
		s.logger.LogSimulationCompleted(race.RunID.String(), season, round, race.Runs, len(race.Drivers),
			race.Seed, favourite, win, float64(duration.Milliseconds()))

		return &race, nil
	})
}

// FeatureField returns the feature scores used to project a round
func (s *ProjectionService) FeatureField(ctx context.Context, season, round int) ([]features.FeatureScores, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}
	return s.buildField(ctx, season, round, round-1)
}

// ProjectChampionship extrapolates both championships from the standings after a round.
// afterRound 0 uses the latest round with race results. Remaining rounds are projected
// from results through afterRound only.
func (s *ProjectionService) ProjectChampionship(ctx context.Context, season, afterRound int) (*ChampionshipOutlook, error) {
	if season <= 0 {
		return nil, models.ErrSeasonRequired.WithField("season")
	}

	schedule, err := s.repo.GetSchedule(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	if afterRound <= 0 {
		afterRound, err = s.lastCompletedRound(ctx, season, schedule)
		if err != nil {
			return nil, err
		}
	}

	key := CacheKey{Kind: kindChampionship, Season: season, Round: afterRound}
	return cached(s.cache, key, func() (*ChampionshipOutlook, error) {
		roster, err := s.repo.GetRoster(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("failed to get roster: %w", err)
		}
		standings, err := currentStandings(ctx, s.repo, season, afterRound)
		if err != nil {
			return nil, err
		}

		remaining := schedule.After(afterRound)
		driverPoints := projection.ExpectedPointsTable{PerRound: make(map[int]map[string]float64, len(remaining))}
		teamPoints := projection.ExpectedPointsTable{PerRound: make(map[int]map[string]float64, len(remaining))}
		for _, event := range remaining {
			race, err := s.projectRound(ctx, season, event.Round, afterRound)
			if err != nil {
				return nil, fmt.Errorf("failed to project round %d: %w", event.Round, err)
			}
			driverPoints.PerRound[event.Round] = race.ExpectedPoints()
			teamPoints.PerRound[event.Round] = projection.TeamExpectedPoints(*race, roster)
		}

		outlook := &ChampionshipOutlook{
			Season:       season,
			AfterRound:   afterRound,
			Drivers:      projection.ProjectChampionship(standings.Drivers, remaining, driverPoints),
			Constructors: projection.ProjectChampionship(standings.Constructors, remaining, teamPoints),
		}

		if leader, ok := outlook.Drivers.Leader(); ok {
			s.logger.LogChampionshipProjected(season, len(remaining), leader.Name, leader.ProjectedTotalPoints.String())
		}
		return outlook, nil
	})
}

// NextRound returns the first scheduled round after the latest one with results,
// or 0 when every round has results
func (s *ProjectionService) NextRound(ctx context.Context, season int) (int, error) {
	schedule, err := s.repo.GetSchedule(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to get schedule: %w", err)
	}
	last, err := s.lastCompletedRound(ctx, season, schedule)
	if err != nil {
		return 0, err
	}
	next := schedule.After(last)
	if len(next) == 0 {
		return 0, nil
	}
	return next[0].Round, nil
}

// buildField assembles driver histories from rounds up to asOf and scores them for round's track.
// asOf is capped at round-1.
func (s *ProjectionService) buildField(ctx context.Context, season, round, asOf int) ([]features.FeatureScores, error) {
	schedule, err := s.repo.GetSchedule(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	event, ok := schedule.Find(round)
	if !ok {
		return nil, fmt.Errorf("round %d of season %d: %w", round, season, models.ErrNotFound)
	}
	roster, err := s.repo.GetRoster(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	track, err := s.trackProfile(ctx, event.TrackID)
	if err != nil {
		return nil, err
	}

	rounds := make([]features.RoundData, 0, round)
	for _, past := range schedule.Through(min(round-1, asOf)) {
		rd, err := s.roundData(ctx, past)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}

	histories := make(map[string]features.DriverHistory, len(roster))
	for _, d := range roster {
		histories[d.ID] = features.BuildHistory(d.ID, roster, rounds)
	}

	field := features.BuildField(roster, histories, track, s.features)
	for _, f := range field {
		metrics.RecordFeatureModel(string(f.Fallback), f.Confidence)
		if f.Fallback != features.FallbackNone {
			s.logger.LogFeatureFallback(f.DriverID, string(f.Fallback), f.SampleSize, f.Confidence)
		}
	}
	return field, nil
}

func (s *ProjectionService) roundData(ctx context.Context, event models.RaceEvent) (features.RoundData, error) {
	qualifying, err := s.repo.GetQualifying(ctx, event.Season, event.Round)
	if err != nil {
		return features.RoundData{}, fmt.Errorf("failed to get qualifying for round %d: %w", event.Round, err)
	}
	race, err := s.repo.GetRaceResults(ctx, event.Season, event.Round)
	if err != nil {
		return features.RoundData{}, fmt.Errorf("failed to get race results for round %d: %w", event.Round, err)
	}
	track, err := s.trackProfile(ctx, event.TrackID)
	if err != nil {
		return features.RoundData{}, err
	}
	return features.RoundData{Event: event, Track: track, Qualifying: qualifying, Race: race}, nil
}

// trackProfile falls back to a neutral profile for unknown tracks
func (s *ProjectionService) trackProfile(ctx context.Context, trackID string) (features.TrackProfile, error) {
	profile, err := s.repo.GetTrackProfile(ctx, trackID)
	if errors.Is(err, models.ErrNotFound) {
		return features.NeutralTrackProfile(trackID), nil
	}
	if err != nil {
		return features.TrackProfile{}, fmt.Errorf("failed to get track profile: %w", err)
	}
	return profile, nil
}

func (s *ProjectionService) lastCompletedRound(ctx context.Context, season int, schedule models.Schedule) (int, error) {
	last := 0
	for _, event := range schedule.Sorted() {
		race, err := s.repo.GetRaceResults(ctx, season, event.Round)
		if err != nil {
			return 0, fmt.Errorf("failed to get race results for round %d: %w", event.Round, err)
		}
		if len(race) > 0 {
			last = event.Round
		}
	}
	return last, nil
}

// favouriteOf returns the driver with the highest win probability; earlier drivers win ties
func favouriteOf(race projection.RaceProjection) (string, float64) {
	favourite, best := "", -1.0
	for _, d := range race.Drivers {
		if d.Probabilities.Win > best {
			favourite, best = d.DriverID, d.Probabilities.Win
		}
	}
	if best < 0 {
		best = 0
	}
	return favourite, best
}
