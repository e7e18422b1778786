// Package service orchestrates the scoring and projection engines over a result repository.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/scoring"
	"github.com/yourusername/podium-picks/internal/season"
	"github.com/yourusername/podium-picks/internal/tiebreak"
)

// RoundScores is the scored state of one round
type RoundScores struct {
	Season      int                       `json:"season"`
	Round       int                       `json:"round"`
	ActualKnown bool                      `json:"actual_known"`
	Actual      *models.RaceActual        `json:"actual,omitempty"`
	Predictions []models.ScoredPrediction `json:"predictions"`
	Summary     season.RoundSummary       `json:"summary"`
}

// SeasonStandings is the ranked season table with its supporting statistics
type SeasonStandings struct {
	Season            int                   `json:"season"`
	RoundsEvaluated   []int                 `json:"rounds_evaluated"`
	Totals            []season.SeasonTotals `json:"totals"`
	Ranking           tiebreak.Result       `json:"ranking"`
	PickFrequency     []season.PickCount    `json:"pick_frequency"`
	MostPickedWinners []season.PickCount    `json:"most_picked_winners"`
}

// StandingsService scores predictions and ranks users
type StandingsService struct {
	repo       repository.ResultRepository
	cache      *ResultCache
	scoringCfg scoring.Config
	pickCfg    scoring.SeasonPickConfig
	resolver   *tiebreak.Resolver
	logger     *logger.ScoringLogger
}

// NewStandingsService creates a new standings service
func NewStandingsService(
	repo repository.ResultRepository,
	resultCache *ResultCache,
	scoringCfg scoring.Config,
	pickCfg scoring.SeasonPickConfig,
	resolver *tiebreak.Resolver,
	log *logrus.Logger,
) *StandingsService {
	if resolver == nil {
		resolver = tiebreak.NewDefaultResolver()
	}
	return &StandingsService{
		repo:       repo,
		cache:      resultCache,
		scoringCfg: scoringCfg,
		pickCfg:    pickCfg,
		resolver:   resolver,
		logger:     logger.NewScoringLogger(log),
	}
}

// ScoreRound scores every user's latest prediction for a round.
// A round without an actual scores zero across the board.
func (s *StandingsService) ScoreRound(ctx context.Context, seasonYear, round int) (*RoundScores, error) {
	if err := models.ValidateSeasonRound(seasonYear, round); err != nil {
		return nil, err
	}

	key := CacheKey{Kind: kindRoundScores, Season: seasonYear, Round: round}
	return cached(s.cache, key, func() (*RoundScores, error) {
		start := time.Now()

		actual, err := s.repo.GetActual(ctx, seasonYear, round)
		if err != nil {
			return nil, fmt.Errorf("failed to get actual: %w", err)
		}
		results, err := s.repo.GetRaceResults(ctx, seasonYear, round)
		if err != nil {
			return nil, fmt.Errorf("failed to get race results: %w", err)
		}
		preds, err := s.repo.GetPredictions(ctx, repository.PredictionQuery{Season: seasonYear, Round: round})
		if err != nil {
			return nil, fmt.Errorf("failed to get predictions: %w", err)
		}

		preds = latestPerUser(preds)
		incomplete := 0
		for _, p := range preds {
			if !p.IsComplete() {
				incomplete++
				s.logger.LogIncompletePrediction(p.User, seasonYear, round)
			}
		}

		scored := scoring.ScoreRound(preds, actual, results, s.scoringCfg)
		summary := season.SummarizeRound(scored)
		summary.Season = seasonYear
		summary.Round = round

		duration := time.Since(start)
		metrics.RecordRoundScored(len(scored), incomplete, duration.Seconds())
		s.logger.LogRoundScored(seasonYear, round, len(scored), summary.HighScore, actual != nil, float64(duration.Milliseconds()))

		return &RoundScores{
			Season:      seasonYear,
			Round:       round,
			ActualKnown: actual != nil,
			Actual:      actual,
			Predictions: scored,
			Summary:     summary,
		}, nil
	})
}

// SeasonStandings aggregates and ranks every user over the rounds that have an actual.
// throughRound limits the evaluated rounds; 0 evaluates the whole schedule.
func (s *StandingsService) SeasonStandings(ctx context.Context, seasonYear, throughRound int) (*SeasonStandings, error) {
	if seasonYear <= 0 {
		return nil, models.ErrSeasonRequired.WithField("season")
	}

	key := CacheKey{Kind: kindSeason, Season: seasonYear, Round: throughRound}
	return cached(s.cache, key, func() (*SeasonStandings, error) {
		schedule, err := s.repo.GetSchedule(ctx, seasonYear)
		if err != nil {
			return nil, fmt.Errorf("failed to get schedule: %w", err)
		}
		if throughRound > 0 {
			schedule = schedule.Through(throughRound)
		}

		evaluated := models.Schedule{}
		scored := []models.ScoredPrediction{}
		for _, event := range schedule.Sorted() {
			rs, err := s.ScoreRound(ctx, seasonYear, event.Round)
			if err != nil {
				return nil, err
			}
			if !rs.ActualKnown {
				continue
			}
			evaluated = append(evaluated, event)
			scored = append(scored, rs.Predictions...)
		}

		all, err := s.repo.GetPredictions(ctx, repository.PredictionQuery{Season: seasonYear})
		if err != nil {
			return nil, fmt.Errorf("failed to get predictions: %w", err)
		}
		scored = append(scored, unevaluated(all, evaluated)...)

		roster, err := s.repo.GetRoster(ctx, seasonYear)
		if err != nil {
			return nil, fmt.Errorf("failed to get roster: %w", err)
		}

		totals := season.AggregateByUser(scored, evaluated)
		picked := evaluatedPredictions(all, evaluated)
		ranking := s.resolver.Resolve(tiebreak.FromSeasonTotals(totals))

		metrics.RecordSeasonAggregation()
		metrics.RecordTieBreak(ranking.DecidedBy)
		leader, leaderPoints := "", 0
		if len(ranking.Ranking) > 0 {
			leader = ranking.Ranking[0].Entry.User
			leaderPoints = ranking.Ranking[0].Entry.TotalPoints
		}
		s.logger.LogSeasonAggregated(seasonYear, len(totals), len(evaluated), leader, leaderPoints)
		s.logger.LogTieBreakDecided(seasonYear, ranking.DecidedBy, ranking.Explanation)

		return &SeasonStandings{
			Season:            seasonYear,
			RoundsEvaluated:   evaluated.Rounds(),
			Totals:            totals,
			Ranking:           ranking,
			PickFrequency:     season.PickFrequency(picked, roster),
			MostPickedWinners: season.MostPickedWinners(picked, roster),
		}, nil
	})
}

// UserSeason returns one user's season totals
func (s *StandingsService) UserSeason(ctx context.Context, seasonYear int, user string) (season.SeasonTotals, error) {
	if user == "" {
		return season.SeasonTotals{}, models.ErrUserRequired.WithField("user")
	}

	key := CacheKey{Kind: kindUserSeason, Season: seasonYear, User: user}
	return cached(s.cache, key, func() (season.SeasonTotals, error) {
		standings, err := s.SeasonStandings(ctx, seasonYear, 0)
		if err != nil {
			return season.SeasonTotals{}, err
		}
		for _, t := range standings.Totals {
			if t.User == user {
				return t, nil
			}
		}
		return season.SeasonTotals{}, fmt.Errorf("user %q in season %d: %w", user, seasonYear, models.ErrNotFound)
	})
}

// SeasonPickStandings scores every user's season picks against the current championship order
func (s *StandingsService) SeasonPickStandings(ctx context.Context, seasonYear int) ([]scoring.SeasonPickScore, error) {
	if seasonYear <= 0 {
		return nil, models.ErrSeasonRequired.WithField("season")
	}

	key := CacheKey{Kind: kindSeasonPicks, Season: seasonYear}
	return cached(s.cache, key, func() ([]scoring.SeasonPickScore, error) {
		standings, err := currentStandings(ctx, s.repo, seasonYear, 0)
		if err != nil {
			return nil, err
		}
		finalWDC := standingIDs(standings.Drivers)
		finalWCC := standingIDs(standings.Constructors)

		picks, err := s.repo.GetSeasonPicks(ctx, "", seasonYear)
		if err != nil {
			return nil, fmt.Errorf("failed to get season picks: %w", err)
		}

		scores := make([]scoring.SeasonPickScore, 0, len(picks))
		for _, pick := range picks {
			adj, err := s.repo.GetAdjudication(ctx, pick.User, seasonYear)
			if err != nil {
				return nil, fmt.Errorf("failed to get adjudication for %s: %w", pick.User, err)
			}
			scores = append(scores, scoring.ScoreSeasonPick(pick, finalWDC, finalWCC, adj, s.pickCfg))
		}

		sort.SliceStable(scores, func(i, j int) bool {
			if scores[i].Total != scores[j].Total {
				return scores[i].Total > scores[j].Total
			}
			return scores[i].User < scores[j].User
		})
		return scores, nil
	})
}

// currentStandings builds championship tables from race results through a round; 0 means all rounds
func currentStandings(ctx context.Context, repo repository.ResultRepository, seasonYear, throughRound int) (projection.Standings, error) {
	roster, err := repo.GetRoster(ctx, seasonYear)
	if err != nil {
		return projection.Standings{}, fmt.Errorf("failed to get roster: %w", err)
	}
	schedule, err := repo.GetSchedule(ctx, seasonYear)
	if err != nil {
		return projection.Standings{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	if throughRound > 0 {
		schedule = schedule.Through(throughRound)
	}

	results := make([]models.RaceResults, 0, len(schedule))
	for _, event := range schedule {
		race, err := repo.GetRaceResults(ctx, seasonYear, event.Round)
		if err != nil {
			return projection.Standings{}, fmt.Errorf("failed to get race results for round %d: %w", event.Round, err)
		}
		results = append(results, race)
	}

	return projection.BuildStandings(results, roster), nil
}

func standingIDs(standings []projection.Standing) []string {
	ids := make([]string, len(standings))
	for i, s := range standings {
		ids[i] = s.ID
	}
	return ids
}

// latestPerUser keeps each user's most recent submission, ordered by user
func latestPerUser(preds []models.Prediction) []models.Prediction {
	latest := make(map[string]models.Prediction, len(preds))
	for _, p := range preds {
		if current, ok := latest[p.User]; !ok || p.SubmittedAt.After(current.SubmittedAt) {
			latest[p.User] = p
		}
	}
	users := make([]string, 0, len(latest))
	for u := range latest {
		users = append(users, u)
	}
	sort.Strings(users)

	out := make([]models.Prediction, len(users))
	for i, u := range users {
		out[i] = latest[u]
	}
	return out
}

// unevaluated returns zero-scored entries for predictions outside the evaluated rounds,
// so every user with a submission appears in the standings
// evaluatedPredictions keeps the predictions for rounds in the evaluated schedule
func evaluatedPredictions(preds []models.Prediction, evaluated models.Schedule) []models.Prediction {
	out := make([]models.Prediction, 0, len(preds))
	for _, p := range preds {
		if _, ok := evaluated.Find(p.Round); ok {
			out = append(out, p)
		}
	}
	return out
}

func unevaluated(preds []models.Prediction, evaluated models.Schedule) []models.ScoredPrediction {
	out := make([]models.ScoredPrediction, 0)
	for _, p := range preds {
		if _, ok := evaluated.Find(p.Round); ok {
			continue
		}
		out = append(out, models.ScoredPrediction{Prediction: p})
	}
	return out
}
