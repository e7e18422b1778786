package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/scoring"
	"github.com/yourusername/podium-picks/internal/season"
	"github.com/yourusername/podium-picks/internal/service"
	"github.com/yourusername/podium-picks/internal/tiebreak"
)

func plainPrinter(format string) (*printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return newPrinter(&buf, format, false), &buf
}

func sampleRoundScores() *service.RoundScores {
	return &service.RoundScores{
		Season:      2025,
		Round:       4,
		ActualKnown: true,
		Predictions: []models.ScoredPrediction{
			{
				Prediction: models.Prediction{User: "ana", LockField: "p1"},
				Score:      models.PredictionScore{P1: 2, P2: 2, P3: 2, Lock: 1, PodiumExact: true, Total: 7},
			},
			{
				Prediction: models.Prediction{User: "ben"},
				Score:      models.PredictionScore{P1: 1, Total: 1},
			},
		},
		Summary: season.RoundSummary{Entries: 2, HighScore: 7, LowScore: 1, Average: 4, TopScorers: []string{"ana"}, LockHits: 1, LockAttempts: 1},
	}
}

func TestRoundScoresTable(t *testing.T) {
	p, buf := plainPrinter(formatTable)

	require.NoError(t, p.RoundScores(sampleRoundScores()))

	out := buf.String()
	assert.Contains(t, out, "Season 2025, round 4")
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "exact")
	assert.Contains(t, out, "High 7 (ana), low 1, average 4.00, locks 1/1")
	assert.NotContains(t, out, "Results not in yet")
}

func TestRoundScoresPendingActual(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	rs := &service.RoundScores{Season: 2025, Round: 9}

	require.NoError(t, p.RoundScores(rs))
	assert.Contains(t, buf.String(), "Results not in yet")
}

func TestRoundScoresJSON(t *testing.T) {
	p, buf := plainPrinter(formatJSON)

	require.NoError(t, p.RoundScores(sampleRoundScores()))

	var decoded service.RoundScores
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4, decoded.Round)
	assert.Len(t, decoded.Predictions, 2)
}

func TestStandingsTable(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	st := &service.SeasonStandings{
		Season:          2025,
		RoundsEvaluated: []int{1, 2},
		Totals: []season.SeasonTotals{
			{User: "ana", Total: 12, RoundsPlayed: 2, Avg: 6, LockHits: 2, LockAttempts: 2},
			{User: "ben", Total: 12, RoundsPlayed: 2, Avg: 6, LockHits: 1, LockAttempts: 2},
		},
		Ranking: tiebreak.Result{
			Ranking: []tiebreak.Ranked{
				{Rank: 1, Entry: tiebreak.Entry{User: "ana"}},
				{Rank: 2, Entry: tiebreak.Entry{User: "ben"}, SeparatedBy: "lock_hit_rate"},
			},
			DecidedBy:   "lock_hit_rate",
			Explanation: "ana ahead of ben on lock_hit_rate",
		},
		MostPickedWinners: []season.PickCount{{DriverID: "norris", DriverName: "Lando Norris", Count: 3}},
	}

	require.NoError(t, p.Standings(st))

	out := buf.String()
	assert.Contains(t, out, "after 2 round(s)")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "lock_hit_rate")
	assert.Contains(t, out, "ana ahead of ben on lock_hit_rate")
	assert.Contains(t, out, "Most picked winners: Lando Norris (3)")
}

func TestUserSeasonTable(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	totals := season.SeasonTotals{
		User:         "cat",
		Total:        5,
		RoundsPlayed: 1,
		Rounds: []season.RoundScore{
			{Round: 1},
			{Round: 2, Submitted: true, Total: 5, LockAttempted: true, LockHit: true},
		},
	}

	require.NoError(t, p.UserSeason(totals))

	out := buf.String()
	assert.Contains(t, out, "no")
	assert.Contains(t, out, "hit")
	assert.Contains(t, out, "cat: 5 points over 1 round(s)")
}

func TestSeasonPicksTable(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	scores := []scoring.SeasonPickScore{
		{User: "ana", WDCPoints: 2, WCCPoints: 1, CategoryHits: 2, CategoryMisses: 1, CategoryPending: 3, CategoryPoints: 5, Total: 8},
	}

	require.NoError(t, p.SeasonPicks(scores))
	assert.Contains(t, buf.String(), "2/1/3")
}

func TestRaceProjectionTable(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	rp := &projection.RaceProjection{
		Season:       2025,
		Round:        3,
		Runs:         400,
		Seed:         7,
		ModelVersion: "v1",
		Drivers: []projection.DriverProjection{
			{
				DriverID:         "norris",
				Team:             "McLaren",
				ExpectedPosition: 1.8,
				ExpectedPoints:   19.25,
				Probabilities:    projection.Probabilities{Win: 0.42, Podium: 0.8},
				Confidence:       0.9,
				Fallback:         features.FallbackNone,
			},
			{
				DriverID: "rookie",
				Team:     "Williams",
				Fallback: features.FallbackNeutral,
			},
		},
	}

	require.NoError(t, p.RaceProjection(rp))

	out := buf.String()
	assert.Contains(t, out, "400 runs, seed 7, model v1")
	assert.Contains(t, out, "42.0%")
	assert.Contains(t, out, "19.25")
	assert.Contains(t, out, string(features.FallbackNeutral))
}

func TestRaceProjectionDegenerate(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	rp := &projection.RaceProjection{Season: 2025, Round: 3, Degenerate: true, Reason: projection.ReasonEmptyField}

	require.NoError(t, p.RaceProjection(rp))
	assert.Contains(t, buf.String(), "No projection: "+projection.ReasonEmptyField)
}

func TestChampionshipTable(t *testing.T) {
	p, buf := plainPrinter(formatTable)
	entrant := func(id string, rank int, now, total float64) projection.EntrantProjection {
		return projection.EntrantProjection{
			ID:                       id,
			Rank:                     rank,
			CurrentPosition:          rank,
			CurrentPoints:            decimal.NewFromFloat(now),
			ProjectedPointsRemaining: decimal.NewFromFloat(total - now),
			ProjectedTotalPoints:     decimal.NewFromFloat(total),
			GapToLeader:              decimal.Zero,
		}
	}
	co := &service.ChampionshipOutlook{
		Season:       2025,
		AfterRound:   2,
		Drivers:      projection.ChampionshipProjection{RoundsRemaining: 1, Entrants: []projection.EntrantProjection{entrant("norris", 1, 43, 61.5)}},
		Constructors: projection.ChampionshipProjection{RoundsRemaining: 1, Entrants: []projection.EntrantProjection{entrant("McLaren", 1, 61, 90.25)}},
	}

	require.NoError(t, p.Championship(co))

	out := buf.String()
	assert.Contains(t, out, "1 round(s) remaining")
	assert.Contains(t, out, "Constructors")
	assert.Contains(t, out, "61.5")
	assert.Contains(t, out, "90.3")
}
