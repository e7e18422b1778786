package service

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/scoring"
)

const testSeason = 2025

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func qualifying(round int, order ...string) []models.QualifyingResult {
	out := make([]models.QualifyingResult, len(order))
	for i, id := range order {
		out[i] = models.QualifyingResult{Season: testSeason, Round: round, DriverID: id, Position: models.IntPtr(i + 1)}
	}
	return out
}

func finish(round int, driver string, grid int, position *int, points int64, fastestLapRank int) models.RaceResult {
	return models.RaceResult{
		Season:         testSeason,
		Round:          round,
		DriverID:       driver,
		Grid:           models.IntPtr(grid),
		Position:       position,
		Points:         decimal.NewFromInt(points),
		FastestLapRank: models.IntPtr(fastestLapRank),
	}
}

func submitted(day int) time.Time {
	return time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
}

// fixtureSnapshot is a three-round season with results for rounds 1 and 2.
// After both rounds ana and ben tie on 12 points and ana leads on lock hit rate.
func fixtureSnapshot() *repository.Snapshot {
	race := []models.RaceResult{
		finish(1, "norris", 1, models.IntPtr(1), 25, 1),
		finish(1, "leclerc", 3, models.IntPtr(2), 18, 3),
		finish(1, "hamilton", 4, models.IntPtr(3), 15, 2),
		finish(1, "piastri", 2, nil, 0, 4),
		finish(2, "piastri", 1, models.IntPtr(1), 25, 1),
		finish(2, "norris", 2, models.IntPtr(2), 18, 2),
		finish(2, "hamilton", 3, models.IntPtr(3), 15, 3),
		finish(2, "leclerc", 4, models.IntPtr(4), 12, 4),
	}

	return &repository.Snapshot{
		Rosters: map[int]models.Roster{
			testSeason: {
				{ID: "norris", Name: "Lando Norris", Team: "McLaren"},
				{ID: "piastri", Name: "Oscar Piastri", Team: "McLaren"},
				{ID: "leclerc", Name: "Charles Leclerc", Team: "Ferrari"},
				{ID: "hamilton", Name: "Lewis Hamilton", Team: "Ferrari"},
			},
		},
		Schedules: map[int]models.Schedule{
			testSeason: {
				{Season: testSeason, Round: 1, RaceName: "Australian Grand Prix", TrackID: "albert_park"},
				{Season: testSeason, Round: 2, RaceName: "Chinese Grand Prix", TrackID: "shanghai"},
				{Season: testSeason, Round: 3, RaceName: "Japanese Grand Prix", TrackID: "suzuka"},
			},
		},
		Qualifying: append(
			qualifying(1, "norris", "piastri", "leclerc", "hamilton"),
			qualifying(2, "piastri", "norris", "hamilton", "leclerc")...,
		),
		Race: race,
		Overrides: []repository.ActualOverride{
			{Season: testSeason, Round: 1, Fields: map[string]bool{"redFlag": true}},
		},
		Predictions: []models.Prediction{
			{
				User: "ana", Season: testSeason, Round: 1,
				P1: "piastri", P2: "norris", P3: "leclerc", Pole: "piastri", FastestLap: "piastri",
				SubmittedAt: submitted(10),
			},
			{
				User: "ana", Season: testSeason, Round: 1,
				P1: "norris", P2: "leclerc", P3: "hamilton", Pole: "norris", FastestLap: "norris",
				LockField: "p1", SideBets: map[models.SideBet]bool{models.SideBetPoleConverts: true},
				SubmittedAt: submitted(14),
			},
			{
				User: "ben", Season: testSeason, Round: 1,
				P1: "norris", P2: "piastri", P3: "leclerc", Pole: "norris", FastestLap: "leclerc",
				LockField: "p2", SideBets: map[models.SideBet]bool{models.SideBetRedFlag: true},
				SubmittedAt: submitted(13),
			},
			{
				User: "ana", Season: testSeason, Round: 2,
				P1: "norris", P2: "piastri", P3: "hamilton", Pole: "norris", FastestLap: "norris",
				LockField: "p3", SubmittedAt: submitted(21),
			},
			{
				User: "ben", Season: testSeason, Round: 2,
				P1: "piastri", P2: "norris", P3: "hamilton", Pole: "piastri", FastestLap: "norris",
				LockField: "pole", SideBets: map[models.SideBet]bool{models.SideBetAnyDNF: true},
				SubmittedAt: submitted(21),
			},
			{
				User: "cat", Season: testSeason, Round: 3,
				P1: "leclerc", P2: "hamilton", P3: "norris", Pole: "leclerc", FastestLap: "leclerc",
				SubmittedAt: submitted(28),
			},
		},
		SeasonPicks: []models.SeasonPick{
			{User: "ana", Season: testSeason, WDC: []string{"norris", "leclerc", "piastri", "hamilton"}, WCC: []string{"McLaren", "Ferrari"},
				Categories: []models.CategoryPick{{Group: models.CategoryChaos, Field: "most_dnfs", Pick: "piastri"}}},
			{User: "ben", Season: testSeason, WDC: []string{"piastri", "norris"}, WCC: []string{"Ferrari", "McLaren"}},
		},
		Adjudications: []models.Adjudication{
			{User: "ana", Season: testSeason, Fields: map[string]models.AdjudicationStatus{"chaos.most_dnfs": models.AdjudicationHit}},
		},
		Tracks: []features.TrackProfile{
			{TrackID: "albert_park", HighSpeed: 0.6, Downforce: 0.5, Traction: 0.5, Degradation: 0.4, Braking: 0.6, Street: 0.7},
			{TrackID: "shanghai", HighSpeed: 0.5, Downforce: 0.6, Traction: 0.6, Degradation: 0.7, Braking: 0.6, Street: 0},
			{TrackID: "suzuka", HighSpeed: 0.7, Downforce: 0.8, Traction: 0.4, Degradation: 0.6, Braking: 0.4, Street: 0},
		},
	}
}

type fixture struct {
	repo        *repository.MemoryRepository
	cache       *ResultCache
	actuals     *ActualService
	standings   *StandingsService
	projections *ProjectionService
}

func newFixture() *fixture {
	repo := repository.NewMemoryRepository(fixtureSnapshot())
	resultCache := NewResultCache(time.Minute, 2*time.Minute)
	log := quietLogger()

	sim := projection.DefaultSimulationConfig()
	sim.Runs = 400

	return &fixture{
		repo:        repo,
		cache:       resultCache,
		actuals:     NewActualService(repo, resultCache, models.DefaultDeriveOptions(), log),
		standings:   NewStandingsService(repo, resultCache, scoring.DefaultConfig(), scoring.DefaultSeasonPickConfig(), nil, log),
		projections: NewProjectionService(repo, resultCache, models.DefaultProjectionModel(), sim, features.DefaultConfig(), log),
	}
}
