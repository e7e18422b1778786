package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/repository"
)

func TestProjectRoundIsDeterministic(t *testing.T) {
	first, err := newFixture().projections.ProjectRound(context.Background(), testSeason, 3)
	require.NoError(t, err)
	second, err := newFixture().projections.ProjectRound(context.Background(), testSeason, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.Degenerate)
	assert.Equal(t, testSeason, first.Season)
	assert.Equal(t, 3, first.Round)
	assert.Len(t, first.Drivers, 4)

	win := 0.0
	for _, d := range first.Drivers {
		win += d.Probabilities.Win
	}
	assert.LessOrEqual(t, win, 1.0+1e-9)
	assert.InDelta(t, 1.0, win, 0.05)
}

func TestProjectRoundOpeningRoundFallsBackToNeutral(t *testing.T) {
	f := newFixture()

	field, err := f.projections.FeatureField(context.Background(), testSeason, 1)
	require.NoError(t, err)
	require.Len(t, field, 4)
	for _, d := range field {
		assert.Equal(t, features.FallbackNeutral, d.Fallback, "driver %s", d.DriverID)
	}
}

func TestProjectRoundUnknownRound(t *testing.T) {
	f := newFixture()

	_, err := f.projections.ProjectRound(context.Background(), testSeason, 9)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestProjectRoundEmptyRosterIsDegenerate(t *testing.T) {
	repo := repository.NewMemoryRepository(&repository.Snapshot{
		Schedules: map[int]models.Schedule{
			2030: {{Season: 2030, Round: 1, RaceName: "Season Opener", TrackID: "unknown"}},
		},
	})
	svc := NewProjectionService(repo, nil, models.DefaultProjectionModel(), projection.DefaultSimulationConfig(), features.DefaultConfig(), quietLogger())

	race, err := svc.ProjectRound(context.Background(), 2030, 1)
	require.NoError(t, err)
	assert.True(t, race.Degenerate)
	assert.Equal(t, projection.ReasonEmptyField, race.Reason)
}

func TestProjectChampionshipAfterFinalRoundEqualsStandings(t *testing.T) {
	f := newFixture()

	outlook, err := f.projections.ProjectChampionship(context.Background(), testSeason, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, outlook.Drivers.RoundsRemaining)

	leader, ok := outlook.Drivers.Leader()
	require.True(t, ok)
	assert.Equal(t, "norris", leader.ID)
	assert.True(t, leader.ProjectedTotalPoints.Equal(decimal.NewFromInt(43)))
	for _, e := range outlook.Drivers.Entrants {
		assert.True(t, e.ProjectedTotalPoints.Equal(e.CurrentPoints), "entrant %s", e.ID)
	}

	team, ok := outlook.Constructors.Leader()
	require.True(t, ok)
	assert.Equal(t, "McLaren", team.ID)
	assert.True(t, team.ProjectedTotalPoints.Equal(decimal.NewFromInt(68)))
}

func TestProjectChampionshipDefaultsToLatestCompletedRound(t *testing.T) {
	f := newFixture()

	outlook, err := f.projections.ProjectChampionship(context.Background(), testSeason, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, outlook.AfterRound)
	assert.Equal(t, 1, outlook.Drivers.RoundsRemaining)

	total := decimal.Zero
	for _, e := range outlook.Drivers.Entrants {
		assert.True(t, e.ProjectedTotalPoints.GreaterThanOrEqual(e.CurrentPoints), "entrant %s", e.ID)
		assert.False(t, e.GapToLeader.IsNegative())
		total = total.Add(e.ProjectedPointsRemaining)
	}
	// four cars share at most 25+18+15+12 points per race, plus rounding
	assert.True(t, total.LessThanOrEqual(decimal.NewFromFloat(71.05)), "got %s", total)
	assert.True(t, total.IsPositive())
}

func TestProjectChampionshipUsesResultsThroughAfterRoundOnly(t *testing.T) {
	// every round has results; the outlook after round 1 must not see rounds 2 and 3
	complete := fixtureSnapshot()
	complete.Qualifying = append(complete.Qualifying, qualifying(3, "hamilton", "leclerc", "norris", "piastri")...)
	complete.Race = append(complete.Race,
		finish(3, "hamilton", 1, models.IntPtr(1), 25, 1),
		finish(3, "leclerc", 2, models.IntPtr(2), 18, 2),
		finish(3, "norris", 3, models.IntPtr(3), 15, 3),
		finish(3, "piastri", 4, models.IntPtr(4), 12, 4),
	)

	// same round 1, different round 2, no round 3
	reshuffled := fixtureSnapshot()
	reshuffled.Qualifying = append(qualifying(1, "norris", "piastri", "leclerc", "hamilton"),
		qualifying(2, "leclerc", "hamilton", "piastri", "norris")...)
	reshuffled.Race = append(reshuffled.Race[:4],
		finish(2, "leclerc", 1, models.IntPtr(1), 25, 1),
		finish(2, "hamilton", 2, models.IntPtr(2), 18, 2),
		finish(2, "piastri", 3, nil, 0, 3),
		finish(2, "norris", 4, nil, 0, 4),
	)

	sim := projection.DefaultSimulationConfig()
	sim.Runs = 400
	newService := func(snap *repository.Snapshot) *ProjectionService {
		repo := repository.NewMemoryRepository(snap)
		return NewProjectionService(repo, NewResultCache(time.Minute, time.Minute),
			models.DefaultProjectionModel(), sim, features.DefaultConfig(), quietLogger())
	}
	ctx := context.Background()

	full := newService(complete)
	latest, err := full.ProjectRound(ctx, testSeason, 3)
	require.NoError(t, err)

	got, err := full.ProjectChampionship(ctx, testSeason, 1)
	require.NoError(t, err)
	want, err := newService(reshuffled).ProjectChampionship(ctx, testSeason, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, got.AfterRound)
	assert.Equal(t, 2, got.Drivers.RoundsRemaining)
	assert.Equal(t, want.Drivers, got.Drivers)
	assert.Equal(t, want.Constructors, got.Constructors)

	// the cached round 3 projection built from rounds 1 and 2 is left alone
	again, err := full.ProjectRound(ctx, testSeason, 3)
	require.NoError(t, err)
	assert.Equal(t, latest, again)
}

func TestNextRound(t *testing.T) {
	f := newFixture()

	next, err := f.projections.NextRound(context.Background(), testSeason)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestResultCacheInvalidateSeason(t *testing.T) {
	rc := NewResultCache(time.Minute, time.Minute)
	rc.Set(CacheKey{Kind: kindSeason, Season: 2025}, 1)
	rc.Set(CacheKey{Kind: kindRoundScores, Season: 2025, Round: 3}, 2)
	rc.Set(CacheKey{Kind: kindUserSeason, Season: 2025, User: "a:b"}, 3)
	rc.Set(CacheKey{Kind: kindSeason, Season: 2024}, 4)

	assert.Equal(t, 3, rc.InvalidateSeason(2025))
	assert.Equal(t, 1, rc.ItemCount())

	_, ok := rc.Get(CacheKey{Kind: kindSeason, Season: 2025})
	assert.False(t, ok)
	v, ok := rc.Get(CacheKey{Kind: kindSeason, Season: 2024})
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	hits, misses, ratio := rc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)

	rc.Clear()
	assert.Equal(t, 0, rc.ItemCount())
}
