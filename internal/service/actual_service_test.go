package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

func TestRefreshActualDerivesAndAppliesOverrides(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	actual, err := f.actuals.RefreshActual(ctx, testSeason, 1)
	require.NoError(t, err)
	require.NotNil(t, actual)

	assert.Equal(t, "norris", actual.Pole)
	assert.Equal(t, "norris", actual.P1)
	assert.Equal(t, "leclerc", actual.P2)
	assert.Equal(t, "hamilton", actual.P3)
	assert.Equal(t, "norris", actual.FastestLap)
	require.NotNil(t, actual.AnyDNF)
	assert.True(t, *actual.AnyDNF)
	require.NotNil(t, actual.RedFlag)
	assert.True(t, *actual.RedFlag, "red flag comes from the stored override")

	stored, err := f.repo.GetActual(ctx, testSeason, 1)
	require.NoError(t, err)
	assert.Equal(t, actual, stored)
}

func TestRefreshActualSkipsRoundWithoutResults(t *testing.T) {
	f := newFixture()

	actual, err := f.actuals.RefreshActual(context.Background(), testSeason, 3)
	require.NoError(t, err)
	assert.Nil(t, actual)
}

func TestRefreshActualRejectsStandingsOverride(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.SetOverrides(testSeason, 2, map[string]bool{"p1": true})

	actual, err := f.actuals.RefreshActual(ctx, testSeason, 2)
	require.NoError(t, err)
	require.NotNil(t, actual)
	assert.Equal(t, "piastri", actual.P1, "rejected overrides leave the derived actual intact")
}

func TestRefreshActualValidatesIdentifiers(t *testing.T) {
	f := newFixture()

	_, err := f.actuals.RefreshActual(context.Background(), 0, 1)
	assert.True(t, models.IsValidationError(err))
}

func TestRefreshSeason(t *testing.T) {
	f := newFixture()

	derived, err := f.actuals.RefreshSeason(context.Background(), testSeason)
	require.NoError(t, err)
	assert.Equal(t, 2, derived)
}

func TestRecordAdjudicationInvalidatesSeasonCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.actuals.RefreshSeason(ctx, testSeason)
	require.NoError(t, err)

	before, err := f.standings.SeasonPickStandings(ctx, testSeason)
	require.NoError(t, err)
	require.Equal(t, "ana", before[0].User)
	assert.Equal(t, 6, before[0].Total)

	err = f.actuals.RecordAdjudication(ctx, "ana", testSeason, "chaos.most_dnfs", models.AdjudicationMiss, "steward")
	require.NoError(t, err)

	after, err := f.standings.SeasonPickStandings(ctx, testSeason)
	require.NoError(t, err)
	assert.Equal(t, 4, after[0].Total)

	err = f.actuals.RecordAdjudication(ctx, "", testSeason, "chaos.most_dnfs", models.AdjudicationHit, "steward")
	assert.True(t, models.IsValidationError(err))
}
