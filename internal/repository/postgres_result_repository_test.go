package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

func TestPostgresActualRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresResultRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redFlag := true
	actual := models.RaceActual{Season: 2099, Round: 1, P1: "norris", RedFlag: &redFlag}
	require.NoError(t, repo.SaveActual(ctx, actual))

	got, err := repo.GetActual(ctx, 2099, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "norris", got.P1)
	require.NotNil(t, got.RedFlag)
	assert.True(t, *got.RedFlag)
	assert.Nil(t, got.AnyDNF)

	missing, err := repo.GetActual(ctx, 2099, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresAdjudicationRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresResultRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, repo.RecordAdjudication(ctx, "ana", 2099, "chaos.most_dnfs", models.AdjudicationHit))

	adj, err := repo.GetAdjudication(ctx, "ana", 2099)
	require.NoError(t, err)
	assert.Equal(t, models.AdjudicationHit, adj.Status("chaos.most_dnfs"))
}
