package season

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

func schedule(rounds ...int) models.Schedule {
	out := make(models.Schedule, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, models.RaceEvent{Season: 2025, Round: r})
	}
	return out
}

func scored(user string, round, total int, mutate ...func(sp *models.ScoredPrediction)) models.ScoredPrediction {
	sp := models.ScoredPrediction{
		Prediction: models.Prediction{User: user, Season: 2025, Round: round},
		Score:      models.PredictionScore{Total: total},
	}
	for _, m := range mutate {
		m(&sp)
	}
	return sp
}

func TestAggregateSeasonTotalsAndStreaks(t *testing.T) {
	preds := []models.ScoredPrediction{
		scored("ana", 1, 4),
		scored("ana", 2, 6),
		scored("ana", 3, 0),
		scored("ana", 4, 2),
		// round 5 not submitted
		scored("ana", 6, 3),
		scored("ana", 7, 5),
	}

	totals := AggregateSeason(preds, schedule(1, 2, 3, 4, 5, 6, 7))

	assert.Equal(t, "ana", totals.User)
	assert.Equal(t, 20, totals.Total)
	assert.Equal(t, 6, totals.RoundsPlayed)
	assert.InDelta(t, 20.0/6.0, totals.Avg, 1e-9)
	assert.Equal(t, 2, totals.BestStreak)
	assert.Equal(t, 2, totals.CurrentStreak)
	assert.Equal(t, 5, totals.LatestRoundPoints)
	assert.InDelta(t, (0.0+3+5)/3.0, totals.Clutch, 1e-9, "round 5 counts as zero")
	require.Len(t, totals.Rounds, 7)
	assert.False(t, totals.Rounds[4].Submitted)
}

func TestAggregateSeasonConsistencyTreatsMissingAsZero(t *testing.T) {
	preds := []models.ScoredPrediction{scored("ana", 1, 4), scored("ana", 2, 4)}

	totals := AggregateSeason(preds, schedule(1, 2, 3, 4))

	// per round: 4, 4, 0, 0 -> mean 2, variance 4
	assert.InDelta(t, 2.0, totals.Consistency, 1e-9)
}

func TestAggregateSeasonLockRate(t *testing.T) {
	lockHit := func(sp *models.ScoredPrediction) {
		sp.LockField = "p1"
		sp.Score.Lock = 1
	}
	lockMiss := func(sp *models.ScoredPrediction) { sp.LockField = "pole" }
	preds := []models.ScoredPrediction{
		scored("ana", 1, 3, lockHit),
		scored("ana", 2, 1, lockMiss),
		scored("ana", 3, 2),
		scored("ana", 4, 5, lockHit),
	}

	totals := AggregateSeason(preds, schedule(1, 2, 3, 4))

	assert.Equal(t, 3, totals.LockAttempts)
	assert.Equal(t, 2, totals.LockHits)
	assert.InDelta(t, 2.0/3.0, totals.LockRate, 1e-9)
}

func TestAggregateSeasonNoLockAttempts(t *testing.T) {
	totals := AggregateSeason([]models.ScoredPrediction{scored("ana", 1, 3)}, schedule(1))
	assert.Equal(t, 0.0, totals.LockRate)
}

func TestAggregateSeasonEmpty(t *testing.T) {
	totals := AggregateSeason(nil, schedule(1, 2, 3))
	assert.Equal(t, 0, totals.Total)
	assert.Equal(t, 0.0, totals.Avg)
	assert.Equal(t, 0, totals.BestStreak)
	assert.False(t, math.IsNaN(totals.Consistency))
}

func TestAggregateSeasonIgnoresUnscheduledRounds(t *testing.T) {
	preds := []models.ScoredPrediction{scored("ana", 1, 3), scored("ana", 9, 7)}
	totals := AggregateSeason(preds, schedule(1, 2))
	assert.Equal(t, 3, totals.Total)
}

func TestAggregateSeasonIndependentOfSubmissionOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	preds := make([]models.ScoredPrediction, 0, 10)
	sum := 0
	for r := 1; r <= 10; r++ {
		total := (r * 7) % 9
		sum += total
		preds = append(preds, scored("ana", r, total, func(sp *models.ScoredPrediction) {
			sp.SubmittedAt = base.Add(time.Duration(r) * time.Hour)
		}))
	}
	sched := schedule(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	want := AggregateSeason(preds, sched)
	assert.Equal(t, sum, want.Total)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := append([]models.ScoredPrediction(nil), preds...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, AggregateSeason(shuffled, sched))
	}
}

func TestAggregateSeasonKeepsLatestSubmission(t *testing.T) {
	early := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	preds := []models.ScoredPrediction{
		scored("ana", 1, 8, func(sp *models.ScoredPrediction) { sp.SubmittedAt = early.Add(time.Hour) }),
		scored("ana", 1, 2, func(sp *models.ScoredPrediction) { sp.SubmittedAt = early }),
	}
	totals := AggregateSeason(preds, schedule(1))
	assert.Equal(t, 8, totals.Total)
}

func TestAggregateByUser(t *testing.T) {
	preds := []models.ScoredPrediction{
		scored("ben", 1, 2),
		scored("ana", 1, 5),
		scored("ben", 2, 4),
	}
	all := AggregateByUser(preds, schedule(1, 2))
	require.Len(t, all, 2)
	assert.Equal(t, "ana", all[0].User)
	assert.Equal(t, 5, all[0].Total)
	assert.Equal(t, "ben", all[1].User)
	assert.Equal(t, 6, all[1].Total)
}
