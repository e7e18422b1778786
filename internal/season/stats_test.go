package season

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

var statsRoster = models.Roster{
	{ID: "norris", Name: "Lando Norris", Team: "McLaren"},
	{ID: "leclerc", Name: "Charles Leclerc", Team: "Ferrari"},
	{ID: "verstappen", Name: "Max Verstappen", Team: "Red Bull"},
}

func TestPickFrequency(t *testing.T) {
	preds := []models.Prediction{
		{User: "ana", P1: "norris", P2: "leclerc", P3: "verstappen", Pole: "norris", FastestLap: "leclerc"},
		{User: "ben", P1: "verstappen", P2: "norris", P3: "leclerc", Pole: "verstappen"},
	}

	freq := PickFrequency(preds, statsRoster)

	require.Len(t, freq, 3)
	// leclerc and norris both have 3 picks; Charles sorts before Lando
	assert.Equal(t, PickCount{DriverID: "leclerc", DriverName: "Charles Leclerc", Count: 3}, freq[0])
	assert.Equal(t, "norris", freq[1].DriverID)
	assert.Equal(t, 3, freq[1].Count)
	assert.Equal(t, "verstappen", freq[2].DriverID)
	assert.Equal(t, 3, freq[2].Count)
}

func TestMostPickedWinners(t *testing.T) {
	preds := []models.Prediction{
		{User: "ana", P1: "norris"},
		{User: "ben", P1: "verstappen"},
		{User: "cat", P1: "norris"},
		{User: "dan", P1: "leclerc"},
		{User: "eve"},
	}

	winners := MostPickedWinners(preds, statsRoster)

	require.Len(t, winners, 3)
	assert.Equal(t, "norris", winners[0].DriverID)
	assert.Equal(t, 2, winners[0].Count)
	assert.Equal(t, "leclerc", winners[1].DriverID)
	assert.Equal(t, "verstappen", winners[2].DriverID)
}

func TestMostPickedWinnersUnknownDriverUsesID(t *testing.T) {
	winners := MostPickedWinners([]models.Prediction{{P1: "rookie"}}, statsRoster)
	require.Len(t, winners, 1)
	assert.Equal(t, "rookie", winners[0].DriverName)
}

func TestSummarizeRound(t *testing.T) {
	round := []models.ScoredPrediction{
		scored("ben", 4, 6, func(sp *models.ScoredPrediction) { sp.Score.PodiumExact = true }),
		scored("ana", 4, 6, func(sp *models.ScoredPrediction) { sp.LockField = "p1"; sp.Score.Lock = 1 }),
		scored("cat", 4, 0, func(sp *models.ScoredPrediction) { sp.LockField = "pole" }),
	}

	summary := SummarizeRound(round)

	assert.Equal(t, 4, summary.Round)
	assert.Equal(t, 3, summary.Entries)
	assert.Equal(t, 6, summary.HighScore)
	assert.Equal(t, 0, summary.LowScore)
	assert.InDelta(t, 4.0, summary.Average, 1e-9)
	assert.Equal(t, []string{"ana", "ben"}, summary.TopScorers)
	assert.Equal(t, 1, summary.PodiumExactCount)
	assert.Equal(t, 2, summary.LockAttempts)
	assert.Equal(t, 1, summary.LockHits)
}

func TestSummarizeRoundEmpty(t *testing.T) {
	assert.Equal(t, RoundSummary{}, SummarizeRound(nil))
}
