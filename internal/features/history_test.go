package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

func TestBuildHistory(t *testing.T) {
	roster := models.Roster{
		{ID: "leclerc", Team: "Ferrari"},
		{ID: "hamilton", Team: "Ferrari"},
		{ID: "albon", Team: "Williams"},
	}
	rounds := []RoundData{
		{
			Event: models.RaceEvent{Season: 2025, Round: 2},
			Track: spa,
			Qualifying: models.QualifyingResults{
				{DriverID: "leclerc", Position: p(3)},
				{DriverID: "hamilton", Position: p(5)},
			},
			Race: models.RaceResults{
				{DriverID: "leclerc", Grid: p(3), LapOnePosition: p(2), Position: nil},
				{DriverID: "hamilton", Grid: p(5), Position: p(4)},
				{DriverID: "albon", Grid: p(12), Position: p(9)},
			},
		},
		{
			Event: models.RaceEvent{Season: 2025, Round: 1},
			Track: monza,
			Race: models.RaceResults{
				{DriverID: "leclerc", Grid: p(1), Position: p(1)},
			},
		},
		{
			Event: models.RaceEvent{Season: 2025, Round: 3},
			Race:  models.RaceResults{{DriverID: "albon", Position: p(7)}},
		},
	}

	history := BuildHistory("leclerc", roster, rounds)

	assert.Equal(t, "Ferrari", history.Team)
	require.Len(t, history.Rounds, 2, "round 3 has no leclerc result")
	assert.Equal(t, 1, history.Rounds[0].Round)
	assert.Equal(t, 1, history.Rounds[0].FieldSize)

	r2 := history.Rounds[1]
	assert.Equal(t, 3, r2.FieldSize)
	assert.True(t, r2.Started)
	assert.Nil(t, r2.FinishPosition)
	assert.Equal(t, 3, *r2.QualifyingPosition)
	assert.Equal(t, 2, *r2.LapOnePosition)
	assert.Equal(t, 5, *r2.TeammateQualifying)
	assert.True(t, r2.TeammateStarted)
	assert.Equal(t, 4, *r2.TeammateFinish)
	assert.Equal(t, spa, r2.Track)
	assert.False(t, history.Rounds[0].TeammateStarted, "no teammate result in round 1")
}

func TestHistoricalRoundRelative(t *testing.T) {
	r := HistoricalRound{FieldSize: 21}
	assert.Equal(t, 1.0, r.relative(1))
	assert.Equal(t, 0.0, r.relative(21))
	assert.Equal(t, 0.5, r.relative(11))

	unknown := HistoricalRound{}
	assert.Equal(t, 20, unknown.fieldSize())
}
