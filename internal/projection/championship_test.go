package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

func currentStandings() []Standing {
	return []Standing{
		{ID: "norris", Name: "Lando Norris", Points: decimal.NewFromInt(300), Position: 1},
		{ID: "piastri", Name: "Oscar Piastri", Points: decimal.RequireFromString("290.5"), Position: 2},
		{ID: "verstappen", Name: "Max Verstappen", Points: decimal.NewFromInt(280), Position: 3},
	}
}

func TestProjectChampionshipZeroRemaining(t *testing.T) {
	expected := ExpectedPointsTable{Default: map[string]float64{"norris": 18, "piastri": 17, "verstappen": 25}}

	projection := ProjectChampionship(currentStandings(), nil, expected)

	assert.Equal(t, 0, projection.RoundsRemaining)
	require.Len(t, projection.Entrants, 3)
	for _, e := range projection.Entrants {
		assert.True(t, e.ProjectedTotalPoints.Equal(e.CurrentPoints), e.ID)
		assert.True(t, e.ProjectedPointsRemaining.IsZero(), e.ID)
	}
	assert.Equal(t, "norris", projection.Entrants[0].ID)
	assert.Equal(t, "9.5", projection.Entrants[1].GapToLeader.String())
}

func TestProjectChampionshipRemainingRounds(t *testing.T) {
	remaining := models.Schedule{{Season: 2025, Round: 23}, {Season: 2025, Round: 24}}
	expected := ExpectedPointsTable{
		PerRound: map[int]map[string]float64{
			24: {"norris": 10, "piastri": 10, "verstappen": 25},
		},
		Default: map[string]float64{"norris": 12.5, "piastri": 15, "verstappen": 20.125},
	}

	projection := ProjectChampionship(currentStandings(), remaining, expected)

	assert.Equal(t, 2, projection.RoundsRemaining)
	require.Len(t, projection.Entrants, 3)

	// verstappen: 280 + 20.13 + 25 = 325.13
	leader, ok := projection.Leader()
	require.True(t, ok)
	assert.Equal(t, "verstappen", leader.ID)
	assert.Equal(t, "325.13", leader.ProjectedTotalPoints.String())
	assert.Equal(t, 1, leader.Rank)
	assert.True(t, leader.GapToLeader.IsZero())

	// piastri: 290.5 + 25 = 315.5; norris: 300 + 22.5 = 322.5
	assert.Equal(t, "norris", projection.Entrants[1].ID)
	assert.Equal(t, "2.63", projection.Entrants[1].GapToLeader.String())
	assert.Equal(t, "piastri", projection.Entrants[2].ID)
	assert.Equal(t, "315.5", projection.Entrants[2].ProjectedTotalPoints.String())
}

func TestProjectChampionshipTieBreaks(t *testing.T) {
	current := []Standing{
		{ID: "b", Name: "Bravo", Points: decimal.NewFromInt(10)},
		{ID: "a", Name: "Alpha", Points: decimal.NewFromInt(10)},
		{ID: "c", Name: "Charlie", Points: decimal.NewFromInt(12)},
	}
	remaining := models.Schedule{{Round: 5}}
	expected := ExpectedPointsTable{Default: map[string]float64{"a": 2, "b": 2}}

	projection := ProjectChampionship(current, remaining, expected)

	ids := []string{projection.Entrants[0].ID, projection.Entrants[1].ID, projection.Entrants[2].ID}
	// all on 12; charlie leads on current points, then name order
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestProjectChampionshipAddsUnknownEntrants(t *testing.T) {
	remaining := models.Schedule{{Round: 1}}
	expected := ExpectedPointsTable{Default: map[string]float64{"newcomer": 4}}

	projection := ProjectChampionship(nil, remaining, expected)

	require.Len(t, projection.Entrants, 1)
	assert.Equal(t, "newcomer", projection.Entrants[0].Name)
	assert.Equal(t, "4", projection.Entrants[0].ProjectedTotalPoints.String())
}

func TestBuildStandings(t *testing.T) {
	roster := models.Roster{
		{ID: "norris", Name: "Lando Norris", Team: "McLaren"},
		{ID: "piastri", Name: "Oscar Piastri", Team: "McLaren"},
		{ID: "leclerc", Name: "Charles Leclerc", Team: "Ferrari"},
		{ID: "albon", Name: "Alex Albon", Team: "Williams"},
	}
	results := []models.RaceResults{
		{
			{DriverID: "norris", Position: models.IntPtr(1), Points: decimal.NewFromInt(25)},
			{DriverID: "leclerc", Position: models.IntPtr(2), Points: decimal.NewFromInt(18)},
			{DriverID: "piastri", Position: nil, Points: decimal.Zero},
		},
		{
			{DriverID: "leclerc", Position: models.IntPtr(1), Points: decimal.RequireFromString("12.5")},
			{DriverID: "piastri", Position: models.IntPtr(2), Points: decimal.NewFromInt(9)},
		},
	}

	standings := BuildStandings(results, roster)

	require.Len(t, standings.Drivers, 4)
	assert.Equal(t, "leclerc", standings.Drivers[0].ID)
	assert.Equal(t, "30.5", standings.Drivers[0].Points.String())
	assert.Equal(t, 1, standings.Drivers[0].Wins)
	assert.Equal(t, "norris", standings.Drivers[1].ID)
	assert.Equal(t, "albon", standings.Drivers[3].ID)
	assert.True(t, standings.Drivers[3].Points.IsZero())
	assert.Equal(t, 4, standings.Drivers[3].Position)

	require.Len(t, standings.Constructors, 3)
	assert.Equal(t, "McLaren", standings.Constructors[0].ID)
	assert.Equal(t, "34", standings.Constructors[0].Points.String())
	assert.Equal(t, "Ferrari", standings.Constructors[1].ID)
}
