package features

import (
	"sort"

	"github.com/yourusername/podium-picks/internal/models"
)

// defaultFieldSize is assumed when a round carries no result count
const defaultFieldSize = 20

// HistoricalRound is one past weekend from a single driver's perspective.
// A nil FinishPosition means the driver did not finish.
type HistoricalRound struct {
	Season             int          `json:"season"`
	Round              int          `json:"round"`
	Track              TrackProfile `json:"track"`
	FieldSize          int          `json:"field_size"`
	QualifyingPosition *int         `json:"qualifying_position"`
	Grid               *int         `json:"grid"`
	LapOnePosition     *int         `json:"lap_one_position"`
	FinishPosition     *int         `json:"finish_position"`
	Started            bool         `json:"started"`
	TeammateQualifying *int         `json:"teammate_qualifying"`
	// TeammateStarted separates a teammate DNF (nil TeammateFinish) from missing teammate data
	TeammateStarted bool `json:"teammate_started"`
	TeammateFinish  *int `json:"teammate_finish"`
}

func (r HistoricalRound) fieldSize() int {
	if r.FieldSize > 1 {
		return r.FieldSize
	}
	return defaultFieldSize
}

// relative maps a position to [0,1] where 1 is first place
func (r HistoricalRound) relative(pos int) float64 {
	n := r.fieldSize()
	return clamp01(1 - float64(pos-1)/float64(n-1))
}

// DriverHistory is the chronological record used to build one driver's features
type DriverHistory struct {
	DriverID string            `json:"driver_id"`
	Team     string            `json:"team"`
	Rounds   []HistoricalRound `json:"rounds"`
}

// Sorted returns the rounds ordered by season then round
func (h DriverHistory) Sorted() []HistoricalRound {
	out := append([]HistoricalRound(nil), h.Rounds...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Round < out[j].Round
	})
	return out
}

// RoundData is the raw repository data for one completed round
type RoundData struct {
	Event      models.RaceEvent         `json:"event"`
	Track      TrackProfile             `json:"track"`
	Qualifying models.QualifyingResults `json:"qualifying"`
	Race       models.RaceResults       `json:"race"`
}

// BuildHistory assembles a driver's history from completed rounds.
// Rounds where the driver has neither a qualifying nor a race result are skipped.
func BuildHistory(driverID string, roster models.Roster, rounds []RoundData) DriverHistory {
	history := DriverHistory{DriverID: driverID, Team: roster.TeamOf(driverID)}
	mate, hasMate := roster.Teammate(driverID)

	for _, rd := range rounds {
		quali := rd.Qualifying.ByDriver()
		race := rd.Race.ByDriver()

		q, hasQuali := quali[driverID]
		r, hasRace := race[driverID]
		if !hasQuali && !hasRace {
			continue
		}

		hr := HistoricalRound{
			Season:    rd.Event.Season,
			Round:     rd.Event.Round,
			Track:     rd.Track,
			FieldSize: max(len(rd.Race), len(rd.Qualifying)),
		}
		if hasQuali {
			hr.QualifyingPosition = q.Position
		}
		if hasRace {
			hr.Started = true
			hr.Grid = r.Grid
			hr.LapOnePosition = r.LapOnePosition
			hr.FinishPosition = r.Position
		}
		if hasMate {
			if mq, ok := quali[mate]; ok {
				hr.TeammateQualifying = mq.Position
			}
			if mr, ok := race[mate]; ok {
				hr.TeammateStarted = true
				hr.TeammateFinish = mr.Position
			}
		}
		history.Rounds = append(history.Rounds, hr)
	}

	sort.SliceStable(history.Rounds, func(i, j int) bool {
		if history.Rounds[i].Season != history.Rounds[j].Season {
			return history.Rounds[i].Season < history.Rounds[j].Season
		}
		return history.Rounds[i].Round < history.Rounds[j].Round
	})
	return history
}
