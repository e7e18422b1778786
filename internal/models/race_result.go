package models

import (
	"github.com/shopspring/decimal"
)

// QualifyingResult represents one driver's qualifying classification
type QualifyingResult struct {
	Season   int    `db:"season" json:"season" validate:"required,gt=0"`
	Round    int    `db:"round" json:"round" validate:"required,gt=0"`
	DriverID string `db:"driver_id" json:"driverId" validate:"required"`
	Position *int   `db:"position" json:"position"` // nil when not classified
}

// RaceResult represents one driver's race classification
type RaceResult struct {
	Season         int             `db:"season" json:"season" validate:"required,gt=0"`
	Round          int             `db:"round" json:"round" validate:"required,gt=0"`
	DriverID       string          `db:"driver_id" json:"driverId" validate:"required"`
	Grid           *int            `db:"grid" json:"grid"`
	LapOnePosition *int            `db:"lap_one_position" json:"lapOnePosition"`
	Position       *int            `db:"position" json:"position"` // nil signals DNF / not classified
	Points         decimal.Decimal `db:"points" json:"points"`
	FastestLapRank *int            `db:"fastest_lap_rank" json:"fastestLapRank"`
}

// IsClassified reports whether the driver has a finishing position
func (r RaceResult) IsClassified() bool {
	return r.Position != nil
}

// FinishedWithin reports whether the driver finished at or above the given position
func (r RaceResult) FinishedWithin(threshold int) bool {
	return r.Position != nil && *r.Position >= 1 && *r.Position <= threshold
}

// PositionsGained returns grid minus finish, or false when either is unknown
func (r RaceResult) PositionsGained() (int, bool) {
	if r.Grid == nil || r.Position == nil || *r.Grid <= 0 {
		return 0, false
	}
	return *r.Grid - *r.Position, true
}

// RaceResults is the result set for one round
type RaceResults []RaceResult

// ByDriver indexes the result set by driver id
func (rs RaceResults) ByDriver() map[string]RaceResult {
	index := make(map[string]RaceResult, len(rs))
	for _, r := range rs {
		index[r.DriverID] = r
	}
	return index
}

// AtPosition returns the driver classified at the given position
func (rs RaceResults) AtPosition(position int) (string, bool) {
	for _, r := range rs {
		if r.Position != nil && *r.Position == position {
			return r.DriverID, true
		}
	}
	return "", false
}

// FastestLap returns the driver with fastest lap rank 1
func (rs RaceResults) FastestLap() (string, bool) {
	for _, r := range rs {
		if r.FastestLapRank != nil && *r.FastestLapRank == 1 {
			return r.DriverID, true
		}
	}
	return "", false
}

// QualifyingResults is the qualifying classification for one round
type QualifyingResults []QualifyingResult

// AtPosition returns the driver qualified at the given position
func (qs QualifyingResults) AtPosition(position int) (string, bool) {
	for _, q := range qs {
		if q.Position != nil && *q.Position == position {
			return q.DriverID, true
		}
	}
	return "", false
}

// ByDriver indexes qualifying results by driver id
func (qs QualifyingResults) ByDriver() map[string]QualifyingResult {
	index := make(map[string]QualifyingResult, len(qs))
	for _, q := range qs {
		index[q.DriverID] = q
	}
	return index
}

// IntPtr is a helper for optional positions
func IntPtr(v int) *int {
	return &v
}
