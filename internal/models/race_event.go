package models

import (
	"sort"
	"time"
)

// RaceEvent represents one scheduled race weekend
type RaceEvent struct {
	Season   int       `db:"season" json:"season" validate:"required,gt=0"`
	Round    int       `db:"round" json:"round" validate:"required,gt=0"`
	RaceName string    `db:"race_name" json:"raceName" validate:"required"`
	Date     time.Time `db:"race_date" json:"date"`
	TrackID  string    `db:"track_id" json:"trackId"`
}

// Schedule is a season timeline ordered by round
type Schedule []RaceEvent

// Sorted returns a copy ordered by round ascending
func (s Schedule) Sorted() Schedule {
	out := append(Schedule{}, s...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Round < out[j].Round
	})
	return out
}

// Rounds returns the round numbers in schedule order
func (s Schedule) Rounds() []int {
	sorted := s.Sorted()
	rounds := make([]int, len(sorted))
	for i, e := range sorted {
		rounds[i] = e.Round
	}
	return rounds
}

// Through returns the events up to and including the given round
func (s Schedule) Through(round int) Schedule {
	out := Schedule{}
	for _, e := range s.Sorted() {
		if e.Round <= round {
			out = append(out, e)
		}
	}
	return out
}

// After returns the events strictly after the given round
func (s Schedule) After(round int) Schedule {
	out := Schedule{}
	for _, e := range s.Sorted() {
		if e.Round > round {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the event for a round
func (s Schedule) Find(round int) (RaceEvent, bool) {
	for _, e := range s {
		if e.Round == round {
			return e, true
		}
	}
	return RaceEvent{}, false
}
