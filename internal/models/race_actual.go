package models

import (
	"sort"
)

// Field names a scoreable prediction slot
type Field string

// Required prediction slots
const (
	FieldP1         Field = "p1"
	FieldP2         Field = "p2"
	FieldP3         Field = "p3"
	FieldPole       Field = "pole"
	FieldFastestLap Field = "fastestLap"
)

// RequiredFields lists the five slots every complete prediction fills, in scoring order
var RequiredFields = []Field{FieldP1, FieldP2, FieldP3, FieldPole, FieldFastestLap}

// IsRequiredField reports whether f is one of the five driver slots
func IsRequiredField(f Field) bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// SideBet names a round-level yes/no event
type SideBet string

// Side bets
const (
	SideBetPoleConverts   SideBet = "poleConverts"
	SideBetFrontRowWinner SideBet = "frontRowWinner"
	SideBetAnyDNF         SideBet = "anyDnf"
	SideBetRedFlag        SideBet = "redFlag"
	SideBetBigMover       SideBet = "bigMover"
	SideBetOther7Podium   SideBet = "other7Podium"
)

// AllSideBets is the fixed evaluation order for side bets
var AllSideBets = []SideBet{
	SideBetPoleConverts,
	SideBetFrontRowWinner,
	SideBetAnyDNF,
	SideBetRedFlag,
	SideBetBigMover,
	SideBetOther7Podium,
}

// IsSideBet reports whether name is a known side bet
func IsSideBet(name string) bool {
	for _, s := range AllSideBets {
		if string(s) == name {
			return true
		}
	}
	return false
}

// RaceActual is the derived outcome snapshot for one round.
// Empty driver ids and nil booleans mean the outcome is not known yet.
type RaceActual struct {
	Season     int    `db:"season" json:"season"`
	Round      int    `db:"round" json:"round"`
	Pole       string `db:"pole" json:"pole"`
	P1         string `db:"p1" json:"p1"`
	P2         string `db:"p2" json:"p2"`
	P3         string `db:"p3" json:"p3"`
	FastestLap string `db:"fastest_lap" json:"fastestLap"`

	PoleConverts   *bool `db:"pole_converts" json:"poleConverts"`
	FrontRowWinner *bool `db:"front_row_winner" json:"frontRowWinner"`
	AnyDNF         *bool `db:"any_dnf" json:"anyDnf"`
	RedFlag        *bool `db:"red_flag" json:"redFlag"`
	BigMover       *bool `db:"big_mover" json:"bigMover"`
	Other7Podium   *bool `db:"other7_podium" json:"other7Podium"`
}

// Slot returns the actual driver for a required field
func (a RaceActual) Slot(f Field) string {
	switch f {
	case FieldP1:
		return a.P1
	case FieldP2:
		return a.P2
	case FieldP3:
		return a.P3
	case FieldPole:
		return a.Pole
	case FieldFastestLap:
		return a.FastestLap
	}
	return ""
}

// Outcome returns the recorded outcome of a side bet
func (a RaceActual) Outcome(bet SideBet) *bool {
	switch bet {
	case SideBetPoleConverts:
		return a.PoleConverts
	case SideBetFrontRowWinner:
		return a.FrontRowWinner
	case SideBetAnyDNF:
		return a.AnyDNF
	case SideBetRedFlag:
		return a.RedFlag
	case SideBetBigMover:
		return a.BigMover
	case SideBetOther7Podium:
		return a.Other7Podium
	}
	return nil
}

func (a *RaceActual) setOutcome(bet SideBet, value bool) {
	v := value
	switch bet {
	case SideBetPoleConverts:
		a.PoleConverts = &v
	case SideBetFrontRowWinner:
		a.FrontRowWinner = &v
	case SideBetAnyDNF:
		a.AnyDNF = &v
	case SideBetRedFlag:
		a.RedFlag = &v
	case SideBetBigMover:
		a.BigMover = &v
	case SideBetOther7Podium:
		a.Other7Podium = &v
	}
}

// DeriveOptions tunes the derivable side-bet outcomes
type DeriveOptions struct {
	// BigMoverThreshold is the number of places a classified driver must gain
	BigMoverThreshold int
	// FrontRunningTeams are excluded from the other7Podium outcome
	FrontRunningTeams []string
}

// DefaultDeriveOptions returns the league's standing derivation settings
func DefaultDeriveOptions() DeriveOptions {
	return DeriveOptions{
		BigMoverThreshold: 10,
		FrontRunningTeams: []string{"McLaren", "Ferrari", "Red Bull"},
	}
}

// DeriveActual recomputes a RaceActual from the round's qualifying and race results.
// Red flags are not derivable and stay unknown until overridden.
func DeriveActual(season, round int, qualifying QualifyingResults, race RaceResults, roster Roster, opts DeriveOptions) RaceActual {
	actual := RaceActual{Season: season, Round: round}

	actual.Pole, _ = qualifying.AtPosition(1)
	actual.P1, _ = race.AtPosition(1)
	actual.P2, _ = race.AtPosition(2)
	actual.P3, _ = race.AtPosition(3)
	actual.FastestLap, _ = race.FastestLap()

	if actual.Pole != "" && actual.P1 != "" {
		actual.setOutcome(SideBetPoleConverts, actual.Pole == actual.P1)
	}

	if actual.P1 != "" {
		if winner, ok := race.ByDriver()[actual.P1]; ok && winner.Grid != nil && *winner.Grid > 0 {
			actual.setOutcome(SideBetFrontRowWinner, *winner.Grid <= 2)
		}
	}

	if len(race) > 0 {
		anyDNF := false
		bigMover := false
		for _, r := range race {
			if !r.IsClassified() {
				anyDNF = true
			}
			if gained, ok := r.PositionsGained(); ok && opts.BigMoverThreshold > 0 && gained >= opts.BigMoverThreshold {
				bigMover = true
			}
		}
		actual.setOutcome(SideBetAnyDNF, anyDNF)
		actual.setOutcome(SideBetBigMover, bigMover)
	}

	if actual.P1 != "" && actual.P2 != "" && actual.P3 != "" && len(roster) > 0 {
		frontRunning := make(map[string]bool, len(opts.FrontRunningTeams))
		for _, t := range opts.FrontRunningTeams {
			frontRunning[t] = true
		}
		other := false
		for _, id := range []string{actual.P1, actual.P2, actual.P3} {
			team := roster.TeamOf(id)
			if team != "" && !frontRunning[team] {
				other = true
			}
		}
		actual.setOutcome(SideBetOther7Podium, other)
	}

	return actual
}

// ApplyOverride applies adjudicated outcomes to the non-standings fields of an actual.
// Standings fields are always derived from results and cannot be overridden.
func ApplyOverride(actual RaceActual, overrides map[string]bool) (RaceActual, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := actual
	for _, k := range keys {
		if IsRequiredField(Field(k)) {
			return actual, ErrStandingsOverride.WithField(k)
		}
		if !IsSideBet(k) {
			return actual, NewValidationError("unknown_override", "unknown override field").WithField(k)
		}
		out.setOutcome(SideBet(k), overrides[k])
	}
	return out, nil
}
