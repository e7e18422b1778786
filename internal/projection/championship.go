package projection

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/podium-picks/internal/models"
)

// expectedPointsPlaces is the decimal precision kept for projected points
const expectedPointsPlaces = 2

// Standing is one entrant's current championship position
type Standing struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Points   decimal.Decimal `json:"points"`
	Wins     int             `json:"wins"`
	Position int             `json:"position"`
}

// ExpectedPointsTable holds per-round expected points per entrant.
// Rounds without a specific entry use Default.
type ExpectedPointsTable struct {
	PerRound map[int]map[string]float64 `json:"per_round,omitempty"`
	Default  map[string]float64         `json:"default,omitempty"`
}

// ForRound returns the expected points table for a round
func (t ExpectedPointsTable) ForRound(round int) map[string]float64 {
	if perRound, ok := t.PerRound[round]; ok {
		return perRound
	}
	return t.Default
}

// EntrantProjection is one entrant's extrapolated season outcome
type EntrantProjection struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	CurrentPoints            decimal.Decimal `json:"current_points"`
	CurrentPosition          int             `json:"current_position"`
	ProjectedPointsRemaining decimal.Decimal `json:"projected_points_remaining"`
	ProjectedTotalPoints     decimal.Decimal `json:"projected_total_points"`
	GapToLeader              decimal.Decimal `json:"gap_to_leader"`
	Rank                     int             `json:"rank"`
}

// ChampionshipProjection is the extrapolated final classification
type ChampionshipProjection struct {
	RoundsRemaining int                 `json:"rounds_remaining"`
	Entrants        []EntrantProjection `json:"entrants"`
}

// Leader returns the top projected entrant
func (c ChampionshipProjection) Leader() (EntrantProjection, bool) {
	if len(c.Entrants) == 0 {
		return EntrantProjection{}, false
	}
	return c.Entrants[0], true
}

// ProjectChampionship adds expected points over the remaining rounds to current standings.
// With no rounds remaining the projected totals equal current points exactly.
func ProjectChampionship(current []Standing, remaining models.Schedule, expected ExpectedPointsTable) ChampionshipProjection {
	rounds := remaining.Sorted()
	byID := make(map[string]*EntrantProjection, len(current))
	order := make([]string, 0, len(current))

	add := func(id, name string, points decimal.Decimal, position int) *EntrantProjection {
		if e, ok := byID[id]; ok {
			return e
		}
		if name == "" {
			name = id
		}
		e := &EntrantProjection{
			ID:                       id,
			Name:                     name,
			CurrentPoints:            points,
			CurrentPosition:          position,
			ProjectedPointsRemaining: decimal.Zero,
		}
		byID[id] = e
		order = append(order, id)
		return e
	}

	for _, s := range current {
		add(s.ID, s.Name, s.Points, s.Position)
	}

	for _, event := range rounds {
		table := expected.ForRound(event.Round)
		ids := make([]string, 0, len(table))
		for id := range table {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			e := add(id, "", decimal.Zero, 0)
			pts := decimal.NewFromFloat(table[id]).Round(expectedPointsPlaces)
			e.ProjectedPointsRemaining = e.ProjectedPointsRemaining.Add(pts)
		}
	}

	entrants := make([]EntrantProjection, 0, len(order))
	for _, id := range order {
		e := byID[id]
		e.ProjectedTotalPoints = e.CurrentPoints.Add(e.ProjectedPointsRemaining)
		entrants = append(entrants, *e)
	}

	sort.SliceStable(entrants, func(i, j int) bool {
		a, b := entrants[i], entrants[j]
		if c := a.ProjectedTotalPoints.Cmp(b.ProjectedTotalPoints); c != 0 {
			return c > 0
		}
		if c := a.CurrentPoints.Cmp(b.CurrentPoints); c != 0 {
			return c > 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	for i := range entrants {
		entrants[i].Rank = i + 1
		entrants[i].GapToLeader = entrants[0].ProjectedTotalPoints.Sub(entrants[i].ProjectedTotalPoints)
	}

	return ChampionshipProjection{RoundsRemaining: len(rounds), Entrants: entrants}
}
