package projection

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/podium-picks/internal/models"
)

// Standings are the current drivers' and constructors' championship tables
type Standings struct {
	Drivers      []Standing `json:"drivers"`
	Constructors []Standing `json:"constructors"`
}

// BuildStandings totals race points per driver and per team.
// Every roster entry appears, including those without points.
func BuildStandings(results []models.RaceResults, roster models.Roster) Standings {
	drivers := make(map[string]*Standing)
	teams := make(map[string]*Standing)

	driver := func(id string) *Standing {
		if s, ok := drivers[id]; ok {
			return s
		}
		s := &Standing{ID: id, Name: roster.NameOf(id), Points: decimal.Zero}
		drivers[id] = s
		return s
	}
	team := func(name string) *Standing {
		if s, ok := teams[name]; ok {
			return s
		}
		s := &Standing{ID: name, Name: name, Points: decimal.Zero}
		teams[name] = s
		return s
	}

	for _, d := range roster {
		driver(d.ID)
		if d.Team != "" {
			team(d.Team)
		}
	}

	for _, round := range results {
		for _, r := range round {
			won := r.Position != nil && *r.Position == 1
			ds := driver(r.DriverID)
			ds.Points = ds.Points.Add(r.Points)
			if won {
				ds.Wins++
			}
			if name := roster.TeamOf(r.DriverID); name != "" {
				ts := team(name)
				ts.Points = ts.Points.Add(r.Points)
				if won {
					ts.Wins++
				}
			}
		}
	}

	return Standings{
		Drivers:      rankStandings(drivers),
		Constructors: rankStandings(teams),
	}
}

func rankStandings(entries map[string]*Standing) []Standing {
	out := make([]Standing, 0, len(entries))
	for _, s := range entries {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Points.Cmp(out[j].Points); c != 0 {
			return c > 0
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// TeamExpectedPoints sums driver expected points by team for constructors' projections
func TeamExpectedPoints(race RaceProjection, roster models.Roster) map[string]float64 {
	out := make(map[string]float64)
	for _, d := range race.Drivers {
		team := d.Team
		if team == "" {
			team = roster.TeamOf(d.DriverID)
		}
		if team == "" {
			continue
		}
		out[team] += d.ExpectedPoints
	}
	return out
}
