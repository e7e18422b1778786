package models

import "sort"

// Driver represents a rostered driver for a season
type Driver struct {
	ID   string `db:"driver_id" json:"driverId" validate:"required"`
	Name string `db:"driver_name" json:"driverName" validate:"required"`
	Team string `db:"team" json:"team" validate:"required"`
}

// Roster is the set of drivers assigned for one season
type Roster []Driver

// ByID indexes the roster by driver id
func (r Roster) ByID() map[string]Driver {
	index := make(map[string]Driver, len(r))
	for _, d := range r {
		index[d.ID] = d
	}
	return index
}

// NameOf returns the driver name, or the id itself when the driver is not rostered
func (r Roster) NameOf(driverID string) string {
	for _, d := range r {
		if d.ID == driverID {
			return d.Name
		}
	}
	return driverID
}

// TeamOf returns the team of a driver or an empty string
func (r Roster) TeamOf(driverID string) string {
	for _, d := range r {
		if d.ID == driverID {
			return d.Team
		}
	}
	return ""
}

// Teams returns the distinct team names sorted ascending
func (r Roster) Teams() []string {
	seen := make(map[string]bool)
	teams := make([]string, 0)
	for _, d := range r {
		if d.Team == "" || seen[d.Team] {
			continue
		}
		seen[d.Team] = true
		teams = append(teams, d.Team)
	}
	sort.Strings(teams)
	return teams
}

// Teammate returns the id of the other driver in the same team, if any
func (r Roster) Teammate(driverID string) (string, bool) {
	team := r.TeamOf(driverID)
	if team == "" {
		return "", false
	}
	for _, d := range r {
		if d.Team == team && d.ID != driverID {
			return d.ID, true
		}
	}
	return "", false
}
