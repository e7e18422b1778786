// Package features derives normalized per-driver, per-track scores from historical results.
package features

import "math"

// TyreMix is the expected share of each dry compound at a track; shares sum to 1
type TyreMix struct {
	Soft   float64 `json:"soft" mapstructure:"soft"`
	Medium float64 `json:"medium" mapstructure:"medium"`
	Hard   float64 `json:"hard" mapstructure:"hard"`
}

// IsZero reports whether no compound information is present
func (m TyreMix) IsZero() bool {
	return m.Soft == 0 && m.Medium == 0 && m.Hard == 0
}

// similarity returns 1 for identical mixes and 0 for disjoint ones
func (m TyreMix) similarity(other TyreMix) float64 {
	if m.IsZero() || other.IsZero() {
		return 0
	}
	l1 := math.Abs(m.Soft-other.Soft) + math.Abs(m.Medium-other.Medium) + math.Abs(m.Hard-other.Hard)
	return clamp01(1 - l1/2)
}

// TrackProfile scores a circuit's characteristics on a 0-1 scale
type TrackProfile struct {
	TrackID     string  `json:"track_id" db:"track_id"`
	HighSpeed   float64 `json:"high_speed" db:"high_speed"`
	Downforce   float64 `json:"downforce" db:"downforce"`
	Traction    float64 `json:"traction" db:"traction"`
	Degradation float64 `json:"degradation" db:"degradation"`
	Braking     float64 `json:"braking" db:"braking"`
	Street      float64 `json:"street" db:"street"`
	Tyres       TyreMix `json:"tyre_mix"`
}

// Vector returns the characteristic scores in a fixed order
func (p TrackProfile) Vector() []float64 {
	return []float64{p.HighSpeed, p.Downforce, p.Traction, p.Degradation, p.Braking, p.Street}
}

// IsZero reports whether the profile carries no characteristic data
func (p TrackProfile) IsZero() bool {
	for _, v := range p.Vector() {
		if v != 0 {
			return false
		}
	}
	return true
}

// Similarity is 1 minus the mean absolute difference of the characteristic vectors
func (p TrackProfile) Similarity(other TrackProfile) float64 {
	a, b := p.Vector(), other.Vector()
	diff := 0.0
	for i := range a {
		diff += math.Abs(clamp01(a[i]) - clamp01(b[i]))
	}
	return clamp01(1 - diff/float64(len(a)))
}

// NeutralTrackProfile is used when a round has no stored profile
func NeutralTrackProfile(trackID string) TrackProfile {
	return TrackProfile{
		TrackID:     trackID,
		HighSpeed:   0.5,
		Downforce:   0.5,
		Traction:    0.5,
		Degradation: 0.5,
		Braking:     0.5,
		Street:      0,
		Tyres:       TyreMix{Soft: 0.3, Medium: 0.4, Hard: 0.3},
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
