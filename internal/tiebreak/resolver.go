// Package tiebreak ranks league members using an ordered list of tie-break keys.
package tiebreak

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/season"
)

// Key names one tie-break metric
type Key string

// Tie-break keys, all compared descending
const (
	KeyTotalPoints           Key = "total_points"
	KeyLockHitRate           Key = "lock_hit_rate"
	KeyPodiumExactHits       Key = "podium_exact_hits"
	KeySideBetPoints         Key = "side_bet_points"
	KeyAveragePointsPerRound Key = "average_points_per_round"
	KeyLatestRoundPoints     Key = "latest_round_points"
)

// NoSeparation is reported when every key ties between the top two users
const NoSeparation = "no_separation"

const epsilon = 1e-9

// DefaultKeys is the league's standard tie-break order
var DefaultKeys = []Key{
	KeyTotalPoints,
	KeyLockHitRate,
	KeyPodiumExactHits,
	KeySideBetPoints,
	KeyAveragePointsPerRound,
	KeyLatestRoundPoints,
}

// IsKnownKey reports whether name is a supported tie-break key
func IsKnownKey(name string) bool {
	for _, k := range DefaultKeys {
		if string(k) == name {
			return true
		}
	}
	return false
}

// Entry holds the metrics one user is ranked on
type Entry struct {
	User                  string  `json:"user"`
	TotalPoints           int     `json:"total_points"`
	LockHitRate           float64 `json:"lock_hit_rate"`
	PodiumExactHits       int     `json:"podium_exact_hits"`
	SideBetPoints         int     `json:"side_bet_points"`
	AveragePointsPerRound float64 `json:"average_points_per_round"`
	LatestRoundPoints     int     `json:"latest_round_points"`
}

// Value returns the metric for a key
func (e Entry) Value(k Key) float64 {
	switch k {
	case KeyTotalPoints:
		return float64(e.TotalPoints)
	case KeyLockHitRate:
		return e.LockHitRate
	case KeyPodiumExactHits:
		return float64(e.PodiumExactHits)
	case KeySideBetPoints:
		return float64(e.SideBetPoints)
	case KeyAveragePointsPerRound:
		return e.AveragePointsPerRound
	case KeyLatestRoundPoints:
		return float64(e.LatestRoundPoints)
	}
	return 0
}

// FromSeasonTotals converts aggregated season totals to tie-break entries
func FromSeasonTotals(totals []season.SeasonTotals) []Entry {
	entries := make([]Entry, 0, len(totals))
	for _, t := range totals {
		entries = append(entries, Entry{
			User:                  t.User,
			TotalPoints:           t.Total,
			LockHitRate:           t.LockRate,
			PodiumExactHits:       t.PodiumExactHits,
			SideBetPoints:         t.SideBetPoints,
			AveragePointsPerRound: t.Avg,
			LatestRoundPoints:     t.LatestRoundPoints,
		})
	}
	return entries
}

// Ranked is one row of the resolved ranking
type Ranked struct {
	Rank  int   `json:"rank"`
	Entry Entry `json:"entry"`
	// SeparatedBy is the first key separating this user from the one ranked directly above
	SeparatedBy string `json:"separated_by,omitempty"`
}

// Result is the outcome of a tie-break resolution
type Result struct {
	Ranking     []Ranked `json:"ranking"`
	DecidedBy   string   `json:"decided_by"`
	Explanation string   `json:"explanation"`
}

// Resolver applies tie-break keys lexicographically
type Resolver struct {
	keys []Key
}

// NewResolver creates a resolver for the given key order
func NewResolver(keys []string) (*Resolver, error) {
	if len(keys) == 0 {
		return nil, models.NewConfigurationError("tie_break.keys", "tie-break key list is empty")
	}
	seen := make(map[string]bool, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if !IsKnownKey(k) {
			return nil, models.NewConfigurationError("tie_break.keys", fmt.Sprintf("unknown tie-break key %q", k))
		}
		if seen[k] {
			return nil, models.NewConfigurationError("tie_break.keys", fmt.Sprintf("duplicate tie-break key %q", k))
		}
		seen[k] = true
		out = append(out, Key(k))
	}
	return &Resolver{keys: out}, nil
}

// NewDefaultResolver creates a resolver using DefaultKeys
func NewDefaultResolver() *Resolver {
	return &Resolver{keys: append([]Key(nil), DefaultKeys...)}
}

// Keys returns the configured key order
func (r *Resolver) Keys() []Key {
	return append([]Key(nil), r.keys...)
}

// Resolve ranks the entries. Users tied on every key share a rank and are listed by name.
func (r *Resolver) Resolve(entries []Entry) Result {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if k, ok := r.firstDifference(sorted[i], sorted[j]); ok {
			return sorted[i].Value(k) > sorted[j].Value(k)
		}
		return sorted[i].User < sorted[j].User
	})

	result := Result{Ranking: make([]Ranked, 0, len(sorted))}
	for i, e := range sorted {
		row := Ranked{Rank: i + 1, Entry: e}
		if i > 0 {
			prev := result.Ranking[i-1]
			if k, ok := r.firstDifference(prev.Entry, e); ok {
				row.SeparatedBy = string(k)
			} else {
				row.Rank = prev.Rank
				row.SeparatedBy = NoSeparation
			}
		}
		result.Ranking = append(result.Ranking, row)
	}

	result.DecidedBy, result.Explanation = r.explain(sorted)
	return result
}

func (r *Resolver) firstDifference(a, b Entry) (Key, bool) {
	for _, k := range r.keys {
		if math.Abs(a.Value(k)-b.Value(k)) > epsilon {
			return k, true
		}
	}
	return "", false
}

func (r *Resolver) explain(sorted []Entry) (string, string) {
	if len(sorted) < 2 {
		return NoSeparation, "fewer than two users to separate"
	}
	first, second := sorted[0], sorted[1]
	k, ok := r.firstDifference(first, second)
	if !ok {
		return NoSeparation, fmt.Sprintf("%s and %s tie on every key (%s)", first.User, second.User, joinKeys(r.keys))
	}

	explanation := fmt.Sprintf("%s leads %s on %s (%s vs %s)",
		first.User, second.User, k, formatValue(first.Value(k)), formatValue(second.Value(k)))
	if tiedOn := r.keysBefore(k); len(tiedOn) > 0 {
		explanation += " after tying on " + joinKeys(tiedOn)
	}
	return string(k), explanation
}

func (r *Resolver) keysBefore(k Key) []Key {
	for i, key := range r.keys {
		if key == k {
			return r.keys[:i]
		}
	}
	return nil
}

func joinKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}
