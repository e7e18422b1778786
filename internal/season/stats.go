package season

import (
	"sort"

	"github.com/samber/lo"

	"github.com/yourusername/podium-picks/internal/models"
)

// PickCount is how often a driver was picked
type PickCount struct {
	DriverID   string `json:"driver_id"`
	DriverName string `json:"driver_name"`
	Count      int    `json:"count"`
}

// PickFrequency counts how often each driver appears in any of the five required slots,
// across all users and rounds. Ordered by count desc, then driver name asc.
func PickFrequency(predictions []models.Prediction, roster models.Roster) []PickCount {
	counts := make(map[string]int)
	for _, p := range predictions {
		for _, f := range models.RequiredFields {
			if id := p.Slot(f); id != "" {
				counts[id]++
			}
		}
	}
	return rankCounts(counts, roster)
}

// MostPickedWinners counts p1 picks only, ordered like PickFrequency
func MostPickedWinners(predictions []models.Prediction, roster models.Roster) []PickCount {
	counts := make(map[string]int)
	for _, p := range predictions {
		if p.P1 != "" {
			counts[p.P1]++
		}
	}
	return rankCounts(counts, roster)
}

func rankCounts(counts map[string]int, roster models.Roster) []PickCount {
	out := lo.MapToSlice(counts, func(id string, n int) PickCount {
		return PickCount{DriverID: id, DriverName: roster.NameOf(id), Count: n}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].DriverName != out[j].DriverName {
			return out[i].DriverName < out[j].DriverName
		}
		return out[i].DriverID < out[j].DriverID
	})
	return out
}

// RoundSummary is the weekly statistics block for one scored round
type RoundSummary struct {
	Season           int      `json:"season"`
	Round            int      `json:"round"`
	Entries          int      `json:"entries"`
	HighScore        int      `json:"high_score"`
	LowScore         int      `json:"low_score"`
	Average          float64  `json:"average"`
	TopScorers       []string `json:"top_scorers"`
	PodiumExactCount int      `json:"podium_exact_count"`
	LockHits         int      `json:"lock_hits"`
	LockAttempts     int      `json:"lock_attempts"`
}

// SummarizeRound builds weekly statistics for one round's scored predictions.
// An empty round yields a zero summary.
func SummarizeRound(scored []models.ScoredPrediction) RoundSummary {
	summary := RoundSummary{Entries: len(scored)}
	if len(scored) == 0 {
		return summary
	}
	summary.Season = scored[0].Season
	summary.Round = scored[0].Round

	totals := lo.Map(scored, func(sp models.ScoredPrediction, _ int) int { return sp.Score.Total })
	summary.HighScore = lo.Max(totals)
	summary.LowScore = lo.Min(totals)
	summary.Average = float64(lo.Sum(totals)) / float64(len(totals))

	summary.TopScorers = lo.FilterMap(scored, func(sp models.ScoredPrediction, _ int) (string, bool) {
		return sp.User, sp.Score.Total == summary.HighScore
	})
	sort.Strings(summary.TopScorers)

	summary.PodiumExactCount = lo.CountBy(scored, func(sp models.ScoredPrediction) bool { return sp.Score.PodiumExact })
	summary.LockAttempts = lo.CountBy(scored, func(sp models.ScoredPrediction) bool { return sp.HasLock() })
	summary.LockHits = lo.CountBy(scored, func(sp models.ScoredPrediction) bool { return sp.LockHit() })
	return summary
}
