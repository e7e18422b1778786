// Package season rolls per-round prediction scores into season statistics.
package season

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/yourusername/podium-picks/internal/models"
)

// clutchWindow is the number of trailing scheduled rounds averaged into Clutch
const clutchWindow = 3

// RoundScore is one scheduled round from a user's point of view
type RoundScore struct {
	Round         int  `json:"round"`
	Submitted     bool `json:"submitted"`
	Total         int  `json:"total"`
	PodiumExact   bool `json:"podium_exact"`
	SideBetPoints int  `json:"side_bet_points"`
	LockAttempted bool `json:"lock_attempted"`
	LockHit       bool `json:"lock_hit"`
}

// SeasonTotals summarises one user's season
type SeasonTotals struct {
	User              string       `json:"user"`
	Season            int          `json:"season"`
	Rounds            []RoundScore `json:"rounds"`
	Total             int          `json:"total"`
	RoundsPlayed      int          `json:"rounds_played"`
	Avg               float64      `json:"avg"`
	BestStreak        int          `json:"best_streak"`
	CurrentStreak     int          `json:"current_streak"`
	LockHits          int          `json:"lock_hits"`
	LockAttempts      int          `json:"lock_attempts"`
	LockRate          float64      `json:"lock_rate"`
	Consistency       float64      `json:"consistency"`
	Clutch            float64      `json:"clutch"`
	PodiumExactHits   int          `json:"podium_exact_hits"`
	SideBetPoints     int          `json:"side_bet_points"`
	LatestRoundPoints int          `json:"latest_round_points"`
}

// AggregateSeason computes season totals for one user's scored predictions.
// The schedule names the rounds to evaluate; predictions for other rounds are ignored.
// Results do not depend on the order of the input predictions.
func AggregateSeason(scored []models.ScoredPrediction, schedule models.Schedule) SeasonTotals {
	byRound := latestByRound(scored)
	totals := SeasonTotals{}
	if len(scored) > 0 {
		totals.User = scored[0].User
		totals.Season = scored[0].Season
	}

	sorted := schedule.Sorted()
	totals.Rounds = make([]RoundScore, 0, len(sorted))
	streak := 0
	for _, event := range sorted {
		rs := RoundScore{Round: event.Round}
		if sp, ok := byRound[event.Round]; ok {
			rs.Submitted = true
			rs.Total = sp.Score.Total
			rs.PodiumExact = sp.Score.PodiumExact
			rs.SideBetPoints = sp.Score.SideBets
			rs.LockAttempted = sp.HasLock()
			rs.LockHit = sp.LockHit()
		}
		totals.Rounds = append(totals.Rounds, rs)

		if rs.Submitted && rs.Total > 0 {
			streak++
		} else {
			streak = 0
		}
		if streak > totals.BestStreak {
			totals.BestStreak = streak
		}
	}
	totals.CurrentStreak = streak

	played := lo.Filter(totals.Rounds, func(r RoundScore, _ int) bool { return r.Submitted })
	totals.RoundsPlayed = len(played)
	totals.Total = lo.SumBy(played, func(r RoundScore) int { return r.Total })
	if totals.RoundsPlayed > 0 {
		totals.Avg = float64(totals.Total) / float64(totals.RoundsPlayed)
	}

	totals.LockAttempts = lo.CountBy(played, func(r RoundScore) bool { return r.LockAttempted })
	totals.LockHits = lo.CountBy(played, func(r RoundScore) bool { return r.LockHit })
	if totals.LockAttempts > 0 {
		totals.LockRate = float64(totals.LockHits) / float64(totals.LockAttempts)
	}

	totals.PodiumExactHits = lo.CountBy(played, func(r RoundScore) bool { return r.PodiumExact })
	totals.SideBetPoints = lo.SumBy(played, func(r RoundScore) int { return r.SideBetPoints })

	perRound := lo.Map(totals.Rounds, func(r RoundScore, _ int) float64 { return float64(r.Total) })
	totals.Consistency = populationStdDev(perRound)
	totals.Clutch = mean(lastN(perRound, clutchWindow))
	if n := len(totals.Rounds); n > 0 {
		totals.LatestRoundPoints = totals.Rounds[n-1].Total
	}

	return totals
}

// AggregateByUser groups scored predictions by user and aggregates each one.
// Output is ordered by user name.
func AggregateByUser(scored []models.ScoredPrediction, schedule models.Schedule) []SeasonTotals {
	grouped := lo.GroupBy(scored, func(sp models.ScoredPrediction) string { return sp.User })
	users := lo.Keys(grouped)
	sort.Strings(users)

	out := make([]SeasonTotals, 0, len(users))
	for _, user := range users {
		t := AggregateSeason(grouped[user], schedule)
		t.User = user
		out = append(out, t)
	}
	return out
}

// latestByRound keeps one prediction per round, preferring the latest submission.
// Ties on submission time keep the higher total so the choice is order independent.
func latestByRound(scored []models.ScoredPrediction) map[int]models.ScoredPrediction {
	byRound := make(map[int]models.ScoredPrediction, len(scored))
	for _, sp := range scored {
		current, ok := byRound[sp.Round]
		if !ok || sp.SubmittedAt.After(current.SubmittedAt) ||
			(sp.SubmittedAt.Equal(current.SubmittedAt) && sp.Score.Total > current.Score.Total) {
			byRound[sp.Round] = sp
		}
	}
	return byRound
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
