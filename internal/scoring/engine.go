package scoring

import (
	"github.com/yourusername/podium-picks/internal/models"
)

const podiumExactMultiplier = 2

// ScorePrediction scores one prediction against the round's actual outcome.
// It is pure and total: unknown actual fields and empty slots score 0.
// A nil actual yields a zero score.
func ScorePrediction(pred models.Prediction, actual *models.RaceActual, results models.RaceResults, cfg Config) models.ScoredPrediction {
	scored := models.ScoredPrediction{Prediction: pred}
	if actual == nil {
		return scored
	}

	score := models.PredictionScore{}
	score.P1 = matchSlot(pred.P1, actual.P1)
	score.P2 = matchSlot(pred.P2, actual.P2)
	score.P3 = matchSlot(pred.P3, actual.P3)

	if score.P1 == 1 && score.P2 == 1 && score.P3 == 1 {
		score.PodiumExact = true
		score.P1 *= podiumExactMultiplier
		score.P2 *= podiumExactMultiplier
		score.P3 *= podiumExactMultiplier
	}

	score.Pole = matchSlot(pred.Pole, actual.Pole)
	score.FastestLap = matchSlot(pred.FastestLap, actual.FastestLap)
	score.Wildcard = scoreWildcard(pred.WildcardDriver, results, cfg)

	score.SideBetDetail = make(map[models.SideBet]int, len(models.AllSideBets))
	for _, bet := range models.AllSideBets {
		pts := scoreSideBet(pred, *actual, bet, cfg)
		score.SideBetDetail[bet] = pts
		score.SideBets += pts
	}

	score.Lock = scoreLock(pred, score, cfg)

	score.Total = score.P1 + score.P2 + score.P3 + score.Pole + score.FastestLap +
		score.Wildcard + score.Lock + score.SideBets
	scored.Score = score
	return scored
}

// ScoreRound scores every prediction for a round, preserving input order
func ScoreRound(preds []models.Prediction, actual *models.RaceActual, results models.RaceResults, cfg Config) []models.ScoredPrediction {
	out := make([]models.ScoredPrediction, len(preds))
	for i, p := range preds {
		out[i] = ScorePrediction(p, actual, results, cfg)
	}
	return out
}

func matchSlot(predicted, actual string) int {
	if predicted == "" || actual == "" {
		return 0
	}
	if predicted == actual {
		return 1
	}
	return 0
}

func scoreWildcard(driverID string, results models.RaceResults, cfg Config) int {
	if driverID == "" || cfg.WildcardRule != WildcardRuleTop10 {
		return 0
	}
	r, ok := results.ByDriver()[driverID]
	if !ok {
		return 0
	}
	if r.FinishedWithin(cfg.WildcardThreshold) {
		return 1
	}
	return 0
}

func scoreSideBet(pred models.Prediction, actual models.RaceActual, bet models.SideBet, cfg Config) int {
	call, ok := pred.SideBets[bet]
	if !ok {
		return 0
	}
	outcome := actual.Outcome(bet)
	if outcome == nil {
		return 0
	}
	if call == *outcome {
		return cfg.SideBetValue(bet)
	}
	return 0
}

// scoreLock awards one bonus point when the locked slot scored.
// Side-bet locks only pay when the league enables them.
func scoreLock(pred models.Prediction, score models.PredictionScore, cfg Config) int {
	if pred.LockField == "" {
		return 0
	}
	field := models.Field(pred.LockField)
	if models.IsRequiredField(field) {
		if score.Slot(field) > 0 {
			return 1
		}
		return 0
	}
	if cfg.LockSideBets && models.IsSideBet(pred.LockField) && score.SideBetDetail[models.SideBet(pred.LockField)] > 0 {
		return 1
	}
	return 0
}
