// Package scoring turns a prediction and the round's actual outcome into points.
package scoring

import (
	"fmt"

	"github.com/yourusername/podium-picks/internal/models"
)

// Wildcard rules
const (
	WildcardRuleTop10 = "top10"
	WildcardRuleNone  = "none"
)

// Config carries the external scoring rules. Point values are never hardcoded in the engine.
type Config struct {
	WildcardRule      string
	WildcardThreshold int
	SideBetPoints     map[models.SideBet]int
	LockSideBets      bool
}

// DefaultConfig returns the league rules: stable side bets pay 1, chaos side bets pay 2
func DefaultConfig() Config {
	return Config{
		WildcardRule:      WildcardRuleTop10,
		WildcardThreshold: 10,
		SideBetPoints: map[models.SideBet]int{
			models.SideBetPoleConverts:   1,
			models.SideBetFrontRowWinner: 1,
			models.SideBetAnyDNF:         1,
			models.SideBetRedFlag:        2,
			models.SideBetBigMover:       2,
			models.SideBetOther7Podium:   2,
		},
	}
}

// Validate checks the rules at startup
func (c Config) Validate() error {
	switch c.WildcardRule {
	case WildcardRuleTop10, WildcardRuleNone:
	default:
		return models.NewConfigurationError("scoring.wildcard_rule", fmt.Sprintf("unknown rule %q", c.WildcardRule))
	}
	if c.WildcardRule == WildcardRuleTop10 && c.WildcardThreshold <= 0 {
		return models.NewConfigurationError("scoring.wildcard_threshold", "must be positive")
	}
	for bet, pts := range c.SideBetPoints {
		if !models.IsSideBet(string(bet)) {
			return models.NewConfigurationError("scoring.side_bet_points", fmt.Sprintf("unknown side bet %q", bet))
		}
		if pts < 0 {
			return models.NewConfigurationError("scoring.side_bet_points", fmt.Sprintf("side bet %q has negative points", bet))
		}
	}
	return nil
}

// SideBetValue returns the configured points for a side bet, 0 when unconfigured
func (c Config) SideBetValue(bet models.SideBet) int {
	if c.SideBetPoints == nil {
		return 0
	}
	return c.SideBetPoints[bet]
}
