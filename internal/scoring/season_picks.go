package scoring

import (
	"fmt"

	"github.com/yourusername/podium-picks/internal/models"
)

// SeasonPickConfig holds the points for season-long picks
type SeasonPickConfig struct {
	WDCExactPoints int
	WCCExactPoints int
	CategoryPoints map[models.CategoryGroup]int
}

// DefaultSeasonPickConfig returns the league's season-pick table
func DefaultSeasonPickConfig() SeasonPickConfig {
	return SeasonPickConfig{
		WDCExactPoints: 1,
		WCCExactPoints: 1,
		CategoryPoints: map[models.CategoryGroup]int{
			models.CategoryWDCBonus: 2,
			models.CategoryWCCBonus: 2,
			models.CategoryOutOfBox: 3,
			models.CategoryChaos:    2,
			models.CategoryBigBrain: 3,
			models.CategoryBingo:    1,
			models.CategoryCurses:   1,
		},
	}
}

// Validate checks the season-pick table
func (c SeasonPickConfig) Validate() error {
	if c.WDCExactPoints < 0 || c.WCCExactPoints < 0 {
		return models.NewConfigurationError("season_picks", "exact points cannot be negative")
	}
	for group, pts := range c.CategoryPoints {
		if pts < 0 {
			return models.NewConfigurationError("season_picks.category_points", fmt.Sprintf("group %q has negative points", group))
		}
	}
	return nil
}

// SeasonPickScore is the scored view of one user's season pick
type SeasonPickScore struct {
	User            string                       `json:"user"`
	Season          int                          `json:"season"`
	WDCHits         int                          `json:"wdc_hits"`
	WCCHits         int                          `json:"wcc_hits"`
	WDCPoints       int                          `json:"wdc_points"`
	WCCPoints       int                          `json:"wcc_points"`
	CategoryHits    int                          `json:"category_hits"`
	CategoryMisses  int                          `json:"category_misses"`
	CategoryPending int                          `json:"category_pending"`
	CategoryPoints  int                          `json:"category_points"`
	ByGroup         map[models.CategoryGroup]int `json:"by_group"`
	Total           int                          `json:"total"`
}

// ScoreSeasonPick scores championship orders slot by slot and category picks by adjudication.
// Slots beyond the known final order score 0; pending verdicts score 0 and are counted.
func ScoreSeasonPick(pick models.SeasonPick, finalWDC, finalWCC []string, adj models.Adjudication, cfg SeasonPickConfig) SeasonPickScore {
	score := SeasonPickScore{
		User:    pick.User,
		Season:  pick.Season,
		ByGroup: make(map[models.CategoryGroup]int),
	}

	score.WDCHits = exactHits(pick.WDC, finalWDC)
	score.WCCHits = exactHits(pick.WCC, finalWCC)
	score.WDCPoints = score.WDCHits * cfg.WDCExactPoints
	score.WCCPoints = score.WCCHits * cfg.WCCExactPoints

	for _, c := range pick.Categories {
		switch adj.Status(c.Key()) {
		case models.AdjudicationHit:
			pts := cfg.CategoryPoints[c.Group]
			score.CategoryHits++
			score.CategoryPoints += pts
			score.ByGroup[c.Group] += pts
		case models.AdjudicationMiss:
			score.CategoryMisses++
		default:
			score.CategoryPending++
		}
	}

	score.Total = score.WDCPoints + score.WCCPoints + score.CategoryPoints
	return score
}

func exactHits(picked, final []string) int {
	hits := 0
	for i, id := range picked {
		if i >= len(final) {
			break
		}
		if id != "" && id == final[i] {
			hits++
		}
	}
	return hits
}
