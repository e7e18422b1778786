package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/podium-picks/internal/models"
)

var (
	roundFlag   int
	throughFlag int
	afterFlag   int
	byFlag      string
)

func init() {
	scoreCmd.Flags().IntVarP(&roundFlag, "round", "r", 0, "Round to score")
	_ = scoreCmd.MarkFlagRequired("round")

	standingsCmd.Flags().IntVar(&throughFlag, "through", 0, "Only count rounds up to this one (0 for all)")

	projectCmd.Flags().IntVarP(&roundFlag, "round", "r", 0, "Round to project (defaults to the next round without results)")

	championshipCmd.Flags().IntVar(&afterFlag, "after", 0, "Project from the standings after this round (0 for the latest)")

	refreshCmd.Flags().IntVarP(&roundFlag, "round", "r", 0, "Round to refresh (0 for the whole season)")

	adjudicateCmd.Flags().StringVar(&byFlag, "by", "", "Name of the adjudicator")
	_ = adjudicateCmd.MarkFlagRequired("by")

	rootCmd.AddCommand(scoreCmd, standingsCmd, userCmd, seasonPicksCmd, projectCmd, championshipCmd, refreshCmd, adjudicateCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every prediction for a round",
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := services.Standings.ScoreRound(cmd.Context(), currentSeason(), roundFlag)
		if err != nil {
			return err
		}
		return newStdoutPrinter().RoundScores(rs)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the season leaderboard with tie-breaks applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := services.Standings.SeasonStandings(cmd.Context(), currentSeason(), throughFlag)
		if err != nil {
			return err
		}
		return newStdoutPrinter().Standings(st)
	},
}

var userCmd = &cobra.Command{
	Use:   "user NAME",
	Short: "Show one user's season record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		totals, err := services.Standings.UserSeason(cmd.Context(), currentSeason(), args[0])
		if err != nil {
			return err
		}
		return newStdoutPrinter().UserSeason(totals)
	},
}

var seasonPicksCmd = &cobra.Command{
	Use:   "season-picks",
	Short: "Score season-long championship and category picks",
	RunE: func(cmd *cobra.Command, args []string) error {
		scores, err := services.Standings.SeasonPickStandings(cmd.Context(), currentSeason())
		if err != nil {
			return err
		}
		return newStdoutPrinter().SeasonPicks(scores)
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Simulate a race from the season so far",
	RunE: func(cmd *cobra.Command, args []string) error {
		season := currentSeason()
		round := roundFlag
		if round == 0 {
			next, err := services.Projections.NextRound(cmd.Context(), season)
			if err != nil {
				return err
			}
			if next == 0 {
				return fmt.Errorf("season %d has no rounds left to project", season)
			}
			round = next
		}

		rp, err := services.Projections.ProjectRound(cmd.Context(), season, round)
		if err != nil {
			return err
		}
		return newStdoutPrinter().RaceProjection(rp)
	},
}

var championshipCmd = &cobra.Command{
	Use:   "championship",
	Short: "Project the drivers' and constructors' championships",
	RunE: func(cmd *cobra.Command, args []string) error {
		outlook, err := services.Projections.ProjectChampionship(cmd.Context(), currentSeason(), afterFlag)
		if err != nil {
			return err
		}
		return newStdoutPrinter().Championship(outlook)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-derive race actuals from stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		season := currentSeason()
		if roundFlag == 0 {
			derived, err := services.Actuals.RefreshSeason(cmd.Context(), season)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Derived %d actual(s) for season %d\n", derived, season)
			return nil
		}

		actual, err := services.Actuals.RefreshActual(cmd.Context(), season, roundFlag)
		if err != nil {
			return err
		}
		if actual == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Round %d has no results yet\n", roundFlag)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Round %d: pole %s, podium %s / %s / %s, fastest lap %s\n",
			roundFlag, orUnknown(actual.Pole), orUnknown(actual.P1), orUnknown(actual.P2), orUnknown(actual.P3), orUnknown(actual.FastestLap))
		return nil
	},
}

var adjudicateCmd = &cobra.Command{
	Use:   "adjudicate USER FIELD STATUS",
	Short: "Record a verdict on a season pick category",
	Long:  `Records hit, miss or pending for a category field such as chaos.most_dnfs.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.AdjudicationStatus(args[2])
		if !status.IsValid() {
			return fmt.Errorf("invalid status %q: must be hit, miss or pending", args[2])
		}
		if err := services.Actuals.RecordAdjudication(cmd.Context(), args[0], currentSeason(), args[1], status, byFlag); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s on %s\n", status, args[0], args[1])
		return nil
	},
}

func orUnknown(id string) string {
	if id == "" {
		return "?"
	}
	return id
}
