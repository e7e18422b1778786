package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/scoring"
	"github.com/yourusername/podium-picks/internal/season"
	"github.com/yourusername/podium-picks/internal/service"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

// printer writes command results as tables or JSON
type printer struct {
	w                  io.Writer
	format             string
	green, yellow, red func(...any) string
}

func newPrinter(w io.Writer, format string, useColors bool) *printer {
	p := &printer{w: w, format: format}
	if useColors {
		p.green = color.New(color.FgGreen).SprintFunc()
		p.yellow = color.New(color.FgYellow).SprintFunc()
		p.red = color.New(color.FgRed).SprintFunc()
	} else {
		p.green = fmt.Sprint
		p.yellow = fmt.Sprint
		p.red = fmt.Sprint
	}
	return p
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error writing JSON output: %w", err)
	}
	return nil
}

func (p *printer) table(headers []string, data [][]string) error {
	table := tablewriter.NewWriter(p.w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error adding table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering table: %w", err)
	}
	return nil
}

// RoundScores prints every user's score for one round
func (p *printer) RoundScores(rs *service.RoundScores) error {
	if p.format == formatJSON {
		return p.json(rs)
	}

	fmt.Fprintf(p.w, "Season %d, round %d\n", rs.Season, rs.Round)
	if !rs.ActualKnown {
		fmt.Fprintln(p.w, p.yellow("Results not in yet, every prediction scores 0"))
	}

	data := make([][]string, 0, len(rs.Predictions))
	for _, sp := range rs.Predictions {
		lock := "-"
		if sp.HasLock() {
			lock = sp.LockField
			if sp.LockHit() {
				lock = p.green(lock)
			}
		}
		podium := ""
		if sp.Score.PodiumExact {
			podium = p.green("exact")
		}
		data = append(data, []string{
			sp.User,
			strconv.Itoa(sp.Score.P1),
			strconv.Itoa(sp.Score.P2),
			strconv.Itoa(sp.Score.P3),
			podium,
			strconv.Itoa(sp.Score.Pole),
			strconv.Itoa(sp.Score.FastestLap),
			strconv.Itoa(sp.Score.Wildcard),
			lock,
			strconv.Itoa(sp.Score.SideBets),
			strconv.Itoa(sp.Score.Total),
		})
	}
	if err := p.table([]string{"User", "P1", "P2", "P3", "Podium", "Pole", "FL", "Wildcard", "Lock", "Side bets", "Total"}, data); err != nil {
		return err
	}

	s := rs.Summary
	if s.Entries > 0 {
		fmt.Fprintf(p.w, "High %d (%s), low %d, average %.2f, locks %d/%d\n",
			s.HighScore, strings.Join(s.TopScorers, ", "), s.LowScore, s.Average, s.LockHits, s.LockAttempts)
	}
	return nil
}

// Standings prints the resolved season leaderboard
func (p *printer) Standings(st *service.SeasonStandings) error {
	if p.format == formatJSON {
		return p.json(st)
	}

	totals := make(map[string]season.SeasonTotals, len(st.Totals))
	for _, t := range st.Totals {
		totals[t.User] = t
	}

	fmt.Fprintf(p.w, "Season %d standings after %d round(s)\n", st.Season, len(st.RoundsEvaluated))

	data := make([][]string, 0, len(st.Ranking.Ranking))
	for _, r := range st.Ranking.Ranking {
		t := totals[r.Entry.User]
		rank := strconv.Itoa(r.Rank)
		if r.Rank == 1 {
			rank = p.green(rank)
		}
		data = append(data, []string{
			rank,
			r.Entry.User,
			strconv.Itoa(t.Total),
			strconv.Itoa(t.RoundsPlayed),
			fmt.Sprintf("%.2f", t.Avg),
			fmt.Sprintf("%d/%d", t.LockHits, t.LockAttempts),
			strconv.Itoa(t.PodiumExactHits),
			strconv.Itoa(t.BestStreak),
			r.SeparatedBy,
		})
	}
	if err := p.table([]string{"Rank", "User", "Points", "Rounds", "Avg", "Locks", "Exact podiums", "Best streak", "Separated by"}, data); err != nil {
		return err
	}

	if st.Ranking.Explanation != "" {
		fmt.Fprintln(p.w, st.Ranking.Explanation)
	}
	if len(st.MostPickedWinners) > 0 {
		picks := make([]string, 0, len(st.MostPickedWinners))
		for _, pc := range st.MostPickedWinners {
			picks = append(picks, fmt.Sprintf("%s (%d)", displayName(pc), pc.Count))
		}
		fmt.Fprintf(p.w, "Most picked winners: %s\n", strings.Join(picks, ", "))
	}
	return nil
}

// UserSeason prints one user's round-by-round record
func (p *printer) UserSeason(t season.SeasonTotals) error {
	if p.format == formatJSON {
		return p.json(t)
	}

	data := make([][]string, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		submitted := "yes"
		if !r.Submitted {
			submitted = p.red("no")
		}
		lock := "-"
		if r.LockAttempted {
			lock = p.red("miss")
			if r.LockHit {
				lock = p.green("hit")
			}
		}
		data = append(data, []string{
			strconv.Itoa(r.Round),
			submitted,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.SideBetPoints),
			lock,
		})
	}
	if err := p.table([]string{"Round", "Submitted", "Points", "Side bets", "Lock"}, data); err != nil {
		return err
	}

	fmt.Fprintf(p.w, "%s: %d points over %d round(s), consistency %.2f, clutch %.2f, current streak %d\n",
		t.User, t.Total, t.RoundsPlayed, t.Consistency, t.Clutch, t.CurrentStreak)
	return nil
}

// SeasonPicks prints season-long pick scores
func (p *printer) SeasonPicks(scores []scoring.SeasonPickScore) error {
	if p.format == formatJSON {
		return p.json(scores)
	}

	data := make([][]string, 0, len(scores))
	for _, s := range scores {
		data = append(data, []string{
			s.User,
			strconv.Itoa(s.WDCPoints),
			strconv.Itoa(s.WCCPoints),
			fmt.Sprintf("%d/%d/%d", s.CategoryHits, s.CategoryMisses, s.CategoryPending),
			strconv.Itoa(s.CategoryPoints),
			strconv.Itoa(s.Total),
		})
	}
	return p.table([]string{"User", "WDC", "WCC", "Hit/Miss/Pending", "Categories", "Total"}, data)
}

// RaceProjection prints a simulated race outlook
func (p *printer) RaceProjection(rp *projection.RaceProjection) error {
	if p.format == formatJSON {
		return p.json(rp)
	}

	fmt.Fprintf(p.w, "Season %d, round %d: %d runs, seed %d, model %s\n", rp.Season, rp.Round, rp.Runs, rp.Seed, rp.ModelVersion)
	if rp.Degenerate {
		fmt.Fprintln(p.w, p.yellow("No projection: "+rp.Reason))
		return nil
	}

	data := make([][]string, 0, len(rp.Drivers))
	for _, d := range rp.Drivers {
		fallback := string(d.Fallback)
		if d.Fallback != features.FallbackNone {
			fallback = p.yellow(fallback)
		}
		data = append(data, []string{
			d.DriverID,
			d.Team,
			percent(d.Probabilities.Win),
			percent(d.Probabilities.Podium),
			percent(d.Probabilities.Top10),
			percent(d.Probabilities.Pole),
			percent(d.Probabilities.DNF),
			fmt.Sprintf("%.1f", d.ExpectedPosition),
			fmt.Sprintf("%.2f", d.ExpectedPoints),
			fmt.Sprintf("%.2f", d.Confidence),
			fallback,
		})
	}
	return p.table([]string{"Driver", "Team", "Win", "Podium", "Top 10", "Pole", "DNF", "Exp pos", "Exp pts", "Confidence", "Fallback"}, data)
}

// Championship prints projected driver and constructor standings
func (p *printer) Championship(co *service.ChampionshipOutlook) error {
	if p.format == formatJSON {
		return p.json(co)
	}

	fmt.Fprintf(p.w, "Season %d after round %d, %d round(s) remaining\n", co.Season, co.AfterRound, co.Drivers.RoundsRemaining)
	fmt.Fprintln(p.w, "Drivers")
	if err := p.table(championshipHeaders(), p.championshipRows(co.Drivers)); err != nil {
		return err
	}
	fmt.Fprintln(p.w, "Constructors")
	return p.table(championshipHeaders(), p.championshipRows(co.Constructors))
}

func championshipHeaders() []string {
	return []string{"Rank", "Name", "Now", "Pos", "Remaining", "Projected", "Gap"}
}

func (p *printer) championshipRows(c projection.ChampionshipProjection) [][]string {
	data := make([][]string, 0, len(c.Entrants))
	for _, e := range c.Entrants {
		name := e.Name
		if name == "" {
			name = e.ID
		}
		rank := strconv.Itoa(e.Rank)
		if e.Rank == 1 {
			rank = p.green(rank)
		}
		data = append(data, []string{
			rank,
			name,
			e.CurrentPoints.StringFixed(0),
			strconv.Itoa(e.CurrentPosition),
			e.ProjectedPointsRemaining.StringFixed(1),
			e.ProjectedTotalPoints.StringFixed(1),
			e.GapToLeader.StringFixed(1),
		})
	}
	return data
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func displayName(pc season.PickCount) string {
	if pc.DriverName != "" {
		return pc.DriverName
	}
	return pc.DriverID
}
