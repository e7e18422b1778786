package projection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
)

const (
	podiumCutoff = 3
	top10Cutoff  = 10
	// maxDNFProbability keeps a single unreliable car from retiring in every run
	maxDNFProbability = 0.95
	// minNoiseConfidence bounds the noise widening for very low confidence
	minNoiseConfidence = 0.05
)

// Degenerate projection reasons
const (
	ReasonEmptyField  = "empty_field"
	ReasonZeroWeights = "zero_weights"
)

// Probabilities are per-driver threshold outcomes
type Probabilities struct {
	Win    float64 `json:"win"`
	Podium float64 `json:"podium"`
	Top10  float64 `json:"top10"`
	Pole   float64 `json:"pole"`
	DNF    float64 `json:"dnf"`
}

// DriverProjection is the simulated outlook for one driver
type DriverProjection struct {
	DriverID                   string                 `json:"driver_id"`
	Team                       string                 `json:"team"`
	PositionProbabilities      []float64              `json:"position_probabilities"`
	ExpectedPosition           float64                `json:"expected_position"`
	ExpectedQualifyingPosition float64                `json:"expected_qualifying_position"`
	ExpectedPoints             float64                `json:"expected_points"`
	Probabilities              Probabilities          `json:"probabilities"`
	Confidence                 float64                `json:"confidence"`
	Fallback                   features.FallbackLevel `json:"fallback"`
}

// RaceProjection is the aggregated output of one simulation batch
type RaceProjection struct {
	RunID        uuid.UUID          `json:"run_id"`
	Season       int                `json:"season,omitempty"`
	Round        int                `json:"round,omitempty"`
	ModelVersion string             `json:"model_version"`
	Runs         int                `json:"runs"`
	Seed         int64              `json:"seed"`
	Degenerate   bool               `json:"degenerate"`
	Reason       string             `json:"reason,omitempty"`
	Drivers      []DriverProjection `json:"drivers"`
}

// Driver returns the projection for one driver
func (p RaceProjection) Driver(id string) (DriverProjection, bool) {
	for _, d := range p.Drivers {
		if d.DriverID == id {
			return d, true
		}
	}
	return DriverProjection{}, false
}

// ExpectedPoints returns expected points keyed by driver id
func (p RaceProjection) ExpectedPoints() map[string]float64 {
	out := make(map[string]float64, len(p.Drivers))
	for _, d := range p.Drivers {
		out[d.DriverID] = d.ExpectedPoints
	}
	return out
}

type entrant struct {
	features.FeatureScores
	qualComposite float64
	raceComposite float64
	sigma         float64
	dnfChance     float64
}

type simCounts struct {
	positions   []int
	qualiSum    int
	positionSum int
	points      float64
	poles       int
	dnfs        int
	// finishes within the cutoffs, classified runs only
	wins    int
	podiums int
	top10s  int
}

// ProjectRace simulates cfg.Runs qualifying sessions and races for the field.
// Win, podium and top-10 counts only credit classified finishers, so win
// probabilities sum to less than one when a whole field can retire.
// Identical inputs with the same seed produce identical output. Degenerate input
// (an empty field or weights that sum to zero) yields a flagged neutral projection.
func ProjectRace(field []features.FeatureScores, model models.ProjectionModel, cfg SimulationConfig) (RaceProjection, error) {
	if err := cfg.Validate(); err != nil {
		return RaceProjection{}, err
	}

	ordered := append([]features.FeatureScores(nil), field...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DriverID < ordered[j].DriverID })

	projection := RaceProjection{
		RunID:        runID(ordered, model, cfg),
		ModelVersion: model.Version,
		Runs:         cfg.Runs,
		Seed:         cfg.Seed,
	}

	if len(ordered) == 0 {
		projection.Degenerate = true
		projection.Reason = ReasonEmptyField
		projection.Drivers = []DriverProjection{}
		return projection, nil
	}

	qualTotal := weightSum(model.QualifyingWeights)
	raceTotal := weightSum(model.RaceWeights)
	if qualTotal <= 0 && raceTotal <= 0 {
		projection.Degenerate = true
		projection.Reason = ReasonZeroWeights
		projection.Drivers = neutralDrivers(ordered, cfg)
		return projection, nil
	}

	entrants := make([]entrant, len(ordered))
	for i, f := range ordered {
		e := entrant{FeatureScores: f}
		e.qualComposite = composite(f, model.QualifyingWeights, qualTotal)
		e.raceComposite = composite(f, model.RaceWeights, raceTotal)
		if qualTotal <= 0 {
			e.qualComposite = e.raceComposite
		}
		if raceTotal <= 0 {
			e.raceComposite = e.qualComposite
		}
		e.sigma = cfg.NoiseScale / math.Sqrt(math.Max(f.Confidence, minNoiseConfidence))
		e.dnfChance = math.Min(maxDNFProbability, math.Max(0, (1-f.Reliability)*cfg.DNFScale))
		entrants[i] = e
	}

	counts := simulate(entrants, cfg)
	projection.Drivers = summarize(entrants, counts, cfg)
	return projection, nil
}

func simulate(entrants []entrant, cfg SimulationConfig) []simCounts {
	n := len(entrants)
	rng := rand.New(rand.NewSource(cfg.Seed))

	counts := make([]simCounts, n)
	for i := range counts {
		counts[i].positions = make([]int, n)
	}

	qualPerf := make([]float64, n)
	racePerf := make([]float64, n)
	retired := make([]bool, n)
	qualOrder := make([]int, n)
	raceOrder := make([]int, n)
	gridSlot := make([]int, n)

	for run := 0; run < cfg.Runs; run++ {
		for i, e := range entrants {
			qualPerf[i] = e.qualComposite + rng.NormFloat64()*e.sigma
		}
		rankInto(qualOrder, qualPerf, nil)
		for pos, idx := range qualOrder {
			gridSlot[idx] = pos + 1
		}

		for i, e := range entrants {
			gridScore := 1.0
			if n > 1 {
				gridScore = 1 - float64(gridSlot[i]-1)/float64(n-1)
			}
			base := (1-cfg.GridInfluence)*e.raceComposite + cfg.GridInfluence*gridScore
			racePerf[i] = base + rng.NormFloat64()*e.sigma
			retired[i] = rng.Float64() < e.dnfChance
		}
		rankInto(raceOrder, racePerf, retired)

		for pos, idx := range raceOrder {
			c := &counts[idx]
			c.positions[pos]++
			c.positionSum += pos + 1
			c.qualiSum += gridSlot[idx]
			if retired[idx] {
				c.dnfs++
				continue
			}
			c.points += cfg.pointsFor(pos + 1)
			if pos == 0 {
				c.wins++
			}
			if pos < podiumCutoff {
				c.podiums++
			}
			if pos < top10Cutoff {
				c.top10s++
			}
		}
		counts[qualOrder[0]].poles++
	}
	return counts
}

// rankInto orders indices by performance descending; retired entrants go to the back.
// Equal performance falls back to index order.
func rankInto(order []int, perf []float64, retired []bool) {
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if retired != nil && retired[ia] != retired[ib] {
			return !retired[ia]
		}
		if perf[ia] != perf[ib] {
			return perf[ia] > perf[ib]
		}
		return ia < ib
	})
}

func summarize(entrants []entrant, counts []simCounts, cfg SimulationConfig) []DriverProjection {
	runs := float64(cfg.Runs)
	out := make([]DriverProjection, len(entrants))
	for i, e := range entrants {
		c := counts[i]
		probs := make([]float64, len(c.positions))
		for pos, hits := range c.positions {
			probs[pos] = float64(hits) / runs
		}
		out[i] = DriverProjection{
			DriverID:                   e.DriverID,
			Team:                       e.Team,
			PositionProbabilities:      probs,
			ExpectedPosition:           float64(c.positionSum) / runs,
			ExpectedQualifyingPosition: float64(c.qualiSum) / runs,
			ExpectedPoints:             c.points / runs,
			Probabilities: Probabilities{
				Win:    float64(c.wins) / runs,
				Podium: float64(c.podiums) / runs,
				Top10:  float64(c.top10s) / runs,
				Pole:   float64(c.poles) / runs,
				DNF:    float64(c.dnfs) / runs,
			},
			Confidence: e.Confidence,
			Fallback:   e.Fallback,
		}
	}
	sortProjections(out)
	return out
}

func neutralDrivers(field []features.FeatureScores, cfg SimulationConfig) []DriverProjection {
	n := len(field)
	share := 1 / float64(n)
	meanPoints := 0.0
	for pos := 1; pos <= n; pos++ {
		meanPoints += cfg.pointsFor(pos)
	}
	meanPoints /= float64(n)

	out := make([]DriverProjection, n)
	for i, f := range field {
		probs := make([]float64, n)
		for pos := range probs {
			probs[pos] = share
		}
		out[i] = DriverProjection{
			DriverID:                   f.DriverID,
			Team:                       f.Team,
			PositionProbabilities:      probs,
			ExpectedPosition:           float64(n+1) / 2,
			ExpectedQualifyingPosition: float64(n+1) / 2,
			ExpectedPoints:             meanPoints,
			Probabilities: Probabilities{
				Win:    share,
				Podium: math.Min(podiumCutoff, float64(n)) * share,
				Top10:  math.Min(top10Cutoff, float64(n)) * share,
				Pole:   share,
			},
			Confidence: f.Confidence,
			Fallback:   f.Fallback,
		}
	}
	sortProjections(out)
	return out
}

func sortProjections(out []DriverProjection) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExpectedPosition != out[j].ExpectedPosition {
			return out[i].ExpectedPosition < out[j].ExpectedPosition
		}
		return out[i].DriverID < out[j].DriverID
	})
}

func weightSum(weights map[string]float64) float64 {
	sum := 0.0
	for _, name := range models.SortedWeightNames(weights) {
		sum += weights[name]
	}
	return sum
}

// composite is the weight-normalized feature score for one phase
func composite(f features.FeatureScores, weights map[string]float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	sum := 0.0
	for _, name := range models.SortedWeightNames(weights) {
		sum += weights[name] * f.Value(name)
	}
	return sum / total
}

// runID derives a stable identifier from the simulation inputs
func runID(field []features.FeatureScores, model models.ProjectionModel, cfg SimulationConfig) uuid.UUID {
	ids := make([]string, len(field))
	for i, f := range field {
		ids[i] = f.DriverID
	}
	key := fmt.Sprintf("%s|%d|%d|%s", model.Version, cfg.Runs, cfg.Seed, strings.Join(ids, ","))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}
