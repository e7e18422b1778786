package features

import (
	"math"
	"sort"

	"github.com/yourusername/podium-picks/internal/models"
)

// FallbackLevel records which data the scores were derived from
type FallbackLevel string

// Fallback levels, from best to worst data
const (
	FallbackNone    FallbackLevel = "none"
	FallbackSeason  FallbackLevel = "season"
	FallbackNeutral FallbackLevel = "neutral"
)

// Config tunes the feature derivation
type Config struct {
	MomentumWindow       int                  `mapstructure:"momentum_window" validate:"gte=2"`
	MomentumSlopeRange   float64              `mapstructure:"momentum_slope_range" validate:"gt=0"`
	FormDecay            float64              `mapstructure:"form_decay" validate:"gt=0,lte=1"`
	Q3Cutoff             int                  `mapstructure:"q3_cutoff" validate:"gt=0"`
	TeammateWeight       float64              `mapstructure:"teammate_weight" validate:"gte=0,lte=1"`
	TrackTypeSimilarity  float64              `mapstructure:"track_type_similarity" validate:"gte=0,lte=1"`
	ConfidenceSaturation int                  `mapstructure:"confidence_saturation" validate:"gt=0"`
	Fallback             models.FallbackRules `mapstructure:"-"`
}

// DefaultConfig returns the standard feature settings
func DefaultConfig() Config {
	return Config{
		MomentumWindow:       5,
		MomentumSlopeRange:   3,
		FormDecay:            0.8,
		Q3Cutoff:             10,
		TeammateWeight:       0.3,
		TrackTypeSimilarity:  0.8,
		ConfidenceSaturation: 10,
		Fallback:             models.DefaultProjectionModel().Fallback,
	}
}

// FeatureScores are a driver's normalized [0,1] features for one track
type FeatureScores struct {
	DriverID        string        `json:"driver_id"`
	Team            string        `json:"team"`
	QualiPace       float64       `json:"qual_pace"`
	Q3Presence      float64       `json:"q3_presence"`
	RacePace        float64       `json:"race_pace"`
	TrackFit        float64       `json:"track_fit"`
	TyreFit         float64       `json:"tyre_fit"`
	StrategyFit     float64       `json:"strategy_fit"`
	Momentum        float64       `json:"momentum"`
	MomentumSlope   float64       `json:"momentum_slope"`
	Form            float64       `json:"form"`
	StartCraft      float64       `json:"start_craft"`
	Reliability     float64       `json:"reliability"`
	Confidence      float64       `json:"confidence"`
	Fallback        FallbackLevel `json:"fallback"`
	SampleSize      int           `json:"sample_size"`
	TrackSampleSize int           `json:"track_sample_size"`
}

// Value returns the feature named by a projection weight
func (f FeatureScores) Value(name string) float64 {
	switch name {
	case models.WeightQualPace:
		return f.QualiPace
	case models.WeightQ3Presence:
		return f.Q3Presence
	case models.WeightRacePace:
		return f.RacePace
	case models.WeightTrackFit:
		return f.TrackFit
	case models.WeightTyreFit:
		return f.TyreFit
	case models.WeightStrategyFit:
		return f.StrategyFit
	case models.WeightMomentum:
		return f.Momentum
	case models.WeightForm:
		return f.Form
	case models.WeightStartCraft:
		return f.StartCraft
	case models.WeightReliability:
		return f.Reliability
	}
	return 0
}

// Neutral returns the scores used when a driver has no data at all
func Neutral(driverID, team string, rules models.FallbackRules) FeatureScores {
	n := clamp01(rules.NeutralScore)
	return FeatureScores{
		DriverID:    driverID,
		Team:        team,
		QualiPace:   n,
		Q3Presence:  n,
		RacePace:    n,
		TrackFit:    n,
		TyreFit:     n,
		StrategyFit: n,
		Momentum:    n,
		Form:        n,
		StartCraft:  n,
		Reliability: n,
		Confidence:  clamp01(rules.MinConfidence),
		Fallback:    FallbackNeutral,
	}
}

// BuildFeatureModel derives a driver's feature scores for the target track.
// It never fails: missing data lowers confidence and triggers the fallback policy.
func BuildFeatureModel(driverID string, history DriverHistory, track TrackProfile, cfg Config) FeatureScores {
	rounds := history.Sorted()
	if len(rounds) == 0 {
		return Neutral(driverID, history.Team, cfg.Fallback)
	}
	neutral := clamp01(cfg.Fallback.NeutralScore)

	scores := FeatureScores{
		DriverID:   driverID,
		Team:       history.Team,
		SampleSize: len(rounds),
		Fallback:   FallbackNone,
	}

	scores.QualiPace = blend(qualiPace(rounds, neutral), qualiHeadToHead(rounds), cfg.TeammateWeight)
	scores.Q3Presence = q3Presence(rounds, cfg.Q3Cutoff, neutral)
	scores.RacePace = blend(racePace(rounds, neutral), raceHeadToHead(rounds), cfg.TeammateWeight)

	scores.TrackSampleSize = similarRounds(rounds, track, cfg.TrackTypeSimilarity)
	if scores.TrackSampleSize == 0 || track.IsZero() {
		scores.TrackFit = scores.RacePace
		scores.Fallback = FallbackSeason
	} else {
		scores.TrackFit = trackFit(rounds, track, scores.RacePace)
	}

	scores.TyreFit = tyreFit(rounds, track.Tyres, scores.RacePace)
	scores.StrategyFit = strategyFit(rounds, neutral)
	scores.MomentumSlope = momentumSlope(rounds, cfg.MomentumWindow)
	scores.Momentum = normalize(scores.MomentumSlope, -cfg.MomentumSlopeRange, cfg.MomentumSlopeRange)
	if scores.MomentumSlope == 0 {
		scores.Momentum = neutral
	}
	scores.Form = form(rounds, cfg.FormDecay, neutral)
	scores.StartCraft = startCraft(rounds, neutral)
	scores.Reliability = reliability(rounds, neutral)

	scores.Confidence = Confidence(len(rounds), coverage(rounds), cfg)
	if scores.Fallback == FallbackSeason {
		penalized := scores.Confidence * cfg.Fallback.SeasonFallbackPenalty
		scores.Confidence = math.Max(clamp01(cfg.Fallback.MinConfidence), penalized)
	}

	return sanitize(scores, neutral)
}

// Confidence maps sample size and data coverage to [MinConfidence, 1].
// It is non-decreasing in sampleSize for a fixed coverage.
func Confidence(sampleSize int, coverage float64, cfg Config) float64 {
	minConf := clamp01(cfg.Fallback.MinConfidence)
	if sampleSize <= 0 {
		return minConf
	}
	saturation := cfg.ConfidenceSaturation
	if saturation <= 0 {
		saturation = 1
	}
	sample := math.Min(1, float64(sampleSize)/float64(saturation))
	quality := 0.5 + 0.5*clamp01(coverage)
	return clamp01(minConf + (1-minConf)*sample*quality)
}

// BuildField builds feature scores for every roster driver, ordered by driver id.
// Drivers without a history entry receive neutral scores.
func BuildField(roster models.Roster, histories map[string]DriverHistory, track TrackProfile, cfg Config) []FeatureScores {
	ids := make([]string, 0, len(roster))
	for _, d := range roster {
		ids = append(ids, d.ID)
	}
	sort.Strings(ids)

	field := make([]FeatureScores, 0, len(ids))
	for _, id := range ids {
		h, ok := histories[id]
		if !ok {
			h = DriverHistory{DriverID: id, Team: roster.TeamOf(id)}
		}
		if h.Team == "" {
			h.Team = roster.TeamOf(id)
		}
		field = append(field, BuildFeatureModel(id, h, track, cfg))
	}
	return field
}

func qualiPace(rounds []HistoricalRound, neutral float64) float64 {
	var values []float64
	for _, r := range rounds {
		if r.QualifyingPosition != nil {
			values = append(values, r.relative(*r.QualifyingPosition))
		}
	}
	return meanOr(values, neutral)
}

func racePace(rounds []HistoricalRound, neutral float64) float64 {
	var values []float64
	for _, r := range rounds {
		if r.FinishPosition != nil {
			values = append(values, r.relative(*r.FinishPosition))
		}
	}
	return meanOr(values, neutral)
}

// qualiHeadToHead is the share of sessions the driver out-qualified the teammate; -1 when unknown
func qualiHeadToHead(rounds []HistoricalRound) float64 {
	wins, total := 0, 0
	for _, r := range rounds {
		if r.QualifyingPosition == nil || r.TeammateQualifying == nil {
			continue
		}
		total++
		if *r.QualifyingPosition < *r.TeammateQualifying {
			wins++
		}
	}
	if total == 0 {
		return -1
	}
	return float64(wins) / float64(total)
}

// raceHeadToHead compares finishes in rounds both drivers started; a DNF loses to any
// classified finish. -1 when no such round exists.
func raceHeadToHead(rounds []HistoricalRound) float64 {
	wins, total := 0, 0
	for _, r := range rounds {
		if !r.Started || !r.TeammateStarted || (r.FinishPosition == nil && r.TeammateFinish == nil) {
			continue
		}
		total++
		switch {
		case r.TeammateFinish == nil:
			wins++
		case r.FinishPosition != nil && *r.FinishPosition < *r.TeammateFinish:
			wins++
		}
	}
	if total == 0 {
		return -1
	}
	return float64(wins) / float64(total)
}

func blend(own, headToHead, weight float64) float64 {
	if headToHead < 0 {
		return own
	}
	w := clamp01(weight)
	return clamp01(own*(1-w) + headToHead*w)
}

func q3Presence(rounds []HistoricalRound, cutoff int, neutral float64) float64 {
	hits, total := 0, 0
	for _, r := range rounds {
		if r.QualifyingPosition == nil {
			continue
		}
		total++
		if *r.QualifyingPosition <= cutoff {
			hits++
		}
	}
	if total == 0 {
		return neutral
	}
	return float64(hits) / float64(total)
}

func similarRounds(rounds []HistoricalRound, track TrackProfile, threshold float64) int {
	n := 0
	for _, r := range rounds {
		if r.Track.IsZero() {
			continue
		}
		if r.Track.Similarity(track) >= threshold {
			n++
		}
	}
	return n
}

// trackFit builds the driver's per-characteristic performance pattern and scores it
// against the target profile with a weighted dot product.
func trackFit(rounds []HistoricalRound, track TrackProfile, fallback float64) float64 {
	target := track.Vector()
	pattern := make([]float64, len(target))
	weights := make([]float64, len(target))
	for _, r := range rounds {
		if r.Track.IsZero() {
			continue
		}
		perf := 0.0
		if r.FinishPosition != nil {
			perf = r.relative(*r.FinishPosition)
		}
		for k, v := range r.Track.Vector() {
			pattern[k] += perf * v
			weights[k] += v
		}
	}

	dot, norm := 0.0, 0.0
	for k := range target {
		p := fallback
		if weights[k] > 0 {
			p = pattern[k] / weights[k]
		}
		dot += p * target[k]
		norm += target[k]
	}
	if norm == 0 {
		return fallback
	}
	return clamp01(dot / norm)
}

func tyreFit(rounds []HistoricalRound, mix TyreMix, fallback float64) float64 {
	if mix.IsZero() {
		return fallback
	}
	sum, weight := 0.0, 0.0
	for _, r := range rounds {
		if r.FinishPosition == nil {
			continue
		}
		w := r.Track.Tyres.similarity(mix)
		sum += w * r.relative(*r.FinishPosition)
		weight += w
	}
	if weight == 0 {
		return fallback
	}
	return clamp01(sum / weight)
}

// strategyFit rewards places gained from grid to flag, weighted toward high-degradation tracks
func strategyFit(rounds []HistoricalRound, neutral float64) float64 {
	sum, weight := 0.0, 0.0
	for _, r := range rounds {
		if r.Grid == nil || *r.Grid <= 0 || r.FinishPosition == nil {
			continue
		}
		gain := float64(*r.Grid-*r.FinishPosition) / float64(r.fieldSize()-1)
		w := 0.5 + clamp01(r.Track.Degradation)
		sum += w * clamp01(0.5+0.5*gain)
		weight += w
	}
	if weight == 0 {
		return neutral
	}
	return sum / weight
}

// momentumSlope is the least-squares slope of recent finishing positions, sign-inverted
func momentumSlope(rounds []HistoricalRound, window int) float64 {
	var positions []float64
	for _, r := range rounds {
		if r.FinishPosition != nil {
			positions = append(positions, float64(*r.FinishPosition))
		}
	}
	if window > 0 && len(positions) > window {
		positions = positions[len(positions)-window:]
	}
	n := float64(len(positions))
	if n < 2 {
		return 0
	}
	meanX := (n - 1) / 2
	meanY := mean(positions)
	num, den := 0.0, 0.0
	for i, y := range positions {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return -num / den
}

// form is a recency-weighted average relative finish; a DNF counts as last
func form(rounds []HistoricalRound, decay, neutral float64) float64 {
	sum, weight := 0.0, 0.0
	w := 1.0
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		if !r.Started {
			continue
		}
		perf := 0.0
		if r.FinishPosition != nil {
			perf = r.relative(*r.FinishPosition)
		}
		sum += w * perf
		weight += w
		w *= decay
	}
	if weight == 0 {
		return neutral
	}
	return clamp01(sum / weight)
}

func startCraft(rounds []HistoricalRound, neutral float64) float64 {
	var values []float64
	for _, r := range rounds {
		if r.Grid == nil || *r.Grid <= 0 || r.LapOnePosition == nil {
			continue
		}
		delta := float64(*r.Grid-*r.LapOnePosition) / float64(r.fieldSize()-1)
		values = append(values, clamp01(0.5+0.5*delta))
	}
	return meanOr(values, neutral)
}

func reliability(rounds []HistoricalRound, neutral float64) float64 {
	starts, dnfs := 0, 0
	for _, r := range rounds {
		if !r.Started {
			continue
		}
		starts++
		if r.FinishPosition == nil {
			dnfs++
		}
	}
	if starts == 0 {
		return neutral
	}
	return 1 - float64(dnfs)/float64(starts)
}

// coverage is the share of optional data points present across the history
func coverage(rounds []HistoricalRound) float64 {
	if len(rounds) == 0 {
		return 0
	}
	present := 0
	for _, r := range rounds {
		if r.QualifyingPosition != nil {
			present++
		}
		if r.Grid != nil {
			present++
		}
		if r.LapOnePosition != nil {
			present++
		}
		if !r.Track.IsZero() {
			present++
		}
	}
	return float64(present) / float64(4*len(rounds))
}

func sanitize(s FeatureScores, neutral float64) FeatureScores {
	fix := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return neutral
		}
		return clamp01(v)
	}
	s.QualiPace = fix(s.QualiPace)
	s.Q3Presence = fix(s.Q3Presence)
	s.RacePace = fix(s.RacePace)
	s.TrackFit = fix(s.TrackFit)
	s.TyreFit = fix(s.TyreFit)
	s.StrategyFit = fix(s.StrategyFit)
	s.Momentum = fix(s.Momentum)
	s.Form = fix(s.Form)
	s.StartCraft = fix(s.StartCraft)
	s.Reliability = fix(s.Reliability)
	s.Confidence = fix(s.Confidence)
	if math.IsNaN(s.MomentumSlope) || math.IsInf(s.MomentumSlope, 0) {
		s.MomentumSlope = 0
	}
	return s
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return math.Max(0, math.Min(1, v))
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

func meanOr(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return mean(values)
}
