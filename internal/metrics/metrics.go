// Package metrics provides centralized Prometheus metrics registry for the picks engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podium_picks"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_scored_total",
		Help:      "Total number of predictions scored",
	})
	IncompletePredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incomplete_predictions_total",
		Help:      "Total number of scored predictions with at least one empty slot",
	})
	SeasonAggregationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_aggregations_total",
		Help:      "Total number of season standings aggregations",
	})
	TieBreakDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tiebreak_decisions_total",
		Help:      "Total number of tie-break resolutions by deciding key",
	}, []string{"decided_by"})
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_total",
		Help:      "Total number of race simulations by outcome",
	}, []string{"outcome"})
	ActualRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actual_refreshes_total",
		Help:      "Total number of race actual refreshes by outcome",
	}, []string{"outcome"})
	FeatureFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feature_fallbacks_total",
		Help:      "Total number of driver feature models built with a fallback",
	}, []string{"level"})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio of the result cache",
	})
	LastSimulationRuns = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_simulation_runs",
		Help:      "Monte Carlo run count of the latest race projection",
	})
	FavouriteWinProbability = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "favourite_win_probability",
		Help:      "Win probability of the projected favourite per round",
	}, []string{"season", "round"})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Duration of round scoring in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of Monte Carlo race simulations in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})
	FeatureConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feature_confidence",
		Help:      "Confidence of driver feature models",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsScoredTotal)
		registry.MustRegister(IncompletePredictionsTotal)
		registry.MustRegister(SeasonAggregationsTotal)
		registry.MustRegister(TieBreakDecisionsTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(ActualRefreshesTotal)
		registry.MustRegister(FeatureFallbacksTotal)

		// Register gauge metrics
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(LastSimulationRuns)
		registry.MustRegister(FavouriteWinProbability)

		// Register histogram metrics
		registry.MustRegister(ScoringDuration)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(FeatureConfidence)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRoundScored records a scored round and its duration.
func RecordRoundScored(predictions, incomplete int, durationSeconds float64) {
	PredictionsScoredTotal.Add(float64(predictions))
	IncompletePredictionsTotal.Add(float64(incomplete))
	ScoringDuration.Observe(durationSeconds)
}

// RecordSeasonAggregation records a season standings aggregation.
func RecordSeasonAggregation() {
	SeasonAggregationsTotal.Inc()
}

// RecordTieBreak records which key decided a ranking.
func RecordTieBreak(decidedBy string) {
	if decidedBy == "" {
		decidedBy = "none"
	}
	TieBreakDecisionsTotal.WithLabelValues(decidedBy).Inc()
}

// RecordSimulation records a race simulation.
func RecordSimulation(outcome string, runs int, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(outcome).Inc()
	LastSimulationRuns.Set(float64(runs))
	SimulationDuration.Observe(durationSeconds)
}

// RecordFavourite records the favourite's win probability for a round.
func RecordFavourite(season, round string, probability float64) {
	FavouriteWinProbability.WithLabelValues(season, round).Set(probability)
}

// RecordActualRefresh records the outcome of deriving a race actual.
func RecordActualRefresh(outcome string) {
	ActualRefreshesTotal.WithLabelValues(outcome).Inc()
}

// RecordFeatureModel records a driver's feature confidence and fallback level.
func RecordFeatureModel(fallback string, confidence float64) {
	FeatureConfidence.Observe(confidence)
	if fallback != "" && fallback != "none" {
		FeatureFallbacksTotal.WithLabelValues(fallback).Inc()
	}
}

// UpdateCacheHitRatio sets the result cache hit ratio.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
