package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
)

// ActualOverride holds the adjudicated side-bet outcomes for one round
type ActualOverride struct {
	Season int             `json:"season"`
	Round  int             `json:"round"`
	Fields map[string]bool `json:"fields"`
}

// Snapshot is the JSON document backing the in-memory repository
type Snapshot struct {
	Rosters       map[int]models.Roster     `json:"rosters"`
	Schedules     map[int]models.Schedule   `json:"schedules"`
	Qualifying    []models.QualifyingResult `json:"qualifying"`
	Race          []models.RaceResult       `json:"race"`
	Actuals       []models.RaceActual       `json:"actuals"`
	Overrides     []ActualOverride          `json:"overrides"`
	Predictions   []models.Prediction       `json:"predictions"`
	SeasonPicks   []models.SeasonPick       `json:"seasonPicks"`
	Adjudications []models.Adjudication     `json:"adjudications"`
	Tracks        []features.TrackProfile   `json:"tracks"`
}

// LoadSnapshot reads a snapshot document from disk
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}

type roundKey struct {
	season int
	round  int
}

// MemoryRepository serves a snapshot from memory. Reads return copies.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	actuals   map[roundKey]models.RaceActual
	overrides map[roundKey]map[string]bool
}

// NewMemoryRepository indexes a snapshot for querying
func NewMemoryRepository(snapshot *Snapshot) *MemoryRepository {
	r := &MemoryRepository{
		actuals:   make(map[roundKey]models.RaceActual),
		overrides: make(map[roundKey]map[string]bool),
	}
	if snapshot == nil {
		return r
	}
	r.snapshot = *snapshot
	r.snapshot.Predictions = append([]models.Prediction(nil), snapshot.Predictions...)
	r.snapshot.Adjudications = append([]models.Adjudication(nil), snapshot.Adjudications...)
	for _, a := range snapshot.Actuals {
		r.actuals[roundKey{a.Season, a.Round}] = a
	}
	for _, o := range snapshot.Overrides {
		r.overrides[roundKey{o.Season, o.Round}] = lo.Assign(o.Fields)
	}
	return r
}

// GetRoster returns the season roster
func (r *MemoryRepository) GetRoster(ctx context.Context, season int) (models.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(models.Roster{}, r.snapshot.Rosters[season]...), nil
}

// GetSchedule returns the season schedule ordered by round
func (r *MemoryRepository) GetSchedule(ctx context.Context, season int) (models.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Schedules[season].Sorted(), nil
}

// GetQualifying returns the qualifying classification for a round
func (r *MemoryRepository) GetQualifying(ctx context.Context, season, round int) (models.QualifyingResults, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Filter(r.snapshot.Qualifying, func(q models.QualifyingResult, _ int) bool {
		return q.Season == season && q.Round == round
	}), nil
}

// GetRaceResults returns the race classification for a round
func (r *MemoryRepository) GetRaceResults(ctx context.Context, season, round int) (models.RaceResults, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Filter(r.snapshot.Race, func(res models.RaceResult, _ int) bool {
		return res.Season == season && res.Round == round
	}), nil
}

// GetActual returns the stored actual for a round or nil
func (r *MemoryRepository) GetActual(ctx context.Context, season, round int) (*models.RaceActual, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	actual, ok := r.actuals[roundKey{season, round}]
	if !ok {
		return nil, nil
	}
	return &actual, nil
}

// GetPredictions returns matching predictions ordered by round, user and submission time
func (r *MemoryRepository) GetPredictions(ctx context.Context, query PredictionQuery) ([]models.Prediction, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := lo.Filter(r.snapshot.Predictions, func(p models.Prediction, _ int) bool {
		return query.Matches(p)
	})
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if a.User != b.User {
			return a.User < b.User
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
	return matched, nil
}

// GetSeasonPicks returns season picks for one user or all users
func (r *MemoryRepository) GetSeasonPicks(ctx context.Context, user string, season int) ([]models.SeasonPick, error) {
	if season <= 0 {
		return nil, models.ErrSeasonRequired.WithField("season")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	picks := lo.Filter(r.snapshot.SeasonPicks, func(p models.SeasonPick, _ int) bool {
		return p.Season == season && (user == "" || p.User == user)
	})
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].User < picks[j].User
	})
	return picks, nil
}

// GetAdjudication returns a user's verdicts for the season
func (r *MemoryRepository) GetAdjudication(ctx context.Context, user string, season int) (models.Adjudication, error) {
	if user == "" {
		return models.Adjudication{}, models.ErrUserRequired.WithField("user")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	adj, ok := lo.Find(r.snapshot.Adjudications, func(a models.Adjudication) bool {
		return a.User == user && a.Season == season
	})
	if !ok {
		return models.Adjudication{User: user, Season: season, Fields: map[string]models.AdjudicationStatus{}}, nil
	}
	adj.Fields = lo.Assign(adj.Fields)
	return adj, nil
}

// GetTrackProfile returns the profile for a track id
func (r *MemoryRepository) GetTrackProfile(ctx context.Context, trackID string) (features.TrackProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := lo.Find(r.snapshot.Tracks, func(t features.TrackProfile) bool {
		return t.TrackID == trackID
	})
	if !ok {
		return features.TrackProfile{}, fmt.Errorf("track %q: %w", trackID, models.ErrNotFound)
	}
	return profile, nil
}

// GetOverrides returns the adjudicated overrides for a round
func (r *MemoryRepository) GetOverrides(ctx context.Context, season, round int) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Assign(r.overrides[roundKey{season, round}]), nil
}

// SaveActual stores a derived actual, replacing any previous one for the round
func (r *MemoryRepository) SaveActual(ctx context.Context, actual models.RaceActual) error {
	if err := models.ValidateSeasonRound(actual.Season, actual.Round); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actuals[roundKey{actual.Season, actual.Round}] = actual
	return nil
}

// SetOverrides records adjudicated overrides for a round
func (r *MemoryRepository) SetOverrides(season, round int, fields map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[roundKey{season, round}] = lo.Assign(fields)
}

// AddPrediction appends a prediction, as a submission would
func (r *MemoryRepository) AddPrediction(p models.Prediction) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = models.NewPredictionID(p.User, p.Season, p.Round)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.Predictions = append(r.snapshot.Predictions, p)
	return nil
}

// RecordAdjudication upserts one verdict
func (r *MemoryRepository) RecordAdjudication(ctx context.Context, user string, season int, field string, status models.AdjudicationStatus) error {
	if user == "" {
		return models.ErrUserRequired.WithField("user")
	}
	if !status.IsValid() {
		return models.NewValidationError("invalid_adjudication", "adjudication must be hit, miss or pending").WithField(field)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.snapshot.Adjudications {
		adj := &r.snapshot.Adjudications[i]
		if adj.User == user && adj.Season == season {
			fields := lo.Assign(adj.Fields)
			fields[field] = status
			adj.Fields = fields
			return nil
		}
	}
	r.snapshot.Adjudications = append(r.snapshot.Adjudications, models.Adjudication{
		User:   user,
		Season: season,
		Fields: map[string]models.AdjudicationStatus{field: status},
	})
	return nil
}
