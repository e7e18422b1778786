package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
)

// PostgresResultRepository implements Store for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// GetRoster retrieves the drivers assigned for a season
func (r *PostgresResultRepository) GetRoster(ctx context.Context, season int) (models.Roster, error) {
	query := `
		SELECT driver_id, driver_name, team
		FROM drivers
		WHERE season = $1
		ORDER BY team, driver_id
	`

	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	roster := models.Roster{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Team); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		roster = append(roster, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}

	return roster, nil
}

// GetSchedule retrieves the season's events ordered by round
func (r *PostgresResultRepository) GetSchedule(ctx context.Context, season int) (models.Schedule, error) {
	query := `
		SELECT season, round, race_name, race_date, track_id
		FROM race_events
		WHERE season = $1
		ORDER BY round
	`

	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	schedule := models.Schedule{}
	for rows.Next() {
		var e models.RaceEvent
		var date *time.Time
		if err := rows.Scan(&e.Season, &e.Round, &e.RaceName, &date, &e.TrackID); err != nil {
			return nil, fmt.Errorf("failed to scan race event: %w", err)
		}
		if date != nil {
			e.Date = *date
		}
		schedule = append(schedule, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule: %w", err)
	}

	return schedule, nil
}

// GetQualifying retrieves the qualifying classification for a round
func (r *PostgresResultRepository) GetQualifying(ctx context.Context, season, round int) (models.QualifyingResults, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}

	query := `
		SELECT season, round, driver_id, position
		FROM qualifying_results
		WHERE season = $1 AND round = $2
		ORDER BY position NULLS LAST, driver_id
	`

	rows, err := r.db.Query(ctx, query, season, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query qualifying results: %w", err)
	}
	defer rows.Close()

	results := models.QualifyingResults{}
	for rows.Next() {
		var q models.QualifyingResult
		if err := rows.Scan(&q.Season, &q.Round, &q.DriverID, &q.Position); err != nil {
			return nil, fmt.Errorf("failed to scan qualifying result: %w", err)
		}
		results = append(results, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating qualifying results: %w", err)
	}

	return results, nil
}

// GetRaceResults retrieves the race classification for a round
func (r *PostgresResultRepository) GetRaceResults(ctx context.Context, season, round int) (models.RaceResults, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}

	query := `
		SELECT season, round, driver_id, grid, lap_one_position, position, points, fastest_lap_rank
		FROM race_results
		WHERE season = $1 AND round = $2
		ORDER BY position NULLS LAST, driver_id
	`

	rows, err := r.db.Query(ctx, query, season, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query race results: %w", err)
	}
	defer rows.Close()

	results := models.RaceResults{}
	for rows.Next() {
		var res models.RaceResult
		err := rows.Scan(
			&res.Season, &res.Round, &res.DriverID, &res.Grid, &res.LapOnePosition,
			&res.Position, &res.Points, &res.FastestLapRank,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race result: %w", err)
		}
		results = append(results, res)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating race results: %w", err)
	}

	return results, nil
}

// GetTrackProfile retrieves a circuit profile
func (r *PostgresResultRepository) GetTrackProfile(ctx context.Context, trackID string) (features.TrackProfile, error) {
	query := `
		SELECT track_id, high_speed, downforce, traction, degradation, braking, street,
			tyre_soft, tyre_medium, tyre_hard
		FROM track_profiles
		WHERE track_id = $1
	`

	var p features.TrackProfile
	err := r.db.QueryRow(ctx, query, trackID).Scan(
		&p.TrackID, &p.HighSpeed, &p.Downforce, &p.Traction, &p.Degradation, &p.Braking, &p.Street,
		&p.Tyres.Soft, &p.Tyres.Medium, &p.Tyres.Hard,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return features.TrackProfile{}, fmt.Errorf("track %q: %w", trackID, models.ErrNotFound)
		}
		return features.TrackProfile{}, fmt.Errorf("failed to query track profile: %w", err)
	}

	return p, nil
}
