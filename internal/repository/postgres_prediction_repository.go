package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/podium-picks/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// GetPredictions retrieves predictions for a season, optionally narrowed by user and round
func (r *PostgresResultRepository) GetPredictions(ctx context.Context, q PredictionQuery) ([]models.Prediction, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_name, season, round, p1, p2, p3, pole, fastest_lap,
			wildcard_driver, wildcard_text, lock_field, side_bets, submitted_at
		FROM predictions
		WHERE season = $1
			AND ($2 = '' OR user_name = $2)
			AND ($3 = 0 OR round = $3)
		ORDER BY round, user_name, submitted_at
	`

	rows, err := r.db.Query(ctx, query, q.Season, q.User, q.Round)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		var p models.Prediction
		err := rows.Scan(
			&p.ID, &p.User, &p.Season, &p.Round, &p.P1, &p.P2, &p.P3, &p.Pole, &p.FastestLap,
			&p.WildcardDriver, &p.WildcardText, &p.LockField, &p.SideBets, &p.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}

// GetSeasonPicks retrieves season picks for one user or, when user is empty, all users
func (r *PostgresResultRepository) GetSeasonPicks(ctx context.Context, user string, season int) ([]models.SeasonPick, error) {
	if season <= 0 {
		return nil, models.ErrSeasonRequired.WithField("season")
	}

	query := `
		SELECT user_name, season, wdc, wcc, categories
		FROM season_picks
		WHERE season = $1 AND ($2 = '' OR user_name = $2)
		ORDER BY user_name
	`

	rows, err := r.db.Query(ctx, query, season, user)
	if err != nil {
		return nil, fmt.Errorf("failed to query season picks: %w", err)
	}
	defer rows.Close()

	picks := []models.SeasonPick{}
	for rows.Next() {
		var sp models.SeasonPick
		if err := rows.Scan(&sp.User, &sp.Season, &sp.WDC, &sp.WCC, &sp.Categories); err != nil {
			return nil, fmt.Errorf("failed to scan season pick: %w", err)
		}
		picks = append(picks, sp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating season picks: %w", err)
	}

	return picks, nil
}

// GetAdjudication retrieves a user's category verdicts for a season
func (r *PostgresResultRepository) GetAdjudication(ctx context.Context, user string, season int) (models.Adjudication, error) {
	adj := models.Adjudication{User: user, Season: season, Fields: map[string]models.AdjudicationStatus{}}
	if user == "" {
		return adj, models.ErrUserRequired.WithField("user")
	}

	query := `
		SELECT field, status
		FROM adjudications
		WHERE user_name = $1 AND season = $2
	`

	rows, err := r.db.Query(ctx, query, user, season)
	if err != nil {
		return adj, fmt.Errorf("failed to query adjudications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var field, status string
		if err := rows.Scan(&field, &status); err != nil {
			return adj, fmt.Errorf("failed to scan adjudication: %w", err)
		}
		adj.Fields[field] = models.AdjudicationStatus(status)
	}

	if err = rows.Err(); err != nil {
		return adj, fmt.Errorf("error iterating adjudications: %w", err)
	}

	return adj, nil
}

// RecordAdjudication upserts one verdict
func (r *PostgresResultRepository) RecordAdjudication(ctx context.Context, user string, season int, field string, status models.AdjudicationStatus) error {
	if !status.IsValid() {
		return models.NewValidationError("invalid_adjudication", "adjudication must be hit, miss or pending").WithField(field)
	}

	query := `
		INSERT INTO adjudications (user_name, season, field, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_name, season, field) DO UPDATE SET status = EXCLUDED.status
	`

	if _, err := r.db.Exec(ctx, query, user, season, field, string(status)); err != nil {
		return fmt.Errorf("failed to record adjudication: %w", err)
	}

	return nil
}
