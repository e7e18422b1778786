package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/podium-picks/internal/models"
)

// GetActual retrieves the derived actual for a round, or nil when none is stored
func (r *PostgresResultRepository) GetActual(ctx context.Context, season, round int) (*models.RaceActual, error) {
	if err := models.ValidateSeasonRound(season, round); err != nil {
		return nil, err
	}

	query := `
		SELECT season, round, pole, p1, p2, p3, fastest_lap,
			pole_converts, front_row_winner, any_dnf, red_flag, big_mover, other7_podium
		FROM race_actuals
		WHERE season = $1 AND round = $2
	`

	a := &models.RaceActual{}
	err := r.db.QueryRow(ctx, query, season, round).Scan(
		&a.Season, &a.Round, &a.Pole, &a.P1, &a.P2, &a.P3, &a.FastestLap,
		&a.PoleConverts, &a.FrontRowWinner, &a.AnyDNF, &a.RedFlag, &a.BigMover, &a.Other7Podium,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query race actual: %w", err)
	}

	return a, nil
}

// SaveActual upserts the derived actual for a round
func (r *PostgresResultRepository) SaveActual(ctx context.Context, actual models.RaceActual) error {
	if err := models.ValidateSeasonRound(actual.Season, actual.Round); err != nil {
		return err
	}

	query := `
		INSERT INTO race_actuals (season, round, pole, p1, p2, p3, fastest_lap,
			pole_converts, front_row_winner, any_dnf, red_flag, big_mover, other7_podium)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (season, round) DO UPDATE SET
			pole = EXCLUDED.pole, p1 = EXCLUDED.p1, p2 = EXCLUDED.p2, p3 = EXCLUDED.p3,
			fastest_lap = EXCLUDED.fastest_lap, pole_converts = EXCLUDED.pole_converts,
			front_row_winner = EXCLUDED.front_row_winner, any_dnf = EXCLUDED.any_dnf,
			red_flag = EXCLUDED.red_flag, big_mover = EXCLUDED.big_mover,
			other7_podium = EXCLUDED.other7_podium, updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		actual.Season, actual.Round, actual.Pole, actual.P1, actual.P2, actual.P3, actual.FastestLap,
		actual.PoleConverts, actual.FrontRowWinner, actual.AnyDNF, actual.RedFlag, actual.BigMover, actual.Other7Podium,
	)
	if err != nil {
		return fmt.Errorf("failed to save race actual: %w", err)
	}

	return nil
}

// GetOverrides retrieves the adjudicated side-bet overrides for a round
func (r *PostgresResultRepository) GetOverrides(ctx context.Context, season, round int) (map[string]bool, error) {
	query := `
		SELECT field, value
		FROM actual_overrides
		WHERE season = $1 AND round = $2
	`

	rows, err := r.db.Query(ctx, query, season, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query actual overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]bool)
	for rows.Next() {
		var field string
		var value bool
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan actual override: %w", err)
		}
		overrides[field] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actual overrides: %w", err)
	}

	return overrides, nil
}
