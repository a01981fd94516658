package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/util"
	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceRepository handles database operations for the L2 close cache
type PriceRepository struct {
	pool *pgxpool.Pool
}

// PriceRange is the contiguous window of days that was fetched for a symbol.
// NextUpdate is the first market close after EndDate that may be missing.
type PriceRange struct {
	Provider   string
	Symbol     string
	StartDate  time.Time
	EndDate    time.Time
	NextUpdate time.Time
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetDailyCloses retrieves cached closes for a symbol within a date range as a
// single-column frame dated at UTC midnight
func (r *PriceRepository) GetDailyCloses(ctx context.Context, provider, symbol string, startDate, endDate time.Time) (models.RawFrame, error) {
	query := `
		SELECT date, close
		FROM fact_close
		WHERE provider = $1 AND symbol = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, provider, symbol, util.UTCDate(startDate), util.UTCDate(endDate))
	if err != nil {
		return models.RawFrame{}, fmt.Errorf("failed to query close cache: %w", err)
	}
	defer rows.Close()

	frame := models.RawFrame{Columns: map[string][]null.Float{models.ColumnClose: {}}}
	for rows.Next() {
		var date time.Time
		var c float64
		if err := rows.Scan(&date, &c); err != nil {
			return models.RawFrame{}, fmt.Errorf("failed to scan close: %w", err)
		}
		frame.Timestamps = append(frame.Timestamps, util.DateOf(date))
		frame.Columns[models.ColumnClose] = append(frame.Columns[models.ColumnClose], null.FloatFrom(c))
	}
	return frame, rows.Err()
}

// StoreDailyCloses stores the valid closes of a frame and returns the stored date range.
// Frames without a usable Close column store nothing.
func (r *PriceRepository) StoreDailyCloses(ctx context.Context, provider, symbol string, frame models.RawFrame) (minDate, maxDate time.Time, err error) {
	closes, ok := frame.Columns[models.ColumnClose]
	if !ok || len(closes) != len(frame.Timestamps) {
		return minDate, maxDate, nil
	}

	query := `
		INSERT INTO fact_close (provider, symbol, date, close)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, symbol, date) DO UPDATE
		SET close = EXCLUDED.close
	`

	batch := &pgx.Batch{}
	for i, ts := range frame.Timestamps {
		if !closes[i].Valid {
			continue
		}
		date := util.UTCDate(ts)
		batch.Queue(query, provider, symbol, date, closes[i].Float64)

		if minDate.IsZero() || date.Before(minDate) {
			minDate = date
		}
		if date.After(maxDate) {
			maxDate = date
		}
	}
	if batch.Len() == 0 {
		return minDate, maxDate, nil
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			return minDate, maxDate, fmt.Errorf("failed to cache close: %w", err)
		}
	}
	return minDate, maxDate, nil
}

// GetPriceRange retrieves the cached date range for a symbol
func (r *PriceRepository) GetPriceRange(ctx context.Context, provider, symbol string) (*PriceRange, error) {
	query := `
		SELECT provider, symbol, start_date, end_date, next_update
		FROM fact_close_range
		WHERE provider = $1 AND symbol = $2
	`
	pr := &PriceRange{}
	err := r.pool.QueryRow(ctx, query, provider, symbol).Scan(
		&pr.Provider, &pr.Symbol, &pr.StartDate, &pr.EndDate, &pr.NextUpdate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price range: %w", err)
	}
	return pr, nil
}

// SavePriceRange inserts or replaces the stored range for a symbol. Callers
// merge with the previous range first; the row is overwritten as given.
func (r *PriceRepository) SavePriceRange(ctx context.Context, pr PriceRange) error {
	query := `
		INSERT INTO fact_close_range (provider, symbol, start_date, end_date, next_update)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, symbol) DO UPDATE
		SET start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
			next_update = EXCLUDED.next_update
	`
	_, err := r.pool.Exec(ctx, query, pr.Provider, pr.Symbol, pr.StartDate, pr.EndDate, pr.NextUpdate)
	if err != nil {
		return fmt.Errorf("failed to save price range: %w", err)
	}
	return nil
}
