package services

import (
	"context"
	"errors"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/repository"
)

// ErrProviderUnavailable means the price source failed for the whole batch.
// Per-symbol failures never produce it.
var ErrProviderUnavailable = errors.New("provider_unavailable")

// PriceProvider fetches raw daily frames for a batch of symbols.
// Implementations report per-symbol failures in the result and return an
// error only when the batch as a whole could not be served.
type PriceProvider interface {
	Name() string
	FetchDaily(ctx context.Context, symbols []string, start, end time.Time) (*models.FetchResult, error)
}

// FundamentalsProvider looks up reference data for one symbol
type FundamentalsProvider interface {
	GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// PriceStore persists daily closes and the windows they were fetched for.
// repository.PriceRepository is the postgres implementation.
type PriceStore interface {
	GetPriceRange(ctx context.Context, provider, symbol string) (*repository.PriceRange, error)
	GetDailyCloses(ctx context.Context, provider, symbol string, startDate, endDate time.Time) (models.RawFrame, error)
	StoreDailyCloses(ctx context.Context, provider, symbol string, frame models.RawFrame) (minDate, maxDate time.Time, err error)
	SavePriceRange(ctx context.Context, pr repository.PriceRange) error
}
