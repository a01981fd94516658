package yahoo

import (
	"context"
	"fmt"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/guregu/null/v6"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
)

// FundamentalsClient looks up currency, market cap, P/E and volume for a symbol
type FundamentalsClient struct {
	get func(symbol string) (*finance.Equity, error)
}

// NewFundamentalsClient creates a client backed by the Yahoo quote API
func NewFundamentalsClient() *FundamentalsClient {
	return &FundamentalsClient{get: equity.Get}
}

// GetFundamentals returns the reference data for symbol. Fields Yahoo does not
// report (indices, futures, crypto) are left null.
func (f *FundamentalsClient) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eq, err := f.get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fundamentals for %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return fundamentalsFromEquity(eq), nil
}

func fundamentalsFromEquity(eq *finance.Equity) *models.Fundamentals {
	volume := eq.RegularMarketVolume
	if volume == 0 {
		volume = eq.AverageDailyVolume10Day
	}
	return &models.Fundamentals{
		Currency:  null.NewString(eq.CurrencyID, eq.CurrencyID != ""),
		MarketCap: positive(float64(eq.MarketCap)),
		PE:        positive(eq.TrailingPE),
		Volume:    positive(float64(volume)),
	}
}

func positive(v float64) null.Float {
	if v <= 0 {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
