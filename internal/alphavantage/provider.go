package alphavantage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Name identifies the provider in logs and cache keys
func (c *Client) Name() string { return "alphavantage" }

// FetchDaily fetches daily closes for every symbol, trimmed to [start, end].
// AlphaVantage dates carry no zone, so they are read as UTC calendar days.
func (c *Client) FetchDaily(ctx context.Context, symbols []string, start, end time.Time) (*models.FetchResult, error) {
	result := models.NewFetchResult()
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for _, sym := range symbols {
		g.Go(func() error {
			prices, err := c.GetDailyPrices(gCtx, sym)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnf("alphavantage: fetching %s failed: %v", sym, err)
				result.Failures[sym] = err
				return nil
			}
			result.Table[sym] = frameFromPrices(prices, start, end)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("alphavantage fetch cancelled: %w", err)
	}
	return result, nil
}

func frameFromPrices(prices []ParsedPriceData, start, end time.Time) models.RawFrame {
	frame := models.RawFrame{Columns: make(map[string][]null.Float)}
	for _, p := range prices {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		frame.Timestamps = append(frame.Timestamps, p.Date)
		frame.Columns[models.ColumnOpen] = append(frame.Columns[models.ColumnOpen], null.FloatFrom(p.Open))
		frame.Columns[models.ColumnHigh] = append(frame.Columns[models.ColumnHigh], null.FloatFrom(p.High))
		frame.Columns[models.ColumnLow] = append(frame.Columns[models.ColumnLow], null.FloatFrom(p.Low))
		frame.Columns[models.ColumnClose] = append(frame.Columns[models.ColumnClose], null.FloatFromPtr(p.Close))
		frame.Columns[models.ColumnVolume] = append(frame.Columns[models.ColumnVolume], null.FloatFrom(float64(p.Volume)))
	}
	return frame
}
