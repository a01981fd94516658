package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/marketpulse/internal/cache"
	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/repository"
	"github.com/epeers/marketpulse/internal/util"
	log "github.com/sirupsen/logrus"
)

// PricingService layers the in-memory cache (L1) and the optional postgres
// close store (L2) in front of a PriceProvider. It is itself a PriceProvider.
type PricingService struct {
	memCache *cache.MemoryCache
	store    PriceStore
	provider PriceProvider
	now      func() time.Time
}

// NewPricingService creates a new PricingService. memCache and store may be nil.
func NewPricingService(
	memCache *cache.MemoryCache,
	store PriceStore,
	provider PriceProvider,
) *PricingService {
	return &PricingService{
		memCache: memCache,
		store:    store,
		provider: provider,
		now:      time.Now,
	}
}

// Name reports the underlying provider
func (s *PricingService) Name() string { return s.provider.Name() }

// FetchDaily serves each symbol from the first layer that has it and sends
// only the misses to the provider in one batch.
func (s *PricingService) FetchDaily(ctx context.Context, symbols []string, start, end time.Time) (*models.FetchResult, error) {
	defer TrackTime("FetchDaily", time.Now())
	name := s.provider.Name()
	result := models.NewFetchResult()
	currentDT := s.now()

	var misses []string
	for _, sym := range symbols {
		if s.memCache != nil {
			if frame, ok := s.memCache.GetFrame(name, sym, start, end); ok {
				result.Table[sym] = frame
				continue
			}
		}
		if frame, ok := s.fromStore(ctx, name, sym, currentDT, start, end); ok {
			result.Table[sym] = frame
			s.remember(name, sym, start, end, frame)
			continue
		}
		misses = append(misses, sym)
	}

	if len(misses) == 0 {
		return result, nil
	}

	fetched, err := s.provider.FetchDaily(ctx, misses, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices from %s: %w", name, err)
	}

	for sym, frame := range fetched.Table {
		result.Table[sym] = frame
		s.remember(name, sym, start, end, frame)
		s.save(ctx, name, sym, currentDT, start, end, frame)
	}
	for sym, ferr := range fetched.Failures {
		result.Failures[sym] = ferr
	}
	return result, nil
}

func (s *PricingService) remember(provider, symbol string, start, end time.Time, frame models.RawFrame) {
	if s.memCache != nil {
		s.memCache.SetFrame(provider, symbol, start, end, frame)
	}
}

// fromStore returns the stored closes when the store holds the whole window
// and no market close can have happened after what was fetched.
func (s *PricingService) fromStore(ctx context.Context, provider, symbol string, currentDT, start, end time.Time) (models.RawFrame, bool) {
	if s.store == nil {
		return models.RawFrame{}, false
	}
	priceRange, err := s.store.GetPriceRange(ctx, provider, symbol)
	if err != nil {
		log.Errorf("failed to get price range for %s: %v", symbol, err)
		return models.RawFrame{}, false
	}
	if DetermineFetch(priceRange, currentDT, start, end) {
		return models.RawFrame{}, false
	}
	frame, err := s.store.GetDailyCloses(ctx, provider, symbol, start, end)
	if err != nil {
		log.Errorf("failed to get closes for %s from DB: %v", symbol, err)
		return models.RawFrame{}, false
	}
	return frame, true
}

// save stores a fetched frame and records the window it answered
func (s *PricingService) save(ctx context.Context, provider, symbol string, currentDT, start, end time.Time, frame models.RawFrame) {
	if s.store == nil {
		return
	}
	minDate, _, err := s.store.StoreDailyCloses(ctx, provider, symbol, frame)
	if err != nil {
		log.Errorf("warning: failed to store closes for %s: %v", symbol, err)
		return
	}
	if minDate.IsZero() {
		return
	}

	existing, err := s.store.GetPriceRange(ctx, provider, symbol)
	if err != nil {
		log.Errorf("warning: failed to read price range for %s: %v", symbol, err)
		return
	}
	merged := MergeRange(existing, FetchedRange(provider, symbol, currentDT, start, end))
	if err := s.store.SavePriceRange(ctx, merged); err != nil {
		log.Errorf("warning: failed to update price range for %s: %v", symbol, err)
	}
}

// fetchedThrough caps a window end at the current time; nothing later can exist
func fetchedThrough(currentDT, end time.Time) time.Time {
	if end.After(currentDT) {
		return currentDT
	}
	return end
}

// FetchedRange describes what a successful fetch of [start, end] covers.
// NextUpdate is the first market close after the covered span, so a
// historical window is never stamped with today's refresh time.
func FetchedRange(provider, symbol string, currentDT, start, end time.Time) repository.PriceRange {
	through := fetchedThrough(currentDT, end)
	return repository.PriceRange{
		Provider:   provider,
		Symbol:     symbol,
		StartDate:  util.UTCDate(start),
		EndDate:    util.UTCDate(through),
		NextUpdate: util.NextMarketDate(through),
	}
}

// MergeRange folds a freshly fetched span into the stored range. Spans that
// overlap or touch are joined; a disjoint span replaces the stored range so
// the range never claims days that were not fetched.
func MergeRange(existing *repository.PriceRange, fetched repository.PriceRange) repository.PriceRange {
	if existing == nil {
		return fetched
	}
	disjoint := fetched.StartDate.After(existing.EndDate.AddDate(0, 0, 1)) ||
		existing.StartDate.After(fetched.EndDate.AddDate(0, 0, 1))
	if disjoint {
		return fetched
	}

	merged := fetched
	if existing.StartDate.Before(merged.StartDate) {
		merged.StartDate = existing.StartDate
	}
	// NextUpdate belongs to whichever span reaches further
	switch {
	case existing.EndDate.After(fetched.EndDate):
		merged.EndDate = existing.EndDate
		merged.NextUpdate = existing.NextUpdate
	case existing.EndDate.Equal(fetched.EndDate) && existing.NextUpdate.After(fetched.NextUpdate):
		merged.NextUpdate = existing.NextUpdate
	}
	return merged
}

// DetermineFetch reports whether the provider must be asked for the window
// [effectiveStart, endDate] of a symbol whose stored range is priceRange.
func DetermineFetch(priceRange *repository.PriceRange, currentDT, effectiveStart, endDate time.Time) bool {
	if priceRange == nil {
		// No cached data at all
		return true
	}

	// Historical data we've never fetched, regardless of NextUpdate
	if util.UTCDate(effectiveStart).Before(priceRange.StartDate) {
		return true
	}

	// End gap: the window reaches past what was fetched
	through := fetchedThrough(currentDT, endDate)
	if util.UTCDate(through).After(priceRange.EndDate) {
		return true
	}

	// Covered. A close at or after NextUpdate may be missing from the store.
	return !through.Before(priceRange.NextUpdate)
}

// CachedFundamentals serves fundamentals from the memory cache before asking inner
type CachedFundamentals struct {
	memCache *cache.MemoryCache
	inner    FundamentalsProvider
}

// NewCachedFundamentals wraps a FundamentalsProvider with the memory cache
func NewCachedFundamentals(memCache *cache.MemoryCache, inner FundamentalsProvider) *CachedFundamentals {
	return &CachedFundamentals{memCache: memCache, inner: inner}
}

// GetFundamentals returns cached fundamentals when fresh
func (c *CachedFundamentals) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if f, ok := c.memCache.GetFundamentals(symbol); ok {
		return f, nil
	}
	f, err := c.inner.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.memCache.SetFundamentals(symbol, f)
	return f, nil
}
