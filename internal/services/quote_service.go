package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/returns"
	"github.com/epeers/marketpulse/internal/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownSet is returned when no instrument set has the requested name
	ErrUnknownSet = errors.New("unknown instrument set")
	// ErrNoInstruments is returned for an empty instrument list
	ErrNoInstruments = errors.New("no instruments requested")
)

// Clock returns the current time. Only the service reads it; the engine
// always receives an explicit as-of date.
type Clock func() time.Time

// QuoteOptions tunes one quote request
type QuoteOptions struct {
	Fundamentals bool
	ValuePlaces  int32 // 0 keeps the service default
	FlagTooShort bool
}

// QuoteService fetches history for a list of instruments and computes
// current values and period returns for each of them.
type QuoteService struct {
	prices       PriceProvider
	fundamentals FundamentalsProvider
	opts         returns.Options
	historyDays  int
	sets         []models.InstrumentSet
	clock        Clock
}

// NewQuoteService creates a new QuoteService. fundamentals may be nil.
func NewQuoteService(
	prices PriceProvider,
	fundamentals FundamentalsProvider,
	opts returns.Options,
	historyDays int,
	sets []models.InstrumentSet,
) *QuoteService {
	return &QuoteService{
		prices:       prices,
		fundamentals: fundamentals,
		opts:         opts,
		historyDays:  historyDays,
		sets:         sets,
		clock:        time.Now,
	}
}

// WithClock replaces the clock used when no as-of date is given
func (s *QuoteService) WithClock(c Clock) *QuoteService {
	s.clock = c
	return s
}

// Sets lists the configured instrument sets
func (s *QuoteService) Sets() []models.InstrumentSet {
	return s.sets
}

// GetSet looks up a configured instrument set by name
func (s *QuoteService) GetSet(name string) (models.InstrumentSet, error) {
	for _, set := range s.sets {
		if set.Name == name {
			return set, nil
		}
	}
	return models.InstrumentSet{}, fmt.Errorf("%w: %s", ErrUnknownSet, name)
}

// GetSetQuotes computes quotes for a configured set
func (s *QuoteService) GetSetQuotes(ctx context.Context, name string, asOf *time.Time) (*models.QuotesResponse, error) {
	set, err := s.GetSet(name)
	if err != nil {
		return nil, err
	}
	return s.GetQuotes(ctx, set.Instruments, asOf, OptionsForSet(set))
}

// OptionsForSet returns the quote options configured on a set
func OptionsForSet(set models.InstrumentSet) QuoteOptions {
	return QuoteOptions{
		Fundamentals: set.Fundamentals,
		ValuePlaces:  set.ValuePlaces,
		FlagTooShort: set.FlagTooShort,
	}
}

// GetQuotes computes one result per instrument, in input order. A nil asOf
// means today (UTC). The only error besides bad input is ErrProviderUnavailable;
// everything narrower ends up in an item's error field or in the warnings.
func (s *QuoteService) GetQuotes(ctx context.Context, instruments []models.Instrument, asOf *time.Time, qopts QuoteOptions) (*models.QuotesResponse, error) {
	defer TrackTime("GetQuotes", time.Now())
	if len(instruments) == 0 {
		return nil, ErrNoInstruments
	}
	ctx, wc := NewWarningContext(ctx)

	asOfDate := util.UTCDate(s.clock())
	if asOf != nil {
		asOfDate = util.UTCDate(*asOf)
	}

	symbols := uniqueSymbols(ctx, instruments)
	start := asOfDate.AddDate(0, 0, -s.historyDays)
	end := asOfDate.AddDate(0, 0, 1)

	fetched, err := s.prices.FetchDaily(ctx, symbols, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if !fetched.HasData() {
		return nil, fmt.Errorf("%w: no data returned for any of %d symbols", ErrProviderUnavailable, len(symbols))
	}

	normalized := returns.NormalizeTable(fetched.Table, symbols)
	for _, sym := range symbols {
		n := normalized[sym]
		if ferr, failed := fetched.Failures[sym]; failed {
			n = returns.Normalized{Series: models.PriceSeries{}, Diagnostic: "fetch_failed: " + ferr.Error()}
			AddWarning(ctx, models.Warning{
				Code:    models.WarnFetchFailed,
				Message: fmt.Sprintf("%s: %v", sym, ferr),
			})
		} else if n.Diagnostic != "" {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnMalformedSeries,
				Message: fmt.Sprintf("%s: %s", sym, n.Diagnostic),
			})
		}
		// Samples after the as-of date must not leak into a historical answer
		n.Series = n.Series.Through(asOfDate)
		normalized[sym] = n

		if qopts.FlagTooShort && n.Diagnostic == "" && n.Series.Len() < 2 {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnSeriesTooShort,
				Message: fmt.Sprintf("%s: too_short (%d closes)", sym, n.Series.Len()),
			})
		}
	}

	opts := s.opts
	if qopts.ValuePlaces > 0 {
		opts.ValuePlaces = qopts.ValuePlaces
	}
	inputs := returns.BuildInputs(instruments, normalized)
	results := returns.NewCalculator(opts).ComputeBatch(inputs, asOfDate)

	for i, r := range results {
		if r.Error != "" && inputs[i].Diagnostic == "" {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnComputeFailed,
				Message: fmt.Sprintf("%s: %s", r.Symbol, r.Error),
			})
		}
	}

	if qopts.Fundamentals && s.fundamentals != nil {
		s.attachFundamentals(ctx, results)
	}

	return &models.QuotesResponse{
		AsOf:     asOfDate.Format(util.DateLayout),
		Items:    results,
		Warnings: wc.GetWarnings(),
	}, nil
}

// attachFundamentals looks up reference data for every result that has a
// price. A failed lookup leaves the fields null and never touches the price data.
func (s *QuoteService) attachFundamentals(ctx context.Context, results []models.InstrumentResult) {
	found := make(map[string]*models.Fundamentals)
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, r := range results {
		if !r.CurrentValue.Valid {
			continue
		}
		mu.Lock()
		_, queued := found[r.Symbol]
		if !queued {
			found[r.Symbol] = &models.Fundamentals{}
		}
		mu.Unlock()
		if queued {
			continue
		}
		g.Go(func() error {
			f, err := s.fundamentals.GetFundamentals(gCtx, r.Symbol)
			if err != nil {
				log.Warnf("fundamentals for %s: %v", r.Symbol, err)
				AddWarning(ctx, models.Warning{
					Code:    models.WarnFundamentals,
					Message: fmt.Sprintf("%s: %v", r.Symbol, err),
				})
				return nil
			}
			mu.Lock()
			found[r.Symbol] = f
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range results {
		if f, ok := found[results[i].Symbol]; ok {
			results[i].Fundamentals = f
		}
	}
}

// uniqueSymbols returns the distinct symbols in first-seen order
func uniqueSymbols(ctx context.Context, instruments []models.Instrument) []string {
	seen := make(map[string]bool, len(instruments))
	symbols := make([]string, 0, len(instruments))
	for _, inst := range instruments {
		if seen[inst.Symbol] {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnDuplicateSymbols,
				Message: fmt.Sprintf("%s requested more than once", inst.Symbol),
			})
			continue
		}
		seen[inst.Symbol] = true
		symbols = append(symbols, inst.Symbol)
	}
	return symbols
}

// Warm fetches every configured set once so later requests hit the caches
func (s *QuoteService) Warm(ctx context.Context) error {
	defer TrackTime("Warm", time.Now())
	var errs []error
	for _, set := range s.sets {
		if _, err := s.GetQuotes(ctx, set.Instruments, nil, OptionsForSet(set)); err != nil {
			errs = append(errs, fmt.Errorf("warming %s: %w", set.Name, err))
		}
	}
	return errors.Join(errs...)
}
