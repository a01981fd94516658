package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/repository"
	"github.com/epeers/marketpulse/internal/util"
	"github.com/guregu/null/v6"
)

type fakeProvider struct {
	mu       sync.Mutex
	frames   map[string]models.RawFrame
	failures map[string]error
	err      error
	calls    [][]string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchDaily(ctx context.Context, symbols []string, start, end time.Time) (*models.FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), symbols...))
	if f.err != nil {
		return nil, f.err
	}
	res := models.NewFetchResult()
	for _, sym := range symbols {
		if err, ok := f.failures[sym]; ok {
			res.Failures[sym] = err
			continue
		}
		if frame, ok := f.frames[sym]; ok {
			res.Table[sym] = frame
		}
	}
	return res, nil
}

type fakeFundamentals struct {
	data map[string]*models.Fundamentals
	hits int
	mu   sync.Mutex
}

func (f *fakeFundamentals) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	if d, ok := f.data[symbol]; ok {
		return d, nil
	}
	return nil, errors.New("not found")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// closes builds a frame with one timestamp per (date, close) pair
func closes(points map[time.Time]float64) models.RawFrame {
	frame := models.RawFrame{Columns: map[string][]null.Float{models.ColumnClose: {}}}
	for ts, c := range points {
		frame.Timestamps = append(frame.Timestamps, ts)
		frame.Columns[models.ColumnClose] = append(frame.Columns[models.ColumnClose], null.FloatFrom(c))
	}
	return frame
}

// memStore is an in-memory PriceStore
type memStore struct {
	mu     sync.Mutex
	closes map[string]map[time.Time]float64
	ranges map[string]repository.PriceRange
}

func newMemStore() *memStore {
	return &memStore{
		closes: make(map[string]map[time.Time]float64),
		ranges: make(map[string]repository.PriceRange),
	}
}

func (m *memStore) GetPriceRange(ctx context.Context, provider, symbol string) (*repository.PriceRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.ranges[provider+"|"+symbol]
	if !ok {
		return nil, nil
	}
	return &pr, nil
}

func (m *memStore) GetDailyCloses(ctx context.Context, provider, symbol string, startDate, endDate time.Time) (models.RawFrame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var dates []time.Time
	for d := range m.closes[provider+"|"+symbol] {
		if !d.Before(util.UTCDate(startDate)) && !d.After(util.UTCDate(endDate)) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	frame := models.RawFrame{Columns: map[string][]null.Float{models.ColumnClose: {}}}
	for _, d := range dates {
		frame.Timestamps = append(frame.Timestamps, d)
		frame.Columns[models.ColumnClose] = append(frame.Columns[models.ColumnClose], null.FloatFrom(m.closes[provider+"|"+symbol][d]))
	}
	return frame, nil
}

func (m *memStore) StoreDailyCloses(ctx context.Context, provider, symbol string, frame models.RawFrame) (minDate, maxDate time.Time, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := provider + "|" + symbol
	if m.closes[key] == nil {
		m.closes[key] = make(map[time.Time]float64)
	}
	for i, ts := range frame.Timestamps {
		c := frame.Columns[models.ColumnClose][i]
		if !c.Valid {
			continue
		}
		d := util.UTCDate(ts)
		m.closes[key][d] = c.Float64
		if minDate.IsZero() || d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}
	return minDate, maxDate, nil
}

func (m *memStore) SavePriceRange(ctx context.Context, pr repository.PriceRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ranges[pr.Provider+"|"+pr.Symbol] = pr
	return nil
}

// weekdayProvider serves one close per weekday in the requested window,
// never past its own notion of today
type weekdayProvider struct {
	mu      sync.Mutex
	today   time.Time
	windows [][2]time.Time
}

func (w *weekdayProvider) Name() string { return "weekday" }

func (w *weekdayProvider) FetchDaily(ctx context.Context, symbols []string, start, end time.Time) (*models.FetchResult, error) {
	w.mu.Lock()
	w.windows = append(w.windows, [2]time.Time{start, end})
	w.mu.Unlock()

	frame := models.RawFrame{Columns: map[string][]null.Float{models.ColumnClose: {}}}
	for d := util.UTCDate(start); !d.After(end) && !d.After(w.today); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		frame.Timestamps = append(frame.Timestamps, d)
		frame.Columns[models.ColumnClose] = append(frame.Columns[models.ColumnClose], null.FloatFrom(float64(d.Year()*1000+d.YearDay())))
	}
	res := models.NewFetchResult()
	for _, sym := range symbols {
		res.Table[sym] = frame
	}
	return res, nil
}

func (w *weekdayProvider) calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.windows)
}
