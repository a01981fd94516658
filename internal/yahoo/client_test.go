package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/guregu/null/v6"
	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "^GDAXI", "currency": "EUR", "exchangeTimezoneName": "Europe/Berlin", "gmtoffset": 3600},
      "timestamp": [1735804800, 1735891200, 1736150400],
      "indicators": {
        "quote": [{
          "open":   [19900.1, null, 20100.0],
          "high":   [20000.0, null, 20200.0],
          "low":    [19800.0, null, 20000.0],
          "close":  [19950.5, null, 20150.0],
          "volume": [1000, null, 1200]
        }],
        "adjclose": [{"adjclose": [19950.5, null, 20150.0]}]
      }
    }],
    "error": null
  }
}`

func newTestClient(urls ...string) *Client {
	c := NewClientWithBaseURL(2, urls...)
	c.retryDelay = time.Millisecond
	return c
}

func TestGetDailyHistory_ParsesChart(t *testing.T) {
	var gotPath, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	frame, err := newTestClient(srv.URL).GetDailyHistory(context.Background(), "^GDAXI",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GDAXI", gotPath)
	assert.Equal(t, "1d", gotInterval)
	require.Len(t, frame.Timestamps, 3)
	assert.Equal(t, time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC), frame.Timestamps[0])

	closes := frame.Columns[models.ColumnClose]
	require.Len(t, closes, 3)
	assert.Equal(t, 19950.5, closes[0].Float64)
	assert.False(t, closes[1].Valid)
}

func TestGetDailyHistory_RetriesAndRotatesHosts(t *testing.T) {
	var busyHits int32
	busy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&busyHits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("Edge: Too Many Requests"))
	}))
	defer busy.Close()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody))
	}))
	defer ok.Close()

	frame, err := newTestClient(busy.URL, ok.URL).GetDailyHistory(context.Background(), "^GDAXI", time.Now().AddDate(-1, 0, 0), time.Now())

	require.NoError(t, err)
	assert.Len(t, frame.Timestamps, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&busyHits))
}

func TestGetDailyHistory_NotFoundIsPermanent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetDailyHistory(context.Background(), "NOPE", time.Now().AddDate(-1, 0, 0), time.Now())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "delisted")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetDailyHistory_MissingQuoteArrayHasNoClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1735804800],"indicators":{"quote":[]}}],"error":null}}`))
	}))
	defer srv.Close()

	frame, err := newTestClient(srv.URL).GetDailyHistory(context.Background(), "X", time.Now().AddDate(-1, 0, 0), time.Now())

	require.NoError(t, err)
	assert.Len(t, frame.Timestamps, 1)
	_, hasClose := frame.Columns[models.ColumnClose]
	assert.False(t, hasClose)
}

func TestFetchDaily_ReportsPerSymbolFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "BROKEN") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).FetchDaily(context.Background(), []string{"^GDAXI", "BROKEN", "^GSPC"}, time.Now().AddDate(-1, 0, 0), time.Now())

	require.NoError(t, err)
	assert.Len(t, res.Table, 2)
	assert.Contains(t, res.Failures, "BROKEN")
	assert.True(t, res.HasData())
}

func TestFetchDaily_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient("http://127.0.0.1:1").FetchDaily(ctx, []string{"^GSPC"}, time.Now().AddDate(-1, 0, 0), time.Now())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFundamentals(t *testing.T) {
	client := &FundamentalsClient{get: func(symbol string) (*finance.Equity, error) {
		switch symbol {
		case "AAPL":
			eq := &finance.Equity{MarketCap: 3_000_000_000_000, TrailingPE: 31.5}
			eq.CurrencyID = "USD"
			eq.AverageDailyVolume10Day = 55_000_000
			return eq, nil
		case "^GSPC":
			return nil, nil
		default:
			return nil, errors.New("boom")
		}
	}}

	f, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("USD"), f.Currency)
	assert.Equal(t, 3e12, f.MarketCap.Float64)
	assert.Equal(t, 31.5, f.PE.Float64)
	assert.Equal(t, 55e6, f.Volume.Float64, "falls back to the 10 day average volume")

	_, err = client.GetFundamentals(context.Background(), "^GSPC")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetFundamentals(context.Background(), "ERR")
	assert.Error(t, err)
}
