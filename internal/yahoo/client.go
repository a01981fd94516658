package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/epeers/marketpulse/internal/models"
	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Yahoo Finance serves the same chart API from two hosts; we rotate between
// them on retry.
var defaultBaseURLs = []string{
	"https://query1.finance.yahoo.com",
	"https://query2.finance.yahoo.com",
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// ErrNotFound is returned when Yahoo does not know the symbol
var ErrNotFound = errors.New("symbol not found")

// Client is an HTTP client for the Yahoo Finance chart API
type Client struct {
	baseURLs    []string
	httpClient  *http.Client
	maxTries    uint
	retryDelay  time.Duration
	parallelism int
}

// NewClient creates a new Yahoo client
func NewClient(parallelism int) *Client {
	return NewClientWithBaseURL(parallelism, defaultBaseURLs...)
}

// NewClientWithBaseURL creates a new Yahoo client with custom base URLs (for testing)
func NewClientWithBaseURL(parallelism int, baseURLs ...string) *Client {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &Client{
		baseURLs: baseURLs,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxTries:    4,
		retryDelay:  200 * time.Millisecond,
		parallelism: parallelism,
	}
}

// Name identifies the provider in logs and cache keys
func (c *Client) Name() string { return "yahoo" }

// FetchDaily fetches daily history for every symbol concurrently. Per-symbol
// failures are reported in the result; the error is non-nil only when the
// context is done.
func (c *Client) FetchDaily(ctx context.Context, symbols []string, start, end time.Time) (*models.FetchResult, error) {
	result := models.NewFetchResult()
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for _, sym := range symbols {
		g.Go(func() error {
			frame, err := c.GetDailyHistory(gCtx, sym, start, end)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnf("yahoo: fetching %s failed: %v", sym, err)
				result.Failures[sym] = err
				return nil
			}
			result.Table[sym] = frame
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("yahoo fetch cancelled: %w", err)
	}
	return result, nil
}

// GetDailyHistory fetches daily bars for one symbol between start and end.
// The Close column carries adjusted closes when Yahoo supplies them.
func (c *Client) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (models.RawFrame, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "div,splits")
	params.Set("includeAdjustedClose", "true")
	path := "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + params.Encode()

	attempt := 0
	operation := func() (*chartResponse, error) {
		base := c.baseURLs[attempt%len(c.baseURLs)]
		attempt++
		return c.doRequest(ctx, base+path)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay
	policy.MaxInterval = c.retryDelay * 10

	notify := func(err error, d time.Duration) {
		log.Debugf("yahoo: retrying %s in %s after: %v", symbol, d, err)
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(notify))
	if err != nil {
		return models.RawFrame{}, err
	}

	return frameFromChart(resp), nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests"):
		return nil, fmt.Errorf("yahoo returned 429: %s", preview(body))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("yahoo returned %d: %s", resp.StatusCode, preview(body))
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, chartErrorText(body)))
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("yahoo returned %d: %s", resp.StatusCode, preview(body)))
	}

	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if chart.Chart.Error != nil {
		return nil, backoff.Permanent(fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description))
	}
	return &chart, nil
}

// frameFromChart keeps the arrays exactly as Yahoo sent them; alignment and
// null handling are left to the normalizer.
func frameFromChart(chart *chartResponse) models.RawFrame {
	if len(chart.Chart.Result) == 0 {
		return models.RawFrame{}
	}
	result := chart.Chart.Result[0]

	frame := models.RawFrame{
		Timestamps: make([]time.Time, len(result.Timestamp)),
		Columns:    make(map[string][]null.Float),
	}
	for i, ts := range result.Timestamp {
		frame.Timestamps[i] = time.Unix(ts, 0).UTC()
	}

	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		frame.Columns[models.ColumnOpen] = q.Open
		frame.Columns[models.ColumnHigh] = q.High
		frame.Columns[models.ColumnLow] = q.Low
		frame.Columns[models.ColumnVolume] = q.Volume
		if q.Close != nil {
			frame.Columns[models.ColumnClose] = q.Close
		}
	}
	if len(result.Indicators.AdjClose) > 0 {
		adj := result.Indicators.AdjClose[0].AdjClose
		if len(adj) == len(result.Timestamp) && len(adj) > 0 {
			frame.Columns[models.ColumnClose] = adj
		}
	}
	return frame
}

func chartErrorText(body []byte) string {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err == nil && chart.Chart.Error != nil {
		return chart.Chart.Error.Description
	}
	return preview(body)
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
