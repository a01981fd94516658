package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Alphavantage is a Stock and ETF API that fetches data including pricing data
// It is a subscription service, but provides free API access
// https://www.alphavantage.co/documentation/
const defaultBaseURL = "https://www.alphavantage.co/query"

// ErrThrottled is returned when AlphaVantage answers with a rate-limit note
var ErrThrottled = errors.New("alphavantage rate limit reached")

// Client is an HTTP client for the AlphaVantage API
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	outputSize  string
	parallelism int
	adjusted    bool
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a new AlphaVantage client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		outputSize: "full",
		// The free tier allows very few calls per minute
		parallelism: 2,
	}
}

// WithAdjusted switches to TIME_SERIES_DAILY_ADJUSTED, whose closes are
// corrected for splits and dividends. That endpoint needs a premium key.
func (c *Client) WithAdjusted(adjusted bool) *Client {
	c.adjusted = adjusted
	return c
}

// GetDailyPrices fetches daily price data for a symbol.
// By default closes are as traded: a split shows up as a price move. Use
// WithAdjusted when the key allows it.
func (c *Client) GetDailyPrices(ctx context.Context, symbol string) ([]ParsedPriceData, error) {
	function := "TIME_SERIES_DAILY"
	if c.adjusted {
		function = "TIME_SERIES_DAILY_ADJUSTED"
	}
	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	params.Set("outputsize", c.outputSize) // "compact" or "full"
	params.Set("apikey", c.apiKey)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var tsResp TimeSeriesDailyResponse
	if err := json.Unmarshal(body, &tsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	switch {
	case tsResp.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage error for %s: %s", symbol, tsResp.ErrorMessage)
	case tsResp.Note != "":
		return nil, fmt.Errorf("%w: %s", ErrThrottled, tsResp.Note)
	case tsResp.TimeSeries == nil && tsResp.Information != "":
		return nil, fmt.Errorf("%w: %s", ErrThrottled, tsResp.Information)
	}

	prices := make([]ParsedPriceData, 0, len(tsResp.TimeSeries))
	for dateStr, ohlcv := range tsResp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		closeStr, volumeStr := ohlcv.Close, ohlcv.Volume
		if c.adjusted {
			closeStr, volumeStr = ohlcv.AdjustedClose, ohlcv.AdjustedVolume
		}

		open, _ := strconv.ParseFloat(ohlcv.Open, 64)
		high, _ := strconv.ParseFloat(ohlcv.High, 64)
		low, _ := strconv.ParseFloat(ohlcv.Low, 64)
		volume, _ := strconv.ParseInt(volumeStr, 10, 64)

		p := ParsedPriceData{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Volume: volume,
		}
		if closePrice, err := strconv.ParseFloat(closeStr, 64); err == nil {
			p.Close = &closePrice
		}
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	return prices, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
