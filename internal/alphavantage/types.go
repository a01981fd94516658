package alphavantage

import "time"

// TimeSeriesDailyResponse represents the AlphaVantage TIME_SERIES_DAILY and
// TIME_SERIES_DAILY_ADJUSTED responses
type TimeSeriesDailyResponse struct {
	MetaData   map[string]string    `json:"Meta Data"`
	TimeSeries map[string]DailyOHLCV `json:"Time Series (Daily)"`

	// AlphaVantage answers 200 with one of these instead of data on errors and throttling
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// DailyOHLCV is one day of the time series; every value is a decimal string.
// The adjusted series moves volume to "6. volume".
type DailyOHLCV struct {
	Open           string `json:"1. open"`
	High           string `json:"2. high"`
	Low            string `json:"3. low"`
	Close          string `json:"4. close"`
	Volume         string `json:"5. volume"`
	AdjustedClose  string `json:"5. adjusted close"`
	AdjustedVolume string `json:"6. volume"`
}

// ParsedPriceData represents parsed price data ready for use.
// Close is nil when AlphaVantage sent a value that does not parse.
type ParsedPriceData struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  *float64
	Volume int64
}
