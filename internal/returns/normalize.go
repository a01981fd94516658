package returns

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/util"
	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoCloseColumn is returned when a non-empty frame has no Close column
	ErrNoCloseColumn = errors.New("no_close_column")
	// ErrRaggedFrame is returned when the Close column is not aligned with the timestamps
	ErrRaggedFrame = errors.New("ragged_frame")
)

// Normalized is the normalizer output for one symbol. Diagnostic is set only
// when the raw frame was malformed; Series is empty in that case.
type Normalized struct {
	Series     models.PriceSeries
	Diagnostic string
}

// Normalize converts one raw frame into a PriceSeries: unusable closes are
// dropped, timestamps collapse to their UTC calendar date, and the result is
// sorted ascending with the latest-seen sample winning on duplicate dates.
// A frame with no samples yields an empty series and no error.
func Normalize(frame models.RawFrame) (models.PriceSeries, error) {
	closes, ok := frame.Columns[models.ColumnClose]
	if !ok {
		if frame.Empty() {
			return models.PriceSeries{}, nil
		}
		return models.PriceSeries{}, ErrNoCloseColumn
	}
	if len(closes) != len(frame.Timestamps) {
		return models.PriceSeries{}, fmt.Errorf("%w: %d timestamps, %d closes", ErrRaggedFrame, len(frame.Timestamps), len(closes))
	}

	byDate := make(map[time.Time]float64, len(closes))
	for i, ts := range frame.Timestamps {
		if !usableClose(closes[i]) {
			continue
		}
		byDate[util.UTCDate(ts)] = closes[i].Float64
	}

	series := make(models.PriceSeries, 0, len(byDate))
	for date, c := range byDate {
		series = append(series, models.PricePoint{Date: date, Close: c})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series, nil
}

// NormalizeTable normalizes every requested symbol independently. A malformed
// frame, or a panic while normalizing it, only affects that symbol's entry.
// Symbols missing from the table normalize to an empty series.
func NormalizeTable(table models.RawTable, symbols []string) map[string]Normalized {
	out := make(map[string]Normalized, len(symbols))
	for _, sym := range symbols {
		if _, done := out[sym]; done {
			continue
		}
		out[sym] = normalizeSymbol(sym, table[sym])
	}
	return out
}

func normalizeSymbol(symbol string, frame models.RawFrame) (n Normalized) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("normalizing %s panicked: %v", symbol, r)
			n = Normalized{Series: models.PriceSeries{}, Diagnostic: fmt.Sprintf("internal: %v", r)}
		}
	}()

	series, err := Normalize(frame)
	if err != nil {
		log.Warnf("normalizing %s: %v", symbol, err)
		return Normalized{Series: models.PriceSeries{}, Diagnostic: err.Error()}
	}
	return Normalized{Series: series}
}

func usableClose(c null.Float) bool {
	if !c.Valid {
		return false
	}
	v := c.Float64
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
