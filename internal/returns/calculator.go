package returns

import (
	"fmt"
	"math"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/util"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Options controls presentation rounding and batch fan-out
type Options struct {
	ValuePlaces  int32 // decimal places kept on the current value (2-4)
	ReturnPlaces int32 // decimal places kept on every percentage
	Parallelism  int   // max concurrent instruments in ComputeBatch, <= 0 means unbounded
}

// DefaultOptions matches the index overview: values at 4 places, returns at 2.
func DefaultOptions() Options {
	return Options{ValuePlaces: 4, ReturnPlaces: 2, Parallelism: 8}
}

// Calculator computes current values and period returns. It holds no state
// besides its options and is safe for concurrent use.
type Calculator struct {
	opts Options
}

// NewCalculator creates a Calculator, clamping ValuePlaces into [2, 4].
func NewCalculator(opts Options) *Calculator {
	if opts.ValuePlaces < 2 {
		opts.ValuePlaces = 2
	}
	if opts.ValuePlaces > 4 {
		opts.ValuePlaces = 4
	}
	if opts.ReturnPlaces <= 0 {
		opts.ReturnPlaces = 2
	}
	return &Calculator{opts: opts}
}

// Calculate produces the result record for one instrument. It never panics:
// an unexpected failure nulls every numeric field and sets a diagnostic.
// Empty and one-point series are expected and yield silent nulls.
func (c *Calculator) Calculate(inst models.Instrument, series models.PriceSeries, asOf time.Time) (res models.InstrumentResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("computing returns for %s panicked: %v", inst.Symbol, r)
			res = Unavailable(inst, fmt.Sprintf("internal: %v", r))
		}
	}()

	res = Unavailable(inst, "")
	last, ok := series.Last()
	if !ok {
		return res
	}

	res.CurrentValue = round(null.FloatFrom(last.Close), c.opts.ValuePlaces)
	for _, p := range models.Periods {
		res.Returns[p] = round(PeriodReturn(series, p, asOf), c.opts.ReturnPlaces)
	}
	return res
}

// Unavailable returns a result with every numeric field null.
func Unavailable(inst models.Instrument, diagnostic string) models.InstrumentResult {
	res := models.InstrumentResult{
		Label:   inst.Label,
		Symbol:  inst.Symbol,
		Returns: make(map[models.Period]null.Float, len(models.Periods)),
		Error:   diagnostic,
	}
	for _, p := range models.Periods {
		res.Returns[p] = null.Float{}
	}
	return res
}

// PeriodReturn returns the unrounded percentage return of the last close
// against the period's base value.
func PeriodReturn(series models.PriceSeries, p models.Period, asOf time.Time) null.Float {
	last, ok := series.Last()
	if !ok {
		return null.Float{}
	}
	cur := null.FloatFrom(last.Close)

	if p == models.PeriodDay {
		if series.Len() < 2 {
			return null.Float{}
		}
		return PercentChange(cur, null.FloatFrom(series[series.Len()-2].Close))
	}

	anchor, ok := p.AnchorDate(util.DateOf(asOf))
	if !ok {
		return null.Float{}
	}
	return PercentChange(cur, AnchoredBase(series, anchor))
}

// PercentChange computes (cur-base)/base*100. A null input or a zero base
// yields null rather than an infinite or NaN value.
func PercentChange(cur, base null.Float) null.Float {
	if !cur.Valid || !base.Valid || base.Float64 == 0 {
		return null.Float{}
	}
	v := (cur.Float64 - base.Float64) / base.Float64 * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

func round(v null.Float, places int32) null.Float {
	if !v.Valid {
		return v
	}
	f, _ := decimal.NewFromFloat(v.Float64).Round(places).Float64()
	return null.FloatFrom(f)
}
