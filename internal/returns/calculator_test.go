package returns

import (
	"testing"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spx = models.Instrument{Label: "S&P 500", Symbol: "^GSPC"}

func TestPeriodReturn_DayUsesLastTwoPoints(t *testing.T) {
	series := models.PriceSeries{
		{Date: day(2025, 1, 2), Close: 100},
		{Date: day(2025, 1, 10), Close: 95},
		{Date: day(2025, 2, 3), Close: 97.5},
		{Date: day(2025, 2, 4), Close: 99.1},
	}
	cur, prev := 99.1, 97.5
	expected := (cur - prev) / prev * 100

	got := PeriodReturn(series, models.PeriodDay, day(2025, 2, 4))

	require.True(t, got.Valid)
	assert.Equal(t, expected, got.Float64)
}

func TestPeriodReturn_DayNeedsTwoPoints(t *testing.T) {
	series := models.PriceSeries{{Date: day(2025, 1, 2), Close: 100}}

	assert.False(t, PeriodReturn(series, models.PeriodDay, day(2025, 1, 2)).Valid)
}

func TestCalculate_EmptySeries(t *testing.T) {
	calc := NewCalculator(DefaultOptions())

	var res models.InstrumentResult
	assert.NotPanics(t, func() {
		res = calc.Calculate(spx, models.PriceSeries{}, day(2025, 1, 5))
	})

	assert.False(t, res.CurrentValue.Valid)
	for _, p := range models.Periods {
		assert.False(t, res.Return(p).Valid, p.String())
	}
	assert.Empty(t, res.Error)
	assert.Equal(t, "S&P 500", res.Label)
	assert.Equal(t, "^GSPC", res.Symbol)
}

func TestAnchoredBase_TimezoneIdempotent(t *testing.T) {
	est := time.FixedZone("UTC-5", -5*3600)
	dates := []time.Time{day(2024, 12, 30), day(2024, 12, 31), day(2025, 1, 2), day(2025, 1, 3)}
	closes := []null.Float{null.FloatFrom(98), null.FloatFrom(99), null.FloatFrom(101), null.FloatFrom(102)}

	zoned := make([]time.Time, len(dates))
	for i, d := range dates {
		zoned[i] = time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, est)
	}

	naive, err := Normalize(closeFrame(dates, closes...))
	require.NoError(t, err)
	aware, err := Normalize(closeFrame(zoned, closes...))
	require.NoError(t, err)

	for _, anchor := range []time.Time{day(2024, 12, 1), day(2024, 12, 31), day(2025, 1, 1), day(2025, 1, 3)} {
		assert.Equal(t, AnchoredBase(naive, anchor), AnchoredBase(aware, anchor), anchor.String())
	}
}

func TestAnchoredBase_BeforeFirstDateFallsBackToFirstClose(t *testing.T) {
	series := models.PriceSeries{
		{Date: day(2025, 3, 10), Close: 50},
		{Date: day(2025, 3, 20), Close: 60},
	}

	assert.Equal(t, null.FloatFrom(50), AnchoredBase(series, day(2025, 3, 1)))
	assert.Equal(t, null.FloatFrom(50), AnchoredBase(series, day(2025, 1, 1)))

	calc := NewCalculator(DefaultOptions())
	res := calc.Calculate(spx, series, day(2025, 3, 20))
	assert.Equal(t, null.FloatFrom(20), res.Return(models.PeriodMonthToDate))
	assert.Equal(t, null.FloatFrom(20), res.Return(models.PeriodYearToDate))
}

func TestAnchoredBase_ForwardFillsGaps(t *testing.T) {
	series := models.PriceSeries{
		{Date: day(2025, 1, 1), Close: 100},
		{Date: day(2025, 1, 3), Close: 103},
	}

	assert.Equal(t, null.FloatFrom(100), AnchoredBase(series, day(2025, 1, 2)))
	assert.Equal(t, null.FloatFrom(103), AnchoredBase(series, day(2025, 1, 3)))
	assert.Equal(t, null.FloatFrom(103), AnchoredBase(series, day(2025, 2, 1)), "anchor after last date carries the last close")
	assert.False(t, AnchoredBase(models.PriceSeries{}, day(2025, 1, 2)).Valid)
}

func TestForwardFill(t *testing.T) {
	series := models.PriceSeries{
		{Date: day(2025, 1, 3), Close: 10},
		{Date: day(2025, 1, 6), Close: 11},
		{Date: day(2025, 1, 7), Close: 12},
	}

	filled := ForwardFill(series)

	assert.Equal(t, models.PriceSeries{
		{Date: day(2025, 1, 3), Close: 10},
		{Date: day(2025, 1, 4), Close: 10},
		{Date: day(2025, 1, 5), Close: 10},
		{Date: day(2025, 1, 6), Close: 11},
		{Date: day(2025, 1, 7), Close: 12},
	}, filled)
	assert.Empty(t, ForwardFill(nil))
}

func TestPercentChange_ZeroBase(t *testing.T) {
	assert.False(t, PercentChange(null.FloatFrom(5), null.FloatFrom(0)).Valid)
	assert.False(t, PercentChange(null.FloatFrom(5), null.Float{}).Valid)
	assert.False(t, PercentChange(null.Float{}, null.FloatFrom(5)).Valid)

	series := models.PriceSeries{
		{Date: day(2025, 1, 2), Close: 0},
		{Date: day(2025, 1, 3), Close: 5},
	}
	res := NewCalculator(DefaultOptions()).Calculate(spx, series, day(2025, 1, 3))
	assert.False(t, res.Return(models.PeriodDay).Valid)
	assert.False(t, res.Return(models.PeriodYearToDate).Valid)
	assert.Equal(t, null.FloatFrom(5), res.CurrentValue)
}

func TestCalculate_YearBoundary(t *testing.T) {
	series := models.PriceSeries{
		{Date: day(2024, 12, 31), Close: 90},
		{Date: day(2025, 1, 1), Close: 100},
		{Date: day(2025, 1, 5), Close: 110},
	}

	res := NewCalculator(DefaultOptions()).Calculate(spx, series, day(2025, 1, 5))

	assert.Equal(t, null.FloatFrom(110), res.CurrentValue)
	assert.Equal(t, null.FloatFrom(10), res.Return(models.PeriodDay))
	assert.Equal(t, null.FloatFrom(10), res.Return(models.PeriodMonthToDate))
	assert.Equal(t, null.FloatFrom(10), res.Return(models.PeriodYearToDate))
	assert.Empty(t, res.Error)
}

func TestCalculate_Rounding(t *testing.T) {
	series := models.PriceSeries{
		{Date: day(2025, 5, 30), Close: 3},
		{Date: day(2025, 6, 2), Close: 123.456789},
	}

	four := NewCalculator(DefaultOptions()).Calculate(spx, series, day(2025, 6, 2))
	assert.Equal(t, null.FloatFrom(123.4568), four.CurrentValue)
	assert.Equal(t, null.FloatFrom(4015.23), four.Return(models.PeriodDay))

	two := NewCalculator(Options{ValuePlaces: 2, ReturnPlaces: 2}).Calculate(spx, series, day(2025, 6, 2))
	assert.Equal(t, null.FloatFrom(123.46), two.CurrentValue)

	again := NewCalculator(DefaultOptions()).Calculate(spx, series, day(2025, 6, 2))
	assert.Equal(t, four, again)
}

func TestNewCalculator_ClampsValuePlaces(t *testing.T) {
	assert.Equal(t, int32(2), NewCalculator(Options{ValuePlaces: 0}).opts.ValuePlaces)
	assert.Equal(t, int32(4), NewCalculator(Options{ValuePlaces: 9}).opts.ValuePlaces)
	assert.Equal(t, int32(2), NewCalculator(Options{}).opts.ReturnPlaces)
}
