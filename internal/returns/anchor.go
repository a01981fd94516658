package returns

import (
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/util"
	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"
)

// ForwardFill expands s onto a continuous daily calendar from its first to
// its last date, carrying the last known close over days with no observation.
func ForwardFill(s models.PriceSeries) models.PriceSeries {
	first, ok := s.First()
	if !ok {
		return models.PriceSeries{}
	}
	last, _ := s.Last()

	days := util.DaysBetween(first.Date, last.Date)
	filled := make(models.PriceSeries, 0, days+1)
	j := 0
	for i := 0; i <= days; i++ {
		d := first.Date.AddDate(0, 0, i)
		for j+1 < len(s) && !s[j+1].Date.After(d) {
			j++
		}
		filled = append(filled, models.PricePoint{Date: d, Close: s[j].Close})
	}
	return filled
}

// AnchoredBase returns the close in effect on calendar date ts.
//
// An anchor before the first observation takes the first close, since there is
// no earlier price. An anchor after the last observation takes the last close.
// If the lookup fails unexpectedly the first close is used as a best effort.
// The result is null only for an empty series.
func AnchoredBase(s models.PriceSeries, ts time.Time) (base null.Float) {
	first, ok := s.First()
	if !ok {
		return null.Float{}
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("anchored base at %s failed: %v, using first close", ts.Format(util.DateLayout), r)
			base = null.FloatFrom(first.Close)
		}
	}()

	ts = util.DateOf(ts)
	if ts.Before(first.Date) {
		return null.FloatFrom(first.Close)
	}

	filled := ForwardFill(s)
	idx := util.DaysBetween(first.Date, ts)
	if idx >= len(filled) {
		idx = len(filled) - 1
	}
	return null.FloatFrom(filled[idx].Close)
}
