package returns

import (
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"golang.org/x/sync/errgroup"
)

// Input is one instrument's normalized data ready for calculation.
// A non-empty Diagnostic short-circuits to an unavailable result.
type Input struct {
	Instrument models.Instrument
	Series     models.PriceSeries
	Diagnostic string
}

// ComputeBatch calculates every input concurrently. Results keep input order;
// no instrument can affect another's result.
func (c *Calculator) ComputeBatch(inputs []Input, asOf time.Time) []models.InstrumentResult {
	results := make([]models.InstrumentResult, len(inputs))

	var g errgroup.Group
	if c.opts.Parallelism > 0 {
		g.SetLimit(c.opts.Parallelism)
	}
	for i, in := range inputs {
		g.Go(func() error {
			if in.Diagnostic != "" {
				results[i] = Unavailable(in.Instrument, in.Diagnostic)
				return nil
			}
			results[i] = c.Calculate(in.Instrument, in.Series, asOf)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// BuildInputs pairs each instrument with its normalized series, in order.
func BuildInputs(instruments []models.Instrument, normalized map[string]Normalized) []Input {
	inputs := make([]Input, len(instruments))
	for i, inst := range instruments {
		n := normalized[inst.Symbol]
		inputs[i] = Input{Instrument: inst, Series: n.Series, Diagnostic: n.Diagnostic}
	}
	return inputs
}
