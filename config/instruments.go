package config

import (
	"fmt"
	"os"

	"github.com/epeers/marketpulse/internal/models"
	"gopkg.in/yaml.v3"
)

// Names of the built-in instrument sets
const (
	SetIndices   = "indices"
	SetWatchlist = "watchlist"
)

type instrumentsFile struct {
	Sets []models.InstrumentSet `yaml:"sets"`
}

// DefaultSets returns the market overview and the stock watchlist
func DefaultSets() []models.InstrumentSet {
	return []models.InstrumentSet{
		{
			Name: SetIndices,
			Instruments: []models.Instrument{
				{Label: "S&P 500", Symbol: "^GSPC"},
				{Label: "DAX", Symbol: "^GDAXI"},
				{Label: "WTI Oil", Symbol: "CL=F"},
				{Label: "Gold", Symbol: "GC=F"},
				{Label: "Bitcoin", Symbol: "BTC-USD"},
				{Label: "VIX", Symbol: "^VIX"},
			},
			ValuePlaces: 4,
		},
		{
			Name: SetWatchlist,
			Instruments: []models.Instrument{
				{Label: "Apple", Symbol: "AAPL"},
				{Label: "Microsoft", Symbol: "MSFT"},
				{Label: "NVIDIA", Symbol: "NVDA"},
				{Label: "Amazon", Symbol: "AMZN"},
				{Label: "Alphabet (Class A)", Symbol: "GOOGL"},
				{Label: "Meta", Symbol: "META"},
				{Label: "Tesla", Symbol: "TSLA"},
				{Label: "Auto1 Group", Symbol: "AG1.DE"},
				{Label: "Airbus", Symbol: "AIR.PA"},
			},
			Fundamentals: true,
			ValuePlaces:  2,
			FlagTooShort: true,
		},
	}
}

// LoadInstrumentSets reads instrument sets from a YAML file of the form
//
//	sets:
//	  - name: indices
//	    instruments:
//	      - {label: "S&P 500", symbol: "^GSPC"}
func LoadInstrumentSets(path string) ([]models.InstrumentSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instruments file: %w", err)
	}

	var f instrumentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse instruments file: %w", err)
	}
	if err := validateSets(f.Sets); err != nil {
		return nil, fmt.Errorf("invalid instruments file %s: %w", path, err)
	}
	return f.Sets, nil
}

func validateSets(sets []models.InstrumentSet) error {
	if len(sets) == 0 {
		return fmt.Errorf("no sets defined")
	}
	seen := make(map[string]bool, len(sets))
	for _, s := range sets {
		if s.Name == "" {
			return fmt.Errorf("set without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate set %q", s.Name)
		}
		seen[s.Name] = true
		if len(s.Instruments) == 0 {
			return fmt.Errorf("set %q has no instruments", s.Name)
		}
		for i, inst := range s.Instruments {
			if inst.Label == "" || inst.Symbol == "" {
				return fmt.Errorf("set %q instrument %d needs both label and symbol", s.Name, i)
			}
		}
	}
	return nil
}
