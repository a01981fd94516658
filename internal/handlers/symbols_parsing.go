package handlers

import (
	"fmt"
	"strings"

	"github.com/epeers/marketpulse/internal/models"
)

// maxSymbols bounds one ad-hoc request
const maxSymbols = 50

// ParseSymbolList parses a comma separated list of instruments. Each entry is
// either SYMBOL (the symbol doubles as label) or Label:SYMBOL. Symbols are upper-cased.
// Empty entries are skipped.
func ParseSymbolList(raw string) ([]models.Instrument, error) {
	var instruments []models.Instrument
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		label, symbol := "", entry
		if i := strings.LastIndex(entry, ":"); i >= 0 {
			label = strings.TrimSpace(entry[:i])
			symbol = strings.TrimSpace(entry[i+1:])
		}
		symbol = strings.ToUpper(symbol)
		if symbol == "" {
			return nil, fmt.Errorf("entry %q has no symbol", entry)
		}
		if label == "" {
			label = symbol
		}
		instruments = append(instruments, models.Instrument{Label: label, Symbol: symbol})
	}

	if len(instruments) == 0 {
		return nil, fmt.Errorf("no symbols given")
	}
	if len(instruments) > maxSymbols {
		return nil, fmt.Errorf("too many symbols: %d (max %d)", len(instruments), maxSymbols)
	}
	return instruments, nil
}
