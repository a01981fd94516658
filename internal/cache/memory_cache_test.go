package cache

import (
	"testing"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_FrameTTL(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	clock := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	frame := models.RawFrame{
		Timestamps: []time.Time{start},
		Columns:    map[string][]null.Float{models.ColumnClose: {null.FloatFrom(100)}},
	}
	c.SetFrame("yahoo", "^GSPC", start, end, frame)

	got, ok := c.GetFrame("yahoo", "^GSPC", start, end)
	assert.True(t, ok)
	assert.Equal(t, frame, got)

	_, ok = c.GetFrame("alphavantage", "^GSPC", start, end)
	assert.False(t, ok, "keys are per provider")

	clock = clock.Add(2 * time.Minute)
	_, ok = c.GetFrame("yahoo", "^GSPC", start, end)
	assert.False(t, ok, "expired")
	assert.Equal(t, 1, c.Prune())
}

func TestMemoryCache_Fundamentals(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	clock := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	f := &models.Fundamentals{Currency: null.StringFrom("USD"), PE: null.FloatFrom(30)}
	c.SetFundamentals("AAPL", f)

	clock = clock.Add(5 * time.Minute)
	got, ok := c.GetFundamentals("AAPL")
	assert.True(t, ok, "fundamentals outlive frames")
	assert.Equal(t, f, got)

	c.Clear()
	_, ok = c.GetFundamentals("AAPL")
	assert.False(t, ok)
}

func TestMemoryCache_DisabledWithZeroTTL(t *testing.T) {
	c := NewMemoryCache(0)
	day := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	c.SetFrame("yahoo", "X", day, day, models.RawFrame{})

	_, ok := c.GetFrame("yahoo", "X", day, day)
	assert.False(t, ok)
}
