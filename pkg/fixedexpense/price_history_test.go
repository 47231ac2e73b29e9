package fixedexpense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	day1 = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	day3 = time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
)

func TestSeedHistory(t *testing.T) {
	history := SeedHistory(499, day1)

	assert.Equal(t, []PriceEntry{{Amount: 499, ChangedAt: day1}}, history)
}

func TestApplyAmountChange(t *testing.T) {
	t.Run("appends an entry when the amount changes", func(t *testing.T) {
		history := SeedHistory(499, day1)

		history = ApplyAmountChange(history, 549, day2)

		assert.Equal(t, []PriceEntry{
			{Amount: 499, ChangedAt: day1},
			{Amount: 549, ChangedAt: day2},
		}, history)
	})

	t.Run("is unchanged when the amount equals the last entry", func(t *testing.T) {
		history := SeedHistory(499, day1)

		history = ApplyAmountChange(history, 499, day2)

		assert.Equal(t, []PriceEntry{{Amount: 499, ChangedAt: day1}}, history)
	})

	t.Run("repeated no-op writes never accumulate entries", func(t *testing.T) {
		history := SeedHistory(499, day1)

		for i := 0; i < 5; i++ {
			history = ApplyAmountChange(history, 549, day2)
		}

		assert.Len(t, history, 2)
	})
}

func TestResetHistory(t *testing.T) {
	history := ResetHistory(549, day3)

	assert.Equal(t, []PriceEntry{{Amount: 549, ChangedAt: day3}}, history)
}

func TestNormalizeHistory(t *testing.T) {
	t.Run("drops entries without a timestamp", func(t *testing.T) {
		entries := []PriceEntry{
			{Amount: 100, ChangedAt: time.Time{}},
			{Amount: 200, ChangedAt: day1},
		}

		normalized := NormalizeHistory(entries, 200, day3)

		assert.Equal(t, []PriceEntry{{Amount: 200, ChangedAt: day1}}, normalized)
	})

	t.Run("sorts chronologically", func(t *testing.T) {
		entries := []PriceEntry{
			{Amount: 300, ChangedAt: day3},
			{Amount: 100, ChangedAt: day1},
			{Amount: 200, ChangedAt: day2},
		}

		normalized := NormalizeHistory(entries, 300, day3)

		assert.Equal(t, []PriceEntry{
			{Amount: 100, ChangedAt: day1},
			{Amount: 200, ChangedAt: day2},
			{Amount: 300, ChangedAt: day3},
		}, normalized)
	})

	t.Run("collapses consecutive equal amounts", func(t *testing.T) {
		entries := []PriceEntry{
			{Amount: 100, ChangedAt: day1},
			{Amount: 100, ChangedAt: day2},
			{Amount: 200, ChangedAt: day3},
		}

		normalized := NormalizeHistory(entries, 200, day3)

		assert.Equal(t, []PriceEntry{
			{Amount: 100, ChangedAt: day1},
			{Amount: 200, ChangedAt: day3},
		}, normalized)
	})

	t.Run("appends a synthetic entry when the last amount disagrees", func(t *testing.T) {
		entries := []PriceEntry{{Amount: 100, ChangedAt: day1}}

		normalized := NormalizeHistory(entries, 150, day2)

		assert.Equal(t, []PriceEntry{
			{Amount: 100, ChangedAt: day1},
			{Amount: 150, ChangedAt: day2},
		}, normalized)
	})

	t.Run("seeds from the declared amount when everything is dropped", func(t *testing.T) {
		entries := []PriceEntry{{Amount: 100, ChangedAt: time.Time{}}}

		normalized := NormalizeHistory(entries, 150, day2)

		assert.Equal(t, []PriceEntry{{Amount: 150, ChangedAt: day2}}, normalized)
	})

	t.Run("never returns an empty history", func(t *testing.T) {
		normalized := NormalizeHistory(nil, 150, day2)

		assert.NotEmpty(t, normalized)
		assert.Equal(t, 150.0, normalized[len(normalized)-1].Amount)
	})
}
