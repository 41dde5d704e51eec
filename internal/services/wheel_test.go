package services

import (
	"math"
	"testing"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPrizes() []models.PrizeDefinition {
	return []models.PrizeDefinition{
		{Label: "A", Weight: 1, RewardTag: "a"},
		{Label: "B", Weight: 9, RewardTag: "b"},
	}
}

func TestSelect_Examples(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		want int
	}{
		{"low draw lands in first slice", 0.05, 0},
		{"middle draw lands in second slice", 0.5, 1},
		{"zero is always first", 0, 0},
		{"boundary goes to earlier prize", 0.1, 0},
		{"just past boundary", 0.1000001, 1},
		{"approaching one is last", math.Nextafter(1, 0), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(twoPrizes(), tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		prizes []models.PrizeDefinition
		draw   float64
	}{
		{"empty table", nil, 0.5},
		{"zero weight", []models.PrizeDefinition{{Label: "A", Weight: 0}}, 0.5},
		{"negative weight", []models.PrizeDefinition{{Label: "A", Weight: 1}, {Label: "B", Weight: -1}}, 0.5},
		{"NaN weight", []models.PrizeDefinition{{Label: "A", Weight: math.NaN()}}, 0.5},
		{"draw of one", twoPrizes(), 1},
		{"negative draw", twoPrizes(), -0.01},
		{"NaN draw", twoPrizes(), math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Select(tt.prizes, tt.draw)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSelect_AlwaysInRange(t *testing.T) {
	prizes := DefaultPrizes()
	for i := 0; i < 10000; i++ {
		draw := float64(i) / 10000
		idx, err := Select(prizes, draw)
		require.NoError(t, err)
		assert.True(t, idx >= 0 && idx < len(prizes))
	}
	// Weights that do not sum exactly in floating point
	odd := []models.PrizeDefinition{{Label: "x", Weight: 0.1}, {Label: "y", Weight: 0.2}, {Label: "z", Weight: 0.3}}
	idx, err := Select(odd, math.Nextafter(1, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestSelect_FrequencyMatchesWeights(t *testing.T) {
	prizes := []models.PrizeDefinition{
		{Label: "a", Weight: 1},
		{Label: "b", Weight: 2},
		{Label: "c", Weight: 3},
		{Label: "d", Weight: 4},
	}
	const draws = 100000
	counts := make([]int, len(prizes))
	random := CryptoRandom{}
	for i := 0; i < draws; i++ {
		idx, err := Select(prizes, random.Float64())
		require.NoError(t, err)
		counts[idx]++
	}

	chiSquared := 0.0
	for i, p := range prizes {
		expected := draws * p.Weight / 10
		diff := float64(counts[i]) - expected
		chiSquared += diff * diff / expected
	}
	// 3 degrees of freedom, p = 0.0001
	assert.Less(t, chiSquared, 21.11, "counts %v", counts)
}

func TestNewPrizeTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := NewPrizeTable(twoPrizes())
		require.NoError(t, err)

		prize, err := table.Select(0.5)
		require.NoError(t, err)
		assert.Equal(t, "B", prize.Label)

		assert.Equal(t, []models.PrizeChance{
			{Label: "A", RewardTag: "a", Chance: 10},
			{Label: "B", RewardTag: "b", Chance: 90},
		}, table.Chances())

		found, ok := table.Find("A")
		assert.True(t, ok)
		assert.Equal(t, "a", found.RewardTag)
		_, ok = table.Find("Z")
		assert.False(t, ok)
	})

	t.Run("copies its input", func(t *testing.T) {
		prizes := twoPrizes()
		table, err := NewPrizeTable(prizes)
		require.NoError(t, err)
		prizes[0].Label = "changed"
		assert.Equal(t, "A", table.Prizes()[0].Label)
	})

	t.Run("rejects duplicate labels", func(t *testing.T) {
		_, err := NewPrizeTable([]models.PrizeDefinition{{Label: "A", Weight: 1}, {Label: "A", Weight: 2}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := NewPrizeTable(nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("default table is valid", func(t *testing.T) {
		_, err := NewPrizeTable(DefaultPrizes())
		assert.NoError(t, err)
	})
}

func TestCryptoRandom_Range(t *testing.T) {
	r := CryptoRandom{}
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		assert.True(t, v >= 0 && v < 1)
	}
}
