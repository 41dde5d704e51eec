package services

import (
	"fmt"
	"math"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/utils"
)

// Select picks the prize index for draw by inverse-CDF over the weights.
// The table order defines the intervals; a draw that lands exactly on a
// boundary goes to the earlier prize.
func Select(prizes []models.PrizeDefinition, draw float64) (int, error) {
	if len(prizes) == 0 {
		return 0, fmt.Errorf("%w: empty prize table", ErrInvalidInput)
	}
	if math.IsNaN(draw) || draw < 0 || draw >= 1 {
		return 0, fmt.Errorf("%w: draw %v outside [0,1)", ErrInvalidInput, draw)
	}

	total := 0.0
	for _, p := range prizes {
		if !validWeight(p.Weight) {
			return 0, fmt.Errorf("%w: prize %q has weight %v", ErrInvalidInput, p.Label, p.Weight)
		}
		total += p.Weight
	}

	target := draw * total
	running := 0.0
	for i, p := range prizes {
		running += p.Weight
		if running >= target {
			return i, nil
		}
	}
	// Rounding can leave the running sum a hair under the target near 1
	return len(prizes) - 1, nil
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0)
}

// PrizeTable is a validated, immutable prize list
type PrizeTable struct {
	prizes []models.PrizeDefinition
	total  float64
}

// NewPrizeTable validates prizes once: non-empty, positive weights, unique labels
func NewPrizeTable(prizes []models.PrizeDefinition) (*PrizeTable, error) {
	if len(prizes) == 0 {
		return nil, fmt.Errorf("%w: empty prize table", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(prizes))
	total := 0.0
	for _, p := range prizes {
		if p.Label == "" {
			return nil, fmt.Errorf("%w: prize without label", ErrInvalidInput)
		}
		if seen[p.Label] {
			return nil, fmt.Errorf("%w: duplicate prize label %q", ErrInvalidInput, p.Label)
		}
		if !validWeight(p.Weight) {
			return nil, fmt.Errorf("%w: prize %q has weight %v", ErrInvalidInput, p.Label, p.Weight)
		}
		seen[p.Label] = true
		total += p.Weight
	}

	return &PrizeTable{
		prizes: append([]models.PrizeDefinition(nil), prizes...),
		total:  total,
	}, nil
}

// Select returns the prize for draw
func (t *PrizeTable) Select(draw float64) (models.PrizeDefinition, error) {
	idx, err := Select(t.prizes, draw)
	if err != nil {
		return models.PrizeDefinition{}, err
	}
	return t.prizes[idx], nil
}

// Prizes returns a copy of the table in wheel order
func (t *PrizeTable) Prizes() []models.PrizeDefinition {
	return append([]models.PrizeDefinition(nil), t.prizes...)
}

// Find looks a prize up by label
func (t *PrizeTable) Find(label string) (models.PrizeDefinition, bool) {
	for _, p := range t.prizes {
		if p.Label == label {
			return p, true
		}
	}
	return models.PrizeDefinition{}, false
}

// Chances returns each prize's share of the total weight as a percentage
func (t *PrizeTable) Chances() []models.PrizeChance {
	chances := make([]models.PrizeChance, len(t.prizes))
	for i, p := range t.prizes {
		chances[i] = models.PrizeChance{
			Label:     p.Label,
			RewardTag: p.RewardTag,
			Chance:    utils.RoundFloat(p.Weight/t.total*100, 2),
		}
	}
	return chances
}

// DefaultPrizes is used when no prize table is configured
func DefaultPrizes() []models.PrizeDefinition {
	return []models.PrizeDefinition{
		{Label: "Sticker", Weight: 40, RewardTag: "🎟️"},
		{Label: "Tote Bag", Weight: 25, RewardTag: "👜"},
		{Label: "T-Shirt", Weight: 15, RewardTag: "👕"},
		{Label: "Coffee Voucher", Weight: 12, RewardTag: "☕"},
		{Label: "Headphones", Weight: 6, RewardTag: "🎧"},
		{Label: "Grand Prize", Weight: 2, RewardTag: "🏆"},
	}
}
