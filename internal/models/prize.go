package models

// PrizeDefinition defines a single slice of the prize wheel.
// Position in the table decides the draw interval and the slice placement on
// the wheel, never the probability.
type PrizeDefinition struct {
	Label     string  `mapstructure:"label" bson:"label" json:"label"`
	Weight    float64 `mapstructure:"weight" bson:"weight" json:"weight"`
	RewardTag string  `mapstructure:"rewardTag" bson:"rewardTag" json:"rewardTag"` // e.g. an emoji or a merch category
}

// PrizeChance is the public view of a prize together with its share of the total weight
type PrizeChance struct {
	Label     string  `json:"label"`
	RewardTag string  `json:"rewardTag"`
	Chance    float64 `json:"chance"` // Percentage rounded to 2 decimals
}
