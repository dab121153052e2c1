package services

import (
	"math"

	"hanbridge/models"
)

// Score maps a user translation against the reference text to a bounded
// reward value for the given difficulty tier. The result is not a
// percentage: each tier yields one of exactly four values
// (0, floor(base*0.7), base, base+10), topping out at 30 for the 상 tier.
func Score(userText, referenceText string, difficulty models.Difficulty) int {
	similarity := Similarity(userText, referenceText)

	base := 15 // unrecognized tiers score like the middle one
	switch difficulty {
	case models.DifficultyHigh:
		base = 20
	case models.DifficultyMid:
		base = 15
	case models.DifficultyLow:
		base = 10
	}

	switch {
	case similarity >= 0.9:
		return base + 10
	case similarity >= 0.7:
		return base
	case similarity >= 0.5:
		return int(math.Floor(float64(base) * 0.7))
	default:
		return 0
	}
}
