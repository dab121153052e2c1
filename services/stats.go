package services

import (
	"regexp"

	"hanbridge/models"
)

// An exchange counts as successful when its two direction scores average
// at least this value; streaks and the accuracy rate both use it.
const successThreshold = 70

const maxWeakWords = 10

var (
	hanRunPattern    = regexp.MustCompile(`[\x{4e00}-\x{9fff}]+`)
	hangulRunPattern = regexp.MustCompile(`[가-힣]+`)
)

// AggregateSession folds completed exchanges, in completion order, into
// summary statistics. Everything is recomputed from scratch on every call;
// the input sequence is never mutated.
func AggregateSession(exchanges []models.Exchange) models.SessionStats {
	stats := models.SessionStats{
		DifficultyStats: map[models.Difficulty]models.TierStats{
			models.DifficultyHigh: {},
			models.DifficultyMid:  {},
			models.DifficultyLow:  {},
		},
		WeakWords:    []string{},
		StrongFields: []string{},
	}
	if len(exchanges) == 0 {
		return stats
	}

	for _, ex := range exchanges {
		stats.TotalScore += ex.KoToZhScore + ex.ZhToKoScore
		stats.TimeSpent += ex.TimeSpent
	}
	stats.TotalProblems = len(exchanges)
	stats.AverageScore = float64(stats.TotalScore) / float64(len(exchanges)*2)

	good := 0
	current := 0
	for _, ex := range exchanges {
		if meanScore(ex) >= successThreshold {
			good++
			current++
			if current > stats.BestStreak {
				stats.BestStreak = current
			}
		} else {
			current = 0
		}
	}
	stats.AccuracyRate = float64(good) / float64(len(exchanges))

	for _, tier := range models.Tiers {
		attempted := 0
		sum := 0.0
		for _, ex := range exchanges {
			if ex.Difficulty == tier {
				attempted++
				sum += meanScore(ex)
			}
		}
		tierStats := models.TierStats{Attempted: attempted}
		if attempted > 0 {
			tierStats.Average = sum / float64(attempted)
		}
		stats.DifficultyStats[tier] = tierStats
	}

	stats.WeakWords = extractWeakWords(exchanges)
	stats.StrongFields = extractStrongFields(exchanges)
	return stats
}

func meanScore(ex models.Exchange) float64 {
	return float64(ex.KoToZhScore+ex.ZhToKoScore) / 2
}

// extractWeakWords collects the target-script runs the user actually
// produced in every exchange where either direction scored below 70: Han
// runs from the forward answer, Hangul runs from the backward one.
// Deduplicated, first seen first, capped at ten.
func extractWeakWords(exchanges []models.Exchange) []string {
	words := []string{}
	seen := map[string]struct{}{}
	for _, ex := range exchanges {
		if ex.KoToZhScore >= successThreshold && ex.ZhToKoScore >= successThreshold {
			continue
		}
		runs := hanRunPattern.FindAllString(ex.UserKoToZh, -1)
		runs = append(runs, hangulRunPattern.FindAllString(ex.UserZhToKo, -1)...)
		for _, run := range runs {
			if _, ok := seen[run]; ok {
				continue
			}
			seen[run] = struct{}{}
			if len(words) < maxWeakWords {
				words = append(words, run)
			}
		}
	}
	return words
}

// extractStrongFields lists the topical fields of exchanges where both
// directions scored 80 or better, deduplicated in first-seen order.
func extractStrongFields(exchanges []models.Exchange) []string {
	fields := []string{}
	seen := map[string]struct{}{}
	for _, ex := range exchanges {
		if ex.KoToZhScore < 80 || ex.ZhToKoScore < 80 {
			continue
		}
		if _, ok := seen[ex.Field]; ok {
			continue
		}
		seen[ex.Field] = struct{}{}
		fields = append(fields, ex.Field)
	}
	return fields
}
