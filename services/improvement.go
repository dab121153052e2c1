package services

import (
	"math"

	"hanbridge/models"
)

// Improvement messages, picked by the first matching delta threshold.
const (
	msgLargeImprovement  = "🎉 크게 개선되었습니다!"
	msgSlightImprovement = "👍 조금 개선되었네요!"
	msgAboutTheSame      = "🤔 비슷한 수준이에요"
	msgTryAgain          = "😅 다시 한번 시도해보세요"
)

// AnalyzeImprovement compares a revised attempt with the original one
// against the same reference. The displayed scores and delta are rounded
// percentages; the improved flag and the message are decided on the
// unrounded similarity delta, so a rounded delta of 10 can still count as
// not improved.
func AnalyzeImprovement(original, improved, reference string) models.ImprovementResult {
	originalScore := Similarity(original, reference)
	improvedScore := Similarity(improved, reference)
	delta := improvedScore - originalScore

	var message string
	switch {
	case delta > 0.2:
		message = msgLargeImprovement
	case delta > 0.1:
		message = msgSlightImprovement
	case delta > -0.1:
		message = msgAboutTheSame
	default:
		message = msgTryAgain
	}

	return models.ImprovementResult{
		OriginalScore: int(math.Round(originalScore * 100)),
		ImprovedScore: int(math.Round(improvedScore * 100)),
		Improvement:   int(math.Round(delta * 100)),
		HasImproved:   delta > 0.1,
		Message:       message,
	}
}
