package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exchange is one completed round trip: the user translated the Korean
// source into Chinese, then translated it back. Both direction scores are
// integers in [0,100]. An exchange is written once and never updated.
type Exchange struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	ProblemID   string             `json:"problemId" bson:"problemId"`
	Korean      string             `json:"korean" bson:"korean"`
	Chinese     string             `json:"chinese" bson:"chinese"`
	UserKoToZh  string             `json:"userKoToZh" bson:"userKoToZh"`
	UserZhToKo  string             `json:"userZhToKo" bson:"userZhToKo"`
	KoToZhScore int                `json:"koToZhScore" bson:"koToZhScore"`
	ZhToKoScore int                `json:"zhToKoScore" bson:"zhToKoScore"`
	Difficulty  Difficulty         `json:"difficulty" bson:"difficulty"`
	Field       string             `json:"field" bson:"field"`
	CompletedAt time.Time          `json:"completedAt" bson:"completedAt"`
	TimeSpent   int                `json:"timeSpent" bson:"timeSpent"` // seconds, 0 if untracked
}

// TierStats is the per-difficulty slice of the session statistics.
type TierStats struct {
	Attempted int     `json:"attempted"`
	Average   float64 `json:"average"`
}

// SessionStats is derived from the full exchange sequence on demand and is
// never persisted on its own.
type SessionStats struct {
	TotalProblems   int                      `json:"totalProblems"`
	TotalScore      int                      `json:"totalScore"`
	AverageScore    float64                  `json:"averageScore"`
	BestStreak      int                      `json:"bestStreak"`
	TimeSpent       int                      `json:"timeSpent"`
	AccuracyRate    float64                  `json:"accuracyRate"`
	DifficultyStats map[Difficulty]TierStats `json:"difficultyStats"`
	WeakWords       []string                 `json:"weakWords"`
	StrongFields    []string                 `json:"strongFields"`
}

// ImprovementResult compares a revised attempt with the original one
// against the same reference text. Scores are rounded percentages.
type ImprovementResult struct {
	OriginalScore int    `json:"originalScore"`
	ImprovedScore int    `json:"improvedScore"`
	Improvement   int    `json:"improvement"`
	HasImproved   bool   `json:"hasImproved"`
	Message       string `json:"message"`
}
