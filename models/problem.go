package models

// Difficulty is one of the three fixed tiers a problem can be generated at,
// ordered 하 < 중 < 상.
type Difficulty string

const (
	DifficultyLow  Difficulty = "하"
	DifficultyMid  Difficulty = "중"
	DifficultyHigh Difficulty = "상"
)

// Tiers lists every difficulty in display order (hardest first), matching
// the per-tier breakdown returned by the session statistics.
var Tiers = []Difficulty{DifficultyHigh, DifficultyMid, DifficultyLow}

// Problem is one generated translation prompt: a Korean paragraph with its
// Chinese reference translation.
type Problem struct {
	ID         string     `json:"id" bson:"_id"`
	Korean     string     `json:"korean" bson:"korean"`
	Chinese    string     `json:"chinese" bson:"chinese"`
	Difficulty Difficulty `json:"difficulty" bson:"difficulty"`
	Field      string     `json:"field" bson:"field"`
}
