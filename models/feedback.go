package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TranslationDirection identifies which half of the round trip a feedback
// request refers to.
type TranslationDirection string

const (
	DirectionKoToZh TranslationDirection = "ko-to-zh"
	DirectionZhToKo TranslationDirection = "zh-to-ko"
)

// AnalysisType tags one span-level finding in the detailed analysis.
type AnalysisType string

const (
	AnalysisCorrect          AnalysisType = "correct"
	AnalysisIncorrect        AnalysisType = "incorrect"
	AnalysisMissing          AnalysisType = "missing"
	AnalysisMinorImprovement AnalysisType = "minor_improvement"
	AnalysisStyleMismatch    AnalysisType = "style_mismatch"
)

// AnalysisItem is one tagged span-level critique within a Feedback.
type AnalysisItem struct {
	Type       AnalysisType `json:"type" bson:"type"`
	Text       string       `json:"text" bson:"text"`
	Suggestion string       `json:"suggestion,omitempty" bson:"suggestion,omitempty"`
	Comment    string       `json:"comment" bson:"comment"`
}

// Feedback is the structured critique for one translation direction,
// recovered from a generative model response. The four criterion scores are
// 0-5; every field is always populated, defaulted where recovery could not
// extract it.
type Feedback struct {
	Score            int            `json:"score" bson:"score"`
	Completeness     int            `json:"completeness" bson:"completeness"`
	Readability      int            `json:"readability" bson:"readability"`
	Accuracy         int            `json:"accuracy" bson:"accuracy"`
	Style            int            `json:"style" bson:"style"`
	CompletenessNote string         `json:"completenessFeedback" bson:"completenessFeedback"`
	ReadabilityNote  string         `json:"readabilityFeedback" bson:"readabilityFeedback"`
	AccuracyNote     string         `json:"accuracyFeedback" bson:"accuracyFeedback"`
	StyleNote        string         `json:"styleFeedback" bson:"styleFeedback"`
	DetailedAnalysis []AnalysisItem `json:"detailedAnalysis" bson:"detailedAnalysis"`
	Strengths        []string       `json:"strengths" bson:"strengths"`
	Weaknesses       []string       `json:"weaknesses" bson:"weaknesses"`
	Suggestions      []string       `json:"suggestions" bson:"suggestions"`
	Error            string         `json:"error" bson:"error"`
	Improvement      string         `json:"improvement" bson:"improvement"`
	Hint             string         `json:"hint" bson:"hint"`
}

// FeedbackDocument is a stored feedback request together with the attempt
// it critiqued. A new document replaces nothing: re-requesting analysis for
// the same attempt simply inserts another one.
type FeedbackDocument struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Email           string               `json:"email" bson:"email"`
	ProblemID       string               `json:"problemId" bson:"problemId"`
	OriginalText    string               `json:"originalText" bson:"originalText"`
	UserTranslation string               `json:"userTranslation" bson:"userTranslation"`
	Direction       TranslationDirection `json:"direction" bson:"direction"`
	Feedback        Feedback             `json:"feedback" bson:"feedback"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
}
