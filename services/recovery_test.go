package services

import (
	"errors"
	"strings"
	"testing"

	"hanbridge/models"
)

const cleanPayload = `{
  "score": 85,
  "완전성": 4,
  "가독성": 5,
  "정확성": 4,
  "스타일": 3,
  "완전성피드백": "핵심 내용이 모두 들어있습니다.\n생략된 부분이 없어요.",
  "가독성피드백": "자연스럽게 읽힙니다.",
  "정확성피드백": "의미 전달이 정확합니다.",
  "스타일피드백": "문어체가 조금 섞여 있어요.",
  "detailed_analysis": [
    {"type": "correct", "text": "今天天气", "comment": "정확한 표현입니다"},
    {"type": "minor_improvement", "text": "真好", "suggestion": "非常好", "comment": "더 강조할 수 있어요"}
  ],
  "strengths": ["어휘 선택이 좋음"],
  "weaknesses": ["어순이 어색함"],
  "suggestions": ["어순을 바꿔보세요", "조사에 주의하세요"]
}`

func TestRecoverFeedbackCleanPayload(t *testing.T) {
	fb := RecoverFeedback(cleanPayload)

	if fb.Score != 85 {
		t.Errorf("Score = %d, want 85", fb.Score)
	}
	if fb.Completeness != 4 || fb.Readability != 5 || fb.Accuracy != 4 || fb.Style != 3 {
		t.Errorf("criterion scores = %d/%d/%d/%d, want 4/5/4/3",
			fb.Completeness, fb.Readability, fb.Accuracy, fb.Style)
	}
	// Valid JSON escapes must survive the repair pass.
	if !strings.Contains(fb.CompletenessNote, "\n") {
		t.Errorf("expected newline escape preserved, got %q", fb.CompletenessNote)
	}
	if len(fb.DetailedAnalysis) != 2 {
		t.Fatalf("DetailedAnalysis length = %d, want 2", len(fb.DetailedAnalysis))
	}
	if fb.DetailedAnalysis[1].Type != models.AnalysisMinorImprovement {
		t.Errorf("second item type = %s, want minor_improvement", fb.DetailedAnalysis[1].Type)
	}
	if fb.DetailedAnalysis[1].Suggestion != "非常好" {
		t.Errorf("suggestion = %q, want 非常好", fb.DetailedAnalysis[1].Suggestion)
	}
	// Top-line triple mirrors weaknesses and suggestions.
	if fb.Error != "어순이 어색함" {
		t.Errorf("Error = %q", fb.Error)
	}
	if fb.Improvement != "어순을 바꿔보세요" {
		t.Errorf("Improvement = %q", fb.Improvement)
	}
	if fb.Hint != "조사에 주의하세요" {
		t.Errorf("Hint = %q", fb.Hint)
	}
}

func TestRecoverFeedbackFencedBlock(t *testing.T) {
	raw := "물론입니다! 분석 결과입니다.\n```json\n" + cleanPayload + "\n```\n도움이 되셨길 바랍니다."
	fb := RecoverFeedback(raw)

	if fb.Score != 85 {
		t.Errorf("Score = %d, want 85", fb.Score)
	}
	if len(fb.DetailedAnalysis) != 2 {
		t.Errorf("DetailedAnalysis length = %d, want 2", len(fb.DetailedAnalysis))
	}
}

func TestRecoverFeedbackTrailingCommas(t *testing.T) {
	raw := `{"score": 70, "완전성": 3, "strengths": ["간결함",], "weaknesses": [],}`
	fb := RecoverFeedback(raw)

	if fb.Score != 70 {
		t.Errorf("Score = %d, want 70", fb.Score)
	}
	if fb.Completeness != 3 {
		t.Errorf("Completeness = %d, want 3", fb.Completeness)
	}
	if len(fb.Strengths) != 1 || fb.Strengths[0] != "간결함" {
		t.Errorf("Strengths = %v", fb.Strengths)
	}
}

func TestRecoverFeedbackDefaultsMissingNotes(t *testing.T) {
	raw := `{"score": 60, "완전성": 3, "가독성": 3, "정확성": 3, "스타일": 3}`
	fb := RecoverFeedback(raw)

	if fb.CompletenessNote != notePending || fb.StyleNote != notePending {
		t.Errorf("missing notes should default to the pending placeholder, got %q / %q",
			fb.CompletenessNote, fb.StyleNote)
	}
	if fb.DetailedAnalysis == nil || fb.Strengths == nil || fb.Weaknesses == nil || fb.Suggestions == nil {
		t.Errorf("collections must never be nil")
	}
	if fb.Error != defaultError || fb.Improvement != defaultImprovement || fb.Hint != defaultHint {
		t.Errorf("empty lists should leave the default triple, got %q / %q / %q",
			fb.Error, fb.Improvement, fb.Hint)
	}
}

func TestRecoverFeedbackTruncatedAnalysisArray(t *testing.T) {
	// Output cut off mid-item: complete items survive, the rest is dropped.
	raw := `{"score": 85, "완전성": 4, "가독성": 5, "정확성": 4, "스타일": 3, ` +
		`"완전성피드백": "좋음", "가독성피드백": "자연스러움", "정확성피드백": "정확함", "스타일피드백": "무난함", ` +
		`"detailed_analysis": [` +
		`{"type": "correct", "text": "你好", "comment": "좋아요"}, ` +
		`{"type": "incorrect", "text": "天气", "suggestion": "天氣", "comment": "이 부분은`

	fb := RecoverFeedback(raw)

	if fb.Score != 85 {
		t.Errorf("Score = %d, want 85", fb.Score)
	}
	if fb.Completeness != 4 || fb.Readability != 5 {
		t.Errorf("criterion scores lost in repair: %d/%d", fb.Completeness, fb.Readability)
	}
	if len(fb.DetailedAnalysis) != 1 {
		t.Fatalf("DetailedAnalysis length = %d, want 1", len(fb.DetailedAnalysis))
	}
	if fb.DetailedAnalysis[0].Text != "你好" {
		t.Errorf("kept item text = %q, want 你好", fb.DetailedAnalysis[0].Text)
	}
}

func TestRecoverFeedbackStrayEscape(t *testing.T) {
	raw := `{"score": 75, "완전성피드백": "조사 사용(은\는)에 주의하세요"}`
	fb := RecoverFeedback(raw)

	if fb.Score != 75 {
		t.Errorf("Score = %d, want 75", fb.Score)
	}
	if !strings.Contains(fb.CompletenessNote, "은") {
		t.Errorf("note lost in escape repair: %q", fb.CompletenessNote)
	}
}

func TestRecoverFeedbackSalvageFromGarbage(t *testing.T) {
	fb := RecoverFeedback("죄송합니다, 분석 결과를 생성할 수 없습니다.")

	if fb.Score != 0 {
		t.Errorf("Score = %d, want 0", fb.Score)
	}
	if fb.Completeness != 3 || fb.Readability != 3 || fb.Accuracy != 3 || fb.Style != 3 {
		t.Errorf("criterion scores should default to 3, got %d/%d/%d/%d",
			fb.Completeness, fb.Readability, fb.Accuracy, fb.Style)
	}
	if fb.CompletenessNote != noteBasic {
		t.Errorf("critique should default to %q, got %q", noteBasic, fb.CompletenessNote)
	}
	if fb.Error != defaultError || fb.Improvement != defaultImprovement || fb.Hint != defaultHint {
		t.Errorf("triple = %q / %q / %q", fb.Error, fb.Improvement, fb.Hint)
	}
	if len(fb.DetailedAnalysis) != 0 {
		t.Errorf("DetailedAnalysis = %v, want empty", fb.DetailedAnalysis)
	}
}

func TestRecoverFeedbackSalvageLabeledLines(t *testing.T) {
	raw := "분석에 실패했습니다\n" +
		`"score": 77` + "\n" +
		`"완전성": 0` + "\n" +
		"오류: 조사 사용이 어색합니다\n" +
		"개선점: 어순을 바꿔보세요\n" +
		"힌트: 주어를 먼저 두세요\n"

	fb := RecoverFeedback(raw)

	if fb.Score != 77 {
		t.Errorf("Score = %d, want 77", fb.Score)
	}
	// A literal 0 is treated as missing and replaced by the midpoint.
	if fb.Completeness != 3 {
		t.Errorf("Completeness = %d, want 3", fb.Completeness)
	}
	if fb.Error != "조사 사용이 어색합니다" {
		t.Errorf("Error = %q", fb.Error)
	}
	if fb.Improvement != "어순을 바꿔보세요" {
		t.Errorf("Improvement = %q", fb.Improvement)
	}
	if fb.Hint != "주어를 먼저 두세요" {
		t.Errorf("Hint = %q", fb.Hint)
	}
}

func TestServerErrorFeedbackOverload(t *testing.T) {
	fb := ServerErrorFeedback(errors.New("status 503: model overloaded"))

	if fb.Error != overloadedError {
		t.Errorf("Error = %q, want overload message", fb.Error)
	}
	if fb.Improvement != overloadedImprovement || fb.Hint != overloadedHint {
		t.Errorf("overload triple incomplete: %q / %q", fb.Improvement, fb.Hint)
	}
	if fb.CompletenessNote != serverErrorNote {
		t.Errorf("note = %q, want %q", fb.CompletenessNote, serverErrorNote)
	}
	if fb.Score != 0 || fb.Completeness != 0 {
		t.Errorf("transport failures must not invent scores: %d / %d", fb.Score, fb.Completeness)
	}
}

func TestServerErrorFeedbackGeneric(t *testing.T) {
	fb := ServerErrorFeedback(errors.New("connection refused"))

	if fb.Error != unavailableError {
		t.Errorf("Error = %q, want unavailable message", fb.Error)
	}
	if fb.CompletenessNote != feedbackErrorNote || fb.StyleNote != feedbackErrorNote {
		t.Errorf("notes = %q / %q, want %q", fb.CompletenessNote, fb.StyleNote, feedbackErrorNote)
	}
	if fb.DetailedAnalysis == nil || fb.Strengths == nil {
		t.Errorf("collections must never be nil")
	}
}
