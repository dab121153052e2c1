package services

import (
	"context"
	"fmt"
	"log"

	"hanbridge/models"
)

const feedbackMaxTokens = 1024

const koToZhPromptTemplate = `한국어 원문: %s
사용자 번역: %s

한국어를 중국어로 번역한 결과를 4개 기준으로 상세히 분석해서 완전한 JSON으로 답하세요 (중간에 끊지 마세요):

중요: 만약 번역이 실제로 좋다면 솔직하게 높은 점수를 주고 긍정적으로 평가하세요. 굳이 문제를 찾아내려고 하지 마세요.

분석 시 고려사항:
- 한국어의 조사/어미와 중국어의 어순 차이점
- 한국어의 존댓말/반말과 중국어의 격식 표현 차이
- 한국어의 한자어와 중국어의 간체자 사용 차이
- 한국어의 문화적 뉘앙스와 중국어 표현의 적절성

{
  "score": 85,
  "완전성": 4,
  "가독성": 5,
  "정확성": 3,
  "스타일": 4,
  "완전성피드백": "원문에서 누락된 부분에 대한 설명",
  "가독성피드백": "중국어로서의 자연스러움에 대한 설명",
  "정확성피드백": "문법 오류와 수정 방향에 대한 설명",
  "스타일피드백": "문체 일치 여부에 대한 설명",
  "detailed_analysis": [
    {"type": "correct", "text": "今天", "comment": "한국어 '오늘'을 중국어 '今天'으로 정확하게 번역"},
    {"type": "incorrect", "text": "写", "suggestion": "撰写", "comment": "맥락상 '撰写'가 더 적절한 중국어 표현"},
    {"type": "missing", "text": "원문의 해당 부분", "comment": "한국어 원문의 이 부분이 중국어 번역에서 누락됨"},
    {"type": "style_mismatch", "text": "해당 표현", "suggestion": "수정 표현", "comment": "한국어의 격식체를 중국어의 적절한 문체로 번역해야 함"},
    {"type": "minor_improvement", "text": "해당 표현", "suggestion": "개선 표현", "comment": "더 자연스러운 중국어로 개선 가능"}
  ],
  "strengths": ["잘된 부분들"],
  "weaknesses": ["아쉬운 부분들"],
  "suggestions": ["개선 방법들"]
}`

const zhToKoPromptTemplate = `중국어 원문: %s
사용자 번역: %s

중국어를 한국어로 번역한 결과를 4개 기준으로 상세히 분석해서 완전한 JSON으로 답하세요 (중간에 끊지 마세요):

중요: 만약 번역이 실제로 좋다면 솔직하게 높은 점수를 주고 긍정적으로 평가하세요. 굳이 문제를 찾아내려고 하지 마세요.

분석 시 고려사항:
- 중국어의 어순과 한국어의 어순 차이점
- 중국어의 간체자와 한국어의 한자 사용 차이
- 중국어의 문장 구조와 한국어의 조사/어미 사용
- 중국어의 문화적 뉘앙스와 한국어 표현의 적절성

{
  "score": 85,
  "완전성": 4,
  "가독성": 5,
  "정확성": 3,
  "스타일": 4,
  "완전성피드백": "원문에서 누락된 부분에 대한 설명",
  "가독성피드백": "한국어로서의 자연스러움에 대한 설명",
  "정확성피드백": "문법 오류와 수정 방향에 대한 설명",
  "스타일피드백": "문체 일치 여부에 대한 설명",
  "detailed_analysis": [
    {"type": "correct", "text": "오늘", "comment": "중국어 '今天'을 한국어 '오늘'로 정확하게 번역"},
    {"type": "incorrect", "text": "쓰다", "suggestion": "작성하다", "comment": "맥락상 '작성하다'가 더 적절한 한국어 표현"},
    {"type": "missing", "text": "원문의 해당 부분", "comment": "중국어 원문의 이 부분이 한국어 번역에서 누락됨"},
    {"type": "style_mismatch", "text": "해당 표현", "suggestion": "수정 표현", "comment": "중국어의 격식체를 한국어의 적절한 문체로 번역해야 함"},
    {"type": "minor_improvement", "text": "해당 표현", "suggestion": "개선 표현", "comment": "더 자연스러운 한국어로 개선 가능"}
  ],
  "strengths": ["잘된 부분들"],
  "weaknesses": ["아쉬운 부분들"],
  "suggestions": ["개선 방법들"]
}`

// buildFeedbackPrompt renders the direction-specific evaluation prompt. The
// JSON skeleton inside it defines the exact bilingual field names the
// recovery logic looks for.
func buildFeedbackPrompt(originalText, userTranslation string, direction models.TranslationDirection) string {
	if direction == models.DirectionZhToKo {
		return fmt.Sprintf(zhToKoPromptTemplate, originalText, userTranslation)
	}
	return fmt.Sprintf(koToZhPromptTemplate, originalText, userTranslation)
}

// GetAIFeedback asks the model chain to critique one translation attempt
// and recovers a structured Feedback from whatever comes back. The caller
// always gets a complete record: transport failure degrades to the fixed
// server error record instead of an error.
func GetAIFeedback(ctx context.Context, originalText, userTranslation string, direction models.TranslationDirection) models.Feedback {
	prompt := buildFeedbackPrompt(originalText, userTranslation, direction)

	text, err := generateWithFallback(ctx, DefaultModelChain(feedbackMaxTokens), prompt, false, modelGenerators)
	if err != nil {
		log.Printf("AI feedback request failed: %v", err)
		return ServerErrorFeedback(err)
	}
	return RecoverFeedback(text)
}
