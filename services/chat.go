package services

import (
	"context"
	"fmt"
	"strings"

	"hanbridge/models"
)

const chatMaxTokens = 1024

// FormatChatHistory converts the conversation into a plain transcript for
// the prompt.
func FormatChatHistory(history []models.ChatMessage) string {
	var sb strings.Builder
	for _, msg := range history {
		role := "학습자"
		if msg.Role == "assistant" {
			role = "도우미"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}
	return sb.String()
}

// ChatReply answers one study-assistant message with the caller's current
// step context folded into the prompt.
func ChatReply(ctx context.Context, contextNote, step string, history []models.ChatMessage, message string) (string, error) {
	var sb strings.Builder
	sb.WriteString("당신은 한국어-중국어 번역 연습을 돕는 학습 도우미입니다. 간결하고 친절하게 한국어로 답하세요.\n")
	if step != "" {
		sb.WriteString(fmt.Sprintf("학습자의 현재 단계: %s\n", step))
	}
	if contextNote != "" {
		sb.WriteString(fmt.Sprintf("현재 화면 컨텍스트: %s\n", contextNote))
	}
	if len(history) > 0 {
		sb.WriteString("\n대화 기록:\n")
		sb.WriteString(FormatChatHistory(history))
	}
	sb.WriteString(fmt.Sprintf("\n학습자: %s\n도우미:", message))

	return generateWithFallback(ctx, DefaultModelChain(chatMaxTokens), sb.String(), false, modelGenerators)
}
