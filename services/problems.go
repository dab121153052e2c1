package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"hanbridge/models"

	"github.com/google/uuid"
)

const problemMaxTokens = 512

var (
	hangulLinePattern = regexp.MustCompile(`[가-힣]`)
	hanLinePattern    = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
)

// generatedProblem accepts the field name variants models actually emit.
type generatedProblem struct {
	Korean      string `json:"korean"`
	Original    string `json:"original"`
	Chinese     string `json:"chinese"`
	Translation string `json:"translation"`
	Difficulty  string `json:"difficulty"`
	Field       string `json:"field"`
}

// GenerateProblem asks the model chain for a fresh paragraph with its
// reference translation. Unlike the feedback path, a fatal upstream error
// aborts the chain: without a problem there is nothing to degrade to.
func GenerateProblem(ctx context.Context, field string, difficulty models.Difficulty, customPrompt string) (models.Problem, error) {
	extra := ""
	if customPrompt != "" {
		extra = fmt.Sprintf("Include: %s\n\n", customPrompt)
	}
	prompt := fmt.Sprintf(`Create a Korean paragraph (3-4 sentences) about %s with %s difficulty.

%sReturn JSON:
{
  "korean": "한국어 문단",
  "chinese": "중국어 번역",
  "difficulty": "%s",
  "field": "%s"
}`, field, difficulty, extra, difficulty, field)

	text, err := generateWithFallback(ctx, DefaultModelChain(problemMaxTokens), prompt, true, problemGenerators)
	if err != nil {
		return models.Problem{}, err
	}
	return parseGeneratedProblem(text, field, difficulty)
}

// GenerateProblems produces up to count problems, pausing between calls so
// a burst does not trip the upstream quota. Failed generations are skipped.
func GenerateProblems(ctx context.Context, count int, field string, difficulty models.Difficulty, customPrompt string) []models.Problem {
	problems := []models.Problem{}
	for i := 0; i < count; i++ {
		problem, err := GenerateProblem(ctx, field, difficulty, customPrompt)
		if err != nil {
			log.Printf("problem %d/%d generation failed: %v", i+1, count, err)
			continue
		}
		problems = append(problems, problem)
		if i < count-1 {
			time.Sleep(time.Second)
		}
	}
	return problems
}

// parseGeneratedProblem interprets the model output as JSON; when that
// fails it falls back to the first Hangul-bearing and first Han-bearing
// lines of the text.
func parseGeneratedProblem(text, field string, difficulty models.Difficulty) (models.Problem, error) {
	candidate := extractCandidate(text)

	var parsed generatedProblem
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
		problem := models.Problem{
			ID:         newProblemID(),
			Korean:     firstNonEmpty(parsed.Korean, parsed.Original),
			Chinese:    firstNonEmpty(parsed.Chinese, parsed.Translation),
			Difficulty: difficulty,
			Field:      field,
		}
		if parsed.Difficulty != "" {
			problem.Difficulty = models.Difficulty(parsed.Difficulty)
		}
		if parsed.Field != "" {
			problem.Field = parsed.Field
		}
		if problem.Korean == "" || problem.Chinese == "" {
			return models.Problem{}, errors.New("generated problem is missing required fields")
		}
		return problem, nil
	}

	var koreanLine, chineseLine string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if koreanLine == "" && hangulLinePattern.MatchString(line) {
			koreanLine = line
		}
		if chineseLine == "" && hanLinePattern.MatchString(line) {
			chineseLine = line
		}
	}
	if koreanLine == "" && chineseLine == "" {
		return models.Problem{}, errors.New("no korean or chinese text in generated output")
	}

	return models.Problem{
		ID:         newProblemID(),
		Korean:     koreanLine,
		Chinese:    chineseLine,
		Difficulty: difficulty,
		Field:      field,
	}, nil
}

func newProblemID() string {
	return fmt.Sprintf("ai_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
