package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"hanbridge/models"
)

// Placeholder texts used when the model output gives us nothing better.
const (
	notePending        = "분석 중..."
	noteBasic          = "기본 분석 완료"
	defaultError       = "분석 완료"
	defaultImprovement = "계속 연습하세요"
	defaultHint        = "다음에 더 신중하게 번역해보세요"
)

// Fixed texts for the record returned when the transport layer failed.
const (
	serverErrorNote       = "AI 서버 오류"
	feedbackErrorNote     = "AI 피드백 오류"
	overloadedError       = "현재 AI 서버가 과부하 상태입니다. 잠시 후 다시 시도해주세요."
	overloadedImprovement = "기본 점수와 참고번역을 비교해보세요."
	overloadedHint        = `잠시 후 "AI 상세 분석 보기" 버튼을 다시 클릭해보세요.`
	unavailableError      = "AI 피드백을 불러올 수 없습니다. 잠시 후 다시 시도해주세요."
	unavailableImprove    = "정답과 비교하며 차이점을 찾아보세요"
	unavailableHint       = "핵심 단어의 정확한 의미를 파악해보세요"
)

// rawFeedback mirrors the bilingual payload the models are prompted to
// return. The Korean criterion keys are the wire contract; the repair and
// salvage logic depends on these exact names, so they must not be
// generalized into a dynamic map.
type rawFeedback struct {
	Score            int                   `json:"score"`
	Completeness     int                   `json:"완전성"`
	Readability      int                   `json:"가독성"`
	Accuracy         int                   `json:"정확성"`
	Style            int                   `json:"스타일"`
	CompletenessNote string                `json:"완전성피드백"`
	ReadabilityNote  string                `json:"가독성피드백"`
	AccuracyNote     string                `json:"정확성피드백"`
	StyleNote        string                `json:"스타일피드백"`
	DetailedAnalysis []models.AnalysisItem `json:"detailed_analysis"`
	Strengths        []string              `json:"strengths"`
	Weaknesses       []string              `json:"weaknesses"`
	Suggestions      []string              `json:"suggestions"`
}

const analysisArrayMarker = `"detailed_analysis": [`

var (
	fencedBlockPattern   = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	trailingCommaBrace   = regexp.MustCompile(`,\s*}`)
	trailingCommaBracket = regexp.MustCompile(`,\s*]`)
	danglingCommaPattern = regexp.MustCompile(`,\s*$`)
	// A lone backslash that does not start a valid JSON escape sequence.
	strayEscapePattern = regexp.MustCompile(`([^\\])\\([^"\\/bfnrtu])`)
)

// Salvage patterns, applied to the untouched raw text when no amount of
// repair makes the payload parseable.
var (
	overallScorePattern = regexp.MustCompile(`"score":\s*(\d+)`)
	analysisListPattern = regexp.MustCompile(`(?s)"detailed_analysis":\s*\[(.*?)\]`)
	analysisItemPattern = regexp.MustCompile(`\{[^}]*"type":\s*"[^"]*"[^}]*"text":\s*"[^"]*"[^}]*"comment":\s*"[^"]*"[^}]*\}`)
	itemTypePattern     = regexp.MustCompile(`"type":\s*"([^"]*)"`)
	itemTextPattern     = regexp.MustCompile(`"text":\s*"([^"]*)"`)
	itemCommentPattern  = regexp.MustCompile(`"comment":\s*"([^"]*)"`)
	itemSuggestPattern  = regexp.MustCompile(`"suggestion":\s*"([^"]*)"`)

	criterionPatterns = map[string]*regexp.Regexp{
		"완전성": regexp.MustCompile(`"완전성":\s*(\d+)`),
		"가독성": regexp.MustCompile(`"가독성":\s*(\d+)`),
		"정확성": regexp.MustCompile(`"정확성":\s*(\d+)`),
		"스타일": regexp.MustCompile(`"스타일":\s*(\d+)`),
	}
	critiquePatterns = map[string]*regexp.Regexp{
		"완전성": regexp.MustCompile(`"완전성피드백":\s*"([^"]*)"`),
		"가독성": regexp.MustCompile(`"가독성피드백":\s*"([^"]*)"`),
		"정확성": regexp.MustCompile(`"정확성피드백":\s*"([^"]*)"`),
		"스타일": regexp.MustCompile(`"스타일피드백":\s*"([^"]*)"`),
	}
)

// RecoverFeedback turns whatever text a generative model returned into a
// fully populated Feedback. It never fails: the candidate block is located
// and repaired, a second more aggressive repair of the analysis array is
// tried when the first parse fails, and a per-field regex salvage over the
// raw text picks up the pieces when nothing parses at all.
func RecoverFeedback(raw string) models.Feedback {
	candidate := repairCandidate(extractCandidate(raw))

	var parsed rawFeedback
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
		return feedbackFromRaw(parsed)
	}

	parsed = rawFeedback{}
	if err := json.Unmarshal([]byte(aggressiveAnalysisRepair(candidate)), &parsed); err == nil {
		return feedbackFromRaw(parsed)
	}

	return salvageFeedback(raw)
}

// ServerErrorFeedback is the fixed record returned when the transport layer
// exhausted every model without a response. Overload failures carry a
// dedicated message so the client can suggest retrying shortly.
func ServerErrorFeedback(err error) models.Feedback {
	fb := models.Feedback{
		DetailedAnalysis: []models.AnalysisItem{},
		Strengths:        []string{},
		Weaknesses:       []string{},
		Suggestions:      []string{},
	}
	if err != nil && isOverloadMessage(err.Error()) {
		fb.Error = overloadedError
		fb.Improvement = overloadedImprovement
		fb.Hint = overloadedHint
		fb.CompletenessNote = serverErrorNote
		fb.ReadabilityNote = serverErrorNote
		fb.AccuracyNote = serverErrorNote
		fb.StyleNote = serverErrorNote
		return fb
	}
	fb.Error = unavailableError
	fb.Improvement = unavailableImprove
	fb.Hint = unavailableHint
	fb.CompletenessNote = feedbackErrorNote
	fb.ReadabilityNote = feedbackErrorNote
	fb.AccuracyNote = feedbackErrorNote
	fb.StyleNote = feedbackErrorNote
	return fb
}

func isOverloadMessage(message string) bool {
	for _, marker := range []string{"503", "overloaded", "unavailable", "과부하"} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// extractCandidate locates the structured block inside the model output:
// a ```json fence wins, then the first-{ to last-} substring, then the
// whole text.
func extractCandidate(text string) string {
	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// repairCandidate is the first repair pass: trailing commas and stray
// escapes are normalized, and a candidate cut off mid-stream is truncated
// back to its last fully closed value and re-closed, with special handling
// for an unterminated detailed_analysis array.
func repairCandidate(candidate string) string {
	cleaned := trailingCommaBrace.ReplaceAllString(candidate, "}")
	cleaned = trailingCommaBracket.ReplaceAllString(cleaned, "]")
	cleaned = strayEscapePattern.ReplaceAllString(cleaned, `$1\\$2`)
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasSuffix(cleaned, "}") {
		return cleaned
	}

	lastBrace := strings.LastIndex(cleaned, "}")
	lastBracket := strings.LastIndex(cleaned, "]")
	last := lastBrace
	if lastBracket > last {
		last = lastBracket
	}
	if last > 0 {
		cleaned = cleaned[:last+1]
	}
	cleaned = danglingCommaPattern.ReplaceAllString(cleaned, "")

	cleaned = closeAnalysisArray(cleaned)

	if !strings.HasSuffix(cleaned, "}") {
		cleaned += "}"
	}
	return cleaned
}

// closeAnalysisArray truncates an unterminated detailed_analysis array to
// its last fully closed item and closes it again. A candidate whose array
// is already closed (or absent) passes through untouched.
func closeAnalysisArray(candidate string) string {
	start := strings.Index(candidate, analysisArrayMarker)
	if start == -1 || strings.Contains(candidate, `"detailed_analysis": []`) {
		return candidate
	}
	after := candidate[start:]
	if strings.Contains(after, "]") {
		return candidate
	}

	before := candidate[:start]
	content := after[len(analysisArrayMarker):]
	if last := strings.LastIndex(content, "}"); last > 0 {
		return before + analysisArrayMarker + content[:last+1] + "]"
	}
	return before + `"detailed_analysis": []`
}

// aggressiveAnalysisRepair is the second repair pass. It re-locates the
// analysis array, keeps only its fully closed items, drops whatever
// followed the array, and closes the object.
func aggressiveAnalysisRepair(candidate string) string {
	start := strings.Index(candidate, analysisArrayMarker)
	if start != -1 && !strings.Contains(candidate, `"detailed_analysis": []`) {
		before := candidate[:start]
		content := candidate[start+len(analysisArrayMarker):]
		if end := strings.Index(content, "]"); end != -1 {
			content = content[:end]
		}
		if last := strings.LastIndex(content, "}"); last > 0 {
			candidate = before + analysisArrayMarker + content[:last+1] + "]"
		} else {
			candidate = before + `"detailed_analysis": []`
		}
	}
	if !strings.HasSuffix(candidate, "}") {
		candidate = danglingCommaPattern.ReplaceAllString(candidate, "") + "}"
	}
	return candidate
}

// feedbackFromRaw maps a successfully parsed payload into the public
// record, defaulting what the model left out. Missing criterion scores stay
// at 0 here; only the regex salvage path uses the neutral 3.
func feedbackFromRaw(raw rawFeedback) models.Feedback {
	fb := models.Feedback{
		Score:            raw.Score,
		Completeness:     raw.Completeness,
		Readability:      raw.Readability,
		Accuracy:         raw.Accuracy,
		Style:            raw.Style,
		CompletenessNote: raw.CompletenessNote,
		ReadabilityNote:  raw.ReadabilityNote,
		AccuracyNote:     raw.AccuracyNote,
		StyleNote:        raw.StyleNote,
		DetailedAnalysis: raw.DetailedAnalysis,
		Strengths:        raw.Strengths,
		Weaknesses:       raw.Weaknesses,
		Suggestions:      raw.Suggestions,
		Error:            defaultError,
		Improvement:      defaultImprovement,
		Hint:             defaultHint,
	}
	if fb.CompletenessNote == "" {
		fb.CompletenessNote = notePending
	}
	if fb.ReadabilityNote == "" {
		fb.ReadabilityNote = notePending
	}
	if fb.AccuracyNote == "" {
		fb.AccuracyNote = notePending
	}
	if fb.StyleNote == "" {
		fb.StyleNote = notePending
	}
	if fb.DetailedAnalysis == nil {
		fb.DetailedAnalysis = []models.AnalysisItem{}
	}
	if fb.Strengths == nil {
		fb.Strengths = []string{}
	}
	if fb.Weaknesses == nil {
		fb.Weaknesses = []string{}
	}
	if fb.Suggestions == nil {
		fb.Suggestions = []string{}
	}
	if len(fb.Weaknesses) > 0 {
		fb.Error = fb.Weaknesses[0]
	}
	if len(fb.Suggestions) > 0 {
		fb.Improvement = fb.Suggestions[0]
	}
	if len(fb.Suggestions) > 1 {
		fb.Hint = fb.Suggestions[1]
	}
	return fb
}

// salvageFeedback extracts each known field independently from the raw
// text. Criterion scores default to the neutral midpoint 3 (unlike the 0
// used on the transport failure path), critiques to a fixed placeholder,
// and the top-line triple comes from labeled lines in either language.
func salvageFeedback(text string) models.Feedback {
	fb := models.Feedback{
		Completeness:     salvageCriterion(text, "완전성"),
		Readability:      salvageCriterion(text, "가독성"),
		Accuracy:         salvageCriterion(text, "정확성"),
		Style:            salvageCriterion(text, "스타일"),
		CompletenessNote: salvageCritique(text, "완전성"),
		ReadabilityNote:  salvageCritique(text, "가독성"),
		AccuracyNote:     salvageCritique(text, "정확성"),
		StyleNote:        salvageCritique(text, "스타일"),
		DetailedAnalysis: salvageAnalysisItems(text),
		Strengths:        []string{},
		Weaknesses:       []string{},
		Suggestions:      []string{},
		Error:            salvageLabeledLine(text, defaultError, "오류:", "error:"),
		Improvement:      salvageLabeledLine(text, defaultImprovement, "개선점:", "improvement:"),
		Hint:             salvageLabeledLine(text, defaultHint, "힌트:", "hint:"),
	}
	if m := overallScorePattern.FindStringSubmatch(text); m != nil {
		fb.Score, _ = strconv.Atoi(m[1])
	}
	return fb
}

func salvageCriterion(text, key string) int {
	if m := criterionPatterns[key].FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v != 0 {
			return v
		}
	}
	return 3
}

func salvageCritique(text, key string) string {
	if m := critiquePatterns[key].FindStringSubmatch(text); m != nil && m[1] != "" {
		return m[1]
	}
	return noteBasic
}

// salvageAnalysisItems extracts each detailed_analysis entry on its own,
// so one garbled item does not cost the others.
func salvageAnalysisItems(text string) []models.AnalysisItem {
	items := []models.AnalysisItem{}
	list := analysisListPattern.FindStringSubmatch(text)
	if list == nil {
		return items
	}
	for _, match := range analysisItemPattern.FindAllString(list[1], -1) {
		typeMatch := itemTypePattern.FindStringSubmatch(match)
		textMatch := itemTextPattern.FindStringSubmatch(match)
		commentMatch := itemCommentPattern.FindStringSubmatch(match)
		if typeMatch == nil || textMatch == nil || commentMatch == nil {
			continue
		}
		item := models.AnalysisItem{
			Type:    models.AnalysisType(typeMatch[1]),
			Text:    textMatch[1],
			Comment: commentMatch[1],
		}
		if suggestMatch := itemSuggestPattern.FindStringSubmatch(match); suggestMatch != nil {
			item.Suggestion = suggestMatch[1]
		}
		items = append(items, item)
	}
	return items
}

// salvageLabeledLine scans for a line containing one of the labels, trying
// the Korean label over the whole text before the English one.
func salvageLabeledLine(text, fallback string, labels ...string) string {
	lines := strings.Split(text, "\n")
	for _, label := range labels {
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if strings.Contains(line, label) {
				if value := strings.TrimSpace(strings.Replace(line, label, "", 1)); value != "" {
					return value
				}
				break
			}
		}
	}
	return fallback
}
