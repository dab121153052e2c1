package services

import (
	"testing"

	"hanbridge/models"
)

func makeExchange(ko, zh int, difficulty models.Difficulty, field string) models.Exchange {
	return models.Exchange{
		Email:       "learner@example.com",
		KoToZhScore: ko,
		ZhToKoScore: zh,
		Difficulty:  difficulty,
		Field:       field,
	}
}

func TestAggregateSessionEmpty(t *testing.T) {
	stats := AggregateSession(nil)

	if stats.TotalProblems != 0 || stats.TotalScore != 0 || stats.AverageScore != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if len(stats.DifficultyStats) != 3 {
		t.Errorf("expected all three tiers present, got %d", len(stats.DifficultyStats))
	}
	for tier, ts := range stats.DifficultyStats {
		if ts.Attempted != 0 || ts.Average != 0 {
			t.Errorf("tier %s should be empty, got %+v", tier, ts)
		}
	}
	if stats.WeakWords == nil || len(stats.WeakWords) != 0 {
		t.Errorf("WeakWords should be an empty slice, got %v", stats.WeakWords)
	}
	if stats.StrongFields == nil || len(stats.StrongFields) != 0 {
		t.Errorf("StrongFields should be an empty slice, got %v", stats.StrongFields)
	}
}

func TestAggregateSessionAverages(t *testing.T) {
	exchanges := []models.Exchange{
		makeExchange(80, 60, models.DifficultyMid, "일상"),
		makeExchange(90, 70, models.DifficultyMid, "일상"),
	}
	stats := AggregateSession(exchanges)

	if stats.TotalProblems != 2 {
		t.Errorf("TotalProblems = %d, want 2", stats.TotalProblems)
	}
	if stats.TotalScore != 300 {
		t.Errorf("TotalScore = %d, want 300", stats.TotalScore)
	}
	// Average over all four direction scores, not per exchange.
	if stats.AverageScore != 75 {
		t.Errorf("AverageScore = %f, want 75", stats.AverageScore)
	}
}

func TestAggregateSessionStreakAllSuccessful(t *testing.T) {
	exchanges := []models.Exchange{
		makeExchange(70, 70, models.DifficultyLow, "일상"),
		makeExchange(70, 70, models.DifficultyLow, "일상"),
		makeExchange(70, 70, models.DifficultyLow, "일상"),
	}
	stats := AggregateSession(exchanges)

	if stats.BestStreak != 3 {
		t.Errorf("BestStreak = %d, want 3", stats.BestStreak)
	}
	if stats.AccuracyRate != 1 {
		t.Errorf("AccuracyRate = %f, want 1", stats.AccuracyRate)
	}
}

func TestAggregateSessionStreakBrokenByFailure(t *testing.T) {
	exchanges := []models.Exchange{
		makeExchange(80, 80, models.DifficultyMid, "일상"),
		makeExchange(50, 50, models.DifficultyMid, "일상"),
		makeExchange(80, 80, models.DifficultyMid, "일상"),
		makeExchange(80, 80, models.DifficultyMid, "일상"),
	}
	stats := AggregateSession(exchanges)

	if stats.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", stats.BestStreak)
	}
	if stats.AccuracyRate != 0.75 {
		t.Errorf("AccuracyRate = %f, want 0.75", stats.AccuracyRate)
	}
}

func TestAggregateSessionSuccessUsesExchangeMean(t *testing.T) {
	// 85 and 72 average to 78.5, above the threshold even though one
	// direction alone would not clear 80.
	exchanges := []models.Exchange{
		makeExchange(85, 72, models.DifficultyHigh, "사회"),
	}
	stats := AggregateSession(exchanges)

	if stats.AccuracyRate != 1 {
		t.Errorf("AccuracyRate = %f, want 1", stats.AccuracyRate)
	}
	// Not a strong field: the backward direction is below 80.
	if len(stats.StrongFields) != 0 {
		t.Errorf("StrongFields = %v, want empty", stats.StrongFields)
	}
}

func TestAggregateSessionPerTierBreakdown(t *testing.T) {
	exchanges := []models.Exchange{
		makeExchange(60, 80, models.DifficultyLow, "일상"),
		makeExchange(80, 80, models.DifficultyHigh, "사회"),
		makeExchange(60, 60, models.DifficultyHigh, "사회"),
	}
	stats := AggregateSession(exchanges)

	low := stats.DifficultyStats[models.DifficultyLow]
	if low.Attempted != 1 || low.Average != 70 {
		t.Errorf("low tier = %+v, want attempted 1 average 70", low)
	}
	high := stats.DifficultyStats[models.DifficultyHigh]
	if high.Attempted != 2 || high.Average != 70 {
		t.Errorf("high tier = %+v, want attempted 2 average 70", high)
	}
	mid := stats.DifficultyStats[models.DifficultyMid]
	if mid.Attempted != 0 || mid.Average != 0 {
		t.Errorf("mid tier = %+v, want empty", mid)
	}
}

func TestAggregateSessionWeakWords(t *testing.T) {
	weak := makeExchange(50, 90, models.DifficultyMid, "일상")
	weak.UserKoToZh = "今天 weather 天气真好"
	weak.UserZhToKo = "오늘 tianqi 날씨가 좋다"

	strong := makeExchange(90, 90, models.DifficultyMid, "일상")
	strong.UserKoToZh = "不该出现"
	strong.UserZhToKo = "나오면안됨"

	stats := AggregateSession([]models.Exchange{weak, strong})

	want := []string{"今天", "天气真好", "오늘", "날씨가", "좋다"}
	if len(stats.WeakWords) != len(want) {
		t.Fatalf("WeakWords = %v, want %v", stats.WeakWords, want)
	}
	for i, w := range want {
		if stats.WeakWords[i] != w {
			t.Errorf("WeakWords[%d] = %q, want %q", i, stats.WeakWords[i], w)
		}
	}
}

func TestAggregateSessionWeakWordsDeduplicatedAndCapped(t *testing.T) {
	exchanges := []models.Exchange{}
	for i := 0; i < 3; i++ {
		ex := makeExchange(40, 40, models.DifficultyLow, "일상")
		ex.UserKoToZh = "一 二 三 四 五 六 七 八 九 十 百 千"
		exchanges = append(exchanges, ex)
	}
	stats := AggregateSession(exchanges)

	if len(stats.WeakWords) != maxWeakWords {
		t.Errorf("WeakWords length = %d, want %d", len(stats.WeakWords), maxWeakWords)
	}
	seen := map[string]bool{}
	for _, w := range stats.WeakWords {
		if seen[w] {
			t.Errorf("duplicate weak word %q", w)
		}
		seen[w] = true
	}
}

func TestAggregateSessionStrongFields(t *testing.T) {
	exchanges := []models.Exchange{
		makeExchange(85, 80, models.DifficultyMid, "기술"),
		makeExchange(90, 95, models.DifficultyMid, "기술"),
		makeExchange(90, 95, models.DifficultyHigh, "사회"),
		makeExchange(90, 79, models.DifficultyHigh, "경제"),
	}
	stats := AggregateSession(exchanges)

	want := []string{"기술", "사회"}
	if len(stats.StrongFields) != len(want) {
		t.Fatalf("StrongFields = %v, want %v", stats.StrongFields, want)
	}
	for i, f := range want {
		if stats.StrongFields[i] != f {
			t.Errorf("StrongFields[%d] = %q, want %q", i, stats.StrongFields[i], f)
		}
	}
}
