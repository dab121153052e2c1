package services

import (
	"strings"
	"unicode"
)

// Punctuation collapsed to whitespace before tokenizing. Covers the ASCII
// and CJK variants that show up in mixed Korean/Chinese/English text.
const similarityPunctuation = "()（）【】[].,。，？！?!"

// Similarity returns the Jaccard overlap of the token sets of a and b,
// in [0,1]. Tokenization is whitespace and punctuation driven rather than
// script aware, so Latin, Hangul and Han input are treated uniformly.
// Identical strings (including two empty ones) score 1; if only one side
// is empty the score is 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	wordsA := tokenize(a)
	wordsB := tokenize(b)
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := tokenSet(wordsA)
	setB := tokenSet(wordsB)

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(similarityPunctuation, r)
	})
}

func tokenSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}
