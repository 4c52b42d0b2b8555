package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordPattern splits text into the tokens phrases are built from. Résumés are
// matched against the same token stream, so "machine. learning" still
// contains the phrase "machine learning".
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

const (
	minBigramLength  = 7
	minTrigramLength = 11
)

// jobPhrases builds the ordered, de-duplicated set of 2- and 3-word phrases
// from lower-cased text, skipping bigrams of 6 runes or fewer and trigrams of
// 10 runes or fewer.
func jobPhrases(lowered string) []string {
	tokens := wordPattern.FindAllString(lowered, -1)
	set := newOrderedSet()
	for i := 0; i+1 < len(tokens); i++ {
		if p := tokens[i] + " " + tokens[i+1]; utf8.RuneCountInString(p) >= minBigramLength {
			set.add(p)
		}
	}
	for i := 0; i+2 < len(tokens); i++ {
		if p := tokens[i] + " " + tokens[i+1] + " " + tokens[i+2]; utf8.RuneCountInString(p) >= minTrigramLength {
			set.add(p)
		}
	}
	return set.items
}

// relevance returns the share of phrases found in the résumé as a percentage
// with one decimal, together with the matched phrases. A phrase counts when
// it appears in the lower-cased résumé text or in the résumé's word stream,
// so punctuation between words does not hide a match.
func relevance(phrases []string, resumeLower string) (float64, []string) {
	if len(phrases) == 0 {
		return 0, nil
	}
	words := strings.Join(wordPattern.FindAllString(resumeLower, -1), " ")

	var matched []string
	for _, p := range phrases {
		if strings.Contains(resumeLower, p) || strings.Contains(words, p) {
			matched = append(matched, p)
		}
	}
	score := float64(len(matched)) / float64(len(phrases)) * 100
	return round1(math.Max(0, math.Min(100, score))), matched
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
