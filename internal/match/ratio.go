// Package match implements fuzzy question matching: token-set ratio scoring,
// whole-word synonym substitution and threshold-based answer selection.
package match

import (
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pergunte-russel/russel-bot-go/internal/textnorm"
)

// Ratio returns a similarity score in [0,100] based on Levenshtein
// distance over the raw strings. Identical strings score 100.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	dist := fuzzy.LevenshteinDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

// TokenSetRatio scores two strings by comparing their unique token sets.
// Both inputs are normalized first, so word order, case, accents and
// punctuation do not affect the score. Duplicated words count once.
//
// The score is the maximum of the pairwise ratios between the sorted
// intersection and the intersection joined with each side's remainder.
// Two strings with identical token sets score 100 regardless of order.
func TokenSetRatio(a, b string) int {
	tokensA := uniqueSorted(textnorm.Tokens(a))
	tokensB := uniqueSorted(textnorm.Tokens(b))

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	inA := make(map[string]bool, len(tokensA))
	for _, tok := range tokensA {
		inA[tok] = true
	}
	inB := make(map[string]bool, len(tokensB))
	for _, tok := range tokensB {
		inB[tok] = true
	}

	var intersection, onlyA, onlyB []string
	for _, tok := range tokensA {
		if inB[tok] {
			intersection = append(intersection, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for _, tok := range tokensB {
		if !inA[tok] {
			onlyB = append(onlyB, tok)
		}
	}

	base := strings.Join(intersection, " ")
	combinedA := joinNonEmpty(base, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(base, strings.Join(onlyB, " "))

	score := Ratio(base, combinedA)
	if s := Ratio(base, combinedB); s > score {
		score = s
	}
	if s := Ratio(combinedA, combinedB); s > score {
		score = s
	}
	return score
}

func uniqueSorted(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
