// Package match implements the fuzzy column matcher used to bind
// arbitrarily-named spreadsheet headers to canonical field names.
package match

import (
	"strings"
	"unicode"
)

// Weights holds the scoring constants of the matcher. They are additive:
// a (candidate, column) pair accumulates every heuristic it satisfies.
type Weights struct {
	Exact         float64 // case-insensitive equality
	Substring     float64 // either name contains the other
	TokenOverlap  float64 // scaled by Jaccard index over alnum tokens
	Similarity    float64 // scaled by sequence-similarity ratio in [0,1]
	LengthPenalty float64 // per character of the column name
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{
		Exact:         120,
		Substring:     80,
		TokenOverlap:  40,
		Similarity:    40,
		LengthPenalty: 0.01,
	}
}

// BestMatch returns the column whose score against any candidate is the
// global maximum, provided it reaches minScore; otherwise "". Ties keep
// the first pair encountered, candidates outer, columns inner.
func BestMatch(columns, candidates []string, minScore float64) string {
	return BestMatchWeighted(columns, candidates, minScore, DefaultWeights())
}

// BestMatchWeighted is BestMatch with explicit weights, so tests can probe
// boundary scores directly.
func BestMatchWeighted(columns, candidates []string, minScore float64, w Weights) string {
	if len(columns) == 0 {
		return ""
	}

	lower := make([]string, len(columns))
	for i, c := range columns {
		lower[i] = strings.ToLower(c)
	}

	bestCol := ""
	bestScore := 0.0

	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		candLower := strings.ToLower(cand)
		candTokens := tokenize(candLower)

		for i, col := range columns {
			colLower := lower[i]
			score := 0.0

			if colLower == candLower {
				score += w.Exact
			}
			if strings.Contains(colLower, candLower) || strings.Contains(candLower, colLower) {
				score += w.Substring
			}
			if len(candTokens) > 0 {
				if colTokens := tokenize(colLower); len(colTokens) > 0 {
					score += w.TokenOverlap * jaccard(candTokens, colTokens)
				}
			}
			score += w.Similarity * Ratio(candLower, colLower)
			score -= w.LengthPenalty * float64(len(colLower))

			if score > bestScore {
				bestScore = score
				bestCol = col
			}
		}
	}

	if bestScore >= minScore {
		return bestCol
	}
	return ""
}

// tokenize splits a lowercase name into alphanumeric tokens.
func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Ratio is a sequence-similarity measure in [0,1]: twice the length of the
// longest common subsequence over the total length of both strings.
func Ratio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	return 2 * float64(lcs(a, b)) / float64(len(a)+len(b))
}

func lcs(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
